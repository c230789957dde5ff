// Package health verifies that remote collaborators are reachable before a
// mutating operation is attempted against them.
package health

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-academy-auth/rpc"
)

// DefaultProbeTimeout bounds each individual liveness probe.
const DefaultProbeTimeout = 4500 * time.Millisecond

const probePattern = "check_connection"

// Dependency names a remote collaborator and the queue its worker consumes.
type Dependency struct {
	Name  string // used in failure messages, e.g. "session"
	Queue string
}

// Failure is the first dependency, in declared order, whose probe did not
// succeed.
type Failure struct {
	Name string
	Err  error
}

func (f *Failure) Error() string {
	return f.Name + " service is not connected"
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Prober fires concurrent liveness probes against named dependencies.
type Prober struct {
	caller  rpc.Caller
	timeout time.Duration
}

// ProberOption modifies a Prober instance.
type ProberOption func(*Prober)

// WithProbeTimeout overrides the per-probe timeout.
func WithProbeTimeout(timeout time.Duration) ProberOption {
	return func(p *Prober) {
		p.timeout = timeout
	}
}

// NewProber creates a Prober issuing probes over the given caller.
func NewProber(caller rpc.Caller, options ...ProberOption) *Prober {
	p := &Prober{
		caller:  caller,
		timeout: DefaultProbeTimeout,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// CheckAll probes every dependency concurrently, then inspects the results
// in the caller-declared order. The first declared dependency that failed is
// reported, even if a later-declared one failed earlier in wall-clock time.
// Callers that need deterministic error precedence declare dependencies in
// priority order.
//
// Each probe carries its own timeout, so the overall latency is bounded by
// the slowest single probe, not the sum. A probe is not aborted at the
// transport level once dispatched; a late reply is discarded by the client's
// correlation matching.
func (p *Prober) CheckAll(ctx context.Context, dependencies []Dependency) error {
	results := make([]error, len(dependencies))

	var wg sync.WaitGroup
	for i, dep := range dependencies {
		wg.Add(1)
		go func(i int, dep Dependency) {
			defer wg.Done()
			results[i] = p.probe(ctx, dep)
		}(i, dep)
	}
	wg.Wait()

	for i, dep := range dependencies {
		if results[i] != nil {
			return &Failure{Name: dep.Name, Err: results[i]}
		}
	}
	return nil
}

func (p *Prober) probe(ctx context.Context, dep Dependency) error {
	body, err := p.caller.Call(ctx, dep.Queue, probePattern, struct{}{}, p.timeout)
	if err != nil {
		return err
	}

	// The liveness reply is a bare boolean, not an envelope.
	var alive bool
	if err := json.Unmarshal(body, &alive); err != nil {
		return errors.Wrapf(err, "[Prober.probe] malformed probe reply from %q", dep.Queue)
	}
	if !alive {
		return errors.Errorf("[Prober.probe] %q replied not alive", dep.Queue)
	}
	return nil
}
