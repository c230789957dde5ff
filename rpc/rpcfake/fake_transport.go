package rpcfake

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-academy-auth/rpc"
)

var _ rpc.Caller = (*FakeTransport)(nil)

// FakeTransport is an in-memory rpc.Caller. Handlers are registered per
// queue and pattern with the same HandlerFunc signature the real server
// uses, so worker wiring can be exercised without a broker.
type FakeTransport struct {
	mu       sync.Mutex
	handlers map[string]map[string]rpc.HandlerFunc
	down     map[string]bool
	latency  map[string]time.Duration
	calls    map[string]int
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		handlers: make(map[string]map[string]rpc.HandlerFunc),
		down:     make(map[string]bool),
		latency:  make(map[string]time.Duration),
		calls:    make(map[string]int),
	}
}

// Register installs the handler for a queue/pattern pair.
func (f *FakeTransport) Register(queue, pattern string, handler rpc.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.handlers[queue] == nil {
		f.handlers[queue] = make(map[string]rpc.HandlerFunc)
	}
	f.handlers[queue][pattern] = handler
}

// SetDown marks a queue as unreachable; calls to it fail with
// ErrDependencyUnavailable.
func (f *FakeTransport) SetDown(queue string, down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down[queue] = down
}

// SetLatency delays replies for a queue/pattern pair. A latency at or above
// the caller's timeout produces ErrDependencyTimeout.
func (f *FakeTransport) SetLatency(queue, pattern string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latency[queue+"/"+pattern] = d
}

// CallCount reports how many calls reached a queue/pattern pair, including
// ones that subsequently timed out.
func (f *FakeTransport) CallCount(queue, pattern string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[queue+"/"+pattern]
}

func (f *FakeTransport) Call(ctx context.Context, queue, pattern string, payload any, timeout time.Duration) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "[FakeTransport.Call] marshal payload")
	}

	f.mu.Lock()
	f.calls[queue+"/"+pattern]++
	down := f.down[queue]
	latency := f.latency[queue+"/"+pattern]
	var handler rpc.HandlerFunc
	if f.handlers[queue] != nil {
		handler = f.handlers[queue][pattern]
	}
	f.mu.Unlock()

	if down {
		return nil, errors.Wrapf(rpc.ErrDependencyUnavailable, "queue %q is down", queue)
	}

	if latency >= timeout {
		time.Sleep(timeout)
		return nil, errors.Wrapf(rpc.ErrDependencyTimeout, "%s %q after %s", queue, pattern, timeout)
	}
	if latency > 0 {
		time.Sleep(latency)
	}

	if handler == nil {
		return nil, errors.Wrapf(rpc.ErrDependencyUnavailable, "no handler for %s %q", queue, pattern)
	}

	body, err := json.Marshal(handler(ctx, data))
	if err != nil {
		return nil, errors.Wrap(err, "[FakeTransport.Call] marshal reply")
	}
	return body, nil
}
