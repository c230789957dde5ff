package health_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-academy-auth/health"
	"github.com/jrsteele09/go-academy-auth/rpc/rpcfake"
)

func aliveHandler(ctx context.Context, data json.RawMessage) any {
	return true
}

func setupTransport(queues ...string) *rpcfake.FakeTransport {
	transport := rpcfake.NewFakeTransport()
	for _, queue := range queues {
		transport.Register(queue, "check_connection", aliveHandler)
	}
	return transport
}

func TestCheckAllHealthy(t *testing.T) {
	transport := setupTransport("a_queue", "b_queue")
	prober := health.NewProber(transport)

	err := prober.CheckAll(context.Background(), []health.Dependency{
		{Name: "a", Queue: "a_queue"},
		{Name: "b", Queue: "b_queue"},
	})
	require.NoError(t, err)
}

func TestFirstDeclaredFailureWins(t *testing.T) {
	transport := setupTransport("a_queue", "b_queue")
	transport.SetDown("a_queue", true)
	transport.SetDown("b_queue", true)

	prober := health.NewProber(transport)
	err := prober.CheckAll(context.Background(), []health.Dependency{
		{Name: "a", Queue: "a_queue"},
		{Name: "b", Queue: "b_queue"},
	})
	require.Error(t, err)

	var failure *health.Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, "a", failure.Name)
	require.Equal(t, "a service is not connected", err.Error())
}

func TestDeclaredOrderBeatsCompletionOrder(t *testing.T) {
	transport := setupTransport("slow_queue", "down_queue")
	// The first-declared dependency times out; the second fails instantly.
	transport.SetLatency("slow_queue", "check_connection", time.Second)
	transport.SetDown("down_queue", true)

	prober := health.NewProber(transport, health.WithProbeTimeout(50*time.Millisecond))
	err := prober.CheckAll(context.Background(), []health.Dependency{
		{Name: "slow", Queue: "slow_queue"},
		{Name: "down", Queue: "down_queue"},
	})

	var failure *health.Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, "slow", failure.Name)
}

func TestProbesRunConcurrently(t *testing.T) {
	transport := setupTransport("a_queue", "b_queue")
	transport.SetLatency("a_queue", "check_connection", 60*time.Millisecond)
	transport.SetLatency("b_queue", "check_connection", 60*time.Millisecond)

	prober := health.NewProber(transport, health.WithProbeTimeout(500*time.Millisecond))

	start := time.Now()
	err := prober.CheckAll(context.Background(), []health.Dependency{
		{Name: "a", Queue: "a_queue"},
		{Name: "b", Queue: "b_queue"},
	})
	elapsed := time.Since(start)

	require.NoError(t, err)
	// Bounded by the slowest single probe, not the sum.
	require.Less(t, elapsed, 120*time.Millisecond)
}

func TestNotAliveReplyIsFailure(t *testing.T) {
	transport := rpcfake.NewFakeTransport()
	transport.Register("a_queue", "check_connection", func(ctx context.Context, data json.RawMessage) any {
		return false
	})

	prober := health.NewProber(transport)
	err := prober.CheckAll(context.Background(), []health.Dependency{
		{Name: "a", Queue: "a_queue"},
	})

	var failure *health.Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, "a", failure.Name)
}
