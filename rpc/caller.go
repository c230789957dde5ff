package rpc

import (
	"context"
	"time"
)

// Caller issues one request/response call against a worker queue. Implemented
// by *Client for RabbitMQ and by rpcfake.FakeTransport in tests.
type Caller interface {
	Call(ctx context.Context, queue, pattern string, payload any, timeout time.Duration) ([]byte, error)
}
