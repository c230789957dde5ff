package rpc

import "encoding/json"

// Frame is the request envelope published to a worker queue. Pattern selects
// the handler on the receiving side, ID is the correlation ID echoed back on
// the reply.
type Frame struct {
	Pattern string          `json:"pattern"`
	ID      string          `json:"id"`
	Data    json.RawMessage `json:"data,omitempty"`
}
