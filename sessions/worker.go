package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-academy-auth/envelope"
	"github.com/jrsteele09/go-academy-auth/kv"
	"github.com/jrsteele09/go-academy-auth/rpc"
)

// WorkerHandlers builds the request handlers the session-store worker
// serves. The worker is the remote side of Store: it owns the records and
// their TTL-driven expiry via the backing KeyValueStore.
func WorkerHandlers(store kv.KeyValueStore) map[string]rpc.HandlerFunc {
	return map[string]rpc.HandlerFunc{
		"check_connection": func(ctx context.Context, data json.RawMessage) any {
			return true
		},

		PatternSet: func(ctx context.Context, data json.RawMessage) any {
			var payload setPayload
			if err := json.Unmarshal(data, &payload); err != nil {
				return envelope.Fail(400, "Invalid request payload")
			}
			ttl := time.Duration(payload.ExpireTime) * time.Millisecond
			if err := store.Set(payload.Key, payload.Value, ttl); err != nil {
				return envelope.Fail(500, "Session store error")
			}
			return envelope.OK(200, struct{}{})
		},

		PatternGet: func(ctx context.Context, data json.RawMessage) any {
			var payload keyPayload
			if err := json.Unmarshal(data, &payload); err != nil {
				return envelope.Fail(400, "Invalid request payload")
			}
			value, err := store.Get(payload.Key)
			if err != nil {
				if errors.Is(err, kv.ErrNotFound) {
					return envelope.Fail(404, "Session record not found")
				}
				return envelope.Fail(500, "Session store error")
			}
			return envelope.OK(200, valueData{Value: value})
		},

		PatternDel: func(ctx context.Context, data json.RawMessage) any {
			var payload keyPayload
			if err := json.Unmarshal(data, &payload); err != nil {
				return envelope.Fail(400, "Invalid request payload")
			}
			if err := store.Del(payload.Key); err != nil {
				if errors.Is(err, kv.ErrNotFound) {
					return envelope.Fail(404, "Session record not found")
				}
				return envelope.Fail(500, "Session store error")
			}
			return envelope.OK(200, struct{}{})
		},
	}
}
