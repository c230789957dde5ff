package auth

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/go-academy-auth/envelope"
	"github.com/jrsteele09/go-academy-auth/rpc"
)

// Request patterns served by the auth worker.
const (
	PatternSignup  = "signup"
	PatternSignin  = "signin"
	PatternSignout = "signout"
)

// WorkerHandlers builds the request handlers the auth worker serves. Every
// handler replies with a ServiceResponse; malformed payloads become failure
// envelopes rather than faults.
func WorkerHandlers(service *Service) map[string]rpc.HandlerFunc {
	return map[string]rpc.HandlerFunc{
		"check_connection": func(ctx context.Context, data json.RawMessage) any {
			return true
		},

		PatternSignup: func(ctx context.Context, data json.RawMessage) any {
			var req SignupRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return envelope.Fail(400, "Invalid request payload")
			}
			return service.Signup(ctx, req)
		},

		PatternSignin: func(ctx context.Context, data json.RawMessage) any {
			var req SigninRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return envelope.Fail(400, "Invalid request payload")
			}
			return service.Signin(ctx, req)
		},

		PatternSignout: func(ctx context.Context, data json.RawMessage) any {
			var req SignoutRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return envelope.Fail(400, "Invalid request payload")
			}
			return service.Signout(ctx, req)
		},
	}
}
