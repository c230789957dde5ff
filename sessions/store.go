// Package sessions is the facade over the remote session store, used
// exclusively for refresh-token bookkeeping. All operations are RPC calls to
// the session-store worker and individually timeout-bounded.
package sessions

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-academy-auth/envelope"
	"github.com/jrsteele09/go-academy-auth/rpc"
)

// ErrNotFound is the typed result for a missing session record. Missing is a
// normal, expected outcome (an already-logged-out token), not an
// infrastructure failure; callers must branch on it explicitly.
var ErrNotFound = errors.New("session record not found")

// Request patterns served by the session-store worker.
const (
	PatternGet = "get_session"
	PatternSet = "set_session"
	PatternDel = "del_session"
)

type setPayload struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	ExpireTime int64  `json:"expireTime"` // milliseconds
}

type keyPayload struct {
	Key string `json:"key"`
}

type valueData struct {
	Value string `json:"value"`
}

// Store exposes set-with-ttl, get and delete against the remote store.
type Store struct {
	caller  rpc.Caller
	queue   string
	timeout time.Duration
}

// NewStore creates a Store calling the session worker on the given queue.
func NewStore(caller rpc.Caller, queue string, timeout time.Duration) *Store {
	return &Store{
		caller:  caller,
		queue:   queue,
		timeout: timeout,
	}
}

// Set stores value under key with the given ttl. The store owns expiry;
// there is no client-side sweep.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	body, err := s.caller.Call(ctx, s.queue, PatternSet, setPayload{
		Key:        key,
		Value:      value,
		ExpireTime: ttl.Milliseconds(),
	}, s.timeout)
	if err != nil {
		return err
	}

	resp, err := envelope.Decode(body)
	if err != nil {
		return err
	}
	if resp.Error {
		return errors.Errorf("[Store.Set] %s", resp.Message)
	}
	return nil
}

// Get retrieves the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	body, err := s.caller.Call(ctx, s.queue, PatternGet, keyPayload{Key: key}, s.timeout)
	if err != nil {
		return "", err
	}

	resp, err := envelope.Decode(body)
	if err != nil {
		return "", err
	}
	if resp.Error {
		if resp.Status == 404 {
			return "", ErrNotFound
		}
		return "", errors.Errorf("[Store.Get] %s", resp.Message)
	}

	var data valueData
	if err := resp.DecodeData(&data); err != nil {
		return "", err
	}
	return data.Value, nil
}

// Del removes the record under key, returning ErrNotFound if no record
// exists.
func (s *Store) Del(ctx context.Context, key string) error {
	body, err := s.caller.Call(ctx, s.queue, PatternDel, keyPayload{Key: key}, s.timeout)
	if err != nil {
		return err
	}

	resp, err := envelope.Decode(body)
	if err != nil {
		return err
	}
	if resp.Error {
		if resp.Status == 404 {
			return ErrNotFound
		}
		return errors.Errorf("[Store.Del] %s", resp.Message)
	}
	return nil
}
