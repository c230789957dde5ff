package rpc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Client performs request/response calls over RabbitMQ. Each call publishes
// a Frame to the target queue and waits on a private reply queue for a
// message with the matching correlation ID.
//
// There is no retry inside Call: retrying blindly could double-execute
// non-idempotent remote mutations, so retries are the caller's choice.
type Client struct {
	conn       *amqp.Connection
	chn        *amqp.Channel
	replyQueue string

	mu      sync.Mutex
	pending map[string]chan []byte
}

var _ Caller = (*Client)(nil)

// NewClient dials the broker and sets up the exclusive reply queue.
func NewClient(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "[rpc.NewClient] dial")
	}

	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "[rpc.NewClient] open channel")
	}

	// Server-named, exclusive, auto-delete reply queue for this client.
	q, err := chn.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		chn.Close()
		conn.Close()
		return nil, errors.Wrap(err, "[rpc.NewClient] declare reply queue")
	}

	deliveries, err := chn.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		chn.Close()
		conn.Close()
		return nil, errors.Wrap(err, "[rpc.NewClient] consume reply queue")
	}

	c := &Client{
		conn:       conn,
		chn:        chn,
		replyQueue: q.Name,
		pending:    make(map[string]chan []byte),
	}
	go c.dispatchReplies(deliveries)

	return c, nil
}

// Call publishes one request and races the reply against timeout. A reply
// arriving after the deadline is discarded by the dispatch loop because its
// correlation ID is no longer pending.
func (c *Client) Call(ctx context.Context, queue, pattern string, payload any, timeout time.Duration) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Call] marshal payload")
	}

	id := uuid.New().String()
	body, err := json.Marshal(Frame{Pattern: pattern, ID: id, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Call] marshal frame")
	}

	reply := make(chan []byte, 1)
	c.mu.Lock()
	c.pending[id] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	err = c.chn.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: id,
		ReplyTo:       c.replyQueue,
		Body:          body,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrDependencyUnavailable, "publish to %q: %v", queue, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case respBody := <-reply:
		return respBody, nil
	case <-timer.C:
		return nil, errors.Wrapf(ErrDependencyTimeout, "%s %q after %s", queue, pattern, timeout)
	case <-ctx.Done():
		return nil, errors.Wrapf(ErrDependencyUnavailable, "%s %q: %v", queue, pattern, ctx.Err())
	}
}

func (c *Client) dispatchReplies(deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		c.mu.Lock()
		reply, ok := c.pending[d.CorrelationId]
		if ok {
			delete(c.pending, d.CorrelationId)
		}
		c.mu.Unlock()

		if !ok {
			// Late reply for a call that already timed out.
			log.Debug().Str("correlation_id", d.CorrelationId).Msg("discarding unmatched reply")
			continue
		}
		reply <- d.Body
	}
}

// Close releases the channel and connection.
func (c *Client) Close() error {
	if err := c.chn.Close(); err != nil {
		return errors.Wrap(err, "[Client.Close] close channel")
	}
	if err := c.conn.Close(); err != nil {
		return errors.Wrap(err, "[Client.Close] close connection")
	}
	return nil
}
