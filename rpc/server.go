package rpc

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-academy-auth/envelope"
)

// HandlerFunc processes one request payload and returns the value to reply
// with. Handlers return envelopes for domain operations and bare values for
// liveness probes.
type HandlerFunc func(ctx context.Context, data json.RawMessage) any

// Server consumes a worker queue and dispatches requests to pattern handlers.
type Server struct {
	conn     *amqp.Connection
	chn      *amqp.Channel
	queue    string
	handlers map[string]HandlerFunc
}

// NewServer dials the broker and declares the durable worker queue.
func NewServer(url, queue string) (*Server, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "[rpc.NewServer] dial")
	}

	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "[rpc.NewServer] open channel")
	}

	if _, err := chn.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		chn.Close()
		conn.Close()
		return nil, errors.Wrapf(err, "[rpc.NewServer] declare queue %q", queue)
	}

	return &Server{
		conn:     conn,
		chn:      chn,
		queue:    queue,
		handlers: make(map[string]HandlerFunc),
	}, nil
}

// Handle registers the handler for a request pattern. Registration must
// finish before Run is called.
func (s *Server) Handle(pattern string, handler HandlerFunc) {
	s.handlers[pattern] = handler
}

// Run consumes the worker queue until ctx is cancelled or the broker closes
// the delivery channel.
func (s *Server) Run(ctx context.Context) error {
	deliveries, err := s.chn.Consume(s.queue, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrapf(err, "[Server.Run] consume %q", s.queue)
	}

	log.Info().Str("queue", s.queue).Msg("rpc server listening")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.Wrap(ErrDependencyUnavailable, "[Server.Run] delivery channel closed")
			}
			s.serve(ctx, d)
		}
	}
}

func (s *Server) serve(ctx context.Context, d amqp.Delivery) {
	body := s.dispatch(ctx, d.Body)

	if d.ReplyTo != "" {
		err := s.chn.PublishWithContext(ctx, "", d.ReplyTo, false, false, amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: d.CorrelationId,
			Body:          body,
		})
		if err != nil {
			log.Error().Err(err).Str("queue", s.queue).Msg("failed to publish reply")
		}
	}

	if err := d.Ack(false); err != nil {
		log.Error().Err(err).Str("queue", s.queue).Msg("failed to ack delivery")
	}
}

// dispatch resolves the frame's pattern handler and serializes its result.
// Malformed frames and unknown patterns reply with failure envelopes so the
// caller always receives a structured result.
func (s *Server) dispatch(ctx context.Context, body []byte) []byte {
	var frame Frame
	if err := json.Unmarshal(body, &frame); err != nil {
		return mustMarshal(envelope.Fail(400, "Invalid request payload"))
	}

	handler, ok := s.handlers[frame.Pattern]
	if !ok {
		log.Warn().Str("queue", s.queue).Str("pattern", frame.Pattern).Msg("unknown request pattern")
		return mustMarshal(envelope.Fail(404, "Unknown request pattern"))
	}

	return mustMarshal(handler(ctx, frame.Data))
}

// Close releases the channel and connection.
func (s *Server) Close() error {
	if err := s.chn.Close(); err != nil {
		return errors.Wrap(err, "[Server.Close] close channel")
	}
	if err := s.conn.Close(); err != nil {
		return errors.Wrap(err, "[Server.Close] close connection")
	}
	return nil
}

func mustMarshal(v any) []byte {
	body, err := json.Marshal(v)
	if err != nil {
		// Handler results are plain structs and maps; marshalling them
		// cannot fail at runtime with well-formed handlers.
		log.Error().Err(err).Msg("failed to marshal reply")
		return []byte(`{"error":true,"message":"Internal error","status":500}`)
	}
	return body
}
