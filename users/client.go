package users

import (
	"context"
	"time"

	"github.com/jrsteele09/go-academy-auth/envelope"
	"github.com/jrsteele09/go-academy-auth/rpc"
)

// Request patterns served by the user-store worker.
const (
	PatternCreate          = "create_user"
	PatternGetByIdentifier = "get_user_by_identifier"
)

type getByIdentifierPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Client is the RPC facade over the remote user store. Methods return the
// remote envelope verbatim so domain failures (duplicate email, unknown
// user) can be propagated unchanged; the error return is transport-level
// only.
type Client struct {
	caller  rpc.Caller
	queue   string
	timeout time.Duration
}

// NewClient creates a Client calling the user-store worker on the given
// queue.
func NewClient(caller rpc.Caller, queue string, timeout time.Duration) *Client {
	return &Client{
		caller:  caller,
		queue:   queue,
		timeout: timeout,
	}
}

// Create delegates user creation to the user store. The password field must
// already be hashed; plaintext never crosses the transport.
func (c *Client) Create(ctx context.Context, user NewUser) (envelope.Raw, error) {
	body, err := c.caller.Call(ctx, c.queue, PatternCreate, user, c.timeout)
	if err != nil {
		return envelope.Raw{}, err
	}
	return envelope.Decode(body)
}

// GetByIdentifier fetches the credential record for an email address.
func (c *Client) GetByIdentifier(ctx context.Context, email, password string) (envelope.Raw, error) {
	body, err := c.caller.Call(ctx, c.queue, PatternGetByIdentifier, getByIdentifierPayload{
		Email:    email,
		Password: password,
	}, c.timeout)
	if err != nil {
		return envelope.Raw{}, err
	}
	return envelope.Decode(body)
}
