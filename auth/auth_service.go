// Package auth implements the signup/signin/signout orchestrator. It
// coordinates the remote user store, the token issuer and the remote session
// store, each reachable only through timeout-bounded RPC, and converts every
// outcome into a ServiceResponse envelope. Nothing escapes the orchestrator
// as an unstructured fault.
package auth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-academy-auth/envelope"
	"github.com/jrsteele09/go-academy-auth/health"
	"github.com/jrsteele09/go-academy-auth/sessions"
	"github.com/jrsteele09/go-academy-auth/token"
	"github.com/jrsteele09/go-academy-auth/users"
)

// SignupRequest carries the identifier fields and plaintext password of a
// registration. The password is hashed before it crosses the transport.
type SignupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Password  string `json:"password"`
}

// SigninRequest carries login credentials.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignoutRequest carries the refresh token to revoke.
type SignoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Deps holds all dependencies for the Service. Clients are explicitly
// constructed and injected; the orchestrator holds no ambient global state.
type Deps struct {
	Users    *users.Client
	Sessions *sessions.Store
	Prober   *health.Prober
	Issuer   *token.Issuer

	// Queues the health prober targets for the two remote stores.
	UsersQueue   string
	SessionQueue string
}

// Service is the auth orchestrator. Each operation runs a linear state
// machine: dependency check, business logic, persist/lookup, respond.
type Service struct {
	users    *users.Client
	sessions *sessions.Store
	prober   *health.Prober
	issuer   *token.Issuer

	userDep    health.Dependency
	sessionDep health.Dependency
}

// NewService initializes a Service with required dependencies.
func NewService(deps Deps) (*Service, error) {
	if deps.Users == nil {
		return nil, errors.New("[NewService] Users client is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("[NewService] Sessions store is required")
	}
	if deps.Prober == nil {
		return nil, errors.New("[NewService] Prober is required")
	}
	if deps.Issuer == nil {
		return nil, errors.New("[NewService] Issuer is required")
	}

	return &Service{
		users:      deps.Users,
		sessions:   deps.Sessions,
		prober:     deps.Prober,
		issuer:     deps.Issuer,
		userDep:    health.Dependency{Name: "user", Queue: deps.UsersQueue},
		sessionDep: health.Dependency{Name: "session", Queue: deps.SessionQueue},
	}, nil
}

// Signup registers a new user and issues a token pair.
//
// The session store is probed before the user store: declared order is
// error-precedence order. No user-creation attempt is made if either
// dependency is down. User creation and token persistence are two
// independent calls with no distributed transaction; if the session write
// fails after the user store succeeded, the account exists without a valid
// refresh token and the client falls back to signin.
func (s *Service) Signup(ctx context.Context, req SignupRequest) envelope.ServiceResponse {
	if err := s.prober.CheckAll(ctx, []health.Dependency{s.sessionDep, s.userDep}); err != nil {
		return envelope.Fail(503, err.Error())
	}

	hash, err := users.HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("signup: password hashing failed")
		return envelope.Fail(500, MsgInternalError)
	}

	resp, err := s.users.Create(ctx, users.NewUser{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
	})
	if err != nil {
		log.Warn().Err(err).Msg("signup: user store unreachable")
		return s.notConnected(s.userDep)
	}
	if resp.Error {
		// Domain failure (e.g. duplicate email) propagated unchanged.
		return resp.Envelope()
	}

	var created users.User
	if err := resp.DecodeData(&created); err != nil {
		log.Error().Err(err).Msg("signup: malformed user store reply")
		return envelope.Fail(500, MsgInternalError)
	}

	return s.issueAndPersist(ctx, token.Principal{ID: created.ID}, 201)
}

// Signin authenticates credentials and issues a token pair.
//
// Only the user store is probed up front; the session write happens later
// and surfaces its own failure at that point. This asymmetry against signup
// is intentional.
func (s *Service) Signin(ctx context.Context, req SigninRequest) envelope.ServiceResponse {
	if err := s.prober.CheckAll(ctx, []health.Dependency{s.userDep}); err != nil {
		return envelope.Fail(503, err.Error())
	}

	resp, err := s.users.GetByIdentifier(ctx, req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Msg("signin: user store unreachable")
		return s.notConnected(s.userDep)
	}
	if resp.Error {
		return resp.Envelope()
	}

	var user users.User
	if err := resp.DecodeData(&user); err != nil {
		log.Error().Err(err).Msg("signin: malformed user store reply")
		return envelope.Fail(500, MsgInternalError)
	}

	if !users.CheckPasswordHash(req.Password, user.Password) {
		return envelope.Fail(401, MsgInvalidCredentials)
	}

	return s.issueAndPersist(ctx, token.Principal{ID: user.ID}, 200)
}

// Signout revokes a refresh token. A syntactically valid, unexpired token is
// rejected once its session record is gone; the store is the authority for
// revocation, not the signature.
func (s *Service) Signout(ctx context.Context, req SignoutRequest) envelope.ServiceResponse {
	if err := s.prober.CheckAll(ctx, []health.Dependency{s.sessionDep}); err != nil {
		return envelope.Fail(503, err.Error())
	}

	key, valid, err := s.ValidateRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("signout: session store unreachable")
		return s.notConnected(s.sessionDep)
	}
	if !valid {
		return envelope.Fail(400, MsgInvalidRefreshToken)
	}

	if err := s.sessions.Del(ctx, key); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			// The record disappeared between lookup and delete. The token is
			// gone either way; report the distinct not-found outcome rather
			// than an internal error.
			return envelope.Fail(404, MsgRefreshTokenNotFound)
		}
		log.Warn().Err(err).Msg("signout: session store unreachable")
		return s.notConnected(s.sessionDep)
	}

	return envelope.OK(200, nil)
}

// ValidateRefreshToken checks a refresh token against the session store and
// returns the derived session key so callers can delete the record without
// recomputing it. A token that is not valid is reported as false, never as
// an error; the error return is transport failure only.
//
// The principal id is extracted by decoding the token payload without
// signature verification: the store-equality check below is what enforces
// correctness, since a forged token cannot match a stored value.
func (s *Service) ValidateRefreshToken(ctx context.Context, refreshToken string) (key string, valid bool, err error) {
	principal, err := token.DecodePrincipal(refreshToken)
	if err != nil {
		return "", false, nil
	}

	key = sessions.RefreshTokenKey(principal.ID, refreshToken)

	stored, err := s.sessions.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return key, false, nil
		}
		return "", false, err
	}
	if stored != refreshToken {
		return key, false, nil
	}
	return key, true, nil
}

// issueAndPersist creates the token pair and stores the refresh token under
// its derived key with the lockstep TTL. Persistence is always awaited
// before the success envelope: a client that receives success is guaranteed
// the refresh token is already durable and revocable.
func (s *Service) issueAndPersist(ctx context.Context, principal token.Principal, status int) envelope.ServiceResponse {
	pair, err := s.issuer.Issue(principal)
	if err != nil {
		log.Error().Err(err).Msg("token issuance failed")
		return envelope.Fail(500, MsgInternalError)
	}

	key := sessions.RefreshTokenKey(principal.ID, pair.RefreshToken)
	if err := s.sessions.Set(ctx, key, pair.RefreshToken, s.issuer.RefreshTTL()); err != nil {
		log.Warn().Err(err).Msg("refresh token persistence failed")
		return s.notConnected(s.sessionDep)
	}

	return envelope.OK(status, pair)
}

func (s *Service) notConnected(dep health.Dependency) envelope.ServiceResponse {
	return envelope.Fail(503, (&health.Failure{Name: dep.Name}).Error())
}
