package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-academy-auth/internal/config"
)

// Principal is the identity carried in issued tokens. The user store owns
// the full credential record; only the numeric id travels in claims.
type Principal struct {
	ID int64 `json:"id"`
}

// TokenPair is the result of a successful signup or signin. The access token
// has a short lifetime, the refresh token a long one; each is signed with its
// own secret.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Issuer produces signed access/refresh token pairs. It has no side effects
// beyond computation; persisting the refresh token is the orchestrator's
// responsibility.
type Issuer struct {
	access        Signer
	refresh       Signer
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	nowFunc       func() time.Time
}

// IssuerOption modifies an Issuer instance.
type IssuerOption func(*Issuer)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

// NewIssuer creates an Issuer from the configured secrets and expirations.
func NewIssuer(cfg config.TokenConfig, options ...IssuerOption) *Issuer {
	i := &Issuer{
		access:        NewHMACSigner(cfg.GetAccessTokenSecret()),
		refresh:       NewHMACSigner(cfg.GetRefreshTokenSecret()),
		accessExpiry:  cfg.GetAccessTokenExpiry(),
		refreshExpiry: cfg.GetRefreshTokenExpiry(),
		nowFunc:       time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// Issue creates a signed token pair for the principal.
func (i *Issuer) Issue(principal Principal) (TokenPair, error) {
	now := i.nowFunc()

	accessToken, err := i.access.Sign(jwt.MapClaims{
		"id":  principal.ID,
		"iat": now.Unix(),
		"exp": now.Add(i.accessExpiry).Unix(),
	})
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "[Issuer.Issue] access token")
	}

	refreshToken, err := i.refresh.Sign(jwt.MapClaims{
		"id":  principal.ID,
		"iat": now.Unix(),
		"exp": now.Add(i.refreshExpiry).Unix(),
	})
	if err != nil {
		return TokenPair{}, errors.Wrap(err, "[Issuer.Issue] refresh token")
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTTL is the refresh token lifetime. The token's exp claim and the
// session record TTL both derive from this value and must stay in lockstep:
// a mismatch would leave a signature valid after the store record expired,
// or vice versa, and is a defect rather than something to handle at runtime.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshExpiry
}

// DecodePrincipal extracts the principal id from a refresh token's payload
// without verifying the signature. Signout only needs the id to derive the
// session key; the store-equality check is what enforces validity, so a
// forged token never matches a stored value.
func DecodePrincipal(rawToken string) (Principal, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return Principal{}, errors.Wrap(err, "[token.DecodePrincipal] parse")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("[token.DecodePrincipal] error extracting claims")
	}

	id, ok := claims["id"].(float64)
	if !ok {
		return Principal{}, errors.New("[token.DecodePrincipal] token has no principal id")
	}

	return Principal{ID: int64(id)}, nil
}
