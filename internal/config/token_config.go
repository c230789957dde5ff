package config

import "time"

// TokenConfig holds the signing secrets and expirations for access and
// refresh tokens. The two tokens are independently signed and independently
// expiring.
type TokenConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type Token struct{}

var _ TokenConfig = Token{}

func (Token) GetAccessTokenSecret() string {
	return GetEnv("ACCESS_TOKEN_SECRET", "")
}

func (Token) GetRefreshTokenSecret() string {
	return GetEnv("REFRESH_TOKEN_SECRET", "")
}

func (Token) GetAccessTokenExpiry() time.Duration {
	return getDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
}

func (Token) GetRefreshTokenExpiry() time.Duration {
	return getDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour)
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(envVar, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
