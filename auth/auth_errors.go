package auth

// User-visible failure messages. Stable strings with no internal
// identifiers; gateways surface them as-is.
const (
	MsgInvalidCredentials   = "Invalid identifier or password"
	MsgInvalidRefreshToken  = "Refresh token is invalid"
	MsgRefreshTokenNotFound = "Refresh token not found"
	MsgInternalError        = "Internal error"
)
