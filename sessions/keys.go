package sessions

import "fmt"

// RefreshTokenKey derives the session record key for a refresh token. The
// record's value is the refresh token verbatim; a refresh token is valid iff
// a record exists under this key and its value equals the token presented.
func RefreshTokenKey(principalID int64, refreshToken string) string {
	return fmt.Sprintf("refreshToken_%d_%s", principalID, refreshToken)
}
