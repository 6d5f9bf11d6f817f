package session

import "github.com/golang-jwt/jwt/v5"

// ProfileFromToken decodes the claims of a JWT access token without
// verifying its signature and returns them as a display profile. This is a
// fallback for login responses that omit the user object; the claims are
// never trusted for anything but presentation. Returns nil when the token
// is not a decodable JWT.
func ProfileFromToken(token string) map[string]any {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	if len(claims) == 0 {
		return nil
	}
	return map[string]any(claims)
}
