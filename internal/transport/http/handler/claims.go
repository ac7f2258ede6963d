package handler

import (
	"strconv"

	jwtinfra "github.com/passwordless-api/internal/infrastructure/jwt"
)

// claimMap flattens verified access-token claims into a key/value mapping.
// Pure function of its input: the response body is derived in one step with
// no accumulated state.
func claimMap(c *jwtinfra.Claims) map[string]string {
	m := map[string]string{
		"sub": c.Subject,
	}
	if len(c.Audience) > 0 {
		m["aud"] = c.Audience[0]
	}
	if c.IssuedAt != nil {
		m["iat"] = strconv.FormatInt(c.IssuedAt.Unix(), 10)
	}
	if c.ExpiresAt != nil {
		m["exp"] = strconv.FormatInt(c.ExpiresAt.Unix(), 10)
	}
	return m
}
