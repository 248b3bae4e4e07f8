package accounts

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set embedded in issued tokens. Subject
// carries the identity's numeric id in decimal string form; email and
// username are copied from the verified identity, never from raw
// credential input.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// UserID returns the numeric identity id parsed from the subject
// claim, 0 when the subject is absent or not numeric.
func (c *AccessClaims) UserID() int64 {
	id, err := strconv.ParseInt(c.RegisteredClaims.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Expires returns the expiration time
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *AccessClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
