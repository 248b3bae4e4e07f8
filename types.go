package accounts

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() int64
	Email() string
	Username() string
}

// Config holds the immutable options services are constructed with
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetIssuer() string
	GetAuthScheme() string
}

// IdentityStore is the gateway to durable identity records. Lookups
// miss with a not-found error; Create and Update surface unique column
// collisions as *DuplicateFieldError.
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (*User, error)
	Delete(ctx context.Context, id int64) error
}

// TokenIssuer mints bearer tokens bound to a verified identity
type TokenIssuer interface {
	Issue(identity Identity) (string, error)
}

// TokenValidator authenticates inbound bearer tokens
type TokenValidator interface {
	Validate(token string) (*AccessClaims, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
