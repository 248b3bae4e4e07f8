package accounts

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the durable identity record. Email and username are each
// unique across all rows; PasswordHash is produced only by
// HashPassword and is excluded from JSON output.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	DisplayName   string     `bun:"display_name,notnull" json:"display_name,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Sanitized returns a copy safe to serialize outward, with the
// password hash stripped.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

var _ Identity = userIdentity{}

// userIdentity adapts a stored User to the Identity view services and
// token issuance consume.
type userIdentity struct {
	user *User
}

// NewIdentity wraps a stored user as an Identity.
func NewIdentity(user *User) Identity {
	return userIdentity{user: user}
}

func (i userIdentity) ID() int64 {
	return i.user.ID
}

func (i userIdentity) Email() string {
	return i.user.Email
}

func (i userIdentity) Username() string {
	return i.user.Username
}

// ProfileUpdate carries the optional profile mutations. A nil field is
// left untouched. Password changes route through the hasher inside the
// profile service, never assigned to the stored hash directly.
type ProfileUpdate struct {
	Email       *string `json:"email,omitempty"`
	Username    *string `json:"username,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Password    *string `json:"password,omitempty"`
}

// IsZero reports whether the update carries no mutations.
func (p ProfileUpdate) IsZero() bool {
	return p.Email == nil && p.Username == nil && p.DisplayName == nil && p.Password == nil
}

// UserPatch is the storage-level mutation set. PasswordHash holds an
// already-hashed credential; raw passwords never reach the store.
type UserPatch struct {
	Email        *string
	Username     *string
	DisplayName  *string
	PasswordHash *string
}

// IsZero reports whether the patch carries no mutations.
func (p UserPatch) IsZero() bool {
	return p.Email == nil && p.Username == nil && p.DisplayName == nil && p.PasswordHash == nil
}
