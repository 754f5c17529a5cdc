package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the identity record. Username is unique and case-sensitive, the
// password hash is opaque and never serialized, and the role set is never
// empty. The auth core does not mutate users after creation.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Roles         []Role     `bun:"roles,notnull,type:jsonb" json:"roles,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Identity adapts the stored record to the request-scoped view the token
// service signs
func (u *User) Identity() Identity {
	return &Principal{
		UserID:   u.ID.String(),
		Name:     u.Username,
		UserRole: u.Roles,
	}
}
