package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the validated content of a bearer token
type AuthClaims interface {
	Subject() string
	UserID() string
	Username() string
	Roles() []Role
	HasRole(role Role) bool
	HasAnyRole(roles ...Role) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"uid,omitempty"`
	UserRoles []Role `json:"roles,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim, the principal's username
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Username returns the principal's username
func (c *JWTClaims) Username() string {
	return c.Subject()
}

// Roles returns the principal's role set
func (c *JWTClaims) Roles() []Role {
	return c.UserRoles
}

// HasRole checks if the principal holds a specific role
func (c *JWTClaims) HasRole(role Role) bool {
	for _, r := range c.UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the principal holds at least one of the given roles
func (c *JWTClaims) HasAnyRole(roles ...Role) bool {
	return RolesIntersect(c.UserRoles, roles)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Principal is the request-scoped identity reconstructed from validated
// claims. It lives for the duration of one request.
type Principal struct {
	UserID   string
	Name     string
	UserRole []Role
}

// PrincipalFromClaims builds a Principal from validated claims
func PrincipalFromClaims(claims AuthClaims) *Principal {
	if claims == nil {
		return nil
	}

	return &Principal{
		UserID:   claims.UserID(),
		Name:     claims.Username(),
		UserRole: claims.Roles(),
	}
}

func (p *Principal) ID() string {
	return p.UserID
}

func (p *Principal) Username() string {
	return p.Name
}

func (p *Principal) Roles() []Role {
	return p.UserRole
}

var _ Identity = (*Principal)(nil)
