// Package jwtware is the access guard: a fiber middleware that extracts the
// bearer token, validates it, and enforces a static (resource, operation)
// access policy before the protected handler runs.
//
// Each request is evaluated independently; nothing persists between
// requests. Validation failures are collapsed to 401 for the caller — the
// specific reason (missing, expired, malformed, bad signature) is only
// logged — while a valid principal with insufficient roles gets 403.
package jwtware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrJWTMissingOrMalformed covers requests with no usable bearer token
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
	// ErrInsufficientRole marks a valid principal the policy rejects
	ErrInsufficientRole = errors.New("insufficient role for operation")
)

// Claims is the validated token content the guard needs.
// Mirrors the auth package's AuthClaims to avoid import cycles.
type Claims interface {
	Subject() string
	UserID() string
	Username() string
	Roles() []string
	HasRole(role string) bool
	HasAnyRole(roles ...string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// TokenValidator validates a raw token, returning structured claims.
// Mirrors the auth package's TokenService.Validate.
type TokenValidator interface {
	Validate(tokenString string) (Claims, error)
}

// ValidatorFunc adapts a function to the TokenValidator interface
type ValidatorFunc func(tokenString string) (Claims, error)

func (f ValidatorFunc) Validate(tokenString string) (Claims, error) {
	return f(tokenString)
}

// Policy resolves the role set required for a (resource, operation) pair.
// Mirrors the auth package's Policy table.
type Policy interface {
	RequiredRoles(resource, operation string) ([]string, bool)
}

// Logger mirrors the auth package's Logger
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type Config struct {
	// Filter skips the guard entirely when it returns true
	Filter func(*fiber.Ctx) bool

	// SuccessHandler runs after validation and authorization pass.
	// Defaults to ctx.Next().
	SuccessHandler fiber.Handler

	// ErrorHandler maps guard failures to responses. The default collapses
	// every validation failure to 401 and ErrInsufficientRole to 403.
	ErrorHandler fiber.ErrorHandler

	// Validator is required for token validation
	Validator TokenValidator

	// Policy, Resource and Operation drive the authorization check. With no
	// policy configured the guard only authenticates.
	Policy    Policy
	Resource  string
	Operation string

	// ContextKey is the fiber.Locals key the validated claims land under.
	// Defaults to "user".
	ContextKey string

	// AuthScheme is the expected Authorization scheme. Defaults to "Bearer".
	AuthScheme string

	Logger Logger
}

// New builds the guard middleware from the config
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(ctx *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(ctx) {
			return ctx.Next()
		}

		raw, err := TokenFromHeader(ctx, cfg.AuthScheme)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("guard rejected request without token", "path", ctx.Path())
			}
			return cfg.ErrorHandler(ctx, err)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Info("guard rejected invalid token", "path", ctx.Path(), "error", err)
			}
			return cfg.ErrorHandler(ctx, err)
		}

		if err := authorize(claims, cfg); err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Info("guard rejected principal",
					"path", ctx.Path(),
					"subject", claims.Subject(),
					"resource", cfg.Resource,
					"operation", cfg.Operation,
				)
			}
			return cfg.ErrorHandler(ctx, err)
		}

		ctx.Locals(cfg.ContextKey, claims)

		return cfg.SuccessHandler(ctx)
	}
}

// authorize consults the policy for the configured pair. Unknown pairs fail
// closed.
func authorize(claims Claims, cfg Config) error {
	if cfg.Policy == nil || cfg.Resource == "" {
		return nil
	}

	required, ok := cfg.Policy.RequiredRoles(cfg.Resource, cfg.Operation)
	if !ok {
		return ErrInsufficientRole
	}

	if !claims.HasAnyRole(required...) {
		return ErrInsufficientRole
	}

	return nil
}

// TokenFromHeader extracts the raw token from the Authorization header
func TokenFromHeader(ctx *fiber.Ctx, authScheme string) (string, error) {
	header := ctx.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrJWTMissingOrMalformed
	}

	if authScheme == "" {
		return header, nil
	}

	prefix := authScheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrJWTMissingOrMalformed
	}

	raw := strings.TrimSpace(header[len(prefix):])
	if raw == "" {
		return "", ErrJWTMissingOrMalformed
	}

	return raw, nil
}

// ClaimsFromCtx returns the validated claims the guard stored for this
// request
func ClaimsFromCtx(ctx *fiber.Ctx, key string) (Claims, bool) {
	if key == "" {
		key = "user"
	}

	claims, ok := ctx.Locals(key).(Claims)
	return claims, ok
}

func configDefault(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Validator == nil {
		panic("AUTH: JWT middleware configuration: Validator is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx *fiber.Ctx) error {
			return ctx.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx *fiber.Ctx, err error) error {
			if errors.Is(err, ErrInsufficientRole) {
				return ctx.Status(fiber.StatusForbidden).SendString("Insufficient permissions")
			}
			return ctx.Status(fiber.StatusUnauthorized).SendString("Invalid or expired token")
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}
