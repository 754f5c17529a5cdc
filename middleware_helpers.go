package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-auth-service/middleware/jwtware"
)

// GuardConfig collects what the access guard needs beyond the per-route
// (resource, operation) pair
type GuardConfig struct {
	TokenService TokenService
	Policy       Policy
	ContextKey   string
	AuthScheme   string
	Logger       Logger
}

// Guard builds access-guard middleware bound to one (resource, operation)
// pair. Mount one per protected route; the policy decides which roles pass.
func Guard(cfg GuardConfig, resource string, operation Operation) fiber.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = defLogger{}
	}

	contextKey := cfg.ContextKey
	if contextKey == "" {
		contextKey = "user"
	}

	return jwtware.New(jwtware.Config{
		Validator: jwtware.ValidatorFunc(func(raw string) (jwtware.Claims, error) {
			return cfg.TokenService.Validate(raw)
		}),
		Policy:     cfg.Policy,
		Resource:   resource,
		Operation:  operation,
		ContextKey: contextKey,
		AuthScheme: cfg.AuthScheme,
		Logger:     logger,
		SuccessHandler: func(ctx *fiber.Ctx) error {
			// Handlers downstream of fiber get the principal through the
			// standard context as well as Locals.
			if claims, ok := jwtware.ClaimsFromCtx(ctx, contextKey); ok {
				principal := &Principal{
					UserID:   claims.UserID(),
					Name:     claims.Username(),
					UserRole: claims.Roles(),
				}
				ctx.SetUserContext(WithPrincipalContext(ctx.UserContext(), principal))
			}
			return ctx.Next()
		},
	})
}

// GuardFactory returns a closure binding the shared guard config so route
// registration only names the operation
func GuardFactory(cfg GuardConfig, resource string) func(operation Operation) fiber.Handler {
	return func(operation Operation) fiber.Handler {
		return Guard(cfg, resource, operation)
	}
}
