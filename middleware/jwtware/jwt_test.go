package jwtware_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-auth-service/middleware/jwtware"
)

type stubClaims struct {
	subject string
	roles   []string
}

func (c stubClaims) Subject() string  { return c.subject }
func (c stubClaims) UserID() string   { return "uid-" + c.subject }
func (c stubClaims) Username() string { return c.subject }
func (c stubClaims) Roles() []string  { return c.roles }

func (c stubClaims) HasRole(role string) bool {
	for _, r := range c.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c stubClaims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

func (c stubClaims) Expires() time.Time  { return time.Now().Add(time.Hour) }
func (c stubClaims) IssuedAt() time.Time { return time.Now() }

type stubPolicy map[string]map[string][]string

func (p stubPolicy) RequiredRoles(resource, operation string) ([]string, bool) {
	ops, ok := p[resource]
	if !ok {
		return nil, false
	}
	roles, ok := ops[operation]
	return roles, ok
}

// acceptToken validates only the literal token it was built with.
func acceptToken(token string, claims stubClaims) jwtware.TokenValidator {
	return jwtware.ValidatorFunc(func(raw string) (jwtware.Claims, error) {
		if raw != token {
			return nil, errors.New("signature mismatch")
		}
		return claims, nil
	})
}

func testApp(cfg jwtware.Config) *fiber.App {
	app := fiber.New()
	app.Get("/widgets", jwtware.New(cfg), func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	return app
}

func testPolicy() stubPolicy {
	return stubPolicy{
		"widgets": {
			"read":   {"USER", "ADMIN"},
			"delete": {"ADMIN"},
		},
	}
}

func TestGuardRejectsMissingToken(t *testing.T) {
	app := testApp(jwtware.Config{
		Validator: acceptToken("good", stubClaims{subject: "alice", roles: []string{"USER"}}),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic Zm9vOmJhcg=="},
		{"scheme without token", "Bearer "},
		{"bare token without scheme", "good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/widgets", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			res, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

			body, _ := io.ReadAll(res.Body)
			assert.Equal(t, "Invalid or expired token", string(body))
		})
	}
}

func TestGuardRejectsInvalidToken(t *testing.T) {
	app := testApp(jwtware.Config{
		Validator: acceptToken("good", stubClaims{subject: "alice", roles: []string{"USER"}}),
	})

	req := httptest.NewRequest(fiber.MethodGet, "/widgets", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer forged")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestGuardSchemeIsCaseInsensitive(t *testing.T) {
	app := testApp(jwtware.Config{
		Validator: acceptToken("good", stubClaims{subject: "alice", roles: []string{"USER"}}),
	})

	req := httptest.NewRequest(fiber.MethodGet, "/widgets", nil)
	req.Header.Set(fiber.HeaderAuthorization, "bearer good")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestGuardEnforcesPolicy(t *testing.T) {
	tests := []struct {
		name      string
		roles     []string
		operation string
		status    int
	}{
		{"user can read", []string{"USER"}, "read", fiber.StatusOK},
		{"admin can read", []string{"ADMIN"}, "read", fiber.StatusOK},
		{"user cannot delete", []string{"USER"}, "delete", fiber.StatusForbidden},
		{"admin can delete", []string{"ADMIN"}, "delete", fiber.StatusOK},
		{"unknown operation fails closed", []string{"ADMIN"}, "export", fiber.StatusForbidden},
		{"no roles fails", nil, "read", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testApp(jwtware.Config{
				Validator: acceptToken("good", stubClaims{subject: "alice", roles: tt.roles}),
				Policy:    testPolicy(),
				Resource:  "widgets",
				Operation: tt.operation,
			})

			req := httptest.NewRequest(fiber.MethodGet, "/widgets", nil)
			req.Header.Set(fiber.HeaderAuthorization, "Bearer good")

			res, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.StatusCode)

			if tt.status == fiber.StatusForbidden {
				body, _ := io.ReadAll(res.Body)
				assert.Equal(t, "Insufficient permissions", string(body))
			}
		})
	}
}

func TestGuardUnknownResourceFailsClosed(t *testing.T) {
	app := testApp(jwtware.Config{
		Validator: acceptToken("good", stubClaims{subject: "root", roles: []string{"ADMIN"}}),
		Policy:    testPolicy(),
		Resource:  "gadgets",
		Operation: "read",
	})

	req := httptest.NewRequest(fiber.MethodGet, "/widgets", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func TestGuardStoresClaimsInLocals(t *testing.T) {
	claims := stubClaims{subject: "alice", roles: []string{"USER"}}

	app := fiber.New()
	app.Get("/widgets", jwtware.New(jwtware.Config{
		Validator: acceptToken("good", claims),
		Policy:    testPolicy(),
		Resource:  "widgets",
		Operation: "read",
	}), func(ctx *fiber.Ctx) error {
		got, ok := jwtware.ClaimsFromCtx(ctx, "user")
		require.True(t, ok)
		return ctx.SendString(got.Subject())
	})

	req := httptest.NewRequest(fiber.MethodGet, "/widgets", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer good")

	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	body, _ := io.ReadAll(res.Body)
	assert.Equal(t, "alice", string(body))
}

func TestGuardFilterSkipsValidation(t *testing.T) {
	app := testApp(jwtware.Config{
		Filter:    func(ctx *fiber.Ctx) bool { return true },
		Validator: acceptToken("good", stubClaims{}),
	})

	req := httptest.NewRequest(fiber.MethodGet, "/widgets", nil)

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestGuardCustomErrorHandler(t *testing.T) {
	app := testApp(jwtware.Config{
		Validator: acceptToken("good", stubClaims{subject: "alice", roles: []string{"USER"}}),
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return ctx.Status(fiber.StatusTeapot).SendString(err.Error())
		},
	})

	req := httptest.NewRequest(fiber.MethodGet, "/widgets", nil)

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, res.StatusCode)
}

func TestNewPanicsWithoutValidator(t *testing.T) {
	assert.Panics(t, func() {
		jwtware.New(jwtware.Config{})
	})
}
