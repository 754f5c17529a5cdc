package auth_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	auth "github.com/goliatone/go-auth-service"
)

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) Register(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *MockAuthenticator) TokenService() auth.TokenService {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(auth.TokenService)
}

// mockConfig implements auth.Config for tests
type mockConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
}

func newMockConfig() *mockConfig {
	return &mockConfig{
		signingKey:      string(testSigningKey),
		tokenExpiration: 24,
		issuer:          "test-issuer",
		audience:        []string{"test-audience"},
	}
}

func (c *mockConfig) GetSigningKey() string   { return c.signingKey }
func (c *mockConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c *mockConfig) GetIssuer() string       { return c.issuer }
func (c *mockConfig) GetAudience() []string   { return c.audience }
func (c *mockConfig) GetContextKey() string   { return "user" }
func (c *mockConfig) GetAuthScheme() string   { return "Bearer" }
func (c *mockConfig) GetTokenLookup() string  { return "header:Authorization" }
