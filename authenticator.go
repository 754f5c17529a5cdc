package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates credential verification, registration, and token
// issuance. It holds no per-request state.
type Auther struct {
	store        UserStore
	signingKey   []byte
	tokenTTL     int
	issuer       string
	audience     []string
	logger       Logger
	tokenService TokenService
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store UserStore, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		store:        store,
		signingKey:   []byte(opts.GetSigningKey()),
		tokenTTL:     opts.GetTokenExpiration(),
		issuer:       opts.GetIssuer(),
		audience:     opts.GetAudience(),
		logger:       defLogger{},
		tokenService: tokenService,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenTTL,
		s.issuer,
		s.audience,
		logger,
	)
	return s
}

// WithTokenService overrides the token service, mostly for tests
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	s.tokenService = ts
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and returns a signed token for the user.
//
// A missing user and a mismatched password both come back as
// ErrMismatchedHashAndPassword: the response gives an attacker no way to
// probe which usernames exist. The store lookup is the only side effect.
func (s *Auther) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Debug("Login lookup miss", "username", username)
			return "", ErrMismatchedHashAndPassword
		}
		s.logger.Error("Login user lookup error", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			s.logger.Debug("Login password mismatch", "username", username)
			return "", ErrMismatchedHashAndPassword
		}
		s.logger.Error("Login password comparison error", "error", err)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}

	identity := user.Identity()
	if err := ValidateRoles(identity.Roles()); err != nil {
		s.logger.Error("Login user carries invalid role set", "error", err, "user_id", identity.ID())
		return "", err
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation failed", "error", err)
		return "", err
	}

	return token, nil
}

// Register hashes the password and persists a new user with the default
// role set. No token is issued; the caller logs in separately.
//
// The lookahead read keeps the common duplicate case cheap and its error
// message friendly, but it is not atomic with the insert. The unique
// constraint on username is the authoritative guard and RegisterTx maps its
// violation to the same ErrUsernameTaken.
func (s *Auther) Register(ctx context.Context, username, password string) error {
	if _, err := s.store.GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.IsNotFound(err) {
		s.logger.Error("Register user lookup error", "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to check username availability")
	}

	hash, err := HashPassword(password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return richErr
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		Roles:        DefaultRoles(),
	}

	if _, err := s.store.Register(ctx, user); err != nil {
		if IsUsernameTakenError(err) {
			return ErrUsernameTaken
		}
		s.logger.Error("Register persistence error", "error", err)
		return errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	return nil
}

var _ Authenticator = (*Auther)(nil)
