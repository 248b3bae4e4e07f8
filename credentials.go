package accounts

import (
	"context"

	"github.com/goliatone/go-errors"
)

// AccessToken is the response shape wrapping an issued bearer token.
type AccessToken struct {
	AccessToken string `json:"access_token"`
}

// CredentialService implements signup and login over the identity
// store, the Argon2id hasher, the username policy, and the token
// service. Each call is a stateless unit of work; the only shared
// state is the immutable configuration captured at construction.
type CredentialService struct {
	store  IdentityStore
	tokens TokenService
	logger Logger
}

// NewCredentialService returns a CredentialService wired from the
// store and the injected configuration.
func NewCredentialService(store IdentityStore, cfg Config) *CredentialService {
	return &CredentialService{
		store:  store,
		logger: defLogger{},
		tokens: NewTokenService(
			[]byte(cfg.GetSigningKey()),
			cfg.GetTokenTTL(),
			cfg.GetIssuer(),
			defLogger{},
		),
	}
}

func (s *CredentialService) WithLogger(logger Logger) *CredentialService {
	s.logger = logger
	return s
}

// WithTokenService overrides the token service, mostly for tests.
func (s *CredentialService) WithTokenService(tokens TokenService) *CredentialService {
	s.tokens = tokens
	return s
}

// TokenService returns the token service used by this CredentialService
func (s *CredentialService) TokenService() TokenService {
	return s.tokens
}

// Signup validates the username, hashes the password, persists a new
// identity with the username doubling as display name, and issues a
// token bound to the created record. A unique collision on email or
// username fails with ErrCredentialsTaken carrying the collided field.
func (s *CredentialService) Signup(ctx context.Context, email, username, password string) (*AccessToken, error) {
	if err := checkCredentialInput(email, password); err != nil {
		return nil, err
	}

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Create(ctx, &User{
		Email:        email,
		Username:     username,
		DisplayName:  username,
		PasswordHash: hash,
	})

	if err != nil {
		if field, ok := IsDuplicateField(err); ok {
			s.logger.Info("signup rejected, credentials taken", "field", field)
			return nil, errors.Wrap(err, ErrCredentialsTaken.Category, ErrCredentialsTaken.Message).
				WithTextCode(ErrCredentialsTaken.TextCode).
				WithCode(ErrCredentialsTaken.Code).
				WithMetadata(map[string]any{"field": field})
		}
		s.logger.Error("signup failed to create identity", "error", err)
		return nil, err
	}

	return s.issueFor(user)
}

// Login looks the identity up by email, cross-checks the supplied
// username against the stored one, verifies the password against the
// stored hash, and issues a token. The three failure modes stay
// distinct: unknown email, username mismatch, password mismatch.
func (s *CredentialService) Login(ctx context.Context, email, username, password string) (*AccessToken, error) {
	if err := checkCredentialInput(email, password); err != nil {
		return nil, err
	}

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrEmailNotRegistered
		}
		s.logger.Error("login failed to look up identity", "error", err)
		return nil, err
	}

	if username != user.Username {
		return nil, ErrUsernameMismatch
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrPasswordMismatch
	}

	return s.issueFor(user)
}

func (s *CredentialService) issueFor(user *User) (*AccessToken, error) {
	token, err := s.tokens.Issue(NewIdentity(user))
	if err != nil {
		s.logger.Error("failed to issue token", "error", err)
		return nil, err
	}

	return &AccessToken{AccessToken: token}, nil
}

// checkCredentialInput re-checks the non-empty invariants the HTTP
// layer already validated. The core must not assume its callers did.
func checkCredentialInput(email, password string) error {
	if email == "" {
		return ErrMissingEmail
	}
	if password == "" {
		return ErrNoEmptyString
	}
	return nil
}
