package accounts_test

import (
	"context"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSignupCreatesIdentityAndIssuesToken(t *testing.T) {
	ctx := context.Background()
	store := new(MockIdentityStore)
	service := accounts.NewCredentialService(store, newTestConfig())

	var captured *accounts.User
	created := &accounts.User{
		ID:       1,
		Email:    "e@x.com",
		Username: "mollyfish",
	}

	store.On("Create", ctx, mock.AnythingOfType("*accounts.User")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*accounts.User)
		}).
		Return(created, nil).Once()

	token, err := service.Signup(ctx, "e@x.com", "mollyfish", "12345678")
	require.NoError(t, err)
	require.NotNil(t, token)
	require.NotEmpty(t, token.AccessToken)

	require.NotNil(t, captured)
	assert.Equal(t, "e@x.com", captured.Email)
	assert.Equal(t, "mollyfish", captured.Username)
	assert.Equal(t, "mollyfish", captured.DisplayName, "username doubles as display name")

	assert.NotEqual(t, "12345678", captured.PasswordHash, "raw password must never be persisted")
	assert.NoError(t, accounts.ComparePasswordAndHash("12345678", captured.PasswordHash))

	claims, err := service.TokenService().Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID())
	assert.Equal(t, "e@x.com", claims.Email)
	assert.Equal(t, "mollyfish", claims.Username)

	store.AssertExpectations(t)
}

func TestSignupDuplicateCredentials(t *testing.T) {
	ctx := context.Background()
	store := new(MockIdentityStore)
	service := accounts.NewCredentialService(store, newTestConfig())

	store.On("Create", ctx, mock.AnythingOfType("*accounts.User")).
		Return(nil, &accounts.DuplicateFieldError{Field: "email"}).Once()

	token, err := service.Signup(ctx, "e@x.com", "fishmolly", "12345678")
	assert.Nil(t, token)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, accounts.TextCodeCredentialsTaken, richErr.TextCode)
	assert.Equal(t, "email", richErr.Metadata["field"])

	store.AssertExpectations(t)
}

func TestSignupRejectsBadInputBeforeStorage(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "short username",
			email:    "e@x.com",
			username: "molly",
			password: "12345678",
			wantErr:  accounts.ErrUsernameTooShort,
		},
		{
			name:     "long username",
			email:    "e@x.com",
			username: "abcdefghijklmnopqrstuvwxyz0123456",
			password: "12345678",
			wantErr:  accounts.ErrUsernameTooLong,
		},
		{
			name:     "uppercase username",
			email:    "e@x.com",
			username: "MollyFish",
			password: "12345678",
			wantErr:  accounts.ErrUsernamePattern,
		},
		{
			name:     "empty email",
			email:    "",
			username: "mollyfish",
			password: "12345678",
			wantErr:  accounts.ErrMissingEmail,
		},
		{
			name:     "empty password",
			email:    "e@x.com",
			username: "mollyfish",
			password: "",
			wantErr:  accounts.ErrNoEmptyString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations registered: any storage call panics the
			// test, proving malformed input never reaches the store.
			store := new(MockIdentityStore)
			service := accounts.NewCredentialService(store, newTestConfig())

			token, err := service.Signup(ctx, tt.email, tt.username, tt.password)
			assert.Nil(t, token)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestLoginVerifiesCredentialsInOrder(t *testing.T) {
	ctx := context.Background()

	hash, err := accounts.HashPassword("12345678")
	require.NoError(t, err)

	stored := &accounts.User{
		ID:           7,
		Email:        "e@x.com",
		Username:     "mollyfish",
		DisplayName:  "mollyfish",
		PasswordHash: hash,
	}

	t.Run("unknown email", func(t *testing.T) {
		store := new(MockIdentityStore)
		store.On("FindByEmail", ctx, "nobody@x.com").
			Return(nil, accounts.ErrIdentityNotFound).Once()

		service := accounts.NewCredentialService(store, newTestConfig())

		token, err := service.Login(ctx, "nobody@x.com", "mollyfish", "whatever1")
		assert.Nil(t, token)
		assert.Equal(t, accounts.ErrEmailNotRegistered, err)
		store.AssertExpectations(t)
	})

	t.Run("username mismatch beats password check", func(t *testing.T) {
		store := new(MockIdentityStore)
		store.On("FindByEmail", ctx, "e@x.com").Return(stored, nil).Once()

		service := accounts.NewCredentialService(store, newTestConfig())

		// Wrong username and wrong password: the username mismatch
		// must win.
		token, err := service.Login(ctx, "e@x.com", "fishmolly", "wrongpass")
		assert.Nil(t, token)
		assert.Equal(t, accounts.ErrUsernameMismatch, err)
		store.AssertExpectations(t)
	})

	t.Run("password mismatch", func(t *testing.T) {
		store := new(MockIdentityStore)
		store.On("FindByEmail", ctx, "e@x.com").Return(stored, nil).Once()

		service := accounts.NewCredentialService(store, newTestConfig())

		token, err := service.Login(ctx, "e@x.com", "mollyfish", "wrongpass")
		assert.Nil(t, token)
		assert.Equal(t, accounts.ErrPasswordMismatch, err)
		store.AssertExpectations(t)
	})

	t.Run("corrupted stored hash fails closed", func(t *testing.T) {
		hashes := []string{
			"garbage",
			// Parses structurally but carries parameters the key
			// derivation rejects.
			"$argon2id$v=19$m=65536,t=0,p=4$c2FsdHNhbHQ$ZGlnZXN0ZGlnZXN0",
		}

		for _, damagedHash := range hashes {
			damaged := *stored
			damaged.PasswordHash = damagedHash

			store := new(MockIdentityStore)
			store.On("FindByEmail", ctx, "e@x.com").Return(&damaged, nil).Once()

			service := accounts.NewCredentialService(store, newTestConfig())

			token, err := service.Login(ctx, "e@x.com", "mollyfish", "12345678")
			assert.Nil(t, token)
			assert.Equal(t, accounts.ErrPasswordMismatch, err)
			store.AssertExpectations(t)
		}
	})

	t.Run("success issues token bound to stored identity", func(t *testing.T) {
		store := new(MockIdentityStore)
		store.On("FindByEmail", ctx, "e@x.com").Return(stored, nil).Once()

		service := accounts.NewCredentialService(store, newTestConfig())

		token, err := service.Login(ctx, "e@x.com", "mollyfish", "12345678")
		require.NoError(t, err)
		require.NotNil(t, token)

		claims, err := service.TokenService().Validate(token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, claims.UserID())
		assert.Equal(t, stored.Email, claims.Email)
		assert.Equal(t, stored.Username, claims.Username)
		store.AssertExpectations(t)
	})
}

func TestUsernamePolicyIdenticalOnBothPaths(t *testing.T) {
	ctx := context.Background()
	candidates := []string{"", "short", "MollyFish", "molly fish", "mollyfish!", "abcdefghijklmnopqrstuvwxyz0123456"}

	for _, candidate := range candidates {
		store := new(MockIdentityStore)
		service := accounts.NewCredentialService(store, newTestConfig())

		_, signupErr := service.Signup(ctx, "e@x.com", candidate, "12345678")
		_, loginErr := service.Login(ctx, "e@x.com", candidate, "12345678")

		assert.Equal(t, signupErr, loginErr, "candidate %q", candidate)
		assert.True(t, accounts.IsPolicyViolation(signupErr), "candidate %q", candidate)
	}
}

func TestLoginPropagatesInfrastructureFaults(t *testing.T) {
	ctx := context.Background()
	storageFault := goerrors.New("connection reset", goerrors.CategoryInternal)

	store := new(MockIdentityStore)
	store.On("FindByEmail", ctx, "e@x.com").Return(nil, storageFault).Once()

	service := accounts.NewCredentialService(store, newTestConfig())

	token, err := service.Login(ctx, "e@x.com", "mollyfish", "12345678")
	assert.Nil(t, token)
	assert.Equal(t, storageFault, err, "storage faults pass through uninterpreted")
	store.AssertExpectations(t)
}
