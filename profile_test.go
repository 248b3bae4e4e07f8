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

func strPtr(s string) *string {
	return &s
}

func TestProfileGetStripsPasswordHash(t *testing.T) {
	ctx := context.Background()
	store := new(MockIdentityStore)

	store.On("FindByID", ctx, int64(7)).Return(&accounts.User{
		ID:           7,
		Email:        "e@x.com",
		Username:     "mollyfish",
		PasswordHash: "$argon2id$opaque",
	}, nil).Once()

	service := accounts.NewProfileService(store)

	user, err := service.Get(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "e@x.com", user.Email)

	store.AssertExpectations(t)
}

func TestProfileGetUnknownIdentity(t *testing.T) {
	ctx := context.Background()
	store := new(MockIdentityStore)
	store.On("FindByID", ctx, int64(99)).Return(nil, accounts.ErrIdentityNotFound).Once()

	service := accounts.NewProfileService(store)

	user, err := service.Get(ctx, 99)
	assert.Nil(t, user)
	assert.True(t, goerrors.IsNotFound(err))
}

func TestProfileUpdateHashesPasswordChanges(t *testing.T) {
	ctx := context.Background()
	store := new(MockIdentityStore)

	var captured accounts.UserPatch
	store.On("Update", ctx, int64(7), mock.AnythingOfType("accounts.UserPatch")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(accounts.UserPatch)
		}).
		Return(&accounts.User{ID: 7, Email: "e@x.com", Username: "mollyfish"}, nil).Once()

	service := accounts.NewProfileService(store)

	_, err := service.Update(ctx, 7, accounts.ProfileUpdate{
		Password:    strPtr("newSecret99"),
		DisplayName: strPtr("Molly"),
	})
	require.NoError(t, err)

	require.NotNil(t, captured.PasswordHash)
	assert.NotEqual(t, "newSecret99", *captured.PasswordHash)
	assert.NoError(t, accounts.ComparePasswordAndHash("newSecret99", *captured.PasswordHash))

	require.NotNil(t, captured.DisplayName)
	assert.Equal(t, "Molly", *captured.DisplayName)

	store.AssertExpectations(t)
}

func TestProfileUpdateEnforcesUsernamePolicy(t *testing.T) {
	ctx := context.Background()
	// No store expectations: a policy violation must short-circuit
	// before any storage access.
	store := new(MockIdentityStore)
	service := accounts.NewProfileService(store)

	user, err := service.Update(ctx, 7, accounts.ProfileUpdate{
		Username: strPtr("Nope"),
	})
	assert.Nil(t, user)
	assert.Equal(t, accounts.ErrUsernameTooShort, err)
}

func TestProfileUpdateDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := new(MockIdentityStore)
	store.On("Update", ctx, int64(7), mock.AnythingOfType("accounts.UserPatch")).
		Return(nil, &accounts.DuplicateFieldError{Field: "username"}).Once()

	service := accounts.NewProfileService(store)

	user, err := service.Update(ctx, 7, accounts.ProfileUpdate{
		Username: strPtr("mollyfish"),
	})
	assert.Nil(t, user)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, accounts.TextCodeCredentialsTaken, richErr.TextCode)
	assert.Equal(t, "username", richErr.Metadata["field"])
}

func TestProfileRemove(t *testing.T) {
	ctx := context.Background()
	store := new(MockIdentityStore)
	store.On("Delete", ctx, int64(7)).Return(nil).Once()

	service := accounts.NewProfileService(store)
	assert.NoError(t, service.Remove(ctx, 7))
	store.AssertExpectations(t)
}
