package accounts_test

import (
	"context"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/mock"
)

// MockIdentityStore implements accounts.IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) FindByEmail(ctx context.Context, email string) (*accounts.User, error) {
	args := m.Called(ctx, email)
	var user *accounts.User
	if v := args.Get(0); v != nil {
		user = v.(*accounts.User)
	}
	return user, args.Error(1)
}

func (m *MockIdentityStore) FindByID(ctx context.Context, id int64) (*accounts.User, error) {
	args := m.Called(ctx, id)
	var user *accounts.User
	if v := args.Get(0); v != nil {
		user = v.(*accounts.User)
	}
	return user, args.Error(1)
}

func (m *MockIdentityStore) Create(ctx context.Context, user *accounts.User) (*accounts.User, error) {
	args := m.Called(ctx, user)
	var created *accounts.User
	if v := args.Get(0); v != nil {
		created = v.(*accounts.User)
	}
	return created, args.Error(1)
}

func (m *MockIdentityStore) Update(ctx context.Context, id int64, patch accounts.UserPatch) (*accounts.User, error) {
	args := m.Called(ctx, id, patch)
	var user *accounts.User
	if v := args.Get(0); v != nil {
		user = v.(*accounts.User)
	}
	return user, args.Error(1)
}

func (m *MockIdentityStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLogger implements accounts.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// testConfig implements accounts.Config
type testConfig struct {
	secret string
	ttl    time.Duration
	issuer string
	scheme string
}

func newTestConfig() testConfig {
	return testConfig{
		secret: "test-signing-secret",
		ttl:    15 * time.Minute,
		issuer: "accounts-test",
		scheme: "Bearer",
	}
}

func (c testConfig) GetSigningKey() string {
	return c.secret
}

func (c testConfig) GetTokenTTL() time.Duration {
	return c.ttl
}

func (c testConfig) GetIssuer() string {
	return c.issuer
}

func (c testConfig) GetAuthScheme() string {
	return c.scheme
}
