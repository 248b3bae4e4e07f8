package accounts

import (
	"context"

	"github.com/goliatone/go-errors"
)

// ProfileService exposes self-service account reads and mutations for
// an already-authenticated identity. Password changes route through
// the hasher and username changes through the policy, the same
// invariants signup enforces.
type ProfileService struct {
	store  IdentityStore
	logger Logger
}

// NewProfileService returns a ProfileService over the store.
func NewProfileService(store IdentityStore) *ProfileService {
	return &ProfileService{
		store:  store,
		logger: defLogger{},
	}
}

func (s *ProfileService) WithLogger(logger Logger) *ProfileService {
	s.logger = logger
	return s
}

// Get returns the sanitized account record.
func (s *ProfileService) Get(ctx context.Context, id int64) (*User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// Update applies the requested profile mutations. Unique collisions on
// email or username surface as ErrCredentialsTaken, matching signup.
func (s *ProfileService) Update(ctx context.Context, id int64, update ProfileUpdate) (*User, error) {
	patch := UserPatch{
		Email:       update.Email,
		DisplayName: update.DisplayName,
	}

	if update.Username != nil {
		if err := ValidateUsername(*update.Username); err != nil {
			return nil, err
		}
		patch.Username = update.Username
	}

	if update.Password != nil {
		hash, err := HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	user, err := s.store.Update(ctx, id, patch)
	if err != nil {
		if field, ok := IsDuplicateField(err); ok {
			return nil, errors.Wrap(err, ErrCredentialsTaken.Category, ErrCredentialsTaken.Message).
				WithTextCode(ErrCredentialsTaken.TextCode).
				WithCode(ErrCredentialsTaken.Code).
				WithMetadata(map[string]any{"field": field})
		}
		return nil, err
	}

	return user.Sanitized(), nil
}

// Remove deletes the account record.
func (s *ProfileService) Remove(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}
