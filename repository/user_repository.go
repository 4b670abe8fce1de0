package repository

import (
	"context"

	"storefront-service/models"
	"storefront-service/store"
)

const usersCollection = "users"

// UserRepository persists User records keyed by email.
type UserRepository struct {
	store *store.Store
}

func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Create(usersCollection, user.Email, user)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user models.User
	if err := r.store.Read(usersCollection, email, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update replaces the whole stored record; callers must supply the complete
// user, not a partial patch.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Update(usersCollection, user.Email, user)
}

func (r *UserRepository) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Delete(usersCollection, email)
}

// Lock serializes read-modify-write sequences against one user record.
func (r *UserRepository) Lock(email string) (unlock func()) {
	return r.store.Lock(usersCollection, email)
}
