package repository

import (
	"context"

	"storefront-service/models"
	"storefront-service/store"
)

const tokensCollection = "tokens"

// TokenRepository persists session Token records keyed by token id.
type TokenRepository struct {
	store *store.Store
}

func NewTokenRepository(s *store.Store) *TokenRepository {
	return &TokenRepository{store: s}
}

// Create fails with store.ErrExists on an id collision so the caller can
// regenerate and retry.
func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Create(tokensCollection, token.ID, token)
}

func (r *TokenRepository) FindByID(ctx context.Context, id string) (*models.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var token models.Token
	if err := r.store.Read(tokensCollection, id, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepository) Update(ctx context.Context, token *models.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Update(tokensCollection, token.ID, token)
}

func (r *TokenRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Delete(tokensCollection, id)
}

// Lock serializes read-modify-write sequences against one token record, e.g.
// two concurrent extends.
func (r *TokenRepository) Lock(id string) (unlock func()) {
	return r.store.Lock(tokensCollection, id)
}
