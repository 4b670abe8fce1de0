package services

import (
	"context"
	"errors"
	"time"

	apperrors "storefront-service/errors"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/store"

	"go.uber.org/zap"
)

// issueAttempts bounds the retry loop for the astronomically unlikely id
// collision on token creation.
const issueAttempts = 3

// TokenService issues and checks bearer session tokens. A token only ever
// moves from valid to expired (passively, checked on each use) or to deleted;
// there is no revocation list beyond deletion.
type TokenService struct {
	tokens     *repository.TokenRepository
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewTokenService(tokens *repository.TokenRepository, sessionTTL time.Duration, logger *zap.Logger) *TokenService {
	return &TokenService{tokens: tokens, sessionTTL: sessionTTL, logger: logger}
}

// Issue creates a fresh session token for email, retrying on id collision.
func (s *TokenService) Issue(ctx context.Context, email string) (*models.Token, *apperrors.Error) {
	for attempt := 0; attempt < issueAttempts; attempt++ {
		token := &models.Token{
			ID:      NewID(),
			Email:   email,
			Expires: time.Now().Add(s.sessionTTL),
		}
		err := s.tokens.Create(ctx, token)
		if err == nil {
			return token, nil
		}
		if errors.Is(err, store.ErrExists) {
			continue
		}
		s.logger.Error("create token failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Persistence("Could not create the new token", err)
	}
	return nil, apperrors.Persistence("Could not create the new token", nil)
}

// Validate resolves a token id into a live session. Missing and expired
// tokens are both reported as an auth failure; expiry is checked lazily
// here, never by a background sweep.
func (s *TokenService) Validate(ctx context.Context, id string) (*models.Token, *apperrors.Error) {
	if id == "" {
		return nil, apperrors.Unauthorized("")
	}
	token, err := s.tokens.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Unauthorized("")
		}
		s.logger.Error("read token failed", zap.Error(err))
		return nil, apperrors.Persistence("Could not read the token", err)
	}
	if token.Expired(time.Now()) {
		return nil, apperrors.Unauthorized("")
	}
	return token, nil
}

// Extend pushes a live token's expiry out by the session duration. An
// already-expired token cannot be resurrected.
func (s *TokenService) Extend(ctx context.Context, id string) (*models.Token, *apperrors.Error) {
	unlock := s.tokens.Lock(id)
	defer unlock()

	token, err := s.tokens.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Could not find the specified token")
		}
		s.logger.Error("read token failed", zap.Error(err))
		return nil, apperrors.Persistence("Could not read the token", err)
	}
	if token.Expired(time.Now()) {
		return nil, apperrors.Validation("The token has already expired and cannot be extended")
	}

	token.Expires = time.Now().Add(s.sessionTTL)
	if err := s.tokens.Update(ctx, token); err != nil {
		s.logger.Error("update token failed", zap.Error(err))
		return nil, apperrors.Persistence("Could not update the token's expiration", err)
	}
	return token, nil
}

// Revoke deletes the token; subsequent Validate calls on it fail.
func (s *TokenService) Revoke(ctx context.Context, id string) *apperrors.Error {
	if err := s.tokens.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Could not find the specified token")
		}
		s.logger.Error("delete token failed", zap.Error(err))
		return apperrors.Persistence("Could not delete the specified token", err)
	}
	return nil
}

// AuthorizeFor checks that the token is live and belongs to email, so a
// session can only act on its own resources.
func (s *TokenService) AuthorizeFor(ctx context.Context, id, email string) *apperrors.Error {
	token, svcErr := s.Validate(ctx, id)
	if svcErr != nil {
		return svcErr
	}
	if token.Email != email {
		return apperrors.Forbidden()
	}
	return nil
}
