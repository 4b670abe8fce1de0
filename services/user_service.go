package services

import (
	"context"
	"errors"

	apperrors "storefront-service/errors"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest carries the fields required to create an account.
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Address   string
}

// UpdateProfileRequest carries the optional profile fields; empty fields are
// left untouched.
type UpdateProfileRequest struct {
	FirstName string
	LastName  string
	Password  string
	Address   string
}

// UserService owns account lifecycle and credential checks.
type UserService struct {
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Register creates a new account keyed by email. The password is stored as a
// bcrypt hash, never in the clear.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, *apperrors.Error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Could not hash the user's password", err)
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashed),
		Address:   req.Address,
		Cart:      []models.CartItem{},
		Orders:    []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrExists) {
			return nil, apperrors.Conflict("A user with that email already exists")
		}
		s.logger.Error("create user failed", zap.String("email", req.Email), zap.Error(err))
		return nil, apperrors.Persistence("Could not create the new user", err)
	}
	return user, nil
}

// Get looks up an account by email.
func (s *UserService) Get(ctx context.Context, email string) (*models.User, *apperrors.Error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Could not find the requested user")
		}
		s.logger.Error("read user failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Persistence("Could not read the user", err)
	}
	return user, nil
}

// UpdateProfile applies the provided fields over the stored record. The
// whole record is rewritten, so the read and write run under the user's key
// lock to avoid dropping a concurrent change.
func (s *UserService) UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (*models.User, *apperrors.Error) {
	if req.FirstName == "" && req.LastName == "" && req.Password == "" && req.Address == "" {
		return nil, apperrors.Validation("Missing fields to update")
	}

	unlock := s.users.Lock(email)
	defer unlock()

	user, svcErr := s.Get(ctx, email)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Internal("Could not hash the user's password", err)
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("update user failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Persistence("Could not update the user", err)
	}
	return user, nil
}

// Delete removes an account. Tokens issued for it keep failing validation
// once their expiry passes; orders remain for bookkeeping.
func (s *UserService) Delete(ctx context.Context, email string) *apperrors.Error {
	if err := s.users.Delete(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Could not find the requested user")
		}
		s.logger.Error("delete user failed", zap.String("email", email), zap.Error(err))
		return apperrors.Persistence("Could not delete the user", err)
	}
	return nil
}

// Authenticate verifies an email/password pair and returns the account.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, *apperrors.Error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.Validation("Could not find the specified user")
		}
		s.logger.Error("read user failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Persistence("Could not read the user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Validation("Password did not match the specified user's stored password")
	}
	return user, nil
}
