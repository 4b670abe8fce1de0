package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "storefront-service/errors"
	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CartService resolves cart lines against live product records and mutates
// the cart stored inside the user record.
type CartService struct {
	users    *repository.UserRepository
	products *repository.ProductRepository
	logger   *zap.Logger
}

func NewCartService(users *repository.UserRepository, products *repository.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{users: users, products: products, logger: logger}
}

// Populate joins each cart line with its product record. Products are
// fetched concurrently and any missing product fails the whole operation; a
// cart referencing a deleted product is an aggregate failure, never a
// silently skipped line.
func (s *CartService) Populate(ctx context.Context, items []models.CartItem) ([]models.PopulatedCartItem, error) {
	populated := make([]models.PopulatedCartItem, len(items))

	g, ctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			product, err := s.products.FindByID(ctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("populate product %s: %w", item.ProductID, err)
			}
			populated[i] = models.PopulatedCartItem{Product: *product, Quantity: item.Quantity}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return populated, nil
}

// Summarize computes the integer-cent total and item count of a populated
// cart.
func (s *CartService) Summarize(items []models.PopulatedCartItem) models.CartSummary {
	summary := models.CartSummary{Items: items}
	if summary.Items == nil {
		summary.Items = []models.PopulatedCartItem{}
	}
	for _, item := range items {
		summary.Total += item.Product.Price * int64(item.Quantity)
		summary.Count += item.Quantity
	}
	return summary
}

// Get returns the user's populated, summarized cart.
func (s *CartService) Get(ctx context.Context, email string) (*models.CartSummary, *apperrors.Error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Could not find the requested user")
		}
		s.logger.Error("read user failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Persistence("Could not read the user", err)
	}
	return s.summarizeCart(ctx, user.Cart)
}

// AddItem puts quantity units of a product into the user's cart, merging
// with an existing line for the same product.
func (s *CartService) AddItem(ctx context.Context, email, productID string, quantity int) (*models.CartSummary, *apperrors.Error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("Quantity must be a positive integer")
	}
	if svcErr := s.requireProduct(ctx, productID); svcErr != nil {
		return nil, svcErr
	}

	return s.mutateCart(ctx, email, func(user *models.User) *apperrors.Error {
		for i, item := range user.Cart {
			if item.ProductID == productID {
				user.Cart[i].Quantity += quantity
				return nil
			}
		}
		user.Cart = append(user.Cart, models.CartItem{ProductID: productID, Quantity: quantity})
		return nil
	})
}

// UpdateItem sets the quantity of an existing cart line.
func (s *CartService) UpdateItem(ctx context.Context, email, productID string, quantity int) (*models.CartSummary, *apperrors.Error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("Quantity must be a positive integer")
	}
	if svcErr := s.requireProduct(ctx, productID); svcErr != nil {
		return nil, svcErr
	}

	return s.mutateCart(ctx, email, func(user *models.User) *apperrors.Error {
		for i, item := range user.Cart {
			if item.ProductID == productID {
				user.Cart[i].Quantity = quantity
				return nil
			}
		}
		return apperrors.Validation("Could not find the product in the user's cart")
	})
}

// RemoveItem drops a product from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, email, productID string) (*models.CartSummary, *apperrors.Error) {
	return s.mutateCart(ctx, email, func(user *models.User) *apperrors.Error {
		for i, item := range user.Cart {
			if item.ProductID == productID {
				user.Cart = append(user.Cart[:i], user.Cart[i+1:]...)
				return nil
			}
		}
		return apperrors.Validation("Could not find the product in the user's cart")
	})
}

// mutateCart runs a read-modify-write on the user's cart under the user's
// key lock and returns the resulting populated summary.
func (s *CartService) mutateCart(ctx context.Context, email string, mutate func(*models.User) *apperrors.Error) (*models.CartSummary, *apperrors.Error) {
	unlock := s.users.Lock(email)
	defer unlock()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Could not find the requested user")
		}
		s.logger.Error("read user failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Persistence("Could not read the user", err)
	}

	if svcErr := mutate(user); svcErr != nil {
		return nil, svcErr
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("update user failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Persistence("Could not update the user", err)
	}

	return s.summarizeCart(ctx, user.Cart)
}

// requireProduct fails with NotFound when the product does not exist.
func (s *CartService) requireProduct(ctx context.Context, productID string) *apperrors.Error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Could not find the requested product")
		}
		s.logger.Error("read product failed", zap.String("product_id", productID), zap.Error(err))
		return apperrors.Persistence("Could not read the product", err)
	}
	return nil
}

func (s *CartService) summarizeCart(ctx context.Context, items []models.CartItem) (*models.CartSummary, *apperrors.Error) {
	populated, err := s.Populate(ctx, items)
	if err != nil {
		s.logger.Error("populate cart failed", zap.Error(err))
		return nil, apperrors.Internal("Error populating cart items data", err)
	}
	summary := s.Summarize(populated)
	return &summary, nil
}
