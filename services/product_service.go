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

// UpdateProductRequest carries the optional catalog fields; a nil Price and
// an empty Title are left untouched.
type UpdateProductRequest struct {
	Title string
	Price *int64
}

// ProductService owns the product catalog.
type ProductService struct {
	products *repository.ProductRepository
	logger   *zap.Logger
}

func NewProductService(products *repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// Create adds a catalog entry with a generated id. Price is integer cents.
func (s *ProductService) Create(ctx context.Context, title string, price int64) (*models.Product, *apperrors.Error) {
	if title == "" {
		return nil, apperrors.Validation("Missing required fields")
	}
	if price <= 0 {
		return nil, apperrors.Validation("Price must be a positive amount of cents")
	}

	product := &models.Product{ID: NewID(), Title: title, Price: price}
	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("create product failed", zap.Error(err))
		return nil, apperrors.Persistence("Could not create the new product", err)
	}
	return product, nil
}

// Get looks up one product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, *apperrors.Error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Could not find the requested product")
		}
		s.logger.Error("read product failed", zap.String("product_id", id), zap.Error(err))
		return nil, apperrors.Persistence("Could not read the product", err)
	}
	return product, nil
}

// Update applies the provided fields over the stored record. Carts snapshot
// product data at checkout time, so existing orders are unaffected.
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*models.Product, *apperrors.Error) {
	if req.Title == "" && req.Price == nil {
		return nil, apperrors.Validation("Missing fields to update")
	}
	if req.Price != nil && *req.Price <= 0 {
		return nil, apperrors.Validation("Price must be a positive amount of cents")
	}

	product, svcErr := s.Get(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Title != "" {
		product.Title = req.Title
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.logger.Error("update product failed", zap.String("product_id", id), zap.Error(err))
		return nil, apperrors.Persistence("Could not update the product", err)
	}
	return product, nil
}

// List returns the whole catalog, fetching product records concurrently and
// failing as a whole if any read fails.
func (s *ProductService) List(ctx context.Context) ([]models.Product, *apperrors.Error) {
	ids, err := s.products.ListIDs(ctx)
	if err != nil {
		s.logger.Error("list products failed", zap.Error(err))
		return nil, apperrors.Persistence("Could not list the products", err)
	}

	products := make([]models.Product, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			product, err := s.products.FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("populate product %s: %w", id, err)
			}
			products[i] = *product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("populate products failed", zap.Error(err))
		return nil, apperrors.Internal("Error populating products data", err)
	}
	return products, nil
}
