package repository

import (
	"context"

	"storefront-service/models"
	"storefront-service/store"
)

const productsCollection = "products"

// ProductRepository persists Product records keyed by generated id.
type ProductRepository struct {
	store *store.Store
}

func NewProductRepository(s *store.Store) *ProductRepository {
	return &ProductRepository{store: s}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Create(productsCollection, product.ID, product)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var product models.Product
	if err := r.store.Read(productsCollection, id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Update(productsCollection, product.ID, product)
}

func (r *ProductRepository) ListIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.List(productsCollection)
}
