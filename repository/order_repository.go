package repository

import (
	"context"

	"storefront-service/models"
	"storefront-service/store"
)

const ordersCollection = "orders"

// OrderRepository persists immutable Order records keyed by generated id.
// Orders are only ever created and read, never updated.
type OrderRepository struct {
	store *store.Store
}

func NewOrderRepository(s *store.Store) *OrderRepository {
	return &OrderRepository{store: s}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Create(ordersCollection, order.ID, order)
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var order models.Order
	if err := r.store.Read(ordersCollection, id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
