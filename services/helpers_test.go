package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/store"
)

type testRepos struct {
	users    *repository.UserRepository
	products *repository.ProductRepository
	tokens   *repository.TokenRepository
	orders   *repository.OrderRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	s, err := store.New(t.TempDir(), "users", "products", "tokens", "orders")
	require.NoError(t, err)
	return testRepos{
		users:    repository.NewUserRepository(s),
		products: repository.NewProductRepository(s),
		tokens:   repository.NewTokenRepository(s),
		orders:   repository.NewOrderRepository(s),
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func seedUser(t *testing.T, repos testRepos, email string, cart []models.CartItem) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "not-a-real-hash",
		Address:   "12 Analytical Way",
		Cart:      cart,
		Orders:    []string{},
	}
	if user.Cart == nil {
		user.Cart = []models.CartItem{}
	}
	require.NoError(t, repos.users.Create(context.Background(), user))
	return user
}

func seedProduct(t *testing.T, repos testRepos, id, title string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{ID: id, Title: title, Price: price}
	require.NoError(t, repos.products.Create(context.Background(), product))
	return product
}
