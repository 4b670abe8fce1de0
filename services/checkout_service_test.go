package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-service/clients"
	"storefront-service/models"
	"storefront-service/receipt"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCharge(ctx context.Context, req clients.ChargeRequest) (*clients.Charge, error) {
	args := m.Called(ctx, req)
	if charge := args.Get(0); charge != nil {
		return charge.(*clients.Charge), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendMessage(ctx context.Context, msg clients.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func newCheckoutService(t *testing.T, repos testRepos, gateway PaymentGateway, notifier Notifier) *CheckoutService {
	t.Helper()
	renderer, err := receipt.NewRenderer(receipt.AppInfo{
		Name:       "Storefront",
		DomainURL:  "https://storefront.example",
		SupportURL: "https://storefront.example/support",
	})
	require.NoError(t, err)

	cart := NewCartService(repos.users, repos.products, testLogger())
	return NewCheckoutService(repos.users, repos.orders, cart, gateway, notifier, renderer, testLogger())
}

func TestCheckoutSuccess(t *testing.T) {
	repos := newTestRepos(t)
	seedProduct(t, repos, "margherita0000000001", "Margherita", 1250)
	seedUser(t, repos, "ada@example.com", []models.CartItem{
		{ProductID: "margherita0000000001", Quantity: 2},
	})

	gateway := new(mockGateway)
	notifier := new(mockNotifier)
	svc := newCheckoutService(t, repos, gateway, notifier)

	gateway.On("CreateCharge", mock.Anything, clients.ChargeRequest{Amount: 2500, Source: "tok_visa"}).
		Return(&clients.Charge{ID: "ch_123"}, nil).Once()
	notifier.On("SendMessage", mock.Anything, mock.Anything).Return(nil).Once()

	order, svcErr := svc.Checkout(context.Background(), "ada@example.com", "tok_visa")
	require.Nil(t, svcErr)
	assert.Equal(t, DeriveID("ch_123"), order.ID)
	assert.Equal(t, int64(2500), order.Total)
	assert.Equal(t, "ch_123", order.Charge)
	require.Len(t, order.Items, 1)

	// The order is persisted and the user record reflects it.
	stored, err := repos.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", stored.Email)

	user, err := repos.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Empty(t, user.Cart)
	assert.Equal(t, []string{order.ID}, user.Orders)

	gateway.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCheckoutEmptyCart(t *testing.T) {
	repos := newTestRepos(t)
	seedUser(t, repos, "ada@example.com", nil)

	gateway := new(mockGateway)
	svc := newCheckoutService(t, repos, gateway, new(mockNotifier))

	_, svcErr := svc.Checkout(context.Background(), "ada@example.com", "tok_visa")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.Code)
	assert.Equal(t, "There are no products in your cart. Please add products before creating an order.", svcErr.Message)
	gateway.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)
}

func TestCheckoutZeroTotal(t *testing.T) {
	repos := newTestRepos(t)
	seedProduct(t, repos, "freebie0000000000001", "Freebie", 0)
	seedUser(t, repos, "ada@example.com", []models.CartItem{
		{ProductID: "freebie0000000000001", Quantity: 1},
	})

	gateway := new(mockGateway)
	svc := newCheckoutService(t, repos, gateway, new(mockNotifier))

	_, svcErr := svc.Checkout(context.Background(), "ada@example.com", "tok_visa")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.Code)
	assert.Equal(t, "Your cart total is $0. We cannot process orders of that amount.", svcErr.Message)
	gateway.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)
}

func TestCheckoutMissingSource(t *testing.T) {
	repos := newTestRepos(t)
	svc := newCheckoutService(t, repos, new(mockGateway), new(mockNotifier))

	_, svcErr := svc.Checkout(context.Background(), "ada@example.com", "")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.Code)
}

func TestCheckoutChargeFailureLeavesCartIntact(t *testing.T) {
	repos := newTestRepos(t)
	seedProduct(t, repos, "margherita0000000001", "Margherita", 1250)
	seedUser(t, repos, "ada@example.com", []models.CartItem{
		{ProductID: "margherita0000000001", Quantity: 1},
	})

	gateway := new(mockGateway)
	notifier := new(mockNotifier)
	svc := newCheckoutService(t, repos, gateway, notifier)

	gateway.On("CreateCharge", mock.Anything, mock.Anything).
		Return(nil, errors.New("card declined")).Once()

	_, svcErr := svc.Checkout(context.Background(), "ada@example.com", "tok_visa")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadGateway, svcErr.Code)
	assert.Equal(t, "Could not create a charge for the order. Please try again.", svcErr.Message)

	// Nothing was persisted.
	user, err := repos.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Len(t, user.Cart, 1)
	assert.Empty(t, user.Orders)
	notifier.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestCheckoutNotifierFailureDoesNotFailCheckout(t *testing.T) {
	repos := newTestRepos(t)
	seedProduct(t, repos, "margherita0000000001", "Margherita", 1250)
	seedUser(t, repos, "ada@example.com", []models.CartItem{
		{ProductID: "margherita0000000001", Quantity: 1},
	})

	gateway := new(mockGateway)
	notifier := new(mockNotifier)
	svc := newCheckoutService(t, repos, gateway, notifier)

	gateway.On("CreateCharge", mock.Anything, mock.Anything).
		Return(&clients.Charge{ID: "ch_456"}, nil).Once()
	notifier.On("SendMessage", mock.Anything, mock.Anything).
		Return(errors.New("mailgun down")).Once()

	order, svcErr := svc.Checkout(context.Background(), "ada@example.com", "tok_visa")
	require.Nil(t, svcErr)
	assert.Equal(t, "ch_456", order.Charge)
}

// countingGateway succeeds on every call and counts how many charges it
// creates, so concurrent checkouts can be checked for double-charging.
type countingGateway struct {
	calls atomic.Int64
}

func (g *countingGateway) CreateCharge(ctx context.Context, req clients.ChargeRequest) (*clients.Charge, error) {
	n := g.calls.Add(1)
	return &clients.Charge{ID: "ch_concurrent_" + string(rune('a'+n))}, nil
}

type noopNotifier struct{}

func (noopNotifier) SendMessage(ctx context.Context, msg clients.Message) error { return nil }

func TestConcurrentCheckoutsChargeOnce(t *testing.T) {
	repos := newTestRepos(t)
	seedProduct(t, repos, "margherita0000000001", "Margherita", 1250)
	seedUser(t, repos, "ada@example.com", []models.CartItem{
		{ProductID: "margherita0000000001", Quantity: 1},
	})

	gateway := &countingGateway{}
	svc := newCheckoutService(t, repos, gateway, noopNotifier{})

	const attempts = 5
	var wg sync.WaitGroup
	var successes atomic.Int64
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if _, svcErr := svc.Checkout(context.Background(), "ada@example.com", "tok_visa"); svcErr == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	// The user lock serializes the attempts: the first empties the cart and
	// every later one fails on the empty-cart check.
	assert.Equal(t, int64(1), successes.Load())
	assert.Equal(t, int64(1), gateway.calls.Load())
}

func TestGetOrderOwnership(t *testing.T) {
	repos := newTestRepos(t)
	seedUser(t, repos, "ada@example.com", nil)

	order := &models.Order{ID: NewID(), Email: "ada@example.com", Total: 1250}
	require.NoError(t, repos.orders.Create(context.Background(), order))

	svc := newCheckoutService(t, repos, new(mockGateway), new(mockNotifier))

	got, svcErr := svc.GetOrder(context.Background(), "ada@example.com", order.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, order.ID, got.ID)

	_, svcErr = svc.GetOrder(context.Background(), "mallory@example.com", order.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusForbidden, svcErr.Code)

	_, svcErr = svc.GetOrder(context.Background(), "ada@example.com", "missingorder00000001")
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.Code)
}

func TestListOrders(t *testing.T) {
	repos := newTestRepos(t)
	user := seedUser(t, repos, "ada@example.com", nil)

	first := &models.Order{ID: NewID(), Email: user.Email, Total: 1250}
	second := &models.Order{ID: NewID(), Email: user.Email, Total: 2500}
	require.NoError(t, repos.orders.Create(context.Background(), first))
	require.NoError(t, repos.orders.Create(context.Background(), second))

	user.Orders = []string{first.ID, second.ID}
	require.NoError(t, repos.users.Update(context.Background(), user))

	svc := newCheckoutService(t, repos, new(mockGateway), new(mockNotifier))

	orders, svcErr := svc.ListOrders(context.Background(), user.Email)
	require.Nil(t, svcErr)
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, second.ID, orders[1].ID)
}
