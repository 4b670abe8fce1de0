package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/clients"
	apperrors "storefront-service/errors"
	"storefront-service/models"
	"storefront-service/receipt"
	"storefront-service/repository"
	"storefront-service/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PaymentGateway charges a payment source. Amounts are positive integer
// cents.
type PaymentGateway interface {
	CreateCharge(ctx context.Context, req clients.ChargeRequest) (*clients.Charge, error)
}

// Notifier delivers a message to a user. Failures never affect the outcome
// of the operation that triggered the message.
type Notifier interface {
	SendMessage(ctx context.Context, msg clients.Message) error
}

// CheckoutService converts a cart into a charged, persisted order.
//
// The pipeline per attempt: resolve user, reject empty cart, populate and
// total the cart, charge the gateway, persist the order, update the user,
// send the receipt. Everything up to the charge has no side effects. The
// order id is derived from the charge reference, so if the order write or
// the user update fails after a successful charge, a retried checkout with
// the same charge lands on the same order key instead of double-charging;
// such failures are logged with the charge id for reconciliation. There are
// no compensating transactions.
type CheckoutService struct {
	users    *repository.UserRepository
	orders   *repository.OrderRepository
	cart     *CartService
	gateway  PaymentGateway
	notifier Notifier
	renderer *receipt.Renderer
	logger   *zap.Logger
}

func NewCheckoutService(
	users *repository.UserRepository,
	orders *repository.OrderRepository,
	cart *CartService,
	gateway PaymentGateway,
	notifier Notifier,
	renderer *receipt.Renderer,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		users:    users,
		orders:   orders,
		cart:     cart,
		gateway:  gateway,
		notifier: notifier,
		renderer: renderer,
		logger:   logger,
	}
}

// Checkout charges the user's populated cart against the supplied payment
// source and returns the created order. Checkouts for the same user are
// serialized on the user's key lock, so two concurrent attempts cannot both
// charge the same cart: the second one runs after the first has emptied it.
func (s *CheckoutService) Checkout(ctx context.Context, email, source string) (*models.Order, *apperrors.Error) {
	if source == "" {
		return nil, apperrors.Validation("Missing required fields")
	}

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

	if len(user.Cart) == 0 {
		return nil, apperrors.Validation("There are no products in your cart. Please add products before creating an order.")
	}

	populated, err := s.cart.Populate(ctx, user.Cart)
	if err != nil {
		s.logger.Error("populate cart failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Internal("Error populating cart items data", err)
	}
	summary := s.cart.Summarize(populated)

	if summary.Total == 0 {
		return nil, apperrors.Validation("Your cart total is $0. We cannot process orders of that amount.")
	}

	charge, err := s.gateway.CreateCharge(ctx, clients.ChargeRequest{
		Amount: summary.Total,
		Source: source,
	})
	if err != nil {
		s.logger.Error("create charge failed",
			zap.String("email", email),
			zap.Int64("amount", summary.Total),
			zap.Error(err))
		return nil, apperrors.Upstream("Could not create a charge for the order. Please try again.", err)
	}

	order := &models.Order{
		ID:        DeriveID(charge.ID),
		Email:     email,
		Items:     summary.Items,
		Total:     summary.Total,
		Charge:    charge.ID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil && !errors.Is(err, store.ErrExists) {
		// The charge went through but no order record exists. The stable
		// order id derived from the charge keeps a retry idempotent, but
		// until then this charge is unaccounted for.
		s.logger.Error("order not persisted after successful charge, reconciliation required",
			zap.String("email", email),
			zap.String("charge_id", charge.ID),
			zap.String("order_id", order.ID),
			zap.Error(err))
		return nil, apperrors.Persistence("Could not create the new order", err)
	}

	user.Orders = append(user.Orders, order.ID)
	user.Cart = []models.CartItem{}
	if err := s.users.Update(ctx, user); err != nil {
		// The order exists and the charge succeeded, but the user's cart and
		// order list are stale.
		s.logger.Error("user not updated after successful checkout, reconciliation required",
			zap.String("email", email),
			zap.String("charge_id", charge.ID),
			zap.String("order_id", order.ID),
			zap.Error(err))
		return nil, apperrors.Persistence("Could not update the user", err)
	}

	s.sendReceipt(ctx, user, order, charge)

	return order, nil
}

// GetOrder returns one of the user's orders. Users can only see their own.
func (s *CheckoutService) GetOrder(ctx context.Context, email, id string) (*models.Order, *apperrors.Error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Could not find the requested order")
		}
		s.logger.Error("read order failed", zap.String("order_id", id), zap.Error(err))
		return nil, apperrors.Persistence("Could not read the order", err)
	}
	if order.Email != email {
		return nil, apperrors.Forbidden()
	}
	return order, nil
}

// ListOrders resolves all of the user's order ids, fetching them
// concurrently and failing as a whole if any read fails.
func (s *CheckoutService) ListOrders(ctx context.Context, email string) ([]models.Order, *apperrors.Error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Could not find the requested user")
		}
		s.logger.Error("read user failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Persistence("Could not read the user", err)
	}

	orders := make([]models.Order, len(user.Orders))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range user.Orders {
		i, id := i, id
		g.Go(func() error {
			order, err := s.orders.FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("populate order %s: %w", id, err)
			}
			orders[i] = *order
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("populate orders failed", zap.String("email", email), zap.Error(err))
		return nil, apperrors.Internal("Error populating orders data", err)
	}
	return orders, nil
}

// sendReceipt renders and dispatches the receipt for a completed order.
// Strictly best-effort: any failure is logged and swallowed, it never undoes
// or fails the checkout.
func (s *CheckoutService) sendReceipt(ctx context.Context, user *models.User, order *models.Order, charge *clients.Charge) {
	if s.renderer == nil || s.notifier == nil {
		return
	}

	items := make([]receipt.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, receipt.LineItem{
			Description: fmt.Sprintf("%s x%d", item.Product.Title, item.Quantity),
			Amount:      receipt.FormatMoney(item.Product.Price * int64(item.Quantity)),
		})
	}

	paymentMethod := "card"
	if card := charge.PaymentMethodDetails.Card; card.Brand != "" {
		paymentMethod = fmt.Sprintf("%s **%s", card.Brand, card.Last4)
	}

	html, text, err := s.renderer.Render(receipt.Data{
		Name:          user.FullName(),
		PurchaseID:    order.ID,
		PurchaseDate:  order.CreatedAt.Format(time.RFC1123),
		Total:         receipt.FormatMoney(order.Total),
		PaymentMethod: paymentMethod,
		Items:         items,
	})
	if err != nil {
		s.logger.Warn("render receipt failed", zap.String("order_id", order.ID), zap.Error(err))
		return
	}

	msg := clients.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Receipt from %s", s.renderer.AppName()),
		Text:    text,
		HTML:    html,
	}
	if err := s.notifier.SendMessage(ctx, msg); err != nil {
		s.logger.Warn("send receipt failed", zap.String("order_id", order.ID), zap.Error(err))
	}
}
