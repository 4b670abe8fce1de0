package clients

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ChargeRequest describes a card charge. Amount is positive integer cents;
// the currency is fixed to USD.
type ChargeRequest struct {
	Amount int64
	Source string
}

// Charge is the subset of the Stripe charge object the service consumes.
type Charge struct {
	ID                   string `json:"id"`
	Amount               int64  `json:"amount"`
	PaymentMethodDetails struct {
		Card struct {
			Brand string `json:"brand"`
			Last4 string `json:"last4"`
		} `json:"card"`
	} `json:"payment_method_details"`
}

// CreateCharge charges the supplied card source through the Stripe charges
// endpoint.
func CreateCharge(ctx context.Context, c *Client, req ChargeRequest) (*Charge, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("charge amount must be positive, got %d", req.Amount)
	}
	if req.Source == "" {
		return nil, fmt.Errorf("charge source must be supplied")
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount, 10))
	form.Set("currency", "usd")
	form.Set("source", req.Source)

	var charge Charge
	if err := c.PostForm(ctx, "/charges", form, &charge); err != nil {
		return nil, fmt.Errorf("create charge: %w", err)
	}
	return &charge, nil
}

// StripeGateway adapts the charge API to the payment gateway capability the
// checkout service depends on.
type StripeGateway struct {
	Client *Client
}

func (g *StripeGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	return CreateCharge(ctx, g.Client, req)
}
