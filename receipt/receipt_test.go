package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$12", FormatMoney(1200))
	assert.Equal(t, "$12.34", FormatMoney(1234))
	assert.Equal(t, "$0", FormatMoney(0))
	assert.Equal(t, "$0.05", FormatMoney(5))
	assert.Equal(t, "-$3.50", FormatMoney(-350))
	assert.Equal(t, "-$4", FormatMoney(-400))
}

func TestRenderContainsOrderFields(t *testing.T) {
	r, err := NewRenderer(AppInfo{
		Name:       "Storefront",
		DomainURL:  "https://storefront.example",
		SupportURL: "https://storefront.example/support",
	})
	require.NoError(t, err)

	html, text, err := r.Render(Data{
		Name:          "Ada Lovelace",
		PurchaseID:    "abc123",
		PurchaseDate:  "Fri, 29 Aug 2025 12:00:00 UTC",
		Total:         "$37.50",
		PaymentMethod: "visa **4242",
		Items: []LineItem{
			{Description: "Margherita x2", Amount: "$25"},
			{Description: "Diavola x1", Amount: "$12.50"},
		},
	})
	require.NoError(t, err)

	for _, body := range []string{html, text} {
		assert.Contains(t, body, "Storefront")
		assert.Contains(t, body, "Ada Lovelace")
		assert.Contains(t, body, "abc123")
		assert.Contains(t, body, "$37.50")
		assert.Contains(t, body, "Margherita x2")
		assert.Contains(t, body, "visa **4242")
	}
}

func TestRendererAppName(t *testing.T) {
	r, err := NewRenderer(AppInfo{Name: "Storefront"})
	require.NoError(t, err)
	assert.Equal(t, "Storefront", r.AppName())
}
