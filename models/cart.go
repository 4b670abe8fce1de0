package models

// CartItem is a line in a user's cart. It only exists inside a User record.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PopulatedCartItem is a cart line joined with its product record. Inside an
// order it is a frozen snapshot of the product at purchase time.
type PopulatedCartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartSummary is the populated cart plus its integer-cent total and item
// count.
type CartSummary struct {
	Total int64               `json:"total"`
	Count int                 `json:"count"`
	Items []PopulatedCartItem `json:"items"`
}
