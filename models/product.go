package models

// Product is a catalog record. Price is integer cents; money is never
// represented as floating point anywhere in the service.
type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
}
