package model

// Product is a catalog item as carried in assistant recommendations.
type Product struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

// CartLine is one product in the local cart projection, keyed by
// ProductID. Quantity is always at least 1.
type CartLine struct {
	ProductID int64
	Title     string
	Price     float64
	ImageURL  string
	Quantity  int
}
