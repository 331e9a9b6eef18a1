package model

// Rating is the review summary the remote service keeps for a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog entry. It is owned by the remote service; the CLI
// never assigns ids.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image,omitempty"`
	Rating      *Rating `json:"rating,omitempty"`
}

// ProductInput is the user-supplied part of a new product
type ProductInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// RatingRate returns the rate and whether it should be shown.
// A missing rating and a zero rate both render as not applicable.
func (p Product) RatingRate() (float64, bool) {
	if p.Rating == nil || p.Rating.Rate == 0 {
		return 0, false
	}
	return p.Rating.Rate, true
}

// RatingCount returns the review count, 0 when there is no rating
func (p Product) RatingCount() int {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.Count
}
