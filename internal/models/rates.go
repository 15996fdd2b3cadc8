package models

// AnnualRateInput is the payload for creating a property annual rate.
type AnnualRateInput struct {
	PropertyID int64   `json:"property_id"`
	Year       int     `json:"year"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note,omitempty"`
}

// RateInput updates a property's standing monthly rate.
type RateInput struct {
	Rate float64 `json:"rate"`
}
