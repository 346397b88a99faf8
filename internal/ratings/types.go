package ratings

// RateInput carries one star rating submission.
type RateInput struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

// RatingDTO reports the caller's rating alongside the book's refreshed
// aggregate.
type RatingDTO struct {
	Value       int     `json:"value"`
	RatingAvg   float64 `json:"rating_avg"`
	RatingCount int     `json:"rating_count"`
}
