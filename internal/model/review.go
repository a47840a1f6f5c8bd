package model

const (
	MinReviewRating = 1
	MaxReviewRating = 10
)

// MovieReview is a review annotated with the name of the user who wrote it.
type MovieReview struct {
	UserName   string  `json:"user_name"`
	Rating     float64 `json:"rating"`
	ReviewText string  `json:"review_text"`
}

type ReviewRequest struct {
	ReviewText string  `json:"review_text"`
	Rating     float64 `json:"rating" validate:"gte=1,lte=10"`
}
