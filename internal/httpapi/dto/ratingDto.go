package dto

// SubmitRatingDTO for creating or updating a rating
type SubmitRatingDTO struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// RatingResult is returned after a rating write; average and total reflect
// the state the transaction committed.
type RatingResult struct {
	UserRating    int     `json:"user_rating"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}
