package reviews

import (
	"time"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
)

// SubmitInput carries the review form fields.
type SubmitInput struct {
	OrderID int64   `json:"order_id" validate:"required,gt=0"`
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// Review is the API projection of a review row.
type Review struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"order_id"`
	ReviewerID     int64     `json:"reviewer_id"`
	ReviewedUserID int64     `json:"reviewed_user_id"`
	Rating         int       `json:"rating"`
	Comment        *string   `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserReviews aggregates a user's received reviews.
type UserReviews struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
}

// ToReview maps a model row into its API projection.
func ToReview(review *models.Review) Review {
	return Review{
		ID:             review.ID,
		OrderID:        review.OrderID,
		ReviewerID:     review.ReviewerID,
		ReviewedUserID: review.ReviewedUserID,
		Rating:         review.Rating,
		Comment:        review.Comment,
		CreatedAt:      review.CreatedAt,
	}
}
