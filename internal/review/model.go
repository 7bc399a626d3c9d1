package review

import "time"

type Review struct {
	ID         int       `db:"id" json:"id"`
	FacilityID int       `db:"facility_id" json:"facility_id"`
	UserID     int       `db:"user_id" json:"user_id"`
	UserName   string    `db:"user_name" json:"user_name"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// Summary aggregates a facility's reviews alongside the list.
type Summary struct {
	AverageRating float64  `json:"average_rating"`
	Count         int      `json:"count"`
	Reviews       []Review `json:"reviews"`
}
