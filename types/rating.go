package types

import "time"

type RateNoteRequest struct {
	NoteID  uint64 `json:"note_id,string" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=500"`
}

type MyRating struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RatingSummary struct {
	NoteID        uint64    `json:"note_id,string"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int64     `json:"ratings_count"`
	Mine          *MyRating `json:"mine,omitempty"`
}

type RatingItem struct {
	ID        uint64      `json:"id,string"`
	Rating    int         `json:"rating"`
	Comment   string      `json:"comment"`
	User      UserProfile `json:"user"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type RatingListResponse struct {
	Ratings []*RatingItem `json:"ratings"`
	HasMore bool          `json:"has_more"`
}
