package model

import "time"

const (
	ReviewActive   = "active"
	ReviewHidden   = "hidden"
	ReviewReported = "reported"
)

type ReviewResponse struct {
	Comment string    `json:"comment" bson:"comment" validate:"required,max=500"`
	Date    time.Time `json:"date" bson:"date"`
}

type Review struct {
	ID        string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string          `json:"userId" bson:"user_id" validate:"required,mongodb"`
	HangarID  string          `json:"hangarId" bson:"hangar_id" validate:"required,mongodb"`
	BookingID string          `json:"bookingId" bson:"booking_id" validate:"required,mongodb"`
	Rating    int             `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Comment   string          `json:"comment" bson:"comment" validate:"required,min=1,max=500"`
	Response  *ReviewResponse `json:"response,omitempty" bson:"response,omitempty"`
	Status    string          `json:"status" bson:"status" validate:"required,oneof=active hidden reported"`
	CreatedAt time.Time       `json:"createdAt" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updated_at" validate:"omitempty"`
}

type ReviewRequest struct {
	BookingID string `json:"bookingId" validate:"required,mongodb"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,min=1,max=500"`
}

type ReviewUpdate struct {
	Rating  int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,min=1,max=500"`
}

// RatingSummary aggregates active reviews for a hangar. Zero values when no
// active reviews exist.
type RatingSummary struct {
	Average float64 `json:"average" bson:"average"`
	Count   int64   `json:"count" bson:"count"`
}
