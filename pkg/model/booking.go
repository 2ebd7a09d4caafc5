package model

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type Aircraft struct {
	Type               string `json:"type" bson:"type" validate:"required,max=100"`
	RegistrationNumber string `json:"registrationNumber" bson:"registration_number" validate:"required,max=20"`
	Size               string `json:"size" bson:"size" validate:"required,oneof=small medium large extra-large"`
}

type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HangarID        string    `json:"hangarId" bson:"hangar_id" validate:"required,mongodb"`
	CustomerID      string    `json:"customerId" bson:"customer_id" validate:"required,mongodb"`
	StartDate       time.Time `json:"startDate" bson:"start_date" validate:"required"`
	EndDate         time.Time `json:"endDate" bson:"end_date" validate:"required,gtfield=StartDate"`
	TotalPrice      float64   `json:"totalPrice" bson:"total_price" validate:"min=0"`
	Aircraft        Aircraft  `json:"aircraft" bson:"aircraft" validate:"required"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	PaymentStatus   string    `json:"paymentStatus" bson:"payment_status" validate:"required,oneof=pending paid refunded"`
	SpecialRequests string    `json:"specialRequests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=1000"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at" validate:"omitempty"`
}

type BookingRequest struct {
	HangarID        string    `json:"hangarId" validate:"required,mongodb"`
	StartDate       time.Time `json:"startDate" validate:"required"`
	EndDate         time.Time `json:"endDate" validate:"required"`
	Aircraft        Aircraft  `json:"aircraft" validate:"required"`
	SpecialRequests string    `json:"specialRequests,omitempty" validate:"omitempty,max=1000"`
}

// DateRange is a half-open interval [Start, End): two ranges overlap iff
// startA < endB and endA > startB, so back-to-back bookings never conflict.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Valid() bool {
	return r.Start.Before(r.End)
}

func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Days returns the billable length of the range, rounding partial days up.
func (r DateRange) Days() int {
	d := r.End.Sub(r.Start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// IsTerminal reports whether the booking reached a state no status
// transition may leave.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}

func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}
