package kafka

import (
	"context"
	"encoding/json"
	"time"
)

// Booking lifecycle events. Downstream consumers (notification delivery,
// websocket fan-out) subscribe to these; the API never waits on them.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
	EventBookingPayment   = "booking.payment_updated"
)

type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"booking_id"`
	HangarID      string    `json:"hangar_id"`
	CustomerID    string    `json:"customer_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingEvents publishes lifecycle events keyed by hangar id.
type BookingEvents struct {
	producer *Producer
}

func NewBookingEvents(producer *Producer) *BookingEvents {
	return &BookingEvents{producer: producer}
}

func (e *BookingEvents) Publish(ctx context.Context, event BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return e.producer.Publish(ctx, event.HangarID, payload)
}
