package model

import "time"

// BookingLock is an advisory lock serializing the conflict-check-then-insert
// sequence per hangar. The store enforces uniqueness on the lock ID; a TTL
// index on expires_at reaps locks left behind by crashed requests.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
