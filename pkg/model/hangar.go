package model

import "time"

const (
	HangarAvailable   = "available"
	HangarOccupied    = "occupied"
	HangarMaintenance = "maintenance"
	HangarInactive    = "inactive"
)

// AvailabilitySlot is an owner-declared open date range, distinct from the
// conflict-free state derived from bookings.
type AvailabilitySlot struct {
	StartDate time.Time `json:"startDate" bson:"start_date" validate:"required"`
	EndDate   time.Time `json:"endDate" bson:"end_date" validate:"required,gtfield=StartDate"`
}

type Location struct {
	Address     string       `json:"address" bson:"address" validate:"required,max=200"`
	City        string       `json:"city" bson:"city" validate:"required,max=100"`
	State       string       `json:"state" bson:"state" validate:"required,len=2"`
	ZipCode     string       `json:"zipCode" bson:"zip_code" validate:"required,max=10"`
	Coordinates *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" bson:"longitude" validate:"min=-180,max=180"`
}

type Image struct {
	URL     string `json:"url" bson:"url" validate:"omitempty,url"`
	Caption string `json:"caption,omitempty" bson:"caption,omitempty" validate:"omitempty,max=200"`
}

type Hangar struct {
	ID           string             `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID      string             `json:"ownerId" bson:"owner_id" validate:"required,mongodb"`
	Name         string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description  string             `json:"description" bson:"description" validate:"required,max=2000"`
	Size         string             `json:"size" bson:"size" validate:"required,oneof=small medium large extra-large"`
	Status       string             `json:"status" bson:"status" validate:"required,oneof=available occupied maintenance inactive"`
	PricePerDay  float64            `json:"pricePerDay" bson:"price_per_day" validate:"min=0"`
	Amenities    []string           `json:"amenities,omitempty" bson:"amenities,omitempty" validate:"omitempty,dive,oneof=security lighting maintenance power water internet climate-control"`
	Location     Location           `json:"location" bson:"location" validate:"required"`
	Availability []AvailabilitySlot `json:"availability,omitempty" bson:"availability,omitempty" validate:"omitempty,dive"`
	Images       []Image            `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,dive"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updated_at" validate:"omitempty"`
}

// HangarUpdate is the owner-mutable field set. Anything outside it is
// rejected at the handler boundary.
type HangarUpdate struct {
	Name         string             `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description  string             `json:"description,omitempty" validate:"omitempty,max=2000"`
	Size         string             `json:"size,omitempty" validate:"omitempty,oneof=small medium large extra-large"`
	Status       string             `json:"status,omitempty" validate:"omitempty,oneof=available occupied maintenance inactive"`
	PricePerDay  *float64           `json:"pricePerDay,omitempty" validate:"omitempty,min=0"`
	Amenities    []string           `json:"amenities,omitempty" validate:"omitempty,dive,oneof=security lighting maintenance power water internet climate-control"`
	Location     *Location          `json:"location,omitempty" validate:"omitempty"`
	Availability []AvailabilitySlot `json:"availability,omitempty" validate:"omitempty,dive"`
}

// HangarFilter captures the public listing filters.
type HangarFilter struct {
	City     string
	Status   string
	Size     string
	MinPrice *float64
	MaxPrice *float64
}

// HangarDetails is the read model for a single hangar: the record itself plus
// joined owner summary and derived availability state.
type HangarDetails struct {
	Hangar         *Hangar    `json:"hangar"`
	Owner          *User      `json:"owner,omitempty"`
	ActiveBookings []*Booking `json:"activeBookings"`
	IsAvailable    bool       `json:"isAvailable"`
}

// HangarAvailability is the public availability view: future slots only,
// sorted by start date.
type HangarAvailability struct {
	HangarID      string             `json:"hangarId"`
	CurrentStatus string             `json:"currentStatus"`
	Availability  []AvailabilitySlot `json:"availability"`
	TotalSlots    int                `json:"totalSlots"`
}
