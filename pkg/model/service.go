package model

import "time"

const (
	ServiceActive          = "active"
	ServiceInactive        = "inactive"
	ServicePendingApproval = "pending_approval"
)

type Duration struct {
	Value float64 `json:"value" bson:"value" validate:"min=0"`
	Unit  string  `json:"unit" bson:"unit" validate:"required,oneof=hour day week"`
}

type Pricing struct {
	Value float64 `json:"value" bson:"value" validate:"min=0"`
	Unit  string  `json:"unit" bson:"unit" validate:"required,oneof=flat_rate hourly daily"`
}

type Certification struct {
	Name       string    `json:"name" bson:"name" validate:"required,max=200"`
	IssuedBy   string    `json:"issuedBy,omitempty" bson:"issued_by,omitempty" validate:"omitempty,max=200"`
	ValidUntil time.Time `json:"validUntil,omitempty" bson:"valid_until,omitempty"`
}

// Service is a bookable maintenance offering. Unlike Hangar its availability
// is a single flag, not a slot list.
type Service struct {
	ID                     string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID             string          `json:"providerId" bson:"provider_id" validate:"required,mongodb"`
	Name                   string          `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description            string          `json:"description" bson:"description" validate:"required,max=2000"`
	Category               string          `json:"category" bson:"category" validate:"required,oneof=maintenance repair inspection cleaning modification certification"`
	Duration               Duration        `json:"duration" bson:"duration" validate:"required"`
	Pricing                Pricing         `json:"pricing" bson:"pricing" validate:"required"`
	Availability           bool            `json:"availability" bson:"availability"`
	Requirements           []string        `json:"requirements,omitempty" bson:"requirements,omitempty" validate:"omitempty,dive,max=200"`
	Certifications         []Certification `json:"certifications,omitempty" bson:"certifications,omitempty" validate:"omitempty,dive"`
	SupportedAircraftTypes []string        `json:"supportedAircraftTypes,omitempty" bson:"supported_aircraft_types,omitempty" validate:"omitempty,dive,max=100"`
	Status                 string          `json:"status" bson:"status" validate:"required,oneof=active inactive pending_approval"`
	CreatedAt              time.Time       `json:"createdAt" bson:"created_at" validate:"omitempty"`
	UpdatedAt              time.Time       `json:"updatedAt" bson:"updated_at" validate:"omitempty"`
}

// ServiceUpdate is the provider-mutable field set.
type ServiceUpdate struct {
	Name                   string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description            string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category               string    `json:"category,omitempty" validate:"omitempty,oneof=maintenance repair inspection cleaning modification certification"`
	Duration               *Duration `json:"duration,omitempty" validate:"omitempty"`
	Pricing                *Pricing  `json:"pricing,omitempty" validate:"omitempty"`
	Availability           *bool     `json:"availability,omitempty"`
	Requirements           []string  `json:"requirements,omitempty" validate:"omitempty,dive,max=200"`
	SupportedAircraftTypes []string  `json:"supportedAircraftTypes,omitempty" validate:"omitempty,dive,max=100"`
	Status                 string    `json:"status,omitempty" validate:"omitempty,oneof=active inactive pending_approval"`
}

type ServiceFilter struct {
	Category string
	Status   string
}
