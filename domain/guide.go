package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Availability define los estados de disponibilidad de un guía
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityBusy        Availability = "busy"
	AvailabilityUnavailable Availability = "unavailable"
)

// IsValid verifica que el valor pertenezca al enum
func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityUnavailable:
		return true
	}
	return false
}

// GuideLocation representa la ubicación de un guía
type GuideLocation struct {
	District string `bson:"district" json:"district"`
	State    string `bson:"state" json:"state"`
}

// GuidePricing representa las tarifas de un guía
// MultiDay y Workshop son opcionales
type GuidePricing struct {
	HalfDay  float64  `bson:"halfDay" json:"halfDay"`
	FullDay  float64  `bson:"fullDay" json:"fullDay"`
	MultiDay *float64 `bson:"multiDay,omitempty" json:"multiDay,omitempty"`
	Workshop *float64 `bson:"workshop,omitempty" json:"workshop,omitempty"`
}

// Guide representa el perfil de un guía turístico local
type Guide struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Bio             string             `bson:"bio" json:"bio"`
	Specializations []string           `bson:"specializations" json:"specializations"`
	Languages       []string           `bson:"languages" json:"languages"`
	Experience      string             `bson:"experience" json:"experience"`
	Location        GuideLocation      `bson:"location" json:"location"`
	Pricing         GuidePricing       `bson:"pricing" json:"pricing"`
	Certifications  []string           `bson:"certifications,omitempty" json:"certifications,omitempty"`
	Availability    Availability       `bson:"availability" json:"availability"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CollectionName especifica el nombre de la colección en MongoDB
func (Guide) CollectionName() string {
	return "guides"
}
