package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PropertyType define los tipos de alojamiento que existen
type PropertyType string

const (
	PropertyTypeEntire  PropertyType = "entire"
	PropertyTypePrivate PropertyType = "private"
	PropertyTypeShared  PropertyType = "shared"
)

// IsValid verifica que el valor pertenezca al enum
func (p PropertyType) IsValid() bool {
	switch p {
	case PropertyTypeEntire, PropertyTypePrivate, PropertyTypeShared:
		return true
	}
	return false
}

// HomestayStatus define los estados del ciclo de vida de un homestay
type HomestayStatus string

const (
	HomestayStatusActive   HomestayStatus = "active"
	HomestayStatusInactive HomestayStatus = "inactive"
	HomestayStatusPending  HomestayStatus = "pending"
)

// IsValid verifica que el valor pertenezca al enum
func (s HomestayStatus) IsValid() bool {
	switch s {
	case HomestayStatusActive, HomestayStatusInactive, HomestayStatusPending:
		return true
	}
	return false
}

// Coordinates representa un par de coordenadas geográficas
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// HomestayLocation representa la ubicación de un homestay
// Coordinates es opcional
type HomestayLocation struct {
	Address     string       `bson:"address" json:"address"`
	District    string       `bson:"district" json:"district"`
	State       string       `bson:"state" json:"state"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// HomestayPricing representa los precios de un homestay
// CleaningFee y WeekendPrice son opcionales
type HomestayPricing struct {
	BasePrice    float64  `bson:"basePrice" json:"basePrice"`
	CleaningFee  *float64 `bson:"cleaningFee,omitempty" json:"cleaningFee,omitempty"`
	WeekendPrice *float64 `bson:"weekendPrice,omitempty" json:"weekendPrice,omitempty"`
}

// HomestayCapacity representa la capacidad de un homestay
type HomestayCapacity struct {
	Guests    int `bson:"guests" json:"guests"`
	Bedrooms  int `bson:"bedrooms" json:"bedrooms"`
	Bathrooms int `bson:"bathrooms" json:"bathrooms"`
	Beds      int `bson:"beds" json:"beds"`
}

// Homestay representa un alojamiento publicado en la plataforma
type Homestay struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	PropertyType PropertyType       `bson:"propertyType" json:"propertyType"`
	Location     HomestayLocation   `bson:"location" json:"location"`
	Pricing      HomestayPricing    `bson:"pricing" json:"pricing"`
	Capacity     HomestayCapacity   `bson:"capacity" json:"capacity"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	HouseRules   []string           `bson:"houseRules,omitempty" json:"houseRules,omitempty"`
	Images       []string           `bson:"images" json:"images"`
	Status       HomestayStatus     `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CollectionName especifica el nombre de la colección en MongoDB
func (Homestay) CollectionName() string {
	return "homestays"
}
