package dto

// CoordinatesInput representa un par de coordenadas en un request
type CoordinatesInput struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// HomestayLocationInput representa la ubicación en un request de creación
type HomestayLocationInput struct {
	Address     string            `json:"address"`
	District    string            `json:"district"`
	State       string            `json:"state"`
	Coordinates *CoordinatesInput `json:"coordinates,omitempty"`
}

// HomestayPricingInput representa los precios en un request de creación
// BasePrice es puntero para distinguir "ausente" de 0
type HomestayPricingInput struct {
	BasePrice    *float64 `json:"basePrice"`
	CleaningFee  *float64 `json:"cleaningFee,omitempty"`
	WeekendPrice *float64 `json:"weekendPrice,omitempty"`
}

// HomestayCapacityInput representa la capacidad en un request de creación
// Todos los campos son requeridos; punteros para distinguir "ausente" de 0
type HomestayCapacityInput struct {
	Guests    *int `json:"guests"`
	Bedrooms  *int `json:"bedrooms"`
	Bathrooms *int `json:"bathrooms"`
	Beds      *int `json:"beds"`
}

// CreateHomestayRequest representa el request para crear un homestay
// No incluye status ni timestamps: los administra el sistema
type CreateHomestayRequest struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	PropertyType string                 `json:"propertyType,omitempty"`
	Location     *HomestayLocationInput `json:"location"`
	Pricing      *HomestayPricingInput  `json:"pricing"`
	Capacity     *HomestayCapacityInput `json:"capacity"`
	Amenities    []string               `json:"amenities,omitempty"`
	HouseRules   []string               `json:"houseRules,omitempty"`
	Images       []string               `json:"images,omitempty"`
}

// HomestayLocationUpdate representa la ubicación en un request de actualización
type HomestayLocationUpdate struct {
	Address     *string           `json:"address,omitempty"`
	District    *string           `json:"district,omitempty"`
	State       *string           `json:"state,omitempty"`
	Coordinates *CoordinatesInput `json:"coordinates,omitempty"`
}

// HomestayPricingUpdate representa los precios en un request de actualización
type HomestayPricingUpdate struct {
	BasePrice    *float64 `json:"basePrice,omitempty"`
	CleaningFee  *float64 `json:"cleaningFee,omitempty"`
	WeekendPrice *float64 `json:"weekendPrice,omitempty"`
}

// HomestayCapacityUpdate representa la capacidad en un request de actualización
type HomestayCapacityUpdate struct {
	Guests    *int `json:"guests,omitempty"`
	Bedrooms  *int `json:"bedrooms,omitempty"`
	Bathrooms *int `json:"bathrooms,omitempty"`
	Beds      *int `json:"beds,omitempty"`
}

// UpdateHomestayRequest representa el request para actualizar un homestay
// Todos los campos son opcionales; solo los presentes se validan y reemplazan
// Status acepta cualquier valor del enum, sin restricciones de transición
type UpdateHomestayRequest struct {
	Title        *string                 `json:"title,omitempty"`
	Description  *string                 `json:"description,omitempty"`
	PropertyType *string                 `json:"propertyType,omitempty"`
	Location     *HomestayLocationUpdate `json:"location,omitempty"`
	Pricing      *HomestayPricingUpdate  `json:"pricing,omitempty"`
	Capacity     *HomestayCapacityUpdate `json:"capacity,omitempty"`
	Amenities    []string                `json:"amenities,omitempty"`
	HouseRules   []string                `json:"houseRules,omitempty"`
	Images       []string                `json:"images,omitempty"`
	Status       *string                 `json:"status,omitempty"`
}

// PriceRangeRequest representa los parámetros de búsqueda por rango de precio
type PriceRangeRequest struct {
	MinPrice float64 `json:"min_price" form:"min_price"`
	MaxPrice float64 `json:"max_price" form:"max_price"`
}
