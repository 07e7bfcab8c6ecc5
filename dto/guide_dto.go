package dto

// GuideLocationInput representa la ubicación en un request de creación
// State es opcional y toma "Jharkhand" por defecto
type GuideLocationInput struct {
	District string `json:"district"`
	State    string `json:"state"`
}

// GuidePricingInput representa las tarifas en un request de creación
// HalfDay y FullDay son punteros para distinguir "ausente" de 0
type GuidePricingInput struct {
	HalfDay  *float64 `json:"halfDay"`
	FullDay  *float64 `json:"fullDay"`
	MultiDay *float64 `json:"multiDay,omitempty"`
	Workshop *float64 `json:"workshop,omitempty"`
}

// CreateGuideRequest representa el request para crear un guía
// No incluye los campos administrados por el sistema (timestamps)
type CreateGuideRequest struct {
	Name            string              `json:"name"`
	Bio             string              `json:"bio"`
	Specializations []string            `json:"specializations"`
	Languages       []string            `json:"languages"`
	Experience      string              `json:"experience"`
	Location        *GuideLocationInput `json:"location"`
	Pricing         *GuidePricingInput  `json:"pricing"`
	Certifications  []string            `json:"certifications,omitempty"`
	Availability    string              `json:"availability,omitempty"`
}

// GuideLocationUpdate representa la ubicación en un request de actualización
type GuideLocationUpdate struct {
	District *string `json:"district,omitempty"`
	State    *string `json:"state,omitempty"`
}

// GuidePricingUpdate representa las tarifas en un request de actualización
type GuidePricingUpdate struct {
	HalfDay  *float64 `json:"halfDay,omitempty"`
	FullDay  *float64 `json:"fullDay,omitempty"`
	MultiDay *float64 `json:"multiDay,omitempty"`
	Workshop *float64 `json:"workshop,omitempty"`
}

// UpdateGuideRequest representa el request para actualizar un guía
// Todos los campos son opcionales; solo los presentes se validan y reemplazan
type UpdateGuideRequest struct {
	Name            *string              `json:"name,omitempty"`
	Bio             *string              `json:"bio,omitempty"`
	Specializations []string             `json:"specializations,omitempty"`
	Languages       []string             `json:"languages,omitempty"`
	Experience      *string              `json:"experience,omitempty"`
	Location        *GuideLocationUpdate `json:"location,omitempty"`
	Pricing         *GuidePricingUpdate  `json:"pricing,omitempty"`
	Certifications  []string             `json:"certifications,omitempty"`
	Availability    *string              `json:"availability,omitempty"`
}
