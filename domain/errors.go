package domain

import "fmt"

// ValidationKind clasifica los errores de validación
type ValidationKind string

const (
	MissingRequiredField    ValidationKind = "missing_required_field"
	InvalidEnumValue        ValidationKind = "invalid_enum_value"
	OutOfRangeValue         ValidationKind = "out_of_range_value"
	EmptyRequiredCollection ValidationKind = "empty_required_collection"
)

// ValidationError representa un error de validación sobre un campo
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

// Error implementa la interfaz error
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewMissingFieldError crea un error por campo requerido ausente
func NewMissingFieldError(field string) *ValidationError {
	return &ValidationError{
		Kind:    MissingRequiredField,
		Field:   field,
		Message: "field is required",
	}
}

// NewInvalidEnumError crea un error por valor fuera del enum
func NewInvalidEnumError(field, value string) *ValidationError {
	return &ValidationError{
		Kind:    InvalidEnumValue,
		Field:   field,
		Message: fmt.Sprintf("invalid value '%s'", value),
	}
}

// NewOutOfRangeError crea un error por valor fuera de rango
func NewOutOfRangeError(field, message string) *ValidationError {
	return &ValidationError{
		Kind:    OutOfRangeValue,
		Field:   field,
		Message: message,
	}
}

// NewEmptyCollectionError crea un error por colección requerida vacía
func NewEmptyCollectionError(field string) *ValidationError {
	return &ValidationError{
		Kind:    EmptyRequiredCollection,
		Field:   field,
		Message: "must contain at least one entry",
	}
}
