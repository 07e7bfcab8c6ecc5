package services

// Acciones publicadas sobre la cola de listings
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// EventPublisher define la interfaz para publicar eventos de listings
// La implementación real vive en publishers (RabbitMQ)
type EventPublisher interface {
	PublishListingEvent(action, entity, listingID string) error
}
