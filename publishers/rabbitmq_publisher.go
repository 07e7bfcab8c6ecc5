package publishers

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// ListingMessage representa un mensaje sobre un listing
type ListingMessage struct {
	Action    string `json:"action"` // "create", "update", "delete"
	Entity    string `json:"entity"` // "guides" u "homestays"
	ListingID string `json:"listing_id"`
}

// RabbitMQPublisher publica eventos de listings en RabbitMQ
type RabbitMQPublisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
}

// NewRabbitMQPublisher crea una nueva instancia de RabbitMQPublisher
// Declara la queue durable para que los mensajes sobrevivan reinicios del broker
func NewRabbitMQPublisher(rabbitURL, queueName string) (*RabbitMQPublisher, error) {
	log.Printf("Connecting to RabbitMQ at %s", rabbitURL)

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Printf("Queue '%s' declared successfully", queueName)

	return &RabbitMQPublisher{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
	}, nil
}

// PublishListingEvent publica un evento {action, entity, listing_id}
func (p *RabbitMQPublisher) PublishListingEvent(action, entity, listingID string) error {
	message := ListingMessage{
		Action:    action,
		Entity:    entity,
		ListingID: listingID,
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal listing message: %w", err)
	}

	err = p.channel.Publish(
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish listing message: %w", err)
	}

	log.Printf("Published listing event: action=%s, entity=%s, id=%s", action, entity, listingID)
	return nil
}

// Close cierra las conexiones de RabbitMQ
func (p *RabbitMQPublisher) Close() error {
	var errs []error

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}

	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ publisher: %v", errs)
	}

	log.Printf("RabbitMQ publisher closed successfully")
	return nil
}
