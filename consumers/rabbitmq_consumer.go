package consumers

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"tourism-api/repositories"
)

// ListingMessage representa un mensaje sobre un listing
type ListingMessage struct {
	Action    string `json:"action"` // "create", "update", "delete"
	Entity    string `json:"entity"` // "guides" u "homestays"
	ListingID string `json:"listing_id"`
}

// RabbitMQConsumer consume eventos de listings para invalidar el caché local
// Las escrituras de otras instancias llegan por acá
type RabbitMQConsumer struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	cacheRepo  repositories.CacheRepository
}

// NewRabbitMQConsumer crea una nueva instancia de RabbitMQConsumer
func NewRabbitMQConsumer(rabbitURL, queueName string, cacheRepo repositories.CacheRepository) (*RabbitMQConsumer, error) {
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

	return &RabbitMQConsumer{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
		cacheRepo:  cacheRepo,
	}, nil
}

// Start inicia el consumo de mensajes de RabbitMQ
func (c *RabbitMQConsumer) Start() error {
	log.Printf("Starting RabbitMQ consumer for queue '%s'", c.queueName)

	// Procesar un mensaje a la vez
	err := c.channel.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (manejamos manualmente)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf("Consumer registered, waiting for messages...")

	go func() {
		for msg := range msgs {
			c.processMessage(msg)
		}
	}()

	return nil
}

// processMessage procesa un mensaje individual
// Un mensaje malformado se descarta sin requeue
func (c *RabbitMQConsumer) processMessage(msg amqp.Delivery) {
	var listingMsg ListingMessage
	if err := json.Unmarshal(msg.Body, &listingMsg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		msg.Nack(false, false)
		return
	}

	if listingMsg.ListingID == "" || listingMsg.Entity == "" {
		log.Printf("Error: incomplete listing message: %s", string(msg.Body))
		msg.Nack(false, false)
		return
	}

	switch listingMsg.Action {
	case "create", "update", "delete":
		// Cualquier escritura remota invalida las búsquedas cacheadas de la entidad
		c.cacheRepo.Bump(listingMsg.Entity)
	default:
		log.Printf("Unknown action: %s", listingMsg.Action)
		msg.Nack(false, false)
		return
	}

	log.Printf("Processed listing event: action=%s, entity=%s, id=%s",
		listingMsg.Action, listingMsg.Entity, listingMsg.ListingID)

	if err := msg.Ack(false); err != nil {
		log.Printf("Error acknowledging message: %v", err)
	}
}

// Close cierra las conexiones de RabbitMQ
func (c *RabbitMQConsumer) Close() error {
	var errs []error

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}

	if c.connection != nil {
		if err := c.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ consumer: %v", errs)
	}

	log.Printf("RabbitMQ consumer closed successfully")
	return nil
}
