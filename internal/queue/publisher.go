package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes booking events to the topic exchange.  It attempts
// to be robust and to never panic; any error is logged and returned so the
// caller can choose to ignore it; lifecycle state changes must not be
// reverted because a publish failed.  Messages are marked persistent.
type Publisher struct {
	url string
}

// NewPublisher returns a publisher that dials the broker at the given URL
// for each publish.  Connections are short-lived on purpose: the booking
// core emits few events and a cached channel would need its own reconnect
// machinery.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Publish sends one event with the given routing key to the booking
// exchange.  The exchange is declared idempotently as a durable topic
// exchange on every call.
func (p *Publisher) Publish(ctx context.Context, routingKey string, event BookingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	); err != nil {
		log.Printf("rabbitmq: exchange declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	log.Printf("published booking event: type=%s booking_id=%d", event.EventType, event.BookingID)
	return nil
}
