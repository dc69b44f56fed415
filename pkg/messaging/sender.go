package messaging

import (
	"fmt"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

func DefineTopic(ch *amqp.Channel, prefix string, topic ChangeTopic) error {
	name := getName(prefix, topic)
	if err := ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(
		name,  // name of the queue
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		return err
	}
	return nil
}

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}

func encode[V any](data V) (amqp.Publishing, error) {
	bytes, err := jsoncompat.Marshal(data)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType: "application/json",
		Body:        bytes,
	}, nil
}

func SendChange[V any](c *amqp.Connection, prefix string, topic ChangeTopic, data V) error {
	const op = "messaging.SendChange"
	msg, err := encode(data)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}
	ch, err := c.Channel()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer ch.Close()
	name := getName(prefix, topic)
	if err = ch.Publish(name, name, false, false, msg); err != nil {
		return fmt.Errorf("%s: publish %s: %w", op, name, err)
	}
	return nil
}
