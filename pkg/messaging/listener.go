package messaging

import (
	"context"
	"fmt"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	err = ch.QueueBind(q.Name, name, name, false, nil)
	if err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

func decode[V any](body []byte, fn func(V) error) error {
	var v V
	if err := jsoncompat.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return fn(v)
}

// ListenToTopic consumes the topic until ctx is done or the channel closes. Messages are
// acked when fn succeeds and dropped otherwise.
func ListenToTopic[V any](ctx context.Context, ch *amqp.Channel, prefix string, topic ChangeTopic, logger *zap.Logger, fn func(V) error) error {
	const op = "messaging.ListenToTopic"
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		defer ch.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					logger.Warn("message channel closed", zap.String("topic", string(topic)))
					return
				}
				if err := decode(d.Body, fn); err != nil {
					logger.Error("error processing message", zap.String("topic", string(topic)), zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()
	return nil
}

// ListenToProductChanges declares the products topic and calls fn for every change event.
func ListenToProductChanges(ctx context.Context, conn *amqp.Connection, logger *zap.Logger, fn func(ProductChange) error) error {
	const op = "messaging.ListenToProductChanges"
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = DefineTopic(ch, ServicePrefix, ProductsChanged); err != nil {
		ch.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	return ListenToTopic(ctx, ch, ServicePrefix, ProductsChanged, logger, fn)
}
