package events

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
)

// The publisher talks to the broker through these so tests can run without one.
type (
	amqpConnection interface {
		Channel() (amqpChannel, error)
		IsClosed() bool
		Close() error
	}

	amqpChannel interface {
		Confirm(noWait bool) error
		ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
		PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) (publishConfirmation, error)
		Close() error
	}

	publishConfirmation interface {
		WaitContext(ctx context.Context) (bool, error)
	}
)

// Dialer opens a new broker connection.
type Dialer func() (amqpConnection, error)

// NewAMQPDialer adapts a function returning a real amqp091 connection.
func NewAMQPDialer(dial func() (*amqp091.Connection, error)) Dialer {
	return func() (amqpConnection, error) {
		conn, err := dial()
		if err != nil {
			return nil, err
		}
		return &connectionAdapter{conn: conn}, nil
	}
}

type connectionAdapter struct {
	conn *amqp091.Connection
}

func (a *connectionAdapter) Channel() (amqpChannel, error) {
	ch, err := a.conn.Channel()
	if err != nil {
		return nil, err
	}
	return &channelAdapter{ch: ch}, nil
}

func (a *connectionAdapter) IsClosed() bool {
	return a.conn.IsClosed()
}

func (a *connectionAdapter) Close() error {
	return a.conn.Close()
}

type channelAdapter struct {
	ch *amqp091.Channel
}

func (a *channelAdapter) Confirm(noWait bool) error {
	return a.ch.Confirm(noWait)
}

func (a *channelAdapter) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error {
	return a.ch.ExchangeDeclare(name, kind, durable, autoDelete, internal, noWait, args)
}

func (a *channelAdapter) PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) (publishConfirmation, error) {
	confirmation, err := a.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, mandatory, immediate, msg)
	if err != nil || confirmation == nil {
		return nil, err
	}
	return confirmation, nil
}

func (a *channelAdapter) Close() error {
	return a.ch.Close()
}
