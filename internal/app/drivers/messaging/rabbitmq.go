package messaging

import (
	"appointment-composite-service/internal/app/config"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// NewRabbitMQDialer returns a dial function instead of a connection so the event
// publisher can connect lazily and reconnect. The service starts even when the broker
// is down.
func NewRabbitMQDialer(driverConfig *config.DriverConfig, timeout time.Duration) func() (*amqp091.Connection, error) {
	url := driverConfig.RabbitMQ.Url
	return func() (*amqp091.Connection, error) {
		conn, err := amqp091.DialConfig(url, amqp091.Config{
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
			Dial:      amqp091.DefaultDial(timeout),
		})
		if err != nil {
			return nil, err
		}
		log.Println("Successfully connected to rabbitMQ")
		return conn, nil
	}
}
