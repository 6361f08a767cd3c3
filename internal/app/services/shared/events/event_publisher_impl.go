package events

import (
	"appointment-composite-service/internal/app/contracts"
	"appointment-composite-service/internal/pkg/constvars"
	"appointment-composite-service/internal/pkg/exceptions"
	"appointment-composite-service/internal/pkg/utils"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const dialKey = "amqp"

type eventPublisher struct {
	Exchange       string
	AppID          string
	PublishTimeout time.Duration
	Log            *zap.Logger

	dial      Dialer
	dialGroup singleflight.Group
	mu        sync.Mutex
	conn      amqpConnection
	now       func() time.Time
}

// NewEventPublisher does not connect. The first Publish dials, and a closed
// connection is dialed again on the next Publish.
func NewEventPublisher(dial Dialer, exchange, appID string, publishTimeout time.Duration, logger *zap.Logger) contracts.EventPublisher {
	return &eventPublisher{
		Exchange:       exchange,
		AppID:          appID,
		PublishTimeout: publishTimeout,
		Log:            logger,
		dial:           dial,
		now:            time.Now,
	}
}

// Publish sends payload as a persistent JSON message on the exchange and waits for the
// broker to confirm it.
func (p *eventPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	requestID := utils.GetRequestID(ctx)
	p.Log.Info("eventPublisher.Publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRoutingKey, routingKey),
	)

	if p.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.PublishTimeout)
		defer cancel()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		p.Log.Error("eventPublisher.Publish error marshaling payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrCannotMarshalJSON(err)
	}

	conn, err := p.connection(ctx)
	if err != nil {
		p.Log.Error("eventPublisher.Publish error connecting to rabbitMQ",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQDial(err)
	}

	channel, err := conn.Channel()
	if err != nil {
		p.Log.Error("eventPublisher.Publish error opening channel",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		p.discard(conn)
		return exceptions.ErrRabbitMQChannel(err)
	}
	defer channel.Close()

	if err := channel.Confirm(false); err != nil {
		p.Log.Error("eventPublisher.Publish error enabling publisher confirms",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQChannel(err)
	}

	err = channel.ExchangeDeclare(
		p.Exchange,                  // name
		constvars.ExchangeKindTopic, // kind
		true,                        // durable
		false,                       // autoDelete
		false,                       // internal
		false,                       // noWait
		nil,                         // args
	)
	if err != nil {
		p.Log.Error("eventPublisher.Publish error declaring exchange",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingExchangeKey, p.Exchange),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQDeclareExchange(err, p.Exchange)
	}

	message := p.buildMessage(routingKey, requestID, body)
	confirmation, err := channel.PublishWithDeferredConfirmWithContext(ctx, p.Exchange, routingKey, false, false, message)
	if err != nil {
		p.Log.Error("eventPublisher.Publish error publishing message",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingExchangeKey, p.Exchange),
			zap.String(constvars.LoggingRoutingKey, routingKey),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, routingKey, p.Exchange)
	}
	if confirmation == nil {
		return exceptions.ErrRabbitMQPublishMessage(errors.New("channel is not in confirm mode"), routingKey, p.Exchange)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		p.Log.Error("eventPublisher.Publish error waiting for confirmation",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRoutingKey, routingKey),
			zap.Error(err),
		)
		return exceptions.ErrRabbitMQPublishMessage(err, routingKey, p.Exchange)
	}
	if !acked {
		p.Log.Error("eventPublisher.Publish message nacked by broker",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRoutingKey, routingKey),
		)
		return exceptions.ErrRabbitMQPublishNack(routingKey, p.Exchange)
	}

	p.Log.Info("eventPublisher.Publish succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRoutingKey, routingKey),
		zap.String(constvars.LoggingMessageIDKey, message.MessageId),
	)
	return nil
}

func (p *eventPublisher) buildMessage(routingKey, requestID string, body []byte) amqp091.Publishing {
	return amqp091.Publishing{
		ContentType:   constvars.MIMEApplicationJSON,
		DeliveryMode:  amqp091.Persistent,
		MessageId:     utils.GenerateMessageID(),
		Timestamp:     p.now().UTC(),
		Type:          routingKey,
		AppId:         p.AppID,
		CorrelationId: requestID,
		Headers: amqp091.Table{
			constvars.EventHeaderSchemaVersion: int32(constvars.EventSchemaVersion),
		},
		Body: body,
	}
}

// connection returns the shared connection, dialing when there is none. Concurrent
// callers share one dial, and each stops waiting when its own ctx is done. A dial
// that outlives its callers still stores the connection for later publishes.
func (p *eventPublisher) connection(ctx context.Context) (amqpConnection, error) {
	if conn := p.openConnection(); conn != nil {
		return conn, nil
	}

	result := p.dialGroup.DoChan(dialKey, func() (interface{}, error) {
		if conn := p.openConnection(); conn != nil {
			return conn, nil
		}
		conn, err := p.dial()
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.conn = conn
		p.mu.Unlock()
		return conn, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(amqpConnection), nil
	}
}

func (p *eventPublisher) openConnection() amqpConnection {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn
	}
	return nil
}

// discard drops conn so the next Publish dials again.
func (p *eventPublisher) discard(conn amqpConnection) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == conn {
		p.conn = nil
		conn.Close()
	}
}

func (p *eventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		p.conn = nil
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
