package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"yatube/logs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventPostCreated    = "post_created"
	EventPostUpdated    = "post_updated"
	EventPostDeleted    = "post_deleted"
	EventCommentCreated = "comment_created"
	EventFollowed       = "followed"
	EventUnfollowed     = "unfollowed"
)

// Event - уведомление о записи; Type служит routing key
type Event struct {
	Type      string    `json:"type"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id,omitempty"`
	AuthorID  int64     `json:"author_id,omitempty"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher - публикация отключена
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

// AMQPPublisher публикует события в topic exchange RabbitMQ
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher подключается к RabbitMQ и объявляет exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // args
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		event.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Events - издатель событий процесса
var Events EventPublisher = NoopPublisher{}

// InitRabbitMQ включает публикацию событий, если задан rabbitmq.url
func InitRabbitMQ() error {
	conf := settings()
	if conf.RabbitMQ.URL == "" {
		Events = NoopPublisher{}
		return nil
	}
	publisher, err := NewAMQPPublisher(conf.RabbitMQ.URL, conf.RabbitMQ.Exchange)
	if err != nil {
		return err
	}
	Events = publisher
	logs.Info("RabbitMQ initialized", map[string]interface{}{"exchange": conf.RabbitMQ.Exchange})
	return nil
}

// publishEvent отправляет событие после коммита; ошибка не ломает запрос
func publishEvent(ctx context.Context, event Event) {
	if Events == nil {
		return
	}
	if err := Events.Publish(ctx, event); err != nil {
		logs.Warn("Failed to publish event", map[string]interface{}{"type": event.Type, "error": err})
	}
}
