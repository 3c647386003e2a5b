package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Superpose/internal/domain"
)

// EventType — тип события в очереди.
type EventType string

// Типы событий.
const (
	EventTypeRequestRouted  EventType = "request.routed"
	EventTypeHedgeTriggered EventType = "hedge.triggered"
	EventTypeRaceResolved   EventType = "race.resolved"
	EventTypeStatsSnapshot  EventType = "stats.snapshot"
)

// Publisher публикует события маршрутизации в RabbitMQ.
//
// Все Publish* методы fire-and-forget: ошибка публикации логируется
// и не возвращается — результат запроса не зависит от доступности MQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Event — событие для публикации.
type Event struct {
	// ID — уникальный идентификатор события.
	ID string `json:"id"`

	// Type — тип события.
	Type EventType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// RequestRoutedPayload — payload события о разрешённом запросе.
type RequestRoutedPayload struct {
	RequestID     uuid.UUID           `json:"request_id"`
	Group         string              `json:"group"`
	Strategy      domain.StrategyKind `json:"strategy"`
	WinningSource string              `json:"winning_source,omitempty"`
	LatencyMs     int64               `json:"latency_ms"`
	Success       bool                `json:"success"`
}

// HedgeTriggeredPayload — payload события о запуске backup-вызовов.
type HedgeTriggeredPayload struct {
	RequestID uuid.UUID           `json:"request_id"`
	Group     string              `json:"group"`
	Primary   string              `json:"primary"`
	Strategy  domain.StrategyKind `json:"strategy"`
	Backups   []string            `json:"backups"`
}

// RaceResolvedPayload — payload события о коллапсе гонки.
type RaceResolvedPayload struct {
	RequestID uuid.UUID         `json:"request_id"`
	Group     string            `json:"group"`
	Result    domain.RaceResult `json:"result"`
}

// StatsSnapshotPayload — payload периодического снимка статистики.
type StatsSnapshotPayload struct {
	Group string             `json:"group,omitempty"`
	Paths []domain.PathStats `json:"paths"`
}

// publish сериализует и публикует событие.
func (p *Publisher) publish(ctx context.Context, routingKey RoutingKey, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.conn.WithChannel(func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(ExchangeEvents), // exchange
			string(routingKey),     // routing key
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				MessageId:   event.ID,
				Timestamp:   event.Timestamp,
				Body:        body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", ExchangeEvents, routingKey, err)
		}

		p.logger.Debug("published event",
			"routing_key", routingKey,
			"event_id", event.ID,
			"type", event.Type,
		)
		return nil
	})
}

// emit публикует событие fire-and-forget.
func (p *Publisher) emit(ctx context.Context, routingKey RoutingKey, eventType EventType, payload any) {
	event := &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	// Эмиссия не должна отменяться вместе с уже разрешённым запросом
	if err := p.publish(context.WithoutCancel(ctx), routingKey, event); err != nil {
		p.logger.Warn("failed to emit event",
			"type", eventType,
			"error", err,
		)
	}
}

// PublishRequestRouted эмитит событие о разрешённом запросе.
func (p *Publisher) PublishRequestRouted(ctx context.Context, payload RequestRoutedPayload) {
	p.emit(ctx, RoutingKeyRequestRouted, EventTypeRequestRouted, payload)
}

// PublishHedgeTriggered эмитит событие о запуске backup-вызовов.
func (p *Publisher) PublishHedgeTriggered(ctx context.Context, payload HedgeTriggeredPayload) {
	p.emit(ctx, RoutingKeyHedgeTriggered, EventTypeHedgeTriggered, payload)
}

// PublishRaceResolved эмитит событие о коллапсе гонки.
func (p *Publisher) PublishRaceResolved(ctx context.Context, payload RaceResolvedPayload) {
	p.emit(ctx, RoutingKeyRaceResolved, EventTypeRaceResolved, payload)
}

// PublishStatsSnapshot эмитит периодический снимок статистики путей.
func (p *Publisher) PublishStatsSnapshot(ctx context.Context, payload StatsSnapshotPayload) {
	p.emit(ctx, RoutingKeyStatsSnapshot, EventTypeStatsSnapshot, payload)
}
