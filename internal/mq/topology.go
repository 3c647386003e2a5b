package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// ExchangeEvents — единственный обменник событий (topic).
const ExchangeEvents Exchange = "superpose.events"

// Queues — очереди для внешних потребителей.
const (
	// QueueAnalytics — все события для подсистемы корреляции/аналитики.
	QueueAnalytics Queue = "events.analytics"
)

// Routing keys.
const (
	RoutingKeyRequestRouted  RoutingKey = "request.routed"
	RoutingKeyHedgeTriggered RoutingKey = "hedge.triggered"
	RoutingKeyRaceResolved   RoutingKey = "race.resolved"
	RoutingKeyStatsSnapshot  RoutingKey = "stats.snapshot"
)

// SetupTopology объявляет exchange, очереди и bindings.
func SetupTopology(conn *Connection) error {
	return conn.WithChannel(func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeEvents), // name
			"topic",                // type
			true,                   // durable
			false,                  // auto-deleted
			false,                  // internal
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeEvents, err)
		}

		_, err = ch.QueueDeclare(
			string(QueueAnalytics), // name
			true,                   // durable
			false,                  // delete when unused
			false,                  // exclusive
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueAnalytics, err)
		}

		// Аналитика получает все события
		err = ch.QueueBind(
			string(QueueAnalytics), // queue name
			"#",                    // routing key pattern
			string(ExchangeEvents), // exchange
			false,                  // no-wait
			nil,                    // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", QueueAnalytics, err)
		}

		return nil
	})
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Superpose RabbitMQ Topology:

    superpose.events (topic)
    └── events.analytics [routing: #]
            Consumer: external correlation/analytics relay

    Routing keys:
      request.routed   — запрос разрешён
      hedge.triggered  — запущены backup-вызовы
      race.resolved    — гонка коллапсировала
      stats.snapshot   — снимок статистики путей
  `
}
