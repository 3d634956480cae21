// Package runner consumes service status reports published by the runner
// fleet and applies them to the service directory.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"opsdash/internal/app"
)

// StatusUpdate is the wire shape a runner publishes for one service.
type StatusUpdate struct {
	Service string `msgpack:"service"`
	Server  string `msgpack:"server"`
	Status  int64  `msgpack:"status"`
}

// Consumer subscribes to a subject and applies each status update.
type Consumer struct {
	conn     *nats.Conn
	subject  string
	services *app.ServiceDirectory
	log      *slog.Logger
}

func NewConsumer(conn *nats.Conn, subject string, services *app.ServiceDirectory, log *slog.Logger) *Consumer {
	return &Consumer{conn: conn, subject: subject, services: services, log: log}
}

// Run consumes updates until ctx is cancelled. A bad message is logged and
// skipped; one runner publishing garbage must not stall the rest.
func (c *Consumer) Run(ctx context.Context) error {
	msgs := make(chan *nats.Msg, 64)
	sub, err := c.conn.ChanSubscribe(c.subject, msgs)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.subject, err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	c.log.Info("runner consumer started", "subject", c.subject)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-msgs:
			if err := c.apply(ctx, msg.Data); err != nil {
				c.log.Error("status update dropped", "error", err)
			}
		}
	}
}

// apply decodes one status report and records it.
func (c *Consumer) apply(ctx context.Context, data []byte) error {
	var update StatusUpdate
	if err := msgpack.Unmarshal(data, &update); err != nil {
		return fmt.Errorf("decode status update: %w", err)
	}
	if update.Service == "" {
		return fmt.Errorf("status update without a service name")
	}
	return c.services.SetStatus(ctx, update.Service, update.Server, update.Status)
}
