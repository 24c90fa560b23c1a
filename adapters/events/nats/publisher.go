// Package natsevents publishes domain events to NATS subjects.
package natsevents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kompox/volsaga/domain"
	"github.com/kompox/volsaga/internal/logging"
	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "volsaga"

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
}

// Publisher implements domain.EventPublisher on a NATS connection.
type Publisher struct {
	conn   conn
	nc     *nats.Conn
	prefix string
}

// Connect dials url and returns a publisher that keeps reconnecting in the
// background.
func Connect(ctx context.Context, url, prefix string) (*Publisher, error) {
	logger := logging.FromContext(ctx)
	opts := []nats.Option{
		nats.Name("volsaga"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn(ctx, "nats disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info(ctx, "nats reconnected", "url", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	p := New(nc, prefix)
	p.nc = nc
	return p, nil
}

// New wraps an established connection.
func New(c conn, prefix string) *Publisher {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &Publisher{conn: c, prefix: prefix}
}

// Subject returns the subject an event type is published on.
func (p *Publisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

func (p *Publisher) Publish(ctx context.Context, ev domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.nc != nil && p.nc.IsClosed() {
		return errors.New("nats not connected")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", ev.Type, err)
	}
	return p.conn.Publish(p.Subject(ev.Type), payload)
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		_ = p.nc.FlushTimeout(5 * time.Second)
		p.nc.Close()
	}
}

var _ domain.EventPublisher = (*Publisher)(nil)
