// Package natsbridge republishes reconstructed order books onto NATS so
// external consumers can subscribe without linking against this process.
package natsbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/BullionBear/depthbook/internal/booktask"
	"github.com/BullionBear/depthbook/internal/observable"
	"github.com/BullionBear/depthbook/pkg/logger"
)

// Publisher publishes []byte payloads to a given subject. Connect returns
// one backed by a real *nats.Conn; tests substitute a fake.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type natsPublisher struct {
	conn *nats.Conn
}

func (p *natsPublisher) Publish(subject string, data []byte) error {
	return p.conn.Publish(subject, data)
}

// Connect dials url and returns a Publisher plus a close func.
func Connect(url string) (Publisher, func(), error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, nil, fmt.Errorf("natsbridge: connect: %w", err)
	}
	return &natsPublisher{conn: conn}, conn.Close, nil
}

// Bridge subscribes to one symbol's BookView slot and republishes its latest
// version as JSON on "<subject>.<symbol>", with the symbol as given.
// Versions superseded before the bridge wakes are not republished.
type Bridge struct {
	subject   string
	publisher Publisher
}

// New returns a Bridge publishing under subjectPrefix via publisher.
func New(subjectPrefix string, publisher Publisher) *Bridge {
	return &Bridge{subject: subjectPrefix, publisher: publisher}
}

// Run watches reader and republishes each new BookView until ctx is
// cancelled. Individual publish failures are logged, not returned; the
// bridge keeps watching for the next version regardless.
func (b *Bridge) Run(ctx context.Context, symbol string, reader observable.Reader[*booktask.BookView]) {
	subject := b.subject + "." + symbol
	lastVersion, published := uint64(0), false
	for {
		watch := reader.Watch()
		view, version := reader.Get()
		if view != nil && (!published || version > lastVersion) {
			lastVersion, published = version, true
			b.publish(subject, view)
		}
		select {
		case <-ctx.Done():
			return
		case <-watch:
		}
	}
}

func (b *Bridge) publish(subject string, view *booktask.BookView) {
	data, err := json.Marshal(view)
	if err != nil {
		logger.Log.Error().Str("subject", subject).Err(err).Msg("natsbridge: marshal book view failed")
		return
	}
	if err := b.publisher.Publish(subject, data); err != nil {
		logger.Log.Error().Str("subject", subject).Err(err).Msg("natsbridge: publish failed")
	}
}
