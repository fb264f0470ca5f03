package booktask

import (
	"context"

	"github.com/BullionBear/depthbook/internal/observable"
	"github.com/BullionBear/depthbook/internal/orderbook"
	"github.com/BullionBear/depthbook/pkg/logger"
)

// Snapshotter fetches a REST depth snapshot for one symbol. Implemented by
// internal/binanceperp.Snapshotter; kept as a narrow interface here so the
// task can be tested without a real venue connection.
type Snapshotter interface {
	Fetch(symbol string, limit int) (orderbook.Snapshot, error)
}

// Task owns exactly one Book, fed by a single per-symbol event queue. It is
// the only goroutine that ever touches its Book.
type Task struct {
	symbol      string
	depth       int
	snapshotter Snapshotter
	events      <-chan orderbook.DepthEvent
	slot        *observable.Slot[*BookView]
	book        *orderbook.Book
}

// New constructs a Task. The returned slot starts out holding a nil
// BookView until Run seeds it for the first time.
func New(symbol string, depth int, snapshotter Snapshotter, events <-chan orderbook.DepthEvent) (*Task, observable.Reader[*BookView]) {
	slot := observable.New[*BookView](nil)
	return &Task{
		symbol:      symbol,
		depth:       depth,
		snapshotter: snapshotter,
		events:      events,
		slot:        slot,
		book:        orderbook.New(symbol, depth),
	}, slot
}

// Run seeds the book, then drains events until ctx is cancelled or the
// event channel closes. Events arriving while a resync is pending are
// discarded until the reseed completes. A snapshot failure during initial
// seeding is fatal to the task; a snapshot failure during resync logs and
// retries the fetch when the next event arrives, discarding that event.
func (t *Task) Run(ctx context.Context) error {
	if err := t.seed(); err != nil {
		logger.Log.Error().Str("symbol", t.symbol).Err(err).Msg("booktask initial seed failed, exiting")
		return err
	}

	resyncPending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-t.events:
			if !ok {
				return nil
			}
			if resyncPending {
				if err := t.seed(); err != nil {
					logger.Log.Warn().Str("symbol", t.symbol).Err(err).Msg("booktask resync retry failed")
					continue
				}
				resyncPending = false
				continue
			}

			decision := t.book.Classify(ev)
			switch decision.Kind {
			case orderbook.Apply:
				t.book.Apply(ev)
				t.publish()

			case orderbook.Drop:
				// stale or duplicate; no state change

			case orderbook.Resync:
				logResync(t.symbol, decision.Cause)
				if err := t.seed(); err != nil {
					logger.Log.Warn().Str("symbol", t.symbol).Err(err).Msg("booktask resync snapshot fetch failed, will retry on next event")
					resyncPending = true
					continue
				}
			}
		}
	}
}

func (t *Task) seed() error {
	snap, err := t.snapshotter.Fetch(t.symbol, t.depth)
	if err != nil {
		return err
	}
	t.book.Seed(snap)
	t.publish()
	return nil
}

func (t *Task) publish() {
	t.slot.Publish(newView(t.book, t.depth))
}

func logResync(symbol string, cause *orderbook.ResyncCause) {
	ev := logger.Log.Warn().Str("symbol", symbol)
	if cause != nil {
		if cause.Expected != nil {
			ev = ev.Int64("expected_pu", *cause.Expected)
		}
		ev = ev.Int64("got_pu", cause.GotPU).Int64("got_u", cause.GotU)
	}
	ev.Msg("booktask resync triggered")
}
