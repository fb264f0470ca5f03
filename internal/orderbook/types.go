// Package orderbook implements the per-symbol L2 book state machine: seeding
// from a REST snapshot, applying sequenced depth deltas under Binance's
// perpetual-futures continuity rule, and detecting loss of sequence.
package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceLevel is one (price, quantity) pair. Quantity zero is the wire
// sentinel for "remove this level"; it is never stored.
type PriceLevel struct {
	Price decimal.Decimal `json:"price"`
	Qty   decimal.Decimal `json:"qty"`
}

// DepthEvent is a parsed WebSocket depth-delta, independent of wire encoding.
type DepthEvent struct {
	Symbol            string
	FirstUpdateID     int64 // U
	FinalUpdateID     int64 // u
	PrevFinalUpdateID int64 // pu
	Bids              []PriceLevel
	Asks              []PriceLevel
	EventTime         time.Time
}

// Snapshot is a parsed REST depth snapshot.
type Snapshot struct {
	LastUpdateID int64
	Bids         []PriceLevel
	Asks         []PriceLevel
}

// DecisionKind is the outcome of classifying a DepthEvent against a Book.
type DecisionKind int

const (
	Drop DecisionKind = iota
	Apply
	Resync
)

func (k DecisionKind) String() string {
	switch k {
	case Drop:
		return "drop"
	case Apply:
		return "apply"
	case Resync:
		return "resync"
	default:
		return "unknown"
	}
}

// ResyncCause describes why continuity broke, for logging and diagnostics.
type ResyncCause struct {
	Symbol   string
	Expected *int64 // the last_u the book expected as pu, nil if no delta was applied since the last seed (or the book was never seeded)
	GotPU    int64
	GotU     int64
}

// Decision is the result of Book.Classify.
type Decision struct {
	Kind  DecisionKind
	Cause *ResyncCause
}
