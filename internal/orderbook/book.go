package orderbook

import (
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/shopspring/decimal"
)

// DefaultSnapshotDepth is the REST depth limit requested for a perpetual
// futures symbol absent an explicit configuration.
const DefaultSnapshotDepth = 1000

func decimalComparator(a, b interface{}) int {
	return a.(decimal.Decimal).Cmp(b.(decimal.Decimal))
}

// Book holds one symbol's reconstructed L2 book. It is owned exclusively by
// the BookTask that drives it; no other goroutine may read or write it.
type Book struct {
	symbol string
	bids   *treemap.Map // price -> qty, best-first descending
	asks   *treemap.Map // price -> qty, best-first ascending

	snapshotID *int64 // lastUpdateId that seeded the book, nil if unset
	lastU      *int64 // final update id of the last applied delta, nil if unset

	depth int
}

// New returns an empty book for symbol, both ids unset.
func New(symbol string, depth int) *Book {
	if depth <= 0 {
		depth = DefaultSnapshotDepth
	}
	return &Book{
		symbol: strings.ToUpper(symbol),
		bids:   treemap.NewWith(decimalComparator),
		asks:   treemap.NewWith(decimalComparator),
		depth:  depth,
	}
}

// Symbol returns the book's uppercase symbol.
func (b *Book) Symbol() string { return b.symbol }

// Depth returns the configured snapshot depth request.
func (b *Book) Depth() int { return b.depth }

// SnapshotID returns the seeding snapshot's lastUpdateId, or nil if unseeded.
func (b *Book) SnapshotID() *int64 { return b.snapshotID }

// LastUpdateID returns the last applied delta's final update id, or nil if
// the book is seeded but has not yet applied a delta.
func (b *Book) LastUpdateID() *int64 { return b.lastU }

// Seed clears the book and loads it from a REST snapshot. Zero-quantity
// entries are discarded. Sets snapshot_id, clears last_u.
func (b *Book) Seed(snap Snapshot) {
	b.bids.Clear()
	b.asks.Clear()
	putLevels(b.bids, snap.Bids)
	putLevels(b.asks, snap.Asks)
	id := snap.LastUpdateID
	b.snapshotID = &id
	b.lastU = nil
}

func putLevels(m *treemap.Map, levels []PriceLevel) {
	for _, lv := range levels {
		if lv.Qty.IsZero() || lv.Qty.IsNegative() {
			continue
		}
		m.Put(lv.Price, lv.Qty)
	}
}

// Apply applies one delta's bid/ask changes and advances last_u. The caller
// must only call this after Classify has returned Apply for the same event.
func (b *Book) Apply(ev DepthEvent) {
	applyLevels(b.bids, ev.Bids)
	applyLevels(b.asks, ev.Asks)
	u := ev.FinalUpdateID
	b.lastU = &u
}

func applyLevels(m *treemap.Map, levels []PriceLevel) {
	for _, lv := range levels {
		if lv.Qty.IsZero() {
			m.Remove(lv.Price)
		} else {
			m.Put(lv.Price, lv.Qty)
		}
	}
}

// Classify applies the continuity predicate without mutating book contents.
// It may only set last_u to nil, marking that a resync is pending; the
// caller performs the actual reseed.
func (b *Book) Classify(ev DepthEvent) Decision {
	if b.snapshotID == nil {
		return Decision{Kind: Resync, Cause: &ResyncCause{
			Symbol: b.symbol,
			GotPU:  ev.PrevFinalUpdateID,
			GotU:   ev.FinalUpdateID,
		}}
	}
	alignTarget := *b.snapshotID + 1

	if b.lastU == nil {
		switch {
		case ev.FirstUpdateID <= alignTarget && alignTarget <= ev.FinalUpdateID:
			return Decision{Kind: Apply}
		case alignTarget < ev.FirstUpdateID:
			b.lastU = nil
			return Decision{Kind: Resync, Cause: &ResyncCause{
				Symbol: b.symbol,
				GotPU:  ev.PrevFinalUpdateID,
				GotU:   ev.FinalUpdateID,
			}}
		default: // ev.FinalUpdateID < alignTarget
			return Decision{Kind: Drop}
		}
	}

	prev := *b.lastU
	switch {
	case ev.PrevFinalUpdateID == prev:
		return Decision{Kind: Apply}
	case ev.PrevFinalUpdateID < prev:
		return Decision{Kind: Drop}
	default:
		b.lastU = nil
		return Decision{Kind: Resync, Cause: &ResyncCause{
			Symbol:   b.symbol,
			Expected: &prev,
			GotPU:    ev.PrevFinalUpdateID,
			GotU:     ev.FinalUpdateID,
		}}
	}
}

// Levels returns up to n price levels on the requested side, best-first:
// descending for bids, ascending for asks. n <= 0 returns all levels.
func (b *Book) Levels(isAsk bool, n int) []PriceLevel {
	m := b.bids
	if isAsk {
		m = b.asks
	}
	out := make([]PriceLevel, 0, m.Size())
	it := m.Iterator()
	if isAsk {
		for it.Next() {
			out = append(out, PriceLevel{Price: it.Key().(decimal.Decimal), Qty: it.Value().(decimal.Decimal)})
			if n > 0 && len(out) >= n {
				break
			}
		}
	} else {
		for it.End(); it.Prev(); {
			out = append(out, PriceLevel{Price: it.Key().(decimal.Decimal), Qty: it.Value().(decimal.Decimal)})
			if n > 0 && len(out) >= n {
				break
			}
		}
	}
	return out
}
