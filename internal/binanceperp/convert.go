package binanceperp

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BullionBear/depthbook/internal/orderbook"
)

// Numeric fields arrive as decimal text. A malformed event is fatal only
// for itself: the caller drops the frame and logs, the book is untouched.

func parseLevels(raw [][]string) ([]orderbook.PriceLevel, error) {
	out := make([]orderbook.PriceLevel, 0, len(raw))
	for _, pq := range raw {
		if len(pq) != 2 {
			return nil, fmt.Errorf("price level must have 2 fields, got %d", len(pq))
		}
		price, err := decimal.NewFromString(pq[0])
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", pq[0], err)
		}
		qty, err := decimal.NewFromString(pq[1])
		if err != nil {
			return nil, fmt.Errorf("parse qty %q: %w", pq[1], err)
		}
		out = append(out, orderbook.PriceLevel{Price: price, Qty: qty})
	}
	return out, nil
}

func toDepthEvent(ev wsDepthEvent) (orderbook.DepthEvent, error) {
	bids, err := parseLevels(ev.Bids)
	if err != nil {
		return orderbook.DepthEvent{}, fmt.Errorf("bids: %w", err)
	}
	asks, err := parseLevels(ev.Asks)
	if err != nil {
		return orderbook.DepthEvent{}, fmt.Errorf("asks: %w", err)
	}
	return orderbook.DepthEvent{
		Symbol:            strings.ToUpper(ev.Symbol),
		FirstUpdateID:     ev.FirstUpdateID,
		FinalUpdateID:     ev.FinalUpdateID,
		PrevFinalUpdateID: ev.PrevFinalUpdate,
		Bids:              bids,
		Asks:              asks,
		EventTime:         time.UnixMilli(ev.EventTime),
	}, nil
}

func toSnapshot(raw restDepthSnapshot) (orderbook.Snapshot, error) {
	bids, err := parseLevels(raw.Bids)
	if err != nil {
		return orderbook.Snapshot{}, fmt.Errorf("bids: %w", err)
	}
	asks, err := parseLevels(raw.Asks)
	if err != nil {
		return orderbook.Snapshot{}, fmt.Errorf("asks: %w", err)
	}
	return orderbook.Snapshot{
		LastUpdateID: raw.LastUpdateID,
		Bids:         bids,
		Asks:         asks,
	}, nil
}
