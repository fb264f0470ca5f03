package booktask

import "github.com/BullionBear/depthbook/internal/orderbook"

// BookView is an immutable snapshot of a Book's current state, published to
// an observable.Slot for external readers. A Book itself is never shared
// across goroutines; BookView is the only representation consumers see.
type BookView struct {
	Symbol       string                 `json:"symbol"`
	SnapshotID   *int64                 `json:"snapshot_id,omitempty"`
	LastUpdateID *int64                 `json:"last_update_id,omitempty"`
	Bids         []orderbook.PriceLevel `json:"bids"`
	Asks         []orderbook.PriceLevel `json:"asks"`
}

func newView(book *orderbook.Book, depth int) *BookView {
	return &BookView{
		Symbol:       book.Symbol(),
		SnapshotID:   book.SnapshotID(),
		LastUpdateID: book.LastUpdateID(),
		Bids:         book.Levels(false, depth),
		Asks:         book.Levels(true, depth),
	}
}
