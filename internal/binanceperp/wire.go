package binanceperp

// wsDepthEnvelope is the combined-stream wrapper Binance sends over the
// multiplexed WebSocket: {"stream": "...", "data": {...}}.
type wsDepthEnvelope struct {
	Stream string       `json:"stream"`
	Data   wsDepthEvent `json:"data"`
}

// wsDepthEvent is the raw wire shape of a depth-delta event.
type wsDepthEvent struct {
	EventType       string     `json:"e"`
	EventTime       int64      `json:"E"`
	TransactionTime int64      `json:"T"`
	Symbol          string     `json:"s"`
	FirstUpdateID   int64      `json:"U"`
	FinalUpdateID   int64      `json:"u"`
	PrevFinalUpdate int64      `json:"pu"`
	Bids            [][]string `json:"b"`
	Asks            [][]string `json:"a"`
}

// restDepthSnapshot is the raw wire shape of GET /fapi/v1/depth.
type restDepthSnapshot struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}
