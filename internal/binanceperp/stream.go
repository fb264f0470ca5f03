package binanceperp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/BullionBear/depthbook/internal/orderbook"
	"github.com/BullionBear/depthbook/pkg/logger"
)

// Window is a time-of-day validity window (start, end), which may wrap
// midnight. It is metadata only on TimedStream; the router enforces it.
type Window struct {
	Start, End time.Time
}

// TimedStream represents one upstream WebSocket session for a fixed set of
// symbols. It is not restartable: Open again for a fresh session.
type TimedStream struct {
	id      uuid.UUID
	symbols []string
	baseURL string
	window  Window

	conn   *websocket.Conn
	events chan orderbook.DepthEvent
	done   chan struct{}
}

// NewTimedStream builds a TimedStream for symbols, scoped to window (stored
// as metadata only; nothing reads it back, and TimedStream itself enforces
// nothing about the window).
func NewTimedStream(symbols []string, baseURL string, window Window) *TimedStream {
	return &TimedStream{
		id:      uuid.New(),
		symbols: symbols,
		baseURL: baseURL,
		window:  window,
	}
}

// ID is a per-session correlation id for log lines, useful when two
// overlapping sessions are both producing log output during a hand-off.
func (t *TimedStream) ID() uuid.UUID { return t.id }

func (t *TimedStream) subscriptionURL() string {
	parts := make([]string, len(t.symbols))
	for i, s := range t.symbols {
		parts[i] = strings.ToLower(s) + StreamSpec
	}
	return t.baseURL + "?streams=" + strings.Join(parts, "/")
}

// Open dials the endpoint and, on success, spawns a background reader that
// parses inbound frames into DepthEvents and answers pings with pongs. It
// returns the receive end of a bounded queue; the produced sequence is
// finite and ends on Close frame, socket error, or Close().
func (t *TimedStream) Open() (<-chan orderbook.DepthEvent, error) {
	url := t.subscriptionURL()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	t.conn = conn
	t.events = make(chan orderbook.DepthEvent, internalQueueCapacity)
	t.done = make(chan struct{})

	conn.SetReadDeadline(time.Now().Add(pingPongTimeout))
	conn.SetPingHandler(func(payload string) error {
		conn.SetReadDeadline(time.Now().Add(pingPongTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(payload), time.Now().Add(5*time.Second))
	})

	logger.Log.Info().Str("stream_id", t.id.String()).Str("url", url).Msg("binanceperp stream dialed")

	go t.readLoop()
	return t.events, nil
}

func (t *TimedStream) readLoop() {
	defer close(t.events)
	defer close(t.done)
	for {
		msgType, data, err := t.conn.ReadMessage()
		if err != nil {
			logger.Log.Warn().Str("stream_id", t.id.String()).Err(err).Msg("binanceperp stream read error")
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		t.conn.SetReadDeadline(time.Now().Add(pingPongTimeout))

		var env wsDepthEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			logger.Log.Debug().Str("stream_id", t.id.String()).Err(err).Msg("binanceperp stream malformed frame dropped")
			continue
		}
		ev, err := toDepthEvent(env.Data)
		if err != nil {
			logger.Log.Debug().Str("stream_id", t.id.String()).Err(err).Msg("binanceperp stream malformed depth event dropped")
			continue
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

// Close tears down the underlying socket and causes the reader to exit; the
// produced sequence's end becomes authoritative for readers.
func (t *TimedStream) Close() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}
