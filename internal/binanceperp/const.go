package binanceperp

import "time"

// Mainnet REST API base URL for USD-M futures.
const MainnetBaseURL = "https://fapi.binance.com"

// Mainnet WebSocket combined-stream base URL.
const MainnetWSBaseURL = "wss://fstream.binance.com/stream"

// PathDepth is the REST depth-snapshot endpoint.
const PathDepth = "/fapi/v1/depth"

// UserAgent identifies this client to the venue's REST endpoint.
const UserAgent = "depthbook/1.0"

// StreamSpec is the fixed per-symbol stream suffix for differential depth
// at 100ms cadence.
const StreamSpec = "@depth@100ms"

// internalQueueCapacity bounds the per-TimedStream buffered channel that
// sits between the WebSocket reader goroutine and consumers of Events().
const internalQueueCapacity = 1024

// pingPongTimeout is generous relative to Binance's documented ping cadence;
// a stalled connection this long is treated as a protocol error.
const pingPongTimeout = 70 * time.Second
