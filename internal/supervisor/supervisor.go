package supervisor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BullionBear/depthbook/internal/binanceperp"
	"github.com/BullionBear/depthbook/internal/booktask"
	"github.com/BullionBear/depthbook/internal/observable"
	"github.com/BullionBear/depthbook/internal/orderbook"
	"github.com/BullionBear/depthbook/internal/router"
	"github.com/BullionBear/depthbook/pkg/logger"
)

// startupTimeout bounds how long GenerateOrderBooks waits for every symbol's
// first seeded book before giving up.
const startupTimeout = 30 * time.Second

// Cutoffs mirrors router.Cutoffs at the package boundary so callers outside
// internal/router don't need to import it directly.
type Cutoffs = router.Cutoffs

// GenerateOrderBooks is the system's single entry point. It constructs the
// dual-connection router for symbols, spawns one BookTask per symbol, and
// returns read-only handles to their observable books keyed by uppercase
// symbol. It waits up to startupTimeout for the dispatcher's initial dial,
// then up to startupTimeout more for every symbol to publish at least its
// initial seeded book, returning an error if any symbol has not.
func GenerateOrderBooks(ctx context.Context, symbols []string, chanCap, parkCap int, cutoffs Cutoffs, depth int) (map[string]observable.Reader[*booktask.BookView], error) {
	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}

	modeStop := make(chan struct{})
	mode := router.ModeTicker(router.RealClock, cutoffs, modeStop)

	snapshotter := binanceperp.NewSnapshotter(binanceperp.MainnetBaseURL, nil)

	var currentA, currentB *binanceperp.TimedStream

	openA := func() (<-chan orderbook.DepthEvent, error) {
		ts := binanceperp.NewTimedStream(upper, binanceperp.MainnetWSBaseURL, binanceperp.Window{Start: cutoffs.CutA, End: cutoffs.CutB})
		currentA = ts
		return ts.Open()
	}
	openB := func() (<-chan orderbook.DepthEvent, error) {
		ts := binanceperp.NewTimedStream(upper, binanceperp.MainnetWSBaseURL, binanceperp.Window{Start: cutoffs.CutB, End: cutoffs.CutA})
		currentB = ts
		return ts.Open()
	}
	closeA := func() {
		if currentA != nil {
			currentA.Close()
		}
	}
	closeB := func() {
		if currentB != nil {
			currentB.Close()
		}
	}

	dispatcher := router.NewDispatcher(upper, openA, openB, closeA, closeB, mode, chanCap, parkCap)

	dispatchStop := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(modeStop)
		close(dispatchStop)
	}()
	go func() {
		if err := dispatcher.Run(dispatchStop); err != nil {
			logger.Log.Error().Err(err).Msg("router dispatcher exited")
		}
	}()

	outputs := dispatcher.Outputs()
	readers := make(map[string]observable.Reader[*booktask.BookView], len(upper))

	for _, sym := range upper {
		task, reader := booktask.New(sym, depth, snapshotter, outputs[sym])
		readers[sym] = reader
		go func(sym string, task *booktask.Task) {
			if err := task.Run(ctx); err != nil {
				logger.Log.Error().Str("symbol", sym).Err(err).Msg("booktask exited")
			}
		}(sym, task)
	}

	select {
	case <-dispatcher.Ready():
	case <-time.After(startupTimeout):
	}

	if err := awaitInitialSeed(readers, startupTimeout); err != nil {
		return nil, err
	}

	return readers, nil
}

func awaitInitialSeed(readers map[string]observable.Reader[*booktask.BookView], timeout time.Duration) error {
	deadline := time.After(timeout)
	pending := make(map[string]bool, len(readers))
	for sym := range readers {
		pending[sym] = true
	}
	for len(pending) > 0 {
		for sym := range pending {
			if _, ver := readers[sym].Get(); ver >= 1 {
				delete(pending, sym)
			}
		}
		if len(pending) == 0 {
			break
		}
		select {
		case <-deadline:
			return errStartupTimeout(pending)
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}

func errStartupTimeout(pending map[string]bool) error {
	syms := make([]string, 0, len(pending))
	for s := range pending {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return fmt.Errorf("supervisor startup: symbols did not seed within timeout: %s", strings.Join(syms, ", "))
}
