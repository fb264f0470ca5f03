package router

import (
	"strings"

	"github.com/BullionBear/depthbook/internal/observable"
	"github.com/BullionBear/depthbook/internal/orderbook"
)

// StreamOpener dials a fresh upstream session and returns its event sequence.
// Implementations are not restartable: a new TimedStream is created per call.
type StreamOpener func() (<-chan orderbook.DepthEvent, error)

// Dispatcher runs the dual-connection hand-off state machine described by
// the router's transition table. It owns the A/B upstream sessions, the
// per-symbol output queues, and the per-symbol park buffers.
type Dispatcher struct {
	symbols []string
	openA   StreamOpener
	openB   StreamOpener
	closeA  func()
	closeB  func()

	outputs map[string]chan orderbook.DepthEvent
	parks   map[string]*parkBuffer

	mode   observable.Reader[Mode]
	active Mode // OnlyA or OnlyB only, tracks which stream is authoritative

	ready chan struct{}
}

// NewDispatcher constructs a Dispatcher. openA/openB dial fresh sessions;
// closeA/closeB tear down whatever session is currently open (no-op if
// none is open).
func NewDispatcher(symbols []string, openA, openB StreamOpener, closeA, closeB func(), mode observable.Reader[Mode], chanCap, parkCap int) *Dispatcher {
	outputs := make(map[string]chan orderbook.DepthEvent, len(symbols))
	parks := make(map[string]*parkBuffer, len(symbols))
	for _, s := range symbols {
		sym := strings.ToUpper(s)
		outputs[sym] = make(chan orderbook.DepthEvent, chanCap)
		parks[sym] = newParkBuffer(parkCap)
	}
	return &Dispatcher{
		symbols: symbols,
		openA:   openA,
		openB:   openB,
		closeA:  closeA,
		closeB:  closeB,
		outputs: outputs,
		parks:   parks,
		mode:    mode,
		ready:   make(chan struct{}),
	}
}

// Ready closes once the dispatcher has completed its initial alignment:
// dialing whichever of A/B the starting mode requires.
func (d *Dispatcher) Ready() <-chan struct{} { return d.ready }

// Outputs returns the per-symbol receive-only output queues, keyed by
// uppercase symbol.
func (d *Dispatcher) Outputs() map[string]<-chan orderbook.DepthEvent {
	out := make(map[string]<-chan orderbook.DepthEvent, len(d.outputs))
	for sym, ch := range d.outputs {
		out[sym] = ch
	}
	return out
}

func (d *Dispatcher) forward(sym string, ev orderbook.DepthEvent) {
	ch, ok := d.outputs[sym]
	if !ok {
		return
	}
	ch <- ev
}

func (d *Dispatcher) park(sym string, ev orderbook.DepthEvent) {
	if p, ok := d.parks[sym]; ok {
		p.push(ev)
	}
}

func (d *Dispatcher) flushParks() {
	for sym, p := range d.parks {
		for _, ev := range p.drain() {
			d.forward(sym, ev)
		}
	}
}

// Run blocks and drives the dispatcher until stop is closed. It aligns to
// the mode observed at start and reacts to subsequent mode changes and
// incoming events from whichever of A/B is currently open.
func (d *Dispatcher) Run(stop <-chan struct{}) error {
	currentMode, _ := d.mode.Get()

	var aEvents, bEvents <-chan orderbook.DepthEvent
	var err error

	switch currentMode {
	case OnlyA:
		aEvents, err = d.openA()
		if err != nil {
			return err
		}
		d.active = OnlyA
	case OnlyB:
		bEvents, err = d.openB()
		if err != nil {
			return err
		}
		d.active = OnlyB
	case BothAB:
		aEvents, err = d.openA()
		if err != nil {
			return err
		}
		bEvents, err = d.openB()
		if err != nil {
			return err
		}
		d.active = OnlyA
	}
	close(d.ready)

	watch := d.mode.Watch()

	for {
		select {
		case <-stop:
			return nil

		case <-watch:
			next, _ := d.mode.Get()
			watch = d.mode.Watch()
			if err := d.transition(currentMode, next, &aEvents, &bEvents); err != nil {
				return err
			}
			currentMode = next

		case ev, ok := <-aEvents:
			if !ok {
				aEvents = nil
				if currentMode != OnlyB {
					d.flushParks()
					d.active = OnlyB
				}
				continue
			}
			d.routeA(currentMode, ev)

		case ev, ok := <-bEvents:
			if !ok {
				bEvents = nil
				continue
			}
			d.routeB(currentMode, ev)
		}
	}
}

func (d *Dispatcher) routeA(mode Mode, ev orderbook.DepthEvent) {
	sym := strings.ToUpper(ev.Symbol)
	switch mode {
	case OnlyA:
		d.forward(sym, ev)
	case BothAB:
		if d.active == OnlyA {
			d.forward(sym, ev)
		} else {
			d.park(sym, ev)
		}
	case OnlyB:
		// A is closed in this mode; an event here would indicate a stream
		// that outlived its closure and is dropped.
	}
}

func (d *Dispatcher) routeB(mode Mode, ev orderbook.DepthEvent) {
	sym := strings.ToUpper(ev.Symbol)
	switch mode {
	case OnlyB:
		d.forward(sym, ev)
	case BothAB:
		if d.active == OnlyB {
			d.forward(sym, ev)
		} else {
			d.park(sym, ev)
		}
	case OnlyA:
		// B is closed in this mode.
	}
}

// transition executes the action for one entry of the four-row hand-off
// table. Any pair outside the table is a programming error: the mode
// ticker is defined to only ever move between adjacent modes.
func (d *Dispatcher) transition(from, to Mode, aEvents, bEvents *<-chan orderbook.DepthEvent) error {
	switch {
	case from == OnlyA && to == BothAB:
		ch, err := d.openB()
		if err != nil {
			return err
		}
		*bEvents = ch
		d.active = OnlyA

	case from == BothAB && to == OnlyB:
		d.flushParks()
		if d.closeA != nil {
			d.closeA()
		}
		*aEvents = nil
		d.active = OnlyB

	case from == OnlyB && to == BothAB:
		ch, err := d.openA()
		if err != nil {
			return err
		}
		*aEvents = ch
		d.active = OnlyB

	case from == BothAB && to == OnlyA:
		d.flushParks()
		if d.closeB != nil {
			d.closeB()
		}
		*bEvents = nil
		d.active = OnlyA

	case from == to:
		// duplicate emission; the ticker already deduplicates, but a
		// no-op transition is harmless if one slips through.

	default:
		panic("router: mode ticker produced a non-adjacent transition " + from.String() + " -> " + to.String())
	}
	return nil
}
