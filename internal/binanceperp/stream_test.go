package binanceperp

import (
	"testing"
	"time"
)

func TestSubscriptionURLLowercasesAndJoinsStreams(t *testing.T) {
	ts := NewTimedStream([]string{"BTCUSDT", "ethusdt"}, MainnetWSBaseURL, Window{})
	got := ts.subscriptionURL()
	want := MainnetWSBaseURL + "?streams=btcusdt@depth@100ms/ethusdt@depth@100ms"
	if got != want {
		t.Fatalf("subscriptionURL() = %q, want %q", got, want)
	}
}

func TestNewTimedStreamAssignsDistinctIDs(t *testing.T) {
	a := NewTimedStream([]string{"BTCUSDT"}, MainnetWSBaseURL, Window{})
	b := NewTimedStream([]string{"BTCUSDT"}, MainnetWSBaseURL, Window{})
	if a.ID() == b.ID() {
		t.Fatal("expected distinct connection ids across TimedStream instances")
	}
}

func TestCloseBeforeOpenIsNoop(t *testing.T) {
	ts := NewTimedStream([]string{"BTCUSDT"}, MainnetWSBaseURL, Window{})
	if err := ts.Close(); err != nil {
		t.Fatalf("Close before Open: %v", err)
	}
}

func TestOpenAgainstLiveVenueProducesEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping live network test in short mode.")
	}
	ts := NewTimedStream([]string{"btcusdt"}, MainnetWSBaseURL, Window{})
	events, err := ts.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ts.Close()

	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("events channel closed before any event arrived")
		}
		if ev.Symbol != "BTCUSDT" {
			t.Errorf("Symbol = %q, want BTCUSDT", ev.Symbol)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for first depth event")
	}
}
