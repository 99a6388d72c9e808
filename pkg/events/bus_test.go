package events

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishAssignsMonotonicSequence(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe("scan-1")
	defer sub.Close()

	first, ok := bus.Publish("scan-1", ScanStart, ScanStartPayload{URL: "https://example.com"})
	assert.True(t, ok)
	second, ok := bus.Publish("scan-1", ScannerStart, ScannerStartPayload{Scanner: "AXE", PageURL: "https://example.com"})
	assert.True(t, ok)

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)

	got := <-sub.C
	assert.Equal(t, uint64(1), got.Seq)
	assert.Equal(t, ScanStart, got.Type)
	got = <-sub.C
	assert.Equal(t, uint64(2), got.Seq)
}

func TestSequenceIsPerTopic(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	a, _ := bus.Publish("scan-a", ScanStart, nil)
	b, _ := bus.Publish("scan-b", ScanStart, nil)

	assert.Equal(t, uint64(1), a.Seq)
	assert.Equal(t, uint64(1), b.Seq)
}

func TestSlowSubscriberDropsWithoutBlockingPublisher(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe("scan-1")
	defer sub.Close()

	// Nobody reads sub.C, so everything beyond the channel buffer is dropped.
	total := SubscriberBuffer + 25
	done := make(chan struct{})
	go func() {
		for i := 0; i < total; i++ {
			bus.Publish("scan-1", ScannerOperation, ScannerOperationPayload{Operation: fmt.Sprintf("op-%d", i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}

	assert.Equal(t, uint64(25), sub.Dropped())

	// The retained prefix is intact regardless of per-subscriber drops.
	late := bus.Subscribe("scan-1")
	defer late.Close()
	assert.Len(t, late.Replay, total)
	for i, event := range late.Replay {
		assert.Equal(t, uint64(i+1), event.Seq)
	}
}

func TestRingRetainsLastHundred(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	for i := 0; i < RingSize+30; i++ {
		bus.Publish("scan-1", ScannerOperation, nil)
	}

	sub := bus.Subscribe("scan-1")
	defer sub.Close()

	assert.Len(t, sub.Replay, RingSize)
	assert.Equal(t, uint64(31), sub.Replay[0].Seq)
	assert.Equal(t, uint64(RingSize+30), sub.Replay[RingSize-1].Seq)
}

func TestSubscribeAfterTerminalReplaysAndCloses(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	bus.Publish("scan-1", ScanStart, nil)
	bus.Publish("scan-1", ScanComplete, ScanCompletePayload{Score: 91.5})

	sub := bus.Subscribe("scan-1")
	assert.Len(t, sub.Replay, 2)
	assert.Equal(t, ScanComplete, sub.Replay[1].Type)

	select {
	case _, open := <-sub.C:
		assert.False(t, open, "channel should be closed for a topic that already ended")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}
}

func TestTerminalEventClosesLiveSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe("scan-1")
	bus.Publish("scan-1", ScanFailed, ScanFailedPayload{Kind: "CANCELLED"})

	got, open := <-sub.C
	assert.True(t, open)
	assert.Equal(t, ScanFailed, got.Type)

	_, open = <-sub.C
	assert.False(t, open)

	// Publishing after the terminal event is refused.
	_, ok := bus.Publish("scan-1", ScannerStart, nil)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), bus.Topic("scan-1").Seq())
}

func TestHeartbeatCarriesNoSequenceAndIsNotRetained(t *testing.T) {
	bus := newBus(20 * time.Millisecond)
	defer bus.Close()

	sub := bus.Subscribe("scan-1")
	defer sub.Close()

	select {
	case event := <-sub.C:
		assert.Equal(t, Heartbeat, event.Type)
		assert.Equal(t, uint64(0), event.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("no heartbeat delivered")
	}

	assert.Equal(t, uint64(0), bus.Topic("scan-1").Seq())
	late := bus.Subscribe("scan-1")
	defer late.Close()
	assert.Empty(t, late.Replay)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe("scan-1")
	sub.Close()

	_, open := <-sub.C
	assert.False(t, open)

	// Publishing still works with no subscribers attached.
	event, ok := bus.Publish("scan-1", ScanStart, nil)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), event.Seq)

	// Closing twice is harmless.
	sub.Close()
}

func TestRemoveEndsNonTerminalStreams(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	sub := bus.Subscribe("scan-1")
	bus.Remove("scan-1")

	_, open := <-sub.C
	assert.False(t, open)

	// A fresh topic under the same id starts from scratch.
	event, ok := bus.Publish("scan-1", ScanStart, nil)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), event.Seq)
}
