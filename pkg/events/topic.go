package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// RingSize is the number of events retained per topic for replay.
	RingSize = 100
	// SubscriberBuffer is the per-subscriber channel capacity. A subscriber
	// that falls further behind than this starts losing events.
	SubscriberBuffer = 32
)

type subscriber struct {
	ch      chan Event
	dropped uint64
}

// Topic is the event stream of one scan id. All methods are safe for
// concurrent use, but only the session's worker should publish.
type Topic struct {
	scanID string

	mu       sync.Mutex
	seq      uint64
	ring     []Event
	subs     map[*subscriber]struct{}
	terminal bool
}

func newTopic(scanID string) *Topic {
	return &Topic{
		scanID: scanID,
		ring:   make([]Event, 0, RingSize),
		subs:   make(map[*subscriber]struct{}),
	}
}

// Publish assigns the next sequence number, retains the event and fans it
// out without blocking. Events published after a terminal event are dropped.
// The second return value reports whether the event was accepted.
func (t *Topic) Publish(eventType Type, payload interface{}) (Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminal {
		log.Warn().Str("scan_id", t.scanID).Str("type", eventType.String()).Msg("Event published after terminal event, dropping")
		return Event{}, false
	}

	t.seq++
	event := Event{
		Seq:       t.seq,
		ScanID:    t.scanID,
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	if len(t.ring) == RingSize {
		t.ring = append(t.ring[1:], event)
	} else {
		t.ring = append(t.ring, event)
	}

	for sub := range t.subs {
		select {
		case sub.ch <- event:
		default:
			sub.dropped++
		}
	}

	if eventType.Terminal() {
		t.terminal = true
		for sub := range t.subs {
			close(sub.ch)
		}
		t.subs = make(map[*subscriber]struct{})
	}

	return event, true
}

// heartbeat delivers a keep-alive to current subscribers. Heartbeats take no
// sequence number and are not retained.
func (t *Topic) heartbeat() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminal || len(t.subs) == 0 {
		return
	}
	event := Event{
		ScanID:    t.scanID,
		Type:      Heartbeat,
		Timestamp: time.Now(),
	}
	for sub := range t.subs {
		select {
		case sub.ch <- event:
		default:
			sub.dropped++
		}
	}
}

// Subscription is one consumer's attachment to a topic. Replay holds the
// retained events at subscription time; C delivers everything published
// afterwards. C is closed when the topic ends or Close is called.
type Subscription struct {
	C      <-chan Event
	Replay []Event

	topic *Topic
	sub   *subscriber
}

// Subscribe attaches a consumer. If the topic has already ended, the
// subscription still carries the replay and its channel is closed
// immediately.
func (t *Topic) Subscribe() *Subscription {
	sub := &subscriber{ch: make(chan Event, SubscriberBuffer)}

	t.mu.Lock()
	defer t.mu.Unlock()

	replay := make([]Event, len(t.ring))
	copy(replay, t.ring)

	if t.terminal {
		close(sub.ch)
	} else {
		t.subs[sub] = struct{}{}
	}

	return &Subscription{C: sub.ch, Replay: replay, topic: t, sub: sub}
}

// Close detaches the subscription and closes its channel. Safe to call after
// the topic has ended.
func (s *Subscription) Close() {
	s.topic.mu.Lock()
	defer s.topic.mu.Unlock()

	if _, ok := s.topic.subs[s.sub]; ok {
		delete(s.topic.subs, s.sub)
		close(s.sub.ch)
	}
}

// Dropped reports how many events were lost because this subscriber's
// channel was full.
func (s *Subscription) Dropped() uint64 {
	s.topic.mu.Lock()
	defer s.topic.mu.Unlock()
	return s.sub.dropped
}

// Seq returns the topic's current sequence counter.
func (t *Topic) Seq() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

// Terminal reports whether a terminal event has been published.
func (t *Topic) Terminal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.terminal
}

func (t *Topic) subscriberCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}
