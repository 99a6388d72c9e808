package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const heartbeatInterval = 30 * time.Second

// Bus is the topic registry. One Bus serves the whole process; topics are
// created lazily per scan id and removed when their session is evicted.
type Bus struct {
	mu     sync.RWMutex
	topics map[string]*Topic
	done   chan struct{}
	once   sync.Once
}

// NewBus creates a bus and starts its heartbeat loop.
func NewBus() *Bus {
	return newBus(heartbeatInterval)
}

func newBus(interval time.Duration) *Bus {
	b := &Bus{
		topics: make(map[string]*Topic),
		done:   make(chan struct{}),
	}
	go b.heartbeatLoop(interval)
	return b
}

// Topic returns the topic for a scan id, creating it if needed.
func (b *Bus) Topic(scanID string) *Topic {
	b.mu.RLock()
	topic, exists := b.topics[scanID]
	b.mu.RUnlock()
	if exists {
		return topic
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if topic, exists = b.topics[scanID]; exists {
		return topic
	}
	topic = newTopic(scanID)
	b.topics[scanID] = topic
	log.Debug().Str("scan_id", scanID).Msg("Created event topic")
	return topic
}

// Publish forwards to the scan's topic. The returned Event carries the
// assigned sequence number; the bool reports whether the event was accepted.
func (b *Bus) Publish(scanID string, eventType Type, payload interface{}) (Event, bool) {
	return b.Topic(scanID).Publish(eventType, payload)
}

// Subscribe attaches a consumer to the scan's topic.
func (b *Bus) Subscribe(scanID string) *Subscription {
	return b.Topic(scanID).Subscribe()
}

// Remove drops a topic. Active subscribers of a non-terminal topic are
// closed so their streams end.
func (b *Bus) Remove(scanID string) {
	b.mu.Lock()
	topic, exists := b.topics[scanID]
	delete(b.topics, scanID)
	b.mu.Unlock()

	if !exists {
		return
	}
	topic.mu.Lock()
	defer topic.mu.Unlock()
	if !topic.terminal {
		for sub := range topic.subs {
			close(sub.ch)
		}
		topic.subs = make(map[*subscriber]struct{})
	}
	log.Debug().Str("scan_id", scanID).Msg("Removed event topic")
}

// Close stops the heartbeat loop. Topics remain readable.
func (b *Bus) Close() {
	b.once.Do(func() {
		close(b.done)
	})
}

func (b *Bus) heartbeatLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.mu.RLock()
			topics := make([]*Topic, 0, len(b.topics))
			for _, topic := range b.topics {
				topics = append(topics, topic)
			}
			b.mu.RUnlock()

			for _, topic := range topics {
				topic.heartbeat()
			}
		}
	}
}
