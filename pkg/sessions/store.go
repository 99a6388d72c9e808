// Package sessions holds the in-memory session store. Scan and discovery
// sessions live here from submission until the TTL sweep evicts them;
// there is no database behind it.
package sessions

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/pyneda/kansa/pkg/scan"
)

// ErrNotFound is returned when no session exists for the given id.
var ErrNotFound = errors.New("session not found")

// Config bounds session retention. Zero values fall back to the defaults.
type Config struct {
	// TerminalTTL is how long terminal sessions are kept before eviction.
	TerminalTTL time.Duration
	// ActiveTTL is how long a session may stay non-terminal before it is
	// force-cancelled by the sweep.
	ActiveTTL time.Duration
	// SweepInterval is how often the background sweep runs.
	SweepInterval time.Duration
}

const (
	DefaultTerminalTTL   = 24 * time.Hour
	DefaultActiveTTL     = 6 * time.Hour
	DefaultSweepInterval = 5 * time.Minute
)

func (c Config) withDefaults() Config {
	if c.TerminalTTL <= 0 {
		c.TerminalTTL = DefaultTerminalTTL
	}
	if c.ActiveTTL <= 0 {
		c.ActiveTTL = DefaultActiveTTL
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	return c
}

// ConfigFromViper reads the retention settings, all in seconds.
func ConfigFromViper() Config {
	return Config{
		TerminalTTL:   time.Duration(viper.GetInt("sessions.terminal_ttl")) * time.Second,
		ActiveTTL:     time.Duration(viper.GetInt("sessions.active_ttl")) * time.Second,
		SweepInterval: time.Duration(viper.GetInt("sessions.sweep_interval")) * time.Second,
	}
}

// Store keeps scan and discovery sessions keyed by id. Each session is
// written by its owning worker; the store itself only guards the maps.
type Store struct {
	mu          sync.RWMutex
	scans       map[string]*scan.ScanSession
	discoveries map[string]*scan.DiscoverySession

	config Config

	// onEvict runs after a session is removed, with its id. Used to tear
	// down the session's event topic.
	onEvict func(id string)
	// onExpire runs when a non-terminal session exceeds ActiveTTL, before
	// the store cancels it. Used to cancel the owning worker's context.
	onExpire func(id string)

	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store. Call Start to run the TTL sweep.
func NewStore(config Config) *Store {
	return &Store{
		scans:       make(map[string]*scan.ScanSession),
		discoveries: make(map[string]*scan.DiscoverySession),
		config:      config.withDefaults(),
		stop:        make(chan struct{}),
	}
}

// OnEvict registers the eviction hook. Set before Start.
func (s *Store) OnEvict(fn func(id string)) {
	s.onEvict = fn
}

// OnExpire registers the expiry hook. Set before Start.
func (s *Store) OnExpire(fn func(id string)) {
	s.onExpire = fn
}

// Start launches the background sweep goroutine.
func (s *Store) Start() {
	go func() {
		ticker := time.NewTicker(s.config.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				evicted, expired := s.sweep(time.Now())
				if evicted > 0 || expired > 0 {
					log.Debug().Int("evicted", evicted).Int("expired", expired).Msg("Session sweep finished")
				}
			}
		}
	}()
}

// Close stops the sweep goroutine. Stored sessions are left in place.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// PutScan registers a scan session.
func (s *Store) PutScan(session *scan.ScanSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans[session.ID()] = session
}

// Scan returns the scan session for the id.
func (s *Store) Scan(id string) (*scan.ScanSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.scans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

// ScanSnapshots returns point-in-time views of all scan sessions, newest
// first.
func (s *Store) ScanSnapshots() []scan.ScanSnapshot {
	s.mu.RLock()
	sessions := make([]*scan.ScanSession, 0, len(s.scans))
	for _, session := range s.scans {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	snapshots := make([]scan.ScanSnapshot, 0, len(sessions))
	for _, session := range sessions {
		snapshots = append(snapshots, session.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
		}
		return snapshots[i].ID < snapshots[j].ID
	})
	return snapshots
}

// PutDiscovery registers a discovery session.
func (s *Store) PutDiscovery(session *scan.DiscoverySession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discoveries[session.ID()] = session
}

// Discovery returns the discovery session for the id.
func (s *Store) Discovery(id string) (*scan.DiscoverySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.discoveries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

// DiscoverySnapshots returns point-in-time views of all discovery sessions,
// newest first.
func (s *Store) DiscoverySnapshots() []scan.DiscoverySnapshot {
	s.mu.RLock()
	sessions := make([]*scan.DiscoverySession, 0, len(s.discoveries))
	for _, session := range s.discoveries {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	snapshots := make([]scan.DiscoverySnapshot, 0, len(sessions))
	for _, session := range sessions {
		snapshots = append(snapshots, session.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
		}
		return snapshots[i].ID < snapshots[j].ID
	})
	return snapshots
}

// Counts returns the number of stored scan and discovery sessions.
func (s *Store) Counts() (scans, discoveries int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scans), len(s.discoveries)
}

// sweep applies the retention rules at the given instant. Terminal sessions
// past TerminalTTL are evicted; non-terminal sessions past ActiveTTL are
// cancelled so their workers wind down and a later sweep evicts them.
func (s *Store) sweep(now time.Time) (evicted, expired int) {
	s.mu.Lock()
	scanSessions := make(map[string]*scan.ScanSession, len(s.scans))
	for id, session := range s.scans {
		scanSessions[id] = session
	}
	discoverySessions := make(map[string]*scan.DiscoverySession, len(s.discoveries))
	for id, session := range s.discoveries {
		discoverySessions[id] = session
	}
	s.mu.Unlock()

	var evict []string

	for id, session := range scanSessions {
		snapshot := session.Snapshot()
		switch {
		case snapshot.State.Terminal():
			if snapshot.TerminalAge(now) > s.config.TerminalTTL {
				evict = append(evict, id)
			}
		case now.Sub(snapshot.CreatedAt) > s.config.ActiveTTL:
			log.Warn().Str("scan_id", id).Str("state", snapshot.State.String()).Msg("Session exceeded active TTL, cancelling")
			if s.onExpire != nil {
				s.onExpire(id)
			}
			session.Cancel()
			expired++
		}
	}

	for id, session := range discoverySessions {
		snapshot := session.Snapshot()
		switch {
		case snapshot.State.Terminal():
			if snapshot.TerminalAge(now) > s.config.TerminalTTL {
				evict = append(evict, id)
			}
		case now.Sub(snapshot.CreatedAt) > s.config.ActiveTTL:
			log.Warn().Str("discovery_id", id).Str("state", snapshot.State.String()).Msg("Session exceeded active TTL, cancelling")
			if s.onExpire != nil {
				s.onExpire(id)
			}
			session.Cancel()
			expired++
		}
	}

	if len(evict) > 0 {
		s.mu.Lock()
		for _, id := range evict {
			delete(s.scans, id)
			delete(s.discoveries, id)
		}
		s.mu.Unlock()

		for _, id := range evict {
			if s.onEvict != nil {
				s.onEvict(id)
			}
			log.Debug().Str("session_id", id).Msg("Evicted session")
			evicted++
		}
	}
	return evicted, expired
}
