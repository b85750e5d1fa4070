// Package session holds per-viewer dashboard state: the platform filter, the
// trend date range and the chat transcript.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/radiusdt/adpulse/internal/models"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session is one viewer's dashboard state. It is safe for concurrent use.
type Session struct {
	id        string
	createdAt time.Time

	mu         sync.Mutex
	platform   models.PlatformFilter
	dateRange  string
	transcript []models.ChatMessage
	lastSeen   time.Time
}

// View is the JSON shape of a session.
type View struct {
	ID         string                `json:"id"`
	Platform   models.PlatformFilter `json:"platform"`
	DateRange  string                `json:"date_range"`
	Transcript []models.ChatMessage  `json:"transcript"`
	CreatedAt  time.Time             `json:"created_at"`
	LastSeen   time.Time             `json:"last_seen"`
}

func (s *Session) ID() string { return s.id }

// Transcript returns a copy of the chat history, oldest first.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Append adds a chat entry. The transcript is never truncated.
func (s *Session) Append(msg models.ChatMessage) {
	s.mu.Lock()
	s.transcript = append(s.transcript, msg)
	s.mu.Unlock()
}

func (s *Session) Platform() models.PlatformFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.platform
}

func (s *Session) SetPlatform(p models.PlatformFilter) {
	s.mu.Lock()
	s.platform = p
	s.mu.Unlock()
}

func (s *Session) DateRange() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dateRange
}

// SetDateRange stores a range expression already accepted by reporting.ParseDateRange.
func (s *Session) SetDateRange(r string) {
	s.mu.Lock()
	s.dateRange = r
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// View snapshots the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr := make([]models.ChatMessage, len(s.transcript))
	copy(tr, s.transcript)
	return View{
		ID:         s.id,
		Platform:   s.platform,
		DateRange:  s.dateRange,
		Transcript: tr,
		CreatedAt:  s.createdAt,
		LastSeen:   s.lastSeen,
	}
}

// Store keeps live sessions in memory.
type Store struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	defaultRange string
	now          func() time.Time
}

// NewStore creates an empty store. New sessions start on all platforms and
// defaultRange.
func NewStore(defaultRange string) *Store {
	return NewStoreWithClock(defaultRange, time.Now)
}

// NewStoreWithClock is NewStore with an injectable clock.
func NewStoreWithClock(defaultRange string, now func() time.Time) *Store {
	return &Store{
		sessions:     make(map[string]*Session),
		defaultRange: defaultRange,
		now:          now,
	}
}

// Create starts a new session.
func (st *Store) Create() *Session {
	now := st.now().UTC()
	s := &Session{
		id:        uuid.NewString(),
		createdAt: now,
		platform:  models.PlatformFilterAll,
		dateRange: st.defaultRange,
		lastSeen:  now,
	}
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	return s
}

// Get returns the session and marks it as recently used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(st.now().UTC())
	return s, nil
}

// Delete removes a session. Unknown IDs are ignored.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Cleanup removes sessions idle for longer than maxIdle and returns how many
// were removed.
func (st *Store) Cleanup(maxIdle time.Duration) int {
	cutoff := st.now().UTC().Add(-maxIdle)
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
