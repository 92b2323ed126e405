// Package pos holds the in-memory invoice sessions a cashier works in. A
// session owns one ledger plus the discount and payment channel chosen so
// far; it lives only until checkout or expiry.
package pos

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-kasir/internal/invoice"
	"github.com/noah-isme/backend-kasir/internal/ledger"
	"github.com/noah-isme/backend-kasir/internal/payment"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Entry channels map to invoice prefixes.
const (
	EntryQuick = "quick"
	EntryPOS   = "pos"
)

// Session is one cashier's in-progress invoice.
type Session struct {
	ID         string
	Prefix     string
	Manual     bool
	Ledger     *ledger.Ledger
	Discount   int64
	Channel    payment.Channel
	CreatedAt  time.Time
	LastActive time.Time
}

// Manager owns all live sessions. All access to a session's state goes
// through the manager mutex; the ledger itself needs no locking.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager constructs a Manager with the idle TTL after which abandoned
// sessions are reaped.
func NewManager(ttl time.Duration, now func() time.Time) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      now,
	}
}

// Open creates a session for the entry channel and returns its id, prefix,
// and manual flag. Unknown entries default to the standard checkout flow.
func (m *Manager) Open(entry string) Session {
	now := m.now()
	s := &Session{
		ID:         uuid.NewString(),
		Prefix:     invoice.PrefixCheckout,
		Ledger:     ledger.New(),
		Channel:    payment.ChannelCash,
		CreatedAt:  now,
		LastActive: now,
	}
	if entry == EntryQuick {
		s.Prefix = invoice.PrefixQuick
		s.Manual = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reapLocked(now)
	m.sessions[s.ID] = s
	return *s
}

// With runs fn with exclusive access to the session. The session's last
// activity timestamp is refreshed on every call.
func (m *Manager) With(id string, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.reapLocked(now)
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.LastActive = now
	return fn(s)
}

// Close removes the session. Closing an unknown session is a no-op.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) reapLocked(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.LastActive) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
