package pos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/invoice"
	"github.com/noah-isme/backend-kasir/internal/payment"
	"github.com/noah-isme/backend-kasir/internal/pos"
)

func TestOpenQuickSession(t *testing.T) {
	m := pos.NewManager(time.Hour, nil)
	s := m.Open(pos.EntryQuick)
	require.Equal(t, invoice.PrefixQuick, s.Prefix)
	require.True(t, s.Manual)
	require.Equal(t, payment.ChannelCash, s.Channel)
	require.Equal(t, 1, m.Len())
}

func TestOpenDefaultsToCheckoutPrefix(t *testing.T) {
	m := pos.NewManager(time.Hour, nil)
	require.Equal(t, invoice.PrefixCheckout, m.Open(pos.EntryPOS).Prefix)
	require.Equal(t, invoice.PrefixCheckout, m.Open("unknown").Prefix)
}

func TestWithUnknownSession(t *testing.T) {
	m := pos.NewManager(time.Hour, nil)
	err := m.With("missing", func(*pos.Session) error { return nil })
	require.ErrorIs(t, err, pos.ErrSessionNotFound)
}

func TestWithMutatesSessionState(t *testing.T) {
	m := pos.NewManager(time.Hour, nil)
	s := m.Open(pos.EntryPOS)

	require.NoError(t, m.With(s.ID, func(live *pos.Session) error {
		live.Discount = 2500
		return nil
	}))
	require.NoError(t, m.With(s.ID, func(live *pos.Session) error {
		require.Equal(t, int64(2500), live.Discount)
		return nil
	}))
}

func TestIdleSessionsAreReaped(t *testing.T) {
	current := time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }
	m := pos.NewManager(time.Minute, now)
	s := m.Open(pos.EntryPOS)

	current = current.Add(2 * time.Minute)
	err := m.With(s.ID, func(*pos.Session) error { return nil })
	require.ErrorIs(t, err, pos.ErrSessionNotFound)
	require.Equal(t, 0, m.Len())
}

func TestActivityExtendsSession(t *testing.T) {
	current := time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }
	m := pos.NewManager(time.Minute, now)
	s := m.Open(pos.EntryPOS)

	current = current.Add(45 * time.Second)
	require.NoError(t, m.With(s.ID, func(*pos.Session) error { return nil }))

	current = current.Add(45 * time.Second)
	require.NoError(t, m.With(s.ID, func(*pos.Session) error { return nil }))
}

func TestClose(t *testing.T) {
	m := pos.NewManager(time.Hour, nil)
	s := m.Open(pos.EntryPOS)
	m.Close(s.ID)
	m.Close(s.ID) // idempotent
	require.Equal(t, 0, m.Len())
}
