package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-kasir/internal/events"
	"github.com/noah-isme/backend-kasir/internal/invoice"
	"github.com/noah-isme/backend-kasir/internal/ledger"
	"github.com/noah-isme/backend-kasir/internal/obs"
	"github.com/noah-isme/backend-kasir/internal/payment"
	"github.com/noah-isme/backend-kasir/internal/pricing"
)

// Sequencer reserves the next invoice identifier for a prefix.
type Sequencer interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// Locker serialises finalize attempts for the same session.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Input is a snapshot of the session state at the moment of finalize. Lines
// are already detached copies; nothing here aliases live session state.
type Input struct {
	SessionID string
	Prefix    string
	Manual    bool
	Lines     []ledger.Line
	Discount  int64
	Channel   payment.Channel
	Payload   string
}

// Service turns session snapshots into persisted transactions.
type Service struct {
	Store   TransactionStore
	Seq     Sequencer
	Locker  Locker
	LockTTL time.Duration
	Events  *events.Bus
	Logger  *zerolog.Logger
	Now     func() time.Time
}

// Finalize assembles and persists a transaction from the snapshot. The caller
// must not clear the session ledger unless Finalize returned nil: on any
// error the ledger stays intact for retry. A short per-session lock guards
// against double submits from impatient clicks.
func (s *Service) Finalize(ctx context.Context, in Input) (Transaction, error) {
	if s == nil || s.Store == nil {
		return Transaction{}, errors.New("checkout: service not configured")
	}
	if len(in.Lines) == 0 {
		return Transaction{}, ErrEmptyLedger
	}

	var out Transaction
	run := func(ctx context.Context) error {
		tx, err := s.finalize(ctx, in)
		if err != nil {
			return err
		}
		out = tx
		return nil
	}

	if s.Locker != nil && in.SessionID != "" {
		ttl := s.LockTTL
		if ttl <= 0 {
			ttl = 10 * time.Second
		}
		key := "kasir:finalize:" + in.SessionID
		if err := s.Locker.WithLock(ctx, key, ttl, run); err != nil {
			return Transaction{}, err
		}
		return out, nil
	}
	if err := run(ctx); err != nil {
		return Transaction{}, err
	}
	return out, nil
}

func (s *Service) finalize(ctx context.Context, in Input) (Transaction, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	prefix := in.Prefix
	if prefix == "" {
		prefix = invoice.PrefixCheckout
	}
	channel := in.Channel
	if channel == "" {
		channel = payment.ChannelCash
	}

	invoiceID, err := s.nextInvoiceID(ctx, prefix, now)
	if err != nil {
		return Transaction{}, err
	}

	summary := pricing.Compute(pricing.ItemsFromLines(in.Lines), pricing.Money(in.Discount))
	tx := Transaction{
		ID:             uuid.New(),
		InvoiceID:      invoiceID,
		Items:          itemsFromLines(in.Lines),
		Subtotal:       int64(summary.Subtotal),
		Discount:       int64(summary.Discount),
		Total:          int64(summary.Total),
		Profit:         int64(summary.Profit),
		PaymentMethod:  string(channel),
		PaymentPayload: in.Payload,
		Manual:         in.Manual,
		CreatedAt:      now,
	}

	if err := s.Store.Append(ctx, tx); err != nil {
		s.observe(outcomeOf(err))
		if s.Logger != nil {
			s.Logger.Error().Err(err).Str("invoice_id", tx.InvoiceID).Msg("finalize failed, ledger retained")
		}
		return Transaction{}, err
	}
	s.observe("success")

	if s.Events != nil {
		payload := map[string]any{
			"invoiceId":     tx.InvoiceID,
			"total":         tx.Total,
			"profit":        tx.Profit,
			"paymentMethod": tx.PaymentMethod,
			"manual":        tx.Manual,
		}
		aggregate := pgtype.UUID{Bytes: tx.ID, Valid: true}
		if _, err := s.Events.Emit(ctx, events.TopicTransactionCreated, aggregate, payload); err != nil && s.Logger != nil {
			s.Logger.Warn().Err(err).Str("invoice_id", tx.InvoiceID).Msg("emit transaction event")
		}
	}
	return tx, nil
}

// nextInvoiceID prefers the atomic Redis sequence and falls back to counting
// the ids already issued today when the sequence is unavailable.
func (s *Service) nextInvoiceID(ctx context.Context, prefix string, now time.Time) (string, error) {
	if s.Seq != nil {
		id, err := s.Seq.Next(ctx, prefix)
		if err == nil {
			return id, nil
		}
		if s.Logger != nil {
			s.Logger.Warn().Err(err).Str("prefix", prefix).Msg("invoice sequence unavailable, counting fallback")
		}
	}
	existing, err := s.Store.InvoiceIDs(ctx, prefix, now)
	if err != nil {
		return "", fmt.Errorf("list invoice ids: %v: %w", err, ErrPersistence)
	}
	gen := invoice.CountingGenerator{Now: func() time.Time { return now }}
	return gen.Next(prefix, existing), nil
}

func (s *Service) observe(result string) {
	if obs.CheckoutTotal != nil {
		obs.CheckoutTotal.WithLabelValues(result).Inc()
	}
}

func outcomeOf(err error) string {
	if errors.Is(err, ErrDuplicateID) {
		return "duplicate_id"
	}
	return "persistence_failed"
}
