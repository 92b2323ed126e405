package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-kasir/internal/obs"
	"github.com/noah-isme/backend-kasir/internal/store"
)

// Resolver validates channel selections against the store's payment settings
// and keeps generated payloads warm in the cache. Generation is dispatched
// fire-and-forget: switching channels never cancels an in-flight render, the
// result lands in its own cache slot and is shown only if the cashier
// navigates back while the source fields are unchanged.
type Resolver struct {
	Renderer Renderer
	Cache    *Cache
	QRSize   int
	Logger   *zerolog.Logger
	Now      func() time.Time
}

// Select validates the channel against the settings snapshot and triggers
// payload generation for it. Returns ErrChannelUnavailable when the
// channel's required fields are absent.
func (r *Resolver) Select(ctx context.Context, cfg store.PaymentConfig, channel Channel) error {
	if r == nil {
		return fmt.Errorf("payment: resolver not configured")
	}
	if !channel.Valid() {
		return fmt.Errorf("unknown channel %q: %w", channel, ErrChannelUnavailable)
	}
	if !Available(cfg, channel) {
		return fmt.Errorf("channel %q: %w", channel, ErrChannelUnavailable)
	}
	payload := PayloadFor(cfg, channel)
	if payload == "" {
		// Cash: nothing to render.
		return nil
	}
	r.ensure(channel, payload)
	return nil
}

// Payload returns the current generation result for the channel. The second
// return value reports whether a result has resolved yet; callers poll or
// fall back to the bare payload string while rendering is in flight.
func (r *Resolver) Payload(cfg store.PaymentConfig, channel Channel) (Result, bool) {
	if r == nil {
		return Result{}, false
	}
	payload := PayloadFor(cfg, channel)
	if payload == "" {
		return Result{}, false
	}
	if result, ok := r.Cache.Get(channel, payload); ok {
		return result, true
	}
	return Result{Channel: channel, Payload: payload}, false
}

// Warm pre-generates payloads for every available non-cash channel, e.g.
// after the settings snapshot changes.
func (r *Resolver) Warm(ctx context.Context, cfg store.PaymentConfig) {
	if r == nil {
		return
	}
	for _, channel := range AvailableChannels(cfg) {
		if payload := PayloadFor(cfg, channel); payload != "" {
			r.ensure(channel, payload)
		}
	}
}

func (r *Resolver) ensure(channel Channel, payload string) {
	if _, ok := r.Cache.Get(channel, payload); ok {
		return
	}
	go r.generate(channel, payload)
}

func (r *Resolver) generate(channel Channel, payload string) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	result := Result{Channel: channel, Payload: payload, ResolvedAt: now()}
	outcome := "success"
	if r.Renderer != nil {
		image, err := r.Renderer.Render(context.Background(), payload, r.QRSize)
		if err != nil {
			result.RenderFailed = true
			outcome = "render_failed"
			if r.Logger != nil {
				r.Logger.Warn().Err(err).Str("channel", string(channel)).Msg("qr render failed, payload degrades to text")
			}
		} else {
			result.Image = image
		}
	}
	r.Cache.Put(result)
	if obs.PayloadGenerationTotal != nil {
		obs.PayloadGenerationTotal.WithLabelValues(string(channel), outcome).Inc()
	}
}
