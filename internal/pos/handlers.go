package pos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-kasir/internal/catalog"
	"github.com/noah-isme/backend-kasir/internal/checkout"
	"github.com/noah-isme/backend-kasir/internal/common"
	"github.com/noah-isme/backend-kasir/internal/events"
	"github.com/noah-isme/backend-kasir/internal/ledger"
	"github.com/noah-isme/backend-kasir/internal/obs"
	"github.com/noah-isme/backend-kasir/internal/payment"
	"github.com/noah-isme/backend-kasir/internal/pricing"
	"github.com/noah-isme/backend-kasir/internal/store"
)

// SettingsSource loads the store's payment settings snapshot.
type SettingsSource interface {
	PaymentConfig(ctx context.Context, storeID string) (store.PaymentConfig, error)
}

// Handler wires invoice sessions to HTTP.
type Handler struct {
	Sessions        *Manager
	Catalog         *catalog.Service
	Resolver        *payment.Resolver
	CheckoutService *checkout.Service
	Settings        SettingsSource
	StoreID         string
	Validate        *validator.Validate
	Events          *events.Bus
	Logger          *zerolog.Logger
}

type openRequest struct {
	Entry string `json:"entry" validate:"omitempty,oneof=quick pos"`
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"omitempty,max=64"`
	Code      string `json:"code" validate:"omitempty,max=64"`
	Qty       int    `json:"qty" validate:"required"`
	UnitPrice *int64 `json:"unitPrice" validate:"omitempty,min=0"`
}

type setQuantityRequest struct {
	Qty int `json:"qty"`
}

type discountRequest struct {
	Discount int64 `json:"discount" validate:"min=0"`
}

type paymentRequest struct {
	Channel string `json:"channel" validate:"required,max=32"`
}

// Open handles POST /api/v1/sessions.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !h.decode(w, r, &req) {
		return
	}
	entry := req.Entry
	if entry == "" {
		entry = EntryPOS
	}
	session := h.Sessions.Open(entry)
	if obs.SessionsOpenedTotal != nil {
		obs.SessionsOpenedTotal.WithLabelValues(entry).Inc()
	}
	h.emit(r.Context(), events.TopicSessionOpened, session.ID, map[string]any{
		"entry":  entry,
		"prefix": session.Prefix,
	})
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"id":     session.ID,
			"prefix": session.Prefix,
			"manual": session.Manual,
		},
	})
}

// Get handles GET /api/v1/sessions/{id}: the full session with its pricing
// summary.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *Session) error {
		common.JSON(w, http.StatusOK, map[string]any{"data": h.sessionBody(s)})
		return nil
	})
}

// AddItem handles POST /api/v1/sessions/{id}/items. The line product comes
// from either an explicit product id or a scanned/typed code.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ProductID == "" && req.Code == "" {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "productId or code is required", nil)
		return
	}

	product, err := h.resolveProduct(r.Context(), req.ProductID, req.Code)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			if obs.LookupMissTotal != nil {
				obs.LookupMissTotal.Inc()
			}
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "product lookup failed", nil)
		return
	}

	h.withSession(w, r, func(s *Session) error {
		unitPrice := product.SellPrice
		if req.UnitPrice != nil {
			unitPrice = *req.UnitPrice
		}
		if err := s.Ledger.AddOrMergeAt(product, req.Qty, unitPrice); err != nil {
			if errors.Is(err, ledger.ErrInvalidQuantity) {
				common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "quantity must be positive", nil)
				return nil
			}
			return err
		}
		common.JSON(w, http.StatusOK, map[string]any{"data": h.sessionBody(s)})
		return nil
	})
}

// SetQuantity handles PATCH /api/v1/sessions/{id}/items/{productId}. A
// non-positive quantity removes the line.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	productID := chi.URLParam(r, "productId")
	h.withSession(w, r, func(s *Session) error {
		s.Ledger.SetQuantity(productID, req.Qty)
		common.JSON(w, http.StatusOK, map[string]any{"data": h.sessionBody(s)})
		return nil
	})
}

// RemoveItem handles DELETE /api/v1/sessions/{id}/items/{productId}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	h.withSession(w, r, func(s *Session) error {
		s.Ledger.Remove(productID)
		common.JSON(w, http.StatusOK, map[string]any{"data": h.sessionBody(s)})
		return nil
	})
}

// SetDiscount handles PUT /api/v1/sessions/{id}/discount. The discount is a
// flat amount and may exceed the subtotal; the total goes negative then.
func (h *Handler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *Session) error {
		s.Discount = req.Discount
		common.JSON(w, http.StatusOK, map[string]any{"data": h.sessionBody(s)})
		return nil
	})
}

// SelectPayment handles PUT /api/v1/sessions/{id}/payment. Selecting a
// channel validates it against the store settings and kicks off payload
// generation in the background.
func (h *Handler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	cfg, ok := h.paymentConfig(w, r.Context())
	if !ok {
		return
	}
	channel := payment.Channel(strings.TrimSpace(req.Channel))
	if err := h.Resolver.Select(r.Context(), cfg, channel); err != nil {
		if errors.Is(err, payment.ErrChannelUnavailable) {
			common.JSONError(w, http.StatusConflict, "CHANNEL_UNAVAILABLE", "payment channel is not configured for this store", map[string]any{"channel": channel})
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "channel selection failed", nil)
		return
	}
	h.withSession(w, r, func(s *Session) error {
		s.Channel = channel
		common.JSON(w, http.StatusOK, map[string]any{"data": h.sessionBody(s)})
		return nil
	})
}

// PaymentPayload handles GET /api/v1/sessions/{id}/payment/payload. Image is
// null while rendering is in flight or after a render failure; the textual
// payload is always usable.
func (h *Handler) PaymentPayload(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.paymentConfig(w, r.Context())
	if !ok {
		return
	}
	h.withSession(w, r, func(s *Session) error {
		body := map[string]any{
			"channel":  s.Channel,
			"payload":  "",
			"image":    nil,
			"resolved": false,
		}
		result, resolved := h.Resolver.Payload(cfg, s.Channel)
		body["payload"] = result.Payload
		body["resolved"] = resolved
		if resolved && !result.RenderFailed && len(result.Image) > 0 {
			body["image"] = result.Image
		}
		if resolved && result.RenderFailed {
			body["renderFailed"] = true
		}
		common.JSON(w, http.StatusOK, map[string]any{"data": body})
		return nil
	})
}

// Channels handles GET /api/v1/payment/channels.
func (h *Handler) Channels(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.paymentConfig(w, r.Context())
	if !ok {
		return
	}
	channels := payment.AvailableChannels(cfg)
	common.JSON(w, http.StatusOK, map[string]any{"data": channels})
}

// Checkout handles POST /api/v1/sessions/{id}/checkout. The ledger is
// cleared only after the store acknowledged the transaction; any persistence
// failure leaves the session untouched for retry.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.paymentConfig(w, r.Context())
	if !ok {
		return
	}
	h.withSession(w, r, func(s *Session) error {
		payload := payment.PayloadFor(cfg, s.Channel)
		tx, err := h.CheckoutService.Finalize(r.Context(), checkout.Input{
			SessionID: s.ID,
			Prefix:    s.Prefix,
			Manual:    s.Manual,
			Lines:     s.Ledger.Items(),
			Discount:  s.Discount,
			Channel:   s.Channel,
			Payload:   payload,
		})
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrEmptyLedger):
				common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "cannot finalize an empty session", nil)
			case errors.Is(err, checkout.ErrDuplicateID):
				common.JSONError(w, http.StatusBadGateway, "DUPLICATE_ID", "invoice id already exists, retry", nil)
			case errors.Is(err, checkout.ErrPersistence):
				common.JSONError(w, http.StatusBadGateway, "PERSISTENCE", "transaction could not be stored, session retained", nil)
			default:
				common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed", nil)
			}
			return nil
		}
		s.Ledger.Clear()
		s.Discount = 0
		common.JSON(w, http.StatusCreated, map[string]any{"data": tx})
		return nil
	})
}

// Close handles DELETE /api/v1/sessions/{id}.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.Sessions.Close(id) {
		h.emit(r.Context(), events.TopicSessionVoided, id, nil)
	}
	w.WriteHeader(http.StatusNoContent)
}

// emit records a session lifecycle event. Event failures never fail the
// request; they are logged and the session proceeds.
func (h *Handler) emit(ctx context.Context, topic, sessionID string, payload any) {
	if h.Events == nil {
		return
	}
	parsed, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}
	aggregate := pgtype.UUID{Bytes: parsed, Valid: true}
	if _, err := h.Events.Emit(ctx, topic, aggregate, payload); err != nil && h.Logger != nil {
		h.Logger.Warn().Err(err).Str("topic", topic).Msg("session event emit failed")
	}
}

func (h *Handler) resolveProduct(ctx context.Context, productID, code string) (catalog.Product, error) {
	if productID != "" {
		return h.Catalog.Get(ctx, productID)
	}
	return h.Catalog.Resolve(ctx, code)
}

func (h *Handler) sessionBody(s *Session) map[string]any {
	lines := s.Ledger.Items()
	summary := pricing.Compute(pricing.ItemsFromLines(lines), pricing.Money(s.Discount))
	if lines == nil {
		lines = []ledger.Line{}
	}
	return map[string]any{
		"id":       s.ID,
		"prefix":   s.Prefix,
		"manual":   s.Manual,
		"items":    lines,
		"discount": s.Discount,
		"channel":  s.Channel,
		"summary":  summary,
	}
}

func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(*Session) error) {
	id := chi.URLParam(r, "id")
	err := h.Sessions.With(id, fn)
	if err == nil {
		return
	}
	if errors.Is(err, ErrSessionNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "session not found", nil)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
			return false
		}
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid request payload", map[string]any{"error": err.Error()})
			return false
		}
	}
	return true
}

func (h *Handler) paymentConfig(w http.ResponseWriter, ctx context.Context) (store.PaymentConfig, bool) {
	if h.Settings == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "store settings not configured", nil)
		return store.PaymentConfig{}, false
	}
	cfg, err := h.Settings.PaymentConfig(ctx, h.StoreID)
	if err != nil {
		common.JSONError(w, http.StatusBadGateway, "PERSISTENCE", "could not load store settings", nil)
		return store.PaymentConfig{}, false
	}
	return cfg, true
}
