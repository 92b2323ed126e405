package checkout

import (
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/backend-kasir/internal/common"
	"github.com/noah-isme/backend-kasir/internal/invoice"
)

// Handler exposes the sales listing used for day reports and as the
// authoritative id list feeding the counting generator.
type Handler struct {
	store TransactionStore
	now   func() time.Time
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Store TransactionStore
	Now   func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{store: cfg.Store, now: now}
}

// Sales handles GET /api/v1/sales?prefix=&date=. Date is YYYY-MM-DD and
// defaults to today; prefix filters to one entry channel and defaults to all.
func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "transaction store not configured", nil)
		return
	}
	day := h.now()
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, day.Location())
		if err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "date must be YYYY-MM-DD", nil)
			return
		}
		day = parsed
	}
	prefix := strings.TrimSpace(r.URL.Query().Get("prefix"))
	if prefix != "" && prefix != invoice.PrefixQuick && prefix != invoice.PrefixCheckout {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "unknown prefix", map[string]any{"prefix": prefix})
		return
	}

	transactions, err := h.store.ListByDay(r.Context(), prefix, day)
	if err != nil {
		common.JSONError(w, http.StatusBadGateway, "PERSISTENCE", "could not list transactions", nil)
		return
	}
	if transactions == nil {
		transactions = []Transaction{}
	}
	ids := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		ids = append(ids, tx.InvoiceID)
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": transactions,
		"ids":  ids,
		"date": day.Format("2006-01-02"),
	})
}
