package pos_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/catalog"
	"github.com/noah-isme/backend-kasir/internal/checkout"
	"github.com/noah-isme/backend-kasir/internal/payment"
	"github.com/noah-isme/backend-kasir/internal/pos"
	"github.com/noah-isme/backend-kasir/internal/store"
)

type fakeSource struct {
	products map[string]catalog.Product
}

func (f fakeSource) Search(_ context.Context, query string, _ int) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakeSource) FindByCodeOrBarcode(_ context.Context, text string) (catalog.Product, error) {
	for _, p := range f.products {
		if p.Code == text || p.Barcode == text {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (f fakeSource) Get(_ context.Context, id string) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

type memStore struct {
	appended  []checkout.Transaction
	appendErr error
}

func (m *memStore) Append(_ context.Context, tx checkout.Transaction) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, tx)
	return nil
}

func (m *memStore) InvoiceIDs(context.Context, string, time.Time) ([]string, error) {
	var ids []string
	for _, tx := range m.appended {
		ids = append(ids, tx.InvoiceID)
	}
	return ids, nil
}

func (m *memStore) ListByDay(context.Context, string, time.Time) ([]checkout.Transaction, error) {
	return m.appended, nil
}

type staticSettings struct {
	cfg store.PaymentConfig
}

func (s staticSettings) PaymentConfig(context.Context, string) (store.PaymentConfig, error) {
	return s.cfg, nil
}

type textRenderer struct{}

func (textRenderer) Render(_ context.Context, payload string, _ int) ([]byte, error) {
	return []byte("png:" + payload), nil
}

type fixture struct {
	router http.Handler
	store  *memStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	source := fakeSource{products: map[string]catalog.Product{
		"p1": {ID: "p1", Name: "Indomie Goreng", Code: "IDM-GRG", SellPrice: 3500, CostPrice: 2800},
		"p2": {ID: "p2", Name: "Aqua 600ml", Barcode: "8886008101053", SellPrice: 4000, CostPrice: 3000},
	}}
	catalogService, err := catalog.NewService(catalog.ServiceConfig{Source: source})
	require.NoError(t, err)

	txStore := &memStore{}
	checkoutService := &checkout.Service{
		Store: txStore,
		Now:   func() time.Time { return time.Date(2025, time.January, 5, 14, 0, 0, 0, time.Local) },
	}

	handler := &pos.Handler{
		Sessions:        pos.NewManager(time.Hour, nil),
		Catalog:         catalogService,
		Resolver:        &payment.Resolver{Renderer: textRenderer{}, Cache: payment.NewCache()},
		CheckoutService: checkoutService,
		Settings: staticSettings{cfg: store.PaymentConfig{
			BankName:          "BCA",
			BankAccountNumber: "1234567890",
			BankAccountHolder: "Budi Santoso",
			GopayNumber:       "0812-345-6789",
		}},
		StoreID:  "toko-utama",
		Validate: validator.New(),
	}

	r := chi.NewRouter()
	r.Get("/payment/channels", handler.Channels)
	r.Route("/sessions", func(s chi.Router) {
		s.Post("/", handler.Open)
		s.Route("/{id}", func(one chi.Router) {
			one.Get("/", handler.Get)
			one.Delete("/", handler.Close)
			one.Post("/items", handler.AddItem)
			one.Patch("/items/{productId}", handler.SetQuantity)
			one.Delete("/items/{productId}", handler.RemoveItem)
			one.Put("/discount", handler.SetDiscount)
			one.Put("/payment", handler.SelectPayment)
			one.Get("/payment/payload", handler.PaymentPayload)
			one.Post("/checkout", handler.Checkout)
		})
	})
	return &fixture{router: r, store: txStore}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	var decoded map[string]any
	if rr.Body.Len() > 0 {
		_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	}
	return rr, decoded
}

func (f *fixture) openSession(t *testing.T, entry string) string {
	t.Helper()
	rr, body := f.do(t, http.MethodPost, "/sessions", `{"entry":"`+entry+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	data := body["data"].(map[string]any)
	return data["id"].(string)
}

func TestOpenSession(t *testing.T) {
	f := newFixture(t)
	rr, body := f.do(t, http.MethodPost, "/sessions", `{"entry":"quick"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	data := body["data"].(map[string]any)
	require.Equal(t, "QCK", data["prefix"])
	require.Equal(t, true, data["manual"])
}

func TestAddItemMergesAndSummarises(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "pos")

	rr, _ := f.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"productId":"p1","qty":2}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rr, body := f.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"productId":"p1","qty":3}`)
	require.Equal(t, http.StatusOK, rr.Code)

	data := body["data"].(map[string]any)
	items := data["items"].([]any)
	require.Len(t, items, 1)
	summary := data["summary"].(map[string]any)
	require.Equal(t, float64(17500), summary["subtotal"])
	require.Equal(t, float64(3500), summary["profit"])
}

func TestAddItemByScannedCode(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "pos")

	rr, body := f.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"code":"8886008101053","qty":1}`)
	require.Equal(t, http.StatusOK, rr.Code)
	items := body["data"].(map[string]any)["items"].([]any)
	product := items[0].(map[string]any)["product"].(map[string]any)
	require.Equal(t, "p2", product["id"])
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "pos")
	rr, _ := f.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"code":"nope","qty":1}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAddItemInvalidQuantity(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "pos")
	rr, _ := f.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"productId":"p1","qty":-1}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestDiscountMayExceedSubtotal(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "pos")
	f.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"productId":"p1","qty":1}`)

	rr, body := f.do(t, http.MethodPut, "/sessions/"+id+"/discount", `{"discount":5000}`)
	require.Equal(t, http.StatusOK, rr.Code)
	summary := body["data"].(map[string]any)["summary"].(map[string]any)
	require.Equal(t, float64(-1500), summary["total"])
}

func TestSelectUnavailableChannelConflicts(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "pos")
	rr, body := f.do(t, http.MethodPut, "/sessions/"+id+"/payment", `{"channel":"ewallet:dana"}`)
	require.Equal(t, http.StatusConflict, rr.Code)
	errBody := body["error"].(map[string]any)
	require.Equal(t, "CHANNEL_UNAVAILABLE", errBody["code"])
}

func TestSelectChannelAndFetchPayload(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "pos")

	rr, _ := f.do(t, http.MethodPut, "/sessions/"+id+"/payment", `{"channel":"ewallet:gopay"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	require.Eventually(t, func() bool {
		_, body := f.do(t, http.MethodGet, "/sessions/"+id+"/payment/payload", "")
		data := body["data"].(map[string]any)
		return data["resolved"] == true
	}, time.Second, 5*time.Millisecond)

	_, body := f.do(t, http.MethodGet, "/sessions/"+id+"/payment/payload", "")
	data := body["data"].(map[string]any)
	require.Equal(t, "gopay://qr?phone=08123456789", data["payload"])
	require.NotNil(t, data["image"])
}

func TestAvailableChannels(t *testing.T) {
	f := newFixture(t)
	rr, body := f.do(t, http.MethodGet, "/payment/channels", "")
	require.Equal(t, http.StatusOK, rr.Code)
	channels := body["data"].([]any)
	require.Equal(t, []any{"cash", "transfer", "ewallet:gopay"}, channels)
}

func TestCheckoutClearsLedgerOnSuccess(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "quick")
	f.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"productId":"p1","qty":4}`)

	rr, body := f.do(t, http.MethodPost, "/sessions/"+id+"/checkout", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	data := body["data"].(map[string]any)
	require.Equal(t, "QCK-1050125", data["invoiceId"])
	require.Equal(t, float64(14000), data["total"])
	require.Len(t, f.store.appended, 1)

	// ledger is now empty, a second checkout is rejected
	rr, _ = f.do(t, http.MethodPost, "/sessions/"+id+"/checkout", "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestCheckoutFailureRetainsLedger(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "pos")
	f.do(t, http.MethodPost, "/sessions/"+id+"/items", `{"productId":"p1","qty":1}`)

	f.store.appendErr = checkout.ErrPersistence
	rr, _ := f.do(t, http.MethodPost, "/sessions/"+id+"/checkout", "")
	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Empty(t, f.store.appended)

	// same session retries successfully once the store recovers
	f.store.appendErr = nil
	rr, body := f.do(t, http.MethodPost, "/sessions/"+id+"/checkout", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "INV-1050125", body["data"].(map[string]any)["invoiceId"])
}

func TestSessionNotFound(t *testing.T) {
	f := newFixture(t)
	rr, _ := f.do(t, http.MethodGet, "/sessions/ghost/", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCloseSession(t *testing.T) {
	f := newFixture(t)
	id := f.openSession(t, "pos")
	rr, _ := f.do(t, http.MethodDelete, "/sessions/"+id+"/", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr, _ = f.do(t, http.MethodGet, "/sessions/"+id+"/", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}
