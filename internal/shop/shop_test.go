package shop

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/checkout"
)

const testPlayer = "6f1c2a9e-8d7b-4f55-9b1e-3f2f8a0c9d11"

func newTestShop(t *testing.T, backend http.HandlerFunc) *Handler {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	logger := log.New(io.Discard)
	return New(Options{
		Client: checkout.New(checkout.Options{BaseURL: srv.URL, Logger: logger}),
		Logger: logger,
	})
}

// backend answers the packages endpoint with an error so the built-in list
// is used, and delegates everything else to h.
func backend(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/packages" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		h(w, r)
	}
}

func postBuy(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/buy", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuyRedirectsToCheckoutURL(t *testing.T) {
	const want = "https://pay.example/session/abc"
	h := newTestShop(t, backend(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"url":"`+want+`"}`)
	}))

	rec := postBuy(t, h, url.Values{"package_id": {"gold_100"}, "player_uuid": {testPlayer}, "quantity": {"2"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func TestBuyShowsBackendError(t *testing.T) {
	h := newTestShop(t, backend(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"invalid package"}`)
	}))

	rec := postBuy(t, h, url.Values{"package_id": {"bogus"}, "player_uuid": {testPlayer}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `<p class="error">invalid package</p>`) {
		t.Fatalf("body lacks inline error:\n%s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), testPlayer) {
		t.Fatal("player uuid not kept on re-render")
	}
}

func TestBuyBackendDown(t *testing.T) {
	h := newTestShop(t, backend(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	rec := postBuy(t, h, url.Values{"package_id": {"gold_100"}})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), checkout.GenericFailure) {
		t.Fatal("generic failure message missing")
	}
}

func TestBuyRejectsBadQuantity(t *testing.T) {
	h := newTestShop(t, backend(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend called for invalid quantity")
	}))
	rec := postBuy(t, h, url.Values{"package_id": {"gold_100"}, "quantity": {"0"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestIndexListsPackages(t *testing.T) {
	h := newTestShop(t, backend(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?player_uuid="+testPlayer, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, p := range checkout.DefaultPackages() {
		if !strings.Contains(body, p.Name) {
			t.Errorf("package %q not listed", p.Name)
		}
	}
	if strings.Contains(body, `class="error"`) {
		t.Error("index rendered an error")
	}
}

func TestExpressRendersWithoutIntentOnFailure(t *testing.T) {
	h := newTestShop(t, backend(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"stripe down"}`)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/express/gold_500", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "express-checkout-element") || strings.Contains(body, "stripe down") {
		t.Fatal("failed express checkout leaked into the page")
	}
}

func TestExpressEmbedsClientSecret(t *testing.T) {
	h := newTestShop(t, backend(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"clientSecret":"pi_1_secret_2","publishableKey":"pk_test"}`)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/express/gold_500", nil))

	if !strings.Contains(rec.Body.String(), `data-client-secret="pi_1_secret_2"`) {
		t.Fatalf("client secret missing:\n%s", rec.Body.String())
	}
}

func TestExpressUnknownPackage(t *testing.T) {
	h := newTestShop(t, backend(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/express/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestShop(t, backend(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
