// Package shop serves the web page where players buy gold coins and health
// packs through the hosted checkout.
package shop

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tomz197/invaders/internal/checkout"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const maxQuantity = 99

// Options configures a Handler.
type Options struct {
	Client     *checkout.Client
	Logger     *log.Logger
	SuccessURL string
	CancelURL  string
	SSHHost    string
	Timeout    time.Duration
}

// Handler serves the shop pages.
type Handler struct {
	client     *checkout.Client
	logger     *log.Logger
	successURL string
	cancelURL  string
	sshHost    string
	timeout    time.Duration
	mux        *http.ServeMux
}

// New builds the shop handler.
func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	h := &Handler{
		client:     opts.Client,
		logger:     logger.WithPrefix("shop"),
		successURL: opts.SuccessURL,
		cancelURL:  opts.CancelURL,
		sshHost:    opts.SSHHost,
		timeout:    timeout,
		mux:        http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("POST /buy", h.buy)
	h.mux.HandleFunc("GET /express/{package}", h.express)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

type pageData struct {
	PlayerUUID string
	Packages   []checkout.Package
	Error      string
	SSHHost    string
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.renderShop(w, r, playerUUID(r.URL.Query().Get("player_uuid")), http.StatusOK, "")
}

func (h *Handler) buy(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderShop(w, r, uuid.NewString(), http.StatusBadRequest, "Invalid form.")
		return
	}
	player := playerUUID(r.PostForm.Get("player_uuid"))

	quantity := 1
	if q := r.PostForm.Get("quantity"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > maxQuantity {
			h.renderShop(w, r, player, http.StatusBadRequest, "Quantity must be between 1 and 99.")
			return
		}
		quantity = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, err := h.client.CreateCheckoutSession(ctx, checkout.CheckoutRequest{
		PlayerUUID: player,
		PackageID:  r.PostForm.Get("package_id"),
		Quantity:   quantity,
		SuccessURL: h.successURL,
		CancelURL:  h.cancelURL,
	})
	if err != nil {
		h.logger.Warn("checkout failed", "player", player, "package", r.PostForm.Get("package_id"), "err", err)
		h.renderShop(w, r, player, failureStatus(err), checkout.UserMessage(err))
		return
	}
	http.Redirect(w, r, sess.URL, http.StatusSeeOther)
}

type expressData struct {
	PlayerUUID string
	Package    checkout.Package
	Intent     *checkout.PaymentIntent
}

func (h *Handler) express(w http.ResponseWriter, r *http.Request) {
	player := playerUUID(r.URL.Query().Get("player_uuid"))

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	pkgs, _ := h.client.Packages(ctx)
	pkg, ok := checkout.FindPackage(pkgs, r.PathValue("package"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := expressData{PlayerUUID: player, Package: pkg}
	if pi, ok := h.client.ExpressCheckout(ctx, checkout.PaymentIntentRequest{
		PlayerUUID: player,
		PackageID:  pkg.ID,
	}); ok {
		data.Intent = pi
	}
	h.render(w, "express.html", http.StatusOK, data)
}

func (h *Handler) renderShop(w http.ResponseWriter, r *http.Request, player string, status int, msg string) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	pkgs, _ := h.client.Packages(ctx)

	h.render(w, "shop.html", status, pageData{
		PlayerUUID: player,
		Packages:   pkgs,
		Error:      msg,
		SSHHost:    h.sshHost,
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "template", name, "err", err)
	}
}

// failureStatus picks the response code for a failed checkout: the player's
// own mistakes are 400, anything the backend did wrong is 502.
func failureStatus(err error) int {
	if errors.Is(err, checkout.ErrNoPackage) {
		return http.StatusBadRequest
	}
	var apiErr *checkout.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func playerUUID(s string) string {
	if _, err := uuid.Parse(s); err == nil {
		return s
	}
	return uuid.NewString()
}
