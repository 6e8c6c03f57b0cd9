// Package checkout talks to the payment and wallet backend.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Backend paths relative to the base URL.
const (
	pathCheckoutSession = "/api/create-checkout-session/"
	pathPaymentIntent   = "/api/create-payment-intent/"
	pathEarnedCoins     = "/api/wallet/add-earned-coins"
	pathPackages        = "/api/packages"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 1 << 20

var (
	// ErrMissingField is returned when a 2xx response lacks a required field.
	ErrMissingField = errors.New("response missing required field")
	// ErrNoPackage is returned when a checkout request names no package.
	ErrNoPackage = errors.New("no package specified")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, msg)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	WalletURL  string // Defaults to BaseURL + "/api/wallet/balance/"
	Timeout    time.Duration
	HTTPClient *http.Client // Overrides Timeout when set
	Logger     *log.Logger
}

// Client is safe for concurrent use.
type Client struct {
	baseURL   string
	walletURL string
	http      *http.Client
	logger    *log.Logger
}

// New creates a client for the backend at opts.BaseURL.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	walletURL := opts.WalletURL
	if walletURL == "" {
		walletURL = base + "/api/wallet/balance/"
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		baseURL:   base,
		walletURL: walletURL,
		http:      hc,
		logger:    logger.WithPrefix("checkout"),
	}
}

// Item is one line of a multi-item checkout.
type Item struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CheckoutRequest starts a hosted checkout for one package or a list of items.
type CheckoutRequest struct {
	PlayerUUID string `json:"player_uuid,omitempty"`
	PackageID  string `json:"package_id,omitempty"`
	Items      []Item `json:"items,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

// CheckoutSession is the hosted payment page to send the player to.
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId,omitempty"`
}

// CreateCheckoutSession asks the backend for a hosted checkout page.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.PackageID == "" && len(req.Items) == 0 {
		return nil, ErrNoPackage
	}
	if req.PackageID != "" && req.Quantity <= 0 {
		req.Quantity = 1
	}

	var sess CheckoutSession
	if err := c.do(ctx, http.MethodPost, c.baseURL+pathCheckoutSession, req, &sess); err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	if sess.URL == "" {
		return nil, fmt.Errorf("create checkout session: url: %w", ErrMissingField)
	}
	c.logger.Info("checkout session created", "package", req.PackageID, "items", len(req.Items), "player", req.PlayerUUID)
	return &sess, nil
}

// PaymentIntentRequest starts an express (wallet-button) payment.
type PaymentIntentRequest struct {
	PlayerUUID string `json:"player_uuid,omitempty"`
	PackageID  string `json:"package_id"`
	Email      string `json:"email,omitempty"`
}

// PaymentIntent carries the secret the express checkout element confirms with.
type PaymentIntent struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	PublishableKey  string `json:"publishableKey,omitempty"`
}

// CreatePaymentIntent asks the backend for a payment intent.
func (c *Client) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	var pi PaymentIntent
	if err := c.do(ctx, http.MethodPost, c.baseURL+pathPaymentIntent, req, &pi); err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	if pi.ClientSecret == "" {
		return nil, fmt.Errorf("create payment intent: clientSecret: %w", ErrMissingField)
	}
	return &pi, nil
}

// ExpressCheckout creates a payment intent for the express checkout element.
// Failures are logged and never surfaced to the player; ok is false and the
// page simply renders without the express buttons.
func (c *Client) ExpressCheckout(ctx context.Context, req PaymentIntentRequest) (pi *PaymentIntent, ok bool) {
	pi, err := c.CreatePaymentIntent(ctx, req)
	if err != nil {
		c.logger.Error("express checkout unavailable", "package", req.PackageID, "err", err)
		return nil, false
	}
	return pi, true
}

// Wallet is the player's balance held by the backend.
type Wallet struct {
	GoldCoins   int
	HealthPacks int
}

// Wallet fetches the balance for playerUUID.
func (c *Client) Wallet(ctx context.Context, playerUUID string) (*Wallet, error) {
	u, err := url.Parse(c.walletURL)
	if err != nil {
		return nil, fmt.Errorf("wallet url: %w", err)
	}
	q := u.Query()
	q.Set("player_uuid", playerUUID)
	u.RawQuery = q.Encode()

	var body struct {
		GoldCoins   *int `json:"gold_coins"`
		HealthPacks *int `json:"health_packs"`
	}
	if err := c.do(ctx, http.MethodGet, u.String(), nil, &body); err != nil {
		return nil, fmt.Errorf("wallet: %w", err)
	}
	if body.GoldCoins == nil {
		return nil, fmt.Errorf("wallet: gold_coins: %w", ErrMissingField)
	}
	w := &Wallet{GoldCoins: *body.GoldCoins}
	if body.HealthPacks != nil {
		w.HealthPacks = *body.HealthPacks
	}
	return w, nil
}

// EarnedCoins is the backend's answer to AddEarnedCoins.
type EarnedCoins struct {
	Success    bool `json:"success"`
	CoinsAdded int  `json:"coins_added"`
	NewBalance int  `json:"new_balance"`
}

// AddEarnedCoins credits coins earned in a game to the player's wallet.
// Non-positive amounts are not sent.
func (c *Client) AddEarnedCoins(ctx context.Context, playerUUID string, amount int) (*EarnedCoins, error) {
	if amount <= 0 {
		return &EarnedCoins{Success: true}, nil
	}
	req := struct {
		PlayerUUID string `json:"player_uuid"`
		Amount     int    `json:"amount"`
	}{playerUUID, amount}

	var res EarnedCoins
	if err := c.do(ctx, http.MethodPost, c.baseURL+pathEarnedCoins, req, &res); err != nil {
		return nil, fmt.Errorf("add earned coins: %w", err)
	}
	if !res.Success {
		return nil, fmt.Errorf("add earned coins: success: %w", ErrMissingField)
	}
	c.logger.Debug("coins flushed", "player", playerUUID, "amount", amount, "balance", res.NewBalance)
	return &res, nil
}

// Packages lists the purchasable packages. When the backend cannot be
// reached the built-in DefaultPackages are returned along with the error.
func (c *Client) Packages(ctx context.Context) ([]Package, error) {
	var body struct {
		Packages []Package `json:"packages"`
	}
	if err := c.do(ctx, http.MethodGet, c.baseURL+pathPackages, nil, &body); err != nil {
		c.logger.Warn("using built-in package list", "err", err)
		return DefaultPackages(), fmt.Errorf("packages: %w", err)
	}
	if len(body.Packages) == 0 {
		return DefaultPackages(), nil
	}
	return body.Packages, nil
}

// Purchase creates a checkout session and sends the player to exactly the
// URL the backend returned.
func (c *Client) Purchase(ctx context.Context, nav Navigator, req CheckoutRequest) error {
	sess, err := c.CreateCheckoutSession(ctx, req)
	if err != nil {
		return err
	}
	if err := nav.Navigate(sess.URL); err != nil {
		return fmt.Errorf("open checkout page: %w", err)
	}
	return nil
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the message from an error body. The backend uses
// "error" or "message"; framework-generated errors use "detail".
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  any    `json:"detail"`
	}
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Error != "":
			return body.Error
		case body.Message != "":
			return body.Message
		}
		if s, ok := body.Detail.(string); ok && s != "" {
			return s
		}
	}
	return ""
}
