// Package economy tracks the per-game score, gold coins and health packs.
//
// Coins earned in a game are held as session coins until they are flushed
// to the backend wallet. While a flush is in flight the coins are pending:
// they still count towards TotalCoins so the displayed balance never dips.
package economy

import (
	"errors"

	"github.com/charmbracelet/log"
)

// ErrInsufficientFunds is returned by Spend when the session cannot cover
// the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Wallet is the player's balance as reported by the backend.
type Wallet struct {
	GoldCoins   int
	HealthPacks int
}

// Stats is a snapshot of a session for the pause and game-over screens.
type Stats struct {
	Score        int
	TotalCoins   int
	EarnedCoins  int // Coins earned this game, spent or not
	SessionCoins int // Not yet flushed to the wallet
	HealthPacks  int
}

// Session is owned by the game loop and is not safe for concurrent use.
type Session struct {
	score        int
	walletCoins  int
	sessionCoins int
	pending      int
	earned       int
	healthPacks  int

	coinsPerPoint int
	logger        *log.Logger
}

// NewSession creates an empty session that converts each point into
// coinsPerPoint coins. A nil logger uses log.Default().
func NewSession(coinsPerPoint int, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		coinsPerPoint: max(coinsPerPoint, 0),
		logger:        logger.WithPrefix("economy"),
	}
}

// Score returns the points scored this game.
func (s *Session) Score() int { return s.score }

// WalletCoins returns the last balance synced from the backend.
func (s *Session) WalletCoins() int { return s.walletCoins }

// SessionCoins returns the coins earned but not yet flushed.
func (s *Session) SessionCoins() int { return s.sessionCoins }

// HealthPacks returns the health packs available to use.
func (s *Session) HealthPacks() int { return s.healthPacks }

// TotalCoins returns wallet, pending and session coins together.
func (s *Session) TotalCoins() int {
	return s.walletCoins + s.pending + s.sessionCoins
}

// AddScore adds points and credits the matching coins. It returns the
// number of coins earned.
func (s *Session) AddScore(points int) int {
	if points <= 0 {
		return 0
	}
	s.score += points
	coins := points * s.coinsPerPoint
	s.Earn(coins)
	return coins
}

// Earn credits n session coins. Non-positive amounts are ignored.
func (s *Session) Earn(n int) {
	if n <= 0 {
		return
	}
	s.sessionCoins += n
	s.earned += n
}

// Spend deducts n from the session coins.
func (s *Session) Spend(n int) error {
	if n <= 0 {
		return nil
	}
	if n > s.sessionCoins {
		s.logger.Debug("spend refused", "amount", n, "session_coins", s.sessionCoins)
		return ErrInsufficientFunds
	}
	s.sessionCoins -= n
	return nil
}

// AddHealthPacks adds n health packs. Non-positive amounts are ignored.
func (s *Session) AddHealthPacks(n int) {
	if n > 0 {
		s.healthPacks += n
	}
}

// UseHealthPack consumes one health pack if any are left.
func (s *Session) UseHealthPack() bool {
	if s.healthPacks <= 0 {
		return false
	}
	s.healthPacks--
	return true
}

// ApplyWallet replaces the synced wallet balance. Health packs bought in
// the shop arrive this way and are added to the local stock.
func (s *Session) ApplyWallet(w Wallet) {
	s.walletCoins = max(w.GoldCoins, 0)
	if w.HealthPacks > s.healthPacks {
		s.healthPacks = w.HealthPacks
	}
}

// TakeSessionCoins moves all session coins to pending and returns the
// amount to flush. It returns 0 if there is nothing to flush.
func (s *Session) TakeSessionCoins() int {
	n := s.sessionCoins
	s.sessionCoins = 0
	s.pending += n
	return n
}

// ConfirmFlush completes a flush of n coins; newBalance is the wallet
// balance reported by the backend.
func (s *Session) ConfirmFlush(n, newBalance int) {
	s.pending = max(s.pending-n, 0)
	s.walletCoins = max(newBalance, 0)
}

// RestoreSessionCoins returns n coins from a failed flush to the session.
func (s *Session) RestoreSessionCoins(n int) {
	if n <= 0 {
		return
	}
	s.pending = max(s.pending-n, 0)
	s.sessionCoins += n
	s.logger.Warn("coin flush failed, keeping coins in session", "amount", n)
}

// Reset starts a new game. Score and the earned counter return to zero;
// coins and health packs carry over.
func (s *Session) Reset() {
	s.score = 0
	s.earned = 0
}

// Summary returns a snapshot of the session.
func (s *Session) Summary() Stats {
	return Stats{
		Score:        s.score,
		TotalCoins:   s.TotalCoins(),
		EarnedCoins:  s.earned,
		SessionCoins: s.sessionCoins,
		HealthPacks:  s.healthPacks,
	}
}
