package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings is the environment-facing configuration shared by all binaries.
type Settings struct {
	ScreenWidth  int
	ScreenHeight int
	TargetFPS    int

	// Economy reward rates.
	CoinsPerPoint         int
	CoinsPerLevelComplete int

	BackendURL         string
	WalletURL          string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	HTTPTimeout        time.Duration

	PlayerIDFile string

	LogLevel string
	LogFile  string
}

// Load reads an optional .env file from the working directory and builds
// Settings from the environment. Variables already set in the process
// environment win over the file.
func Load() (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds Settings from the process environment only.
func FromEnv() (Settings, error) {
	backend := strings.TrimRight(GetEnv("GAME_BACKEND_URL", "http://localhost:8000"), "/")

	s := Settings{
		ScreenWidth:           GetEnvInt("SCREEN_WIDTH", 1280),
		ScreenHeight:          GetEnvInt("SCREEN_HEIGHT", 720),
		TargetFPS:             GetEnvInt("TARGET_FPS", 60),
		CoinsPerPoint:         GetEnvInt("COINS_PER_POINT", 1),
		CoinsPerLevelComplete: GetEnvInt("COINS_PER_LEVEL_COMPLETE", 50),
		BackendURL:            backend,
		WalletURL:             GetEnv("WALLET_URL", backend+"/api/wallet/balance/"),
		CheckoutSuccessURL:    GetEnv("CHECKOUT_SUCCESS_URL", ""),
		CheckoutCancelURL:     GetEnv("CHECKOUT_CANCEL_URL", ""),
		HTTPTimeout:           GetEnvDuration("HTTP_TIMEOUT", 10*time.Second),
		PlayerIDFile:          GetEnv("PLAYER_ID_FILE", "player_id.json"),
		LogLevel:              GetEnv("LOG_LEVEL", "info"),
		LogFile:               GetEnv("LOG_FILE", ""),
	}

	if s.ScreenWidth <= 0 || s.ScreenHeight <= 0 {
		return Settings{}, fmt.Errorf("invalid screen size %dx%d", s.ScreenWidth, s.ScreenHeight)
	}
	if s.TargetFPS <= 0 {
		return Settings{}, fmt.Errorf("invalid TARGET_FPS %d", s.TargetFPS)
	}
	if s.CoinsPerPoint < 0 || s.CoinsPerLevelComplete < 0 {
		return Settings{}, errors.New("reward rates must not be negative")
	}
	return s, nil
}
