package checkout

import (
	"errors"
	"io"

	"github.com/pkg/browser"
)

// GenericFailure is shown when an error carries no backend message.
const GenericFailure = "Something went wrong. Please try again."

// Navigator sends the player to a URL.
type Navigator interface {
	Navigate(url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string) error

// Navigate calls f(url).
func (f NavigatorFunc) Navigate(url string) error { return f(url) }

// The browser launcher must not write over a terminal game.
func init() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// BrowserNavigator opens URLs in the system browser.
type BrowserNavigator struct{}

// Navigate opens url.
func (BrowserNavigator) Navigate(url string) error {
	return browser.OpenURL(url)
}

// UserMessage maps err to the inline message shown to the player.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrNoPackage) {
		return "Please choose a package."
	}
	return GenericFailure
}
