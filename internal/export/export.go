package export

import (
	"context"
	"net/url"
	"strings"

	"github.com/cli/browser"
)

// Format is an export format understood by the remote store.
type Format string

const (
	CSV      Format = "csv"
	JSON     Format = "json"
	Markdown Format = "md"
)

// ParseFormat maps s to a known format; anything unrecognized is CSV.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, Markdown:
		return f
	default:
		return CSV
	}
}

// Navigator follows an export URL. The payload never enters the record store.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// Trigger starts exports. It holds no state besides its configuration.
type Trigger struct {
	baseURL string
	nav     Navigator
}

// New creates a Trigger for the remote store at baseURL.
func New(baseURL string, nav Navigator) *Trigger {
	return &Trigger{
		baseURL: strings.TrimRight(baseURL, "/"),
		nav:     nav,
	}
}

// URL returns the export endpoint for format.
func (t *Trigger) URL(format string) string {
	q := url.Values{}
	q.Set("format", string(ParseFormat(format)))
	return t.baseURL + "/api/export?" + q.Encode()
}

// Export navigates to the export endpoint and returns the URL used.
// Failures are returned to the caller only; they are not application status.
func (t *Trigger) Export(ctx context.Context, format string) (string, error) {
	target := t.URL(format)
	return target, t.nav.Navigate(ctx, target)
}

// BrowserNavigator opens the export URL in the user's browser.
type BrowserNavigator struct{}

func (BrowserNavigator) Navigate(_ context.Context, target string) error {
	return browser.OpenURL(target)
}
