package export

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// Downloader saves the export payload into Dir instead of opening a browser.
type Downloader struct {
	Client  *http.Client
	Dir     string
	OnSaved func(path string)
}

func (d *Downloader) Navigate(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("export failed: HTTP %d", resp.StatusCode)
	}

	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, fileName(resp.Header.Get("Content-Disposition"), target))

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	if d.OnSaved != nil {
		d.OnSaved(path)
	}
	return nil
}

// fileName prefers the server's attachment name and falls back to
// weather_export.<format>.
func fileName(disposition, target string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := filepath.Base(params["filename"]); name != "." && name != ".." && name != "/" && name != "" {
			return name
		}
	}

	format := CSV
	if u, err := url.Parse(target); err == nil {
		format = ParseFormat(u.Query().Get("format"))
	}
	return "weather_export." + string(format)
}
