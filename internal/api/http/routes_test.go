package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-records/internal/store"
	"github.com/i474232898/weather-records/internal/weather"
)

// stubComputer resolves any location to "<location>, XX" unless told to fail.
type stubComputer struct {
	err error
}

func (s stubComputer) Compute(_ context.Context, location string, r weather.DateRange) (weather.Observation, error) {
	if s.err != nil {
		return weather.Observation{}, s.err
	}
	days := int(r.End.Sub(r.Start).Hours()/24) + 1
	return weather.Observation{
		Place:           weather.Place{Name: location, CountryCode: "XX", Latitude: 1.5, Longitude: 2.5},
		AvgTemperatureC: 4.2,
		Description:     weather.Describe(days),
	}, nil
}

func newTestApp(computer Computer) (*fiber.App, *store.MemoryStore) {
	repo := store.NewMemoryStore(0)
	return NewApp(repo, computer, Options{}), repo
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, payload
}

// TestCreateValidation verifies the create endpoint rejects missing
// locations and malformed or inverted date ranges.
func TestCreateValidation(t *testing.T) {
	app, _ := newTestApp(stubComputer{})

	cases := []struct {
		body string
		want string
	}{
		{`{"location":"  ","start_date":"2024-01-01","end_date":"2024-01-02"}`, "location is required"},
		{`{"location":"Paris","start_date":"2024/01/01","end_date":"2024-01-02"}`, "Date must be YYYY-MM-DD"},
		{`{"location":"Paris","end_date":"2024-01-02"}`, "Date must be YYYY-MM-DD"},
		{`{"location":"Paris","start_date":"2024-01-03","end_date":"2024-01-02"}`, "start_date cannot be after end_date"},
		{``, "location is required"},
	}

	for _, tc := range cases {
		resp, payload := do(t, app, http.MethodPost, "/api/records", tc.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: expected status %d, got %d", tc.body, http.StatusBadRequest, resp.StatusCode)
		}
		if payload["error"] != tc.want {
			t.Fatalf("body %s: expected error %q, got %v", tc.body, tc.want, payload["error"])
		}
	}
}

func TestCreateGeocodingFailure(t *testing.T) {
	app, _ := newTestApp(stubComputer{err: weather.ErrLocationNotFound})

	resp, payload := do(t, app, http.MethodPost, "/api/records", `{"location":"Atlantis","start_date":"2024-01-01","end_date":"2024-01-02"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if payload["error"] != "location not found via geocoding" {
		t.Fatalf("unexpected error %v", payload["error"])
	}
}

func TestCreateListUpdateDelete(t *testing.T) {
	app, _ := newTestApp(stubComputer{})

	resp, payload := do(t, app, http.MethodPost, "/api/records", `{"location":"Paris","start_date":"2024-01-01","end_date":"2024-01-05"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	data := payload["data"].(map[string]any)
	if data["id"] != float64(1) || data["location"] != "Paris, XX" || data["description"] != "avg of daily means over 5 day(s)" {
		t.Fatalf("unexpected record %v", data)
	}

	do(t, app, http.MethodPost, "/api/records", `{"location":"Rome","start_date":"2024-01-01","end_date":"2024-01-01"}`)

	_, payload = do(t, app, http.MethodGet, "/api/records", "")
	list := payload["data"].([]any)
	if len(list) != 2 || list[0].(map[string]any)["location"] != "Rome, XX" {
		t.Fatalf("expected newest first, got %v", list)
	}

	resp, payload = do(t, app, http.MethodPut, "/api/records/1", `{"end_date":"2024-01-02"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	data = payload["data"].(map[string]any)
	if data["start_date"] != "2024-01-01" || data["end_date"] != "2024-01-02" || data["description"] != "avg of daily means over 2 day(s)" {
		t.Fatalf("unexpected updated record %v", data)
	}

	resp, _ = do(t, app, http.MethodDelete, "/api/records/1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	resp, payload = do(t, app, http.MethodDelete, "/api/records/1", "")
	if resp.StatusCode != http.StatusNotFound || payload["error"] != "record not found" {
		t.Fatalf("expected 404 record not found, got %d %v", resp.StatusCode, payload)
	}

	resp, _ = do(t, app, http.MethodPut, "/api/records/99", `{"location":"Oslo"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestExportFormats(t *testing.T) {
	app, _ := newTestApp(stubComputer{})
	do(t, app, http.MethodPost, "/api/records", `{"location":"Paris","start_date":"2024-01-01","end_date":"2024-01-05"}`)

	cases := map[string]struct{ ct, file string }{
		"csv":      {"text/csv", "weather_export.csv"},
		"json":     {"application/json", "weather_export.json"},
		"md":       {"text/markdown", "weather_export.md"},
		"markdown": {"text/markdown", "weather_export.md"},
		"bogus":    {"text/csv", "weather_export.csv"},
	}

	for format, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/export?format="+format, nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", format, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, want.ct) {
			t.Fatalf("%s: expected content type %s, got %s", format, want.ct, ct)
		}
		if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, want.file) {
			t.Fatalf("%s: expected attachment %s, got %s", format, want.file, cd)
		}
		body, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(body), "Paris, XX") {
			t.Fatalf("%s: export missing record: %s", format, body)
		}
	}
}
