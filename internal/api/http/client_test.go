package httpapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/i474232898/weather-records/internal/api/http"
	"github.com/i474232898/weather-records/internal/form"
	"github.com/i474232898/weather-records/internal/records"
	"github.com/i474232898/weather-records/internal/store"
	"github.com/i474232898/weather-records/internal/transport"
	"github.com/i474232898/weather-records/internal/weather"
)

// appDoer sends client requests straight into the Fiber app.
type appDoer struct {
	app *fiber.App
}

func (d appDoer) Do(req *http.Request) (*http.Response, error) {
	return d.app.Test(req, -1)
}

type fixedComputer struct{}

func (fixedComputer) Compute(_ context.Context, location string, _ weather.DateRange) (weather.Observation, error) {
	if location == "Atlantis" {
		return weather.Observation{}, weather.ErrLocationNotFound
	}
	return weather.Observation{
		Place:           weather.Place{Name: location, CountryCode: "FR", Latitude: 48.85, Longitude: 2.35},
		AvgTemperatureC: 5.2,
		Description:     weather.Describe(5),
	}, nil
}

func newClientStore(t *testing.T) *records.Store {
	t.Helper()
	app := httpapi.NewApp(store.NewMemoryStore(0), fixedComputer{}, httpapi.Options{})
	client := transport.New("http://records.test", appDoer{app: app})
	return records.NewStore(records.NewAPI(client))
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newClientStore(t)
	f := form.New(s)
	sessions := records.NewSessions(s)
	defer sessions.Close()

	f.Set(records.Draft{Location: "Paris", StartDate: "2024-01-01", EndDate: "2024-01-05"})
	created, err := f.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Paris, FR", created.Location)
	assert.Equal(t, records.NoticeStatus("Added: Paris, FR"), s.Status())
	assert.Equal(t, records.Draft{}, f.Draft())

	require.NoError(t, s.List(ctx))
	assert.Equal(t, []records.Record{created}, s.Records())
	assert.True(t, s.Status().IsZero())

	require.NoError(t, sessions.Begin(created))
	require.NoError(t, sessions.SetDraft(created.ID, records.Draft{Location: "Lyon", StartDate: "2024-01-01", EndDate: "2024-01-02"}))
	require.NoError(t, sessions.Save(ctx, created.ID))
	assert.Equal(t, "Lyon, FR", s.Records()[0].Location)
	assert.Equal(t, records.NoticeStatus("Record updated."), s.Status())

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.Empty(t, s.Records())
	assert.Equal(t, records.NoticeStatus("Deleted."), s.Status())
}

func TestClientSurfacesServerErrors(t *testing.T) {
	ctx := context.Background()
	s := newClientStore(t)

	_, err := s.Create(ctx, records.Draft{Location: "Atlantis", StartDate: "2024-01-01", EndDate: "2024-01-02"})
	require.Error(t, err)
	assert.Equal(t, records.ErrorStatus("location not found via geocoding"), s.Status())

	loc := "Oslo"
	_, err = s.Update(ctx, "1", records.Patch{Location: &loc})
	require.Error(t, err)
	assert.Equal(t, records.ErrorStatus("record not found"), s.Status())
	assert.Empty(t, s.Records())
}
