package httpapi

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/weather-records/internal/formats"
	"github.com/i474232898/weather-records/internal/records"
	"github.com/i474232898/weather-records/internal/store"
	"github.com/i474232898/weather-records/internal/weather"
)

var validate = validator.New()

// Computer fills in the server-computed fields of a record.
type Computer interface {
	Compute(ctx context.Context, location string, r weather.DateRange) (weather.Observation, error)
}

// Options configures NewApp.
type Options struct {
	CORSOrigins string
	AccessLog   bool
}

// NewApp builds the Fiber app serving the records API.
func NewApp(repo *store.MemoryStore, computer Computer, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-records",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          ErrorHandler,
	})

	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())

	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use("/api", cors.New(cors.Config{AllowOrigins: origins}))

	RegisterRoutes(app, repo, computer)
	return app
}

// ErrorHandler renders every error as {"ok": false, "error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"ok":    false,
		"error": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, repo *store.MemoryStore, computer Computer) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":      true,
			"service": "weather-records",
		})
	})

	api.Get("/records", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":   true,
			"data": repo.List(true),
		})
	})

	api.Post("/records", func(c *fiber.Ctx) error {
		var req createRequest
		req.bind(c)

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "location is required")
		}

		r, err := weather.ParseDateRange(req.StartDate, req.EndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := computeRecord(c.UserContext(), computer, req.Location, r)
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"ok":   true,
			"data": repo.Insert(rec),
		})
	})

	api.Put("/records/:id", func(c *fiber.Ctx) error {
		existing, err := repo.Get(records.ID(c.Params("id")))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "record not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load record")
		}

		var patch records.Patch
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&patch); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
			}
		}

		location, r, err := mergePatch(existing, patch)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := computeRecord(c.UserContext(), computer, location, r)
		if err != nil {
			return err
		}
		rec.ID = existing.ID

		updated, err := repo.Replace(rec)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "record not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to update record")
		}

		return c.JSON(fiber.Map{
			"ok":   true,
			"data": updated,
		})
	})

	api.Delete("/records/:id", func(c *fiber.Ctx) error {
		if err := repo.Delete(records.ID(c.Params("id"))); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "record not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to delete record")
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	api.Get("/export", func(c *fiber.Ctx) error {
		payload, err := formats.Encode(formats.Resolve(c.Query("format")), repo.List(false))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to export records")
		}

		c.Attachment(payload.Filename())
		c.Set(fiber.HeaderContentType, payload.MIMEType)
		return c.Send(payload.Data)
	})
}

// createRequest is the POST /api/records body.
type createRequest struct {
	Location  string `json:"location" validate:"required"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// bind reads the JSON body; a missing or malformed body binds as empty.
func (r *createRequest) bind(c *fiber.Ctx) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(r); err != nil {
			*r = createRequest{}
		}
	}
	r.Location = strings.TrimSpace(r.Location)
}

// mergePatch resolves the location query and date range for an update.
// Absent or blank fields keep the stored value.
func mergePatch(existing records.Record, p records.Patch) (string, weather.DateRange, error) {
	location := existing.Location
	if p.Location != nil && strings.TrimSpace(*p.Location) != "" {
		location = strings.TrimSpace(*p.Location)
	}

	start, end := existing.StartDate, existing.EndDate
	if p.StartDate != nil && *p.StartDate != "" {
		start = *p.StartDate
	}
	if p.EndDate != nil && *p.EndDate != "" {
		end = *p.EndDate
	}

	r, err := weather.ParseDateRange(start, end)
	return location, r, err
}

func computeRecord(ctx context.Context, computer Computer, location string, r weather.DateRange) (records.Record, error) {
	obs, err := computer.Compute(ctx, location, r)
	if err != nil {
		switch {
		case errors.Is(err, weather.ErrLocationNotFound):
			return records.Record{}, fiber.NewError(fiber.StatusBadRequest, weather.ErrLocationNotFound.Error())
		case errors.Is(err, weather.ErrNoWeatherData):
			return records.Record{}, fiber.NewError(fiber.StatusBadRequest, weather.ErrNoWeatherData.Error())
		default:
			return records.Record{}, fiber.NewError(fiber.StatusInternalServerError, "failed to compute weather")
		}
	}

	return records.Record{
		Location:        obs.Place.Label(),
		StartDate:       r.Start.Format(weather.DateLayout),
		EndDate:         r.End.Format(weather.DateLayout),
		AvgTemperatureC: obs.AvgTemperatureC,
		Description:     obs.Description,
		Latitude:        obs.Place.Latitude,
		Longitude:       obs.Place.Longitude,
	}, nil
}
