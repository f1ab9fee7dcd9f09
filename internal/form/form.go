package form

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-records/internal/records"
)

// MsgMissingFields is the status set when a required field is empty.
const MsgMissingFields = "Please fill location and both dates."

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError is returned by Submit when required input is missing.
// It never reaches the transport.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return MsgMissingFields
}

// Creator is the part of records.Store the controller needs.
type Creator interface {
	Create(ctx context.Context, draft records.Draft) (records.Record, error)
	Reject(msg string)
}

// Controller holds the input of a record that has not been created yet.
type Controller struct {
	store Creator

	mu    sync.Mutex
	draft records.Draft
}

// New creates a Controller with an empty draft.
func New(store Creator) *Controller {
	return &Controller{store: store}
}

// Draft returns the current input.
func (c *Controller) Draft() records.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Set replaces the current input.
func (c *Controller) Set(d records.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

func (c *Controller) SetLocation(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Location = v
}

func (c *Controller) SetStartDate(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.StartDate = v
}

func (c *Controller) SetEndDate(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.EndDate = v
}

// Reset clears the input.
func (c *Controller) Reset() {
	c.Set(records.Draft{})
}

// Submit validates the input and creates the record. The input is reset
// only when the remote store accepts it.
func (c *Controller) Submit(ctx context.Context) (records.Record, error) {
	d := c.Draft()

	if err := Validate(d); err != nil {
		c.store.Reject(err.Error())
		return records.Record{}, err
	}

	rec, err := c.store.Create(ctx, d)
	if err != nil {
		return records.Record{}, err
	}

	c.Reset()
	return rec, nil
}

// Validate checks that location and both dates are present. Dates are not
// parsed; the remote store decides whether they are well formed.
func Validate(d records.Draft) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}
