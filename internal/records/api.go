package records

import (
	"context"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-records/internal/transport"
)

const recordsPath = "/api/records"

// Sender is the transport used by API. *transport.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, method, path string, body, out any) error
}

// API implements Remote over the records REST endpoints.
type API struct {
	sender Sender
}

// NewAPI creates an API that issues requests through sender.
func NewAPI(sender Sender) *API {
	return &API{sender: sender}
}

func errMissingData() error {
	return &transport.RequestError{Message: "response missing data"}
}

func recordPath(id ID) string {
	return recordsPath + "/" + url.PathEscape(id.String())
}

func (a *API) List(ctx context.Context) ([]Record, error) {
	var env struct {
		Data []Record `json:"data"`
	}
	if err := a.sender.Send(ctx, http.MethodGet, recordsPath, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, errMissingData()
	}
	return env.Data, nil
}

func (a *API) Create(ctx context.Context, draft Draft) (Record, error) {
	return a.sendRecord(ctx, http.MethodPost, recordsPath, draft)
}

func (a *API) Update(ctx context.Context, id ID, patch Patch) (Record, error) {
	return a.sendRecord(ctx, http.MethodPut, recordPath(id), patch)
}

func (a *API) Delete(ctx context.Context, id ID) error {
	return a.sender.Send(ctx, http.MethodDelete, recordPath(id), nil, nil)
}

func (a *API) sendRecord(ctx context.Context, method, path string, body any) (Record, error) {
	var env struct {
		Data *Record `json:"data"`
	}
	if err := a.sender.Send(ctx, method, path, body, &env); err != nil {
		return Record{}, err
	}
	if env.Data == nil {
		return Record{}, errMissingData()
	}
	return *env.Data, nil
}
