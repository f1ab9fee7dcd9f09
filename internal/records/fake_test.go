package records

import (
	"context"
	"fmt"
	"sync"

	"github.com/i474232898/weather-records/internal/transport"
)

// fakeRemote is an in-memory Remote that can be told to fail.
type fakeRemote struct {
	mu      sync.Mutex
	records []Record
	nextID  int
	err     error
	calls   int
	patches []Patch
}

func newFakeRemote(recs ...Record) *fakeRemote {
	return &fakeRemote{records: recs, nextID: 100}
}

func (f *fakeRemote) fail(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = &transport.RequestError{Message: msg}
}

func (f *fakeRemote) List(ctx context.Context) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]Record{}, f.records...), nil
}

func (f *fakeRemote) Create(ctx context.Context, d Draft) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return Record{}, f.err
	}
	f.nextID++
	rec := Record{
		ID:              ID(fmt.Sprint(f.nextID)),
		Location:        d.Location + ", XX",
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		AvgTemperatureC: 10,
		Description:     "avg of daily means over 1 day(s)",
	}
	f.records = append([]Record{rec}, f.records...)
	return rec, nil
}

func (f *fakeRemote) Update(ctx context.Context, id ID, p Patch) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.patches = append(f.patches, p)
	if f.err != nil {
		return Record{}, f.err
	}
	for i, r := range f.records {
		if r.ID != id {
			continue
		}
		if p.Location != nil {
			r.Location = *p.Location
		}
		if p.StartDate != nil {
			r.StartDate = *p.StartDate
		}
		if p.EndDate != nil {
			r.EndDate = *p.EndDate
		}
		r.Description = "recomputed"
		f.records[i] = r
		return r, nil
	}
	return Record{}, &transport.RequestError{Message: "record not found", Status: 404}
}

func (f *fakeRemote) Delete(ctx context.Context, id ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return &transport.RequestError{Message: "record not found", Status: 404}
}

func paris() Record {
	return Record{
		ID:              "1",
		Location:        "Paris",
		StartDate:       "2024-01-01",
		EndDate:         "2024-01-05",
		AvgTemperatureC: 5.2,
		Description:     "Cold",
		Latitude:        48.85,
		Longitude:       2.35,
	}
}

func berlin() Record {
	return Record{
		ID:              "2",
		Location:        "Berlin",
		StartDate:       "2024-02-01",
		EndDate:         "2024-02-03",
		AvgTemperatureC: 1.5,
		Description:     "Chilly",
		Latitude:        52.52,
		Longitude:       13.40,
	}
}
