package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a record. It is assigned by the remote store and opaque to
// the client; numeric ids round-trip as JSON numbers.
type ID string

func (id ID) String() string {
	return string(id)
}

// MarshalJSON encodes numeric ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if isDigits(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func isDigits(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Record is one weather observation as last confirmed by the remote store.
// Everything except Location and the dates is computed server-side.
type Record struct {
	ID              ID      `json:"id"`
	Location        string  `json:"location"`
	StartDate       string  `json:"start_date"` // YYYY-MM-DD
	EndDate         string  `json:"end_date"`   // YYYY-MM-DD
	AvgTemperatureC float64 `json:"avg_temperature_c"`
	Description     string  `json:"description"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// MapURL links to the record's coordinates on Google Maps.
func (r Record) MapURL() string {
	return "https://www.google.com/maps?q=" +
		strconv.FormatFloat(r.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(r.Longitude, 'f', -1, 64)
}

// Draft holds the user-editable fields of a record.
type Draft struct {
	Location  string `json:"location" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// DraftOf copies the editable fields of rec.
func DraftOf(rec Record) Draft {
	return Draft{
		Location:  rec.Location,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
	}
}

// Patch returns a patch that sets all three editable fields.
func (d Draft) Patch() Patch {
	location, start, end := d.Location, d.StartDate, d.EndDate
	return Patch{
		Location:  &location,
		StartDate: &start,
		EndDate:   &end,
	}
}

// Patch is a partial update; nil fields are left to the remote store.
type Patch struct {
	Location  *string `json:"location,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Location == nil && p.StartDate == nil && p.EndDate == nil
}
