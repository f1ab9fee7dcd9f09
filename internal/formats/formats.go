// Package formats renders weather records as downloadable export files.
package formats

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/i474232898/weather-records/internal/records"
)

// Format names an export encoding.
type Format string

const (
	CSV      Format = "csv"
	JSON     Format = "json"
	Markdown Format = "md"
)

// Resolve maps a query value to a format. Unknown values fall back to CSV.
func Resolve(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON
	case "md", "markdown":
		return Markdown
	default:
		return CSV
	}
}

// Payload is an encoded export.
type Payload struct {
	Data     []byte
	MIMEType string
	Ext      string
}

// Filename is the attachment name for the payload.
func (p Payload) Filename() string {
	return "weather_export." + p.Ext
}

var columns = []string{
	"id", "location", "start_date", "end_date", "avg_temperature_c",
	"description", "latitude", "longitude", "created_at", "updated_at",
}

func row(r records.Record) []string {
	return []string{
		r.ID.String(),
		r.Location,
		r.StartDate,
		r.EndDate,
		formatFloat(r.AvgTemperatureC),
		r.Description,
		formatFloat(r.Latitude),
		formatFloat(r.Longitude),
		r.CreatedAt,
		r.UpdatedAt,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Encode renders recs in format f.
func Encode(f Format, recs []records.Record) (Payload, error) {
	switch f {
	case JSON:
		return encodeJSON(recs)
	case Markdown:
		return encodeMarkdown(recs), nil
	default:
		return encodeCSV(recs)
	}
}

func encodeCSV(recs []records.Record) (Payload, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return Payload{}, err
	}
	for _, r := range recs {
		if err := w.Write(row(r)); err != nil {
			return Payload{}, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Payload{}, err
	}
	return Payload{Data: buf.Bytes(), MIMEType: "text/csv", Ext: "csv"}, nil
}

func encodeJSON(recs []records.Record) (Payload, error) {
	if recs == nil {
		recs = []records.Record{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return Payload{}, err
	}
	return Payload{Data: data, MIMEType: "application/json", Ext: "json"}, nil
}

func encodeMarkdown(recs []records.Record) Payload {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(escapeCell(c))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(columns)
	sep := make([]string, len(columns))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, r := range recs {
		writeRow(row(r))
	}
	return Payload{Data: []byte(b.String()), MIMEType: "text/markdown", Ext: "md"}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
