package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-records/internal/form"
	"github.com/i474232898/weather-records/internal/records"
)

type memRemote struct {
	mu      sync.Mutex
	records []records.Record
	patches []records.Patch
	failing error
}

func (r *memRemote) List(context.Context) ([]records.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]records.Record{}, r.records...), nil
}

func (r *memRemote) Create(context.Context, records.Draft) (records.Record, error) {
	return records.Record{}, errors.New("not used")
}

func (r *memRemote) Update(_ context.Context, id records.ID, p records.Patch) (records.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches = append(r.patches, p)
	if r.failing != nil {
		return records.Record{}, r.failing
	}
	for i, rec := range r.records {
		if rec.ID == id {
			rec.Location = *p.Location
			r.records[i] = rec
			return rec, nil
		}
	}
	return records.Record{}, errors.New("Record not found")
}

func (r *memRemote) Delete(_ context.Context, id records.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return errors.New("Record not found")
}

type recordingBrowser struct{ opened []string }

func (b *recordingBrowser) Navigate(_ context.Context, target string) error {
	b.opened = append(b.opened, target)
	return nil
}

type recordingExporter struct{ formats []string }

func (e *recordingExporter) Export(_ context.Context, format string) (string, error) {
	e.formats = append(e.formats, format)
	return "http://example.test/api/export?format=" + format, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers k without running the returned command (cursor blinks).
func send(m *Model, k string) {
	m.Update(key(k))
}

// press sends k and runs the returned command synchronously, feeding its
// message and the resulting store state back into the model.
func press(m *Model, k string) {
	_, cmd := m.Update(key(k))
	run(m, cmd)
}

func run(m *Model, cmd tea.Cmd) {
	if cmd != nil {
		if msg := cmd(); msg != nil {
			m.Update(msg)
		}
	}
	m.Update(stateMsg(m.deps.Store.State()))
}

func newTestModel(t *testing.T) (*Model, *memRemote, *recordingExporter) {
	t.Helper()
	remote := &memRemote{records: []records.Record{
		{ID: "1", Location: "Paris, FR", StartDate: "2024-01-01", EndDate: "2024-01-03", AvgTemperatureC: 4.5},
		{ID: "2", Location: "Berlin, DE", StartDate: "2024-02-01", EndDate: "2024-02-02", AvgTemperatureC: -1, Latitude: 52.52, Longitude: 13.405},
	}}
	store := records.NewStore(remote)
	sessions := records.NewSessions(store)
	t.Cleanup(sessions.Close)
	exp := &recordingExporter{}

	m := New(Deps{Store: store, Sessions: sessions, Form: form.New(store), Exporter: exp, Browser: &recordingBrowser{}})
	run(m, m.Init())
	return m, remote, exp
}

func TestInitListsRecords(t *testing.T) {
	m, _, _ := newTestModel(t)

	require.Len(t, m.state.Records, 2)
	assert.Contains(t, m.View(), "Paris, FR")
	assert.Contains(t, m.View(), "Berlin, DE")
}

func TestEditThenCancel(t *testing.T) {
	m, remote, _ := newTestModel(t)

	send(m, "e")
	require.Equal(t, editView, m.view)
	assert.Equal(t, records.Editing, m.deps.Sessions.Session("1").Mode)
	assert.Equal(t, "Paris, FR", m.inputs[0].Value())

	send(m, "esc")
	assert.Equal(t, listView, m.view)
	assert.Empty(t, remote.patches)
}

func TestEditSaveSendsDraft(t *testing.T) {
	m, remote, _ := newTestModel(t)

	send(m, "j")
	send(m, "e")
	send(m, "!")
	press(m, "enter")

	assert.Equal(t, listView, m.view)
	require.Len(t, remote.patches, 1)
	assert.Equal(t, "Berlin, DE!", *remote.patches[0].Location)
	assert.Equal(t, "Berlin, DE!", m.state.Records[1].Location)
	assert.Equal(t, records.NoticeStatus("Record updated."), m.state.Status)
}

func TestSaveLeavesEditorBeforeUpdateResolves(t *testing.T) {
	m, remote, _ := newTestModel(t)

	send(m, "e")
	send(m, "enter")

	assert.Equal(t, listView, m.view)
	assert.Empty(t, remote.patches)
}

func TestFailedSaveReopensEditorWithDraft(t *testing.T) {
	m, remote, _ := newTestModel(t)
	remote.failing = errors.New("HTTP 503")

	send(m, "e")
	send(m, "!")
	press(m, "enter")

	require.Equal(t, editView, m.view)
	assert.Equal(t, records.ID("1"), m.editing)
	assert.Equal(t, "Paris, FR!", m.inputs[0].Value())
	assert.Equal(t, records.ErrorStatus("HTTP 503"), m.state.Status)
	assert.Equal(t, "Paris, FR", m.state.Records[0].Location)
}

func TestDeleteSelected(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(m, "d")

	require.Len(t, m.state.Records, 1)
	assert.Equal(t, records.ID("2"), m.state.Records[0].ID)
	assert.Equal(t, 0, m.cursor)
}

func TestSubmitEmptyFormStaysOpen(t *testing.T) {
	m, _, _ := newTestModel(t)

	send(m, "n")
	require.Equal(t, formView, m.view)
	press(m, "enter")

	assert.Equal(t, formView, m.view)
	assert.Equal(t, records.ErrorStatus(form.MsgMissingFields), m.state.Status)
	assert.Contains(t, m.View(), form.MsgMissingFields)
}

func TestExportUsesSelectedFormat(t *testing.T) {
	m, _, exp := newTestModel(t)

	press(m, "x")
	send(m, "f")
	press(m, "x")

	assert.Equal(t, []string{"csv", "json"}, exp.formats)
	assert.Contains(t, m.note, "format=json")
}

func TestMapOpensSelectedCoordinates(t *testing.T) {
	m, _, _ := newTestModel(t)

	send(m, "j")
	_, cmd := m.Update(key("m"))
	require.NotNil(t, cmd)
	m.Update(cmd())

	browser := m.deps.Browser.(*recordingBrowser)
	assert.Equal(t, []string{"https://www.google.com/maps?q=52.52,13.405"}, browser.opened)
	assert.Contains(t, m.note, "Map opened")
}
