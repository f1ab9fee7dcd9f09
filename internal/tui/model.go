package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/i474232898/weather-records/internal/form"
	"github.com/i474232898/weather-records/internal/records"
)

// Exporter starts an export of all records.
type Exporter interface {
	Export(ctx context.Context, format string) (string, error)
}

// Deps are the client-side components the TUI drives.
type Deps struct {
	Store    *records.Store
	Sessions *records.Sessions
	Form     *form.Controller
	Exporter Exporter
	// Browser opens a record's map link; nil disables the key.
	Browser Opener
}

// Opener opens a URL outside the terminal.
type Opener interface {
	Navigate(ctx context.Context, target string) error
}

type view int

const (
	listView view = iota
	formView
	editView
)

var exportFormats = []string{"csv", "json", "md"}

// stateMsg carries a store state published to subscribers.
type stateMsg records.State

type submittedMsg struct{ err error }

type savedMsg struct {
	id  records.ID
	err error
}

// openedMsg reports a URL handed to the browser or exporter.
type openedMsg struct {
	what   string
	target string
	err    error
}

// Notify returns a store subscriber that forwards every state to p.
func Notify(p *tea.Program) func(records.State) {
	return func(s records.State) {
		p.Send(stateMsg(s))
	}
}

// Model is the bubbletea model for browsing and editing records.
type Model struct {
	deps Deps
	ctx  context.Context

	state  records.State
	view   view
	cursor int

	inputs     []textinput.Model
	focusIndex int
	editing    records.ID

	format     int
	note string
}

// New creates the model. The record list is fetched on Init.
func New(deps Deps) *Model {
	m := &Model{
		deps:   deps,
		ctx:    context.Background(),
		state:  deps.Store.State(),
		inputs: make([]textinput.Model, 3),
	}
	for i := range m.inputs {
		t := textinput.New()
		t.Cursor.Style = focusedStyle
		t.CharLimit = 128
		switch i {
		case 0:
			t.Placeholder = "Location (city, zip, landmark)"
		case 1:
			t.Placeholder = "Start date (YYYY-MM-DD)"
			t.CharLimit = 10
		case 2:
			t.Placeholder = "End date (YYYY-MM-DD)"
			t.CharLimit = 10
		}
		m.inputs[i] = t
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.refresh
}

func (m *Model) refresh() tea.Msg {
	_ = m.deps.Store.List(m.ctx)
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		return m, m.applyState(records.State(msg))
	case submittedMsg:
		if msg.err == nil {
			m.view = listView
			m.blurInputs()
		}
		return m, nil
	case savedMsg:
		return m, m.afterSave(msg)
	case openedMsg:
		if msg.err != nil {
			m.note = fmt.Sprintf("%s failed: %v", msg.what, msg.err)
		} else {
			m.note = msg.what + " opened: " + msg.target
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view == listView {
			return m, m.updateList(msg)
		}
		return m, m.updateInputForm(msg)
	}

	return m, m.updateInputs(msg)
}

// applyState keeps the view consistent with the latest store state.
func (m *Model) applyState(s records.State) tea.Cmd {
	if s.Version < m.state.Version {
		return nil
	}
	m.state = s
	if m.cursor >= len(s.Records) {
		m.cursor = max(len(s.Records)-1, 0)
	}
	if m.view == editView && m.deps.Sessions.Session(m.editing).Mode != records.Editing {
		// The record went away while it was being edited.
		if _, ok := s.Find(m.editing); !ok {
			m.view = listView
			m.blurInputs()
		}
	}
	return nil
}

func (m *Model) selected() (records.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Records) {
		return records.Record{}, false
	}
	return m.state.Records[m.cursor], true
}

func (m *Model) updateList(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		return tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Records)-1 {
			m.cursor++
		}
	case "r":
		return m.refresh
	case "n":
		m.view = formView
		m.fillInputs(m.deps.Form.Draft())
		return m.focus(0)
	case "e", "enter":
		rec, ok := m.selected()
		if !ok {
			return nil
		}
		if err := m.deps.Sessions.Begin(rec); err != nil && !errors.Is(err, records.ErrAlreadyEditing) {
			return nil
		}
		m.editing = rec.ID
		m.view = editView
		m.fillInputs(m.deps.Sessions.Session(rec.ID).Draft)
		return m.focus(0)
	case "d":
		rec, ok := m.selected()
		if !ok {
			return nil
		}
		store, id := m.deps.Store, rec.ID
		return func() tea.Msg {
			_ = store.Delete(m.ctx, id)
			return nil
		}
	case "f":
		m.format = (m.format + 1) % len(exportFormats)
	case "x":
		format, exp := exportFormats[m.format], m.deps.Exporter
		if exp == nil {
			return nil
		}
		return func() tea.Msg {
			target, err := exp.Export(m.ctx, format)
			return openedMsg{what: "Export", target: target, err: err}
		}
	case "m":
		rec, ok := m.selected()
		if !ok || m.deps.Browser == nil {
			return nil
		}
		browser, target := m.deps.Browser, rec.MapURL()
		return func() tea.Msg {
			return openedMsg{what: "Map", target: target, err: browser.Navigate(m.ctx, target)}
		}
	}
	return nil
}

func (m *Model) updateInputForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		if m.view == editView {
			_ = m.deps.Sessions.Cancel(m.editing)
		}
		m.view = listView
		m.blurInputs()
		return nil
	case "enter":
		return m.submit()
	case "tab", "down":
		return m.focus((m.focusIndex + 1) % len(m.inputs))
	case "shift+tab", "up":
		return m.focus((m.focusIndex + len(m.inputs) - 1) % len(m.inputs))
	}

	cmd := m.updateInputs(msg)
	m.syncDraft()
	return cmd
}

func (m *Model) submit() tea.Cmd {
	m.syncDraft()
	switch m.view {
	case formView:
		f := m.deps.Form
		return func() tea.Msg {
			_, err := f.Submit(m.ctx)
			return submittedMsg{err: err}
		}
	case editView:
		// The session leaves Editing as soon as the save is dispatched.
		sessions, id := m.deps.Sessions, m.editing
		m.view = listView
		m.blurInputs()
		return func() tea.Msg {
			return savedMsg{id: id, err: sessions.Save(m.ctx, id)}
		}
	}
	return nil
}

// afterSave reopens the editor when a failed save restored the draft and
// the user is back on the list.
func (m *Model) afterSave(msg savedMsg) tea.Cmd {
	if m.view != listView {
		return nil
	}
	sess := m.deps.Sessions.Session(msg.id)
	if sess.Mode != records.Editing {
		return nil
	}
	m.editing = msg.id
	m.view = editView
	m.fillInputs(sess.Draft)
	return m.focus(0)
}

func (m *Model) draft() records.Draft {
	return records.Draft{
		Location:  m.inputs[0].Value(),
		StartDate: m.inputs[1].Value(),
		EndDate:   m.inputs[2].Value(),
	}
}

// syncDraft copies the inputs into the form or the edit session.
func (m *Model) syncDraft() {
	switch m.view {
	case formView:
		m.deps.Form.Set(m.draft())
	case editView:
		_ = m.deps.Sessions.SetDraft(m.editing, m.draft())
	}
}

func (m *Model) fillInputs(d records.Draft) {
	m.inputs[0].SetValue(d.Location)
	m.inputs[1].SetValue(d.StartDate)
	m.inputs[2].SetValue(d.EndDate)
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
}

func (m *Model) focus(i int) tea.Cmd {
	m.focusIndex = i
	cmds := make([]tea.Cmd, len(m.inputs))
	for j := range m.inputs {
		if j == i {
			cmds[j] = m.inputs[j].Focus()
			m.inputs[j].PromptStyle = focusedStyle
			m.inputs[j].TextStyle = focusedStyle
			continue
		}
		m.inputs[j].Blur()
		m.inputs[j].PromptStyle = noStyle
		m.inputs[j].TextStyle = noStyle
	}
	return tea.Batch(cmds...)
}

func (m *Model) blurInputs() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Weather Records") + "\n\n")

	switch m.view {
	case formView:
		b.WriteString(blurredStyle.Render("New record") + "\n\n")
		b.WriteString(m.inputsView())
		b.WriteString(helpStyle.Render(" tab: next field • enter: add • esc: back"))
	case editView:
		b.WriteString(blurredStyle.Render("Editing record "+m.editing.String()) + "\n\n")
		b.WriteString(m.inputsView())
		b.WriteString(helpStyle.Render(" tab: next field • enter: save • esc: cancel"))
	default:
		b.WriteString(m.tableView() + "\n")
		if m.note != "" {
			b.WriteString(blurredStyle.Render(m.note) + "\n")
		}
		b.WriteString(helpStyle.Render(fmt.Sprintf(
			" n: new • e: edit • d: delete • m: map • r: refresh • f: format (%s) • x: export • q: quit",
			exportFormats[m.format])))
	}

	b.WriteString("\n\n" + statusView(m.state.Status))
	return b.String()
}

func (m *Model) inputsView() string {
	labels := []string{"Location", "Start date", "End date"}
	var b strings.Builder
	for i, in := range m.inputs {
		fmt.Fprintf(&b, " %s\n %s\n\n", blurredStyle.Render(labels[i]+":"), in.View())
	}
	return b.String()
}

func (m *Model) tableView() string {
	if len(m.state.Records) == 0 {
		return blurredStyle.Render(" No records yet. Press n to add one.")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("ID", "Location", "From", "To", "Avg °C", "Description").
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCellStyle
			case row == m.cursor:
				return selectedCellStyle
			default:
				return cellStyle
			}
		})
	for _, r := range m.state.Records {
		t.Row(
			r.ID.String(),
			r.Location,
			r.StartDate,
			r.EndDate,
			strconv.FormatFloat(r.AvgTemperatureC, 'f', 1, 64),
			r.Description,
		)
	}
	return t.Render()
}

func statusView(s records.Status) string {
	switch s.Kind {
	case records.StatusError:
		return errorStyle.Render("✗ " + s.Message)
	case records.StatusNotice:
		return noticeStyle.Render("✓ " + s.Message)
	}
	return ""
}
