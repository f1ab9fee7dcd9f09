package records

import (
	"context"
	"errors"
	"sync"
)

// Mode is the inline-edit state of one record.
type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

var (
	ErrNotEditing     = errors.New("record is not being edited")
	ErrAlreadyEditing = errors.New("record is already being edited")
)

// Session is the edit state of a single record. Draft is only set while
// Mode is Editing.
type Session struct {
	ID    ID
	Mode  Mode
	Draft Draft
}

// Sessions keeps one edit session per record, keyed by id. A record with
// no entry is Viewing; an entry holds the Editing draft. Sessions of
// records that leave the store's list are dropped.
type Sessions struct {
	store              *Store
	keepDraftOnFailure bool

	mu      sync.Mutex
	drafts  map[ID]Draft
	version uint64
	stop    func()
}

// SessionOption configures Sessions.
type SessionOption func(*Sessions)

// KeepDraftOnFailure controls what a failed save does. When true the
// session returns to Editing with the unsaved draft; when false the draft
// is discarded and the user must begin editing again.
func KeepDraftOnFailure(keep bool) SessionOption {
	return func(s *Sessions) {
		s.keepDraftOnFailure = keep
	}
}

// NewSessions creates the edit sessions for store's records.
func NewSessions(store *Store, opts ...SessionOption) *Sessions {
	s := &Sessions{
		store:              store,
		keepDraftOnFailure: true,
		drafts:             make(map[ID]Draft),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stop = store.Subscribe(s.prune)
	return s
}

// Close detaches the sessions from the store.
func (s *Sessions) Close() {
	if s.stop != nil {
		s.stop()
	}
}

// Session returns the current session for id.
func (s *Sessions) Session(id ID) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.drafts[id]; ok {
		return Session{ID: id, Mode: Editing, Draft: d}
	}
	return Session{ID: id, Mode: Viewing}
}

// Editing returns the number of records currently in Editing.
func (s *Sessions) Editing() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Begin moves rec from Viewing to Editing with a fresh draft of its fields.
func (s *Sessions) Begin(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[rec.ID]; ok {
		return ErrAlreadyEditing
	}
	s.drafts[rec.ID] = DraftOf(rec)
	return nil
}

// SetDraft replaces the draft of a record being edited.
func (s *Sessions) SetDraft(id ID, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return ErrNotEditing
	}
	s.drafts[id] = d
	return nil
}

// Cancel discards the draft and returns to Viewing.
func (s *Sessions) Cancel(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return ErrNotEditing
	}
	delete(s.drafts, id)
	return nil
}

// Save returns the session to Viewing and sends the draft through the
// store's Update. The session leaves Editing before the update resolves.
func (s *Sessions) Save(ctx context.Context, id ID) error {
	s.mu.Lock()
	d, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotEditing
	}
	delete(s.drafts, id)
	s.mu.Unlock()

	_, err := s.store.Update(ctx, id, d.Patch())
	if err == nil || !s.keepDraftOnFailure {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Only restore when the user has not started a new edit and the
	// record is still listed.
	if _, editing := s.drafts[id]; !editing && s.store.Contains(id) {
		s.drafts[id] = d
	}
	return err
}

func (s *Sessions) prune(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.Version < s.version {
		return
	}
	s.version = st.Version

	if len(s.drafts) == 0 {
		return
	}
	live := make(map[ID]struct{}, len(st.Records))
	for _, r := range st.Records {
		live[r.ID] = struct{}{}
	}
	for id := range s.drafts {
		if _, ok := live[id]; !ok {
			delete(s.drafts, id)
		}
	}
}
