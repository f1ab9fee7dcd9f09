package records

import (
	"context"
	"sync"
)

// Remote is the remote record store as seen by Store.
type Remote interface {
	List(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, draft Draft) (Record, error)
	Update(ctx context.Context, id ID, patch Patch) (Record, error)
	Delete(ctx context.Context, id ID) error
}

// Store owns the ordered record list and the application status. Local
// state changes only after the remote store confirms an operation; every
// operation first clears the status.
//
// Operations may run concurrently. Each outcome is applied atomically and
// the last one to complete decides the final status.
type Store struct {
	remote Remote

	mu    sync.RWMutex
	state State

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// NewStore creates an empty Store backed by remote.
func NewStore(remote Remote) *Store {
	return &Store{
		remote: remote,
		subs:   make(map[int]func(State)),
	}
}

// State returns the current snapshot. Callers must not modify its slice.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Records returns a copy of the current list.
func (s *Store) Records() []Record {
	st := s.State()
	return append([]Record(nil), st.Records...)
}

// Status returns the current application status.
func (s *Store) Status() Status {
	return s.State().Status
}

// Contains reports whether a record with id is in the list.
func (s *Store) Contains(id ID) bool {
	_, ok := s.State().Find(id)
	return ok
}

// Subscribe registers fn to receive every new snapshot. fn runs on the
// goroutine that completed the operation; snapshots from concurrent
// operations may arrive out of order, so compare State.Version.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) dispatch(e Event) State {
	s.mu.Lock()
	s.state = Reduce(s.state, e)
	st := s.state
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return st
}

// List replaces the local list with the remote store's list.
func (s *Store) List(ctx context.Context) error {
	s.dispatch(Started{})

	recs, err := s.remote.List(ctx)
	if err != nil {
		s.dispatch(Failed{Err: err})
		return err
	}

	s.dispatch(Listed{Records: recs})
	return nil
}

// Create sends draft to the remote store and prepends the returned record.
func (s *Store) Create(ctx context.Context, draft Draft) (Record, error) {
	s.dispatch(Started{})

	rec, err := s.remote.Create(ctx, draft)
	if err != nil {
		s.dispatch(Failed{Err: err})
		return Record{}, err
	}

	s.dispatch(Created{Record: rec})
	return rec, nil
}

// Update sends patch for id and replaces the local element with the full
// record returned by the remote store.
func (s *Store) Update(ctx context.Context, id ID, patch Patch) (Record, error) {
	s.dispatch(Started{})

	rec, err := s.remote.Update(ctx, id, patch)
	if err != nil {
		s.dispatch(Failed{Err: err})
		return Record{}, err
	}

	s.dispatch(Updated{ID: id, Record: rec})
	return rec, nil
}

// Delete removes id remotely, then locally.
func (s *Store) Delete(ctx context.Context, id ID) error {
	s.dispatch(Started{})

	if err := s.remote.Delete(ctx, id); err != nil {
		s.dispatch(Failed{Err: err})
		return err
	}

	s.dispatch(Deleted{ID: id})
	return nil
}

// Reject sets an error status for input that never reached the remote store.
func (s *Store) Reject(msg string) {
	s.dispatch(Started{})
	s.dispatch(Rejected{Message: msg})
}
