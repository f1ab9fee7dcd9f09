package records

import "fmt"

const (
	noticeUpdated = "Record updated."
	noticeDeleted = "Deleted."
)

// State is an immutable view of the store. Version increases with every
// applied event.
type State struct {
	Records []Record
	Status  Status
	Version uint64
}

// Find returns the record with the given id.
func (s State) Find(id ID) (Record, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Event is an operation outcome that Reduce folds into State.
type Event interface {
	apply(State) State
}

// Started clears the status before a remote call.
type Started struct{}

// Listed replaces the whole list with the remote store's order.
type Listed struct{ Records []Record }

// Created prepends the new record.
type Created struct{ Record Record }

// Updated replaces the element with matching ID by Record.
type Updated struct {
	ID     ID
	Record Record
}

// Deleted removes the element with matching ID.
type Deleted struct{ ID ID }

// Failed records a remote failure; the list is untouched.
type Failed struct{ Err error }

// Rejected records a client-side validation failure.
type Rejected struct{ Message string }

// Reduce applies e to s and returns the new state. s is never modified.
func Reduce(s State, e Event) State {
	next := e.apply(s)
	next.Version = s.Version + 1
	return next
}

func (Started) apply(s State) State {
	s.Status = Status{}
	return s
}

func (e Listed) apply(s State) State {
	s.Records = append([]Record(nil), e.Records...)
	return s
}

func (e Created) apply(s State) State {
	list := make([]Record, 0, len(s.Records)+1)
	list = append(list, e.Record)
	s.Records = append(list, s.Records...)
	s.Status = NoticeStatus(fmt.Sprintf("Added: %s", e.Record.Location))
	return s
}

func (e Updated) apply(s State) State {
	list := make([]Record, len(s.Records))
	for i, r := range s.Records {
		if r.ID == e.ID {
			r = e.Record
		}
		list[i] = r
	}
	s.Records = list
	s.Status = NoticeStatus(noticeUpdated)
	return s
}

func (e Deleted) apply(s State) State {
	list := make([]Record, 0, len(s.Records))
	for _, r := range s.Records {
		if r.ID != e.ID {
			list = append(list, r)
		}
	}
	s.Records = list
	s.Status = NoticeStatus(noticeDeleted)
	return s
}

func (e Failed) apply(s State) State {
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	s.Status = ErrorStatus(msg)
	return s
}

func (e Rejected) apply(s State) State {
	s.Status = ErrorStatus(e.Message)
	return s
}
