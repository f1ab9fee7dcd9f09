package records

// StatusKind tags the single application-wide message.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusError
	StatusNotice
)

func (k StatusKind) String() string {
	switch k {
	case StatusError:
		return "error"
	case StatusNotice:
		return "notice"
	default:
		return "none"
	}
}

// Status is the current error or notice shown to the user. Every store
// operation overwrites it.
type Status struct {
	Kind    StatusKind
	Message string
}

// ErrorStatus returns an error status carrying msg.
func ErrorStatus(msg string) Status {
	return Status{Kind: StatusError, Message: msg}
}

// NoticeStatus returns a success notice carrying msg.
func NoticeStatus(msg string) Status {
	return Status{Kind: StatusNotice, Message: msg}
}

// IsZero reports whether no message is set.
func (s Status) IsZero() bool {
	return s.Kind == StatusNone
}

func (s Status) IsError() bool {
	return s.Kind == StatusError
}
