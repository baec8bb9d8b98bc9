package match

import (
	"errors"
	"fmt"
)

// Kind classifies the recoverable rejections an operation can produce.
// All of them go back to the originating connection only.
type Kind int

const (
	// KindValidation marks a malformed or nonsensical event payload.
	KindValidation Kind = iota
	// KindState marks an operation invalid for the session's status.
	KindState
	// KindTurn marks a move by the participant not holding the turn.
	KindTurn
	// KindRule marks a move the rule engine rejected.
	KindRule
	// KindNotFound marks an unknown session id or participant.
	KindNotFound
	// KindCapacity marks a full session or a double-booked connection.
	KindCapacity
)

var kindNames = map[Kind]string{
	KindValidation: "validation",
	KindState:      "state",
	KindTurn:       "turn",
	KindRule:       "rule",
	KindNotFound:   "not_found",
	KindCapacity:   "capacity",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is a kind-coded rejection with a human reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Reason }

func errf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Reason: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from an error produced by this package;
// anything else is reported as a validation failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindValidation
}
