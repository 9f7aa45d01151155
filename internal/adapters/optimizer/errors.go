package optimizer

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds. Match them with errors.Is.
var (
	ErrTransport = errors.New("optimizer: transport failure")
	ErrContract  = errors.New("optimizer: contract violation")
)

// Attempt records one failed request to a candidate target.
type Attempt struct {
	Target string
	Err    error
}

// Error describes a failed backend call.
type Error struct {
	Kind     error
	Op       string
	Target   string
	Status   int
	Message  string
	Attempts []Attempt
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Target != "" {
		fmt.Fprintf(&b, " (%s)", e.Target)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s: %v", a.Target, a.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	out := []error{e.Kind}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func transportErr(op, target string, err error) *Error {
	return &Error{Kind: ErrTransport, Op: op, Target: target, Err: err}
}

func contractErr(op, target, msg string) *Error {
	return &Error{Kind: ErrContract, Op: op, Target: target, Message: msg}
}
