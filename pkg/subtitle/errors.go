package subtitle

import (
	"fmt"
	"strings"
)

// ErrorKind categorises codec failures.
type ErrorKind string

const (
	KindUnsupportedFormat   ErrorKind = "unsupported format"
	KindInvalidFile         ErrorKind = "invalid file"
	KindUnexpectedEOF       ErrorKind = "unexpected end of file"
	KindInvalidEncoding     ErrorKind = "invalid encoding"
	KindInvalidPosition     ErrorKind = "invalid position"
	KindInvalidTime         ErrorKind = "invalid time"
	KindStartAfterEnd       ErrorKind = "start time after end time"
	KindMissingText         ErrorKind = "missing text"
	KindUnexpectedEndOfCue  ErrorKind = "unexpected end of cue"
	KindEncodingUnsupported ErrorKind = "coder does not support encoding"
	KindTimeTooLarge        ErrorKind = "time too large to export"
)

// sentinels for errors.Is; they match any *Error of the same kind
var (
	ErrUnsupportedFormat   = &Error{Kind: KindUnsupportedFormat}
	ErrInvalidFile         = &Error{Kind: KindInvalidFile}
	ErrUnexpectedEOF       = &Error{Kind: KindUnexpectedEOF}
	ErrInvalidEncoding     = &Error{Kind: KindInvalidEncoding}
	ErrInvalidPosition     = &Error{Kind: KindInvalidPosition}
	ErrInvalidTime         = &Error{Kind: KindInvalidTime}
	ErrStartAfterEnd       = &Error{Kind: KindStartAfterEnd}
	ErrMissingText         = &Error{Kind: KindMissingText}
	ErrUnexpectedEndOfCue  = &Error{Kind: KindUnexpectedEndOfCue}
	ErrEncodingUnsupported = &Error{Kind: KindEncodingUnsupported}
	ErrTimeTooLarge        = &Error{Kind: KindTimeTooLarge}
)

// Error is returned by every decode and encode operation.
//
// Line is the 1-based source line (or CSV row) the failure was detected on,
// Index the 0-based cue index for encode-side failures. Either is zero/-1 when
// not applicable.
type Error struct {
	Kind    ErrorKind
	Format  string
	Line    int
	Index   int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("subtitle: ")
	if e.Format != "" {
		sb.WriteString(e.Format)
		sb.WriteString(": ")
	}
	sb.WriteString(string(e.Kind))
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}
	if e.Index >= 0 && (e.Kind == KindMissingText || e.Kind == KindTimeTooLarge || e.Kind == KindInvalidTime) {
		fmt.Fprintf(&sb, " for cue %d", e.Index)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, " (caused by: %v)", e.Cause)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) withFormat(format string) *Error {
	if e.Format == "" {
		e.Format = format
	}
	return e
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause, Index: -1}
}

func errAtLine(kind ErrorKind, line int, message string) *Error {
	return &Error{Kind: kind, Line: line, Message: message, Index: -1}
}

func errAtIndex(kind ErrorKind, index int) *Error {
	return &Error{Kind: kind, Index: index}
}

// checkNonNegative rejects cues whose start or end lies before zero; no
// text format can represent them.
func checkNonNegative(subs Subtitles) error {
	for i, c := range subs.cues {
		if c.StartTime.IsNegative() || c.EndTime.IsNegative() {
			e := errAtIndex(KindInvalidTime, i)
			e.Message = "negative time"
			return e
		}
	}
	return nil
}

func errUnsupportedFormat(ext string) *Error {
	return &Error{
		Kind:    KindUnsupportedFormat,
		Format:  ext,
		Message: fmt.Sprintf("no coder registered for %q", ext),
		Index:   -1,
	}
}
