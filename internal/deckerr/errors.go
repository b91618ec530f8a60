// Package deckerr holds the error kinds produced by the deck code codec.
//
// Every failure of the codec is permanent: malformed input never becomes valid
// on retry, so callers should report the error rather than try again.
package deckerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is a machine-readable error kind.
type Kind string

const (
	// KindAlphabet marks an illegal character in base32 input.
	KindAlphabet Kind = "ALPHABET"
	// KindFormat marks a header format nibble above the supported format, or a
	// card text code that does not have the SSFFIII[:N] shape.
	KindFormat Kind = "FORMAT"
	// KindVersion marks a header version nibble above the highest known faction version.
	KindVersion Kind = "VERSION"
	// KindTruncation marks a varint stream that ends early.
	KindTruncation Kind = "TRUNCATION"
	// KindValidation marks a card with an out of range set or id, or an
	// unknown faction.
	KindValidation Kind = "VALIDATION"
	// KindInvalidDeck marks an encode request containing a card with a non-positive count.
	KindInvalidDeck Kind = "INVALID_DECK"
	// KindDuplicateCard marks an attempt to add a card the deck already holds.
	KindDuplicateCard Kind = "DUPLICATE_CARD"
	// KindSize marks input too large to base32 encode.
	KindSize Kind = "SIZE"
)

// Sentinels for errors.Is comparisons. They match any *Error of the same kind.
var (
	ErrAlphabet      = &Error{Kind: KindAlphabet, Message: "illegal base32 character"}
	ErrFormat        = &Error{Kind: KindFormat, Message: "unsupported deck format"}
	ErrVersion       = &Error{Kind: KindVersion, Message: "unsupported deck version"}
	ErrTruncation    = &Error{Kind: KindTruncation, Message: "truncated varint stream"}
	ErrValidation    = &Error{Kind: KindValidation, Message: "invalid card"}
	ErrInvalidDeck   = &Error{Kind: KindInvalidDeck, Message: "invalid deck"}
	ErrDuplicateCard = &Error{Kind: KindDuplicateCard, Message: "deck already contains this card"}
	ErrSize          = &Error{Kind: KindSize, Message: "value is too long to encode"}
)

// Error is a codec error with structured context.
type Error struct {
	Kind     Kind              // Machine-readable kind
	Message  string            // Human readable message
	Metadata map[string]string // Offending values, e.g. char/position or version/max_version
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Metadata) > 0 {
		keys := make([]string, 0, len(e.Metadata))
		for k := range e.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%s", k, e.Metadata[k])
		}
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithMetadata creates an error carrying structured context.
func WithMetadata(kind Kind, message string, metadata map[string]string) *Error {
	return &Error{Kind: kind, Message: message, Metadata: metadata}
}

// Wrap creates an error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
