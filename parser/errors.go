package parser

import (
	"errors"
)

// ErrNoSyntax is a sentinel passed to a warning reporter when a file has no
// syntax statement at all. Per spec.md §4.B, a missing statement defaults
// the file to proto2, but that default is surfaced as a warning so a
// caller can flag files that should be migrated to an explicit syntax.
var ErrNoSyntax = errors.New("no syntax specified; defaulting to proto2 syntax")

// NewParseError wraps base as a ParseError, marking it as originating from
// grammar-level parsing (as opposed to lexing, linking, or validation) so
// a reporter can distinguish "this file's grammar was malformed" from the
// other error taxonomies in spec.md §7.
func NewParseError(base error) ParseError {
	return &parseError{base: base}
}

// ParseError is any error produced while turning a token stream into the
// descriptor IR. It is always a wrapper; callers that need the underlying
// cause should use errors.Unwrap or errors.As.
type ParseError interface {
	error

	isParseError()
}

type parseError struct {
	base error
}

func (*parseError) isParseError() {}

func (e *parseError) Error() string {
	return e.base.Error()
}

func (e *parseError) Unwrap() error {
	return e.base
}

// Recovery categories for ExtendedSyntaxError, one per way a recoverable
// parse can go wrong. These line up with spec.md §4.B's recovery model:
// the parser keeps going after reporting one of these so a single compile
// can surface more than one problem.
const (
	CategoryEmptyDecl      = "empty_decl"
	CategoryIncompleteDecl = "incomplete_decl"
	CategoryExtraTokens    = "extra_tokens"
	CategoryIncorrectToken = "wrong_token"
	CategoryMissingToken   = "missing_token"
	CategoryDeclNotAllowed = "decl_not_allowed"
)

// NewExtendedSyntaxError wraps base as an ExtendedSyntaxError tagged with
// category, one of the Category* constants above.
func NewExtendedSyntaxError(base error, category string) ExtendedSyntaxError {
	return &extendedSyntaxError{
		base:     base,
		category: category,
	}
}

// ExtendedSyntaxError is a recoverable grammar error: the parser reported
// it and then resynchronized at the next statement or declaration
// boundary rather than aborting the whole file.
type ExtendedSyntaxError interface {
	error

	// Category reports which recovery category produced this error.
	Category() string
	// CanFormat reports whether this error's category carries enough
	// structure (an expected-vs-actual token, a location) for a caller
	// to render a richer, source-annotated message instead of the bare
	// Error() string.
	CanFormat() bool

	isExtendedSyntaxError()
}

type extendedSyntaxError struct {
	base     error
	category string
}

func (*extendedSyntaxError) isExtendedSyntaxError() {}

func (e *extendedSyntaxError) Error() string {
	return e.base.Error()
}

func (e *extendedSyntaxError) Unwrap() error {
	return e.base
}

func (e *extendedSyntaxError) Category() string {
	return e.category
}

func (e *extendedSyntaxError) CanFormat() bool {
	switch e.category {
	case CategoryEmptyDecl, CategoryIncorrectToken, CategoryMissingToken,
		CategoryExtraTokens, CategoryDeclNotAllowed:
		return true
	case CategoryIncompleteDecl:
		return false
	}
	panic("bug: CanFormat called with unknown category " + e.category)
}
