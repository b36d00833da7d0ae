package reporter

import (
	"fmt"
	"sync"

	"github.com/schemac/schemac/ast"
)

// ErrorReporter is responsible for reporting the given error. If the error
// handling decides that processing should abort, the reporter returns a
// non-nil error. This is used, for example, to abort processing after the
// first error is encountered instead of trying to continue in order to
// report more errors. If a reporter wants to allow processing to continue,
// it must return nil.
//
// Only errors are passed to an ErrorReporter; warnings are delivered
// separately, to a WarningReporter.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. This is
// very similar to ErrorReporter except that it cannot abort processing.
type WarningReporter func(err ErrorWithPos)

// Reporter is a simple interface that can be used to report errors and
// warnings. Both methods accept ErrorWithPos instead of plain error values
// so that the position in the source where the problem was found is always
// available to the caller.
type Reporter interface {
	// Error reports a given error. If it returns non-nil, the process that
	// was in progress is abandoned and processing is aborted. If it returns
	// nil, processing continues.
	Error(ErrorWithPos) error
	// Warning reports a given warning. Since a warning does not prevent
	// processing from continuing, this method does not return an error.
	Warning(ErrorWithPos)
}

type reporter struct {
	errorReporter   ErrorReporter
	warningReporter WarningReporter
}

// NewReporter returns a Reporter that invokes the given functions on error
// and warning. Either function may be nil, in which case the corresponding
// event is a no-op for errors reported as warnings and causes processing to
// continue for every error otherwise (a nil errorReporter behaves the same
// as always returning nil).
func NewReporter(errorReporter ErrorReporter, warningReporter WarningReporter) Reporter {
	return &reporter{errorReporter: errorReporter, warningReporter: warningReporter}
}

func (r *reporter) Error(err ErrorWithPos) error {
	if r.errorReporter == nil {
		return nil
	}
	return r.errorReporter(err)
}

func (r *reporter) Warning(err ErrorWithPos) {
	if r.warningReporter == nil {
		return
	}
	r.warningReporter(err)
}

// Handler wraps a Reporter, tracking whether a fatal error has already been
// reported so that once processing is told to stop, every subsequent call
// is a cheap no-op that returns the same error. It is safe for concurrent
// use by multiple goroutines sharing the same underlying Reporter (each
// compiled file gets its own SubHandler so errors from one file never
// interleave with another's, but a handler itself may still be touched from
// more than one goroutine while a single file is being processed).
type Handler struct {
	reporter Reporter

	mu  sync.Mutex
	err error
}

// NewHandler returns a new Handler that reports errors and warnings to rep.
// If rep is nil, a default reporter is used: it returns the first error
// verbatim (aborting further processing) and discards all warnings.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(func(err ErrorWithPos) error { return err }, nil)
	}
	return &Handler{reporter: rep}
}

// HandleError reports the given error, which may or may not already carry
// source position information. If it does not, it is reported as occurring
// at an unknown position. If this or a prior call to the handler indicated
// that processing should abort, this returns the stored error so callers
// can propagate it; otherwise it returns nil and processing can continue.
func (h *Handler) HandleError(err error) error {
	if err == nil {
		return nil
	}
	ewp, ok := err.(ErrorWithPos)
	if !ok {
		ewp = Error(ast.UnknownSpan(""), err)
	}
	return h.handle(ewp)
}

// HandleErrorWithPos is like HandleError, except that it attaches pos to
// err if err does not already carry position information of its own.
func (h *Handler) HandleErrorWithPos(pos ast.SourcePosInfo, err error) error {
	if err == nil {
		return nil
	}
	ewp, ok := err.(ErrorWithPos)
	if !ok {
		ewp = Error(pos, err)
	}
	return h.handle(ewp)
}

// HandleErrorf is shorthand for HandleErrorWithPos(pos, fmt.Errorf(format, args...)).
func (h *Handler) HandleErrorf(pos ast.SourcePosInfo, format string, args ...any) error {
	return h.handle(Errorf(pos, format, args...))
}

func (h *Handler) handle(ewp ErrorWithPos) error {
	h.mu.Lock()
	priorErr := h.err
	h.mu.Unlock()
	if priorErr != nil {
		// Already aborting; don't bother invoking the reporter again.
		return priorErr
	}
	err := h.reporter.Error(ewp)
	if err == nil {
		return nil
	}
	h.mu.Lock()
	if h.err == nil {
		h.err = err
	}
	err = h.err
	h.mu.Unlock()
	return err
}

// HandleWarning reports ewp as a warning. Warnings never cause processing
// to abort, so this method has no return value.
func (h *Handler) HandleWarning(ewp ErrorWithPos) {
	h.reporter.Warning(ewp)
}

// HandleWarningWithPos is like HandleWarning except that it accepts a plain
// error, attaching pos to it if it does not already carry its own position.
func (h *Handler) HandleWarningWithPos(pos ast.SourcePosInfo, err error) {
	ewp, ok := err.(ErrorWithPos)
	if !ok {
		ewp = Error(pos, err)
	}
	h.HandleWarning(ewp)
}

// HandleWarningf is shorthand for HandleWarningWithPos(pos, fmt.Errorf(format, args...)).
func (h *Handler) HandleWarningf(pos ast.SourcePosInfo, format string, args ...any) {
	h.HandleWarning(Errorf(pos, format, args...))
}

// Error returns the error that caused this handler to start aborting
// processing, or nil if no call has yet told it to abort.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// ReporterError is an alias for Error kept around because some call sites
// (notably the lexer, which checks the handler between tokens) read more
// naturally asking whether "the reporter" has an error than whether "the
// handler" does.
func (h *Handler) ReporterError() error {
	return h.Error()
}

// SubHandler returns a new Handler that reports through the same underlying
// Reporter but tracks its own abort state independently of h. This lets a
// compiler process several files whose errors share one Reporter without
// one file's fatal error silently suppressing the reporting for another.
func (h *Handler) SubHandler() *Handler {
	return &Handler{reporter: h.reporter}
}

// SymbolRedeclared returns an error describing a symbol that was declared
// more than once, naming the location of the previous declaration.
func SymbolRedeclared(name string, previousDeclaration ast.SourcePosInfo) error {
	return fmt.Errorf("symbol %q already defined at %v", name, previousDeclaration)
}
