package domain

import "go.trai.ch/zerr"

var (
	// ErrAcquireCanceled is returned when a resolve cache is requested by an activity that has been canceled.
	ErrAcquireCanceled = zerr.New("resolve cache acquisition canceled")

	// ErrScopeClosed is returned when a service is requested from a scope that has been torn down.
	ErrScopeClosed = zerr.New("scope is closed")

	// ErrNilKey is the panic value used when a nil node is passed to the resolve cache.
	ErrNilKey = zerr.New("resolve cache key must not be nil")

	// ErrNilResult is the panic value used when a nil result is stored in the resolve cache.
	ErrNilResult = zerr.New("resolve cache result must not be nil")

	// ErrNotAClass is returned when resolution is requested for a node that is not a class declaration.
	ErrNotAClass = zerr.New("node is not a class declaration")

	// ErrClassNotFound is returned when a requested class is not declared in the program.
	ErrClassNotFound = zerr.New("class not found")

	// ErrInheritanceCycle is returned when a class transitively extends itself.
	ErrInheritanceCycle = zerr.New("inheritance cycle detected")

	// ErrInvalidTypeExpr is returned when a type expression cannot be parsed.
	ErrInvalidTypeExpr = zerr.New("invalid type expression")

	// ErrMissingClassName is returned when a class declaration has no name.
	ErrMissingClassName = zerr.New("missing class name")

	// ErrDuplicateClass is returned when a file declares the same class twice.
	ErrDuplicateClass = zerr.New("duplicate class declaration")

	// ErrDuplicateParam is returned when a class declares the same type parameter twice.
	ErrDuplicateParam = zerr.New("duplicate type parameter")

	// ErrConfigReadFailed is returned when a program file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read program file")

	// ErrConfigParseFailed is returned when a program file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse program file")

	// ErrNoInputFiles is returned when no program files are given.
	ErrNoInputFiles = zerr.New("no program files specified")

	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrResolutionFailed is returned when resolving one or more classes fails.
	ErrResolutionFailed = zerr.New("class resolution failed")
)
