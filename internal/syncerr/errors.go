// Package syncerr classifies the failures a sync run can end with. Every
// kind is fatal to the run; callers decide whether to retry the whole run.
package syncerr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of sync failure. Kinds are strings so they read
// well in logs and JSON output.
type Kind string

const (
	// KindMetadataUnreadable means the project metadata document is missing
	// or cannot be read.
	KindMetadataUnreadable Kind = "METADATA_UNREADABLE"

	// KindMetadataUnparsable means the project metadata document is not a
	// JSON object or its lock list is malformed.
	KindMetadataUnparsable Kind = "METADATA_UNPARSABLE"

	// KindDocumentUnparsable means a JSON target or patch document could not
	// be parsed.
	KindDocumentUnparsable Kind = "DOCUMENT_UNPARSABLE"

	// KindIOFailure covers read, write, copy and delete failures.
	KindIOFailure Kind = "IO_FAILURE"

	// KindHookFailure means a regeneration hook failed.
	KindHookFailure Kind = "HOOK_FAILURE"

	// KindManifestInvalid means the sync manifest is malformed.
	KindManifestInvalid Kind = "MANIFEST_INVALID"

	// KindIncompatibleVersion means the manifest requires another dotsync version.
	KindIncompatibleVersion Kind = "INCOMPATIBLE_VERSION"

	// KindUnknown is reported for errors that carry no kind.
	KindUnknown Kind = "UNKNOWN"
)

// Error is a classified failure tied to the path (or hook name) it concerns.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

// New returns an *Error of the given kind.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindUnknown when there is none.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
