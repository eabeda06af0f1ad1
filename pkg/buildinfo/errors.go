package buildinfo

import "errors"

// Error taxonomy for provenance resolution and version file decoding.
// All of these indicate local precondition or format failures; retrying
// without a state change would fail identically, so nothing here retries.
var (
	// ErrNotFound reports a missing git directory, pointer file, reference
	// file, or version file.
	ErrNotFound = errors.New("not found")

	// ErrMalformedRef reports a HEAD pointer file without a recognizable
	// "ref:" line. Detached HEAD (a raw hash in the pointer file) lands
	// here on purpose.
	ErrMalformedRef = errors.New("malformed git reference")

	// ErrUnsupportedType reports a type annotation outside int/float/str/bool.
	ErrUnsupportedType = errors.New("unsupported type annotation")

	// ErrInvalidValue reports a value that fails coercion, such as a bad
	// boolean literal or a malformed timestamp. Decoding aborts whole-file.
	ErrInvalidValue = errors.New("invalid value")
)
