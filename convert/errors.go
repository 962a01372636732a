package convert

import "errors"

// Conversion error categories. Every error returned by this package wraps
// exactly one of these sentinels, so callers can classify failures with
// errors.Is regardless of the breadcrumb prefixes added along the way.
var (
	// ErrNoConversion indicates that no converter exists for the
	// (source kind, destination type, type kind) combination.
	ErrNoConversion = errors.New("no conversion")
	// ErrMissingLayout indicates a zero-field record type paired with a
	// destination that does not describe its own layout.
	ErrMissingLayout = errors.New("destination must have a static layout definition")
	// ErrOutOfRange indicates a numeric value outside the destination's
	// representable range.
	ErrOutOfRange = errors.New("value out of range")
	// ErrNegativeToUnsigned indicates a negative source for an unsigned
	// destination.
	ErrNegativeToUnsigned = errors.New("negative value for unsigned destination")
	// ErrUnknownEnumerator indicates a string that matches none of an
	// enumeration type's declared names.
	ErrUnknownEnumerator = errors.New("unknown enumerator")
	// ErrRedefinition indicates a map key collision without a Combiner.
	ErrRedefinition = errors.New("redefinition")
	// ErrKeyFieldMissing indicates a list-to-map conversion whose record
	// type declares no field with the "key" attribute.
	ErrKeyFieldMissing = errors.New("record type in list is missing a key field")
	// ErrKeyFieldNotUnique indicates more than one field with the "key"
	// attribute.
	ErrKeyFieldNotUnique = errors.New("key field must be unique")
	// ErrRecordExpected indicates a non-record value where a record was
	// required.
	ErrRecordExpected = errors.New("expected a record")
)

// prepend tags err with a path segment, preserving the wrapped category.
func prepend(err error, segment string) error {
	if err == nil {
		return nil
	}
	return &pathError{segment: segment, err: err}
}

type pathError struct {
	segment string
	err     error
}

func (e *pathError) Error() string {
	// Adjacent path segments concatenate directly (".foo[3]"); the final
	// segment is separated from the underlying message by a colon.
	if inner, ok := e.err.(*pathError); ok {
		return e.segment + inner.Error()
	}
	return e.segment + ": " + e.err.Error()
}

func (e *pathError) Unwrap() error { return e.err }
