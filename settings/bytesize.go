package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidArgument indicates a settings value of the wrong type.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrParse indicates a malformed byte-size string.
	ErrParse = errors.New("parse error")
)

// unitFactors maps a size suffix to its multiplier. Plain letters are
// decimal (powers of 1000), the "i" forms binary (powers of 1024).
var unitFactors = map[string]uint64{
	"k": 1e3, "Ki": 1 << 10,
	"M": 1e6, "Mi": 1 << 20,
	"G": 1e9, "Gi": 1 << 30,
	"T": 1e12, "Ti": 1 << 40,
	"P": 1e15, "Pi": 1 << 50,
	"E": 1e18, "Ei": 1 << 60,
}

// GetBytesize reads a byte quantity from opts under a dotted key. A
// missing key yields the fallback. Native integer values pass through,
// strings go through ParseBytesize, and anything else is an
// ErrInvalidArgument.
func GetBytesize(opts Settings, key string, fallback uint64) (uint64, error) {
	v, ok := Get(opts, key)
	if !ok {
		return fallback, nil
	}
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("%w: %s must be non-negative, got %d", ErrInvalidArgument, key, n)
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("%w: %s must be non-negative, got %d", ErrInvalidArgument, key, n)
		}
		return uint64(n), nil
	case string:
		size, err := ParseBytesize(n)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return size, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a size, got %T", ErrInvalidArgument, key, v)
	}
}

// ParseBytesize parses strings of the form "N", "NB", "N<unit>" or
// "N<unit>B" where unit is one of k, Ki, M, Mi, G, Gi, T, Ti, P, Pi,
// E, Ei. Spaces around the number and suffix are permitted.
func ParseBytesize(s string) (uint64, error) {
	rest := strings.TrimSpace(s)
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("%w: %q is not a byte size", ErrParse, s)
	}
	n, err := strconv.ParseUint(rest[:i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a byte size", ErrParse, s)
	}
	suffix := strings.TrimSpace(rest[i:])
	suffix = strings.TrimSuffix(suffix, "B")
	if suffix == "" {
		return n, nil
	}
	factor, ok := unitFactors[suffix]
	if !ok {
		return 0, fmt.Errorf("%w: unknown size unit %q in %q", ErrParse, suffix, s)
	}
	if n > math.MaxUint64/factor {
		return 0, fmt.Errorf("%w: %q overflows", ErrParse, s)
	}
	return n * factor, nil
}
