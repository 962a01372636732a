// Package settings provides hierarchical key-value options with
// policy-driven merging and byte-size parsing.
package settings

import (
	"log/slog"
	"strings"
)

// Settings is a nested string-keyed option tree. Values are scalars,
// []any lists, or nested Settings.
type Settings = map[string]any

// ListPolicy selects how Merge treats a list present on both sides.
type ListPolicy uint8

const (
	// Replace overwrites the destination list with the source list.
	Replace ListPolicy = iota
	// Concatenate appends the source elements after the destination's.
	Concatenate
)

// maxRecursionDepth bounds the nesting Merge follows. Subtrees beyond the
// bound are left unmerged.
const maxRecursionDepth = 100

// Merge folds src into dst. Nested maps merge recursively, lists follow
// the policy, and any other collision is won by src. A subtree nested
// deeper than the recursion bound is logged and skipped; the rest of the
// merge proceeds.
func Merge(src, dst Settings, policy ListPolicy) {
	mergeAt(src, dst, policy, 0)
}

func mergeAt(src, dst Settings, policy ListPolicy, depth int) {
	if depth > maxRecursionDepth {
		slog.Error("exceeded maximum nesting depth in settings merge",
			slog.Int("max", maxRecursionDepth))
		return
	}
	for key, value := range src {
		switch sv := value.(type) {
		case Settings:
			if dv, ok := dst[key].(Settings); ok {
				mergeAt(sv, dv, policy, depth+1)
				continue
			}
			merged := Settings{}
			mergeAt(sv, merged, policy, depth+1)
			dst[key] = merged
		case []any:
			if dv, ok := dst[key].([]any); ok && policy == Concatenate {
				dst[key] = append(append([]any{}, dv...), sv...)
				continue
			}
			dst[key] = sv
		default:
			dst[key] = value
		}
	}
}

// Get resolves a dotted key path against nested settings.
func Get(opts Settings, key string) (any, bool) {
	cur := opts
	for {
		i := strings.IndexByte(key, '.')
		if i < 0 {
			v, ok := cur[key]
			return v, ok
		}
		next, ok := cur[key[:i]].(Settings)
		if !ok {
			return nil, false
		}
		cur = next
		key = key[i+1:]
	}
}
