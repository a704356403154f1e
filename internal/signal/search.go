package signal

import (
	"sort"
	"strings"
)

// DefaultMaxDepth bounds recursive key searches through nested payloads.
const DefaultMaxDepth = 10

// Find performs a bounded-depth recursive search for a key whose name
// contains keySub (case-insensitive) in a nested structure of maps, slices
// and scalars. At each map level all keys are scanned first; only when no key
// matches at that level does the search recurse into the values. A child
// whose key equals exclude is skipped entirely at every level: it is neither
// scanned nor recursed into. Exclusion applies to named keys only, never to
// slice elements. The first match wins; there is no backtracking.
//
// Map keys are visited in sorted order so results are deterministic.
func Find(obj any, keySub string, maxDepth int, exclude string) (any, bool) {
	return find(obj, strings.ToLower(keySub), maxDepth, 0, exclude)
}

func find(obj any, keySub string, maxDepth, depth int, exclude string) (any, bool) {
	if depth >= maxDepth {
		return nil, false
	}

	switch v := obj.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		// Scan all keys at this level before recursing.
		for _, k := range keys {
			if exclude != "" && k == exclude {
				continue
			}
			if strings.Contains(strings.ToLower(k), keySub) {
				return v[k], true
			}
		}

		for _, k := range keys {
			if exclude != "" && k == exclude {
				continue
			}
			if res, ok := find(v[k], keySub, maxDepth, depth+1, exclude); ok {
				return res, true
			}
		}

	case []any:
		for _, item := range v {
			if res, ok := find(item, keySub, maxDepth, depth+1, exclude); ok {
				return res, true
			}
		}
	}

	return nil, false
}
