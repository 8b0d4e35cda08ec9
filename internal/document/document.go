// Package document manipulates nested string-keyed documents by dotted
// key paths, e.g. "tools.gh.version".
package document

import (
	"fmt"
	"sort"
	"strings"
)

// Flatten converts a nested document into a flat map keyed by dotted
// paths. Non-map leaves, including slices and empty maps, are kept as-is.
func Flatten(doc map[string]any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", doc)
	return out
}

func flattenInto(out map[string]any, prefix string, doc map[string]any) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok && len(m) > 0 {
			flattenInto(out, key, m)
			continue
		}
		out[key] = v
	}
}

// Get looks up the value at a dotted key path.
func Get(doc map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	cur := doc
	for i, p := range parts {
		v, ok := cur[p]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = m
	}
	return nil, false
}

// Set assigns value at a dotted key path, creating intermediate maps as
// needed. It fails if an intermediate segment exists but is not an
// object.
func Set(doc map[string]any, key string, value any) error {
	parts := strings.Split(key, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		v, ok := cur[p]
		if !ok {
			m := make(map[string]any)
			cur[p] = m
			cur = m
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("key %q: segment %q is not an object", key, p)
		}
		cur = m
	}
	cur[parts[len(parts)-1]] = value
	return nil
}

// Delete removes the value at a dotted key path. Reports whether a value
// was removed.
func Delete(doc map[string]any, key string) bool {
	parts := strings.Split(key, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		m, ok := cur[p].(map[string]any)
		if !ok {
			return false
		}
		cur = m
	}
	last := parts[len(parts)-1]
	if _, ok := cur[last]; !ok {
		return false
	}
	delete(cur, last)
	return true
}

// Keys returns the sorted union of keys from two flat maps.
func Keys(a, b map[string]any) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
