package statefile

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/terassyi/statefile/internal/document"
)

// DiffType represents the kind of change between two state documents.
type DiffType string

const (
	DiffAdded    DiffType = "added"
	DiffRemoved  DiffType = "removed"
	DiffModified DiffType = "modified"
)

// Entry represents a single changed key.
type Entry struct {
	Key  string   `json:"key"`
	Type DiffType `json:"type"`
	Old  any      `json:"old,omitempty"`
	New  any      `json:"new,omitempty"`
}

// Diff holds the complete diff between two state documents.
type Diff struct {
	Changes []Entry `json:"changes"`
}

// HasChanges reports whether there are any differences.
func (d *Diff) HasChanges() bool {
	return len(d.Changes) > 0
}

// Summary returns counts of added, modified, and removed keys.
func (d *Diff) Summary() (added, modified, removed int) {
	for _, c := range d.Changes {
		switch c.Type {
		case DiffAdded:
			added++
		case DiffModified:
			modified++
		case DiffRemoved:
			removed++
		}
	}
	return
}

// DiffDocuments compares two documents over their flattened dotted-key
// form. old is the before snapshot (e.g. a backup), cur the current
// state. Changes come out sorted by key.
func DiffDocuments(old, cur map[string]any) *Diff {
	oldFlat := document.Flatten(old)
	curFlat := document.Flatten(cur)

	diff := &Diff{}
	for _, key := range document.Keys(oldFlat, curFlat) {
		o, inOld := oldFlat[key]
		c, inCur := curFlat[key]

		switch {
		case !inOld && inCur:
			diff.Changes = append(diff.Changes, Entry{Key: key, Type: DiffAdded, New: c})
		case inOld && !inCur:
			diff.Changes = append(diff.Changes, Entry{Key: key, Type: DiffRemoved, Old: o})
		case !reflect.DeepEqual(o, c):
			diff.Changes = append(diff.Changes, Entry{Key: key, Type: DiffModified, Old: o, New: c})
		}
	}
	return diff
}

// DiffValues compares two typed values by round-tripping them through
// JSON into documents.
func DiffValues[T any](old, cur *T) (*Diff, error) {
	oldDoc, err := toDocument(old)
	if err != nil {
		return nil, err
	}
	curDoc, err := toDocument(cur)
	if err != nil {
		return nil, err
	}
	return DiffDocuments(oldDoc, curDoc), nil
}

func toDocument(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value for diff: %w", err)
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to build diff document: %w", err)
	}
	return doc, nil
}
