package services

import (
	"fmt"
	"strings"
)

// FieldChange describes one field for diffing: a human label plus the old
// and new values.
type FieldChange struct {
	Label string
	Old   interface{}
	New   interface{}
}

// FormatDiff renders one line per changed field, comparing old and new by
// equality of their formatted values. Unchanged fields produce no line.
// The result is advisory text for notifications; it never gates the
// transaction it describes.
func FormatDiff(fields []FieldChange) string {
	var b strings.Builder
	for _, f := range fields {
		oldStr := fmt.Sprintf("%v", f.Old)
		newStr := fmt.Sprintf("%v", f.New)
		if oldStr == newStr {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s: %s → %s", f.Label, displayValue(oldStr), displayValue(newStr)))
	}
	return b.String()
}

func displayValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(empty)"
	}
	return s
}

// DiffIDList computes the set difference between two ID lists:
// added = desired − current, removed = current − desired. Order of the
// input lists is irrelevant and duplicates are ignored.
func DiffIDList(current, desired []uint) (added, removed []uint) {
	currentSet := make(map[uint]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	desiredSet := make(map[uint]bool, len(desired))
	for _, id := range desired {
		desiredSet[id] = true
	}

	seenAdded := make(map[uint]bool)
	for _, id := range desired {
		if !currentSet[id] && !seenAdded[id] {
			added = append(added, id)
			seenAdded[id] = true
		}
	}
	seenRemoved := make(map[uint]bool)
	for _, id := range current {
		if !desiredSet[id] && !seenRemoved[id] {
			removed = append(removed, id)
			seenRemoved[id] = true
		}
	}
	return added, removed
}
