package services

import (
	"strings"
	"testing"
)

func TestFormatDiff_ChangedFieldsOnly(t *testing.T) {
	fields := []FieldChange{
		{Label: "Título", Old: "Old title", New: "New title"},
		{Label: "Curso", Old: "Engineering", New: "Engineering"},
		{Label: "Turma", Old: "", New: "2026A"},
	}

	diff := FormatDiff(fields)

	lines := strings.Split(diff, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), diff)
	}
	if !strings.Contains(lines[0], "Título") || !strings.Contains(lines[0], "New title") {
		t.Errorf("first line should describe the title change, got %q", lines[0])
	}
	if strings.Contains(diff, "Curso") {
		t.Errorf("unchanged field must produce no line: %q", diff)
	}
	if !strings.Contains(lines[1], "(empty)") {
		t.Errorf("empty old value should render as (empty), got %q", lines[1])
	}
}

func TestFormatDiff_NoChanges(t *testing.T) {
	fields := []FieldChange{
		{Label: "Título", Old: "same", New: "same"},
		{Label: "Pesquisa", Old: true, New: true},
	}

	if diff := FormatDiff(fields); diff != "" {
		t.Errorf("expected empty diff, got %q", diff)
	}
}

func TestFormatDiff_BoolFields(t *testing.T) {
	diff := FormatDiff([]FieldChange{{Label: "Extensão", Old: false, New: true}})
	if !strings.Contains(diff, "false → true") {
		t.Errorf("bool change not rendered: %q", diff)
	}
}

func TestDiffIDList(t *testing.T) {
	tests := []struct {
		name            string
		current         []uint
		desired         []uint
		expectedAdded   []uint
		expectedRemoved []uint
	}{
		{"disjoint", []uint{1, 2}, []uint{3, 4}, []uint{3, 4}, []uint{1, 2}},
		{"overlap", []uint{1, 3}, []uint{1, 2}, []uint{2}, []uint{3}},
		{"identical", []uint{1, 2}, []uint{2, 1}, nil, nil},
		{"empty current", nil, []uint{5}, []uint{5}, nil},
		{"empty desired", []uint{5}, nil, nil, []uint{5}},
		{"both empty", nil, nil, nil, nil},
		{"duplicates ignored", []uint{1, 1}, []uint{2, 2}, []uint{2}, []uint{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := DiffIDList(tt.current, tt.desired)
			if !equalIDs(added, tt.expectedAdded) {
				t.Errorf("added = %v, expected %v", added, tt.expectedAdded)
			}
			if !equalIDs(removed, tt.expectedRemoved) {
				t.Errorf("removed = %v, expected %v", removed, tt.expectedRemoved)
			}
		})
	}
}

// Re-running the diff with current = previous desired must yield no changes.
func TestDiffIDList_Converges(t *testing.T) {
	current := []uint{1, 3, 7}
	desired := []uint{1, 2}

	added, removed := DiffIDList(current, desired)
	if len(added) == 0 && len(removed) == 0 {
		t.Fatal("first pass should report changes")
	}

	added, removed = DiffIDList(desired, desired)
	if len(added) != 0 || len(removed) != 0 {
		t.Errorf("second pass should be empty, got added=%v removed=%v", added, removed)
	}
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
