package suspicion

import (
	"testing"
)

func TestTable_ReportAndRetract(t *testing.T) {
	tbl := NewTable()

	tbl.Report("p", "a")
	tbl.Report("p", "b")
	tbl.Report("p", "b") // duplicate, no effect
	if got := tbl.Reporters("p"); got != 2 {
		t.Errorf("Reporters(p) = %d, want 2", got)
	}

	tbl.Retract("p", "a")
	if got := tbl.Reporters("p"); got != 1 {
		t.Errorf("Reporters(p) after retract = %d, want 1", got)
	}

	// Retracting an absent pair is a no-op.
	tbl.Retract("p", "nobody")
	tbl.Retract("unknown", "a")
	if got := tbl.Reporters("p"); got != 1 {
		t.Errorf("Reporters(p) after no-op retracts = %d, want 1", got)
	}

	// Last retraction removes the entry entirely.
	tbl.Retract("p", "b")
	if got := tbl.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0 after all reporters withdrawn", got)
	}
}

func TestTable_Remove(t *testing.T) {
	tbl := NewTable()
	tbl.Report("p", "a")
	tbl.Report("q", "a")

	tbl.Remove("p")
	if got := tbl.Reporters("p"); got != 0 {
		t.Errorf("Reporters(p) after Remove = %d, want 0", got)
	}
	if got := tbl.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}

	targets := tbl.Targets()
	if len(targets) != 1 || targets[0] != "q" {
		t.Errorf("Targets() = %v, want [q]", targets)
	}
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		name    string
		members int
		want    int
	}{
		{"single entry still needs one reporter", 1, 1},
		{"two members", 2, 1},
		{"three members", 3, 1},
		{"four members", 4, 2},
		{"five members", 5, 2},
		{"six members", 6, 3},
		{"nine members", 9, 4},
		{"ten members", 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Threshold(tt.members); got != tt.want {
				t.Errorf("Threshold(%d) = %d, want %d", tt.members, got, tt.want)
			}
		})
	}
}
