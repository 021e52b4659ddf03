package assets

import (
	"strings"
	"testing"
)

func TestKeyBindings(t *testing.T) {
	kb := KeyBindings()
	if len(kb) < 10 {
		t.Fatalf("expected the full key reference, got %d entries", len(kb))
	}
	found := false
	for _, b := range kb {
		if b.Keys == "z" && b.Action == "undo" {
			found = true
		}
	}
	if !found {
		t.Fatalf("undo binding missing: %+v", kb)
	}
	if !strings.Contains(KeyHelp(), "1-9") {
		t.Fatalf("help text missing label keys")
	}
}
