package triage

import (
	"testing"

	"github.com/starford/backlog/internal/models"
)

func TestDefaultActions(t *testing.T) {
	actions := DefaultActions("buy-list")

	tests := []struct {
		key     string
		kind    ActionKind
		mutates bool
		update  models.CardUpdate
	}{
		{"k", ActionKeep, false, models.CardUpdate{}},
		{"a", ActionArchive, true, models.CardUpdate{Closed: true}},
		{"b", ActionBuyLater, true, models.CardUpdate{IDList: "buy-list"}},
		{"t", ActionMoveToTop, true, models.CardUpdate{Pos: "top"}},
		{"q", ActionQuit, false, models.CardUpdate{}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			a, ok := FindAction(actions, tt.key)
			if !ok {
				t.Fatalf("action %q not found", tt.key)
			}
			if a.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", a.Kind, tt.kind)
			}
			if a.Mutates() != tt.mutates {
				t.Errorf("Mutates() = %v, want %v", a.Mutates(), tt.mutates)
			}
			if a.Update != tt.update {
				t.Errorf("Update = %+v, want %+v", a.Update, tt.update)
			}
		})
	}

	if _, ok := FindAction(actions, "x"); ok {
		t.Error("unknown key should not match")
	}
}

func TestPromptLine(t *testing.T) {
	got := PromptLine(DefaultActions(""))
	want := "[K]eep, [A]rchive, [B]uy (later), Move to [t]op or [Q]uit:"
	if got != want {
		t.Errorf("PromptLine() = %q, want %q", got, want)
	}

	single := []Action{{Key: "q", Label: "[Q]uit"}}
	if got := PromptLine(single); got != "[Q]uit:" {
		t.Errorf("PromptLine(single) = %q", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	for in, want := range map[string]string{" A ": "a", "q\t": "q", "": "", "Keep": "keep"} {
		if got := normalizeKey(in); got != want {
			t.Errorf("normalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
