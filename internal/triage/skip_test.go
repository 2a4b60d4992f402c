package triage

import (
	"testing"

	"github.com/starford/backlog/internal/models"
)

func TestDefaultSkipRules(t *testing.T) {
	rules := DefaultSkipRules()

	tests := []struct {
		name string
		desc string
		want string // rule name, empty for no skip
	}{
		{"lone track link", "Check out this song https://x.com/track/1", "track"},
		{"announcement", `The band just announced "New EP" today`, "announcement"},
		{"announcement at start", `just announced "New EP"`, "announcement"},
		{"track and album", "https://x.com/track/1 from https://x.com/album/2", ""},
		{"album only", "https://x.com/album/2", ""},
		{"plain text", "a record a friend mentioned", ""},
		{"announced without quote", "just announced a tour", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := matchSkipRule(rules, models.Card{Desc: tt.desc})
			if tt.want == "" {
				if ok {
					t.Errorf("rule %q fired, want none", rule.Name)
				}
				return
			}
			if !ok || rule.Name != tt.want {
				t.Errorf("rule = %q (matched %v), want %q", rule.Name, ok, tt.want)
			}
		})
	}
}

func TestPatternRule_Invalid(t *testing.T) {
	if _, err := PatternRule("bad", "(", ""); err == nil {
		t.Error("invalid match pattern should fail")
	}
	if _, err := PatternRule("bad", "x", "["); err == nil {
		t.Error("invalid unless pattern should fail")
	}
}

func TestMatchSkipRule_NoRules(t *testing.T) {
	card := models.Card{Desc: "https://x.com/track/1"}
	if _, ok := matchSkipRule(nil, card); ok {
		t.Error("no rules should never skip")
	}
	if _, ok := matchSkipRule([]SkipRule{{Name: "nil"}}, card); ok {
		t.Error("rule without predicate should never skip")
	}
}
