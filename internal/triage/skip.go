package triage

import (
	"fmt"
	"regexp"

	"github.com/starford/backlog/internal/models"
)

// Default skip patterns.
const (
	TrackLinkPattern    = `https?://.*/track/`
	AlbumLinkPattern    = `https?://.*/album/`
	AnnouncementPattern = `just announced "`
)

// SkipRule archives a card without asking when Match reports true.
type SkipRule struct {
	Name  string
	Match func(card models.Card) bool
}

// PatternRule builds a rule that fires when the description matches match
// and, if unless is non-empty, does not match unless.
func PatternRule(name, match, unless string) (SkipRule, error) {
	re, err := regexp.Compile(match)
	if err != nil {
		return SkipRule{}, fmt.Errorf("skip rule %q: match: %w", name, err)
	}
	var exclude *regexp.Regexp
	if unless != "" {
		exclude, err = regexp.Compile(unless)
		if err != nil {
			return SkipRule{}, fmt.Errorf("skip rule %q: unless: %w", name, err)
		}
	}

	return SkipRule{
		Name: name,
		Match: func(card models.Card) bool {
			if !re.MatchString(card.Desc) {
				return false
			}
			return exclude == nil || !exclude.MatchString(card.Desc)
		},
	}, nil
}

// DefaultSkipRules archives lone track links and bare release announcements.
func DefaultSkipRules() []SkipRule {
	track, _ := PatternRule("track", TrackLinkPattern, AlbumLinkPattern)
	announcement, _ := PatternRule("announcement", regexp.QuoteMeta(AnnouncementPattern), "")
	return []SkipRule{track, announcement}
}

// matchSkipRule returns the first rule that fires for card.
func matchSkipRule(rules []SkipRule, card models.Card) (SkipRule, bool) {
	for _, r := range rules {
		if r.Match != nil && r.Match(card) {
			return r, true
		}
	}
	return SkipRule{}, false
}
