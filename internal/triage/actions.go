// Package triage runs the interactive pick-and-act loop over a Trello list.
package triage

import (
	"strings"

	"github.com/starford/backlog/internal/models"
)

// ActionKind enumerates the fixed set of triage actions.
type ActionKind int

const (
	ActionKeep ActionKind = iota
	ActionArchive
	ActionBuyLater
	ActionMoveToTop
	ActionQuit
)

// Action is one entry in the action registry.
type Action struct {
	Kind   ActionKind
	Key    string
	Label  string
	Update models.CardUpdate // zero for actions that do not touch the card
}

// Mutates reports whether the action sends a card update.
func (a Action) Mutates() bool {
	return !a.Update.IsZero()
}

// DefaultActions returns the registry in prompt order. buyListID is the
// destination of the "buy later" move.
func DefaultActions(buyListID string) []Action {
	return []Action{
		{Kind: ActionKeep, Key: "k", Label: "[K]eep"},
		{Kind: ActionArchive, Key: "a", Label: "[A]rchive", Update: models.CardUpdate{Closed: true}},
		{Kind: ActionBuyLater, Key: "b", Label: "[B]uy (later)", Update: models.CardUpdate{IDList: buyListID}},
		{Kind: ActionMoveToTop, Key: "t", Label: "Move to [t]op", Update: models.CardUpdate{Pos: "top"}},
		{Kind: ActionQuit, Key: "q", Label: "[Q]uit"},
	}
}

// FindAction returns the action whose key equals key.
func FindAction(actions []Action, key string) (Action, bool) {
	for _, a := range actions {
		if a.Key == key {
			return a, true
		}
	}
	return Action{}, false
}

// ActionOfKind returns the first action of the given kind.
func ActionOfKind(actions []Action, kind ActionKind) (Action, bool) {
	for _, a := range actions {
		if a.Kind == kind {
			return a, true
		}
	}
	return Action{}, false
}

// PromptLine lists every label, e.g. "[K]eep, [A]rchive or [Q]uit:".
func PromptLine(actions []Action) string {
	if len(actions) == 0 {
		return ":"
	}
	labels := make([]string, len(actions)-1)
	for i, a := range actions[:len(actions)-1] {
		labels[i] = a.Label
	}
	last := actions[len(actions)-1].Label
	if len(labels) == 0 {
		return last + ":"
	}
	return strings.Join(labels, ", ") + " or " + last + ":"
}

func normalizeKey(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
