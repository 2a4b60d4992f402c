// Package testutil provides shared test fixtures for cards and the fake Trello API.
package testutil

import (
	"testing"

	"github.com/starford/backlog/internal/models"
	"github.com/starford/backlog/internal/trello/trellotest"
)

// List ids served by TrelloServer.
const (
	ListenListID = "listen-list"
	BuyListID    = "buy-list"
)

// Card returns a card with a name, description and short URL derived from id.
func Card(id string) models.Card {
	return models.Card{
		ID:       id,
		Name:     "Card " + id,
		Desc:     "Description of " + id,
		ShortURL: "https://trello.com/c/" + id,
	}
}

// Cards returns Card(id) for every id, in order.
func Cards(ids ...string) []models.Card {
	cards := make([]models.Card, len(ids))
	for i, id := range ids {
		cards[i] = Card(id)
	}
	return cards
}

// TrelloServer starts a fake Trello API with empty listen and buy lists that
// is closed when the test ends.
func TrelloServer(t *testing.T) *trellotest.Server {
	t.Helper()
	srv := trellotest.NewServer()
	srv.SetList(ListenListID)
	srv.SetList(BuyListID)
	t.Cleanup(srv.Close)
	return srv
}
