// Package trellotest provides an in-memory Trello API for tests.
package trellotest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/starford/backlog/internal/models"
)

// Test credentials accepted by the server.
const (
	Key   = "test-key"
	Token = "test-token"
)

// Update is a recorded card mutation.
type Update struct {
	CardID string
	Body   models.CardUpdate
}

// Server is a fake Trello API backed by in-memory lists.
//
// Only the endpoints used by the trello client are implemented:
//   - GET /lists/{listID}/cards
//   - PUT /cards/{cardID}
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	lists    map[string][]models.Card
	fetches  map[string]int
	updates  []Update
	gate     chan struct{}
	inFlight int
	failPuts bool
}

// NewServer starts a fake API. Call Close when done.
func NewServer() *Server {
	s := &Server{
		lists:   make(map[string][]models.Card),
		fetches: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/lists/{listID}/cards", s.listCards)
	r.Put("/cards/{cardID}", s.updateCard)

	s.Server = httptest.NewServer(r)
	return s
}

func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != Key || q.Get("token") != Token {
			http.Error(w, "invalid key", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Close releases held requests and shuts the server down.
func (s *Server) Close() {
	s.Release()
	s.Server.Close()
}

// SetList replaces the cards of listID.
func (s *Server) SetList(listID string, cards ...models.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[listID] = append([]models.Card(nil), cards...)
}

// List returns a copy of the cards currently on listID.
func (s *Server) List(listID string) []models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Card(nil), s.lists[listID]...)
}

// Fetches returns how many times listID was fetched.
func (s *Server) Fetches(listID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[listID]
}

// Updates returns every card mutation received so far.
func (s *Server) Updates() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Update(nil), s.updates...)
}

// InFlight returns the number of PUT requests currently held by Hold.
func (s *Server) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// FailUpdates makes every PUT answer 500 without changing state.
func (s *Server) FailUpdates(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPuts = fail
}

// Hold blocks PUT handlers until Release is called.
func (s *Server) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate == nil {
		s.gate = make(chan struct{})
	}
}

// Release unblocks PUT handlers held by Hold.
func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	listID := chi.URLParam(r, "listID")

	s.mu.Lock()
	s.fetches[listID]++
	cards, ok := s.lists[listID]
	out := append([]models.Card{}, cards...)
	s.mu.Unlock()

	if !ok {
		http.Error(w, "invalid id", http.StatusNotFound)
		return
	}
	for i := range out {
		if out[i].Attachments == nil {
			out[i].Attachments = []models.Attachment{}
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) updateCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")

	var upd models.CardUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	gate := s.gate
	s.inFlight++
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	s.updates = append(s.updates, Update{CardID: cardID, Body: upd})

	if s.failPuts {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if !s.apply(cardID, upd) {
		http.Error(w, "card not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"id":"` + cardID + `"}`))
}

// apply mutates list state the way Trello would. Caller holds s.mu.
func (s *Server) apply(cardID string, upd models.CardUpdate) bool {
	listID, idx := s.find(cardID)
	if idx < 0 {
		return false
	}
	card := s.lists[listID][idx]
	remove := func() {
		cards := s.lists[listID]
		s.lists[listID] = append(cards[:idx:idx], cards[idx+1:]...)
	}

	switch {
	case upd.Closed:
		remove()
	case upd.IDList != "" && upd.IDList != listID:
		remove()
		s.lists[upd.IDList] = append(s.lists[upd.IDList], card)
	case upd.Pos == "top":
		remove()
		s.lists[listID] = append([]models.Card{card}, s.lists[listID]...)
	}
	return true
}

func (s *Server) find(cardID string) (string, int) {
	for listID, cards := range s.lists {
		for i, c := range cards {
			if c.ID == cardID {
				return listID, i
			}
		}
	}
	return "", -1
}
