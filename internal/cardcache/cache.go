// Package cardcache keeps a short-lived copy of each triaged list's cards.
package cardcache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/backlog/internal/models"
)

// DefaultTTL is how long a fetched list is reused before refetching.
const DefaultTTL = 600 * time.Second

// Source fetches the current cards of a remote list.
type Source interface {
	Cards(ctx context.Context, listID string) ([]models.Card, error)
}

type entry struct {
	cards     []models.Card
	fetchedAt time.Time
}

// Cache holds one entry per ListKind.
//
// It is not safe for concurrent use; the triage loop owns it.
type Cache struct {
	source  Source
	lists   models.ListIDs
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	entries map[models.ListKind]entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets the logger used for cache miss diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a cache over source. A non-positive ttl falls back to DefaultTTL.
func New(source Source, lists models.ListIDs, ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		source:  source,
		lists:   lists,
		ttl:     ttl,
		now:     time.Now,
		logger:  slog.Default(),
		entries: make(map[models.ListKind]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cards of kind, fetching them when the cached entry is
// missing or older than the TTL. The returned slice is a fresh copy.
func (c *Cache) Get(ctx context.Context, kind models.ListKind) ([]models.Card, error) {
	now := c.now()
	if e, ok := c.entries[kind]; ok && now.Sub(e.fetchedAt) < c.ttl {
		return clone(e.cards), nil
	}

	listID := c.lists.ID(kind)
	c.logger.Debug("cache: fetching list", slog.String("list", kind.String()), slog.String("list_id", listID))

	cards, err := c.source.Cards(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("cardcache: fetch %s list: %w", kind, err)
	}
	c.entries[kind] = entry{cards: cards, fetchedAt: now}
	return clone(cards), nil
}

// Invalidate discards the entry for kind.
func (c *Cache) Invalidate(kind models.ListKind) {
	delete(c.entries, kind)
}

// InvalidateAll discards every entry.
func (c *Cache) InvalidateAll() {
	clear(c.entries)
}

func clone(cards []models.Card) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	return out
}
