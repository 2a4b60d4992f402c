// Package models defines the domain types for backlog.
package models

import "fmt"

// Attachment is a link attached to a card.
type Attachment struct {
	URL string `json:"url"`
}

// Card is one item on a Trello list.
type Card struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Desc        string       `json:"desc"`
	ShortURL    string       `json:"shortUrl"`
	Attachments []Attachment `json:"attachments"`
}

// ListKind selects one of the two triaged lists.
type ListKind int

const (
	ListListen ListKind = iota
	ListBuy
)

// String returns the list name used in logs.
func (k ListKind) String() string {
	switch k {
	case ListListen:
		return "listen"
	case ListBuy:
		return "buy"
	default:
		return fmt.Sprintf("ListKind(%d)", int(k))
	}
}

// ListIDs binds each ListKind to its remote list identifier.
type ListIDs struct {
	Buy    string
	Listen string
}

// ID returns the remote list identifier for kind.
func (l ListIDs) ID(kind ListKind) string {
	if kind == ListBuy {
		return l.Buy
	}
	return l.Listen
}

// CardUpdate is the payload of a card mutation. Zero fields are omitted.
type CardUpdate struct {
	Closed bool   `json:"closed,omitempty"`
	IDList string `json:"idList,omitempty"`
	Pos    string `json:"pos,omitempty"`
}

// IsZero reports whether the update carries no change.
func (u CardUpdate) IsZero() bool {
	return u == CardUpdate{}
}
