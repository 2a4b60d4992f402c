package triage

import (
	"fmt"
	"io"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/starford/backlog/internal/models"
)

const (
	heavyDivider = "================"
	lightDivider = "~~~~~~~~~~~~~~~~"
)

var asciiOnly = runes.Map(func(r rune) rune {
	if r > unicode.MaxASCII {
		return '?'
	}
	return r
})

// Sanitize replaces every non-ASCII rune with '?'.
func Sanitize(s string) string {
	out, _, err := transform.String(asciiOnly, s)
	if err != nil {
		return s
	}
	return out
}

// errWriter remembers the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) println(a ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, a...)
}

func (ew *errWriter) printf(format string, a ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

// PrintCard writes card followed by its position and selection probability.
// index is 0-based within the ordering the card was drawn from.
func PrintCard(w io.Writer, card models.Card, index, total int, probability float64) error {
	ew := &errWriter{w: w}

	ew.println(heavyDivider)
	ew.println(Sanitize(card.Name))

	ew.println(lightDivider)
	ew.println(Sanitize(card.Desc))

	if len(card.Attachments) > 0 {
		ew.println(lightDivider)
		ew.println("Attachments:")
		for _, a := range card.Attachments {
			ew.println(Sanitize(a.URL))
		}
	}

	ew.println(lightDivider)
	ew.println("Card:")
	ew.println(Sanitize(card.ShortURL))
	ew.println(heavyDivider)
	ew.println()

	ew.printf("%4d/%4d, %3.2f%%\n", index, total, probability*100)
	return ew.err
}
