package triage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/starford/backlog/internal/apperr"
	"github.com/starford/backlog/internal/models"
	"github.com/starford/backlog/internal/weighting"
)

// DefaultMaxInFlight is how many mutations may run before the loop waits.
const DefaultMaxInFlight = 10

const separatorLines = 16

// CardSource provides the (possibly cached) cards of a list.
type CardSource interface {
	Get(ctx context.Context, kind models.ListKind) ([]models.Card, error)
	InvalidateAll()
}

// Mutator applies a card update remotely.
type Mutator interface {
	UpdateCard(ctx context.Context, cardID string, upd models.CardUpdate) error
}

// Config controls a Loop.
type Config struct {
	List    models.ListKind
	Reverse bool
	// MaxInFlight is the number of mutations allowed to run before the loop
	// blocks. Zero means DefaultMaxInFlight.
	MaxInFlight        int
	PollInterval       time.Duration
	InvalidateOnMutate bool
	Actions            []Action
	SkipRules          []SkipRule
}

// Loop is the interactive triage state machine.
type Loop struct {
	cards   CardSource
	mutator Mutator
	cfg     Config
	tracker *Tracker

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(l *Loop) {
		l.in = in
		l.out = out
		l.errOut = errOut
	}
}

// WithRand sets the random source used to draw cards.
func WithRand(r *rand.Rand) Option {
	return func(l *Loop) {
		l.rng = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates a loop over cards that sends updates through mutator.
func NewLoop(cards CardSource, mutator Mutator, cfg Config, opts ...Option) *Loop {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = DefaultMaxInFlight
	}
	if cfg.Actions == nil {
		cfg.Actions = DefaultActions("")
	}

	l := &Loop{
		cards:   cards,
		mutator: mutator,
		cfg:     cfg,
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.tracker = NewTracker(cfg.PollInterval, l.logger)
	return l
}

// Run presents cards until the user quits, then waits for every dispatched
// mutation to finish. Fetch failures, an empty list and display failures end
// the run immediately with an error.
func (l *Loop) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(l.in, done)

	for {
		quit, err := l.step(ctx, lines)
		if err != nil {
			return err
		}
		if quit {
			break
		}
	}

	l.tracker.Drain(func(pending int) {
		fmt.Fprintf(l.out, "Waiting for %d actions to complete\n", pending)
	})
	return nil
}

// step runs one Fetching → Dispatching pass and reports whether to quit.
func (l *Loop) step(ctx context.Context, lines <-chan string) (bool, error) {
	if ctx.Err() != nil {
		return true, nil
	}

	cards, err := l.cards.Get(ctx, l.cfg.List)
	if err != nil {
		// Interrupted mid-fetch: quit so dispatched mutations still drain.
		if ctx.Err() != nil {
			return true, nil
		}
		return false, err
	}
	if len(cards) == 0 {
		return false, fmt.Errorf("triage: %s list: %w", l.cfg.List, apperr.ErrNoCards)
	}
	if l.cfg.Reverse {
		slices.Reverse(cards)
	}

	probs, err := weighting.Probabilities(len(cards))
	if err != nil {
		return false, err
	}
	idx := weighting.Choose(l.rng, probs)
	card := cards[idx]

	action, skipped := l.autoSkip(card)
	if !skipped {
		if err := PrintCard(l.out, card, idx, len(cards), probs[idx]); err != nil {
			fmt.Fprintln(l.errOut, "Error printing card", card.ShortURL)
			return false, fmt.Errorf("triage: print card %s: %w: %w", card.ShortURL, apperr.ErrDisplay, err)
		}
		action = l.awaitDecision(ctx, lines)
	}

	fmt.Fprintln(l.out, action.Label)
	l.flush()

	switch {
	case action.Mutates():
		l.dispatch(ctx, card, action)
	case action.Kind == ActionQuit:
		return true, nil
	}

	fmt.Fprint(l.out, strings.Repeat("\n", separatorLines+1))

	limit := l.cfg.MaxInFlight
	l.tracker.WaitAtMost(limit, func(pending int) {
		fmt.Fprintf(l.out, "Waiting for %d actions to complete\n", pending-limit)
	})
	return false, nil
}

func (l *Loop) autoSkip(card models.Card) (Action, bool) {
	rule, ok := matchSkipRule(l.cfg.SkipRules, card)
	if !ok {
		return Action{}, false
	}
	archive, ok := ActionOfKind(l.cfg.Actions, ActionArchive)
	if !ok {
		return Action{}, false
	}
	fmt.Fprintf(l.out, "Skipping %s %s %s...\n", rule.Name, Sanitize(card.Name), card.ShortURL)
	return archive, true
}

// awaitDecision prompts until a known key is entered. End of input and
// context cancellation both count as quitting.
func (l *Loop) awaitDecision(ctx context.Context, lines <-chan string) Action {
	prompt := PromptLine(l.cfg.Actions)
	for {
		fmt.Fprintln(l.out, prompt)
		l.flush()

		var line string
		var ok bool
		select {
		case line, ok = <-lines:
		case <-ctx.Done():
		}
		if !ok {
			return l.quitAction()
		}

		if a, found := FindAction(l.cfg.Actions, normalizeKey(line)); found {
			return a
		}
		fmt.Fprintln(l.out, "U wot m8?")
	}
}

func (l *Loop) quitAction() Action {
	if a, ok := ActionOfKind(l.cfg.Actions, ActionQuit); ok {
		return a
	}
	return Action{Kind: ActionQuit, Key: "q", Label: "[Q]uit"}
}

func (l *Loop) dispatch(ctx context.Context, card models.Card, action Action) {
	upd := action.Update
	cardID := card.ID
	l.logger.Debug("dispatching mutation",
		slog.String("card_id", cardID),
		slog.String("action", action.Key))

	l.tracker.Dispatch(ctx, cardID, func(ctx context.Context) error {
		return l.mutator.UpdateCard(ctx, cardID, upd)
	})

	if l.cfg.InvalidateOnMutate {
		l.cards.InvalidateAll()
	}
}

func (l *Loop) flush() {
	if f, ok := l.out.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}

// readLines feeds lines from r until EOF or until done is closed.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}
