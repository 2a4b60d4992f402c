package internal

import (
	"io"

	"github.com/starford/backlog/internal/credentials"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	buy     bool
	reverse bool
	keyring credentials.Keyring

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithBuy triages the buy list instead of the listen list.
func WithBuy(buy bool) Option {
	return func(a *application) {
		a.buy = buy
	}
}

// WithReverse reverses the list order so the oldest cards weigh most.
func WithReverse(reverse bool) Option {
	return func(a *application) {
		a.reverse = reverse
	}
}

// WithKeyring replaces the OS keyring used to look up the API token.
func WithKeyring(k credentials.Keyring) Option {
	return func(a *application) {
		a.keyring = k
	}
}

// WithIO replaces stdin, stdout and stderr. Logs go to errOut.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *application) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}
