// Package credentials stores the Trello API token in the OS keyring.
package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zalando/go-keyring"
)

// Service is the keyring service the token is stored under. The account is
// the Trello API key.
const Service = "backlog-trello"

// ErrNotFound is returned when no token is stored for a key.
var ErrNotFound = errors.New("credentials: token not found")

// Keyring is the subset of keyring operations the store needs.
type Keyring interface {
	Set(service, account, secret string) error
	Get(service, account string) (string, error)
	Delete(service, account string) error
}

// systemKeyring talks to the OS keyring through go-keyring.
type systemKeyring struct{}

func (systemKeyring) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

func (systemKeyring) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return secret, err
}

func (systemKeyring) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Store reads and writes tokens keyed by API key.
type Store struct {
	keyring Keyring
}

// Option configures a Store.
type Option func(*Store)

// WithKeyring replaces the OS keyring.
func WithKeyring(k Keyring) Option {
	return func(s *Store) {
		s.keyring = k
	}
}

// NewStore creates a store backed by the OS keyring.
func NewStore(opts ...Option) *Store {
	s := &Store{keyring: systemKeyring{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetToken stores token for apiKey.
func (s *Store) SetToken(apiKey, token string) error {
	apiKey, token = strings.TrimSpace(apiKey), strings.TrimSpace(token)
	if apiKey == "" {
		return errors.New("credentials: api key is required")
	}
	if token == "" {
		return errors.New("credentials: token is empty")
	}
	if err := s.keyring.Set(Service, apiKey, token); err != nil {
		return fmt.Errorf("credentials: store token: %w", err)
	}
	return nil
}

// Token returns the token stored for apiKey.
func (s *Store) Token(apiKey string) (string, error) {
	token, err := s.keyring.Get(Service, strings.TrimSpace(apiKey))
	if err != nil {
		return "", fmt.Errorf("credentials: read token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the token stored for apiKey.
func (s *Store) DeleteToken(apiKey string) error {
	if err := s.keyring.Delete(Service, strings.TrimSpace(apiKey)); err != nil {
		return fmt.Errorf("credentials: delete token: %w", err)
	}
	return nil
}

// Resolve returns configured when it is non-empty, otherwise the token stored
// for apiKey.
func (s *Store) Resolve(apiKey, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	return s.Token(apiKey)
}

// ReadToken prompts on w and reads one line from r.
func ReadToken(r io.Reader, w io.Writer) (string, error) {
	_, _ = fmt.Fprint(w, "Trello token: ")

	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		if token := strings.TrimSpace(scanner.Text()); token != "" {
			return token, nil
		}
		return "", errors.New("credentials: token is empty")
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("credentials: read input: %w", err)
	}
	return "", errors.New("credentials: no input received")
}
