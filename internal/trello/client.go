// Package trello is a minimal client for the Trello REST API v1.
package trello

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/backlog/internal/models"
)

// DefaultBaseURL is the Trello REST API v1 base URL.
const DefaultBaseURL = "https://api.trello.com/1"

// Config holds Trello connection settings.
type Config struct {
	BaseURL string // Override for testing
	Key     string
	Token   string
	// FetchTimeout bounds card list requests. Mutations are never bounded.
	FetchTimeout time.Duration
	HTTPClient   *http.Client
}

// Client talks to the Trello API.
type Client struct {
	baseURL      string
	key          string
	token        string
	fetchTimeout time.Duration
	http         *http.Client
}

// NewClient creates a new Trello client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("trello: API key is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("trello: API token is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:      baseURL,
		key:          cfg.Key,
		token:        cfg.Token,
		fetchTimeout: cfg.FetchTimeout,
		http:         httpClient,
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type apiCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Desc        string `json:"desc"`
	ShortURL    string `json:"shortUrl"`
	Attachments []struct {
		URL string `json:"url"`
	} `json:"attachments"`
}

// Cards returns the open cards of listID in their list order.
func (c *Client) Cards(ctx context.Context, listID string) ([]models.Card, error) {
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	query := url.Values{}
	query.Set("fields", "id,name,desc,shortUrl")
	query.Set("attachments", "true")
	query.Set("attachment_fields", "url")

	resp, err := c.doRequest(ctx, http.MethodGet, "/lists/"+url.PathEscape(listID)+"/cards", query, nil)
	if err != nil {
		return nil, fmt.Errorf("trello: get cards: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trello: get cards of list %s: %w", listID, statusError(resp))
	}

	var raw []apiCard
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("trello: decode cards: %w", err)
	}

	cards := make([]models.Card, len(raw))
	for i, rc := range raw {
		attachments := make([]models.Attachment, len(rc.Attachments))
		for j, a := range rc.Attachments {
			attachments[j] = models.Attachment{URL: a.URL}
		}
		cards[i] = models.Card{
			ID:          rc.ID,
			Name:        rc.Name,
			Desc:        rc.Desc,
			ShortURL:    rc.ShortURL,
			Attachments: attachments,
		}
	}
	return cards, nil
}

// UpdateCard applies upd to the card with cardID.
func (c *Client) UpdateCard(ctx context.Context, cardID string, upd models.CardUpdate) error {
	resp, err := c.doRequest(ctx, http.MethodPut, "/cards/"+url.PathEscape(cardID), nil, upd)
	if err != nil {
		return fmt.Errorf("trello: update card %s: %w", cardID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("trello: update card %s: %w", cardID, statusError(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// doRequest performs an authenticated request. Key and token travel as query
// parameters, which is how the Trello API expects them.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.key)
	query.Set("token", c.token)

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// StatusError is returned for non-success API responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
}
