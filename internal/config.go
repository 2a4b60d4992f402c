package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/backlog/internal/apperr"
	"github.com/starford/backlog/internal/cardcache"
	"github.com/starford/backlog/internal/models"
	"github.com/starford/backlog/internal/trello"
	"github.com/starford/backlog/internal/triage"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app" toml:"app"`
	Trello TrelloConfig      `yaml:"trello" toml:"trello"`
	Lists  ListsConfig       `yaml:"lists" toml:"lists"`
	Triage TriageConfig      `yaml:"triage" toml:"triage"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Trello.Validate(); err != nil {
		return fmt.Errorf("%w: trello: %w", apperr.ErrConfig, err)
	}
	if err := c.Lists.Validate(); err != nil {
		return fmt.Errorf("%w: lists: %w", apperr.ErrConfig, err)
	}
	if err := c.Triage.Validate(); err != nil {
		return fmt.Errorf("%w: triage: %w", apperr.ErrConfig, err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" toml:"log_level"`
}

// TrelloConfig holds API access settings.
//
// The token may be left empty when UseKeyring is set; it is then read from
// the OS keyring under the API key (see the "token set" command).
type TrelloConfig struct {
	BaseURL      string        `yaml:"base_url" toml:"base_url"`
	Key          string        `yaml:"key" toml:"key"`
	Token        string        `yaml:"token" toml:"token"`
	UseKeyring   bool          `yaml:"use_keyring" toml:"use_keyring"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" toml:"fetch_timeout"`
}

// Validate validates the Trello configuration.
func (c *TrelloConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Key, validation.Required),
		validation.Field(&c.Token, validation.When(!c.UseKeyring, validation.Required.Error("is required unless use_keyring is set"))),
		validation.Field(&c.FetchTimeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

// ListsConfig holds the remote ids of the two lists.
type ListsConfig struct {
	Buy    string `yaml:"buy" toml:"buy"`
	Listen string `yaml:"listen" toml:"listen"`
}

// Validate validates the list configuration.
func (c *ListsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Buy, validation.Required),
		validation.Field(&c.Listen, validation.Required),
	)
}

// IDs binds each list kind to its configured id.
func (c *ListsConfig) IDs() models.ListIDs {
	return models.ListIDs{Buy: c.Buy, Listen: c.Listen}
}

// TriageConfig tunes the interactive loop.
type TriageConfig struct {
	CacheTTL           time.Duration    `yaml:"cache_ttl" toml:"cache_ttl"`
	MaxInFlight        int              `yaml:"max_in_flight" toml:"max_in_flight"`
	PollInterval       time.Duration    `yaml:"poll_interval" toml:"poll_interval"`
	InvalidateOnMutate bool             `yaml:"invalidate_on_mutate" toml:"invalidate_on_mutate"`
	// SkipRules left unset (nil) selects triage.DefaultSkipRules; an explicit
	// empty list disables auto-skip. Defaults are not stored here so that
	// decoders never merge a configured rule into a default one.
	SkipRules []SkipRuleConfig `yaml:"skip_rules" toml:"skip_rules"`
}

// Validate validates the triage configuration.
func (c *TriageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.CacheTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.MaxInFlight, validation.Required, validation.Min(1)),
		validation.Field(&c.PollInterval, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.SkipRules),
	)
}

// Rules compiles the configured skip rules in order.
func (c *TriageConfig) Rules() ([]triage.SkipRule, error) {
	if c.SkipRules == nil {
		return triage.DefaultSkipRules(), nil
	}
	rules := make([]triage.SkipRule, 0, len(c.SkipRules))
	for _, rc := range c.SkipRules {
		r, err := triage.PatternRule(rc.Name, rc.Match, rc.Unless)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// SkipRuleConfig archives cards whose description matches Match and, when
// set, does not match Unless.
type SkipRuleConfig struct {
	Name   string `yaml:"name" toml:"name"`
	Match  string `yaml:"match" toml:"match"`
	Unless string `yaml:"unless" toml:"unless"`
}

// Validate validates a skip rule.
func (c SkipRuleConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Match, validation.Required, validation.By(compiles)),
		validation.Field(&c.Unless, validation.By(compiles)),
	)
}

func compiles(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := regexp.Compile(s); err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Trello: TrelloConfig{
			BaseURL:      trello.DefaultBaseURL,
			FetchTimeout: 30 * time.Second,
		},
		Triage: TriageConfig{
			CacheTTL:     cardcache.DefaultTTL,
			MaxInFlight:  triage.DefaultMaxInFlight,
			PollInterval: time.Second,
		},
	}
}
