package scraper

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes a crawl. It can be loaded from a YAML file such as:
//
//	start_url: https://diataxis.fr/
//	domain: https://diataxis.fr/
//	delay: 1s
//	output_dir: ./diataxis
//	validate: true
type Config struct {
	// StartURL is the page to start crawling from
	StartURL string `yaml:"start_url"`

	// Domain restricts the crawl to links beginning with it. If empty,
	// StartURL is used.
	Domain string `yaml:"domain"`

	// Delay is the time waited before visiting each new page
	Delay time.Duration `yaml:"delay"`

	// MaxPages limits the number of pages visited, 0 means no limit
	MaxPages int `yaml:"max_pages"`

	UserAgent string `yaml:"user_agent"`

	// Timeout limits the time taken by each request, 0 means no limit
	Timeout time.Duration `yaml:"timeout"`

	// OutputDir is the directory that link lists and extracted
	// content are written to
	OutputDir string `yaml:"output_dir"`

	// ValidateLinks determines whether links are checked for a 200 OK
	// response before their content is extracted
	ValidateLinks bool `yaml:"validate"`
}

// DefaultTimeout is the default time limit of each request
const DefaultTimeout = 30 * time.Second

// DefaultConfig returns the default crawl configuration
func DefaultConfig() Config {
	return Config{
		Delay:         1 * time.Second,
		UserAgent:     DefaultUserAgent,
		Timeout:       DefaultTimeout,
		OutputDir:     ".",
		ValidateLinks: true,
	}
}

// LoadConfig loads a crawl configuration from a YAML file. Fields that
// are missing from the file keep their default values. If the file
// does not exist, ErrConfigNotFound is returned.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, ErrConfigNotFound
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks that the configuration describes a valid crawl
func (c Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// CrawlDomain returns the domain the crawl is restricted to
func (c Config) CrawlDomain() string {
	if c.Domain == "" {
		return c.StartURL
	}
	return c.Domain
}

// Spider returns a Spider configured for the crawl. If client is nil,
// a client limited by the configured timeout is used.
func (c Config) Spider(client *http.Client, logger *slog.Logger) *Spider {
	if client == nil {
		client = &http.Client{Timeout: c.Timeout}
	}

	opts := []SpiderOption{
		WithDelay(c.Delay),
		WithMaxPages(c.MaxPages),
	}
	if c.UserAgent != "" {
		opts = append(opts, WithUserAgent(c.UserAgent))
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	return NewSpider(client, opts...)
}
