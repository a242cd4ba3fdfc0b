package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.yaml")
	data := []byte(`start_url: https://diataxis.fr/
delay: 250ms
max_pages: 10
timeout: 5s
output_dir: ./out
validate: false
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := Config{
		StartURL:      "https://diataxis.fr/",
		Delay:         250 * time.Millisecond,
		MaxPages:      10,
		UserAgent:     DefaultUserAgent,
		Timeout:       5 * time.Second,
		OutputDir:     "./out",
		ValidateLinks: false,
	}
	if config != want {
		t.Errorf("LoadConfig = %+v, want %+v", config, want)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if domain := config.CrawlDomain(); domain != want.StartURL {
		t.Errorf("CrawlDomain = %v, want %v", domain, want.StartURL)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig of missing file: error = %v, want %v", err,
			ErrConfigNotFound)
	}

	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("delay: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig with invalid delay: expected error")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.StartURL = "https://example.com/"

	tests := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{"valid", func(*Config) {}, nil},
		{"no start url", func(c *Config) { c.StartURL = "" }, ErrNoStartURL},
		{"negative delay", func(c *Config) { c.Delay = -time.Second },
			ErrInvalidDelay},
		{"negative max pages", func(c *Config) { c.MaxPages = -1 },
			ErrInvalidMaxPages},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second },
			ErrInvalidTimeout},
	}

	for _, test := range tests {
		config := valid
		test.modify(&config)
		if err := config.Validate(); !errors.Is(err, test.err) {
			t.Errorf("%v: Validate = %v, want %v", test.name, err, test.err)
		}
	}
}

func TestConfigSpider(t *testing.T) {
	config := DefaultConfig()
	config.Delay = 5 * time.Millisecond
	config.MaxPages = 3
	config.UserAgent = "test-agent"

	spider := config.Spider(nil, quietLogger())
	if spider.delay != config.Delay {
		t.Errorf("delay = %v, want %v", spider.delay, config.Delay)
	}
	if spider.maxPages != config.MaxPages {
		t.Errorf("maxPages = %v, want %v", spider.maxPages, config.MaxPages)
	}
	if spider.userAgent != config.UserAgent {
		t.Errorf("userAgent = %v, want %v", spider.userAgent,
			config.UserAgent)
	}
}

func TestConfigSpiderTimeout(t *testing.T) {
	stalled := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-stalled:
			}
		}))
	defer srv.Close()
	defer close(stalled)

	config := DefaultConfig()
	config.Timeout = 50 * time.Millisecond

	spider := config.Spider(nil, quietLogger())
	if spider.client.Timeout != config.Timeout {
		t.Errorf("client timeout = %v, want %v", spider.client.Timeout,
			config.Timeout)
	}

	start := time.Now()
	if _, err := spider.FetchPage(context.Background(), srv.URL); err == nil {
		t.Error("FetchPage of stalled server: expected error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("FetchPage of stalled server took %v", elapsed)
	}
}
