// Package scraper implements a simple web crawler and article text
// extractor.
//
// A Spider recursively discovers all links of a website that fall
// within a given domain, visiting pages depth first and waiting a fixed
// delay between requests. The text of the main article of each page
// can then be extracted and cleaned with ExtractText.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Spider crawls the pages of a website
type Spider struct {
	client *http.Client
	logger *slog.Logger

	// delay is the time to wait before visiting each newly found page
	delay time.Duration

	// maxPages limits the number of pages that are visited, 0 means
	// no limit
	maxPages int

	userAgent   string
	maxBodySize int64
}

// SpiderOption configures a Spider
type SpiderOption func(*Spider)

// WithDelay sets the delay between requests
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithMaxPages sets the maximum number of pages to visit
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithUserAgent sets the User-Agent header of all requests
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		s.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of bytes read from a response
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		s.maxBodySize = size
	}
}

// WithLogger sets the logger of the Spider
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// DefaultUserAgent is the User-Agent used when none is configured
const DefaultUserAgent = "chaski-scraper/1.0"

// NewSpider creates a new Spider which issues requests with client. If
// client is nil, http.DefaultClient is used.
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	if client == nil {
		client = http.DefaultClient
	}

	s := &Spider{
		client:      client,
		logger:      slog.Default(),
		delay:       1 * time.Second,
		userAgent:   DefaultUserAgent,
		maxBodySize: 10 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FindLinks recursively finds all unique links reachable from startURL
// which begin with domain. The returned links are sorted and always
// include startURL, normalized in the same way as the links found.
//
// Links are resolved against the page they appear on, and their query
// and fragment are removed. Pages which cannot be fetched are logged
// and skipped. FindLinks only returns an error if ctx is done, in which
// case the links found so far are returned along with the error.
func (s *Spider) FindLinks(ctx context.Context, startURL,
	domain string) ([]string, error) {
	if u, err := url.Parse(startURL); err == nil {
		if link, ok := normalizeLink(u, startURL); ok {
			startURL = link
		}
	}

	visited := make(map[string]struct{})
	err := s.findLinks(ctx, startURL, domain, visited)

	links := make([]string, 0, len(visited))
	for link := range visited {
		links = append(links, link)
	}
	sort.Strings(links)

	return links, err
}

// findLinks visits pageURL and then recursively visits each new link
// on the page, depth first
func (s *Spider) findLinks(ctx context.Context, pageURL, domain string,
	visited map[string]struct{}) error {
	visited[pageURL] = struct{}{}

	links, err := s.pageLinks(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("could not fetch page", "url", pageURL, "error", err)
		return nil
	}

	for _, link := range links {
		if s.maxPages > 0 && len(visited) >= s.maxPages {
			return nil
		}
		if _, ok := visited[link]; ok || !strings.HasPrefix(link, domain) {
			continue
		}

		visited[link] = struct{}{}
		s.logger.Info("found a new page", "url", link)

		if err := s.wait(ctx); err != nil {
			return err
		}
		if err := s.findLinks(ctx, link, domain, visited); err != nil {
			return err
		}
	}

	return nil
}

// wait waits for the politeness delay or until ctx is done
func (s *Spider) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pageLinks fetches pageURL and returns the normalized links it
// contains, in document order. Links are extracted regardless of the
// response status.
func (s *Spider) pageLinks(ctx context.Context, pageURL string) ([]string,
	error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("pageLinks: invalid URL: %w", err)
	}

	resp, err := s.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("pageLinks: could not parse %v: %w", pageURL,
			err)
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if link, ok := normalizeLink(base, getAttr(n, "href")); ok {
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// get issues a GET request for pageURL
func (s *Spider) get(ctx context.Context, pageURL string) (*http.Response,
	error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return resp, nil
}

// normalizeLink resolves href against base and removes its query,
// fragment and user info. An empty path becomes "/". Links that are
// empty or that do not use the http or https scheme are rejected.
func normalizeLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + u.Host + path, true
}

// getAttr returns the value of the attribute key of n
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
