package scraper

import "errors"

var (
	// ErrBadStatus is returned when a page responds with a status other
	// than 200 OK
	ErrBadStatus = errors.New("unexpected status code")

	// ErrNoMainContent is returned when a page has no main article
	ErrNoMainContent = errors.New("no main content found")

	// ErrConfigNotFound is returned when a configuration file does not
	// exist
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrNoStartURL is returned when no URL to start crawling from is
	// configured
	ErrNoStartURL = errors.New("no start URL specified")

	// ErrInvalidDelay is returned when the crawl delay is negative
	ErrInvalidDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxPages is returned when the page limit is negative
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is negative
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")
)
