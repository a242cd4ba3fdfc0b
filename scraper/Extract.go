package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// FetchPage returns the HTML content of pageURL. A response with a
// status other than 200 OK results in an error wrapping ErrBadStatus.
func (s *Spider) FetchPage(ctx context.Context, pageURL string) (string,
	error) {
	resp, err := s.get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetchPage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetchPage: %v returned %d: %w", pageURL,
			resp.StatusCode, ErrBadStatus)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return "", fmt.Errorf("fetchPage: could not read %v: %w", pageURL,
			err)
	}
	return string(body), nil
}

// ExtractText fetches pageURL and returns the cleaned text of its main
// article
func (s *Spider) ExtractText(ctx context.Context, pageURL string) (string,
	error) {
	content, err := s.FetchPage(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("extractText: %w", err)
	}

	text, err := ExtractMainContent(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("extractText: %v: %w", pageURL, err)
	}
	return CleanText(text), nil
}

// KeepValid returns the links which begin with domain and respond with
// 200 OK, in their original order. Links that cannot be fetched are
// logged and dropped. An error is only returned if ctx is done.
func (s *Spider) KeepValid(ctx context.Context, links []string,
	domain string) ([]string, error) {
	valid := make([]string, 0, len(links))

	for _, link := range links {
		if !strings.HasPrefix(link, domain) {
			continue
		}

		resp, err := s.get(ctx, link)
		if err != nil {
			if ctx.Err() != nil {
				return valid, ctx.Err()
			}
			s.logger.Warn("could not validate link", "url", link, "error", err)
			continue
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, s.maxBodySize))
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			valid = append(valid, link)
		} else {
			s.logger.Debug("dropping link", "url", link, "status",
				resp.StatusCode)
		}
	}

	return valid, nil
}

// ExtractMainContent parses an HTML document and returns the text of
// its main article, the first <article role="main"> element. Each
// piece of text is trimmed, and non-empty pieces are joined by
// newlines. Scripts, styles and comments are ignored.
func ExtractMainContent(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("extractMainContent: %w", err)
	}

	article := findElement(doc, func(n *html.Node) bool {
		return n.Data == "article" && getAttr(n, "role") == "main"
	})
	if article == nil {
		return "", ErrNoMainContent
	}

	var pieces []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				pieces = append(pieces, text)
			}
			return
		case n.Type == html.ElementNode && (n.Data == "script" ||
			n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(article)

	return strings.Join(pieces, "\n"), nil
}

// findElement returns the first element node below n, in document
// order, for which match returns true
func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

var unsafeSlugChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Slug returns a file name for the content of a link: the last
// segment of its path, or its host for the root page
func Slug(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return unsafeSlugChars.ReplaceAllString(link, "_")
	}

	name := u.Host
	if path := strings.Trim(u.Path, "/"); path != "" {
		name = path[strings.LastIndex(path, "/")+1:]
	}

	name = unsafeSlugChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		return "index"
	}
	return name
}
