// Package fetch downloads the article behind a submitted URL and reduces it to
// plain text for classification.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultMaxBytes = 1 << 20
	DefaultTimeout  = 10 * time.Second
	userAgent       = "automaton-verify/1.0 (+news verification)"
	maxRedirects    = 10
)

// Fetcher implements verification.ContentFetcher over HTTP.
type Fetcher struct {
	client   *http.Client
	validate func(string) error
	policy   *bluemonday.Policy
	maxBytes int64
}

// New builds a Fetcher. validate vets every URL before it is requested,
// redirect targets included, and should reject internal addresses. The
// caller's client is copied, not modified.
func New(client *http.Client, validate func(string) error, maxBytes int64) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout, Transport: GuardedTransport()}
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)

	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.New("stopped after 10 redirects")
		}
		if validate == nil {
			return nil
		}
		if err := validate(req.URL.String()); err != nil {
			return fmt.Errorf("redirect to %s: %w", req.URL.Redacted(), err)
		}
		return nil
	}
	return &Fetcher{
		client:   &c,
		validate: validate,
		policy:   policy,
		maxBytes: maxBytes,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.validate != nil {
		if err := f.validate(rawURL); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return f.PlainText(string(body)), nil
}

// PlainText strips markup, scripts and styles and collapses whitespace.
func (f *Fetcher) PlainText(doc string) string {
	doc = dropElements(doc, "script", "style", "noscript")
	text := html.UnescapeString(f.policy.Sanitize(doc))
	return strings.Join(strings.Fields(text), " ")
}

// dropElements removes whole <tag>...</tag> blocks; StrictPolicy only strips
// the tags and would keep script bodies as text.
func dropElements(doc string, tags ...string) string {
	lower := strings.ToLower(doc)
	for _, tag := range tags {
		open, end := "<"+tag, "</"+tag+">"
		for {
			i := strings.Index(lower, open)
			if i < 0 {
				break
			}
			j := strings.Index(lower[i:], end)
			if j < 0 {
				doc, lower = doc[:i], lower[:i]
				break
			}
			j += i + len(end)
			doc, lower = doc[:i]+" "+doc[j:], lower[:i]+" "+lower[j:]
		}
	}
	return doc
}
