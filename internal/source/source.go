// Package source fetches raw entries from one external source and
// normalizes them into news.Items. Adapter behavior is selected by the
// source's Kind: plain feeds pass through, filtered feeds and the signed
// ranking API go through the relevance classifier, and the trusted author
// feed keeps only announcement-grade posts.
//
// No failure here is fatal to a run: every error resolves to zero items
// from that source, reported to the caller and logged.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/WuDuHuange/Gensokyo-Daily/internal/config"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/news"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/relevance"
	"github.com/WuDuHuange/Gensokyo-Daily/internal/sanitize"
)

const userAgent = "Gensokyo-Daily/1.0 (RSS Reader; +https://github.com/WuDuHuange/Gensokyo-Daily)"

// summaryLimit caps stored excerpts.
const summaryLimit = 300

var (
	// ErrSourceUnavailable wraps network failures, non-2xx responses, and
	// malformed bodies. The source contributes nothing this run.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrSigningUnavailable means WBI key material could not be fetched.
	// The dependent source is treated as unavailable; unsigned requests
	// are never sent.
	ErrSigningUnavailable = errors.New("signing unavailable")
)

// Fetcher runs one source at a time. Safe for concurrent use.
type Fetcher struct {
	client     *http.Client
	parser     *gofeed.Parser
	classifier *relevance.Classifier
	log        *slog.Logger

	apiBase   string // bilibili API root for ranking sources
	proxyBase string // optional relay for proxy_fallback sources

	proxyTries int
	proxyDelay time.Duration

	now func() time.Time
}

// Options configures a Fetcher. Zero-value fields fall back to defaults.
type Options struct {
	Timeout    time.Duration
	APIBase    string
	ProxyBase  string
	Classifier *relevance.Classifier
	Logger     *slog.Logger
}

func NewFetcher(opts Options) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	apiBase := opts.APIBase
	if apiBase == "" {
		apiBase = "https://api.bilibili.com"
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		parser:     gofeed.NewParser(),
		classifier: opts.Classifier,
		log:        logger,
		apiBase:    apiBase,
		proxyBase:  opts.ProxyBase,
		proxyTries: 3,
		proxyDelay: 5 * time.Second,
		now:        time.Now,
	}
}

// Fetch retrieves and normalizes one source's items.
func (f *Fetcher) Fetch(ctx context.Context, src config.Source) ([]news.Item, error) {
	if src.Kind == config.KindRanking {
		return f.fetchRanking(ctx, src)
	}
	return f.fetchFeed(ctx, src)
}

func (f *Fetcher) fetchFeed(ctx context.Context, src config.Source) ([]news.Item, error) {
	body, err := f.fetchBody(ctx, src)
	if err != nil {
		return nil, err
	}

	feed, err := f.parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrSourceUnavailable, src.Name, err)
	}

	now := f.now()
	items := make([]news.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.Link)
		if title == "" || link == "" {
			continue
		}

		rawSummary := entry.Description
		if rawSummary == "" {
			rawSummary = entry.Content
		}

		switch src.Kind {
		case config.KindFilteredFeed:
			if f.classifier == nil || !f.classifier.Match(sanitize.StripHTML(rawSummary+" "+title)) {
				continue
			}
		case config.KindAuthorFeed:
			// HighSignal inspects the raw HTML: an embedded <img> is
			// itself a signal.
			if !relevance.HighSignal(rawSummary + " " + title) {
				continue
			}
		}

		items = append(items, news.Item{
			ID:         news.ItemID(title, link),
			Title:      title,
			Link:       link,
			Summary:    sanitize.Excerpt(rawSummary, summaryLimit),
			Image:      extractImage(entry),
			Source:     src.Name,
			SourceIcon: src.Icon,
			Priority:   src.Priority,
			Published:  entryTime(entry, now),
			FetchedAt:  now,
		})
	}
	return items, nil
}

// entryTime picks the entry's publish time, falling back to the update
// time and finally the fetch time. Malformed dates never reject an entry.
func entryTime(entry *gofeed.Item, fallback time.Time) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return fallback
}

// extractImage tries, in order: the feed-level item image, media:content
// and media:thumbnail extensions, image enclosures, and finally the first
// <img> embedded in the entry body.
func extractImage(entry *gofeed.Item) string {
	if entry.Image != nil && entry.Image.URL != "" {
		return entry.Image.URL
	}

	if media, ok := entry.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				url := ext.Attrs["url"]
				if url == "" {
					continue
				}
				if name == "thumbnail" || strings.Contains(ext.Attrs["type"], "image") || hasImageExt(url) {
					return url
				}
			}
		}
	}

	for _, enc := range entry.Enclosures {
		if enc.URL == "" {
			continue
		}
		if strings.Contains(enc.Type, "image") || hasImageExt(enc.URL) {
			return enc.URL
		}
	}

	body := entry.Content
	if body == "" {
		body = entry.Description
	}
	return sanitize.FirstImage(body)
}

func hasImageExt(url string) bool {
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp", ".gif"} {
		if strings.HasSuffix(strings.ToLower(url), ext) {
			return true
		}
	}
	return false
}

// get performs one HTTP GET and returns the body on a 2xx response.
func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Result accumulates one category's fetch outcome. Errors are per-source
// and informational; the items of a failed source are simply absent.
type Result struct {
	Items  []news.Item
	Errors []error
}

// FetchCategory fans out over a category's sources concurrently. There is
// no ordering guarantee between sources; determinism comes later, from the
// store's reduce step.
func (f *Fetcher) FetchCategory(ctx context.Context, sources []config.Source) Result {
	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			items, err := f.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				f.log.Warn("source failed", "source", s.Name, "err", err)
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", s.Name, err))
				return
			}
			f.log.Info("source fetched", "source", s.Name, "items", len(items))
			result.Items = append(result.Items, items...)
		}(src)
	}

	wg.Wait()
	return result
}
