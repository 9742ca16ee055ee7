// Package websearch looks up products on brand websites through the Google
// Custom Search JSON API.
package websearch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/feeleurope/luxeagent/ai/cache"
	"github.com/feeleurope/luxeagent/ai/query"
)

const (
	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"
	// Google caps a page at ten results.
	maxResults       = 10
	formattedResults = 5
	// NoResultsText is returned when the search succeeded with no items.
	NoResultsText = "未找到相關商品信息"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("google search API key not configured")

// Config configures the Google client.
type Config struct {
	APIKey   string
	EngineID string
	BaseURL  string        // for tests, default is the public endpoint
	Timeout  time.Duration // default 30s
	// Interval is the minimum gap between upstream requests. Default 200ms.
	Interval time.Duration
	CacheTTL time.Duration // default 10m
	CacheCap int           // default 256
	Now      func() time.Time
}

// Item is one search hit.
type Item struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type googleResponse struct {
	Items []Item `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client searches brand sites and renders results as prompt text.
// Safe for concurrent use.
type Client struct {
	apiKey     string
	engineID   string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.LRU[string, string]
	processor  *query.Processor
	now        func() time.Time
}

// NewClient creates a Google search client.
func NewClient(cfg Config, processor *query.Processor) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 200 * time.Millisecond
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.CacheCap <= 0 {
		cfg.CacheCap = 256
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if processor == nil {
		processor = query.Default()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		engineID:   cfg.EngineID,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(cfg.Interval), 1),
		cache:      cache.New[string, string](cfg.CacheCap, cfg.CacheTTL),
		processor:  processor,
		now:        cfg.Now,
	}
}

// IsAvailable reports whether an API key is configured.
func (c *Client) IsAvailable() bool {
	return c.apiKey != ""
}

// CacheStats returns result cache statistics.
func (c *Client) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// BuildQuery rewrites a product query for the search engine: new arrival
// wording, then a site: filter for the detected brand.
func (c *Client) BuildQuery(q string) (string, query.BrandMatch, bool) {
	brand, ok := c.processor.ExtractBrand(q)
	enhanced := query.EnhanceForSearch(q, c.now())
	if ok {
		enhanced = c.processor.SiteRestrictedFor(enhanced, brand.Brand)
	}
	return enhanced, brand, ok
}

// Search runs the product search and returns the top results as text.
// A search with no hits returns NoResultsText and no error.
func (c *Client) Search(ctx context.Context, q string) (string, error) {
	if !c.IsAvailable() {
		return "", ErrNotConfigured
	}

	final, brand, hasBrand := c.BuildQuery(q)
	if text, ok := c.cache.Get(final); ok {
		slog.Debug("web search cache hit", "query", final)
		return text, nil
	}

	items, err := c.fetch(ctx, final, maxResults)
	if err != nil {
		return "", err
	}
	if hasBrand {
		items = SortFrenchFirst(items, brand.Domain)
	}
	text := FormatResults(items, formattedResults)
	c.cache.Set(final, text)

	slog.Info("web search done", "query", final, "items", len(items))
	return text, nil
}

func (c *Client) fetch(ctx context.Context, q string, num int) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait failed")
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", q)
	params.Set("num", strconv.Itoa(min(num, maxResults)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "search request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read search response")
	}

	var parsed googleResponse
	decodeErr := json.Unmarshal(body, &parsed)
	if parsed.Error != nil && parsed.Error.Message != "" {
		return nil, errors.Errorf("google API error (code %d): %s", parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status code %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, errors.Wrap(decodeErr, "failed to decode search response")
	}
	return parsed.Items, nil
}

// SortFrenchFirst moves French storefront links to the front for dior.com.
// Other domains are returned unchanged. Nothing is dropped.
func SortFrenchFirst(items []Item, domain string) []Item {
	if domain != "dior.com" {
		return items
	}
	out := make([]Item, 0, len(items))
	var rest []Item
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Link), "/fr_fr/") {
			out = append(out, it)
		} else {
			rest = append(rest, it)
		}
	}
	return append(out, rest...)
}

// FormatResults renders up to limit items as title / snippet / link blocks.
func FormatResults(items []Item, limit int) string {
	if len(items) == 0 {
		return NoResultsText
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	blocks := make([]string, 0, len(items))
	for _, it := range items {
		blocks = append(blocks, "標題: "+it.Title+"\n摘要: "+it.Snippet+"\n鏈接: "+it.Link)
	}
	return strings.Join(blocks, "\n\n")
}
