package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
	maxFeedSize        = 4 << 20
)

// ErrFeedStatus is returned when the feed answers with a non-200 status
var ErrFeedStatus = errors.New("holiday feed returned unexpected status")

// FeedClient fetches the holiday feed over HTTP. It makes one attempt per
// call and keeps the last good document for cacheTTL.
type FeedClient struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	cacheTTL   time.Duration

	cacheMu   sync.RWMutex
	cached    *Feed
	fetchedAt time.Time
}

// NewFeedClient creates a new FeedClient instance
func NewFeedClient(url string, timeout, cacheTTL time.Duration, logger *zap.Logger) *FeedClient {
	if url == "" {
		url = DefaultFeedURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &FeedClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Fetch returns the feed, from cache when still fresh
func (c *FeedClient) Fetch(ctx context.Context) (*Feed, error) {
	c.cacheMu.RLock()
	if c.cached != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		feed, fetchedAt := c.cached, c.fetchedAt
		c.cacheMu.RUnlock()
		c.logger.Debug("Using cached holiday feed", zap.Time("fetched_at", fetchedAt))
		return feed, nil
	}
	c.cacheMu.RUnlock()

	feed, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cached = feed
	c.fetchedAt = time.Now()
	c.cacheMu.Unlock()

	return feed, nil
}

// Invalidate drops the cached document so the next Fetch hits the network
func (c *FeedClient) Invalidate() {
	c.cacheMu.Lock()
	c.cached = nil
	c.cacheMu.Unlock()
}

func (c *FeedClient) fetch(ctx context.Context) (*Feed, error) {
	c.logger.Debug("Fetching holiday feed", zap.String("url", c.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holiday feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrFeedStatus, resp.StatusCode)
	}

	var feed Feed
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedSize)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode holiday feed: %w", err)
	}

	c.logger.Info("Holiday feed fetched",
		zap.String("version", feed.Version),
		zap.String("generated", feed.Generated),
		zap.Int("years", len(feed.Years)))

	return &feed, nil
}
