package holiday

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CompositeSource tries the primary source and falls back on failure.
// Primary: FeedClient (network), fallback: FileSource (local copy).
// A good primary feed is saved to a fallback that can store it.
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Fetch returns the primary feed, or the fallback one when the primary fails
func (cs *CompositeSource) Fetch(ctx context.Context) (*Feed, error) {
	feed, err := cs.primary.Fetch(ctx)
	if err == nil {
		cs.store(feed)
		return feed, nil
	}

	cs.logger.Warn("Primary holiday source failed, falling back to file",
		zap.Error(err))

	feed, fallbackErr := cs.fallback.Fetch(ctx)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return feed, nil
}

// feedSaver is implemented by fallbacks that keep an offline copy
type feedSaver interface {
	Save(feed *Feed) error
}

func (cs *CompositeSource) store(feed *Feed) {
	saver, ok := cs.fallback.(feedSaver)
	if !ok || feed == nil {
		return
	}
	if err := saver.Save(feed); err != nil {
		cs.logger.Warn("Failed to save holiday feed to fallback", zap.Error(err))
	}
}
