package holiday

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FileSource reads a local copy of the feed, same JSON shape
type FileSource struct {
	fs       afero.Fs
	filePath string
	logger   *zap.Logger
}

// NewFileSource creates a FileSource on the given filesystem
func NewFileSource(fs afero.Fs, filePath string, logger *zap.Logger) *FileSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSource{fs: fs, filePath: filePath, logger: logger}
}

// Fetch reads and decodes the file
func (fs *FileSource) Fetch(ctx context.Context) (*Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs.fs, fs.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday file: %w", err)
	}

	var feed Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse holiday file %s: %w", fs.filePath, err)
	}

	fs.logger.Info("Holiday file loaded",
		zap.String("file", fs.filePath),
		zap.Int("years", len(feed.Years)))

	return &feed, nil
}

// Save writes feed to the file, used to refresh the offline copy
func (fs *FileSource) Save(feed *Feed) error {
	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode holiday feed: %w", err)
	}
	if err := afero.WriteFile(fs.fs, fs.filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write holiday file: %w", err)
	}
	return nil
}
