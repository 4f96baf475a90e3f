package feed

import (
	"fmt"

	"github.com/eskoubar95-tech/findjobabroad/internal/config"
)

// NewAdapter builds the feed adapter selected by configuration.
func NewAdapter(cfg *config.FeedConfig) (Adapter, error) {
	switch cfg.Type {
	case config.FeedTypeMock:
		return NewMockAdapter(), nil
	case config.FeedTypeHTTP:
		if cfg.HTTP == nil || cfg.HTTP.Endpoint == "" {
			return nil, fmt.Errorf("http feed endpoint is required")
		}
		return NewHTTPAdapter(cfg.HTTP.Endpoint), nil
	default:
		return nil, fmt.Errorf("unrecognized feed type: %s", cfg.Type)
	}
}
