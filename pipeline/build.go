package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"newsai/config"
	"newsai/extractor"
	"newsai/fetcher"
	"newsai/inference"
	"newsai/normalizer"

	"github.com/rs/zerolog"
)

// Build wires a pipeline and its inference provider from configuration.
// The s3:// source is only registered when s3.enabled is set and an AWS
// configuration can be loaded.
func Build(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Pipeline, inference.Provider, error) {
	provider, err := inference.New(cfg, &http.Client{})
	if err != nil {
		return nil, nil, fmt.Errorf("inference provider: %w", err)
	}

	httpCfg := fetcher.HTTPConfig{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
	}
	router := fetcher.NewRouter(fetcher.NewHTTPFetcher(httpCfg))
	if !cfg.S3.Enabled {
		logger.Info().Msg("s3 source disabled")
	} else if s3f, err := fetcher.NewS3Fetcher(ctx, cfg.S3); err != nil {
		logger.Warn().Err(err).Msg("s3 source disabled")
	} else {
		router.Handle("s3", s3f)
		logger.Info().Strs("allowed_buckets", cfg.S3.AllowedBuckets).Msg("s3 source enabled")
	}

	p, err := New(Deps{
		Fetcher: router,
		Feeds:   fetcher.NewFeedResolver(httpCfg),
		Extractor: extractor.New(extractor.Config{
			MinParagraphChars: cfg.ParagraphThreshold(),
			MinArticleChars:   cfg.Extract.MinArticleChars,
		}),
		Normalizer: normalizer.New(cfg.Normalize.MaxInputChars),
		Summarizer: provider,
		Classifier: provider,
		Bounds:     cfg.SummaryBounds(),
		Metadata:   true,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info().
		Str("provider", provider.Name()).
		Int("paragraph_threshold", cfg.ParagraphThreshold()).
		Int("max_input_chars", cfg.Normalize.MaxInputChars).
		Msg("pipeline ready")
	return p, provider, nil
}
