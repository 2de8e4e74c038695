package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsai/extractor"
	"newsai/fetcher"
	"newsai/inference"
	"newsai/normalizer"
	"newsai/types"

	"github.com/rs/zerolog"
)

// Stage names used in logs
const (
	StageSelectSource = "select_source"
	StageValidate     = "validate"
	StageNormalize    = "normalize"
	StageSummarize    = "summarize"
	StageClassify     = "classify"
	StageAssemble     = "assemble"
)

// TextExtractor turns raw HTML into article text, "" meaning nothing usable
type TextExtractor interface {
	Extract(html string) string
}

// FeedResolver turns a feed URL or preset into the URL of its newest article
type FeedResolver interface {
	LatestArticle(ctx context.Context, feed string) (string, error)
}

// Deps are the collaborators of a Pipeline. Providers are built once at startup and shared.
type Deps struct {
	Fetcher    fetcher.ContentFetcher
	Feeds      FeedResolver
	Extractor  TextExtractor
	Normalizer *normalizer.Normalizer
	Summarizer inference.Summarizer
	Classifier inference.SentimentClassifier
	Bounds     types.SummaryBounds
	// Metadata attaches readability metadata to URL reports
	Metadata bool
	Logger   zerolog.Logger
}

// Pipeline runs one article through source selection, normalization,
// summarization and sentiment classification. It is safe for concurrent use.
type Pipeline struct {
	deps Deps
}

// New validates deps and returns a pipeline
func New(deps Deps) (*Pipeline, error) {
	if deps.Summarizer == nil || deps.Classifier == nil {
		return nil, errors.New("pipeline: summarizer and classifier are required")
	}
	if deps.Fetcher == nil {
		deps.Fetcher = fetcher.NewHTTPFetcher(fetcher.HTTPConfig{})
	}
	if deps.Extractor == nil {
		deps.Extractor = extractor.New(extractor.Config{})
	}
	if deps.Normalizer == nil {
		deps.Normalizer = normalizer.New(0)
	}
	return &Pipeline{deps: deps}, nil
}

// Analyze runs a single request. Every failure is an *types.AnalysisError.
// Providers are only called once the input has been validated and normalized.
func (p *Pipeline) Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisReport, error) {
	logger := p.logger(ctx)
	start := time.Now()

	source, ok := types.ParseSourceType(strings.TrimSpace(strings.ToLower(req.Type)))
	if !ok {
		return types.AnalysisReport{}, types.NewInvalidRequestError(fmt.Sprintf("unsupported source type %q", req.Type))
	}
	if strings.TrimSpace(req.Content) == "" {
		return types.AnalysisReport{}, types.NewMissingContentError(normalizer.ErrEmptyContent)
	}

	logger.Debug().Str("stage", StageSelectSource).Str("source", string(source)).Msg("selecting source")
	text, meta, err := p.selectSource(ctx, source, req.Content)
	if err != nil {
		logger.Warn().Err(err).Str("stage", StageSelectSource).Msg("source selection failed")
		return types.AnalysisReport{}, err
	}

	logger.Debug().Str("stage", StageValidate).Msg("validating input")
	input, err := p.deps.Normalizer.Normalize(text)
	if err != nil {
		return types.AnalysisReport{}, types.NewMissingContentError(err)
	}
	logger.Debug().
		Str("stage", StageNormalize).
		Int("original_length", input.OriginalLength).
		Bool("truncated", input.Truncated).
		Msg("input normalized")

	summary, err := p.deps.Summarizer.Summarize(ctx, input.Text, p.deps.Bounds)
	if err != nil {
		logger.Error().Err(err).Str("stage", StageSummarize).Msg("summarizer failed")
		return types.AnalysisReport{}, types.NewModelError(err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return types.AnalysisReport{}, types.NewModelError(inference.ErrEmptySummary)
	}
	logger.Debug().Str("stage", StageSummarize).Int("summary_length", len(summary)).Msg("summary ready")

	// Sentiment is computed over the summary, not the article
	sentiment, err := p.deps.Classifier.Classify(ctx, summary)
	if err == nil {
		sentiment, err = inference.ValidateSentiment(sentiment)
	}
	if err != nil {
		logger.Error().Err(err).Str("stage", StageClassify).Msg("classifier failed")
		return types.AnalysisReport{}, types.NewModelError(err)
	}

	report := types.AnalysisReport{
		Success:        true,
		OriginalLength: input.OriginalLength,
		Summary:        summary,
		Sentiment:      sentiment.Label,
		Confidence:     sentiment.Score,
		Source:         source,
	}
	if meta != nil && !meta.IsZero() {
		report.Article = meta
	}

	logger.Info().
		Str("stage", StageAssemble).
		Str("source", string(source)).
		Str("sentiment", report.Sentiment).
		Float64("confidence", report.Confidence).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")

	return report, nil
}

// selectSource resolves the request content into plain text. Fetch and
// extraction failures both surface as extraction errors.
func (p *Pipeline) selectSource(ctx context.Context, source types.SourceType, content string) (string, *types.ArticleMeta, error) {
	switch source {
	case types.SourceText:
		return content, nil, nil
	case types.SourceFeed:
		if p.deps.Feeds == nil {
			return "", nil, types.NewInvalidRequestError("feed sources are not enabled")
		}
		link, err := p.deps.Feeds.LatestArticle(ctx, strings.TrimSpace(content))
		if err != nil {
			return "", nil, types.NewExtractionError(err)
		}
		return p.fromURL(ctx, link)
	default:
		return p.fromURL(ctx, strings.TrimSpace(content))
	}
}

func (p *Pipeline) fromURL(ctx context.Context, url string) (string, *types.ArticleMeta, error) {
	doc, err := p.deps.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", nil, types.NewExtractionError(err)
	}

	text := p.deps.Extractor.Extract(doc.Body)
	if text == "" {
		return "", nil, types.NewExtractionError(fmt.Errorf("no article text found at %s", url))
	}

	if !p.deps.Metadata {
		return text, nil, nil
	}
	meta := extractor.Metadata(doc.Body, doc.URL)
	return text, &meta, nil
}

func (p *Pipeline) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &p.deps.Logger
}
