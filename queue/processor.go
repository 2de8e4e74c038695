package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"newsai/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Job is one queued analysis request
type Job struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Result is the reply to a Job. Exactly one of Report and Error is set.
type Result struct {
	ID     string                `json:"id"`
	Report *types.AnalysisReport `json:"report,omitempty"`
	Error  string                `json:"error,omitempty"`
	Kind   types.ErrorKind       `json:"kind,omitempty"`
}

// Analyzer runs one analysis request
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisReport, error)
}

// Publisher delivers a result to whoever submitted the job
type Publisher interface {
	Publish(ctx context.Context, res Result) error
}

// MessageHandler processes one raw message and reports whether it may be acknowledged.
// When shouldMark is false the transport retries the same message: Kafka redelivers
// it in place with backoff, Redis pushes it back onto the request list.
type MessageHandler interface {
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// Processor decodes jobs, runs the analyzer and publishes results.
// Analysis failures are results, not retries; only publish failures are retried.
type Processor struct {
	analyzer  Analyzer
	publisher Publisher
	logger    zerolog.Logger
}

var _ MessageHandler = (*Processor)(nil)

func NewProcessor(analyzer Analyzer, publisher Publisher, logger zerolog.Logger) *Processor {
	return &Processor{analyzer: analyzer, publisher: publisher, logger: logger}
}

func (p *Processor) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var job Job
	if err := json.Unmarshal(message, &job); err != nil {
		p.logger.Warn().Err(err).Msg("dropping undecodable job")
		return true, nil
	}
	if strings.TrimSpace(job.ID) == "" {
		job.ID = uuid.NewString()
	}

	logger := p.logger.With().Str("job_id", job.ID).Logger()
	ctx = logger.WithContext(ctx)

	res := Result{ID: job.ID}
	report, err := p.analyzer.Analyze(ctx, types.AnalysisRequest{Type: job.Type, Content: job.Content})
	if err != nil {
		var ae *types.AnalysisError
		if !errors.As(err, &ae) {
			ae = types.NewModelError(err)
		}
		res.Error = ae.Message
		res.Kind = ae.Kind
	} else {
		report.RequestID = job.ID
		res.Report = &report
	}

	if err := p.publisher.Publish(ctx, res); err != nil {
		return false, fmt.Errorf("publish result %s: %w", job.ID, err)
	}

	logger.Debug().Bool("success", res.Report != nil).Msg("job processed")
	return true, nil
}
