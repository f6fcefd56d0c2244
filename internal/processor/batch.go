// Package processor runs batches of raw fragments through the scoring
// pipeline with a bounded worker pool, then applies the semantic stage and
// corpus aggregation.
package processor

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/signalmine/painsignal/internal/aggregate"
	"github.com/signalmine/painsignal/internal/domain"
	"github.com/signalmine/painsignal/internal/logger"
	"github.com/signalmine/painsignal/internal/scorer"
	"github.com/signalmine/painsignal/internal/telemetry"
)

const defaultConcurrency = 10

// SemanticStage filters praise and assigns categories. Implemented by
// semantic.Classifier; nil disables the stage.
type SemanticStage interface {
	Classify(ctx context.Context, signals []*domain.PainSignal) ([]*domain.PainSignal, error)
}

// Pipeline scores fragment batches in parallel. The lexical stage is pure
// CPU work fanned out over a worker pool; the semantic stage runs once per
// batch so embedding requests stay chunked.
type Pipeline struct {
	scorer      *scorer.Scorer
	semantic    SemanticStage
	aggregator  *aggregate.Aggregator
	concurrency int
	logger      logger.Logger
	telemetry   *telemetry.Provider
}

// NewPipeline creates a pipeline. semantic and tp may be nil.
func NewPipeline(
	sc *scorer.Scorer,
	semantic SemanticStage,
	aggregator *aggregate.Aggregator,
	concurrency int,
	log logger.Logger,
	tp *telemetry.Provider,
) *Pipeline {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{
		scorer:      sc,
		semantic:    semantic,
		aggregator:  aggregator,
		concurrency: concurrency,
		logger:      log,
		telemetry:   tp,
	}
}

// Process scores a batch and applies the semantic stage. Output order
// follows input order for the signals that survive the praise filter.
// A semantic-stage error fails open: the lexically scored signals are
// returned and the error is logged, not propagated.
func (p *Pipeline) Process(ctx context.Context, fragments []*domain.RawFragment) []*domain.PainSignal {
	if len(fragments) == 0 {
		return []*domain.PainSignal{}
	}

	ctx, span := p.startSpan(ctx, "pipeline.process", len(fragments))
	defer span()

	start := time.Now()
	signals := p.scoreParallel(ctx, fragments)

	if p.semantic != nil {
		classified, err := p.semantic.Classify(ctx, signals)
		if err != nil {
			p.logger.Warn("semantic stage failed, signals pass through unfiltered",
				logger.Error(err))
		} else {
			signals = classified
		}
	}

	p.logger.Info("batch processed",
		logger.Int("fragments", len(fragments)),
		logger.Int("signals", len(signals)),
		logger.Int("concurrency", p.concurrency),
		logger.Duration("duration", time.Since(start)),
	)

	return signals
}

// Analyze runs Process and summarizes the surviving signals.
func (p *Pipeline) Analyze(ctx context.Context, fragments []*domain.RawFragment) ([]*domain.PainSignal, *domain.Summary) {
	signals := p.Process(ctx, fragments)
	return signals, p.aggregator.Summarize(signals)
}

// scoreParallel fans fragments out over the worker pool. Each worker writes
// results by index so input order is preserved without a collection pass.
func (p *Pipeline) scoreParallel(ctx context.Context, fragments []*domain.RawFragment) []*domain.PainSignal {
	if p.telemetry != nil {
		p.telemetry.RecordBatchSize(len(fragments))
	}

	workers := p.concurrency
	if workers > len(fragments) {
		workers = len(fragments)
	}

	jobs := make(chan int, len(fragments))
	results := make([]*domain.PainSignal, len(fragments))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go p.worker(ctx, fragments, jobs, results, &wg)
	}

	if p.telemetry != nil {
		p.telemetry.SetActiveWorkers(workers)
		defer p.telemetry.SetActiveWorkers(0)
	}

	for i := range fragments {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Cancelled workers leave nil holes; score the remainder inline so the
	// caller always gets one signal per fragment.
	for i, sig := range results {
		if sig == nil {
			results[i] = p.scoreOne(fragments[i])
		}
	}
	return results
}

func (p *Pipeline) worker(
	ctx context.Context,
	fragments []*domain.RawFragment,
	jobs <-chan int,
	results []*domain.PainSignal,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for i := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		results[i] = p.scoreOne(fragments[i])
	}
}

func (p *Pipeline) scoreOne(fragment *domain.RawFragment) *domain.PainSignal {
	start := time.Now()
	signal := p.scorer.Score(fragment)

	if p.telemetry != nil {
		p.telemetry.RecordScoring(context.Background(),
			string(fragment.Source), string(signal.Intensity), time.Since(start))
	}
	return signal
}

func (p *Pipeline) startSpan(ctx context.Context, name string, batchSize int) (context.Context, func()) {
	if p.telemetry == nil {
		return ctx, func() {}
	}
	ctx, span := p.telemetry.StartSpan(ctx, name,
		attribute.Int("batch.size", batchSize),
		attribute.Int("pipeline.concurrency", p.concurrency),
	)
	return ctx, func() { span.End() }
}
