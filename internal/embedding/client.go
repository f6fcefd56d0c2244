package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/signalmine/painsignal/internal/logger"
	"github.com/signalmine/painsignal/internal/telemetry"
)

// ErrUnavailable indicates the embedding service is unreachable.
var ErrUnavailable = errors.New("embedding service unavailable")

// Default client settings.
const (
	defaultChunkSize = 32
	defaultRPS       = 10
)

// Config holds embedding client settings.
type Config struct {
	BaseURL   string        `env:"EMBEDDING_URL" yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	ChunkSize int           `yaml:"chunk_size"`
	RPS       int           `yaml:"rps"`
	Burst     int           `yaml:"burst"`
}

// Client is an HTTP client for the embedding service. Batch calls are
// chunked to bound request size and rate limited; failures degrade to nil
// vectors per item rather than aborting the batch.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	chunkSize  int
	logger     logger.Logger
	telemetry  *telemetry.Provider
}

// NewClient creates a new embedding client. tp may be nil.
func NewClient(cfg Config, log logger.Logger, tp *telemetry.Provider) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = rps
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		chunkSize:  chunkSize,
		logger:     log,
		telemetry:  tp,
	}
}

// Embed returns the vector for a single text, or nil when the service
// failed to embed it. A nil vector with a nil error means "skip
// classification for this item".
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds many texts, chunking requests to bound their size. The
// returned slice always has the same length as texts; entries are nil for
// items the service could not embed. A failed chunk degrades to nil
// entries for that chunk (fail open). The only returned error is context
// cancellation.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))

	for start := 0; start < len(texts); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(texts) {
			end = len(texts)
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return vectors, fmt.Errorf("rate limiter: %w", err)
		}

		chunkStart := time.Now()
		chunk, err := doEmbed(ctx, c.httpClient, c.baseURL, texts[start:end])
		duration := time.Since(chunkStart)
		if c.telemetry != nil {
			c.telemetry.RecordEmbeddingRequest(duration, err == nil)
		}

		if err != nil {
			if ctx.Err() != nil {
				return vectors, fmt.Errorf("embed batch: %w", ctx.Err())
			}
			// Fail open: nil vectors for the whole chunk.
			c.logger.Warn("embedding chunk failed, degrading to nil vectors",
				logger.Int("chunk_start", start),
				logger.Int("chunk_size", end-start),
				logger.Error(err))
			if c.telemetry != nil {
				c.telemetry.RecordEmbeddingItemFailures(end - start)
			}
			continue
		}

		nullCount := 0
		for i, vec := range chunk {
			vectors[start+i] = vec
			if vec == nil {
				nullCount++
			}
		}
		if c.telemetry != nil {
			c.telemetry.RecordEmbeddingItemFailures(nullCount)
		}
	}

	return vectors, nil
}

// Health checks if the embedding service is healthy.
func (c *Client) Health(ctx context.Context) error {
	reachable, _, _, err := doHealth(ctx, c.httpClient, c.baseURL)
	if err != nil {
		if !reachable {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}
	return nil
}
