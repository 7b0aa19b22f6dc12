package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/resume-rag/internal/core/domain"
	"github.com/kirillkom/resume-rag/internal/infrastructure/resilience"
)

const (
	defaultBatchSize   = 16
	defaultConcurrency = 2
)

// Client embeds text through the Ollama /api/embed endpoint.
type Client struct {
	baseURL     string
	embedModel  string
	httpClient  *http.Client
	executor    *resilience.Executor
	batchSize   int
	concurrency int
}

type Option func(*Client)

func WithExecutor(executor *resilience.Executor) Option {
	return func(c *Client) {
		c.executor = executor
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBatching bounds the texts sent per request and the requests in flight.
func WithBatching(batchSize, concurrency int) Option {
	return func(c *Client) {
		if batchSize > 0 {
			c.batchSize = batchSize
		}
		if concurrency > 0 {
			c.concurrency = concurrency
		}
	}
}

func New(baseURL, embedModel string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		embedModel:  embedModel,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		batchSize:   defaultBatchSize,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fingerprint identifies the model; its dimension is fixed by the model.
func (c *Client) Fingerprint() string {
	return "ollama:" + c.embedModel
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		g.Go(func() error {
			vectors, err := c.embed(gctx, texts[start:end])
			if err != nil {
				return err
			}
			copy(out[start:end], vectors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// embed sends one batch. The model must answer with one vector per input.
func (c *Client) embed(ctx context.Context, texts []string) ([][]float32, error) {
	request := embedRequest{Model: c.embedModel, Input: texts, Truncate: true}
	response, err := resilience.Call(ctx, c.executor, "ollama.embed", func(ctx context.Context) (embedResponse, error) {
		return c.postEmbed(ctx, request)
	}, classifyOllamaError)
	if err != nil {
		return nil, resilience.WrapTemporary("ollama embed", err, classifyOllamaError)
	}
	if len(response.Embeddings) != len(texts) {
		return nil, domain.WrapError(domain.ErrEmbeddingProvider, "ollama embed",
			fmt.Errorf("model %q returned %d embeddings for %d inputs", c.embedModel, len(response.Embeddings), len(texts)))
	}
	return response.Embeddings, nil
}
