package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	// DefaultModel is the recommended embedding model
	DefaultModel = "nomic-embed-text"
	// DefaultURL is the default Ollama API endpoint
	DefaultURL = "http://localhost:11434"
)

// Client embeds catalog descriptions through an Ollama server
type Client struct {
	client *api.Client
	model  string
}

// NewClient creates a client for the server at rawURL
func NewClient(rawURL, model string) (*Client, error) {
	if rawURL == "" {
		rawURL = DefaultURL
	}
	if model == "" {
		model = DefaultModel
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", rawURL, err)
	}

	return &Client{
		client: api.NewClient(base, &http.Client{Timeout: 60 * time.Second}),
		model:  model,
	}, nil
}

// IsAvailable checks if Ollama is running and accessible
func IsAvailable(ctx context.Context, rawURL string) bool {
	if rawURL == "" {
		rawURL = DefaultURL
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Embed returns one vector per input text, in input order
func (c *Client) Embed(ctx context.Context, texts ...string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, t := range texts {
		if t == "" {
			return nil, fmt.Errorf("text %d is empty", i)
		}
	}

	resp, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: c.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	out := make([][]float64, len(resp.Embeddings))
	for i, e32 := range resp.Embeddings {
		e64 := make([]float64, len(e32))
		for j, v := range e32 {
			e64[j] = float64(v)
		}
		out[i] = e64
	}
	return out, nil
}

// Model returns the embedding model in use
func (c *Client) Model() string {
	return c.model
}
