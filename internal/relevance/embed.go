package relevance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Embedder converts free text into a numeric vector representation. It is
// a capability, not a hard dependency: the pipeline probes it once at
// startup and falls back to keyword-only scoring when it is unavailable.
type Embedder interface {
	Embed(text string) ([]float64, error)
}

// OpenAIEmbedder talks to an OpenAI-compatible embeddings endpoint
// (OpenAI itself, or local servers such as Ollama).
type OpenAIEmbedder struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// OpenAIConfig configures the embeddings client.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing embeddings API key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OpenAIEmbedder{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Ping verifies the backend is reachable by embedding a short probe text.
func (e *OpenAIEmbedder) Ping() error {
	_, err := e.Embed("availability probe")
	return err
}

// Embed returns an embedding vector for the given text.
func (e *OpenAIEmbedder) Embed(text string) ([]float64, error) {
	body := struct {
		Input string `json:"input"`
		Model string `json:"model"`
	}{Input: text, Model: e.model}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// OpenAI-compatible response shape.
	var openaiOut struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &openaiOut); err == nil {
		if len(openaiOut.Data) > 0 && len(openaiOut.Data[0].Embedding) > 0 {
			return openaiOut.Data[0].Embedding, nil
		}
	}

	// Ollama-native shape: { "embedding": [...] }
	var ollamaOut struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(payload, &ollamaOut); err == nil {
		if len(ollamaOut.Embedding) > 0 {
			return ollamaOut.Embedding, nil
		}
	}

	return nil, errors.New("no embedding returned")
}
