// Package narrative turns a day's unified view into prose through a local
// Ollama model.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Ollama calls the local Ollama generate API.
type Ollama struct {
	client *resty.Client
	model  string
}

// NewOllama builds a client against the given base URL (e.g.
// http://127.0.0.1:11435).
func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Ollama{client: c, model: model}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	NumCtx      int     `json:"num_ctx"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate runs one non-streaming completion. Low temperature: the prompt
// forbids inventing data and we want the model to stick to it.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: 0.1,
			NumPredict:  400,
			NumCtx:      2048,
		},
	}

	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(&req).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode(), resp.String())
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return gr.Response, nil
}
