// Package breakdown turns a task description into a short list of actionable
// sub-steps using the Gemini generateContent API.
package breakdown

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-3-flash-preview"
	defaultTimeout = 30 * time.Second

	promptFormat = `Break down the following task into 3-5 simple, actionable sub-steps: %q`
)

// Client calls the Gemini API. The zero value is not usable; use New.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// New creates a Gemini breakdown client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// generateContent request/response wire types. Only the fields this client
// uses are mapped.

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// stepsSchema constrains the model output to {"steps": [string, ...]}.
var stepsSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"steps": {
			Type:        "ARRAY",
			Items:       &schema{Type: "STRING"},
			Description: "A list of actionable sub-tasks",
		},
	},
	Required: []string{"steps"},
}

// Breakdown asks the model for 3-5 actionable sub-steps for text. It never
// fails outward: any network, HTTP, or parse problem is logged and reported
// as an empty list, indistinguishable from the model returning zero steps.
// Callers render an empty result as "no breakdown available".
func (c *Client) Breakdown(ctx context.Context, text string) []string {
	steps, err := c.generate(ctx, text)
	if err != nil {
		log.Printf("breakdown %q: %v", text, err)
		return []string{}
	}
	if steps == nil {
		steps = []string{}
	}
	return steps
}

func (c *Client) generate(ctx context.Context, text string) ([]string, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: fmt.Sprintf(promptFormat, text)}}},
		},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   stepsSchema,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if json.Unmarshal(respBody, &ae) == nil && ae.Error.Message != "" {
			return nil, fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, ae.Error.Message)
		}
		return nil, fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var gr generateResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response: no candidates")
	}

	// The structured output arrives as JSON text inside the first part.
	var result struct {
		Steps []string `json:"steps"`
	}
	raw := gr.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("decode steps payload: %w", err)
	}

	return result.Steps, nil
}
