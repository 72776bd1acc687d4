package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quicknote/quicknote-api/internal/metrics"
	"github.com/quicknote/quicknote-api/internal/utils"
)

// ErrMissingToken means no API credential was configured. The constructor
// refuses to build a client without one.
var ErrMissingToken = errors.New("missing API token: set GITHUB_TOKEN or OPENAI_API_KEY")

// Message is a single role-tagged chat message. Role is "system" or "user".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options are the sampling parameters for a completion call.
type Options struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// DefaultOptions matches the provider's own defaults.
func DefaultOptions() Options {
	return Options{Temperature: 1.0, TopP: 1.0}
}

// RequestError is a failed provider call. The body text is kept verbatim
// because callers classify failures by inspecting it.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("llm request failed with status %d: %s", e.Status, e.Body)
}

// Client is the gateway to the completion provider. It holds the credential
// explicitly rather than reading the environment per call.
type Client struct {
	endpoint string
	token    string
	model    string
	http     *http.Client
	log      *logrus.Entry
	metrics  *metrics.Metrics
}

type Config struct {
	Endpoint string
	Token    string
	Model    string
	Logger   *logrus.Entry
	Metrics  *metrics.Metrics
}

func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		token:    cfg.Token,
		model:    cfg.Model,
		http:     &http.Client{Timeout: 60 * time.Second},
		log:      log,
		metrics:  cfg.Metrics,
	}, nil
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete makes a single completion call and returns the generated text.
// One attempt only; failures are surfaced immediately.
func (c *Client) Complete(ctx context.Context, model string, messages []Message, opts Options) (string, error) {
	if model == "" {
		model = c.model
	}

	callID := uuid.New().String()
	log := c.log.WithFields(logrus.Fields{
		"call_id": callID,
		"model":   model,
	})

	text, err := c.complete(ctx, model, messages, opts)
	if err != nil {
		outcome := "error"
		if IsContentFiltered(err) {
			outcome = "filtered"
		}
		c.countCall(model, outcome)
		log.WithError(err).Error("llm completion failed")
		return "", err
	}

	c.countCall(model, "ok")
	log.WithField("response_len", len(text)).Debug("llm completion succeeded")
	return text, nil
}

func (c *Client) complete(ctx context.Context, model string, messages []Message, opts Options) (string, error) {
	payload, err := json.Marshal(&completionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("error JSON-encoding completion request: %w", err)
	}

	url := c.endpoint + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error building completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("error invoking completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := utils.ReadToEnd(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading completion response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", &RequestError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("error JSON-decoding completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *Client) countCall(model string, outcome string) {
	if c.metrics != nil {
		c.metrics.CountLLMCall(model, outcome)
	}
}

// contentFilterMarkers are the substrings providers are known to embed in
// policy-rejection errors. Matching on error text is fragile but it is the
// provider contract we have; keep all sniffing here.
var contentFilterMarkers = []string{
	"content_filter",
	"content_filter_result",
	"ResponsibleAIPolicyViolation",
}

// IsContentFiltered reports whether err represents a provider-side content
// policy rejection rather than a generic failure.
func IsContentFiltered(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return utils.Any(contentFilterMarkers, func(marker string) bool {
		return strings.Contains(msg, marker)
	})
}
