package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/smart-tasks/internal/credential"
	"github.com/nhle/smart-tasks/internal/model"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 1024
	defaultTimeout   = 15 * time.Second
	apiURL           = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
)

// ErrUnavailable signals that enrichment could not be performed:
// missing credential, network failure, timeout, or a malformed
// response. Callers fall back to plain task creation.
var ErrUnavailable = errors.New("ai enrichment unavailable")

// Client analyzes task titles through the Claude Messages API and
// returns structured suggestions. It implements tasks.Analyzer.
type Client struct {
	apiKey    string
	model     string
	maxTokens int
	timeout   time.Duration
	baseURL   string
	client    *http.Client
}

// NewClient creates an enrichment client with the given configuration.
// Zero-valued config fields fall back to defaults.
func NewClient(apiKey string, cfg model.AIConfig) *Client {
	c := &Client{
		apiKey:    apiKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		baseURL:   apiURL,
		client:    &http.Client{},
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	return c
}

// NewClientFromKeyring creates an enrichment client using the API key
// stored in the system keyring. A missing credential is not an error;
// the returned client reports ErrUnavailable on use, and callers fall
// back to plain task creation.
func NewClientFromKeyring(cfg model.AIConfig) *Client {
	apiKey, err := credential.Get(credential.AIAPIKey)
	if err != nil {
		apiKey = ""
	}
	return NewClient(apiKey, cfg)
}

// AnalyzeTask requests a structured suggestion for the task title.
// Every failure mode wraps ErrUnavailable; there are no retries, and
// the call never blocks longer than the configured timeout.
func (c *Client) AnalyzeTask(
	ctx context.Context,
	title string,
) (*model.TaskAnalysis, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
		Messages: []apiMessage{
			{
				Role: "user",
				Content: []apiContentBlock{
					{Type: "text", Text: buildPrompt(title)},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling messages API: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: API error (%d): %s",
				ErrUnavailable, resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: API error (%d)", ErrUnavailable, resp.StatusCode)
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	text := firstText(result.Content)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	var analysis model.TaskAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &analysis); err != nil {
		return nil, fmt.Errorf("%w: parsing analysis: %v", ErrUnavailable, err)
	}

	return &analysis, nil
}

const systemPrompt = "You are a productivity expert assistant helping " +
	"a user organize their tasks in Hebrew. Respond with a single JSON " +
	"object and nothing else."

// buildPrompt constructs the analysis prompt for a task title.
func buildPrompt(title string) string {
	var sb strings.Builder

	sb.WriteString("Analyze the following task title: ")
	sb.WriteString(fmt.Sprintf("%q.\n\n", title))
	sb.WriteString("1. Break it down into 3-5 concrete, actionable subtasks (in Hebrew).\n")
	sb.WriteString("2. Estimate the priority (low, medium, high) based on urgency ")
	sb.WriteString("implied or general complexity.\n")
	sb.WriteString("3. Estimate time required (e.g., \"30 דקות\", \"שעתיים\", \"מספר ימים\").\n")
	sb.WriteString("4. Write a short, encouraging description in Hebrew.\n\n")
	sb.WriteString("Answer with a JSON object of this exact shape:\n")
	sb.WriteString(`{"subtasks": ["..."], "priority": "low|medium|high", `)
	sb.WriteString(`"estimatedTime": "...", "refinedDescription": "..."}`)

	return sb.String()
}

// firstText returns the first text block of the response content.
func firstText(blocks []apiContentBlock) string {
	for _, block := range blocks {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// --- Claude API types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
