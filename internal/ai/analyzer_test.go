package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/smart-tasks/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", model.AIConfig{})
	c.baseURL = srv.URL
	return c
}

func messagesResponse(text string) string {
	resp := apiResponse{
		ID:   "msg_test",
		Type: "message",
		Role: "assistant",
		Content: []apiContentBlock{
			{Type: "text", Text: text},
		},
		StopReason: "end_turn",
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestAnalyzeTask_Success(t *testing.T) {
	var gotReq apiRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Write([]byte(messagesResponse(`{
			"subtasks": ["book flight", "book hotel"],
			"priority": "high",
			"estimatedTime": "2 hours",
			"refinedDescription": "Trip planning"
		}`)))
	})

	analysis, err := c.AnalyzeTask(context.Background(), "plan trip")
	require.NoError(t, err)

	assert.Equal(t, []string{"book flight", "book hotel"}, analysis.Subtasks)
	assert.Equal(t, "high", analysis.Priority)
	assert.Equal(t, "2 hours", analysis.EstimatedTime)
	assert.Equal(t, "Trip planning", analysis.RefinedDescription)

	require.Len(t, gotReq.Messages, 1)
	assert.Contains(t, gotReq.Messages[0].Content[0].Text, `"plan trip"`)
}

func TestAnalyzeTask_CodeFencedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(messagesResponse(
			"```json\n{\"subtasks\": [\"a\"], \"priority\": \"low\", " +
				"\"estimatedTime\": \"1h\", \"refinedDescription\": \"d\"}\n```",
		)))
	})

	analysis, err := c.AnalyzeTask(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, analysis.Subtasks)
}

func TestAnalyzeTask_MissingKeyUnavailable(t *testing.T) {
	c := NewClient("", model.AIConfig{})

	_, err := c.AnalyzeTask(context.Background(), "t")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnalyzeTask_APIErrorUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "slow down"}}`))
	})

	_, err := c.AnalyzeTask(context.Background(), "t")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "slow down")
}

func TestAnalyzeTask_MalformedAnalysisUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(messagesResponse("sorry, I can only answer in prose")))
	})

	_, err := c.AnalyzeTask(context.Background(), "t")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnalyzeTask_EmptyContentUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "msg_test", "type": "message", "content": []}`))
	})

	_, err := c.AnalyzeTask(context.Background(), "t")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnalyzeTask_NetworkFailureUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient("test-key", model.AIConfig{})
	c.baseURL = srv.URL

	_, err := c.AnalyzeTask(context.Background(), "t")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAnalyzeTask_BadEndpointUnavailable(t *testing.T) {
	c := NewClient("test-key", model.AIConfig{})
	c.baseURL = "://not-a-url"

	_, err := c.AnalyzeTask(context.Background(), "t")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced json", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"padded", "  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}
