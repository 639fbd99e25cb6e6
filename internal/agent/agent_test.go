package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if len(f.replies) == 0 {
		return openai.ChatCompletionResponse{}, nil
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: reply}}},
	}, nil
}

func TestCompleteJSON_RequestShape(t *testing.T) {
	client := &fakeCompleter{replies: []string{`{"ok": true}`}}
	var out struct {
		OK bool `json:"ok"`
	}

	err := completeJSON(context.Background(), client, "test", "step", "some-model", "session-1",
		[]openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "some-model", req.Model)
	assert.Equal(t, "session-1", req.User)
	assert.InDelta(t, 0.2, req.Temperature, 1e-6)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
}

func TestCompleteJSON_Failures(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeCompleter
		detail string
	}{
		{name: "call error", client: &fakeCompleter{err: errors.New("429 rate limited")}, detail: "step call failed"},
		{name: "no choices", client: &fakeCompleter{}, detail: "step returned an empty response"},
		{name: "empty content", client: &fakeCompleter{replies: []string{""}}, detail: "step returned an empty response"},
		{name: "invalid json", client: &fakeCompleter{replies: []string{"```json\n{}\n```"}}, detail: "step returned invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out map[string]any
			err := completeJSON(context.Background(), tt.client, "test", "step", "m", "", nil, &out)
			require.Error(t, err)

			var ae *AgentError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "test", ae.Agent)
			assert.Equal(t, tt.detail, ae.Detail)
			assert.True(t, IsAgentError(err))
		})
	}
}

func TestAgentError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &AgentError{Agent: "bom_agent", Detail: "extraction call failed", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[bom_agent] extraction call failed: connection reset", err.Error())
	assert.Equal(t, "[bom_agent] empty", (&AgentError{Agent: "bom_agent", Detail: "empty"}).Error())
}

func TestNewClient(t *testing.T) {
	assert.NotNil(t, NewClient("sk-test", ""))
	assert.NotNil(t, NewClient("sk-test", "https://api.groq.com/openai/v1"))
}
