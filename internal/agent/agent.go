// Package agent implements the two LLM-backed design agents: BOM sourcing
// from a natural-language description, and pin-map derivation from a BOM.
// Both speak to any OpenAI-compatible chat completions endpoint.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel = "llama-3.3-70b-versatile"
	temperature  = 0.2
)

// ChatCompleter is the part of *openai.Client the agents use.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AgentError reports a failed agent step.
type AgentError struct {
	Agent  string
	Detail string
	Err    error
}

func (e *AgentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Agent, e.Detail, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Agent, e.Detail)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// NewClient builds an OpenAI client, optionally pointed at a compatible
// provider through baseURL.
func NewClient(apiKey, baseURL string) *openai.Client {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

// completeJSON runs one JSON-mode completion and decodes the first choice
// into out.
func completeJSON(ctx context.Context, client ChatCompleter, agentName, step, model, user string, messages []openai.ChatCompletionMessage, out any) error {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		User:        user,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return &AgentError{Agent: agentName, Detail: step + " call failed", Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return &AgentError{Agent: agentName, Detail: step + " returned an empty response"}
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return &AgentError{Agent: agentName, Detail: step + " returned invalid JSON", Err: err}
	}
	return nil
}

func IsAgentError(err error) bool {
	var ae *AgentError
	return errors.As(err, &ae)
}
