package agent

import (
	"context"
	"encoding/json"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/CircuiTech/internal/models"
)

const pinMapAgentName = "pinmap_agent"

// PinMapAgent derives a netlist for a BOM.
type PinMapAgent struct {
	client ChatCompleter
	model  string
}

func NewPinMapAgent(client ChatCompleter, model string) *PinMapAgent {
	if model == "" {
		model = DefaultModel
	}
	return &PinMapAgent{client: client, model: model}
}

func (a *PinMapAgent) Run(ctx context.Context, items []models.BomItem, user string) ([]models.Connection, error) {
	bomJSON, err := json.Marshal(models.CloneBom(items))
	if err != nil {
		return nil, &AgentError{Agent: pinMapAgentName, Detail: "encode bom", Err: err}
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: pinMapPrompt},
		{Role: openai.ChatMessageRoleUser, Content: "Generate a pin map for these components: " + string(bomJSON)},
	}

	var resp models.PinMapResponse
	if err := completeJSON(ctx, a.client, pinMapAgentName, "pin map", a.model, user, messages, &resp); err != nil {
		return nil, err
	}
	if resp.Connections == nil {
		return []models.Connection{}, nil
	}
	return resp.Connections, nil
}
