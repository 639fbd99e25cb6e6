package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/CircuiTech/internal/models"
)

const bomAgentName = "bom_agent"

type extraction struct {
	IsReadyForBom bool     `json:"isReadyForBom"`
	Reply         string   `json:"reply"`
	SearchQueries []string `json:"search_queries"`
}

type synthesis struct {
	Items []models.BomItem `json:"items"`
}

// BomAgent turns a design conversation into a BOM in two steps: extraction
// (clarify or produce part queries) and synthesis (pick concrete parts).
type BomAgent struct {
	client ChatCompleter
	model  string
}

func NewBomAgent(client ChatCompleter, model string) *BomAgent {
	if model == "" {
		model = DefaultModel
	}
	return &BomAgent{client: client, model: model}
}

// Run answers prompt in the context of history. The returned payload has nil
// Items when the agent still needs clarification from the user.
func (a *BomAgent) Run(ctx context.Context, prompt string, history []models.ChatMessage, user string) (*models.BomPayload, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: extractionPrompt})
	for _, msg := range history {
		messages = append(messages, toOpenAIMessage(msg))
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	var ext extraction
	if err := completeJSON(ctx, a.client, bomAgentName, "extraction", a.model, user, messages, &ext); err != nil {
		return nil, err
	}

	if !ext.IsReadyForBom || len(ext.SearchQueries) == 0 {
		return &models.BomPayload{IsReadyForBom: false, Reply: ext.Reply}, nil
	}

	synthMessages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: synthesisPrompt},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("User Request: %s\n\nSearch Queries:\n- %s", prompt, strings.Join(ext.SearchQueries, "\n- "))},
	}

	var synth synthesis
	if err := completeJSON(ctx, a.client, bomAgentName, "synthesis", a.model, user, synthMessages, &synth); err != nil {
		return nil, err
	}
	if synth.Items == nil {
		synth.Items = []models.BomItem{}
	}
	if err := models.ValidateBom(synth.Items); err != nil {
		return nil, &AgentError{Agent: bomAgentName, Detail: "response validation failed", Err: err}
	}

	return &models.BomPayload{
		IsReadyForBom: true,
		Reply:         ext.Reply,
		Items:         synth.Items,
		TotalCost:     models.RoundCents(models.BomTotal(synth.Items)),
	}, nil
}

func toOpenAIMessage(msg models.ChatMessage) openai.ChatCompletionMessage {
	role := openai.ChatMessageRoleUser
	if msg.Role == models.Assistant {
		role = openai.ChatMessageRoleAssistant
	}
	return openai.ChatCompletionMessage{Role: role, Content: msg.Content}
}
