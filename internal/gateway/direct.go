package gateway

import (
	"context"

	"github.com/Rorical/CircuiTech/internal/agent"
	"github.com/Rorical/CircuiTech/internal/models"
)

// DirectGateway runs the BOM and pin-map agents in-process instead of
// calling a backend server. The session id is forwarded to the model
// provider as the end-user identifier.
type DirectGateway struct {
	bom       *agent.BomAgent
	pinMap    *agent.PinMapAgent
	sessionID string
}

func NewDirectGateway(client agent.ChatCompleter, model, sessionID string) *DirectGateway {
	return &DirectGateway{
		bom:       agent.NewBomAgent(client, model),
		pinMap:    agent.NewPinMapAgent(client, model),
		sessionID: sessionID,
	}
}

func (g *DirectGateway) Converse(ctx context.Context, message string, history []models.ChatMessage) (*ConverseResult, error) {
	payload, err := g.bom.Run(ctx, message, history, g.sessionID)
	if err != nil {
		return nil, transportErr(OpConverse, 0, err)
	}
	result := &ConverseResult{Reply: payload.Reply}
	if payload.Items != nil {
		result.Bom = payload.Items
	}
	return result, nil
}

func (g *DirectGateway) DerivePinMap(ctx context.Context, items []models.BomItem) ([]models.Connection, error) {
	conns, err := g.pinMap.Run(ctx, items, g.sessionID)
	if err != nil {
		return nil, transportErr(OpDerivePinMap, 0, err)
	}
	return conns, nil
}
