package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/CircuiTech/internal/models"
)

func TestPinMapAgent_Run(t *testing.T) {
	client := &fakeCompleter{replies: []string{`{"connections": [
		{"source_part": "ESP32-WROOM-32E", "source_pin": "GPIO21", "target_part": "BME280", "target_pin": "SDA", "signal_type": "I2C", "description": "4.7k pull-up to 3V3"}
	]}`}}
	items := []models.BomItem{
		{PartNumber: "ESP32-WROOM-32E", Quantity: 1},
		{PartNumber: "BME280", Quantity: 1},
	}

	conns, err := NewPinMapAgent(client, "m").Run(context.Background(), items, "sid")
	require.NoError(t, err)

	require.Len(t, conns, 1)
	assert.Equal(t, "GPIO21", conns[0].SourcePin)
	require.Len(t, client.requests, 1)
	assert.Equal(t, "sid", client.requests[0].User)
	assert.Contains(t, client.requests[0].Messages[1].Content, `"partNumber":"BME280"`)
}

func TestPinMapAgent_MissingConnections(t *testing.T) {
	client := &fakeCompleter{replies: []string{`{}`}}

	conns, err := NewPinMapAgent(client, "m").Run(context.Background(), []models.BomItem{{PartNumber: "A"}}, "")
	require.NoError(t, err)
	assert.NotNil(t, conns)
	assert.Empty(t, conns)
}

func TestPinMapAgent_EmptyResponse(t *testing.T) {
	_, err := NewPinMapAgent(&fakeCompleter{replies: []string{""}}, "m").Run(context.Background(), nil, "")

	var ae *AgentError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, pinMapAgentName, ae.Agent)
}
