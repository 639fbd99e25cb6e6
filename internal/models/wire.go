package models

// Wire payloads of the backend chat and pin-map endpoints.

const SessionHeader = "X-Session-ID"

type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

type ChatResponse struct {
	SessionID string      `json:"session_id"`
	Reply     string      `json:"reply"`
	Bom       *BomPayload `json:"bom"`
	Status    string      `json:"status"`
}

// BomPayload is the agent result attached to a chat reply. Items is nil when
// the agent still needs clarification.
type BomPayload struct {
	IsReadyForBom bool      `json:"isReadyForBom"`
	Reply         string    `json:"reply"`
	Items         []BomItem `json:"items"`
	TotalCost     float64   `json:"totalCost"`
}

type PinMapRequest struct {
	Items []BomItem `json:"items"`
}

type PinMapResponse struct {
	Connections []Connection `json:"connections"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
