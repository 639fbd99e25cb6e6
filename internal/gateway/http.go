package gateway

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

	"github.com/Rorical/CircuiTech/internal/models"
)

const (
	chatPath   = "/api/chat/"
	pinMapPath = "/api/pinmap/"

	// maxErrorBody bounds how much of a failed response ends up in the error.
	maxErrorBody = 512
)

const defaultTimeout = 60 * time.Second

// HTTPGateway talks to the backend over JSON/HTTP.
type HTTPGateway struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

type httpOptions struct {
	client     *http.Client
	timeout    time.Duration
	hasTimeout bool
}

type Option func(*httpOptions)

// WithHTTPClient sends requests through client. The client itself is never
// modified.
func WithHTTPClient(client *http.Client) Option {
	return func(o *httpOptions) {
		o.client = client
	}
}

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *httpOptions) {
		o.timeout = timeout
		o.hasTimeout = true
	}
}

func NewHTTPGateway(baseURL, sessionID string, opts ...Option) *HTTPGateway {
	var o httpOptions
	for _, opt := range opts {
		opt(&o)
	}

	var client http.Client
	if o.client != nil {
		client = *o.client
	} else {
		client.Timeout = defaultTimeout
	}
	if o.hasTimeout {
		client.Timeout = o.timeout
	}

	return &HTTPGateway{
		baseURL:   strings.TrimRight(baseURL, "/"),
		sessionID: sessionID,
		client:    &client,
	}
}

func (g *HTTPGateway) SessionID() string {
	return g.sessionID
}

func (g *HTTPGateway) Converse(ctx context.Context, message string, history []models.ChatMessage) (*ConverseResult, error) {
	if history == nil {
		history = []models.ChatMessage{}
	}
	req := models.ChatRequest{Message: message, History: history}

	var resp chatReply
	if err := g.post(ctx, OpConverse, chatPath, req, &resp); err != nil {
		return nil, err
	}
	if resp.Reply == nil {
		return nil, transportErr(OpConverse, 0, errors.New("response has no reply"))
	}

	result := &ConverseResult{Reply: *resp.Reply}
	if resp.Bom != nil && resp.Bom.Items != nil {
		if err := models.ValidateBom(resp.Bom.Items); err != nil {
			return nil, transportErr(OpConverse, 0, fmt.Errorf("invalid bom in response: %w", err))
		}
		result.Bom = resp.Bom.Items
	}
	return result, nil
}

// chatReply is the part of models.ChatResponse the client relies on. Reply is
// required; a body without it is a protocol failure.
type chatReply struct {
	Reply *string            `json:"reply"`
	Bom   *models.BomPayload `json:"bom"`
}

func (g *HTTPGateway) DerivePinMap(ctx context.Context, items []models.BomItem) ([]models.Connection, error) {
	req := models.PinMapRequest{Items: models.CloneBom(items)}

	var resp models.PinMapResponse
	if err := g.post(ctx, OpDerivePinMap, pinMapPath, req, &resp); err != nil {
		return nil, err
	}
	if resp.Connections == nil {
		return []models.Connection{}, nil
	}
	return resp.Connections, nil
}

// post sends body as JSON and decodes the whole response into out. Any failure
// is reported as a TransportError.
func (g *HTTPGateway) post(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return transportErr(op, 0, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return transportErr(op, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(models.SessionHeader, g.sessionID)

	resp, err := g.client.Do(req)
	if err != nil {
		return transportErr(op, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return transportErr(op, resp.StatusCode, errors.New(strings.TrimSpace(string(snippet))))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportErr(op, 0, fmt.Errorf("read response: %w", err))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return transportErr(op, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
