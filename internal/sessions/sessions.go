// Package sessions persists design sessions on the backend side, keyed by
// the client's session id.
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/Rorical/CircuiTech/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// DesignSession is the server-side record of one client session: the
// conversation so far and the last BOM produced for it.
type DesignSession struct {
	SessionID   string               `json:"session_id"`
	ChatHistory []models.ChatMessage `json:"chat_history"`
	Bom         []models.BomItem     `json:"bom"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type Store interface {
	Save(ctx context.Context, session *DesignSession) error
	Load(ctx context.Context, sessionID string) (*DesignSession, error)
	Delete(ctx context.Context, sessionID string) error
}
