package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Rorical/CircuiTech/internal/models"
	"github.com/Rorical/CircuiTech/internal/sessions"
)

// handleChat runs the BOM agent for one turn. Agent failures are not HTTP
// errors: the client gets a clarification reply with status "error".
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFrom(r.Context())

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.History == nil {
		req.History = []models.ChatMessage{}
	}

	payload, err := s.bom.Run(r.Context(), req.Message, req.History, sessionID)
	if err != nil {
		s.logger.Warn("chat turn failed", zap.String("session_id", sessionID), zap.Error(err))
		writeJSON(w, http.StatusOK, models.ChatResponse{
			SessionID: sessionID,
			Reply:     fmt.Sprintf("I encountered an issue parsing that request. Could you clarify what you need? (Error: %v)", err),
			Status:    models.StatusError,
		})
		return
	}

	// The reply does not depend on the session record being stored.
	if err := s.persist(r, sessionID, req, payload); err != nil {
		s.logger.Error("persist session failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{
		SessionID: sessionID,
		Reply:     payload.Reply,
		Bom:       payload,
		Status:    models.StatusSuccess,
	})
}

func (s *Server) persist(r *http.Request, sessionID string, req models.ChatRequest, payload *models.BomPayload) error {
	history := make([]models.ChatMessage, 0, len(req.History)+2)
	history = append(history, req.History...)
	history = append(history,
		models.NewUserMessage(req.Message),
		models.NewAssistantMessage(payload.Reply))

	// A clarification turn carries no items; keep the BOM already on record.
	bom := payload.Items
	if bom == nil {
		bom = []models.BomItem{}
		prev, err := s.store.Load(r.Context(), sessionID)
		switch {
		case err == nil:
			bom = prev.Bom
		case !errors.Is(err, sessions.ErrSessionNotFound):
			return fmt.Errorf("load session: %w", err)
		}
	}
	err := s.store.Save(r.Context(), &sessions.DesignSession{
		SessionID:   sessionID,
		ChatHistory: history,
		Bom:         bom,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Server) handlePinMap(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionIDFrom(r.Context())

	var req models.PinMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Items == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	conns, err := s.pinMap.Run(r.Context(), req.Items, sessionID)
	if err != nil {
		s.logger.Warn("pin map failed", zap.String("session_id", sessionID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.PinMapResponse{Connections: conns})
}
