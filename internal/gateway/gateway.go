// Package gateway wraps the two remote backend operations behind a single
// interface. Implementations hold no state beyond the session id they attach
// to every call, and never retry.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rorical/CircuiTech/internal/models"
)

const (
	OpConverse     = "converse"
	OpDerivePinMap = "derive_pin_map"
)

// ConverseResult is a settled chat turn. Bom is nil when the reply carried no
// BOM; a non-nil (possibly empty) Bom replaces the current one.
type ConverseResult struct {
	Reply string
	Bom   []models.BomItem
}

// Gateway is the backend seen from the session store.
type Gateway interface {
	Converse(ctx context.Context, message string, history []models.ChatMessage) (*ConverseResult, error)
	DerivePinMap(ctx context.Context, items []models.BomItem) ([]models.Connection, error)
}

// TransportError is the single failure condition of a gateway call. StatusCode
// is zero when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func transportErr(op string, status int, err error) error {
	return &TransportError{Op: op, StatusCode: status, Err: err}
}
