package models

// View selects which dashboard tab is shown.
type View string

const (
	ViewBOM    View = "bom"
	ViewPinMap View = "pinmap"
)

func (v View) Valid() bool {
	return v == ViewBOM || v == ViewPinMap
}

// Toggle returns the other view.
func (v View) Toggle() View {
	if v == ViewPinMap {
		return ViewBOM
	}
	return ViewPinMap
}

// AppModel represents the UI state - only local UI concerns plus the latest
// session snapshot pushed by the core.
type AppModel struct {
	SessionID        string
	Messages         []ChatMessage // Conversation as last pushed by core
	Notices          []string      // Program messages (welcome, hints)
	Bom              []BomItem
	Connections      []Connection
	PinMapLoading    bool // Pin-map request in flight
	ActiveView       View
	Input            string // User input field
	Status           string // Status bar text
	Loading          bool   // Busy state from core
	LoadingDots      int    // Animation counter for loading dots
	Width            int    // Terminal width
	Height           int    // Terminal height
	ChatServiceReady bool   // Whether the backend is configured
}
