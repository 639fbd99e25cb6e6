package models

// SessionSnapshot is a deep copy of the session state at one point in time.
// It is what observers (the UI) see; mutating it has no effect on the session.
type SessionSnapshot struct {
	SessionID      string
	ChatHistory    []ChatMessage
	CurrentBom     []BomItem
	PinConnections []Connection
	ActiveView     View
	Busy           bool // ChatBusy || PinMapBusy
	ChatBusy       bool
	PinMapBusy     bool
	// BomGeneration increments on every BOM replacement. PinMapGeneration is
	// the BOM generation the current pin map was derived from.
	BomGeneration    uint64
	PinMapGeneration uint64
}

func (s SessionSnapshot) TotalCost() float64 {
	return BomTotal(s.CurrentBom)
}

func (s SessionSnapshot) PartCount() int {
	return len(s.CurrentBom)
}
