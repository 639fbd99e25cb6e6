package models

// Connection is a point-to-point signal link between two BOM parts.
type Connection struct {
	SourcePart  string `json:"source_part"`
	SourcePin   string `json:"source_pin"`
	TargetPart  string `json:"target_part"`
	TargetPin   string `json:"target_pin"`
	SignalType  string `json:"signal_type"` // e.g. I2C, UART, Power, Ground
	Description string `json:"description"`
}

func CloneConnections(conns []Connection) []Connection {
	if conns == nil {
		return []Connection{}
	}
	out := make([]Connection, len(conns))
	copy(out, conns)
	return out
}
