// Package hub fans JSON status messages out to websocket clients using a
// single goroutine that owns the client set.
package hub

import (
	"encoding/json"
	"time"
)

// Envelope is the JSON shape of every broadcast.
type Envelope struct {
	Type string    `json:"type"`
	Data any       `json:"data,omitempty"`
	Time time.Time `json:"time"`
}

// NewEnvelope stamps a payload with the current time.
func NewEnvelope(typ string, data any) Envelope {
	return Envelope{Type: typ, Data: data, Time: time.Now()}
}

// Encode returns the JSON form of e.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}
