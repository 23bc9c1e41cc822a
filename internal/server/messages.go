package server

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ClientMessage is the envelope for all client-to-server preview messages.
type ClientMessage struct {
	Type string `json:"type"` // "generate", "ping"
	ID   string `json:"id"`   // client-assigned request ID
	// Kinds is an optional comma-separated kind list for "generate".
	Kinds  string          `json:"kinds,omitempty"`
	Format string          `json:"format,omitempty"` // "json" (default) or "cue"
	Data   json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is the envelope for all server-to-client preview messages.
type ServerMessage struct {
	Type      string `json:"type"` // "file", "done", "error", "pong"
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// DoneData ends the stream of files for one request.
type DoneData struct {
	ID      uuid.UUID `json:"id"`
	Files   int       `json:"files"`
	Bytes   int64     `json:"bytes"`
	Cached  bool      `json:"cached"`
	Elapsed string    `json:"elapsed"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
