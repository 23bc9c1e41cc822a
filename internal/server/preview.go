package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matthewbaird/admingen/internal/artifact"
	"github.com/matthewbaird/admingen/internal/event"
	"github.com/matthewbaird/admingen/internal/generate"
	"github.com/matthewbaird/admingen/internal/logger"
	"github.com/matthewbaird/admingen/internal/output"
)

// previewHandler streams generated files over a WebSocket so an editor can
// show artifacts while the config is being written.
type previewHandler struct {
	gen *generate.Service
}

func newPreviewHandler(gen *generate.Service) *previewHandler {
	return &previewHandler{gen: gen}
}

// ServeHTTP upgrades to WebSocket and runs the message loop.
func (h *previewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		logger.Get().Warnw("preview: websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxConfigBytes)

	ctx := r.Context()
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				logger.Get().Debugw("preview: connection closed", "status", status)
			}
			return
		}

		switch msg.Type {
		case "generate":
			h.handleGenerate(ctx, conn, msg)
		case "ping":
			h.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "UNKNOWN_TYPE", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *previewHandler) handleGenerate(ctx context.Context, conn *websocket.Conn, msg ClientMessage) {
	start := time.Now()

	if len(msg.Data) == 0 {
		h.sendError(ctx, conn, msg.ID, "INVALID_CONFIG", "generate requires a config in data")
		return
	}
	kinds, err := artifact.ParseKinds(msg.Kinds)
	if err != nil {
		h.sendClassified(ctx, conn, msg.ID, err)
		return
	}
	name := "config.json"
	if msg.Format == "cue" {
		name = "config.cue"
	}

	res, err := h.gen.Generate(ctx, generate.Request{
		Config: msg.Data,
		Name:   name,
		Kinds:  kinds,
		Source: event.SourcePreview,
	})
	if err != nil {
		h.sendClassified(ctx, conn, msg.ID, err)
		return
	}

	for _, f := range res.Files {
		if err := h.send(ctx, conn, ServerMessage{Type: "file", RequestID: msg.ID, Data: f}); err != nil {
			return
		}
	}
	h.send(ctx, conn, ServerMessage{
		Type:      "done",
		RequestID: msg.ID,
		Data: DoneData{
			ID:      res.ID,
			Files:   len(res.Files),
			Bytes:   output.Size(res.Files),
			Cached:  res.Cached,
			Elapsed: time.Since(start).String(),
		},
	})
}

func (h *previewHandler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) error {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		logger.Get().Debugw("preview: write", "error", err)
		return err
	}
	return nil
}

func (h *previewHandler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data:      ErrorData{Code: code, Message: message},
	})
}

func (h *previewHandler) sendClassified(ctx context.Context, conn *websocket.Conn, requestID string, err error) {
	_, code := classify(err)
	message := err.Error()
	if code == "INTERNAL_ERROR" {
		logger.Get().Errorw("preview: generate", "error", err)
		message = "internal server error"
	}
	h.sendError(ctx, conn, requestID, code, message)
}
