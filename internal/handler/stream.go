package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/scootcare/support-platform/internal/middleware"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/nats"
	"github.com/scootcare/support-platform/internal/service"
	"github.com/scootcare/support-platform/pkg/logger"
	"github.com/scootcare/support-platform/pkg/metrics"
)

const (
	streamPollInterval = 2 * time.Second
	heartbeatInterval  = 30 * time.Second
	streamBatchLimit   = 64
)

// StreamHandler serves session updates over SSE, backed by the JetStream
// session stream. Reconnecting clients pass Last-Event-ID (or ?after_seq) to
// replay what they missed.
type StreamHandler struct {
	chat    *service.ChatService
	streams *nats.StreamManager
	logger  *logger.Logger
}

// NewStreamHandler creates a stream handler.
func NewStreamHandler(chat *service.ChatService, streams *nats.StreamManager, log *logger.Logger) *StreamHandler {
	return &StreamHandler{chat: chat, streams: streams, logger: log}
}

// Stream handles GET /api/v1/sessions/{id}/stream.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	// Ownership gate before any events flow.
	if _, err := h.chat.GetSession(ctx, middleware.GetUserID(ctx), middleware.IsAdmin(ctx), sessionID); err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	afterSeq := lastSequence(r)

	poll := time.NewTicker(streamPollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	// Immediate first fetch covers the replay window.
	afterSeq = h.deliver(ctx, w, flusher, sessionID, afterSeq)

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-poll.C:
			afterSeq = h.deliver(ctx, w, flusher, sessionID, afterSeq)
		}
	}
}

// deliver fetches and writes any events past afterSeq, returning the new
// high-water mark.
func (h *StreamHandler) deliver(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, afterSeq uint64) uint64 {
	events, lastSeq, err := h.streams.GetSessionUpdates(ctx, sessionID, afterSeq, streamBatchLimit)
	if err != nil {
		h.logger.Warn("failed to fetch session updates",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return afterSeq
	}

	for _, event := range events {
		writeEvent(w, event)
	}
	if len(events) > 0 {
		flusher.Flush()
	}
	return lastSeq
}

func writeEvent(w http.ResponseWriter, event model.SessionUpdateEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "id: %d\nevent: session_update\ndata: %s\n\n", event.Sequence, data)
}

// lastSequence reads the replay cursor from Last-Event-ID, falling back to the
// after_seq query parameter.
func lastSequence(r *http.Request) uint64 {
	raw := r.Header.Get("Last-Event-ID")
	if raw == "" {
		raw = r.URL.Query().Get("after_seq")
	}
	if raw == "" {
		return 0
	}
	seq, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return seq
}
