package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/evalforge/evalforge/pkg/progress"
)

// writeTimeout bounds how long one progress-snapshot send may block,
// mirroring pkg/events/manager.go's ConnectionManager.writeTimeout.
const writeTimeout = 5 * time.Second

// handleStreamRun upgrades to a WebSocket and streams progress.Snapshot
// JSON frames until the run completes or the client disconnects.
func (s *Server) handleStreamRun(c *gin.Context) {
	run, ok := s.getRun(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.CloseNow()

	ctx := c.Request.Context()
	sub, unsubscribe := run.Progress.Subscribe()
	defer unsubscribe()

	// Send the current snapshot immediately so a late subscriber isn't
	// blocked waiting on the next Dispatch.
	finished := func(snap progress.Snapshot) bool {
		return snap.Phase == progress.PhaseCompleted || snap.Phase == progress.PhaseResults || snap.Phase == progress.PhaseError
	}
	initial := run.Progress.Snapshot()
	if err := s.sendSnapshot(ctx, conn, initial); err != nil || finished(initial) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub:
			if !ok {
				return
			}
			if err := s.sendSnapshot(ctx, conn, snap); err != nil || finished(snap) {
				return
			}
		}
	}
}

func (s *Server) sendSnapshot(ctx context.Context, conn *websocket.Conn, snap interface{}) error {
	data, err := json.Marshal(snap)
	if err != nil {
		slog.Warn("failed to marshal progress snapshot", "error", err)
		return nil
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
