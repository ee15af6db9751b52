package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/davidarcila/TowerFlip/internal/constants"
	"github.com/davidarcila/TowerFlip/internal/logging"
	"github.com/gin-gonic/gin"
)

// StreamEvents upgrades to a websocket and streams the run's narrated event
// log: the existing tail first, then new entries as scheduled continuations
// fire. The stream closes once the run is over and fully flushed.
func (h *RunHandler) StreamEvents(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}
	email := sessionEmail(c)

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrFailedUpgradeWebsocket})
		return
	}
	defer conn.CloseNow()

	ctx := c.Request.Context()
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	cursor := 0
	for {
		snap, err := h.svc.GetSnapshot(id, email, cursor)
		if err != nil {
			conn.Close(websocket.StatusNormalClosure, "run gone")
			return
		}
		for _, ev := range snap.Events {
			b, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, b); err != nil {
				return
			}
			cursor = ev.Seq
		}
		if snap.Over {
			conn.Close(websocket.StatusNormalClosure, "run over")
			return
		}
		select {
		case <-ctx.Done():
			logging.Info("event stream closed by client", logging.Fields{constants.LogFieldRunID: id})
			return
		case <-ticker.C:
		}
	}
}
