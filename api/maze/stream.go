package mazeapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// stream drives a visualized session at the controller's frame interval and
// pushes every step result as a JSON text message. Closing the socket stops
// the stepping and leaves the session where it stands.
func (mc *MazeController) stream(ctx *gin.Context) {
	id, ok := sessionID(ctx)
	if !ok {
		return
	}
	owner := identity.UserID(ctx)

	view, err := mc.manager.Session(owner, id)
	if err != nil {
		mc.fail(ctx, err)
		return
	}
	if !view.Visualized {
		ctx.JSON(http.StatusConflict, gin.H{"error": "maze session is not visualized"})
		return
	}

	conn, err := mc.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		mc.logger.Warn(fmt.Sprintf("Upgrading stream of session %s: %v", id, err))
		return
	}
	defer conn.Close()

	streamCtx, cancel := context.WithCancel(ctx.Request.Context())
	defer cancel()

	// The reader only exists to notice the client going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(mc.frameInterval)
	defer ticker.Stop()

	for {
		result, err := mc.manager.Step(streamCtx, owner, id)
		if err != nil {
			closeWith(conn, websocket.CloseInternalServerErr, err.Error())
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(result); err != nil {
			return
		}
		if result.Done {
			closeWith(conn, websocket.CloseNormalClosure, "maze generated")
			return
		}

		select {
		case <-streamCtx.Done():
			mc.logger.Info(fmt.Sprintf("Stream of session %s stopped by client", id))
			return
		case <-ticker.C:
		}
	}
}

func closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
