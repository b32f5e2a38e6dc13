package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteWait      = 10 * time.Second
	wsMaxMessageSize = 64 * 1024
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChatWS serves the chat over a websocket: one ChatRequest JSON message in,
// one ChatResponse out, per turn. The socket shares the session's memory
// with the HTTP chat endpoint. The session is resolved per turn, so a video
// uploaded mid-connection takes effect on the next message.
func (h *Handler) ChatWS(c echo.Context) error {
	if _, ok := h.sessions.Current(); !ok {
		return badRequest("no_session", "no video uploaded yet")
	}

	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	ws.SetReadLimit(wsMaxMessageSize)
	h.logger.Info("websocket chat opened")

	for {
		var req ChatRequest
		if err := ws.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			return nil
		}

		resp := ChatResponse{Status: "success"}
		sess, ok := h.sessions.Current()
		switch {
		case !ok:
			resp = ChatResponse{Response: "no video uploaded yet", Status: "error"}
		case req.Message == "":
			resp = ChatResponse{Response: "message must not be empty", Status: "error"}
		default:
			resp.Response = sess.Agent.Chat(c.Request().Context(), req.Message)
		}

		ws.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := ws.WriteJSON(resp); err != nil {
			h.logger.Warn("websocket write failed", "error", err)
			return nil
		}
	}
}
