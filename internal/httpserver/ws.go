package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/ricky2013dev/smithpjt-verify/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Browser demo; origin enforcement is handled by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const writeTimeout = 10 * time.Second

// Stream upgrades to a WebSocket and relays a session's events: a snapshot
// of current state first, then live updates in order. Transcript events ride
// as JSON text frames; synthesized audio as binary frames. Dropping the
// socket only unsubscribes the viewer; it does not end the session.
func (m *Manager) Stream(c echo.Context) error {
	id := c.QueryParam("session")
	h, sub, snapshot, ok := m.attach(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such session"})
	}
	defer h.unsubscribe(sub)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, e := range snapshot {
		data, merr := json.Marshal(e)
		if merr != nil {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if werr := conn.WriteMessage(websocket.TextMessage, data); werr != nil {
			return nil
		}
	}

	// Reader goroutine: we never expect client messages, but reading is how
	// gorilla surfaces close frames.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return nil
		case msg, ok := <-sub:
			if !ok {
				return nil
			}
			kind := websocket.TextMessage
			if msg.binary {
				kind = websocket.BinaryMessage
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if werr := conn.WriteMessage(kind, msg.data); werr != nil {
				log.Debug(log.Fields{"session": id, "err": werr}, "stream write failed; dropping viewer")
				return nil
			}
		}
	}
}
