package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/cubicleview/pkg/session"
)

const (
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// client is one websocket subscriber.
type client struct {
	conn *websocket.Conn
	send chan session.Event
}

// push queues e, dropping it when the client is too slow.
func (c *client) push(e session.Event) {
	select {
	case c.send <- e:
	default:
	}
}

func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	c := &client{send: make(chan session.Event, sendBuffer)}

	// Subscribe before the handshake completes so no redraw after it is lost.
	unsubscribe, err := sess.Subscribe(r.Context(), c.push)
	if err != nil {
		writeError(w, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		unsubscribe()
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c.conn = conn
	s.logger.Debug("websocket connected", "session", sess.ID())

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		c.readPump()
	}()
	c.writePump(closed)
	unsubscribe()
	s.logger.Debug("websocket disconnected", "session", sess.ID())
}

// readPump discards client messages until the connection closes.
func (c *client) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump(closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case <-closed:
			return
		case e := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
