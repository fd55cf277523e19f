package server

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/example/numbit/internal/editor"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

type client struct {
	conn    *websocket.Conn
	id      string
	session *editor.Editor
	send    chan []byte
	done    chan struct{}
	log     *logrus.Entry
}

func newClient(conn *websocket.Conn, id string, e *editor.Editor, log *logrus.Entry) *client {
	return &client{conn: conn, id: id, session: e, send: make(chan []byte, 64), done: make(chan struct{}), log: log}
}

// readPump applies requests until the connection closes, then closes send.
func (c *client) readPump() {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("websocket read error")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		select {
		case c.send <- c.handle(message):
		case <-c.done:
			return
		}
	}
}

func (c *client) handle(message []byte) []byte {
	var req Request
	var reply interface{}
	if err := json.Unmarshal(message, &req); err != nil {
		reply = ErrorReply{Error: "invalid request: " + err.Error()}
	} else if err := Apply(c.session, req); err != nil {
		c.log.WithField("op", req.Op).WithError(err).Debug("request rejected")
		reply = ErrorReply{Error: err.Error()}
	} else {
		reply = Snapshot(c.id, c.session)
	}
	data, err := json.Marshal(reply)
	if err != nil {
		data, _ = json.Marshal(ErrorReply{Error: err.Error()})
	}
	return data
}

// writePump sends queued replies and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.WithError(err).Warn("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
