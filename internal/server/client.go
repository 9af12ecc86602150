package server

import (
	"labyrinth-server/internal/engine"
	"labyrinth-server/internal/network"
	"labyrinth-server/pkg/api"
	"labyrinth-server/pkg/logger"
	"labyrinth-server/pkg/utils"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и Service
type Client struct {
	Service *engine.Service
	Hub     *network.Broadcaster
	Conn    *websocket.Conn
	Send    chan api.ServerMessage
	Session string

	// token из рукопожатия подставляется в команды без своего токена
	token string
}

func NewClient(svc *engine.Service, hub *network.Broadcaster, conn *websocket.Conn) *Client {
	return &Client{
		Service: svc,
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan api.ServerMessage, 256),
		Session: utils.GenerateID(),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	log := logger.Log.WithFields(logrus.Fields{
		"component": "ws_client",
		"session":   c.Session,
	})

	registered := false
	defer func() {
		if registered {
			c.Hub.Unregister(c.Session)
		} else {
			close(c.Send)
		}
		if err := c.Conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection")
		}
		log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE
	var hello api.ClientCommand
	if err := c.Conn.ReadJSON(&hello); err != nil {
		log.WithError(err).Warn("Handshake failed")
		return
	}
	c.token = hello.Token

	// 2. ПОДПИСКА НА ОБНОВЛЕНИЯ
	updates := c.Hub.Register(c.Session)
	registered = true
	go func() {
		for msg := range updates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	log.Info("Client connected")

	// Первая отрисовка
	c.Service.Submit(c.Session, api.ClientCommand{Action: "INIT", Token: c.token})

	// 3. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Error("WS Error")
			}
			return
		}
		if cmd.Token == "" {
			cmd.Token = c.token
		}
		c.Service.Submit(c.Session, cmd)
	}
}

// writePump отправляет данные клиенту + Ping.
// Накопившиеся кадры схлопываются: клиенту нужен только последний.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	log := logger.Log.WithFields(logrus.Fields{
		"component": "ws_client",
		"session":   c.Session,
	})
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case first, ok := <-c.Send:
			batch, open := drain(c.Send, first, ok)
			for _, msg := range coalesceFrames(batch) {
				if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					log.WithError(err).Warn("failed to set write deadline")
				}
				if err := c.Conn.WriteJSON(msg); err != nil {
					log.WithError(err).Debug("write json message failed")
					return
				}
			}
			if !open {
				_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					log.WithError(err).Debug("write close message failed")
				}
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

// drain забирает из канала все, что уже накопилось. open == false - канал закрыт.
func drain(ch <-chan api.ServerMessage, first api.ServerMessage, ok bool) ([]api.ServerMessage, bool) {
	if !ok {
		return nil, false
	}
	batch := []api.ServerMessage{first}
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return batch, false
			}
			batch = append(batch, msg)
		default:
			return batch, true
		}
	}
}

// coalesceFrames оставляет только последний FRAME пачки, остальные сообщения идут по порядку
func coalesceFrames(batch []api.ServerMessage) []api.ServerMessage {
	last := -1
	for i, msg := range batch {
		if msg.Type == api.MsgFrame {
			last = i
		}
	}
	out := batch[:0]
	for i, msg := range batch {
		if msg.Type == api.MsgFrame && i != last {
			continue
		}
		out = append(out, msg)
	}
	return out
}
