package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/broadcast"
	"github.com/Muhammet-Aksoy/stokv1/internal/dto"
	"github.com/Muhammet-Aksoy/stokv1/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The server sits on a shop LAN behind no proxy; clients connect from
	// file:// and local hostnames.
	CheckOrigin: func(*http.Request) bool { return true },
}

// LiveHandler is the WebSocket endpoint of the live channel. Each connection
// is one session: the server greets it with "connected", answers its
// "requestData" with a full snapshot, re-broadcasts its "dataUpdate" frames
// to every other session, and pushes "dataUpdated" mutation events.
type LiveHandler struct {
	hub       *broadcast.Hub
	snapshots service.SnapshotService
}

func NewLiveHandler(hub *broadcast.Hub, snapshots service.SnapshotService) *LiveHandler {
	return &LiveHandler{hub: hub, snapshots: snapshots}
}

func (h *LiveHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("live: upgrade failed")
		return
	}
	defer conn.Close()

	// Reconnecting clients keep their session id via ?session=; fresh
	// connections get a new one.
	session := c.Query("session")
	if session == "" {
		session = uuid.NewString()
	}

	events, unsubscribe := h.hub.Subscribe(session)
	defer unsubscribe()

	// Direct replies to this session share the connection with hub events;
	// the writer goroutine is the only place that touches the socket.
	replies := make(chan dto.ServerMessage, 8)
	done := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for {
			select {
			case msg, ok := <-events:
				if !ok {
					return
				}
				if !writeMessage(conn, msg) {
					return
				}
			case msg := <-replies:
				if !writeMessage(conn, msg) {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// Sends select on writerDone so a dead writer never wedges the reader.
	reply := func(msg dto.ServerMessage) {
		select {
		case replies <- msg:
		case <-writerDone:
		}
	}

	reply(dto.ServerMessage{
		Type:      "connected",
		Message:   "Bağlantı kuruldu",
		SessionID: session,
		Timestamp: time.Now().UTC(),
	})
	log.Info().Str("session", session).Msg("live: session connected")

	for {
		var msg dto.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		h.handleClientMessage(c, session, msg, reply)
	}

	close(done)
	<-writerDone
	log.Info().Str("session", session).Msg("live: session disconnected")
}

func (h *LiveHandler) handleClientMessage(c *gin.Context, session string, msg dto.ClientMessage, reply func(dto.ServerMessage)) {
	switch msg.Type {
	case "requestData":
		snap, err := h.snapshots.Export(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("session", session).Msg("live: export failed")
			reply(dto.ServerMessage{
				Type:      "dataResponse",
				Success:   boolPtr(false),
				Message:   "Veriler okunamadı",
				Timestamp: time.Now().UTC(),
			})
			return
		}
		reply(dto.ServerMessage{
			Type:    "dataResponse",
			Success: boolPtr(true),
			Data: gin.H{
				"data":   snap,
				"counts": snap.Counts(),
			},
			Timestamp: time.Now().UTC(),
		})

	case "dataUpdate":
		// Relayed verbatim to every other session; the payload is opaque to
		// the server. The sender gets an ack, not an echo.
		h.hub.Publish(session, dto.ServerMessage{
			Type:      "dataUpdated",
			Data:      json.RawMessage(msg.Data),
			SessionID: session,
			Timestamp: time.Now().UTC(),
		})
		reply(dto.ServerMessage{
			Type:      "updateResponse",
			Success:   boolPtr(true),
			Timestamp: time.Now().UTC(),
		})

	default:
		log.Warn().Str("session", session).Str("type", msg.Type).Msg("live: unknown message type")
	}
}

func writeMessage(conn *websocket.Conn, msg dto.ServerMessage) bool {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		log.Debug().Err(err).Msg("live: write failed")
		return false
	}
	return true
}

func boolPtr(b bool) *bool { return &b }
