package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/gridclash/gridclash-backend/internal/entity"
)

const (
	messagesPerSecond = 20
	messageBurst      = 40

	closeGracePeriod = time.Second
)

type gameUseCase interface {
	CreateGame(identity, clientID string, variant entity.Variant) (*entity.Session, error)
	JoinGame(identity, clientID, gameID string) error
	MakeMove(identity, gameID string, target int)
	RequestRematch(identity, gameID string)
	SendChat(identity, gameID, text string) error
	Disconnect(identity, clientID string)
}

type tokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type Server struct {
	logger *slog.Logger

	hub         *Hub
	gameUseCase gameUseCase
	auth        tokenVerifier

	upgrader websocket.Upgrader
	handlers map[string]func(c *client, msg *Message)
}

func New(logger *slog.Logger, hub *Hub, gameUseCase gameUseCase, auth tokenVerifier) *Server {
	server := &Server{
		logger: logger,

		hub:         hub,
		gameUseCase: gameUseCase,
		auth:        auth,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		handlers: make(map[string]func(*client, *Message)),
	}

	server.handlers[actionCreateGame] = server.handleCreateGame
	server.handlers[actionJoinGame] = server.handleJoinGame
	server.handlers[actionMakeMove] = server.handleMakeMove
	server.handlers[actionRequestReplay] = server.handleRequestReplay
	server.handlers[actionSendMessage] = server.handleSendMessage

	return server
}

// Start - starts the WebSocket server and blocks until it stops.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS upgrades the connection, authenticates it and runs its read loop.
func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	identity, err := that.auth.VerifyToken(req.URL.Query().Get("token"))
	if err != nil {
		log.Info("rejected unauthenticated connection", "error", err)
		that.closeUnauthenticated(conn)
		return
	}

	clientID := uuid.NewString()
	c := that.hub.Register(clientID, identity, conn)

	log = log.With("clientID", clientID, "identity", identity)
	log.Info("connection established")

	if err = c.write(ConnectedEvent{Type: eventConnected, ClientID: clientID}); err != nil {
		log.Error("failed to send connected message", "error", err)
	}

	that.readLoop(c)

	// transport loss and explicit close end up in the same cleanup path
	that.gameUseCase.Disconnect(identity, clientID)
	that.hub.Remove(clientID)
	_ = conn.Close()

	log.Info("connection closed")
}

func (that *Server) readLoop(c *client) {
	log := that.logger.With("method", "readLoop", "clientID", c.id)

	limiter := rate.NewLimiter(messagesPerSecond, messageBurst)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Debug("read failed", "error", err)
			return
		}

		if !limiter.Allow() {
			log.Debug("message dropped by rate limiter")
			continue
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			that.sendError(c, "invalid message")
			continue
		}

		handler, ok := that.handlers[msg.Type]
		if !ok {
			that.sendError(c, "unknown message type")
			continue
		}

		handler(c, &msg)
	}
}

// closeUnauthenticated reports the auth failure and closes with a policy
// violation code, before any session state is touched.
func (that *Server) closeUnauthenticated(conn *websocket.Conn) {
	authError := ErrorEvent{Type: eventAuthError, Message: "invalid or missing token"}
	if data, err := json.Marshal(authError); err == nil {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}

	closeFrame := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication failed")
	_ = conn.WriteControl(websocket.CloseMessage, closeFrame, time.Now().Add(closeGracePeriod))
	_ = conn.Close()
}

func (that *Server) sendError(c *client, message string) {
	if err := c.write(ErrorEvent{Type: eventError, Message: message}); err != nil {
		that.logger.Debug("failed to send error message", "clientID", c.id, "error", err)
	}
}
