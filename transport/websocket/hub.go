package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// client wraps one live connection. gorilla conns tolerate a single writer at
// a time, so every write goes through the client's own mutex.
type client struct {
	id       string
	identity string
	conn     *websocket.Conn

	writeMu sync.Mutex
}

func (that *client) writeRaw(data []byte) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	return that.conn.WriteMessage(websocket.TextMessage, data)
}

func (that *client) write(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return that.writeRaw(data)
}

// Hub is the connection registry and the per-session broadcast fan-out. A
// session's group holds connection ids only; live handles are resolved at
// publish time and dead ones are dropped as they are found.
type Hub struct {
	logger *slog.Logger

	mu         sync.RWMutex
	clients    map[string]*client            // client id -> connection
	identities map[string]string             // identity -> client id
	groups     map[string]map[string]struct{} // game id -> client ids
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,

		clients:    make(map[string]*client),
		identities: make(map[string]string),
		groups:     make(map[string]map[string]struct{}),
	}
}

func (that *Hub) Register(clientID, identity string, conn *websocket.Conn) *client {
	that.mu.Lock()
	defer that.mu.Unlock()

	c := &client{id: clientID, identity: identity, conn: conn}
	that.clients[clientID] = c
	that.identities[identity] = clientID

	return c
}

func (that *Hub) Remove(clientID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.removeLocked(clientID)
}

func (that *Hub) removeLocked(clientID string) {
	c, ok := that.clients[clientID]
	if !ok {
		return
	}

	delete(that.clients, clientID)

	if that.identities[c.identity] == clientID {
		delete(that.identities, c.identity)
	}
}

func (that *Hub) Subscribe(gameID, clientID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	group, ok := that.groups[gameID]
	if !ok {
		group = make(map[string]struct{})
		that.groups[gameID] = group
	}

	group[clientID] = struct{}{}
}

// Unsubscribe drops the mapping; an emptied group disappears with it. The
// session record itself is not touched here.
func (that *Hub) Unsubscribe(gameID, clientID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.unsubscribeLocked(gameID, clientID)
}

func (that *Hub) unsubscribeLocked(gameID, clientID string) {
	group, ok := that.groups[gameID]
	if !ok {
		return
	}

	delete(group, clientID)

	if len(group) == 0 {
		delete(that.groups, gameID)
	}
}

// Publish delivers the payload to every connection subscribed to the session.
// Connections that fail the write are unsubscribed and dropped on the spot.
func (that *Hub) Publish(gameID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		that.logger.Error("failed to marshal broadcast payload", "gameID", gameID, "error", err)
		return
	}

	that.mu.RLock()
	recipients := make([]*client, 0, len(that.groups[gameID]))
	for clientID := range that.groups[gameID] {
		if c, ok := that.clients[clientID]; ok {
			recipients = append(recipients, c)
		}
	}
	that.mu.RUnlock()

	var dead []*client
	for _, c := range recipients {
		if err = c.writeRaw(data); err != nil {
			that.logger.Debug("dropping dead subscriber", "gameID", gameID, "clientID", c.id)
			dead = append(dead, c)
		}
	}

	if len(dead) == 0 {
		return
	}

	that.mu.Lock()
	for _, c := range dead {
		that.unsubscribeLocked(gameID, c.id)
		that.removeLocked(c.id)
	}
	that.mu.Unlock()
}

// SendToIdentity writes to the single connection bound to the identity.
// Returns false when the identity has no live connection.
func (that *Hub) SendToIdentity(identity string, payload any) bool {
	that.mu.RLock()
	clientID, ok := that.identities[identity]
	c := that.clients[clientID]
	that.mu.RUnlock()

	if !ok || c == nil {
		return false
	}

	if err := c.write(payload); err != nil {
		that.logger.Debug("failed to send to identity", "identity", identity, "error", err)
		return false
	}

	return true
}

// Subscribers reports the current size of a session's broadcast group.
func (that *Hub) Subscribers(gameID string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.groups[gameID])
}
