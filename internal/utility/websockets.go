package utility

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Simple hub of live score sockets: map[userID] -> connection. A user gets
// one connection; a reconnect replaces the previous one.
var (
	Clients   = make(map[string]*websocket.Conn)
	ClientsMu sync.Mutex
	Upgrader  = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Allow CORS for development
		CheckOrigin: func(r *http.Request) bool { return true },
	}
)

// RegisterClient adds a new score socket for the user.
func RegisterClient(userID string, conn *websocket.Conn) {
	ClientsMu.Lock()
	defer ClientsMu.Unlock()
	if old, ok := Clients[userID]; ok {
		old.Close()
	}
	Clients[userID] = conn
	log.Info().Str("user_id", userID).Msg("Score socket connected")
}

// UnregisterClient drops the user's socket (when they close the app). The
// caller passes its own connection: a stale connection replaced by a
// reconnect must not evict the live one registered after it.
func UnregisterClient(userID string, conn *websocket.Conn) {
	ClientsMu.Lock()
	defer ClientsMu.Unlock()
	if cur, ok := Clients[userID]; ok && cur == conn {
		delete(Clients, userID)
		log.Info().Str("user_id", userID).Msg("Score socket disconnected")
	}
}

// PushScoreUpdate sends the freshly computed lifestyle score to the user's
// socket, if one is connected.
func PushScoreUpdate(userID string, score float64) {
	ClientsMu.Lock()
	defer ClientsMu.Unlock()

	conn, ok := Clients[userID]
	if !ok {
		return
	}
	if err := conn.WriteJSON(map[string]float64{"score": score}); err != nil {
		log.Error().Err(err).Msg("Failed to push score update, removing client")
		conn.Close()
		delete(Clients, userID)
	}
}
