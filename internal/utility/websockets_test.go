package utility

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialTestSocket upgrades one connection through the hub's Upgrader and
// returns both ends.
func dialTestSocket(t *testing.T) (client, server *websocket.Conn) {
	t.Helper()
	serverCh := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverCh <- conn
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	server = <-serverCh
	return client, server
}

func TestReconnectSurvivesStaleUnregister(t *testing.T) {
	_, srvA := dialTestSocket(t)
	clientB, srvB := dialTestSocket(t)

	RegisterClient("user-reconnect", srvA)
	// Reconnect: the hub closes srvA and stores srvB under the same user.
	RegisterClient("user-reconnect", srvB)

	// The old connection's cleanup runs after the replacement; it must not
	// evict the live socket.
	UnregisterClient("user-reconnect", srvA)

	ClientsMu.Lock()
	cur := Clients["user-reconnect"]
	ClientsMu.Unlock()
	if cur != srvB {
		t.Fatal("hub lost the live connection after the stale unregister")
	}

	PushScoreUpdate("user-reconnect", 0.87)

	clientB.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]float64
	if err := clientB.ReadJSON(&msg); err != nil {
		t.Fatalf("reading score push on reconnected socket: %v", err)
	}
	if msg["score"] != 0.87 {
		t.Errorf("score = %v, want 0.87", msg["score"])
	}

	UnregisterClient("user-reconnect", srvB)
}

func TestUnregisterRemovesOwnConnection(t *testing.T) {
	_, srv := dialTestSocket(t)
	RegisterClient("user-leave", srv)
	UnregisterClient("user-leave", srv)

	ClientsMu.Lock()
	_, ok := Clients["user-leave"]
	ClientsMu.Unlock()
	if ok {
		t.Fatal("connection should have been removed from the hub")
	}
}
