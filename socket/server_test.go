package socket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dinnermatch_server/helpers"

	"github.com/gorilla/websocket"
)

func TestHubBroadcastsMatchedToDateRoom(t *testing.T) {
	hub := NewHub()
	go hub.Server.Serve()
	defer hub.Server.Close()

	// Served behind the request logger the way main wires it
	server := httptest.NewServer(helpers.WithLogging(hub.Server))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/socket.io/?EIO=3&transport=websocket"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Websocket upgrade failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, open, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read open packet: %v", err)
	}
	if !strings.HasPrefix(string(open), "0") {
		t.Fatalf("Expected engine.io open packet, got %q", open)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`42["join","2024-03-01"]`)); err != nil {
		t.Fatalf("Failed to send join: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for hub.Server.RoomLen("/", "2024-03-01") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Expected the connection to join the date room")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.NotifyMatched("2024-03-01", map[string]string{"status": "matched"})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Expected a matched event, got error: %v", err)
		}
		if strings.HasPrefix(string(msg), `42["matched"`) {
			if !strings.Contains(string(msg), `"status":"matched"`) {
				t.Errorf("Expected payload in event, got %q", msg)
			}
			return
		}
	}
}

func TestNotifyMatchedWithoutListeners(t *testing.T) {
	hub := NewHub()
	go hub.Server.Serve()
	defer hub.Server.Close()

	hub.NotifyMatched("2024-03-02", map[string]string{"status": "matched"})
}
