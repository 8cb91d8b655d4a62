package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knobel-manager/models"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, r.URL.Query().Get("room"))
		if !hub.Join(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, room string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?room=" + room
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WebSocketMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg WebSocketMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestHub_PublishReachesGameRoomAndLobby(t *testing.T) {
	hub, srv := startHub(t)
	gameConn := dial(t, srv, RoomForGame(7))
	lobbyConn := dial(t, srv, LobbyRoom)
	otherConn := dial(t, srv, RoomForGame(8))

	require.Eventually(t, func() bool {
		return hub.ClientCount(RoomForGame(7)) == 1 && hub.ClientCount(LobbyRoom) == 1 && hub.ClientCount(RoomForGame(8)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.Publish(models.ChangeEvent{Type: models.ChangeScoresUpdated, GameID: 7, RoundNumber: 1, TableNumber: 2})

	msg := readMessage(t, gameConn)
	assert.Equal(t, "SCORES_UPDATED", msg.Type)
	assert.Equal(t, "game_7", msg.RoomID)

	msg = readMessage(t, lobbyConn)
	assert.Equal(t, "SCORES_UPDATED", msg.Type)
	assert.Equal(t, LobbyRoom, msg.RoomID)

	require.NoError(t, otherConn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := otherConn.ReadMessage()
	assert.Error(t, err, "other games must not receive the event")
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, RoomForGame(1))
	require.Eventually(t, func() bool { return hub.ClientCount(RoomForGame(1)) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return hub.ClientCount(RoomForGame(1)) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishWithoutClientsIsNoop(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NotPanics(t, func() {
		hub.Publish(models.ChangeEvent{Type: models.ChangeGamesRefreshed})
	})
}
