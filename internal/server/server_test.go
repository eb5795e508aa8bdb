package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PythonSmall-Q/Monopoly/internal/config"
	"github.com/PythonSmall-Q/Monopoly/internal/game"
)

func newTestGame(t *testing.T) *game.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 5
	cfg.Automated = cfg.Players
	return game.New(cfg,
		game.WithLogger(log.New(io.Discard)),
		game.WithPacing(0, 0),
	)
}

func newTestServer(t *testing.T) (*Server, *game.Engine, *httptest.Server) {
	t.Helper()
	e := newTestGame(t)
	s := NewServer("", e, log.New(io.Discard))
	e.Bus().Subscribe(s)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		_ = s.Stop()
		ts.Close()
	})
	return s, e, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil drains messages until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, messageType MessageType) Message {
	t.Helper()
	for i := 0; i < 50; i++ {
		msg := readMessage(t, conn)
		if msg.Type == messageType {
			return msg
		}
	}
	t.Fatalf("never received %s", messageType)
	return Message{}
}

func TestObserverReceivesSnapshotOnConnect(t *testing.T) {
	_, e, ts := newTestServer(t)
	conn := dial(t, ts)

	msg := readMessage(t, conn)
	require.Equal(t, MessageSnapshot, msg.Type)

	var snap SnapshotData
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	assert.Equal(t, e.ID(), snap.GameID)
	assert.Len(t, snap.Board, e.Board().Size())
	assert.Len(t, snap.Players, len(e.Players()))
	assert.NotEmpty(t, snap.Market)
}

func TestLogEventsAreBroadcast(t *testing.T) {
	_, e, ts := newTestServer(t)
	conn := dial(t, ts)
	readMessage(t, conn) // initial snapshot

	e.Bus().Publish(game.NewLogEvent(time.Now(), "hello observers"))

	msg := readUntil(t, conn, MessageLog)
	var data LogData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "hello observers", data.Message)
}

func TestRefreshCarriesFreshSnapshot(t *testing.T) {
	_, e, ts := newTestServer(t)
	conn := dial(t, ts)
	readMessage(t, conn)

	e.Players()[0].Cash = 12345
	e.Bus().Publish(game.NewRefreshEvent(time.Now(), game.RefreshPlayers))

	readUntil(t, conn, MessageRefresh)
	msg := readUntil(t, conn, MessageSnapshot)
	var snap SnapshotData
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	assert.Equal(t, 12345, snap.Players[0].Cash)
}

func TestGameEndBroadcast(t *testing.T) {
	_, e, ts := newTestServer(t)
	conn := dial(t, ts)
	readMessage(t, conn)

	e.Bus().Publish(game.NewGameEndEvent(time.Now(), []game.Standing{
		{Rank: 1, Name: "Bot 1", Cash: 4000, NetWorth: 5200},
		{Rank: 2, Name: "Bot 2", Cash: 1000, NetWorth: 900, Bankrupt: true},
	}))

	msg := readUntil(t, conn, MessageGameEnd)
	var data GameEndData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	require.Len(t, data.Standings, 2)
	assert.Equal(t, "Bot 1", data.Standings[0].Name)
	assert.True(t, data.Standings[1].Bankrupt)
}

func TestHealthEndpoint(t *testing.T) {
	_, _, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
