package server

import (
	"context"
	"encoding/json"
	"io"
	"labyrinth-server/internal/engine"
	"labyrinth-server/internal/infrastructure/storage"
	"labyrinth-server/internal/network"
	"labyrinth-server/internal/systems"
	"labyrinth-server/pkg/api"
	"labyrinth-server/pkg/dungeon"
	"labyrinth-server/pkg/logger"
	"labyrinth-server/pkg/utils"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

const catalogYAML = `
labyrinths:
  - id: 1
    walls:
      - {id: 1, blocks_movement: true, blocks_sight: true}
      - {id: 2, blocks_movement: true, blocks_sight: true, player_can_pass: true}
`

// startServer поднимает сервис с коридором 5x3 и HTTP сервер поверх него
func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := dungeon.ParseCatalog([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	hub := network.NewBroadcaster()
	col := systems.Collaborators{
		SaveState: storage.NewMemorySaveState(),
		Clock:     utils.SystemClock{},
		Random:    utils.NewRandom(1),
	}
	svc := engine.NewService(engine.NewConfig(), cat, col, hub)
	desc := dungeon.NewMap(7, 5, 3).Frame(1).WithStart(1, 1).Wall(2, 1, 2).Build()
	if err := svc.Load(desc, ""); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = svc.Run(ctx) }()

	ts := httptest.NewServer(New(svc, hub, "0").Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestHealthAndVersion(t *testing.T) {
	ts := startServer(t)

	if code, body := get(t, ts.URL+"/health"); code != http.StatusOK || body != "ok" {
		t.Errorf("health: %d %q", code, body)
	}

	code, body := get(t, ts.URL+"/version")
	if code != http.StatusOK || !strings.Contains(body, "Module") {
		t.Errorf("version: %d %q", code, body)
	}
}

func TestDebugEndpoints(t *testing.T) {
	ts := startServer(t)

	code, body := get(t, ts.URL+"/debug/map")
	if code != http.StatusOK {
		t.Fatalf("debug/map: %d %s", code, body)
	}
	var summary struct {
		MapID int `json:"map_id"`
		Width int `json:"width"`
	}
	if err := json.Unmarshal([]byte(body), &summary); err != nil || summary.MapID != 7 || summary.Width != 5 {
		t.Errorf("Unexpected map summary %s (%v)", body, err)
	}

	code, body = get(t, ts.URL+"/debug/block?x=2&y=1")
	if code != http.StatusOK || !strings.Contains(body, `"automap":"DOOR"`) {
		t.Errorf("debug/block: %d %s", code, body)
	}

	if code, _ = get(t, ts.URL+"/debug/block?x=40&y=1"); code != http.StatusNotFound {
		t.Errorf("Expected 404 off grid, got %d", code)
	}
	if code, _ = get(t, ts.URL+"/debug/block"); code != http.StatusBadRequest {
		t.Errorf("Expected 400 without coordinates, got %d", code)
	}
}

func TestWebSocketSession(t *testing.T) {
	ts := startServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(api.ClientCommand{Action: "HELLO"}); err != nil {
		t.Fatalf("handshake: %v", err)
	}

	// После рукопожатия сервер присылает карту и кадр
	seen := map[string]bool{}
	deadline := time.Now().Add(3 * time.Second)
	for !(seen[api.MsgMapChanged] && seen[api.MsgFrame]) {
		_ = conn.SetReadDeadline(deadline)
		var msg api.ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v (seen %v)", err, seen)
		}
		seen[msg.Type] = true
		if msg.Type == api.MsgMapChanged && (msg.Map == nil || msg.Map.ID != 7) {
			t.Errorf("Unexpected map: %+v", msg.Map)
		}
	}

	// Шаг в дверь проходит, ответом приходит кадр с новой позицией
	cmd := api.ClientCommand{Action: "MOVE", Payload: json.RawMessage(`{"dx":1,"dy":0}`)}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("write: %v", err)
	}
	for {
		_ = conn.SetReadDeadline(deadline)
		var msg api.ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == api.MsgError {
			t.Fatalf("Move rejected: %s", msg.Error)
		}
		if msg.Type == api.MsgFrame && msg.Frame.Player.X == 2.5 {
			return
		}
	}
}

func TestCoalesceFrames(t *testing.T) {
	batch := []api.ServerMessage{
		{Type: api.MsgFrame, Tick: 1},
		{Type: api.MsgPopup, Tick: 1},
		{Type: api.MsgFrame, Tick: 2},
		{Type: api.MsgTileChanged, Tick: 2},
		{Type: api.MsgFrame, Tick: 3},
	}
	got := coalesceFrames(batch)

	want := []string{api.MsgPopup, api.MsgTileChanged, api.MsgFrame}
	if len(got) != len(want) {
		t.Fatalf("Expected %d messages, got %d", len(want), len(got))
	}
	for i, msg := range got {
		if msg.Type != want[i] {
			t.Errorf("msg %d: %s, want %s", i, msg.Type, want[i])
		}
	}
	if got[2].Tick != 3 {
		t.Errorf("Expected the newest frame, got tick %d", got[2].Tick)
	}
}

func TestDrain(t *testing.T) {
	ch := make(chan api.ServerMessage, 4)
	ch <- api.ServerMessage{Type: api.MsgFrame}
	ch <- api.ServerMessage{Type: api.MsgPopup}

	batch, open := drain(ch, api.ServerMessage{Type: api.MsgError}, true)
	if !open || len(batch) != 3 || batch[0].Type != api.MsgError {
		t.Errorf("Unexpected batch %+v (open=%v)", batch, open)
	}

	close(ch)
	if _, open := drain(ch, api.ServerMessage{}, false); open {
		t.Errorf("Closed channel must report open=false")
	}
}
