package automap

import (
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"labyrinth-server/pkg/api"
	"labyrinth-server/pkg/logger"
	"math"
	"os"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// gridMap - карта 4x3: рамка из стен, дверь и монстр внутри
type gridMap struct{}

func (gridMap) AutomapTypeFromBlock(x, y int) enums.AutomapType {
	switch {
	case x < 0 || y < 0 || x >= 4 || y >= 3:
		return enums.AutomapInvalid
	case x == 0 || y == 0 || x == 3 || y == 2:
		return enums.AutomapWall
	case x == 2 && y == 1:
		return enums.AutomapMonster
	}
	return enums.AutomapEmpty
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(w, h)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func TestDraw(t *testing.T) {
	screen := newScreen(t, 20, 6)
	defer screen.Fini()

	Draw(screen, gridMap{}, 4, 3, domain.Position{X: 1, Y: 1}, "hello")

	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, '#'},
		{3, 2, '#'},
		{1, 1, '@'},
		{2, 1, 'M'},
		{0, 3, 'h'},
		{4, 3, 'o'},
	}
	for _, tt := range tests {
		if got := runeAt(screen, tt.x, tt.y); got != tt.want {
			t.Errorf("cell (%d,%d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDraw_ClipsToScreen(t *testing.T) {
	screen := newScreen(t, 2, 2)
	defer screen.Fini()

	// Не должно паниковать, статус занимает последнюю строку
	Draw(screen, gridMap{}, 4, 3, domain.Position{X: 3, Y: 1}, "status")
	if got := runeAt(screen, 0, 0); got != '#' {
		t.Errorf("Expected wall in the corner, got %q", got)
	}
	if got := runeAt(screen, 0, 1); got != 's' {
		t.Errorf("Expected status row, got %q", got)
	}
}

func TestGlyph(t *testing.T) {
	seen := map[rune]enums.AutomapType{}
	for _, at := range []enums.AutomapType{
		enums.AutomapEmpty, enums.AutomapWall, enums.AutomapDoor, enums.AutomapObject,
		enums.AutomapEvent, enums.AutomapMonster, enums.AutomapPerson,
	} {
		r, _ := Glyph(at)
		if prev, dup := seen[r]; dup {
			t.Errorf("%s and %s share glyph %q", prev, at, r)
		}
		seen[r] = at
	}
}

func TestViewer_EncounterKeys(t *testing.T) {
	v := NewViewer()
	key := func(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

	// До встречи решения не отправляются
	if _, ok, _ := v.Command(key('f')); ok {
		t.Fatalf("Decision without a pending encounter")
	}

	h := api.HandleView{MapID: 1, EntityIndex: 2, Seq: 1}
	v.Publish(api.ServerMessage{Type: api.MsgDecisionRequest, Encounter: &api.EncounterView{Handle: h, MonsterName: "Ghoul"}})
	cmd, ok, _ := v.Command(key('r'))
	if !ok || cmd.Action != "DECISION" || string(cmd.Payload) != `{"handle":{"mapId":1,"entityIndex":2,"seq":1},"decision":"FLEE"}` {
		t.Errorf("Unexpected decision command %s %s", cmd.Action, cmd.Payload)
	}

	v.Publish(api.ServerMessage{Type: api.MsgCombatStart, Encounter: &api.EncounterView{Handle: h}})
	if _, ok, _ := v.Command(key('f')); ok {
		t.Errorf("Decision keys must be ignored during combat")
	}
	cmd, ok, _ = v.Command(key('w'))
	if !ok || cmd.Action != "COMBAT_RESULT" {
		t.Errorf("Expected COMBAT_RESULT, got %s", cmd.Action)
	}
	if _, ok, _ = v.Command(key('w')); ok {
		t.Errorf("Combat result sent twice")
	}
}

func TestViewer_StatusAndMoves(t *testing.T) {
	v := NewViewer()

	v.SendTo("other", api.ServerMessage{Type: api.MsgError, Error: "not mine"})
	v.SendTo(Session, api.ServerMessage{Type: api.MsgPopup, Popup: &api.PopupView{Text: "The lever clicks."}})
	if v.Status() != "The lever clicks." {
		t.Errorf("Unexpected status %q", v.Status())
	}

	cmd, ok, _ := v.Command(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	if !ok || cmd.Action != "MOVE" || string(cmd.Payload) != `{"dx":-0.25,"dy":0}` {
		t.Errorf("Unexpected move %s %s", cmd.Action, cmd.Payload)
	}

	if _, _, quit := v.Command(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)); !quit {
		t.Errorf("q must quit")
	}
}

func TestFacingStep(t *testing.T) {
	if s := facingStep(0); s != (domain.Vec2{X: 1, Y: 0}) {
		t.Errorf("east: %+v", s)
	}
	if s := facingStep(math.Pi / 2); s != (domain.Vec2{X: 0, Y: 1}) {
		t.Errorf("south: %+v", s)
	}
}
