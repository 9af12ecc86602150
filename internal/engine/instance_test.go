package engine

import (
	"errors"
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/systems"
	"labyrinth-server/pkg/dungeon"
	"math"
	"testing"
)

func TestNewInstance_Build(t *testing.T) {
	f := newFixture(t, lobbyMap("next.json"), 0)
	inst := f.svc.Instance

	// Ссылки на персонажей 1-based, сущности стоят в центрах 0-based клеток
	hermit, err := inst.Entity(hermitIdx)
	if err != nil {
		t.Fatalf("Entity: %v", err)
	}
	if hermit.Pos != (domain.Vec2{X: 3.5, Y: 2.5}) {
		t.Errorf("Hermit at %+v, expected (3.5,2.5)", hermit.Pos)
	}
	if inst.Ctx.Player.Pos != (domain.Vec2{X: 2.5, Y: 2.5}) {
		t.Errorf("Player at %+v, expected (2.5,2.5)", inst.Ctx.Player.Pos)
	}
	if inst.Ctx.Player.Radius != 0.25 {
		t.Errorf("Player radius %v, expected 0.25", inst.Ctx.Player.Radius)
	}
	if inst.Mutator.FaceCount() == 0 {
		t.Errorf("Geometry was not built")
	}
	if inst.Animations.Len() != 1 {
		t.Errorf("Expected the torch to be animated, got %d items", inst.Animations.Len())
	}

	msg, ok := f.hub.last("MAP_CHANGED")
	if !ok || msg.Map == nil || msg.Map.ID != 1 || msg.Map.Width != 9 {
		t.Errorf("MAP_CHANGED not published on load: %+v", msg)
	}

	if _, err := inst.Entity(99); !errors.Is(err, domain.ErrNoEntity) {
		t.Errorf("Expected ErrNoEntity, got %v", err)
	}
}

func TestNewInstance_RestoresDefeated(t *testing.T) {
	cat, _ := dungeon.ParseCatalog([]byte(testCatalog))
	save := newSave(t, 1, ghoulIdx)

	col := systems.Collaborators{SaveState: save, Clock: &fakeClock{}, Random: fixedRandom{}}
	inst, err := NewInstance(lobbyMap("x"), cat, col, testConfig())
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}

	ghoul, _ := inst.Entity(ghoulIdx)
	if ghoul.IsActive() {
		t.Fatalf("Defeated monster must start deactivated")
	}
	if kind := inst.CharacterTypeFromBlock(5, 6); kind != enums.EntityKindNone {
		t.Errorf("Expected NONE at the defeated monster's block, got %s", kind)
	}
	for _, e := range inst.BuildFrame().Entities {
		if e.Index == ghoulIdx {
			t.Errorf("Deactivated entity leaked into the frame")
		}
	}

	// Выключенная сущность не двигается
	before := ghoul.Pos
	if err := inst.Update(100); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if ghoul.Pos != before {
		t.Errorf("Deactivated entity moved")
	}
}

func TestNewInstance_Errors(t *testing.T) {
	cat, _ := dungeon.ParseCatalog([]byte(testCatalog))
	col := systems.Collaborators{Clock: &fakeClock{}, Random: fixedRandom{}}

	tests := []struct {
		name   string
		mutate func(d *dungeon.MapDescription)
		want   error
	}{
		{"Unknown labyrinth", func(d *dungeon.MapDescription) { d.LabyrinthID = 42 }, domain.ErrDataInconsistency},
		{"Bad dimensions", func(d *dungeon.MapDescription) { d.Width = 0 }, domain.ErrBadDimensions},
		{"Start outside", func(d *dungeon.MapDescription) { d.Start = dungeon.Point{X: 0, Y: 0} }, domain.ErrOutOfBounds},
		{"Wall and object", func(d *dungeon.MapDescription) {
			d.Blocks = append(d.Blocks, dungeon.BlockDesc{X: 2, Y: 2, Wall: 1, Object: 2})
		}, domain.ErrInvalidOccupant},
		{"Unknown wall", func(d *dungeon.MapDescription) {
			d.Blocks = append(d.Blocks, dungeon.BlockDesc{X: 2, Y: 2, Wall: 77})
		}, domain.ErrUnknownWall},
		{"Character outside", func(d *dungeon.MapDescription) {
			d.Characters = append(d.Characters, dungeon.CharacterRef{Kind: "NPC", X: 50, Y: 1})
		}, domain.ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := corridorMap()
			tt.mutate(d)
			if _, err := NewInstance(d, cat, col, testConfig()); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMovePlayer(t *testing.T) {
	f := newFixture(t, corridorMap(), 0)
	inst := f.svc.Instance

	// 1. Стена сверху: капсула задевает отрезок
	out, err := inst.MovePlayer(domain.Vec2{X: 0, Y: -0.5})
	if err != nil || out.Kind != domain.OutcomeNotApplicable {
		t.Fatalf("Expected blocked move, got %v %v", out, err)
	}
	if inst.Ctx.Player.Pos != (domain.Vec2{X: 1.5, Y: 1.5}) {
		t.Errorf("Blocked move changed position: %+v", inst.Ctx.Player.Pos)
	}

	// 2. Дверь игрок проходит
	out, _ = inst.MovePlayer(domain.Vec2{X: 1, Y: 0})
	if out.Kind != domain.OutcomeConsumed {
		t.Fatalf("Player must pass through the door, got %v", out)
	}
	if math.Abs(inst.Ctx.Player.Facing) > 1e-9 {
		t.Errorf("Expected facing east (0), got %v", inst.Ctx.Player.Facing)
	}
	out, _ = inst.MovePlayer(domain.Vec2{X: 1, Y: 0})
	if out.Kind != domain.OutcomeConsumed {
		t.Fatalf("Expected move past the door, got %v", out)
	}

	// 3. Край карты
	out, _ = inst.MovePlayer(domain.Vec2{X: 0.6, Y: 0})
	if out.Kind != domain.OutcomeNotApplicable {
		t.Errorf("Player must not enter the map border, got %v", out)
	}
}

func TestMovePlayer_EntityBodyBlocks(t *testing.T) {
	f := newFixture(t, lobbyMap("x"), 0)
	out, err := f.svc.Instance.MovePlayer(domain.Vec2{X: 0.8, Y: 0})
	if err != nil {
		t.Fatalf("MovePlayer: %v", err)
	}
	if out.Kind != domain.OutcomeNotApplicable {
		t.Errorf("Hermit's body must block the player, got %v", out)
	}
}

func TestMovePlayer_RejectedDuringEncounter(t *testing.T) {
	f := newFixture(t, corridorMap(), 0)
	f.svc.Instance.Ctx.InteractionInProgress = true

	if _, err := f.svc.Instance.MovePlayer(domain.Vec2{X: 0.5}); !errors.Is(err, domain.ErrRejected) {
		t.Errorf("Expected ErrRejected, got %v", err)
	}
}

func TestUpdate_Animations(t *testing.T) {
	f := newFixture(t, lobbyMap("x"), 0)
	torch := f.svc.Instance.Grid.Index(6, 2)

	for i := 0; i < 5; i++ {
		if err := f.svc.Step(1); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	msg, ok := f.hub.last("FRAME")
	if !ok {
		t.Fatalf("No frame published")
	}
	if msg.Tick != 5 {
		t.Errorf("Expected tick 5, got %d", msg.Tick)
	}
	if msg.Frame.Animations[torch] != 1 {
		t.Errorf("Expected torch frame 1 at tick 5, got %v", msg.Frame.Animations)
	}

	// Объект убран - анимация тоже
	if err := f.svc.Instance.ApplyTileChange(6, 2, 0, 0); err != nil {
		t.Fatalf("ApplyTileChange: %v", err)
	}
	if f.svc.Instance.Animations.Len() != 0 {
		t.Errorf("Removed object is still animated")
	}
}

func TestBuildFrame_Parts(t *testing.T) {
	desc := dungeon.NewMap(4, 5, 5).WithStart(1, 1).
		Character(3, 3, dungeon.CharacterRef{Kind: "MONSTER", Policy: "STATIONARY",
			Parts: []dungeon.PartDesc{{GraphicIndex: 11}, {GraphicIndex: 12, OffsetY: -0.5, DepthOffset: 0.01}}}).
		Build()
	f := newFixture(t, desc, 0)

	frame := f.svc.Instance.BuildFrame()
	if len(frame.Entities) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(frame.Entities))
	}
	e := frame.Entities[0]
	if len(e.Parts) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(e.Parts))
	}
	if e.Parts[1].X != e.X || e.Parts[1].Y != e.Y-0.5 || e.Parts[1].Depth != 0.01 {
		t.Errorf("Part does not follow its owner: %+v vs (%v,%v)", e.Parts[1], e.X, e.Y)
	}
	if !e.Visible {
		t.Errorf("Monster in an open room must be visible")
	}
}

func TestUpdate_ScheduledPathFromMapFile(t *testing.T) {
	cat, err := dungeon.ParseCatalog([]byte(testCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	cfg := testConfig()
	cfg.Motion.Speed = 0
	cfg.Motion.TicksPerSlot = 10

	// Маршрут в файле карты 1-based
	desc := dungeon.NewMap(4, 7, 7).Frame(1).WithStart(1, 1).
		Character(5, 5, dungeon.CharacterRef{Kind: "NPC", Name: "Hermit", Policy: "SCHEDULED_PATH", CharacterIndex: 0,
			Schedule: []dungeon.Point{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 3}, {X: 2, Y: 3}}}).
		Build()
	inst, err := NewInstance(desc, cat, systemsForTest(), cfg)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}

	if err := inst.Update(20); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if slot := inst.Motion.Slot(inst.Ctx.Tick); slot != 2 {
		t.Fatalf("Expected slot 2, got %d", slot)
	}

	npc := inst.Entities[0]
	if npc.Motion.State != enums.MotionMoving {
		t.Errorf("Expected Moving, got %s", npc.Motion.State)
	}
	// (3,3) в файле -> клетка (2,2)
	want := inst.Grid.CenterOf(domain.Position{X: 2, Y: 2})
	if npc.Motion.Target != want {
		t.Errorf("Expected target %v, got %v", want, npc.Motion.Target)
	}
}
