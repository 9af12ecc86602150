package systems

import (
	"errors"
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"testing"
	"time"
)

type dispatchFixture struct {
	*testWorld
	rec   *recorder
	clock *fakeClock
	disp  *Dispatcher
	ctx   *domain.SimContext
}

func newDispatchFixture(t *testing.T, rng Random) *dispatchFixture {
	t.Helper()
	tw := newTestWorld(t, 7, 7)

	roster := domain.NewRoster()
	roster.NPCs[0] = &domain.Character{Index: 0, Name: "Hermit", Dialogue: []string{"Go away.", "Fine, stay."}}

	chains := map[int]*domain.EventChain{
		1: {ID: 1, Events: []domain.Event{
			{Kind: domain.EventCondition, Condition: &domain.Condition{Kind: domain.CondTrigger, Trigger: enums.TriggerHand}},
			{Kind: domain.EventChangeTile, ChangeTile: &domain.TileChange{X: 3, Y: 3}},
		}},
	}

	rec := newRecorder()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	f := &dispatchFixture{
		testWorld: tw,
		rec:       rec,
		clock:     clock,
		ctx: &domain.SimContext{Player: domain.PlayerState{
			Pos: center(3, 3), Radius: 0.25, Dexterity: 10, Luck: 5,
		}},
	}
	f.disp = NewDispatcher(tw.grid, roster, []string{"A sign.", "Beware."}, chains, rec.collaborators(rng, clock), 5*time.Second)
	return f
}

func newMonster(idx int, pos domain.Vec2) *domain.Entity {
	m := domain.NewEntity(idx, enums.EntityKindMonster, pos)
	m.Radius = 0.2
	m.MonsterGroup = 3
	return m
}

func TestFleeSucceeds(t *testing.T) {
	tests := []struct {
		draw int
		want bool
	}{
		{14, true},
		{15, false},
		{20, false},
		{0, true},
	}
	for _, tt := range tests {
		if got := FleeSucceeds(10, 5, tt.draw); got != tt.want {
			t.Errorf("FleeSucceeds(10, 5, %d) = %v, want %v", tt.draw, got, tt.want)
		}
	}
}

func TestDispatch_EncounterLatch(t *testing.T) {
	f := newDispatchFixture(t, fixedRandom{value: 14})
	a := newMonster(0, center(3, 2))
	b := newMonster(1, center(2, 3))

	out, err := f.disp.Dispatch(f.ctx, enums.TriggerMove, domain.EntityTarget(a), 0)
	if err != nil || out.Kind != domain.OutcomeDeferred || out.Handle == nil {
		t.Fatalf("expected deferred outcome, got %+v, %v", out, err)
	}

	// Повторные срабатывания в том же тике ничего не меняют
	for _, m := range []*domain.Entity{a, b, a} {
		again, err := f.disp.Dispatch(f.ctx, enums.TriggerMove, domain.EntityTarget(m), 0)
		if err != nil || again.Kind != domain.OutcomeNotApplicable {
			t.Errorf("expected NotApplicable while latched, got %+v, %v", again, err)
		}
	}

	if len(f.rec.decisions) != 1 {
		t.Errorf("expected exactly one decision request, got %d", len(f.rec.decisions))
	}
	if b.Motion.IsPaused() {
		t.Errorf("second monster must not be paused")
	}
	if want := f.ctx.Player.Pos.Angle(a.Pos); f.ctx.Player.Facing != want {
		t.Errorf("player should face the monster: %v != %v", f.ctx.Player.Facing, want)
	}
}

func TestEncounter_FleeSuccess(t *testing.T) {
	f := newDispatchFixture(t, fixedRandom{value: 14})
	m := newMonster(0, center(3, 2))

	out, _ := f.disp.Dispatch(f.ctx, enums.TriggerMove, domain.EntityTarget(m), 0)
	f.ctx.Tick = 77

	if err := f.disp.CompleteDecision(f.ctx, m, *out.Handle, domain.DecisionFlee); err != nil {
		t.Fatalf("CompleteDecision: %v", err)
	}
	if f.ctx.InteractionInProgress || m.Encounter.Pending != nil {
		t.Errorf("encounter should be closed")
	}
	if m.Motion.IsPaused() || m.Motion.LastTick != 77 {
		t.Errorf("monster motion should resume with reset timer: %+v", m.Motion)
	}
	if len(f.rec.combats) != 0 {
		t.Errorf("no combat expected")
	}

	// Перезарядка
	again, _ := f.disp.Dispatch(f.ctx, enums.TriggerMove, domain.EntityTarget(m), 0)
	if again.Kind != domain.OutcomeNotApplicable {
		t.Errorf("cooldown should suppress encounter, got %s", again.Kind)
	}
	f.clock.now = f.clock.now.Add(6 * time.Second)
	again, _ = f.disp.Dispatch(f.ctx, enums.TriggerMove, domain.EntityTarget(m), 0)
	if again.Kind != domain.OutcomeDeferred {
		t.Errorf("encounter should restart after cooldown, got %s", again.Kind)
	}

	// Старый хэндл больше не действует
	if err := f.disp.CompleteDecision(f.ctx, m, *out.Handle, domain.DecisionFight); !errors.Is(err, domain.ErrStaleHandle) {
		t.Errorf("expected stale handle, got %v", err)
	}
}

func TestEncounter_FleeFailedThenDefeated(t *testing.T) {
	f := newDispatchFixture(t, fixedRandom{value: 20})
	m := newMonster(4, center(3, 2))

	out, _ := f.disp.Dispatch(f.ctx, enums.TriggerMove, domain.EntityTarget(m), 0)
	h := *out.Handle

	if err := f.disp.CompleteDecision(f.ctx, m, h, domain.DecisionFlee); err != nil {
		t.Fatalf("CompleteDecision: %v", err)
	}
	if len(f.rec.combats) != 1 || m.Encounter.Pending.Stage != domain.StageAwaitingCombat {
		t.Fatalf("failed flee must start combat")
	}
	if !f.ctx.InteractionInProgress {
		t.Errorf("latch stays set during combat")
	}

	if err := f.disp.CompleteDecision(f.ctx, m, h, domain.DecisionFight); !errors.Is(err, domain.ErrStaleHandle) {
		t.Errorf("decision at combat stage must be rejected, got %v", err)
	}

	if err := f.disp.CompleteCombat(f.ctx, m, h, domain.CombatMonsterDefeated); err != nil {
		t.Fatalf("CompleteCombat: %v", err)
	}
	if m.IsActive() || !f.rec.defeated[4] || f.ctx.InteractionInProgress {
		t.Errorf("monster should be deactivated and persisted, latch cleared")
	}

	if err := f.disp.CompleteCombat(f.ctx, m, h, domain.CombatMonsterDefeated); !errors.Is(err, domain.ErrStaleHandle) {
		t.Errorf("expected stale handle on repeat, got %v", err)
	}
	out, _ = f.disp.Dispatch(f.ctx, enums.TriggerMove, domain.EntityTarget(m), 0)
	if out.Kind != domain.OutcomeNotApplicable {
		t.Errorf("defeated monster must not trigger again")
	}
}

func TestEncounter_DefeatWithoutSaveState(t *testing.T) {
	f := newDispatchFixture(t, fixedRandom{value: 149})
	col := f.rec.collaborators(fixedRandom{value: 149}, f.clock)
	col.SaveState = nil
	f.disp = NewDispatcher(f.grid, domain.NewRoster(), nil, nil, col, 5*time.Second)
	m := newMonster(4, center(3, 2))

	out, _ := f.disp.Dispatch(f.ctx, enums.TriggerMove, domain.EntityTarget(m), 0)
	if out.Handle == nil {
		t.Fatalf("expected a deferred encounter, got %+v", out)
	}
	h := *out.Handle
	if err := f.disp.CompleteDecision(f.ctx, m, h, domain.DecisionFight); err != nil {
		t.Fatalf("CompleteDecision: %v", err)
	}
	if err := f.disp.CompleteCombat(f.ctx, m, h, domain.CombatMonsterDefeated); err != nil {
		t.Fatalf("CompleteCombat: %v", err)
	}
	if m.IsActive() || f.ctx.InteractionInProgress {
		t.Errorf("monster should be deactivated and the latch cleared")
	}
}

func TestEncounter_CombatLost(t *testing.T) {
	f := newDispatchFixture(t, fixedRandom{value: 0})
	m := newMonster(0, center(3, 2))

	out, _ := f.disp.Dispatch(f.ctx, enums.TriggerMove, domain.EntityTarget(m), 0)
	_ = f.disp.CompleteDecision(f.ctx, m, *out.Handle, domain.DecisionFight)

	if err := f.disp.CompleteCombat(f.ctx, m, *out.Handle, domain.CombatPartyFled); err != nil {
		t.Fatalf("CompleteCombat: %v", err)
	}
	if !m.IsActive() || f.ctx.InteractionInProgress || m.Motion.IsPaused() {
		t.Errorf("monster stays active, latch cleared, motion resumed")
	}
}

func TestDispatch_Characters(t *testing.T) {
	f := newDispatchFixture(t, fixedRandom{})

	sign := domain.NewEntity(0, enums.EntityKindScriptedObject, center(3, 2))
	sign.TextPopup = true
	sign.TextIndex = 1

	hermit := domain.NewEntity(1, enums.EntityKindNPC, center(2, 3))
	ghost := domain.NewEntity(2, enums.EntityKindNPC, center(4, 3))
	ghost.CharacterIndex = 9

	tests := []struct {
		name    string
		target  *domain.Entity
		trigger enums.Trigger
		want    domain.OutcomeKind
		effect  string
		wantErr error
	}{
		{"Popup by mouth", sign, enums.TriggerMouth, domain.OutcomeConsumed, "text_popup", nil},
		{"Popup by eye", sign, enums.TriggerEye, domain.OutcomeNotApplicable, "", nil},
		{"Look at NPC", hermit, enums.TriggerEye, domain.OutcomeConsumed, "look", nil},
		{"Hand on NPC", hermit, enums.TriggerHand, domain.OutcomeNotApplicable, "", nil},
		{"Move into NPC", hermit, enums.TriggerMove, domain.OutcomeNotApplicable, "", nil},
		{"Talk to NPC", hermit, enums.TriggerMouth, domain.OutcomeConsumed, "conversation", nil},
		{"Missing character", ghost, enums.TriggerMouth, domain.OutcomeNotApplicable, "", domain.ErrDataInconsistency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.disp.Dispatch(f.ctx, tt.trigger, domain.EntityTarget(tt.target), 0)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if out.Kind != tt.want || out.Effect != tt.effect {
				t.Errorf("expected %s/%q, got %s/%q", tt.want, tt.effect, out.Kind, out.Effect)
			}
		})
	}

	if len(f.rec.texts) != 1 || f.rec.texts[0] != "Beware." {
		t.Errorf("unexpected popups: %v", f.rec.texts)
	}
	if len(f.rec.transient) != 1 || f.rec.transient[0] != "Go away." {
		t.Errorf("unexpected transient texts: %v", f.rec.transient)
	}
	if len(f.rec.conversations) != 1 || !hermit.Motion.IsPaused() {
		t.Errorf("conversation should start and pause the npc")
	}
}

func TestDispatch_BlockEvents(t *testing.T) {
	f := newDispatchFixture(t, fixedRandom{})
	b, _ := f.grid.BlockAt(3, 2)
	b.EventID = 1
	idx := f.grid.Index(3, 2)

	out, err := f.disp.Dispatch(f.ctx, enums.TriggerEye, domain.BlockTarget(idx), 0)
	if err != nil || out.Kind != domain.OutcomeNotApplicable {
		t.Errorf("eye should not satisfy a hand condition: %+v, %v", out, err)
	}

	out, err = f.disp.Dispatch(f.ctx, enums.TriggerHand, domain.BlockTarget(idx), 0)
	if err != nil || out.Kind != domain.OutcomeConsumed {
		t.Fatalf("hand should run the chain: %+v, %v", out, err)
	}
	if len(f.rec.chains) != 1 || len(f.rec.chains[0]) != 2 || f.rec.chains[0][0].Kind != domain.EventNext {
		t.Errorf("runner should get the filtered chain, got %+v", f.rec.chains)
	}

	empty := f.grid.Index(1, 1)
	if out, _ := f.disp.Dispatch(f.ctx, enums.TriggerHand, domain.BlockTarget(empty), 0); out.Kind != domain.OutcomeNotApplicable {
		t.Errorf("block without event is not applicable")
	}

	b.EventID = 42
	if _, err := f.disp.Dispatch(f.ctx, enums.TriggerHand, domain.BlockTarget(idx), 0); !errors.Is(err, domain.ErrDataInconsistency) {
		t.Errorf("missing chain should be a data error, got %v", err)
	}
}
