package dungeon

import (
	"fmt"
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"strings"
)

// SpawnEntity создает сущность карты из ссылки на персонажа.
// Позиции описания 1-based, здесь они переводятся в клетки сетки.
func (r CharacterRef) SpawnEntity(index int, grid *domain.BlockGrid) (*domain.Entity, error) {
	kind := enums.ParseEntityKind(r.Kind)
	if kind == enums.EntityKindNone {
		return nil, fmt.Errorf("%w: character %d has unknown kind %q", domain.ErrDataInconsistency, index, r.Kind)
	}

	cell := domain.Position{X: r.X - 1, Y: r.Y - 1}
	if !grid.InBounds(cell.X, cell.Y) {
		return nil, fmt.Errorf("character %d at (%d,%d): %w", index, r.X, r.Y, domain.ErrOutOfBounds)
	}

	e := domain.NewEntity(index, kind, grid.CenterOf(cell))
	e.Name = r.Name
	e.Policy = enums.ParseMovementPolicy(r.Policy)
	e.OnlyMoveWhenPlayerVisible = r.OnlyMoveWhenPlayerVisible
	e.TextPopup = r.TextPopup
	e.CharacterIndex = r.CharacterIndex
	e.TextIndex = r.TextIndex
	e.EventID = r.EventID
	e.MonsterGroup = r.MonsterGroup
	e.CombatBackground = r.CombatBackground
	e.GraphicIndex = r.GraphicIndex

	radius := r.Radius
	if radius <= 0 {
		radius = domain.DefaultEntityRadius
	}
	e.Radius = radius * grid.BlockSize

	if e.Name == "" {
		e.Name = fmt.Sprintf("%s_%d", strings.ToLower(kind.String()), index)
	}

	if len(r.Schedule) > 0 {
		wps := make([]domain.Position, len(r.Schedule))
		for i, p := range r.Schedule {
			wps[i] = domain.Position{X: p.X - 1, Y: p.Y - 1}
		}
		e.Schedule = &domain.ScheduleComponent{Waypoints: wps}
	}

	for _, p := range r.Parts {
		e.Parts = append(e.Parts, domain.RenderPart{
			GraphicIndex: p.GraphicIndex,
			Offset:       domain.Vec2{X: p.OffsetX * grid.BlockSize, Y: p.OffsetY * grid.BlockSize},
			DepthOffset:  p.DepthOffset,
		})
	}

	if kind == enums.EntityKindMonster {
		e.Encounter = &domain.EncounterComponent{}
	}
	return e, nil
}

// ToChain переводит цепочку описания в доменную
func (c ChainDesc) ToChain() (*domain.EventChain, error) {
	chain := &domain.EventChain{ID: c.ID, Events: make([]domain.Event, 0, len(c.Events))}
	for i, ed := range c.Events {
		kind := domain.ParseEvent(ed.Kind)
		if kind == domain.EventUnknown {
			return nil, fmt.Errorf("%w: chain %d step %d has unknown kind %q", domain.ErrDataInconsistency, c.ID, i, ed.Kind)
		}
		ev := domain.Event{Kind: kind, ChangeTile: ed.ChangeTile, TextIndex: ed.TextIndex, Payload: ed.Payload}
		if kind == domain.EventChangeTile && ed.ChangeTile == nil {
			return nil, fmt.Errorf("%w: chain %d step %d has no tile change", domain.ErrDataInconsistency, c.ID, i)
		}
		if ed.Condition != nil {
			cond := &domain.Condition{ItemID: ed.Condition.ItemID, Params: ed.Condition.Params}
			switch strings.ToUpper(ed.Condition.Kind) {
			case "TRIGGER":
				cond.Kind = domain.CondTrigger
				cond.Trigger = enums.ParseTrigger(ed.Condition.Trigger)
			case "ITEM":
				cond.Kind = domain.CondItem
			default:
				cond.Kind = domain.CondOther
			}
			ev.Condition = cond
		}
		chain.Events = append(chain.Events, ev)
	}
	return chain, nil
}
