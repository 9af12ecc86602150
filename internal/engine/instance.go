package engine

import (
	"fmt"
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/systems"
	"labyrinth-server/pkg/logger"
	"math"

	"github.com/sirupsen/logrus"
)

// Instance - одна загруженная карта со всеми производными индексами.
// Принадлежит горутине Service, блокировок нет.
type Instance struct {
	MapID int
	Name  string
	Path  string // откуда загружена карта (пусто - сгенерирована)

	Grid     *domain.BlockGrid
	Entities []*domain.Entity // Индекс в слайсе == Entity.Index
	Ctx      *domain.SimContext

	Collision  *systems.CollisionIndex
	Visibility *systems.VisibilityIndex
	Mutator    *systems.GridMutator
	Motion     *systems.MotionSystem
	Dispatcher *systems.Dispatcher
	Runner     *ChainRunner
	Animations *AnimationQueue
}

// Update продвигает симуляцию на ticks тиков: движение всех сущностей
// в порядке регистрации, затем кадры анимаций.
func (i *Instance) Update(ticks uint64) error {
	if ticks == 0 {
		return nil
	}
	i.Ctx.Tick += ticks
	i.Ctx.PlayerSeen = false

	for _, e := range i.Entities {
		if err := i.Motion.Update(i.Ctx, e); err != nil {
			return fmt.Errorf("update entity %d: %w", e.Index, err)
		}
	}
	i.Collision.SyncEntityBodies(i.Entities)

	i.Animations.Advance(i.Ctx.Tick)
	return nil
}

// MovePlayer сдвигает игрока на вектор. Двери пропускают игрока, тела сущностей - нет.
// Вход в блок с событием запускает его цепочку триггером "движение".
func (i *Instance) MovePlayer(delta domain.Vec2) (domain.Outcome, error) {
	if i.Ctx.InteractionInProgress {
		return domain.NotApplicable(), fmt.Errorf("%w: encounter in progress", domain.ErrRejected)
	}

	p := &i.Ctx.Player
	to := p.Pos.Add(delta)
	cur := i.Grid.PositionOf(p.Pos)
	next := i.Grid.PositionOf(to)

	b, err := i.Grid.BlockAt(next.X, next.Y)
	if err != nil || (next != cur && b.MapBorder) {
		return domain.NotApplicable(), nil
	}

	i.Collision.SyncEntityBodies(i.Entities)
	if i.Collision.TestSegment(p.Pos, to, p.Radius, true) {
		return domain.NotApplicable(), nil
	}

	p.Facing = math.Atan2(delta.Y, delta.X)
	p.Pos = to

	if next != cur && b.EventID != 0 {
		out, err := i.Dispatcher.Dispatch(i.Ctx, enums.TriggerMove, domain.BlockTarget(i.Grid.Index(next.X, next.Y)), 0)
		if err != nil || out.Kind != domain.OutcomeNotApplicable {
			return out, err
		}
	}
	return domain.Consumed("moved"), nil
}

// Trigger применяет действие игрока к сущности или блоку
func (i *Instance) Trigger(trigger enums.Trigger, target domain.Target, itemID int) (domain.Outcome, error) {
	if i.Ctx.InteractionInProgress {
		return domain.NotApplicable(), fmt.Errorf("%w: encounter in progress", domain.ErrRejected)
	}

	res := systems.ValidateInteraction(i.Ctx, trigger, target, i.Grid, i.Visibility)
	if !res.Valid {
		return domain.NotApplicable(), fmt.Errorf("%w: %s", domain.ErrRejected, res.Message)
	}

	out, err := i.Dispatcher.Dispatch(i.Ctx, trigger, target, itemID)
	if err != nil {
		return out, err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "instance",
		"map":       i.MapID,
		"trigger":   trigger,
		"outcome":   out.Kind,
		"effect":    out.Effect,
	}).Debug("Trigger dispatched.")
	return out, nil
}

// CompleteDecision передает выбор игрока по встрече
func (i *Instance) CompleteDecision(h domain.EncounterHandle, d domain.Decision) error {
	e, err := i.encounterEntity(h)
	if err != nil {
		return err
	}
	return i.Dispatcher.CompleteDecision(i.Ctx, e, h, d)
}

// CompleteCombat передает результат боя
func (i *Instance) CompleteCombat(h domain.EncounterHandle, r domain.CombatResult) error {
	e, err := i.encounterEntity(h)
	if err != nil {
		return err
	}
	if err := i.Dispatcher.CompleteCombat(i.Ctx, e, h, r); err != nil {
		return err
	}
	i.Collision.SyncEntityBodies(i.Entities)
	return nil
}

// EndConversation возвращает собеседника к его политике движения
func (i *Instance) EndConversation(idx int) error {
	e, err := i.Entity(idx)
	if err != nil {
		return err
	}
	if !e.Kind.IsConversational() {
		return fmt.Errorf("%w: entity %d is not a conversation partner", domain.ErrRejected, idx)
	}
	if e.Motion != nil && e.Motion.IsPaused() {
		e.Motion.Resume()
		e.Motion.LastTick = i.Ctx.Tick
	}
	return nil
}

// ApplyTileChange - внешняя замена блока (админ-команда)
func (i *Instance) ApplyTileChange(x, y, wallID, objectID int) error {
	return i.Mutator.ApplyTileChange(x, y, wallID, objectID)
}

// Entity возвращает сущность по индексу карты
func (i *Instance) Entity(idx int) (*domain.Entity, error) {
	if idx < 0 || idx >= len(i.Entities) {
		return nil, fmt.Errorf("%w: index %d on map %d", domain.ErrNoEntity, idx, i.MapID)
	}
	return i.Entities[idx], nil
}

// BlockTarget возвращает цель-блок по координатам сетки
func (i *Instance) BlockTarget(x, y int) (domain.Target, error) {
	if !i.Grid.InBounds(x, y) {
		return domain.Target{}, fmt.Errorf("%w: block (%d,%d)", domain.ErrRejected, x, y)
	}
	return domain.BlockTarget(i.Grid.Index(x, y)), nil
}

func (i *Instance) encounterEntity(h domain.EncounterHandle) (*domain.Entity, error) {
	if h.MapID != i.MapID {
		return nil, fmt.Errorf("%w: %s belongs to another map", domain.ErrStaleHandle, h)
	}
	e, err := i.Entity(h.EntityIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStaleHandle, err)
	}
	return e, nil
}

// onTileChange держит очередь анимаций в согласии с сеткой
func (i *Instance) onTileChange(block, previous domain.Block) {
	idx := i.Grid.Index(block.X, block.Y)
	if block.ObjectID != previous.ObjectID {
		i.Animations.Track(idx, i.Grid.ObjectOf(&block), i.Ctx.Tick)
	}
}
