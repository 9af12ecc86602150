package systems

import (
	"fmt"
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"labyrinth-server/pkg/logger"
	"time"

	"github.com/sirupsen/logrus"
)

// --- Внешние участники взаимодействий ---

// Popups показывает тексты игроку
type Popups interface {
	ShowText(mapID int, text string)
	ShowTransient(mapID int, text string)
}

// Conversations открывает диалог с NPC или членом группы
type Conversations interface {
	StartConversation(e *domain.Entity, c *domain.Character)
}

// EncounterUI спрашивает игрока: драться или бежать
type EncounterUI interface {
	RequestDecision(h domain.EncounterHandle, monster *domain.Entity, distance float64)
}

// Combat запускает бой с группой монстров
type Combat interface {
	StartCombat(h domain.EncounterHandle, monsterGroup, background int)
}

// SaveState хранит, какие монстры карты уже побеждены
type SaveState interface {
	IsDefeated(mapID, entityIndex int) (bool, error)
	MarkDefeated(mapID, entityIndex int) error
}

// Clock - реальное время для перезарядки встреч
type Clock interface {
	Now() time.Time
}

// EventRunner исполняет отфильтрованную цепочку событий
type EventRunner interface {
	RunChain(ctx *domain.SimContext, events []domain.Event, at domain.Position) (domain.Outcome, error)
}

// Collaborators - все внешние участники в одном месте
type Collaborators struct {
	Popups        Popups
	Conversations Conversations
	EncounterUI   EncounterUI
	Combat        Combat
	SaveState     SaveState
	Clock         Clock
	Random        Random
	Events        EventRunner
}

// FleeSucceeds - побег удался, если бросок из [0, FleeDrawRange) меньше ловкости плюс удачи
func FleeSucceeds(dexterity, luck, draw int) bool {
	return draw < dexterity+luck
}

// Dispatcher маршрутизирует триггеры игрока к сущностям и блокам
type Dispatcher struct {
	grid     *domain.BlockGrid
	roster   *domain.Roster
	texts    []string
	chains   map[int]*domain.EventChain
	col      Collaborators
	cooldown time.Duration
}

func NewDispatcher(grid *domain.BlockGrid, roster *domain.Roster, texts []string,
	chains map[int]*domain.EventChain, col Collaborators, cooldown time.Duration) *Dispatcher {
	if roster == nil {
		roster = domain.NewRoster()
	}
	return &Dispatcher{
		grid:     grid,
		roster:   roster,
		texts:    texts,
		chains:   chains,
		col:      col,
		cooldown: cooldown,
	}
}

// Dispatch применяет триггер к цели. NotApplicable - триггер не подходит и ничего не изменилось.
func (d *Dispatcher) Dispatch(ctx *domain.SimContext, trigger enums.Trigger, target domain.Target, itemID int) (domain.Outcome, error) {
	if target.IsBlock() {
		return d.dispatchBlock(ctx, trigger, target.BlockIndex, itemID)
	}

	e := target.Entity
	if !e.IsActive() {
		return domain.NotApplicable(), nil
	}

	// 1. Монстры реагируют только на сближение
	if e.IsMonster() {
		if trigger != enums.TriggerMove {
			return domain.NotApplicable(), nil
		}
		return d.beginEncounter(ctx, e), nil
	}

	if trigger == enums.TriggerMove {
		return domain.NotApplicable(), nil
	}

	// 2. Статичный текст вместо разговора
	if e.TextPopup {
		if trigger != enums.TriggerMouth {
			return domain.NotApplicable(), nil
		}
		text, err := d.text(e.TextIndex)
		if err != nil {
			return domain.NotApplicable(), err
		}
		d.col.Popups.ShowText(d.grid.MapID, text)
		return domain.Consumed("text_popup"), nil
	}

	// 3. NPC и члены группы
	if e.Kind.IsConversational() {
		if trigger != enums.TriggerEye && trigger != enums.TriggerMouth {
			return domain.NotApplicable(), nil
		}
		c, err := d.roster.Lookup(e.Kind, e.CharacterIndex)
		if err != nil {
			return domain.NotApplicable(), err
		}
		if trigger == enums.TriggerEye {
			if len(c.Dialogue) == 0 {
				return domain.NotApplicable(), nil
			}
			d.col.Popups.ShowTransient(d.grid.MapID, c.Dialogue[0])
			return domain.Consumed("look"), nil
		}
		if e.Motion != nil {
			e.Motion.Pause()
		}
		d.col.Conversations.StartConversation(e, c)
		return domain.Consumed("conversation"), nil
	}

	// 4. Скриптовые объекты - своя цепочка событий
	if e.Kind == enums.EntityKindScriptedObject && e.EventID != 0 {
		return d.runChain(ctx, e.EventID, trigger, itemID)
	}

	return domain.NotApplicable(), nil
}

func (d *Dispatcher) dispatchBlock(ctx *domain.SimContext, trigger enums.Trigger, idx, itemID int) (domain.Outcome, error) {
	b, err := d.grid.BlockAtIndex(idx)
	if err != nil {
		return domain.NotApplicable(), err
	}
	if b.EventID == 0 {
		return domain.NotApplicable(), nil
	}
	return d.runChain(ctx, b.EventID, trigger, itemID)
}

func (d *Dispatcher) runChain(ctx *domain.SimContext, eventID int, trigger enums.Trigger, itemID int) (domain.Outcome, error) {
	chain, ok := d.chains[eventID]
	if !ok {
		return domain.NotApplicable(), fmt.Errorf("%w: event chain %d does not exist", domain.ErrDataInconsistency, eventID)
	}
	events, ok := chain.FilterByTrigger(trigger, itemID)
	if !ok {
		return domain.NotApplicable(), nil
	}
	return d.col.Events.RunChain(ctx, events, d.grid.PositionOf(ctx.Player.Pos))
}

func (d *Dispatcher) text(idx int) (string, error) {
	if idx < 0 || idx >= len(d.texts) {
		return "", fmt.Errorf("%w: text %d does not exist", domain.ErrDataInconsistency, idx)
	}
	return d.texts[idx], nil
}

// --- Встречи с монстрами ---

func (d *Dispatcher) beginEncounter(ctx *domain.SimContext, e *domain.Entity) domain.Outcome {
	if e.Encounter == nil {
		e.Encounter = &domain.EncounterComponent{}
	}
	if e.Encounter.Pending != nil {
		return domain.NotApplicable()
	}
	if d.col.Clock.Now().Before(e.Encounter.CooldownUntil) {
		return domain.NotApplicable()
	}
	if !ctx.TryBeginInteraction() {
		return domain.NotApplicable()
	}

	// Игрок разворачивается к монстру
	ctx.Player.Facing = ctx.Player.Pos.Angle(e.Pos)

	dist := ctx.Player.Pos.DistanceTo(e.Pos)
	h := e.Encounter.Begin(d.grid.MapID, e.Index, dist)
	if e.Motion != nil {
		e.Motion.Pause()
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "interaction",
		"handle":    h.String(),
		"monster":   e.Name,
		"distance":  dist,
	}).Info("Monster encounter started.")

	d.col.EncounterUI.RequestDecision(h, e, dist)
	return domain.Deferred("encounter_decision", h)
}

// CompleteDecision принимает выбор игрока по хэндлу встречи.
func (d *Dispatcher) CompleteDecision(ctx *domain.SimContext, e *domain.Entity, h domain.EncounterHandle, decision domain.Decision) error {
	p, err := d.pending(e, h, domain.StageAwaitingDecision)
	if err != nil {
		return err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"component": "interaction",
		"handle":    h.String(),
	})

	if decision == domain.DecisionFlee {
		draw := d.col.Random.Intn(domain.FleeDrawRange)
		if FleeSucceeds(ctx.Player.Dexterity, ctx.Player.Luck, draw) {
			log.WithField("draw", draw).Info("Party fled.")
			d.endEncounter(ctx, e)
			return nil
		}
		log.WithField("draw", draw).Info("Flee failed, combat starts.")
	}

	p.Stage = domain.StageAwaitingCombat
	d.col.Combat.StartCombat(h, e.MonsterGroup, e.CombatBackground)
	return nil
}

// CompleteCombat принимает результат боя. Побежденный монстр выключается навсегда.
func (d *Dispatcher) CompleteCombat(ctx *domain.SimContext, e *domain.Entity, h domain.EncounterHandle, result domain.CombatResult) error {
	if _, err := d.pending(e, h, domain.StageAwaitingCombat); err != nil {
		return err
	}

	if result != domain.CombatMonsterDefeated {
		d.endEncounter(ctx, e)
		return nil
	}

	e.Deactivate()
	ctx.EndInteraction()

	logger.Log.WithFields(logrus.Fields{
		"component": "interaction",
		"handle":    h.String(),
		"monster":   e.Name,
	}).Info("Monster defeated.")

	// Без хранилища победа живет только до перезагрузки карты
	if d.col.SaveState == nil {
		return nil
	}
	if err := d.col.SaveState.MarkDefeated(d.grid.MapID, e.Index); err != nil {
		return fmt.Errorf("persist defeated monster %s: %w", h, err)
	}
	return nil
}

func (d *Dispatcher) pending(e *domain.Entity, h domain.EncounterHandle, stage domain.EncounterStage) (*domain.PendingEncounter, error) {
	if e == nil || !e.IsActive() || e.Encounter == nil || !e.Encounter.Matches(h) {
		return nil, fmt.Errorf("%w: %s", domain.ErrStaleHandle, h)
	}
	if e.Encounter.Pending.Stage != stage {
		return nil, fmt.Errorf("%w: %s is at another stage", domain.ErrStaleHandle, h)
	}
	return e.Encounter.Pending, nil
}

// endEncounter снимает защелку, ставит перезарядку и сбрасывает таймер движения монстра
func (d *Dispatcher) endEncounter(ctx *domain.SimContext, e *domain.Entity) {
	e.Encounter.Pending = nil
	e.Encounter.CooldownUntil = d.col.Clock.Now().Add(d.cooldown)
	if e.Motion != nil {
		e.Motion.Resume()
		e.Motion.LastTick = ctx.Tick
		e.Motion.LastSlot = -1
	}
	ctx.EndInteraction()
}
