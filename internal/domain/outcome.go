package domain

import (
	"fmt"
	"strings"
)

// OutcomeKind - итог диспетчеризации триггера
type OutcomeKind uint8

const (
	OutcomeNotApplicable OutcomeKind = iota
	OutcomeConsumed
	OutcomeDeferred
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeConsumed:
		return "CONSUMED"
	case OutcomeDeferred:
		return "DEFERRED"
	}
	return "NOT_APPLICABLE"
}

// Outcome - результат взаимодействия. Никогда не теряется молча.
type Outcome struct {
	Kind   OutcomeKind      `json:"kind"`
	Effect string           `json:"effect,omitempty"`
	Handle *EncounterHandle `json:"handle,omitempty"`
}

func Consumed(effect string) Outcome {
	return Outcome{Kind: OutcomeConsumed, Effect: effect}
}

func NotApplicable() Outcome {
	return Outcome{Kind: OutcomeNotApplicable}
}

func Deferred(effect string, h EncounterHandle) Outcome {
	return Outcome{Kind: OutcomeDeferred, Effect: effect, Handle: &h}
}

// EncounterHandle - ссылка на отложенную встречу, возвращается внешним UI/бою
type EncounterHandle struct {
	MapID       int    `json:"mapId"`
	EntityIndex int    `json:"entityIndex"`
	Seq         uint64 `json:"seq"`
}

func (h EncounterHandle) String() string {
	return fmt.Sprintf("[map:%d entity:%d #%d]", h.MapID, h.EntityIndex, h.Seq)
}

// Decision - выбор игрока при встрече с монстром
type Decision uint8

const (
	DecisionFight Decision = iota + 1
	DecisionFlee
)

// ParseDecision конвертирует строку протокола (FIGHT, FLEE)
func ParseDecision(s string) (Decision, bool) {
	switch strings.ToUpper(s) {
	case "FIGHT":
		return DecisionFight, true
	case "FLEE":
		return DecisionFlee, true
	}
	return 0, false
}

// CombatResult - как закончился бой
type CombatResult uint8

const (
	CombatMonsterDefeated CombatResult = iota + 1
	CombatPartyFled
	CombatOther
)

// ParseCombatResult конвертирует строку протокола
func ParseCombatResult(s string) (CombatResult, bool) {
	switch strings.ToUpper(s) {
	case "MONSTER_DEFEATED":
		return CombatMonsterDefeated, true
	case "PARTY_FLED":
		return CombatPartyFled, true
	case "OTHER":
		return CombatOther, true
	}
	return 0, false
}

// Target - цель взаимодействия: сущность или блок
type Target struct {
	Entity     *Entity
	BlockIndex int
}

func EntityTarget(e *Entity) Target { return Target{Entity: e, BlockIndex: -1} }

func BlockTarget(idx int) Target { return Target{BlockIndex: idx} }

// IsBlock - цель является блоком сетки
func (t Target) IsBlock() bool { return t.Entity == nil }
