package domain

import (
	"labyrinth-server/internal/core/types/enums"
	"time"
)

// --- КОМПОНЕНТЫ ---

// RenderPart - отдельный спрайт составной фигуры. Повторяет позицию владельца.
type RenderPart struct {
	GraphicIndex int     `json:"graphicIndex"`
	Offset       Vec2    `json:"offset"`
	DepthOffset  float64 `json:"depthOffset"`
}

// MotionComponent - состояние автомата движения
type MotionComponent struct {
	State  enums.MotionState `json:"state"`
	Target Vec2              `json:"target"`

	// LastSlot - слот времени последнего решения о блуждании (-1 - решений не было)
	LastSlot int `json:"lastSlot"`
	// LastTick - тик последнего обновления, от него считается пройденное время
	LastTick uint64 `json:"lastTick"`
}

// ScheduleComponent - суточный маршрут (один путевой пункт на слот времени).
// Координаты уже переведены в 0-based при загрузке карты.
type ScheduleComponent struct {
	Waypoints []Position `json:"waypoints"`
}

// EncounterComponent - состояние встречи с монстром
type EncounterComponent struct {
	// CooldownUntil - до этого момента (реального времени) монстр не атакует повторно
	CooldownUntil time.Time `json:"cooldownUntil"`
	// Pending - ожидаем решения игрока или результата боя
	Pending *PendingEncounter `json:"pending,omitempty"`
	// seq растет с каждой встречей, устаревшие хэндлы отбрасываются
	seq uint64
}

// EncounterStage - на каком шаге зависла встреча
type EncounterStage uint8

const (
	StageAwaitingDecision EncounterStage = iota + 1
	StageAwaitingCombat
)

// PendingEncounter - отложенный результат взаимодействия
type PendingEncounter struct {
	Handle   EncounterHandle `json:"handle"`
	Stage    EncounterStage  `json:"stage"`
	Distance float64         `json:"distance"`
}

// Begin открывает новую встречу и возвращает ее хэндл
func (c *EncounterComponent) Begin(mapID, entityIndex int, distance float64) EncounterHandle {
	c.seq++
	h := EncounterHandle{MapID: mapID, EntityIndex: entityIndex, Seq: c.seq}
	c.Pending = &PendingEncounter{Handle: h, Stage: StageAwaitingDecision, Distance: distance}
	return h
}

// Matches проверяет, что хэндл относится к текущей встрече
func (c *EncounterComponent) Matches(h EncounterHandle) bool {
	return c.Pending != nil && c.Pending.Handle == h
}
