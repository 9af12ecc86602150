package handlers

import (
	"encoding/json"
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
)

// Simulation описывает загруженную карту. engine.Instance неявно реализует этот интерфейс.
type Simulation interface {
	MovePlayer(delta domain.Vec2) (domain.Outcome, error)
	Trigger(trigger enums.Trigger, target domain.Target, itemID int) (domain.Outcome, error)
	CompleteDecision(h domain.EncounterHandle, d domain.Decision) error
	CompleteCombat(h domain.EncounterHandle, r domain.CombatResult) error
	EndConversation(idx int) error
	ApplyTileChange(x, y, wallID, objectID int) error
	Entity(idx int) (*domain.Entity, error)
	BlockTarget(x, y int) (domain.Target, error)
}

// MapSwitcher откладывает смену карты до конца текущей команды
type MapSwitcher interface {
	RequestMapChange(path string)
}

// Context передает хендлеру состояние карты.
type Context struct {
	Sim      Simulation
	Switcher MapSwitcher
	Admin    bool // команда подписана админским токеном
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет клиенту напрямую, он возвращает данные.
type Result struct {
	Msg     string         // Текст для всплывающего сообщения
	MsgType string         // INFO, ERROR
	Outcome domain.Outcome // Итог взаимодействия (для логов)
	Resync  bool           // Клиенту нужна полная карта и кадр
}

// HandlerFunc - это контракт для любой команды (MOVE, TRIGGER, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
