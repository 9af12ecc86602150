package domain

import (
	"encoding/json"
	"labyrinth-server/internal/core/types/enums"
	"strings"
)

// EventKind - Внутренний числовой идентификатор события цепочки
type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventCondition
	EventChangeTile
	EventShowText
	EventGeneric // исполняется внешним раннером
	EventNext    // условие уже выполнено фильтром, просто идем дальше
)

// Маппинг для конвертации JSON -> Domain
var eventStringToKind = map[string]EventKind{
	"CONDITION":   EventCondition,
	"CHANGE_TILE": EventChangeTile,
	"SHOW_TEXT":   EventShowText,
	"GENERIC":     EventGeneric,
}

// Маппинг для логов Domain -> String
var eventKindToString = map[EventKind]string{
	EventCondition:  "CONDITION",
	EventChangeTile: "CHANGE_TILE",
	EventShowText:   "SHOW_TEXT",
	EventGeneric:    "GENERIC",
	EventNext:       "NEXT",
}

// ParseEvent конвертирует строку из JSON в EventKind
func ParseEvent(s string) EventKind {
	// Делаем нечувствительным к регистру для надежности
	if val, ok := eventStringToKind[strings.ToUpper(s)]; ok {
		return val
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (k EventKind) String() string {
	if val, ok := eventKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// ConditionKind - что проверяет условие
type ConditionKind uint8

const (
	CondOther   ConditionKind = iota // проверяется внешним раннером
	CondTrigger                      // каким действием игрок активировал цепочку
	CondItem                         // использован конкретный предмет
)

// Condition - условие в цепочке событий
type Condition struct {
	Kind    ConditionKind   `json:"kind"`
	Trigger enums.Trigger   `json:"trigger,omitempty"`
	ItemID  int             `json:"itemId,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// TileChange - замена содержимого блока. Координаты 0-based.
type TileChange struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	WallID   int `json:"wallId"`
	ObjectID int `json:"objectId"`
}

// Event - один шаг цепочки
type Event struct {
	Kind       EventKind       `json:"kind"`
	Condition  *Condition      `json:"condition,omitempty"`
	ChangeTile *TileChange     `json:"changeTile,omitempty"`
	TextIndex  int             `json:"textIndex,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// EventChain - условная цепочка событий блока или скриптового объекта
type EventChain struct {
	ID     int     `json:"id"`
	Events []Event `json:"events"`
}

// FilterByTrigger подготавливает цепочку к запуску конкретным действием.
// Выполненные условия на действие/предмет превращаются в Next, на первом
// невыполненном цепочка обрывается. Второй результат - применима ли цепочка.
func (c *EventChain) FilterByTrigger(trigger enums.Trigger, itemID int) ([]Event, bool) {
	out := make([]Event, 0, len(c.Events))
	matched := false

	for _, ev := range c.Events {
		if ev.Kind != EventCondition || ev.Condition == nil {
			out = append(out, ev)
			continue
		}

		cond := ev.Condition
		switch cond.Kind {
		case CondTrigger:
			if cond.Trigger != trigger {
				return out, matched || (trigger == enums.TriggerMove && len(out) > 0)
			}
		case CondItem:
			if trigger != enums.TriggerItem || cond.ItemID != itemID {
				return out, matched || (trigger == enums.TriggerMove && len(out) > 0)
			}
		default:
			out = append(out, ev)
			continue
		}
		matched = true
		out = append(out, Event{Kind: EventNext})
	}

	// Без условий на действие цепочка срабатывает только при входе в клетку
	if !matched {
		return out, trigger == enums.TriggerMove && len(out) > 0
	}
	return out, true
}

// ReferencedWalls возвращает ID стен, которые упоминаются в сменах тайлов цепочки
func (c *EventChain) ReferencedWalls() []int {
	var ids []int
	for _, ev := range c.Events {
		if ev.Kind == EventChangeTile && ev.ChangeTile != nil && ev.ChangeTile.WallID != 0 {
			ids = append(ids, ev.ChangeTile.WallID)
		}
	}
	return ids
}
