package enums

import "strings"

// Trigger - действие игрока, которое запускает взаимодействие
type Trigger uint8

const (
	TriggerUnknown Trigger = iota
	TriggerEye
	TriggerMouth
	TriggerHand
	TriggerMove
	TriggerItem
)

var triggerToString = map[Trigger]string{
	TriggerEye:   "EYE",
	TriggerMouth: "MOUTH",
	TriggerHand:  "HAND",
	TriggerMove:  "MOVE",
	TriggerItem:  "ITEM",
}

var triggerStringToType = map[string]Trigger{
	"EYE":   TriggerEye,
	"MOUTH": TriggerMouth,
	"HAND":  TriggerHand,
	"MOVE":  TriggerMove,
	"ITEM":  TriggerItem,
}

func (t Trigger) String() string {
	if val, ok := triggerToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseTrigger конвертирует строку из JSON в Trigger
func ParseTrigger(s string) Trigger {
	if val, ok := triggerStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return TriggerUnknown
}
