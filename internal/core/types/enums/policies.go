package enums

import "strings"

// MovementPolicy - как сущность перемещается сама по себе
type MovementPolicy uint8

const (
	PolicyStationary MovementPolicy = iota
	PolicyRandomWander
	PolicyScheduledPath
	PolicyInteractable // стоит на месте, но реагирует на триггеры
)

var policyToString = map[MovementPolicy]string{
	PolicyStationary:    "STATIONARY",
	PolicyRandomWander:  "RANDOM_WANDER",
	PolicyScheduledPath: "SCHEDULED_PATH",
	PolicyInteractable:  "INTERACTABLE",
}

var policyStringToType = map[string]MovementPolicy{
	"STATIONARY":     PolicyStationary,
	"RANDOM_WANDER":  PolicyRandomWander,
	"SCHEDULED_PATH": PolicyScheduledPath,
	"INTERACTABLE":   PolicyInteractable,
}

func (p MovementPolicy) String() string {
	if val, ok := policyToString[p]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseMovementPolicy по умолчанию возвращает PolicyStationary
func ParseMovementPolicy(s string) MovementPolicy {
	if val, ok := policyStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return PolicyStationary
}
