package enums

import "strings"

// EntityKind - тип не-игровой сущности на карте
type EntityKind uint8

const (
	EntityKindNone EntityKind = iota
	EntityKindMonster
	EntityKindNPC
	EntityKindPartyMember
	EntityKindScriptedObject
)

var entityKindToString = map[EntityKind]string{
	EntityKindNone:           "NONE",
	EntityKindMonster:        "MONSTER",
	EntityKindNPC:            "NPC",
	EntityKindPartyMember:    "PARTY_MEMBER",
	EntityKindScriptedObject: "SCRIPTED_OBJECT",
}

var entityKindStringToType = map[string]EntityKind{
	"MONSTER":         EntityKindMonster,
	"NPC":             EntityKindNPC,
	"PARTY_MEMBER":    EntityKindPartyMember,
	"SCRIPTED_OBJECT": EntityKindScriptedObject,
}

// String возвращает строковое представление (для логов и дебага)
func (e EntityKind) String() string {
	if val, ok := entityKindToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseEntityKind конвертирует строку в Enum (нужно для загрузки карт)
func ParseEntityKind(s string) EntityKind {
	upper := strings.ToUpper(s)
	if val, ok := entityKindStringToType[upper]; ok {
		return val
	}
	return EntityKindNone
}

// IsConversational - с сущностью можно разговаривать (NPC или член группы)
func (e EntityKind) IsConversational() bool {
	return e == EntityKindNPC || e == EntityKindPartyMember
}
