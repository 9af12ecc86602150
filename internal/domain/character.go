package domain

import (
	"fmt"
	"labyrinth-server/internal/core/types/enums"
)

// Character - внешние данные NPC или члена группы (диалоги)
type Character struct {
	Index     int      `json:"index"`
	Name      string   `json:"name"`
	Dialogue  []string `json:"dialogue"`
	Dexterity int      `json:"dexterity,omitempty"`
	Luck      int      `json:"luck,omitempty"`
}

// Roster - NPC и члены группы, на которых ссылаются сущности карт
type Roster struct {
	NPCs         map[int]*Character
	PartyMembers map[int]*Character
}

func NewRoster() *Roster {
	return &Roster{
		NPCs:         make(map[int]*Character),
		PartyMembers: make(map[int]*Character),
	}
}

// Lookup ищет персонажа по типу сущности. Отсутствие - порча данных карты.
func (r *Roster) Lookup(kind enums.EntityKind, index int) (*Character, error) {
	var src map[int]*Character
	switch kind {
	case enums.EntityKindNPC:
		src = r.NPCs
	case enums.EntityKindPartyMember:
		src = r.PartyMembers
	default:
		return nil, fmt.Errorf("%w: %s has no character data", ErrDataInconsistency, kind)
	}
	c, ok := src[index]
	if !ok {
		return nil, fmt.Errorf("%w: %s #%d does not exist", ErrDataInconsistency, kind, index)
	}
	return c, nil
}
