package engine

import (
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
)

// entityInBlock ищет первую активную сущность (в порядке регистрации), стоящую в блоке
func (i *Instance) entityInBlock(x, y int) *domain.Entity {
	for _, e := range i.Entities {
		if !e.IsActive() {
			continue
		}
		if p := i.Grid.PositionOf(e.Pos); p.X == x && p.Y == y {
			return e
		}
	}
	return nil
}

// CharacterTypeFromBlock - тип активной сущности в блоке или NONE
func (i *Instance) CharacterTypeFromBlock(x, y int) enums.EntityKind {
	if !i.Grid.InBounds(x, y) {
		return enums.EntityKindNone
	}
	if e := i.entityInBlock(x, y); e != nil {
		return e.Kind
	}
	return enums.EntityKindNone
}

// AutomapTypeFromBlock - что рисует автокарта для блока.
// Сущности важнее содержимого блока.
func (i *Instance) AutomapTypeFromBlock(x, y int) enums.AutomapType {
	b, err := i.Grid.BlockAt(x, y)
	if err != nil {
		return enums.AutomapInvalid
	}

	switch i.CharacterTypeFromBlock(x, y) {
	case enums.EntityKindMonster:
		return enums.AutomapMonster
	case enums.EntityKindNPC, enums.EntityKindPartyMember:
		return enums.AutomapPerson
	case enums.EntityKindScriptedObject:
		return enums.AutomapObject
	}

	if w := i.Grid.WallOf(b); w != nil {
		if w.PlayerCanPass {
			return enums.AutomapDoor
		}
		return enums.AutomapWall
	}
	if b.ObjectID != 0 {
		return enums.AutomapObject
	}
	if b.EventID != 0 {
		return enums.AutomapEvent
	}
	return enums.AutomapEmpty
}
