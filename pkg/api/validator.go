package api

import (
	"errors"
	"math"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

// MaxMoveStep - максимальная длина одного перемещения игрока (в мировых единицах)
const MaxMoveStep = 1.0

func (p MovePayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return errors.New("movement vector cannot be zero")
	}
	if math.IsNaN(p.Dx) || math.IsNaN(p.Dy) || math.Hypot(p.Dx, p.Dy) > MaxMoveStep {
		return errors.New("movement step too large")
	}
	return nil
}

func (p TriggerPayload) Validate() error {
	switch strings.ToUpper(p.Trigger) {
	case "EYE", "MOUTH", "HAND", "ITEM":
	default:
		return errors.New("unknown trigger")
	}
	hasBlock := p.X != nil && p.Y != nil
	if (p.EntityIndex != nil) == hasBlock {
		return errors.New("exactly one of entityIndex or x/y is required")
	}
	if strings.EqualFold(p.Trigger, "ITEM") && p.ItemID <= 0 {
		return errors.New("itemId is required for ITEM")
	}
	return nil
}

func (p DecisionPayload) Validate() error {
	switch strings.ToUpper(p.Decision) {
	case "FIGHT", "FLEE":
		return nil
	}
	return errors.New("decision must be FIGHT or FLEE")
}

func (p CombatResultPayload) Validate() error {
	switch strings.ToUpper(p.Result) {
	case "MONSTER_DEFEATED", "PARTY_FLED", "OTHER":
		return nil
	}
	return errors.New("unknown combat result")
}

func (p TileChangePayload) Validate() error {
	if p.WallID < 0 || p.ObjectID < 0 {
		return errors.New("ids cannot be negative")
	}
	if p.WallID != 0 && p.ObjectID != 0 {
		return errors.New("block cannot hold both wall and object")
	}
	return nil
}

func (p MapPayload) Validate() error {
	if p.Path == "" {
		return errors.New("path is required")
	}
	return nil
}
