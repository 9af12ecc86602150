package systems

import (
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
)

// InteractReach - дотянуться можно до соседнего блока (включая диагональ), в блоках
const InteractReach = 1.5

// ValidationResult - результат проверки цели
type ValidationResult struct {
	Valid   bool
	Message string // Сообщение об ошибке, если Valid == false
}

// ValidateInteraction проверяет, может ли игрок применить триггер к цели.
//
// "Глаз" на сущность работает на любую дистанцию при прямой видимости,
// все остальное - только в пределах InteractReach.
// Триггер "движение" игрок не отправляет, его порождает симуляция.
func ValidateInteraction(ctx *domain.SimContext, trigger enums.Trigger, target domain.Target, grid *domain.BlockGrid, vis *VisibilityIndex) ValidationResult {
	// 1. Цель
	var at domain.Vec2
	if target.IsBlock() {
		b, err := grid.BlockAtIndex(target.BlockIndex)
		if err != nil {
			return ValidationResult{Message: "Нет такого блока."}
		}
		at = grid.CenterOf(domain.Position{X: b.X, Y: b.Y})
	} else {
		if !target.Entity.IsActive() {
			return ValidationResult{Message: "Цель не найдена."}
		}
		at = target.Entity.Pos
	}

	// 2. Триггер
	switch trigger {
	case enums.TriggerEye, enums.TriggerMouth, enums.TriggerHand, enums.TriggerItem:
	default:
		return ValidationResult{Message: "Неизвестное действие."}
	}

	// 3. Дистанция
	if (trigger != enums.TriggerEye || target.IsBlock()) && ctx.Player.Pos.DistanceTo(at) > InteractReach*grid.BlockSize {
		return ValidationResult{Message: "Цель слишком далеко."}
	}

	// 4. Видимость. Блок-цель сам может быть стеной, для блоков хватает дистанции.
	if !target.IsBlock() && !vis.CanSee(ctx.Player.Pos, at) {
		return ValidationResult{Message: "Цель не видна."}
	}

	return ValidationResult{Valid: true}
}
