package domain

import "labyrinth-server/internal/core/types/enums"

// MoveTo задает новую цель движения
func (m *MotionComponent) MoveTo(target Vec2) {
	if m.State == enums.MotionPaused {
		return
	}
	m.State = enums.MotionMoving
	m.Target = target
}

// Stop прекращает движение
func (m *MotionComponent) Stop() {
	m.State = enums.MotionIdle
}

// Pause замораживает сущность до завершения встречи
func (m *MotionComponent) Pause() {
	m.State = enums.MotionPaused
}

// Resume выводит из паузы
func (m *MotionComponent) Resume() {
	if m.State == enums.MotionPaused {
		m.State = enums.MotionIdle
	}
}

// IsPaused проверяет паузу
func (m *MotionComponent) IsPaused() bool {
	return m.State == enums.MotionPaused
}
