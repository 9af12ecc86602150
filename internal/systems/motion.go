package systems

import (
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"labyrinth-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Random - источник случайности для блуждания и побега
type Random interface {
	Intn(n int) int
}

// MotionConfig - параметры движения сущностей
type MotionConfig struct {
	// Speed - скорость в блоках за тик
	Speed float64 `yaml:"speed"`
	// TicksPerSlot - длина слота времени в тиках
	TicksPerSlot uint64 `yaml:"ticks_per_slot"`
	SlotsPerDay  int    `yaml:"slots_per_day"`
	// WanderRetryCap - сколько раз пробуем выбрать соседа, потом стоим
	WanderRetryCap int `yaml:"wander_retry_cap"`
}

func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		Speed:          0.05,
		TicksPerSlot:   60,
		SlotsPerDay:    domain.DefaultSlotsPerDay,
		WanderRetryCap: domain.DefaultWanderRetryCap,
	}
}

// MotionSystem - покадровое движение сущностей
type MotionSystem struct {
	grid       *domain.BlockGrid
	collision  *CollisionIndex
	visibility *VisibilityIndex
	mutator    *GridMutator
	interactor *Dispatcher
	rng        Random
	cfg        MotionConfig
}

func NewMotionSystem(grid *domain.BlockGrid, collision *CollisionIndex, visibility *VisibilityIndex,
	mutator *GridMutator, interactor *Dispatcher, rng Random, cfg MotionConfig) *MotionSystem {
	if cfg.TicksPerSlot == 0 {
		cfg.TicksPerSlot = 1
	}
	if cfg.SlotsPerDay <= 0 {
		cfg.SlotsPerDay = domain.DefaultSlotsPerDay
	}
	if cfg.WanderRetryCap <= 0 {
		cfg.WanderRetryCap = domain.DefaultWanderRetryCap
	}
	return &MotionSystem{
		grid:       grid,
		collision:  collision,
		visibility: visibility,
		mutator:    mutator,
		interactor: interactor,
		rng:        rng,
		cfg:        cfg,
	}
}

// Slot - индекс слота суточного расписания для тика
func (s *MotionSystem) Slot(tick uint64) int {
	return int((tick / s.cfg.TicksPerSlot) % uint64(s.cfg.SlotsPerDay))
}

// Update продвигает одну сущность на текущий тик.
func (s *MotionSystem) Update(ctx *domain.SimContext, e *domain.Entity) error {
	if !e.IsActive() || e.Motion == nil {
		return nil
	}
	m := e.Motion

	elapsed := uint64(0)
	if ctx.Tick > m.LastTick {
		elapsed = ctx.Tick - m.LastTick
	}
	m.LastTick = ctx.Tick

	// 1. Пауза - ждем завершения встречи или разговора
	if m.IsPaused() {
		return nil
	}

	// 2. Монстр вплотную к игроку - встреча
	if e.IsMonster() && e.Pos.DistanceTo(ctx.Player.Pos) < s.proximity(e) {
		m.Stop()
		_, err := s.interactor.Dispatch(ctx, enums.TriggerMove, domain.EntityTarget(e), 0)
		return err
	}

	// 3. Двигаемся только пока видим игрока
	if e.IsMonster() || e.OnlyMoveWhenPlayerVisible {
		visible := s.visibility.CanSee(e.Pos, ctx.Player.Pos)
		if e.IsMonster() && visible {
			ctx.PlayerSeen = true
		}
		if !visible {
			return nil
		}
	}

	// 4. Выбор цели по политике
	switch {
	case e.IsMonster():
		if e.Policy != enums.PolicyStationary && e.Policy != enums.PolicyInteractable {
			m.MoveTo(ctx.Player.Pos)
		}
	case e.Policy == enums.PolicyScheduledPath && e.Schedule != nil && len(e.Schedule.Waypoints) > 0:
		wp := e.Schedule.Waypoints[s.Slot(ctx.Tick)%len(e.Schedule.Waypoints)]
		if s.grid.InBounds(wp.X, wp.Y) {
			if target := s.grid.CenterOf(wp); target != e.Pos {
				m.MoveTo(target)
			}
		}
	}

	if e.Policy == enums.PolicyRandomWander && !e.IsMonster() {
		if slot := s.Slot(ctx.Tick); slot != m.LastSlot {
			m.LastSlot = slot
			if next, ok := s.chooseWanderTarget(e); ok {
				m.MoveTo(s.grid.CenterOf(next))
			}
		}
	}

	// 5. Движение к цели
	if m.State == enums.MotionMoving {
		s.advance(e, elapsed)
	}
	return nil
}

// proximity - дистанция срабатывания встречи
func (s *MotionSystem) proximity(e *domain.Entity) float64 {
	return s.grid.BlockSize/2 + e.Radius
}

// advance ведет сущность к цели подшагами не длиннее четверти блока.
// Первый недопустимый подшаг останавливает движение до следующего тика.
func (s *MotionSystem) advance(e *domain.Entity, elapsed uint64) {
	m := e.Motion
	bs := s.grid.BlockSize
	budget := s.cfg.Speed * bs * float64(elapsed)
	maxStep := bs * domain.MotionStepFraction

	for budget > 0 {
		d := m.Target.Sub(e.Pos)
		dist := d.Len()
		if dist == 0 {
			m.Stop()
			return
		}

		step := min(budget, maxStep, dist)
		next := e.Pos.Add(d.Scale(step / dist))
		if !s.legalStep(e, next) {
			if logger.Log.IsLevelEnabled(logrus.DebugLevel) {
				logger.Log.WithFields(logrus.Fields{
					"component": "motion_system",
					"entity":    e.Index,
					"pos":       e.Pos,
					"target":    m.Target,
				}).Debug("Sub-step blocked.")
			}
			return
		}

		e.Pos = next
		budget -= step
		if step == dist {
			m.Stop()
			return
		}
	}
}

// legalStep - подшаг не уходит в непроходимый блок и не задевает геометрию карты
func (s *MotionSystem) legalStep(e *domain.Entity, next domain.Vec2) bool {
	p := s.grid.PositionOf(next)
	if !s.grid.InBounds(p.X, p.Y) {
		return false
	}
	// Собственный блок не проверяем: сущность может стоять рядом с объектом.
	if cur := s.grid.PositionOf(e.Pos); cur != p && s.mutator.BlocksMovement(s.grid.Index(p.X, p.Y)) {
		return false
	}
	return !s.collision.TestSegmentStatic(e.Pos, next, e.Radius)
}

// chooseWanderTarget выбирает случайного соседа (8 направлений), в который можно войти.
// После WanderRetryCap неудач сущность остается на месте.
func (s *MotionSystem) chooseWanderTarget(e *domain.Entity) (domain.Position, bool) {
	cur := s.grid.PositionOf(e.Pos)
	for i := 0; i < s.cfg.WanderRetryCap; i++ {
		dx, dy := s.rng.Intn(3)-1, s.rng.Intn(3)-1
		if dx == 0 && dy == 0 {
			continue
		}
		next := cur.Shift(dx, dy)
		if !s.grid.InBounds(next.X, next.Y) || s.mutator.BlocksMovement(s.grid.Index(next.X, next.Y)) {
			continue
		}
		return next, true
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "motion_system",
		"entity":    e.Index,
		"pos":       cur,
	}).Debug("No free neighbour to wander to, staying.")
	return cur, false
}
