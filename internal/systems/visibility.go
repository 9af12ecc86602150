package systems

import (
	"labyrinth-server/internal/domain"
	"labyrinth-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// BlockSet - множество индексов блоков
type BlockSet map[int]struct{}

func (s BlockSet) Add(idx int)      { s[idx] = struct{}{} }
func (s BlockSet) Remove(idx int)   { delete(s, idx) }
func (s BlockSet) Has(idx int) bool { _, ok := s[idx]; return ok }

// VisibilityIndex - блоки, закрывающие обзор
type VisibilityIndex struct {
	grid     *domain.BlockGrid
	blocking BlockSet
}

func NewVisibilityIndex(grid *domain.BlockGrid) *VisibilityIndex {
	return &VisibilityIndex{grid: grid, blocking: make(BlockSet)}
}

// IsBlocking проверяет, закрывает ли блок обзор
func (v *VisibilityIndex) IsBlocking(idx int) bool {
	return v.blocking.Has(idx)
}

// Len - количество непрозрачных блоков
func (v *VisibilityIndex) Len() int {
	return len(v.blocking)
}

func (v *VisibilityIndex) set(idx int, blocking bool) {
	if blocking {
		v.blocking.Add(idx)
	} else {
		v.blocking.Remove(idx)
	}
}

// CanSee - приближенная проверка прямой видимости.
// Идем от from к to шагами по четверти блока, на каждом шаге берем блок под точкой.
// Непрозрачный блок или выход за карту - не видно. Ближе четверти блока - видно.
func (v *VisibilityIndex) CanSee(from, to domain.Vec2) bool {
	step := v.grid.BlockSize * domain.SightStepFraction
	p := from

	for {
		d := to.Sub(p)
		dist := d.Len()
		if dist < step {
			return true
		}

		p = p.Add(d.Scale(step / dist))
		b := v.grid.PositionOf(p)
		if !v.grid.InBounds(b.X, b.Y) || v.blocking.Has(v.grid.Index(b.X, b.Y)) {
			if logger.Log.IsLevelEnabled(logrus.TraceLevel) {
				logger.Log.WithFields(logrus.Fields{
					"component": "visibility",
					"from":      from,
					"to":        to,
					"blocked":   b,
				}).Trace("Line of sight blocked.")
			}
			return false
		}
	}
}
