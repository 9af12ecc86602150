package systems

import (
	"labyrinth-server/internal/domain"
	"math"
)

// CollisionIndex - примитивы коллизий по индексам блоков.
// Статический слой меняет только GridMutator, слой сущностей обновляется раз в тик.
type CollisionIndex struct {
	grid     *domain.BlockGrid
	static   map[int][]domain.CollisionPrimitive
	entities map[int][]domain.CollisionPrimitive
}

func NewCollisionIndex(grid *domain.BlockGrid) *CollisionIndex {
	return &CollisionIndex{
		grid:     grid,
		static:   make(map[int][]domain.CollisionPrimitive),
		entities: make(map[int][]domain.CollisionPrimitive),
	}
}

// set заменяет примитивы блока (пустой список удаляет ключ)
func (c *CollisionIndex) set(blockIdx int, prims []domain.CollisionPrimitive) {
	if len(prims) == 0 {
		delete(c.static, blockIdx)
		return
	}
	c.static[blockIdx] = prims
}

// remove удаляет все статические примитивы блока
func (c *CollisionIndex) remove(blockIdx int) {
	delete(c.static, blockIdx)
}

// BlockBodies возвращает статические примитивы одного блока
func (c *CollisionIndex) BlockBodies(blockIdx int) []domain.CollisionPrimitive {
	return c.static[blockIdx]
}

// StaticCount - количество блоков со статическими примитивами
func (c *CollisionIndex) StaticCount() int {
	return len(c.static)
}

// SyncEntityBodies пересобирает тела сущностей по снимку позиций.
// Неактивные сущности тел не имеют.
func (c *CollisionIndex) SyncEntityBodies(entities []*domain.Entity) {
	clear(c.entities)
	for _, e := range entities {
		if !e.IsActive() || e.Radius <= 0 {
			continue
		}
		p := c.grid.PositionOf(e.Pos)
		if !c.grid.InBounds(p.X, p.Y) {
			continue
		}
		idx := c.grid.Index(p.X, p.Y)
		c.entities[idx] = append(c.entities[idx], domain.CollisionPrimitive{
			Kind:        domain.PrimitiveSphere,
			Center:      e.Pos,
			Radius:      e.Radius,
			Source:      domain.SourceEntity,
			BlockIndex:  idx,
			EntityIndex: e.Index,
		})
	}
}

// BodiesNear собирает примитивы из окрестности позиции.
// Для radius = 1 блок это окрестность 3x3.
func (c *CollisionIndex) BodiesNear(pos domain.Vec2, radius float64) []domain.CollisionPrimitive {
	center := c.grid.PositionOf(pos)
	r := int(math.Ceil(radius / c.grid.BlockSize))
	if r < 1 {
		r = 1
	}
	return c.collect(center.X-r, center.Y-r, center.X+r, center.Y+r, true)
}

// TestSegment проверяет, задевает ли капсула радиуса probeRadius, заметающая
// отрезок from->to, какой-либо непроходимый примитив. Тела сущностей учитываются.
// excludePlayerPassable - пропускать примитивы, сквозь которые ходит игрок.
func (c *CollisionIndex) TestSegment(from, to domain.Vec2, probeRadius float64, excludePlayerPassable bool) bool {
	return c.sweep(from, to, probeRadius, excludePlayerPassable, true)
}

// TestSegmentStatic - то же для движения самих сущностей: только геометрия карты,
// двери блокируют всегда.
func (c *CollisionIndex) TestSegmentStatic(from, to domain.Vec2, probeRadius float64) bool {
	return c.sweep(from, to, probeRadius, false, false)
}

func (c *CollisionIndex) sweep(from, to domain.Vec2, r float64, excludePlayerPassable, withEntities bool) bool {
	bs := c.grid.BlockSize
	margin := r + bs
	minP := c.grid.PositionOf(domain.Vec2{X: math.Min(from.X, to.X) - margin, Y: math.Min(from.Y, to.Y) - margin})
	maxP := c.grid.PositionOf(domain.Vec2{X: math.Max(from.X, to.X) + margin, Y: math.Max(from.Y, to.Y) + margin})

	for _, p := range c.collect(minP.X, minP.Y, maxP.X, maxP.Y, withEntities) {
		if excludePlayerPassable && p.PlayerCanPass {
			continue
		}
		if hits(p, from, to, r) {
			return true
		}
	}
	return false
}

func (c *CollisionIndex) collect(x0, y0, x1, y1 int, withEntities bool) []domain.CollisionPrimitive {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, c.grid.Width-1), min(y1, c.grid.Height-1)

	var out []domain.CollisionPrimitive
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			idx := c.grid.Index(x, y)
			out = append(out, c.static[idx]...)
			if withEntities {
				out = append(out, c.entities[idx]...)
			}
		}
	}
	return out
}

// hits - пересечение капсулы [from, to] радиуса r с примитивом (касание не считается)
func hits(p domain.CollisionPrimitive, from, to domain.Vec2, r float64) bool {
	switch p.Kind {
	case domain.PrimitiveSphere:
		return domain.PointSegmentDistance(p.Center, from, to) < r+p.Radius
	case domain.PrimitiveSegment:
		return domain.SegmentSegmentDistance(from, to, p.A, p.B) < r
	}
	return false
}
