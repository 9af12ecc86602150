package systems

import (
	"fmt"
	"labyrinth-server/internal/domain"
	"labyrinth-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TileChangeHook вызывается после каждого применённого изменения блока.
type TileChangeHook func(block domain.Block, previous domain.Block)

// GridMutator - единственная точка изменения блоков.
// Держит согласованными грань стен, коллизии, множества блокировки движения и обзора.
type GridMutator struct {
	grid       *domain.BlockGrid
	collision  *CollisionIndex
	visibility *VisibilityIndex
	movement   BlockSet
	faces      map[int][]domain.WallFace
	hooks      []TileChangeHook
}

func NewGridMutator(grid *domain.BlockGrid, collision *CollisionIndex, visibility *VisibilityIndex) *GridMutator {
	return &GridMutator{
		grid:       grid,
		collision:  collision,
		visibility: visibility,
		movement:   make(BlockSet),
		faces:      make(map[int][]domain.WallFace),
	}
}

// Subscribe добавляет хук на изменение блоков
func (m *GridMutator) Subscribe(h TileChangeHook) {
	m.hooks = append(m.hooks, h)
}

// Build строит все производные данные с нуля. Вызывается один раз после загрузки карты.
func (m *GridMutator) Build() error {
	for i := range m.grid.Blocks {
		b := &m.grid.Blocks[i]
		if b.WallID != 0 && m.grid.Labyrinth.Wall(b.WallID) == nil {
			return fmt.Errorf("block (%d,%d): %w: %d", b.X, b.Y, domain.ErrUnknownWall, b.WallID)
		}
		if b.ObjectID != 0 && m.grid.Labyrinth.Object(b.ObjectID) == nil {
			return fmt.Errorf("block (%d,%d): %w: %d", b.X, b.Y, domain.ErrUnknownObject, b.ObjectID)
		}
		m.rebuild(i)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "grid_mutator",
		"map_id":    m.grid.MapID,
		"blocks":    len(m.grid.Blocks),
		"colliders": m.collision.StaticCount(),
		"opaque":    m.visibility.Len(),
	}).Debug("Grid derived data built.")
	return nil
}

// ApplyTileChange заменяет стену и объект блока (0 - пусто) и пересобирает
// все зависящие от блока данные.
func (m *GridMutator) ApplyTileChange(x, y, wallID, objectID int) error {
	b, err := m.grid.BlockAt(x, y)
	if err != nil {
		return err
	}
	if wallID != 0 && objectID != 0 {
		return fmt.Errorf("block (%d,%d): %w", x, y, domain.ErrInvalidOccupant)
	}
	if wallID != 0 && m.grid.Labyrinth.Wall(wallID) == nil {
		return fmt.Errorf("block (%d,%d): %w: %d", x, y, domain.ErrUnknownWall, wallID)
	}
	if objectID != 0 && m.grid.Labyrinth.Object(objectID) == nil {
		return fmt.Errorf("block (%d,%d): %w: %d", x, y, domain.ErrUnknownObject, objectID)
	}

	previous := *b
	b.WallID = wallID
	b.ObjectID = objectID

	idx := m.grid.Index(x, y)
	m.rebuild(idx)

	// Соседи могут получить или потерять грани в сторону этого блока.
	if previous.WallID != wallID {
		for _, n := range (domain.Position{X: x, Y: y}).Neighbours() {
			if !m.grid.InBounds(n.X, n.Y) {
				continue
			}
			nIdx := m.grid.Index(n.X, n.Y)
			if m.grid.Blocks[nIdx].WallID != 0 {
				m.rebuild(nIdx)
			}
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component":  "grid_mutator",
		"map_id":     m.grid.MapID,
		"x":          x,
		"y":          y,
		"old_wall":   previous.WallID,
		"old_object": previous.ObjectID,
		"wall":       wallID,
		"object":     objectID,
	}).Debug("Tile changed.")

	for _, h := range m.hooks {
		h(*b, previous)
	}
	return nil
}

// Faces возвращает грани стены блока
func (m *GridMutator) Faces(idx int) []domain.WallFace {
	return m.faces[idx]
}

// FaceCount - общее число граней на карте
func (m *GridMutator) FaceCount() int {
	n := 0
	for _, f := range m.faces {
		n += len(f)
	}
	return n
}

// BlocksMovement проверяет блок по множеству блокировки движения
func (m *GridMutator) BlocksMovement(idx int) bool {
	return m.movement.Has(idx)
}

// rebuild сносит и заново строит грани, коллизии и флаги одного блока.
func (m *GridMutator) rebuild(idx int) {
	b := &m.grid.Blocks[idx]
	delete(m.faces, idx)
	m.collision.remove(idx)

	if m.grid.BlocksMovement(b) {
		m.movement.Add(idx)
	} else {
		m.movement.Remove(idx)
	}
	m.visibility.set(idx, m.grid.BlocksSight(b))

	var prims []domain.CollisionPrimitive

	if w := m.grid.WallOf(b); w != nil {
		var faces []domain.WallFace
		pos := domain.Position{X: b.X, Y: b.Y}
		for dir, n := range pos.Neighbours() {
			if !m.isOpenSide(n) {
				continue
			}
			a, c := m.edge(pos, domain.Direction(dir))
			faces = append(faces, domain.WallFace{BlockIndex: idx, WallID: w.ID, Dir: domain.Direction(dir), A: a, B: c})
			if w.BlocksMovement {
				prims = append(prims, domain.CollisionPrimitive{
					Kind:          domain.PrimitiveSegment,
					A:             a,
					B:             c,
					Horizontal:    dir == int(domain.DirNorth) || dir == int(domain.DirSouth),
					PlayerCanPass: w.PlayerCanPass,
					Source:        domain.SourceWall,
					BlockIndex:    idx,
					WallID:        w.ID,
				})
			}
		}
		if len(faces) > 0 {
			m.faces[idx] = faces
		}
	}

	if o := m.grid.ObjectOf(b); o != nil && o.BlocksMovement {
		size := o.Size
		if size <= 0 {
			size = domain.DefaultObjectSize
		}
		prims = append(prims, domain.CollisionPrimitive{
			Kind:          domain.PrimitiveSphere,
			Center:        m.grid.CenterOf(domain.Position{X: b.X, Y: b.Y}),
			Radius:        size * m.grid.BlockSize / 2,
			PlayerCanPass: o.PlayerCanPass,
			Source:        domain.SourceObject,
			BlockIndex:    idx,
			ObjectID:      o.ID,
		})
	}

	m.collision.set(idx, prims)
}

// isOpenSide - сосед не закрывает грань: вне карты, без стены,
// или со стеной прозрачной, проходимой или изменяемой.
func (m *GridMutator) isOpenSide(n domain.Position) bool {
	if !m.grid.InBounds(n.X, n.Y) {
		return true
	}
	nb := &m.grid.Blocks[m.grid.Index(n.X, n.Y)]
	if nb.WallID == 0 {
		return true
	}
	w := m.grid.Labyrinth.Wall(nb.WallID)
	if w == nil {
		return true
	}
	return w.Transparent || !w.BlocksMovement || m.grid.Labyrinth.IsChangeableWall(nb.WallID)
}

// edge - отрезок стороны блока в мировых координатах, обход по часовой стрелке
func (m *GridMutator) edge(p domain.Position, dir domain.Direction) (domain.Vec2, domain.Vec2) {
	bs := m.grid.BlockSize
	x0, y0 := float64(p.X)*bs, float64(p.Y)*bs
	x1, y1 := x0+bs, y0+bs
	switch dir {
	case domain.DirNorth:
		return domain.Vec2{X: x0, Y: y0}, domain.Vec2{X: x1, Y: y0}
	case domain.DirEast:
		return domain.Vec2{X: x1, Y: y0}, domain.Vec2{X: x1, Y: y1}
	case domain.DirSouth:
		return domain.Vec2{X: x1, Y: y1}, domain.Vec2{X: x0, Y: y1}
	default:
		return domain.Vec2{X: x0, Y: y1}, domain.Vec2{X: x0, Y: y0}
	}
}
