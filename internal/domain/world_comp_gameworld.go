package domain

import (
	"fmt"
	"math"
)

func (g *BlockGrid) Index(x, y int) int {
	return y*g.Width + x
}

// InBounds проверяет, лежит ли клетка внутри сетки
func (g *BlockGrid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// BlockAt возвращает блок по координатам сетки
func (g *BlockGrid) BlockAt(x, y int) (*Block, error) {
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf("%w: block (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, g.Width, g.Height)
	}
	return &g.Blocks[g.Index(x, y)], nil
}

// BlockAtIndex возвращает блок по индексу
func (g *BlockGrid) BlockAtIndex(idx int) (*Block, error) {
	if idx < 0 || idx >= len(g.Blocks) {
		return nil, fmt.Errorf("%w: block index %d", ErrOutOfBounds, idx)
	}
	return &g.Blocks[idx], nil
}

// PositionOf переводит мировые координаты в клетку (floor)
func (g *BlockGrid) PositionOf(v Vec2) Position {
	return Position{
		X: int(math.Floor(v.X / g.BlockSize)),
		Y: int(math.Floor(v.Y / g.BlockSize)),
	}
}

// CenterOf возвращает мировые координаты центра клетки
func (g *BlockGrid) CenterOf(p Position) Vec2 {
	return Vec2{
		X: (float64(p.X) + 0.5) * g.BlockSize,
		Y: (float64(p.Y) + 0.5) * g.BlockSize,
	}
}

// WallOf возвращает описание стены блока (nil, если стены нет)
func (g *BlockGrid) WallOf(b *Block) *WallDescriptor {
	return g.Labyrinth.Wall(b.WallID)
}

// ObjectOf возвращает описание объекта блока (nil, если объекта нет)
func (g *BlockGrid) ObjectOf(b *Block) *ObjectDescriptor {
	return g.Labyrinth.Object(b.ObjectID)
}

// BlocksMovement - блок непроходим для сущностей
func (g *BlockGrid) BlocksMovement(b *Block) bool {
	if b.MapBorder {
		return true
	}
	if w := g.WallOf(b); w != nil && w.BlocksMovement {
		return true
	}
	if o := g.ObjectOf(b); o != nil && o.BlocksMovement {
		return true
	}
	return false
}

// BlocksSight - блок закрывает обзор
func (g *BlockGrid) BlocksSight(b *Block) bool {
	if w := g.WallOf(b); w != nil && w.BlocksSight {
		return true
	}
	if o := g.ObjectOf(b); o != nil && o.BlocksSight {
		return true
	}
	return false
}
