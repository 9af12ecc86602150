package domain

import "fmt"

// Block - одна клетка сетки. Стена и объект взаимоисключающие, 0 значит "нет".
type Block struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	WallID   int `json:"wallId,omitempty"`
	ObjectID int `json:"objectId,omitempty"`
	EventID  int `json:"eventId,omitempty"`

	// MapBorder - край карты, никогда не бывает свободным для движения
	MapBorder bool `json:"mapBorder,omitempty"`
}

// IsEmpty - в клетке нет ни стены, ни объекта
func (b *Block) IsEmpty() bool {
	return b.WallID == 0 && b.ObjectID == 0
}

// BlockGrid - сетка блоков одной карты.
// Меняется только через GridMutator.
type BlockGrid struct {
	MapID     int     `json:"mapId"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	BlockSize float64 `json:"blockSize"`

	Blocks    []Block    `json:"-"` // Ключ: Y * Width + X
	Labyrinth *Labyrinth `json:"-"`
}

// NewBlockGrid создает пустую сетку. Края карты помечаются как MapBorder.
func NewBlockGrid(mapID, width, height int, blockSize float64, lab *Labyrinth) (*BlockGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if lab == nil {
		lab = NewLabyrinth(0)
	}

	g := &BlockGrid{
		MapID:     mapID,
		Width:     width,
		Height:    height,
		BlockSize: blockSize,
		Blocks:    make([]Block, width*height),
		Labyrinth: lab,
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b := &g.Blocks[g.Index(x, y)]
			b.X, b.Y = x, y
			b.MapBorder = x == 0 || y == 0 || x == width-1 || y == height-1
		}
	}
	return g, nil
}
