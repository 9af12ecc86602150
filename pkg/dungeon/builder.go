package dungeon

import (
	"math/rand"
)

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// MapBuilder предоставляет fluent API для создания описаний карт
type MapBuilder struct {
	desc  MapDescription
	walls map[Point]BlockDesc
	rooms []Rect
	rng   *rand.Rand
}

// NewMap создает builder пустой карты
func NewMap(id, width, height int) *MapBuilder {
	return &MapBuilder{
		desc: MapDescription{
			ID:          id,
			Width:       width,
			Height:      height,
			LabyrinthID: 1,
			Start:       Point{X: width / 2, Y: height / 2},
		},
		walls: make(map[Point]BlockDesc),
	}
}

// WithRNG задает генератор для случайных комнат и расстановки
func (b *MapBuilder) WithRNG(rng *rand.Rand) *MapBuilder {
	b.rng = rng
	return b
}

// WithLabyrinth задает каталог стен
func (b *MapBuilder) WithLabyrinth(id int) *MapBuilder {
	b.desc.LabyrinthID = id
	return b
}

// WithBlockSize задает размер блока в мировых единицах
func (b *MapBuilder) WithBlockSize(size float64) *MapBuilder {
	b.desc.BlockSize = size
	return b
}

// WithStart задает стартовую клетку (0-based)
func (b *MapBuilder) WithStart(x, y int) *MapBuilder {
	b.desc.Start = Point{X: x + 1, Y: y + 1}
	return b
}

// Wall ставит стену (0-based)
func (b *MapBuilder) Wall(x, y, wallID int) *MapBuilder {
	blk := b.walls[Point{x, y}]
	blk.X, blk.Y, blk.Wall, blk.Object = x, y, wallID, 0
	b.walls[Point{x, y}] = blk
	return b
}

// Object ставит декоративный объект (0-based)
func (b *MapBuilder) Object(x, y, objectID int) *MapBuilder {
	blk := b.walls[Point{x, y}]
	blk.X, blk.Y, blk.Wall, blk.Object = x, y, 0, objectID
	b.walls[Point{x, y}] = blk
	return b
}

// Clear убирает содержимое блока, событие сохраняется
func (b *MapBuilder) Clear(x, y int) *MapBuilder {
	blk, ok := b.walls[Point{x, y}]
	if !ok {
		return b
	}
	blk.Wall, blk.Object = 0, 0
	b.walls[Point{x, y}] = blk
	return b
}

// Frame обносит карту стеной по периметру
func (b *MapBuilder) Frame(wallID int) *MapBuilder {
	for x := 0; x < b.desc.Width; x++ {
		b.Wall(x, 0, wallID).Wall(x, b.desc.Height-1, wallID)
	}
	for y := 0; y < b.desc.Height; y++ {
		b.Wall(0, y, wallID).Wall(b.desc.Width-1, y, wallID)
	}
	return b
}

// Event вешает цепочку событий на блок и регистрирует ее
func (b *MapBuilder) Event(x, y int, chain ChainDesc) *MapBuilder {
	blk := b.walls[Point{x, y}]
	blk.X, blk.Y, blk.Event = x, y, chain.ID
	b.walls[Point{x, y}] = blk
	return b.Chain(chain)
}

// Chain регистрирует цепочку без привязки к блоку (для скриптовых объектов)
func (b *MapBuilder) Chain(chain ChainDesc) *MapBuilder {
	for _, c := range b.desc.Events {
		if c.ID == chain.ID {
			return b
		}
	}
	b.desc.Events = append(b.desc.Events, chain)
	return b
}

// Text добавляет текст карты и возвращает builder (индекс = порядковый номер)
func (b *MapBuilder) Text(s string) *MapBuilder {
	b.desc.Texts = append(b.desc.Texts, s)
	return b
}

// Character добавляет персонажа. Позиция 0-based, в описание пишется 1-based.
func (b *MapBuilder) Character(x, y int, ref CharacterRef) *MapBuilder {
	ref.X, ref.Y = x+1, y+1
	schedule := make([]Point, len(ref.Schedule))
	for i, p := range ref.Schedule {
		schedule[i] = Point{X: p.X + 1, Y: p.Y + 1}
	}
	ref.Schedule = schedule
	b.desc.Characters = append(b.desc.Characters, ref)
	return b
}

// WithRooms заполняет карту стенами и вырезает комнаты с коридорами.
// Нужен WithRNG.
func (b *MapBuilder) WithRooms(maxRooms, wallID int) *MapBuilder {
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(1))
	}
	for y := 0; y < b.desc.Height; y++ {
		for x := 0; x < b.desc.Width; x++ {
			b.Wall(x, y, wallID)
		}
	}

	b.rooms = make([]Rect, 0, maxRooms)
	for i := 0; i < maxRooms; i++ {
		w := b.randRange(MinRoomSize, MaxRoomSize)
		h := b.randRange(MinRoomSize, MaxRoomSize)
		if w+2 >= b.desc.Width || h+2 >= b.desc.Height {
			continue
		}
		x := b.randRange(1, b.desc.Width-w-1)
		y := b.randRange(1, b.desc.Height-h-1)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		// Проверяем пересечения
		failed := false
		for _, other := range b.rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		b.carveRoom(newRoom)

		// Соединяем с предыдущей комнатой
		if len(b.rooms) > 0 {
			prevX, prevY := b.rooms[len(b.rooms)-1].Center()
			currX, currY := newRoom.Center()
			if b.rng.Intn(2) == 0 {
				b.carveH(prevX, currX, prevY)
				b.carveV(prevY, currY, currX)
			} else {
				b.carveV(prevY, currY, prevX)
				b.carveH(prevX, currX, currY)
			}
		}
		b.rooms = append(b.rooms, newRoom)
	}

	if len(b.rooms) > 0 {
		cx, cy := b.rooms[0].Center()
		b.WithStart(cx, cy)
	}
	return b
}

// Rooms возвращает вырезанные комнаты
func (b *MapBuilder) Rooms() []Rect {
	return b.rooms
}

func (b *MapBuilder) carveRoom(r Rect) {
	for y := r.Y + 1; y < r.Y+r.H; y++ {
		for x := r.X + 1; x < r.X+r.W; x++ {
			b.Clear(x, y)
		}
	}
}

func (b *MapBuilder) carveH(x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		b.Clear(x, y)
	}
}

func (b *MapBuilder) carveV(y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		b.Clear(x, y)
	}
}

func (b *MapBuilder) randRange(lo, hi int) int {
	return b.rng.Intn(hi-lo+1) + lo
}

// Build собирает описание. Блоки упорядочены по строкам.
func (b *MapBuilder) Build() *MapDescription {
	desc := b.desc
	desc.Blocks = make([]BlockDesc, 0, len(b.walls))
	for y := 0; y < desc.Height; y++ {
		for x := 0; x < desc.Width; x++ {
			if blk, ok := b.walls[Point{x, y}]; ok && (blk.Wall != 0 || blk.Object != 0 || blk.Event != 0) {
				desc.Blocks = append(desc.Blocks, blk)
			}
		}
	}
	return &desc
}
