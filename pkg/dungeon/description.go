package dungeon

import (
	"encoding/json"
	"labyrinth-server/internal/domain"
)

// MapDescription - исходное описание карты.
// Хранится как JSON (или JSON, сжатый zstd), сетка хранит только непустые блоки.
type MapDescription struct {
	ID          int     `json:"id"`
	Name        string  `json:"name,omitempty"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	BlockSize   float64 `json:"blockSize,omitempty"`
	LabyrinthID int     `json:"labyrinthId"`

	// Start - стартовая клетка игрока (1-based, как и ссылки на персонажей)
	Start Point `json:"start"`

	Blocks     []BlockDesc    `json:"blocks,omitempty"`
	Characters []CharacterRef `json:"characters,omitempty"`
	Events     []ChainDesc    `json:"events,omitempty"`
	Texts      []string       `json:"texts,omitempty"`
}

// Point - клетка в координатах описания
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BlockDesc - непустой блок сетки (0-based)
type BlockDesc struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Wall   int `json:"wall,omitempty"`
	Object int `json:"object,omitempty"`
	Event  int `json:"event,omitempty"`
}

// CharacterRef - ссылка на персонажа карты. Координаты 1-based, (0,0) в расписании - пропуск слота.
type CharacterRef struct {
	Kind   string  `json:"kind"`
	Name   string  `json:"name,omitempty"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Radius float64 `json:"radius,omitempty"` // в долях блока
	Policy string  `json:"policy,omitempty"`

	OnlyMoveWhenPlayerVisible bool `json:"onlyMoveWhenPlayerVisible,omitempty"`
	TextPopup                 bool `json:"textPopup,omitempty"`

	CharacterIndex   int `json:"characterIndex,omitempty"`
	TextIndex        int `json:"textIndex,omitempty"`
	EventID          int `json:"eventId,omitempty"`
	MonsterGroup     int `json:"monsterGroup,omitempty"`
	CombatBackground int `json:"combatBackground,omitempty"`
	GraphicIndex     int `json:"graphicIndex,omitempty"`

	Schedule []Point    `json:"schedule,omitempty"`
	Parts    []PartDesc `json:"parts,omitempty"`
}

// PartDesc - часть составной фигуры
type PartDesc struct {
	GraphicIndex int     `json:"graphicIndex"`
	OffsetX      float64 `json:"offsetX,omitempty"`
	OffsetY      float64 `json:"offsetY,omitempty"`
	DepthOffset  float64 `json:"depthOffset,omitempty"`
}

// ChainDesc - цепочка событий
type ChainDesc struct {
	ID     int         `json:"id"`
	Events []EventDesc `json:"events"`
}

// EventDesc - шаг цепочки в описании
type EventDesc struct {
	Kind       string             `json:"kind"`
	Condition  *ConditionDesc     `json:"condition,omitempty"`
	ChangeTile *domain.TileChange `json:"changeTile,omitempty"`
	TextIndex  int                `json:"textIndex,omitempty"`
	Payload    json.RawMessage    `json:"payload,omitempty"`
}

// ConditionDesc - условие шага
type ConditionDesc struct {
	Kind    string          `json:"kind"` // TRIGGER, ITEM, OTHER
	Trigger string          `json:"trigger,omitempty"`
	ItemID  int             `json:"itemId,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}
