package dungeon

import (
	"labyrinth-server/internal/domain"
	"math/rand"
)

// Константы генерации
const (
	MapWidth    = 32
	MapHeight   = 24
	MaxRooms    = 8
	MinRoomSize = 4
	MaxRoomSize = 9
)

// Идентификаторы демонстрационного лабиринта (см. configs/catalog.yaml)
const (
	DemoWallStone   = 1
	DemoWallLever   = 4
	DemoObjectTorch = 2
)

// CharacterTemplates - заготовки персонажей для генератора
var CharacterTemplates = map[string]CharacterRef{
	"ghoul": {
		Kind: "MONSTER", Name: "Ghoul", Policy: "RANDOM_WANDER",
		Radius: 0.3, MonsterGroup: 1, CombatBackground: 2, GraphicIndex: 10,
	},
	"skeleton": {
		Kind: "MONSTER", Name: "Skeleton", Policy: "RANDOM_WANDER",
		Radius: 0.25, MonsterGroup: 2, CombatBackground: 2, GraphicIndex: 11,
		Parts: []PartDesc{{GraphicIndex: 11}, {GraphicIndex: 12, DepthOffset: 0.01}},
	},
	"hermit": {
		Kind: "NPC", Name: "Hermit", Policy: "RANDOM_WANDER",
		Radius: 0.25, CharacterIndex: 0, GraphicIndex: 20,
	},
	"signpost": {
		Kind: "SCRIPTED_OBJECT", Name: "Signpost", Policy: "STATIONARY",
		Radius: 0.2, TextPopup: true, TextIndex: 0, GraphicIndex: 30,
	},
}

// Generate создает демонстрационную карту: комнаты, монстры, NPC и рычаг,
// открывающий проход в последнюю комнату.
func Generate(id int, rng *rand.Rand) *MapDescription {
	b := NewMap(id, MapWidth, MapHeight).
		WithRNG(rng).
		WithRooms(MaxRooms, DemoWallStone).
		Text("The walls here are older than the city.")

	rooms := b.Rooms()
	if len(rooms) == 0 {
		return b.Build()
	}

	// Факелы в углах комнат
	for _, r := range rooms {
		b.Object(r.X+1, r.Y+1, DemoObjectTorch)
	}

	// Табличка и отшельник в первой комнате
	cx, cy := rooms[0].Center()
	b.Character(cx+1, cy, CharacterTemplates["signpost"])
	b.Character(cx-1, cy, CharacterTemplates["hermit"])

	// Монстры в остальных комнатах
	for i, r := range rooms[1:] {
		x, y := r.Center()
		name := "ghoul"
		if i%2 == 1 {
			name = "skeleton"
		}
		b.Character(x, y, CharacterTemplates[name])
	}

	// Рычаг в первой комнате убирает стену в углу последней
	if len(rooms) > 1 {
		last := rooms[len(rooms)-1]
		lx, ly := last.X+last.W-1, last.Y+last.H-1
		b.Wall(lx, ly, DemoWallLever)
		b.Event(cx, cy+1, ChainDesc{ID: 1, Events: []EventDesc{
			{Kind: "CONDITION", Condition: &ConditionDesc{Kind: "TRIGGER", Trigger: "HAND"}},
			{Kind: "CHANGE_TILE", ChangeTile: &domain.TileChange{X: lx, Y: ly}},
		}})
	}

	return b.Build()
}
