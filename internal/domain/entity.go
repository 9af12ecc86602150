package domain

import "labyrinth-server/internal/core/types/enums"

// Entity - не-игровой персонаж карты (монстр, NPC, член группы, скриптовый объект).
// Индекс стабилен в пределах загрузки карты.
type Entity struct {
	// Идентификация
	Index int              `json:"index"`
	Kind  enums.EntityKind `json:"kind"`
	Name  string           `json:"name"`

	Pos    Vec2    `json:"pos"`
	Radius float64 `json:"radius"` // радиус тела в мировых единицах

	Policy enums.MovementPolicy `json:"policy"`

	// OnlyMoveWhenPlayerVisible - двигаться только пока видим игрока
	OnlyMoveWhenPlayerVisible bool `json:"onlyMoveWhenPlayerVisible,omitempty"`
	// TextPopup - по "рту" показывается статичный текст вместо разговора
	TextPopup bool `json:"textPopup,omitempty"`

	// Ссылки на внешние данные карты
	CharacterIndex   int `json:"characterIndex,omitempty"` // NPC / член группы
	TextIndex        int `json:"textIndex,omitempty"`
	EventID          int `json:"eventId,omitempty"`
	MonsterGroup     int `json:"monsterGroup,omitempty"`
	CombatBackground int `json:"combatBackground,omitempty"`
	GraphicIndex     int `json:"graphicIndex,omitempty"`

	// Parts - визуальные части составной фигуры. Разделяют одно состояние движения.
	Parts []RenderPart `json:"parts,omitempty"`

	// Компоненты (Если nil - значит свойство отсутствует)
	Motion    *MotionComponent    `json:"motion,omitempty"`
	Schedule  *ScheduleComponent  `json:"schedule,omitempty"`
	Encounter *EncounterComponent `json:"encounter,omitempty"`

	active bool
}

// NewEntity создает активную сущность
func NewEntity(index int, kind enums.EntityKind, pos Vec2) *Entity {
	return &Entity{
		Index:  index,
		Kind:   kind,
		Pos:    pos,
		Motion: &MotionComponent{LastSlot: -1},
		active: true,
	}
}

// IsActive - участвует ли сущность в движении, коллизиях и триггерах
func (e *Entity) IsActive() bool {
	return e.active
}

// Deactivate выключает сущность навсегда (до выгрузки карты). Обратного метода нет.
func (e *Entity) Deactivate() {
	e.active = false
	if e.Motion != nil {
		e.Motion.Stop()
	}
	if e.Encounter != nil {
		e.Encounter.Pending = nil
	}
}

// IsMonster - короткая проверка типа
func (e *Entity) IsMonster() bool {
	return e.Kind == enums.EntityKindMonster
}
