package domain

// WallDescriptor - статическое описание стены лабиринта.
// Общий для всех блоков с этим WallID, блоки хранят только ссылку по ID.
type WallDescriptor struct {
	ID               int  `yaml:"id" json:"id"`
	BlocksMovement   bool `yaml:"blocks_movement" json:"blocksMovement"`
	BlocksSight      bool `yaml:"blocks_sight" json:"blocksSight"`
	Transparent      bool `yaml:"transparent" json:"transparent"`
	PlayerCanPass    bool `yaml:"player_can_pass" json:"playerCanPass"` // двери: игрок проходит, сущности нет
	AnimationFrames  int  `yaml:"animation_frames" json:"animationFrames"`
	CombatBackground int  `yaml:"combat_background" json:"combatBackground"`
}

// ObjectDescriptor - статическое описание декоративного объекта
type ObjectDescriptor struct {
	ID int `yaml:"id" json:"id"`
	// Size - диаметр тела в долях блока (0..1)
	Size             float64 `yaml:"size" json:"size"`
	BlocksMovement   bool    `yaml:"blocks_movement" json:"blocksMovement"`
	BlocksSight      bool    `yaml:"blocks_sight" json:"blocksSight"`
	PlayerCanPass    bool    `yaml:"player_can_pass" json:"playerCanPass"`
	AnimationFrames  int     `yaml:"animation_frames" json:"animationFrames"`
	FrameTicks       int     `yaml:"frame_ticks" json:"frameTicks"`
	CombatBackground int     `yaml:"combat_background" json:"combatBackground"`
}

// Labyrinth - каталог стен и объектов одного типа лабиринта (tileset)
type Labyrinth struct {
	ID      int                       `yaml:"id" json:"id"`
	Walls   map[int]*WallDescriptor   `yaml:"-" json:"-"`
	Objects map[int]*ObjectDescriptor `yaml:"-" json:"-"`

	// changeableWalls - ID стен, на которые когда-либо ссылается событие смены тайла.
	// Грани к таким соседям строятся всегда: стена может исчезнуть в будущем.
	changeableWalls map[int]bool
}

// NewLabyrinth создает пустой каталог
func NewLabyrinth(id int) *Labyrinth {
	return &Labyrinth{
		ID:              id,
		Walls:           make(map[int]*WallDescriptor),
		Objects:         make(map[int]*ObjectDescriptor),
		changeableWalls: make(map[int]bool),
	}
}

// AddWall регистрирует стену в каталоге
func (l *Labyrinth) AddWall(w *WallDescriptor) {
	l.Walls[w.ID] = w
}

// AddObject регистрирует объект в каталоге
func (l *Labyrinth) AddObject(o *ObjectDescriptor) {
	l.Objects[o.ID] = o
}

// Wall возвращает описание стены или nil (id == 0 значит "нет стены")
func (l *Labyrinth) Wall(id int) *WallDescriptor {
	if id == 0 || l == nil {
		return nil
	}
	return l.Walls[id]
}

// Object возвращает описание объекта или nil
func (l *Labyrinth) Object(id int) *ObjectDescriptor {
	if id == 0 || l == nil {
		return nil
	}
	return l.Objects[id]
}

// RegisterChangeableWall помечает ID стены как участвующий в сменах тайлов
func (l *Labyrinth) RegisterChangeableWall(id int) {
	if id == 0 {
		return
	}
	if l.changeableWalls == nil {
		l.changeableWalls = make(map[int]bool)
	}
	l.changeableWalls[id] = true
}

// IsChangeableWall проверяет, может ли стена быть заменена событием
func (l *Labyrinth) IsChangeableWall(id int) bool {
	return l.changeableWalls[id]
}
