package domain

// PrimitiveKind - тег примитива коллизии
type PrimitiveKind uint8

const (
	PrimitiveSphere PrimitiveKind = iota
	PrimitiveSegment
)

// PrimitiveSource - кто владеет примитивом
type PrimitiveSource uint8

const (
	SourceWall PrimitiveSource = iota
	SourceObject
	SourceEntity
)

// CollisionPrimitive - сфера или отрезок. Используется только для проверки движения.
type CollisionPrimitive struct {
	Kind PrimitiveKind `json:"kind"`

	// Sphere
	Center Vec2    `json:"center"`
	Radius float64 `json:"radius,omitempty"`

	// Segment
	A          Vec2 `json:"a"`
	B          Vec2 `json:"b"`
	Horizontal bool `json:"horizontal,omitempty"`

	// PlayerCanPass - игрок проходит сквозь примитив (двери), сущности - нет
	PlayerCanPass bool `json:"playerCanPass,omitempty"`

	Source      PrimitiveSource `json:"source"`
	BlockIndex  int             `json:"blockIndex"`
	WallID      int             `json:"wallId,omitempty"`
	ObjectID    int             `json:"objectId,omitempty"`
	EntityIndex int             `json:"entityIndex,omitempty"`
}

// Direction - сторона блока
type Direction uint8

const (
	DirNorth Direction = iota
	DirEast
	DirSouth
	DirWest
)

// WallFace - видимая грань стены, строится только в сторону свободного соседа
type WallFace struct {
	BlockIndex int       `json:"blockIndex"`
	WallID     int       `json:"wallId"`
	Dir        Direction `json:"dir"`
	A          Vec2      `json:"a"`
	B          Vec2      `json:"b"`
}
