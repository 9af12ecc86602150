package enums

// AutomapType - что показывать на автокарте для клетки
type AutomapType uint8

const (
	AutomapEmpty AutomapType = iota
	AutomapWall
	AutomapDoor
	AutomapObject
	AutomapEvent
	AutomapMonster
	AutomapPerson
	AutomapInvalid
)

func (a AutomapType) String() string {
	switch a {
	case AutomapEmpty:
		return "EMPTY"
	case AutomapWall:
		return "WALL"
	case AutomapDoor:
		return "DOOR"
	case AutomapObject:
		return "OBJECT"
	case AutomapEvent:
		return "EVENT"
	case AutomapMonster:
		return "MONSTER"
	case AutomapPerson:
		return "PERSON"
	}
	return "INVALID"
}
