package enums

// MotionState - состояние автомата движения сущности
type MotionState uint8

const (
	MotionIdle MotionState = iota
	MotionMoving
	MotionPaused
)

func (s MotionState) String() string {
	switch s {
	case MotionIdle:
		return "IDLE"
	case MotionMoving:
		return "MOVING"
	case MotionPaused:
		return "PAUSED"
	}
	return "UNKNOWN"
}
