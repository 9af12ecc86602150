package domain

import "errors"

// Ошибки программиста: неконсистентные внешние данные, не восстанавливаются.
var (
	ErrOutOfBounds      = errors.New("out of bounds")
	ErrNoEntity         = errors.New("entity not found")
	ErrBadDimensions    = errors.New("bad map dimensions")
	ErrInvalidOccupant  = errors.New("block cannot hold both wall and object")
	ErrUnknownWall      = errors.New("unknown wall id")
	ErrUnknownObject    = errors.New("unknown object id")
	ErrStaleHandle      = errors.New("stale encounter handle")
	ErrNoPendingOutcome = errors.New("entity has no pending encounter")
)

// ErrDataInconsistency - взаимодействие ссылается на несуществующие данные карты
// (NPC, член группы, текст). Считается фатальной.
var ErrDataInconsistency = errors.New("data inconsistency")

// ErrRejected - команда игрока отклонена (нет прямой видимости, далеко, идет встреча).
// Не фатальна, клиент получает сообщение.
var ErrRejected = errors.New("action rejected")
