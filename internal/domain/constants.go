package domain

// Геометрия
const (
	DefaultBlockSize = 1.0

	// Шаг и порог остановки луча видимости, в долях блока
	SightStepFraction = 0.25

	// Максимальный подшаг движения, в долях блока
	MotionStepFraction = 0.25

	// Размер объекта без явного Size, в долях блока
	DefaultObjectSize = 0.5
)

// Движение сущностей
const (
	DefaultWanderRetryCap = 8
	DefaultEntityRadius   = 0.25
)

// Параметры встречи с монстром
const (
	// FleeDrawRange - бросок на побег берется из [0, FleeDrawRange)
	FleeDrawRange = 150
)

// Расписание: сутки делятся на слоты по 5 игровых минут
const (
	DefaultSlotsPerDay = 288
)
