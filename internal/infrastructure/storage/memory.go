package storage

// MemorySaveState - сохранение в памяти, живет до перезапуска сервера
type MemorySaveState struct {
	defeated map[[2]int]bool
}

func NewMemorySaveState() *MemorySaveState {
	return &MemorySaveState{defeated: make(map[[2]int]bool)}
}

func (m *MemorySaveState) IsDefeated(mapID, entityIndex int) (bool, error) {
	return m.defeated[[2]int{mapID, entityIndex}], nil
}

func (m *MemorySaveState) MarkDefeated(mapID, entityIndex int) error {
	m.defeated[[2]int{mapID, entityIndex}] = true
	return nil
}
