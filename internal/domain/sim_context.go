package domain

// PlayerState - то, что ядру нужно знать об игроке
type PlayerState struct {
	Pos    Vec2    `json:"pos"`
	Facing float64 `json:"facing"` // радианы
	Radius float64 `json:"radius"`

	// Атрибуты ведущего члена группы (для шанса побега)
	Dexterity int `json:"dexterity"`
	Luck      int `json:"luck"`
}

// SimContext - общее состояние симуляции, передается явно в каждый тик.
// Флаги сбрасываются их владельцами, а не границей тика.
type SimContext struct {
	Tick   uint64      `json:"tick"`
	Player PlayerState `json:"player"`

	// InteractionInProgress - уже идет встреча с монстром.
	// Сбрасывается только завершением встречи.
	InteractionInProgress bool `json:"interactionInProgress"`

	// PlayerSeen - какой-то монстр видел игрока в этом тике
	PlayerSeen bool `json:"playerSeen"`
}

// TryBeginInteraction ставит защелку. false - защелка уже стоит.
func (c *SimContext) TryBeginInteraction() bool {
	if c.InteractionInProgress {
		return false
	}
	c.InteractionInProgress = true
	return true
}

// EndInteraction снимает защелку
func (c *SimContext) EndInteraction() {
	c.InteractionInProgress = false
}
