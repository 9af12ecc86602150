package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений сервера
const (
	MsgFrame           = "FRAME"
	MsgMapChanged      = "MAP_CHANGED"
	MsgTileChanged     = "TILE_CHANGED"
	MsgPopup           = "POPUP"
	MsgConversation    = "CONVERSATION"
	MsgDecisionRequest = "DECISION_REQUEST"
	MsgCombatStart     = "COMBAT_START"
	MsgError           = "ERROR"
)

// ServerMessage это корневой объект, который сервер отправляет клиенту (слою рендера и UI).
// Заполнено только поле, соответствующее Type.
type ServerMessage struct {
	// Type тип сообщения (FRAME, MAP_CHANGED, ...).
	Type string `json:"type"`

	// Tick текущее время симуляции.
	Tick uint64 `json:"tick"`

	// MapID карта, к которой относится сообщение.
	MapID int `json:"mapId"`

	Frame        *FrameView        `json:"frame,omitempty"`
	Map          *MapView          `json:"map,omitempty"`
	Tile         *TileView         `json:"tile,omitempty"`
	Tiles        []TileView        `json:"tiles,omitempty"`
	Popup        *PopupView        `json:"popup,omitempty"`
	Conversation *ConversationView `json:"conversation,omitempty"`
	Encounter    *EncounterView    `json:"encounter,omitempty"`

	// Error текст ошибки для MsgError.
	Error string `json:"error,omitempty"`
}

// FrameView - снимок одного тика: позиции и видимость
type FrameView struct {
	Player   PlayerView   `json:"player"`
	Entities []EntityView `json:"entities"`

	// PlayerSeen - какой-то монстр видел игрока в этом тике
	PlayerSeen bool `json:"playerSeen"`
	// Interaction - идет встреча, ввод игрока заблокирован
	Interaction bool `json:"interaction"`
	// Animations - текущие кадры анимированных объектов по индексу блока
	Animations map[int]int `json:"animations,omitempty"`
}

// PlayerView - игрок
type PlayerView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Facing float64 `json:"facing"`
}

// EntityView это DTO для сущности карты.
type EntityView struct {
	Index   int     `json:"index"`
	Kind    string  `json:"kind"`
	Name    string  `json:"name"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	State   string  `json:"state"`
	Graphic int     `json:"graphic"`

	// Visible - игрок видит сущность (прямая видимость)
	Visible bool `json:"visible"`

	// Parts - части составной фигуры, по одной записи на спрайт
	Parts []PartView `json:"parts,omitempty"`
}

// PartView - спрайт составной фигуры
type PartView struct {
	Graphic int     `json:"graphic"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Depth   float64 `json:"depth"`
}

// MapView - полное описание загруженной карты для слоя рендера
type MapView struct {
	ID        int        `json:"id"`
	Width     int        `json:"w"`
	Height    int        `json:"h"`
	BlockSize float64    `json:"blockSize"`
	Tiles     []TileView `json:"tiles"`
	Faces     []FaceView `json:"faces,omitempty"`
}

// TileView это DTO для одного непустого блока.
type TileView struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Wall   int `json:"wall,omitempty"`
	Object int `json:"object,omitempty"`
	Event  int `json:"event,omitempty"`

	// Automap - что рисовать на автокарте (WALL, DOOR, OBJECT, ...)
	Automap string `json:"automap"`

	// Faces - текущие грани блока. Заполняется только в TILE_CHANGED.
	Faces []FaceView `json:"faces,omitempty"`
}

// FaceView - видимая грань стены
type FaceView struct {
	Wall int     `json:"wall"`
	Dir  uint8   `json:"dir"`
	AX   float64 `json:"ax"`
	AY   float64 `json:"ay"`
	BX   float64 `json:"bx"`
	BY   float64 `json:"by"`
}

// PopupView - текст для показа
type PopupView struct {
	Text      string `json:"text"`
	Transient bool   `json:"transient,omitempty"`
}

// ConversationView - открыт диалог
type ConversationView struct {
	EntityIndex int      `json:"entityIndex"`
	Name        string   `json:"name"`
	Lines       []string `json:"lines"`
}

// HandleView - ссылка на отложенную встречу. Клиент возвращает ее как есть.
type HandleView struct {
	MapID       int    `json:"mapId"`
	EntityIndex int    `json:"entityIndex"`
	Seq         uint64 `json:"seq"`
}

// EncounterView - запрос решения или старт боя
type EncounterView struct {
	Handle       HandleView `json:"handle"`
	MonsterName  string     `json:"monsterName,omitempty"`
	MonsterGroup int        `json:"monsterGroup,omitempty"`
	Background   int        `json:"background,omitempty"`
	Distance     float64    `json:"distance,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token идентификатор сессии. Админские команды требуют совпадения с токеном из конфига.
	Token string `json:"token,omitempty"`

	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// MovePayload - перемещение игрока на вектор (в мировых единицах).
type MovePayload struct {
	Dx float64 `json:"dx"`
	Dy float64 `json:"dy"`
}

// TriggerPayload - действие игрока на сущность (EntityIndex) или блок (X, Y).
type TriggerPayload struct {
	Trigger     string `json:"trigger"` // EYE, MOUTH, HAND, ITEM
	EntityIndex *int   `json:"entityIndex,omitempty"`
	X           *int   `json:"x,omitempty"`
	Y           *int   `json:"y,omitempty"`
	ItemID      int    `json:"itemId,omitempty"`
}

// DecisionPayload - ответ на DECISION_REQUEST
type DecisionPayload struct {
	Handle   HandleView `json:"handle"`
	Decision string     `json:"decision"` // FIGHT, FLEE
}

// CombatResultPayload - итог боя от внешней системы боя
type CombatResultPayload struct {
	Handle HandleView `json:"handle"`
	Result string     `json:"result"` // MONSTER_DEFEATED, PARTY_FLED, OTHER
}

// EntityPayload - команда, адресованная сущности (завершение разговора).
type EntityPayload struct {
	EntityIndex int `json:"entityIndex"`
}

// TileChangePayload - админская замена блока
type TileChangePayload struct {
	X        int `json:"x"`
	Y        int `json:"y"`
	WallID   int `json:"wallId"`
	ObjectID int `json:"objectId"`
}

// MapPayload - админская смена карты
type MapPayload struct {
	Path string `json:"path"`
}
