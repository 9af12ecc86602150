package server

import (
	"context"
	"encoding/json"
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/engine"
	"net/http"
	"strconv"
	"time"
)

// inspectTimeout - сколько ждем горутину симуляции
const inspectTimeout = 2 * time.Second

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.Service
}

func NewDebugHandler(s *engine.Service) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/map", h.handleMap)
	mux.HandleFunc("/debug/entities", h.handleEntities)
	mux.HandleFunc("/debug/block", h.handleBlock)
}

// inspect читает состояние в горутине сервиса. JSON собирается там же,
// потому что сущности принадлежат симуляции.
func (h *DebugHandler) inspect(w http.ResponseWriter, r *http.Request, fn func(inst *engine.Instance) any) {
	ctx, cancel := context.WithTimeout(r.Context(), inspectTimeout)
	defer cancel()

	var (
		body   []byte
		found  bool
		encErr error
	)
	err := h.Service.Inspect(ctx, func(inst *engine.Instance) {
		data := fn(inst)
		if data == nil {
			return
		}
		found = true
		body, encErr = json.Marshal(data)
	})
	switch {
	case err != nil:
		http.Error(w, "simulation is busy: "+err.Error(), http.StatusServiceUnavailable)
	case !found:
		http.Error(w, "not found", http.StatusNotFound)
	case encErr != nil:
		http.Error(w, encErr.Error(), http.StatusInternalServerError)
	default:
		writeJSON(w, body)
	}
}

// /debug/map - сводка по текущей карте
func (h *DebugHandler) handleMap(w http.ResponseWriter, r *http.Request) {
	type MapSummary struct {
		MapID         int    `json:"map_id"`
		Name          string `json:"name"`
		Path          string `json:"path"`
		Width         int    `json:"width"`
		Height        int    `json:"height"`
		Tick          uint64 `json:"tick"`
		EntityCount   int    `json:"entity_count"`
		FaceCount     int    `json:"face_count"`
		StaticBodies  int    `json:"static_bodies"`
		SightBlockers int    `json:"sight_blockers"`
		Animations    int    `json:"animations"`
		Interaction   bool   `json:"interaction"`
	}

	h.inspect(w, r, func(inst *engine.Instance) any {
		return MapSummary{
			MapID:         inst.MapID,
			Name:          inst.Name,
			Path:          inst.Path,
			Width:         inst.Grid.Width,
			Height:        inst.Grid.Height,
			Tick:          inst.Ctx.Tick,
			EntityCount:   len(inst.Entities),
			FaceCount:     inst.Mutator.FaceCount(),
			StaticBodies:  inst.Collision.StaticCount(),
			SightBlockers: inst.Visibility.Len(),
			Animations:    inst.Animations.Len(),
			Interaction:   inst.Ctx.InteractionInProgress,
		}
	})
}

// /debug/entities - полные структуры сущностей, включая состояние движения и встречи
func (h *DebugHandler) handleEntities(w http.ResponseWriter, r *http.Request) {
	type EntityDump struct {
		*domain.Entity
		Active bool `json:"active"`
	}

	h.inspect(w, r, func(inst *engine.Instance) any {
		dump := make([]EntityDump, 0, len(inst.Entities))
		for _, e := range inst.Entities {
			dump = append(dump, EntityDump{Entity: e, Active: e.IsActive()})
		}
		return dump
	})
}

// /debug/block?x=1&y=2 - блок, его грани и тела коллизии
func (h *DebugHandler) handleBlock(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		http.Error(w, "x and y are required", http.StatusBadRequest)
		return
	}

	type BlockDump struct {
		Block      domain.Block                `json:"block"`
		Automap    string                      `json:"automap"`
		Character  string                      `json:"character"`
		Faces      []domain.WallFace           `json:"faces"`
		Bodies     []domain.CollisionPrimitive `json:"bodies"`
		BlocksMove bool                        `json:"blocks_move"`
		BlocksView bool                        `json:"blocks_view"`
	}

	h.inspect(w, r, func(inst *engine.Instance) any {
		b, err := inst.Grid.BlockAt(x, y)
		if err != nil {
			return nil
		}
		idx := inst.Grid.Index(x, y)
		return BlockDump{
			Block:      *b,
			Automap:    inst.AutomapTypeFromBlock(x, y).String(),
			Character:  inst.CharacterTypeFromBlock(x, y).String(),
			Faces:      inst.Mutator.Faces(idx),
			Bodies:     inst.Collision.BlockBodies(idx),
			BlocksMove: inst.Mutator.BlocksMovement(idx),
			BlocksView: inst.Visibility.IsBlocking(idx),
		}
	})
}

func writeJSON(w http.ResponseWriter, body []byte) {
	// Разрешаем запросы с любого источника (локальный debug-клиент)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	_, _ = w.Write(body)
}
