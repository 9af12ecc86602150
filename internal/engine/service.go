package engine

import (
	"context"
	"errors"
	"fmt"
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/engine/handlers"
	"labyrinth-server/internal/engine/handlers/actions"
	"labyrinth-server/internal/engine/handlers/admin"
	"labyrinth-server/internal/systems"
	"labyrinth-server/pkg/api"
	"labyrinth-server/pkg/dungeon"
	"labyrinth-server/pkg/logger"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Observer получает все сообщения для слоя рендера и UI
type Observer interface {
	Publish(msg api.ServerMessage)
	SendTo(sessionID string, msg api.ServerMessage)
}

// Command - команда клиента вместе с сессией, которая ее прислала
type Command struct {
	Session string
	api.ClientCommand
}

// Service владеет текущей картой. Все изменения идут через одну горутину Run.
type Service struct {
	cfg     Config
	catalog *dungeon.Catalog
	col     systems.Collaborators
	hub     Observer

	Instance *Instance

	CommandChan chan Command
	inspect     chan func(*Instance)

	handlers   map[string]handlers.HandlerFunc
	pendingMap string
	listeners  []func(*Instance)
}

// NewService создает сервис без карты. Popups, Conversations, EncounterUI и Combat,
// если не заданы, публикуются в hub.
func NewService(cfg Config, catalog *dungeon.Catalog, col systems.Collaborators, hub Observer) *Service {
	s := &Service{
		cfg:         cfg,
		catalog:     catalog,
		hub:         hub,
		CommandChan: make(chan Command, 100),
		inspect:     make(chan func(*Instance)),
		handlers:    make(map[string]handlers.HandlerFunc),
	}

	bridge := &uiBridge{s: s}
	if col.Popups == nil {
		col.Popups = bridge
	}
	if col.Conversations == nil {
		col.Conversations = bridge
	}
	if col.EncounterUI == nil {
		col.EncounterUI = bridge
	}
	if col.Combat == nil {
		col.Combat = bridge
	}
	s.col = col

	s.registerHandlers()
	return s
}

func (s *Service) registerHandlers() {
	s.handlers["INIT"] = handlers.WithEmptyPayload(actions.HandleInit)
	s.handlers["MOVE"] = handlers.WithPayload(actions.HandleMove)
	s.handlers["TRIGGER"] = handlers.WithPayload(actions.HandleTrigger)
	s.handlers["DECISION"] = handlers.WithPayload(actions.HandleDecision)
	s.handlers["COMBAT_RESULT"] = handlers.WithPayload(actions.HandleCombatResult)
	s.handlers["END_CONVERSATION"] = handlers.WithPayload(actions.HandleEndConversation)

	// Admin
	s.handlers["TILE_CHANGE"] = handlers.RequireAdmin(handlers.WithPayload(admin.HandleTileChange))
	s.handlers["CHANGE_MAP"] = handlers.RequireAdmin(handlers.WithPayload(admin.HandleChangeMap))
}

// OnMapChanged подписывает слушателя на смену карты (вызывается в горутине сервиса)
func (s *Service) OnMapChanged(fn func(*Instance)) {
	s.listeners = append(s.listeners, fn)
}

// Load делает описание текущей картой и сообщает о смене всем наблюдателям
func (s *Service) Load(desc *dungeon.MapDescription, path string) error {
	inst, err := NewInstance(desc, s.catalog, s.col, s.cfg)
	if err != nil {
		return err
	}
	inst.Path = path
	inst.Runner.SetMapRequester(s)
	inst.Mutator.Subscribe(func(block, _ domain.Block) {
		msg := s.message(api.MsgTileChanged)
		msg.Tiles = inst.TileChangeViews(block.X, block.Y)
		msg.Tile = &msg.Tiles[0]
		s.hub.Publish(msg)
	})

	s.Instance = inst

	msg := s.message(api.MsgMapChanged)
	msg.Map = inst.MapView()
	s.hub.Publish(msg)
	for _, fn := range s.listeners {
		fn(inst)
	}
	return nil
}

// ChangeMap загружает карту из файла и делает ее текущей
func (s *Service) ChangeMap(path string) error {
	desc, err := dungeon.LoadMap(path)
	if err != nil {
		return err
	}
	return s.Load(desc, path)
}

// RequestMapChange откладывает смену карты до конца текущей команды или тика
func (s *Service) RequestMapChange(path string) {
	s.pendingMap = path
}

// Submit принимает команду от внешнего мира (WebSocket)
func (s *Service) Submit(session string, cmd api.ClientCommand) {
	s.CommandChan <- Command{Session: session, ClientCommand: cmd}
}

// Inspect выполняет fn в горутине сервиса (чтение состояния для отладки)
func (s *Service) Inspect(ctx context.Context, fn func(*Instance)) error {
	done := make(chan struct{})
	wrapped := func(inst *Instance) {
		defer close(done)
		fn(inst)
	}
	select {
	case s.inspect <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- GAME LOOP ---

// Run крутит симуляцию до отмены ctx. Ошибка означает порчу данных или ошибку программиста.
func (s *Service) Run(ctx context.Context) error {
	if s.Instance == nil {
		return errors.New("service has no map loaded")
	}

	interval := s.cfg.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.WithFields(logrus.Fields{
		"component": "service",
		"map_id":    s.Instance.MapID,
		"interval":  interval,
	}).Info("Simulation loop started.")

	for {
		select {
		case <-ctx.Done():
			logger.Log.WithField("component", "service").Info("Simulation loop stopped.")
			return nil

		case cmd := <-s.CommandChan:
			if err := s.executeCommand(cmd); err != nil {
				return err
			}

		case fn := <-s.inspect:
			fn(s.Instance)

		case <-ticker.C:
			if err := s.Step(1); err != nil {
				return err
			}
		}

		s.applyPendingMap()
	}
}

// Step продвигает текущую карту и рассылает кадр
func (s *Service) Step(ticks uint64) error {
	if err := s.Instance.Update(ticks); err != nil {
		return fmt.Errorf("map %d tick %d: %w", s.Instance.MapID, s.Instance.Ctx.Tick, err)
	}
	s.publishFrame("")
	return nil
}

func (s *Service) applyPendingMap() {
	if s.pendingMap == "" {
		return
	}
	path := s.pendingMap
	s.pendingMap = ""

	if err := s.ChangeMap(path); err != nil {
		// Текущая карта остается, сервер продолжает работу
		logger.Log.WithFields(logrus.Fields{
			"component": "service",
			"path":      path,
		}).WithError(err).Error("Map change failed.")
		msg := s.message(api.MsgError)
		msg.Error = fmt.Sprintf("map change failed: %v", err)
		s.hub.Publish(msg)
	}
}

// executeCommand выполняет хендлер и отвечает клиенту
func (s *Service) executeCommand(cmd Command) error {
	action := strings.ToUpper(cmd.Action)
	handler, ok := s.handlers[action]
	if !ok {
		s.reject(cmd.Session, "unknown action: "+cmd.Action)
		return nil
	}

	ctx := handlers.Context{
		Sim:      s.Instance,
		Switcher: s,
		Admin:    s.cfg.Server.AdminToken != "" && cmd.Token == s.cfg.Server.AdminToken,
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		if isFatal(err) {
			return fmt.Errorf("command %s: %w", action, err)
		}
		s.reject(cmd.Session, err.Error())
		return nil
	}

	log := logger.Log.WithFields(logrus.Fields{
		"component": "service",
		"action":    action,
		"session":   cmd.Session,
	})
	if result.Outcome.Effect != "" {
		log = log.WithField("effect", result.Outcome.Effect)
	}
	log.Debug("Command executed.")

	switch {
	case result.Msg == "":
	case result.MsgType == api.MsgError:
		s.reject(cmd.Session, result.Msg)
	default:
		msg := s.message(api.MsgPopup)
		msg.Popup = &api.PopupView{Text: result.Msg, Transient: true}
		s.hub.SendTo(cmd.Session, msg)
	}
	if result.Resync {
		msg := s.message(api.MsgMapChanged)
		msg.Map = s.Instance.MapView()
		s.hub.SendTo(cmd.Session, msg)
		s.publishFrame(cmd.Session)
	}
	return nil
}

// isFatal - ошибки данных карты и ошибки программиста. Отклоненные команды не фатальны.
func isFatal(err error) bool {
	if handlers.IsRejected(err) {
		return false
	}
	for _, target := range []error{
		domain.ErrDataInconsistency,
		domain.ErrOutOfBounds,
		domain.ErrBadDimensions,
		domain.ErrInvalidOccupant,
		domain.ErrUnknownWall,
		domain.ErrUnknownObject,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Service) reject(session, text string) {
	msg := s.message(api.MsgError)
	msg.Error = text
	s.hub.SendTo(session, msg)
}

// publishFrame рассылает кадр всем (session == "") или одной сессии
func (s *Service) publishFrame(session string) {
	msg := s.message(api.MsgFrame)
	msg.Frame = s.Instance.BuildFrame()
	if session == "" {
		s.hub.Publish(msg)
		return
	}
	s.hub.SendTo(session, msg)
}

func (s *Service) message(kind string) api.ServerMessage {
	msg := api.ServerMessage{Type: kind}
	if s.Instance != nil {
		msg.Tick = s.Instance.Ctx.Tick
		msg.MapID = s.Instance.MapID
	}
	return msg
}
