package automap

import (
	"context"
	"encoding/json"
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/engine"
	"labyrinth-server/pkg/api"
	"labyrinth-server/pkg/logger"
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

// Session - сессия терминала в сервисе
const Session = "automap"

// stepSize - шаг игрока по стрелке, в мировых единицах
const stepSize = 0.25

// Viewer - терминальный клиент сервиса. Реализует engine.Observer:
// сообщения сервиса превращаются в строку статуса.
type Viewer struct {
	mu      sync.Mutex
	status  string
	handle  *api.HandleView
	talking int
	combat  bool
}

func NewViewer() *Viewer {
	return &Viewer{status: "arrows: move  e/m/h: eye/mouth/hand  q: quit", talking: -1}
}

func (v *Viewer) Publish(msg api.ServerMessage) { v.observe(msg) }

func (v *Viewer) SendTo(session string, msg api.ServerMessage) {
	if session == Session {
		v.observe(msg)
	}
}

func (v *Viewer) observe(msg api.ServerMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch msg.Type {
	case api.MsgPopup:
		v.status = msg.Popup.Text
	case api.MsgError:
		v.status = "! " + msg.Error
	case api.MsgConversation:
		v.talking = msg.Conversation.EntityIndex
		line := ""
		if len(msg.Conversation.Lines) > 0 {
			line = msg.Conversation.Lines[0]
		}
		v.status = msg.Conversation.Name + ": " + line + "  (x: end)"
	case api.MsgDecisionRequest:
		h := msg.Encounter.Handle
		v.handle, v.combat = &h, false
		v.status = msg.Encounter.MonsterName + " attacks!  f: fight  r: flee"
	case api.MsgCombatStart:
		h := msg.Encounter.Handle
		v.handle, v.combat = &h, true
		v.status = "Combat!  w: win  l: lose"
	case api.MsgMapChanged:
		v.handle = nil
		v.status = "Entered map"
	}
}

// Status - текущая строка статуса
func (v *Viewer) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Command переводит клавишу в команду сервиса. quit - пользователь вышел.
func (v *Viewer) Command(ev *tcell.EventKey) (cmd api.ClientCommand, ok, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return cmd, false, true
	case tcell.KeyUp:
		return command("MOVE", api.MovePayload{Dy: -stepSize}), true, false
	case tcell.KeyDown:
		return command("MOVE", api.MovePayload{Dy: stepSize}), true, false
	case tcell.KeyLeft:
		return command("MOVE", api.MovePayload{Dx: -stepSize}), true, false
	case tcell.KeyRight:
		return command("MOVE", api.MovePayload{Dx: stepSize}), true, false
	case tcell.KeyRune:
	default:
		return cmd, false, false
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	switch ev.Rune() {
	case 'q':
		return cmd, false, true
	case 'f', 'r':
		if v.handle == nil || v.combat {
			return cmd, false, false
		}
		decision := "FIGHT"
		if ev.Rune() == 'r' {
			decision = "FLEE"
		}
		return command("DECISION", api.DecisionPayload{Handle: *v.handle, Decision: decision}), true, false
	case 'w', 'l':
		if v.handle == nil || !v.combat {
			return cmd, false, false
		}
		result := "MONSTER_DEFEATED"
		if ev.Rune() == 'l' {
			result = "PARTY_FLED"
		}
		h := *v.handle
		v.handle = nil
		return command("COMBAT_RESULT", api.CombatResultPayload{Handle: h, Result: result}), true, false
	case 'x':
		if v.talking < 0 {
			return cmd, false, false
		}
		idx := v.talking
		v.talking = -1
		return command("END_CONVERSATION", api.EntityPayload{EntityIndex: idx}), true, false
	}
	return cmd, false, false
}

func command(action string, payload any) api.ClientCommand {
	raw, _ := json.Marshal(payload)
	return api.ClientCommand{Action: action, Payload: raw}
}

// Run рисует карту сервиса до выхода пользователя или отмены ctx.
// Триггеры e/m/h применяются к блоку, на который смотрит игрок.
func (v *Viewer) Run(ctx context.Context, screen tcell.Screen, svc *engine.Service, refresh time.Duration) {
	log := logger.Log.WithFields(logrus.Fields{"component": "automap"})

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-events:
			key, ok := ev.(*tcell.EventKey)
			if !ok {
				continue
			}
			if r := key.Rune(); key.Key() == tcell.KeyRune && (r == 'e' || r == 'm' || r == 'h') {
				v.trigger(ctx, svc, r)
				continue
			}
			cmd, ok, quit := v.Command(key)
			if quit {
				return
			}
			if ok {
				svc.Submit(Session, cmd)
			}

		case <-ticker.C:
			err := svc.Inspect(ctx, func(inst *engine.Instance) {
				Draw(screen, inst, inst.Grid.Width, inst.Grid.Height,
					inst.Grid.PositionOf(inst.Ctx.Player.Pos), v.Status())
			})
			if err != nil {
				log.WithError(err).Debug("Inspect skipped")
				continue
			}
			screen.Show()
		}
	}
}

// trigger применяет глаз, рот или руку к блоку перед игроком
func (v *Viewer) trigger(ctx context.Context, svc *engine.Service, r rune) {
	var x, y int
	err := svc.Inspect(ctx, func(inst *engine.Instance) {
		p := inst.Ctx.Player
		ahead := p.Pos.Add(facingStep(p.Facing).Scale(inst.Grid.BlockSize))
		pos := inst.Grid.PositionOf(ahead)
		x, y = pos.X, pos.Y
	})
	if err != nil {
		return
	}
	trigger := map[rune]string{'e': "EYE", 'm': "MOUTH", 'h': "HAND"}[r]
	svc.Submit(Session, command("TRIGGER", api.TriggerPayload{Trigger: trigger, X: &x, Y: &y}))
}

// facingStep - направление взгляда, округленное до соседнего блока
func facingStep(facing float64) domain.Vec2 {
	return domain.Vec2{X: math.Round(math.Cos(facing)), Y: math.Round(math.Sin(facing))}
}
