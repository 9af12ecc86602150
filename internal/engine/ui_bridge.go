package engine

import (
	"labyrinth-server/internal/domain"
	"labyrinth-server/pkg/api"
)

// uiBridge превращает вызовы внешних участников в сообщения для клиентов
type uiBridge struct {
	s *Service
}

func (b *uiBridge) ShowText(mapID int, text string) {
	b.popup(mapID, text, false)
}

func (b *uiBridge) ShowTransient(mapID int, text string) {
	b.popup(mapID, text, true)
}

func (b *uiBridge) popup(mapID int, text string, transient bool) {
	msg := b.s.message(api.MsgPopup)
	msg.MapID = mapID
	msg.Popup = &api.PopupView{Text: text, Transient: transient}
	b.s.hub.Publish(msg)
}

func (b *uiBridge) StartConversation(e *domain.Entity, c *domain.Character) {
	view := &api.ConversationView{EntityIndex: -1, Name: c.Name, Lines: c.Dialogue}
	if e != nil {
		view.EntityIndex = e.Index
	}
	msg := b.s.message(api.MsgConversation)
	msg.Conversation = view
	b.s.hub.Publish(msg)
}

func (b *uiBridge) RequestDecision(h domain.EncounterHandle, monster *domain.Entity, distance float64) {
	msg := b.s.message(api.MsgDecisionRequest)
	msg.Encounter = &api.EncounterView{
		Handle:       handleView(h),
		MonsterName:  monster.Name,
		MonsterGroup: monster.MonsterGroup,
		Distance:     distance,
	}
	b.s.hub.Publish(msg)
}

func (b *uiBridge) StartCombat(h domain.EncounterHandle, monsterGroup, background int) {
	msg := b.s.message(api.MsgCombatStart)
	msg.Encounter = &api.EncounterView{
		Handle:       handleView(h),
		MonsterGroup: monsterGroup,
		Background:   background,
	}
	b.s.hub.Publish(msg)
}

func handleView(h domain.EncounterHandle) api.HandleView {
	return api.HandleView{MapID: h.MapID, EntityIndex: h.EntityIndex, Seq: h.Seq}
}
