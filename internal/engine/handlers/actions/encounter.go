package actions

import (
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/engine/handlers"
	"labyrinth-server/pkg/api"
)

func handleOf(v api.HandleView) domain.EncounterHandle {
	return domain.EncounterHandle{MapID: v.MapID, EntityIndex: v.EntityIndex, Seq: v.Seq}
}

// HandleDecision - ответ игрока на DECISION_REQUEST
func HandleDecision(ctx handlers.Context, p api.DecisionPayload) (handlers.Result, error) {
	d, _ := domain.ParseDecision(p.Decision) // строка уже проверена валидатором
	if err := ctx.Sim.CompleteDecision(handleOf(p.Handle), d); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}

// HandleCombatResult - итог боя от внешней боевой системы
func HandleCombatResult(ctx handlers.Context, p api.CombatResultPayload) (handlers.Result, error) {
	r, _ := domain.ParseCombatResult(p.Result)
	if err := ctx.Sim.CompleteCombat(handleOf(p.Handle), r); err != nil {
		return handlers.Result{}, err
	}
	if r == domain.CombatMonsterDefeated {
		return handlers.Result{Msg: "Монстр повержен.", MsgType: "INFO"}, nil
	}
	return handlers.EmptyResult(), nil
}
