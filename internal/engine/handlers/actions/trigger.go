package actions

import (
	"fmt"
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/engine/handlers"
	"labyrinth-server/pkg/api"
)

func HandleTrigger(ctx handlers.Context, p api.TriggerPayload) (handlers.Result, error) {
	trigger := enums.ParseTrigger(p.Trigger)

	// 1. Поиск цели взаимодействия
	var target domain.Target
	if p.EntityIndex != nil {
		e, err := ctx.Sim.Entity(*p.EntityIndex)
		if err != nil {
			return handlers.Result{Msg: "Вы не видите, с чем взаимодействовать.", MsgType: "ERROR"}, nil
		}
		target = domain.EntityTarget(e)
	} else {
		t, err := ctx.Sim.BlockTarget(*p.X, *p.Y)
		if err != nil {
			return handlers.Result{Msg: "Здесь ничего нет.", MsgType: "ERROR"}, nil
		}
		target = t
	}

	// 2. Диспетчеризация (проверка дистанции и видимости внутри)
	out, err := ctx.Sim.Trigger(trigger, target, p.ItemID)
	if err != nil {
		return handlers.Result{}, err
	}

	if out.Kind == domain.OutcomeNotApplicable {
		what := "этим"
		if target.Entity != nil {
			what = target.Entity.Name
		}
		return handlers.Result{
			Msg:     fmt.Sprintf("Ничего не происходит при взаимодействии с %s.", what),
			MsgType: "INFO",
			Outcome: out,
		}, nil
	}
	return handlers.Result{Outcome: out}, nil
}
