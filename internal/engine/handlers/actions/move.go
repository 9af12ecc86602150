package actions

import (
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/engine/handlers"
	"labyrinth-server/pkg/api"
)

func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	out, err := ctx.Sim.MovePlayer(domain.Vec2{X: p.Dx, Y: p.Dy})
	if err != nil {
		return handlers.Result{}, err
	}

	if out.Kind == domain.OutcomeNotApplicable {
		return handlers.Result{Msg: "Путь прегражден.", MsgType: "ERROR", Outcome: out}, nil
	}
	return handlers.Result{Outcome: out}, nil
}
