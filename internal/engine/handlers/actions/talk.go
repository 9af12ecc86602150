package actions

import (
	"labyrinth-server/internal/engine/handlers"
	"labyrinth-server/pkg/api"
)

// HandleEndConversation закрывает диалог, собеседник снова ходит по своей политике
func HandleEndConversation(ctx handlers.Context, p api.EntityPayload) (handlers.Result, error) {
	if err := ctx.Sim.EndConversation(p.EntityIndex); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}
