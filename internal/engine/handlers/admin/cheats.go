package admin

import (
	"fmt"
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/engine/handlers"
	"labyrinth-server/pkg/api"
)

// Админские команды регистрируются через handlers.RequireAdmin.

// HandleTileChange - замена блока вручную. Ошибки данных не роняют сервер.
func HandleTileChange(ctx handlers.Context, p api.TileChangePayload) (handlers.Result, error) {
	if err := ctx.Sim.ApplyTileChange(p.X, p.Y, p.WallID, p.ObjectID); err != nil {
		return handlers.Result{}, fmt.Errorf("%w: %w", domain.ErrRejected, err)
	}
	return handlers.Result{Msg: fmt.Sprintf("Tile (%d,%d) changed", p.X, p.Y), MsgType: "INFO"}, nil
}

// HandleChangeMap - переход на другую карту после текущей команды
func HandleChangeMap(ctx handlers.Context, p api.MapPayload) (handlers.Result, error) {
	ctx.Switcher.RequestMapChange(p.Path)
	return handlers.Result{Msg: "Map change requested: " + p.Path, MsgType: "INFO"}, nil
}
