package actions

import "labyrinth-server/internal/engine/handlers"

// HandleInit - клиент подключился и просит полное состояние
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		Msg:     "Добро пожаловать в лабиринт.",
		MsgType: "INFO",
		Resync:  true,
	}, nil
}
