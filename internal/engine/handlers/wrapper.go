package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"labyrinth-server/internal/domain"
	"labyrinth-server/pkg/api"
)

// ErrNotAdmin - команда требует админского токена
var ErrNotAdmin = fmt.Errorf("%w: admin token required", domain.ErrRejected)

// TypedHandlerFunc - хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер без данных (INIT)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload превращает типизированный хендлер в HandlerFunc.
// Ошибки разбора и валидации - отказ клиенту, не фатальная ошибка.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T

		// 1. Строгая распаковка: лишние поля - ошибка клиента
		if len(bytes.TrimSpace(raw)) == 0 {
			return Result{}, fmt.Errorf("%w: invalid payload format: payload is missing", domain.ErrRejected)
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&payload); err != nil {
			return Result{}, fmt.Errorf("%w: invalid payload format: %v", domain.ErrRejected, err)
		}

		// 2. Валидация, если T реализует api.Validator
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("%w: validation failed: %v", domain.ErrRejected, err)
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для команд без данных, входящий JSON игнорируется
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}

// RequireAdmin пропускает команду только с админским токеном
func RequireAdmin(next HandlerFunc) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		if !ctx.Admin {
			return Result{}, ErrNotAdmin
		}
		return next(ctx, raw)
	}
}

// IsRejected - ошибка означает отказ в команде, а не порчу состояния
func IsRejected(err error) bool {
	return errors.Is(err, domain.ErrRejected)
}
