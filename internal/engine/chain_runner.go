package engine

import (
	"encoding/json"
	"fmt"
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/systems"
	"labyrinth-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Generic события, которые понимает раннер по умолчанию
const (
	GenericChangeMap         = "CHANGE_MAP"
	GenericStartConversation = "START_CONVERSATION"
)

// MapRequester принимает запрос на смену карты. Сама смена происходит после тика.
type MapRequester interface {
	RequestMapChange(path string)
}

// ChainRunner исполняет отфильтрованные цепочки событий блоков и скриптовых объектов.
type ChainRunner struct {
	grid          *domain.BlockGrid
	mutator       *systems.GridMutator
	popups        systems.Popups
	conversations systems.Conversations
	roster        *domain.Roster
	texts         []string

	// maps может быть nil - тогда CHANGE_MAP игнорируется
	maps MapRequester
}

func NewChainRunner(grid *domain.BlockGrid, mutator *systems.GridMutator, popups systems.Popups,
	conversations systems.Conversations, roster *domain.Roster, texts []string) *ChainRunner {
	return &ChainRunner{
		grid:          grid,
		mutator:       mutator,
		popups:        popups,
		conversations: conversations,
		roster:        roster,
		texts:         texts,
	}
}

// SetMapRequester подключает обработчик смены карты
func (r *ChainRunner) SetMapRequester(m MapRequester) {
	r.maps = m
}

// RunChain выполняет шаги по порядку. Условие, которое раннер не умеет проверить, обрывает цепочку.
func (r *ChainRunner) RunChain(ctx *domain.SimContext, events []domain.Event, at domain.Position) (domain.Outcome, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"component": "chain_runner",
		"map":       r.grid.MapID,
		"at":        at,
	})

	executed := 0
	for i, ev := range events {
		switch ev.Kind {
		case domain.EventNext:
			continue

		case domain.EventCondition:
			log.WithField("step", i).Warn("Unsupported condition, chain stopped.")
			return r.outcome(executed), nil

		case domain.EventChangeTile:
			tc := ev.ChangeTile
			if tc == nil {
				return domain.NotApplicable(), fmt.Errorf("%w: step %d has no tile change", domain.ErrDataInconsistency, i)
			}
			if err := r.mutator.ApplyTileChange(tc.X, tc.Y, tc.WallID, tc.ObjectID); err != nil {
				return domain.NotApplicable(), fmt.Errorf("chain step %d: %w", i, err)
			}

		case domain.EventShowText:
			if ev.TextIndex < 0 || ev.TextIndex >= len(r.texts) {
				return domain.NotApplicable(), fmt.Errorf("%w: text %d does not exist", domain.ErrDataInconsistency, ev.TextIndex)
			}
			r.popups.ShowText(r.grid.MapID, r.texts[ev.TextIndex])

		case domain.EventGeneric:
			if err := r.processGeneric(ev.Payload); err != nil {
				return domain.NotApplicable(), fmt.Errorf("chain step %d: %w", i, err)
			}

		default:
			log.WithFields(logrus.Fields{"step": i, "kind": ev.Kind}).Warn("Unknown event kind skipped.")
			continue
		}
		executed++
	}

	if executed > 0 {
		log.WithField("steps", executed).Debug("Event chain executed.")
	}
	return r.outcome(executed), nil
}

func (r *ChainRunner) outcome(executed int) domain.Outcome {
	if executed == 0 {
		return domain.NotApplicable()
	}
	return domain.Consumed("event_chain")
}

// processGeneric разбирает payload вида {"event": "..."}
func (r *ChainRunner) processGeneric(payload json.RawMessage) error {
	var generic struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(payload, &generic); err != nil {
		return fmt.Errorf("%w: bad generic event: %v", domain.ErrDataInconsistency, err)
	}

	switch generic.Event {
	case GenericChangeMap:
		var ev struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(payload, &ev); err != nil || ev.Path == "" {
			return fmt.Errorf("%w: CHANGE_MAP without path", domain.ErrDataInconsistency)
		}
		if r.maps != nil {
			r.maps.RequestMapChange(ev.Path)
		}

	case GenericStartConversation:
		var ev struct {
			Kind           string `json:"kind"`
			CharacterIndex int    `json:"characterIndex"`
		}
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("%w: bad START_CONVERSATION: %v", domain.ErrDataInconsistency, err)
		}
		kind := enums.ParseEntityKind(ev.Kind)
		if kind == enums.EntityKindNone {
			kind = enums.EntityKindNPC
		}
		c, err := r.roster.Lookup(kind, ev.CharacterIndex)
		if err != nil {
			return err
		}
		// Разговор из события не привязан к сущности карты
		r.conversations.StartConversation(nil, c)

	default:
		logger.Log.WithFields(logrus.Fields{
			"component": "chain_runner",
			"event":     generic.Event,
		}).Warn("Unknown generic event.")
	}
	return nil
}
