package systems

import (
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"
	"testing"
)

func TestValidateInteraction(t *testing.T) {
	tw := newTestWorld(t, 10, 3)
	tw.set(t, 5, 1, wallStone, 0)
	ctx := &domain.SimContext{Player: domain.PlayerState{Pos: center(1, 1)}}

	adjacent := domain.NewEntity(0, enums.EntityKindNPC, center(2, 1))
	far := domain.NewEntity(1, enums.EntityKindNPC, center(4, 1))
	hidden := domain.NewEntity(2, enums.EntityKindNPC, center(7, 1))
	gone := domain.NewEntity(3, enums.EntityKindNPC, center(2, 1))
	gone.Deactivate()

	tests := []struct {
		name    string
		trigger enums.Trigger
		target  domain.Target
		valid   bool
	}{
		{"Talk to adjacent npc", enums.TriggerMouth, domain.EntityTarget(adjacent), true},
		{"Talk to far npc", enums.TriggerMouth, domain.EntityTarget(far), false},
		{"Look at far npc", enums.TriggerEye, domain.EntityTarget(far), true},
		{"Look through wall", enums.TriggerEye, domain.EntityTarget(hidden), false},
		{"Inactive target", enums.TriggerEye, domain.EntityTarget(gone), false},
		{"Move is not a player trigger", enums.TriggerMove, domain.EntityTarget(adjacent), false},
		{"Hand on adjacent block", enums.TriggerHand, domain.BlockTarget(tw.grid.Index(2, 1)), true},
		{"Eye on far block", enums.TriggerEye, domain.BlockTarget(tw.grid.Index(5, 1)), false},
		{"Bad block index", enums.TriggerHand, domain.BlockTarget(-5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateInteraction(ctx, tt.trigger, tt.target, tw.grid, tw.visibility)
			if res.Valid != tt.valid {
				t.Errorf("expected valid=%v, got %+v", tt.valid, res)
			}
			if !res.Valid && res.Message == "" {
				t.Errorf("invalid result needs a message")
			}
		})
	}
}
