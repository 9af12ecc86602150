package domain

import (
	"labyrinth-server/internal/core/types/enums"
	"testing"
)

func cond(trigger enums.Trigger) Event {
	return Event{Kind: EventCondition, Condition: &Condition{Kind: CondTrigger, Trigger: trigger}}
}

func TestEventChain_FilterByTrigger(t *testing.T) {
	text := Event{Kind: EventShowText, TextIndex: 1}
	itemCond := Event{Kind: EventCondition, Condition: &Condition{Kind: CondItem, ItemID: 42}}

	tests := []struct {
		name    string
		chain   []Event
		trigger enums.Trigger
		item    int
		wantOK  bool
		wantLen int
	}{
		{"Eye satisfied", []Event{cond(enums.TriggerEye), text}, enums.TriggerEye, 0, true, 2},
		{"Hand on eye chain", []Event{cond(enums.TriggerEye), text}, enums.TriggerHand, 0, false, 0},
		{"Move on unconditioned chain", []Event{text}, enums.TriggerMove, 0, true, 1},
		{"Eye on unconditioned chain", []Event{text}, enums.TriggerEye, 0, false, 1},
		{"Matching item", []Event{itemCond, text}, enums.TriggerItem, 42, true, 2},
		{"Wrong item", []Event{itemCond, text}, enums.TriggerItem, 7, false, 0},
		{"Truncated after second condition", []Event{cond(enums.TriggerHand), text, cond(enums.TriggerEye), text}, enums.TriggerHand, 0, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := &EventChain{ID: 1, Events: tt.chain}
			got, ok := chain.FilterByTrigger(tt.trigger, tt.item)
			if ok != tt.wantOK {
				t.Errorf("applicable = %v, want %v", ok, tt.wantOK)
			}
			if len(got) != tt.wantLen {
				t.Errorf("filtered len = %d, want %d", len(got), tt.wantLen)
			}
			if ok && tt.wantLen > 0 && got[0].Kind == EventCondition && got[0].Condition.Kind != CondOther {
				t.Error("satisfied trigger condition must become NEXT")
			}
		})
	}
}

func TestEventChain_ReferencedWalls(t *testing.T) {
	chain := &EventChain{Events: []Event{
		{Kind: EventChangeTile, ChangeTile: &TileChange{X: 1, Y: 1, WallID: 5}},
		{Kind: EventChangeTile, ChangeTile: &TileChange{X: 1, Y: 2}},
		{Kind: EventShowText},
	}}
	ids := chain.ReferencedWalls()
	if len(ids) != 1 || ids[0] != 5 {
		t.Errorf("ReferencedWalls = %v, want [5]", ids)
	}
}
