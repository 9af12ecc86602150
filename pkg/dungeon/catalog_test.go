package dungeon

import (
	"testing"
)

const testCatalog = `
labyrinths:
  - id: 1
    walls:
      - {id: 1, blocks_movement: true, blocks_sight: true}
      - {id: 2, blocks_movement: true, blocks_sight: true, player_can_pass: true}
    objects:
      - {id: 2, size: 0.4, blocks_movement: true, animation_frames: 4, frame_ticks: 5}
npcs:
  - index: 0
    name: Hermit
    dialogue: ["Go away."]
party_members:
  - index: 3
    name: Netsrak
    dexterity: 12
    luck: 7
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(testCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}

	lab, err := c.Labyrinth(1)
	if err != nil {
		t.Fatalf("Labyrinth: %v", err)
	}
	if door := lab.Wall(2); door == nil || !door.PlayerCanPass {
		t.Errorf("door descriptor not parsed: %+v", door)
	}
	if torch := lab.Object(2); torch == nil || torch.AnimationFrames != 4 || torch.Size != 0.4 {
		t.Errorf("object descriptor not parsed: %+v", torch)
	}

	// Копии для разных карт не делят набор изменяемых стен
	lab.RegisterChangeableWall(1)
	other, _ := c.Labyrinth(1)
	if other.IsChangeableWall(1) {
		t.Errorf("changeable walls leaked between map loads")
	}

	if h := c.Roster.NPCs[0]; h == nil || h.Name != "Hermit" || len(h.Dialogue) != 1 {
		t.Errorf("npc not parsed: %+v", h)
	}
	if p := c.Roster.PartyMembers[3]; p == nil || p.Dexterity != 12 || p.Luck != 7 {
		t.Errorf("party member not parsed: %+v", p)
	}

	if _, err := c.Labyrinth(9); err == nil {
		t.Errorf("expected error for unknown labyrinth")
	}
}

func TestParseCatalog_DuplicateWall(t *testing.T) {
	_, err := ParseCatalog([]byte(`
labyrinths:
  - id: 1
    walls:
      - {id: 1}
      - {id: 1}
`))
	if err == nil {
		t.Errorf("expected duplicate wall error")
	}
}
