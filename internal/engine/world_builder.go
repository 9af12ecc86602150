package engine

import (
	"fmt"
	"labyrinth-server/internal/domain"
	"labyrinth-server/internal/systems"
	"labyrinth-server/pkg/dungeon"
	"labyrinth-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// NewInstance собирает карту из описания и каталога.
// col.Events можно не задавать - тогда цепочки исполняет ChainRunner.
func NewInstance(desc *dungeon.MapDescription, cat *dungeon.Catalog, col systems.Collaborators, cfg Config) (*Instance, error) {
	// 1. Сетка и лабиринт (копия на карту: набор изменяемых стен свой)
	lab, err := cat.Labyrinth(desc.LabyrinthID)
	if err != nil {
		return nil, fmt.Errorf("map %d: %w", desc.ID, err)
	}
	grid, err := domain.NewBlockGrid(desc.ID, desc.Width, desc.Height, desc.BlockSize, lab)
	if err != nil {
		return nil, fmt.Errorf("map %d: %w", desc.ID, err)
	}

	for _, bd := range desc.Blocks {
		b, err := grid.BlockAt(bd.X, bd.Y)
		if err != nil {
			return nil, fmt.Errorf("map %d: %w", desc.ID, err)
		}
		if bd.Wall != 0 && bd.Object != 0 {
			return nil, fmt.Errorf("map %d block (%d,%d): %w", desc.ID, bd.X, bd.Y, domain.ErrInvalidOccupant)
		}
		b.WallID, b.ObjectID, b.EventID = bd.Wall, bd.Object, bd.Event
	}

	// 2. Цепочки событий. Стены из смен тайлов - изменяемые.
	chains := make(map[int]*domain.EventChain, len(desc.Events))
	for _, cd := range desc.Events {
		chain, err := cd.ToChain()
		if err != nil {
			return nil, fmt.Errorf("map %d: %w", desc.ID, err)
		}
		chains[chain.ID] = chain
		for _, id := range chain.ReferencedWalls() {
			lab.RegisterChangeableWall(id)
		}
	}

	// 3. Игрок
	start := domain.Position{X: desc.Start.X - 1, Y: desc.Start.Y - 1}
	if !grid.InBounds(start.X, start.Y) {
		return nil, fmt.Errorf("map %d start (%d,%d): %w", desc.ID, desc.Start.X, desc.Start.Y, domain.ErrOutOfBounds)
	}
	ctx := &domain.SimContext{
		Player: domain.PlayerState{
			Pos:       grid.CenterOf(start),
			Radius:    cfg.Simulation.PlayerRadius * grid.BlockSize,
			Dexterity: cfg.Simulation.Dexterity,
			Luck:      cfg.Simulation.Luck,
		},
	}

	inst := &Instance{
		MapID:      desc.ID,
		Name:       desc.Name,
		Grid:       grid,
		Ctx:        ctx,
		Collision:  systems.NewCollisionIndex(grid),
		Visibility: systems.NewVisibilityIndex(grid),
		Animations: NewAnimationQueue(),
	}
	inst.Mutator = systems.NewGridMutator(grid, inst.Collision, inst.Visibility)

	roster := cat.Roster
	if roster == nil {
		roster = domain.NewRoster()
	}
	inst.Runner = NewChainRunner(grid, inst.Mutator, col.Popups, col.Conversations, roster, desc.Texts)
	if col.Events == nil {
		col.Events = inst.Runner
	}
	inst.Dispatcher = systems.NewDispatcher(grid, roster, desc.Texts, chains, col, cfg.Encounter.Cooldown)
	inst.Motion = systems.NewMotionSystem(grid, inst.Collision, inst.Visibility, inst.Mutator,
		inst.Dispatcher, col.Random, cfg.Motion)

	// 4. Геометрия
	if err := inst.Mutator.Build(); err != nil {
		return nil, fmt.Errorf("map %d: %w", desc.ID, err)
	}
	for idx := range grid.Blocks {
		inst.Animations.Track(idx, grid.ObjectOf(&grid.Blocks[idx]), 0)
	}
	inst.Mutator.Subscribe(inst.onTileChange)

	// 5. Сущности. Побежденные монстры остаются выключенными.
	defeated := 0
	for idx, ref := range desc.Characters {
		e, err := ref.SpawnEntity(idx, grid)
		if err != nil {
			return nil, fmt.Errorf("map %d: %w", desc.ID, err)
		}
		if e.IsMonster() && col.SaveState != nil {
			gone, err := col.SaveState.IsDefeated(desc.ID, idx)
			if err != nil {
				return nil, fmt.Errorf("map %d: restore entity %d: %w", desc.ID, idx, err)
			}
			if gone {
				e.Deactivate()
				defeated++
			}
		}
		inst.Entities = append(inst.Entities, e)
	}
	inst.Collision.SyncEntityBodies(inst.Entities)

	logger.Log.WithFields(logrus.Fields{
		"component": "world_builder",
		"map_id":    desc.ID,
		"name":      desc.Name,
		"size":      fmt.Sprintf("%dx%d", desc.Width, desc.Height),
		"entities":  len(inst.Entities),
		"defeated":  defeated,
		"chains":    len(chains),
		"faces":     inst.Mutator.FaceCount(),
	}).Info("Map instance built.")

	return inst, nil
}
