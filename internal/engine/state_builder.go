package engine

import (
	"labyrinth-server/internal/domain"
	"labyrinth-server/pkg/api"
)

// BuildFrame создает снимок текущего тика для слоя рендера.
// Выключенные сущности в кадр не попадают.
func (i *Instance) BuildFrame() *api.FrameView {
	p := i.Ctx.Player
	frame := &api.FrameView{
		Player:      api.PlayerView{X: p.Pos.X, Y: p.Pos.Y, Facing: p.Facing},
		Entities:    make([]api.EntityView, 0, len(i.Entities)),
		PlayerSeen:  i.Ctx.PlayerSeen,
		Interaction: i.Ctx.InteractionInProgress,
		Animations:  i.Animations.Frames(),
	}

	for _, e := range i.Entities {
		if !e.IsActive() {
			continue
		}
		frame.Entities = append(frame.Entities, i.toEntityView(e))
	}
	return frame
}

// toEntityView конвертирует доменную сущность в DTO
func (i *Instance) toEntityView(e *domain.Entity) api.EntityView {
	view := api.EntityView{
		Index:   e.Index,
		Kind:    e.Kind.String(),
		Name:    e.Name,
		X:       e.Pos.X,
		Y:       e.Pos.Y,
		Graphic: e.GraphicIndex,
		Visible: i.Visibility.CanSee(i.Ctx.Player.Pos, e.Pos),
	}
	if e.Motion != nil {
		view.State = e.Motion.State.String()
	}

	// Каждая часть - отдельный спрайт в позиции владельца
	for _, part := range e.Parts {
		pos := e.Pos.Add(part.Offset)
		view.Parts = append(view.Parts, api.PartView{
			Graphic: part.GraphicIndex,
			X:       pos.X,
			Y:       pos.Y,
			Depth:   part.DepthOffset,
		})
	}
	return view
}

// MapView - полное описание карты: непустые блоки и видимые грани
func (i *Instance) MapView() *api.MapView {
	g := i.Grid
	view := &api.MapView{
		ID:        g.MapID,
		Width:     g.Width,
		Height:    g.Height,
		BlockSize: g.BlockSize,
		Tiles:     make([]api.TileView, 0),
	}

	for idx := range g.Blocks {
		b := &g.Blocks[idx]
		if b.IsEmpty() && b.EventID == 0 {
			continue
		}
		view.Tiles = append(view.Tiles, i.TileView(b.X, b.Y))
		view.Faces = append(view.Faces, i.faceViews(idx)...)
	}
	return view
}

func (i *Instance) faceViews(idx int) []api.FaceView {
	faces := i.Mutator.Faces(idx)
	if len(faces) == 0 {
		return nil
	}
	views := make([]api.FaceView, 0, len(faces))
	for _, f := range faces {
		views = append(views, api.FaceView{
			Wall: f.WallID,
			Dir:  uint8(f.Dir),
			AX:   f.A.X,
			AY:   f.A.Y,
			BX:   f.B.X,
			BY:   f.B.Y,
		})
	}
	return views
}

// TileChangeViews - измененный блок и его соседи по сетке вместе с гранями.
// Смена стены перестраивает грани соседей, поэтому клиенту нужны все пять.
func (i *Instance) TileChangeViews(x, y int) []api.TileView {
	center := domain.Position{X: x, Y: y}
	near := center.Neighbours()
	views := make([]api.TileView, 0, 1+len(near))
	for _, p := range append([]domain.Position{center}, near[:]...) {
		if !i.Grid.InBounds(p.X, p.Y) {
			continue
		}
		view := i.TileView(p.X, p.Y)
		view.Faces = i.faceViews(i.Grid.Index(p.X, p.Y))
		views = append(views, view)
	}
	return views
}

// TileView - DTO одного блока. Блок должен существовать.
func (i *Instance) TileView(x, y int) api.TileView {
	view := api.TileView{X: x, Y: y, Automap: i.AutomapTypeFromBlock(x, y).String()}
	if b, err := i.Grid.BlockAt(x, y); err == nil {
		view.Wall = b.WallID
		view.Object = b.ObjectID
		view.Event = b.EventID
	}
	return view
}
