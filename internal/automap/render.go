package automap

import (
	"labyrinth-server/internal/core/types/enums"
	"labyrinth-server/internal/domain"

	"github.com/gdamore/tcell/v2"
)

// Map - источник типов клеток автокарты
type Map interface {
	AutomapTypeFromBlock(x, y int) enums.AutomapType
}

var (
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleDoor    = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleObject  = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleEvent   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleMonster = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePerson  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

// Glyph - символ и стиль клетки
func Glyph(t enums.AutomapType) (rune, tcell.Style) {
	switch t {
	case enums.AutomapWall:
		return '#', styleWall
	case enums.AutomapDoor:
		return '+', styleDoor
	case enums.AutomapObject:
		return 'o', styleObject
	case enums.AutomapEvent:
		return '*', styleEvent
	case enums.AutomapMonster:
		return 'M', styleMonster
	case enums.AutomapPerson:
		return 'P', stylePerson
	case enums.AutomapEmpty:
		return '.', tcell.StyleDefault
	}
	return ' ', tcell.StyleDefault
}

// Draw рисует карту w x h с игроком и строку статуса под ней.
// Карта больше экрана обрезается справа и снизу.
func Draw(screen tcell.Screen, m Map, w, h int, player domain.Position, status string) {
	screen.Clear()
	sw, sh := screen.Size()

	for y := 0; y < h && y < sh-1; y++ {
		for x := 0; x < w && x < sw; x++ {
			r, style := Glyph(m.AutomapTypeFromBlock(x, y))
			screen.SetContent(x, y, r, nil, style)
		}
	}
	if player.X < sw && player.Y < sh-1 {
		screen.SetContent(player.X, player.Y, '@', nil, stylePlayer)
	}

	row := min(h, sh-1)
	for i, r := range []rune(status) {
		if i >= sw {
			break
		}
		screen.SetContent(i, row, r, nil, styleStatus)
	}
}
