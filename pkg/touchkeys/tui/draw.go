package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var (
	styleBase     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleScreen   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleKey      = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhiteSmoke)
	styleDisabled = styleKey.Foreground(tcell.ColorDarkGray)
	styleAccept   = styleKey.Foreground(tcell.ColorGreen).Bold(true)
	styleCancel   = styleKey.Foreground(tcell.ColorRed).Bold(true)
	styleInsertOn = styleKey.Foreground(tcell.ColorRed)
	styleButton   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy).Bold(true)
)

// drawText draws text from x and returns the column after it.
func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			continue
		}
		s.SetContent(x, y, r, nil, st)
		x += w
	}
	return x
}

func drawCentered(s tcell.Screen, x0, x1, y int, text string, st tcell.Style) {
	x := x0 + (x1-x0-runewidth.StringWidth(text))/2
	if x < x0 {
		x = x0
	}
	drawText(s, x, y, text, st)
}

func fillRow(s tcell.Screen, x0, x1, y int, st tcell.Style) {
	for x := x0; x < x1; x++ {
		s.SetContent(x, y, ' ', nil, st)
	}
}

func clearScreen(s tcell.Screen, st tcell.Style) {
	w, h := s.Size()
	for y := 0; y < h; y++ {
		fillRow(s, 0, w, y, st)
	}
}
