package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pawndev/touchkeys/pkg/touchkeys"
)

const (
	promptRow = 0
	textRow   = 1
	keysRow   = 3

	// Each key row is drawn on one line followed by a blank one.
	keyRowHeight = 2
)

type cellBox struct {
	x0, x1, y int
	key       touchkeys.Key
}

// Presenter draws the keyboard into a tcell screen.
type Presenter struct {
	mu      sync.Mutex
	screen  tcell.Screen
	frame   touchkeys.Frame
	rows    [][]touchkeys.Key
	visible bool
	boxes   []cellBox

	// Status is drawn on the last line, for help text.
	Status string

	// Indicator, when set, labels the prompt line's right end, for example
	// with the edit mode.
	Indicator func(f touchkeys.Frame) string
}

func NewPresenter(screen tcell.Screen) *Presenter {
	return &Presenter{screen: screen}
}

func (p *Presenter) RenderText(f touchkeys.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame = f
	p.draw()
}

func (p *Presenter) RenderLayer(_ int, rows [][]touchkeys.Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = rows
	p.draw()
}

// SetVisible only records visibility when hiding; the caller's screen
// repaints the terminal.
func (p *Presenter) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = visible
	if visible {
		p.draw()
	}
}

// Redraw repaints after a resize.
func (p *Presenter) Redraw() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.draw()
}

// HitTest returns the key drawn at a terminal cell.
func (p *Presenter) HitTest(x, y int) (touchkeys.Key, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.visible {
		return touchkeys.Key{}, false
	}
	for _, b := range p.boxes {
		if y == b.y && x >= b.x0 && x < b.x1 && b.key.Interactive() {
			return b.key, true
		}
	}
	return touchkeys.Key{}, false
}

func (p *Presenter) draw() {
	if !p.visible {
		return
	}
	s := p.screen
	w, h := s.Size()
	clearScreen(s, styleBase)

	drawText(s, 0, promptRow, p.frame.Prompt, styleBase.Bold(true))
	if p.Indicator != nil {
		label := p.Indicator(p.frame)
		drawText(s, w-runewidth.StringWidth(label), promptRow, label, styleBase)
	}

	fillRow(s, 0, w, textRow, styleScreen)
	x := drawText(s, 0, textRow, p.frame.Pre, styleScreen)
	cursor := styleScreen
	if p.frame.CursorVisible {
		if p.frame.InsertMode {
			cursor = cursor.Reverse(true)
		} else {
			cursor = cursor.Underline(true)
		}
	}
	x = drawText(s, x, textRow, p.frame.On, cursor)
	if !p.frame.AtEnd {
		drawText(s, x, textRow, p.frame.Post, styleScreen)
	}

	p.layout(w)
	for _, b := range p.boxes {
		if !b.key.Interactive() {
			continue
		}
		st := p.keyStyle(b.key)
		fillRow(s, b.x0, b.x1-1, b.y, st)
		drawCentered(s, b.x0, b.x1-1, b.y, b.key.Label, st)
	}

	if p.Status != "" {
		drawText(s, 0, h-1, p.Status, styleBase)
	}
	s.Show()
}

// layout spreads each row across the screen width by relative key width.
// The last column of every key is left as a gap.
func (p *Presenter) layout(width int) {
	p.boxes = p.boxes[:0]
	widest := 0.0
	for _, row := range p.rows {
		total := 0.0
		for _, k := range row {
			total += k.Width
		}
		if total > widest {
			widest = total
		}
	}
	if widest == 0 {
		return
	}
	unit := float64(width) / widest

	for r, row := range p.rows {
		x := 0.0
		y := keysRow + r*keyRowHeight
		for _, k := range row {
			x0 := int(x + 0.5)
			x += k.Width * unit
			p.boxes = append(p.boxes, cellBox{x0: x0, x1: int(x + 0.5), y: y, key: k})
		}
	}
}

func (p *Presenter) keyStyle(k touchkeys.Key) tcell.Style {
	switch {
	case !k.Enabled:
		return styleDisabled
	case k.ID == touchkeys.KeyIDAccept:
		return styleAccept
	case k.ID == touchkeys.KeyIDCancel:
		return styleCancel
	case k.ID == touchkeys.KeyIDInsert && p.frame.InsertMode:
		return styleInsertOn
	default:
		return styleKey
	}
}
