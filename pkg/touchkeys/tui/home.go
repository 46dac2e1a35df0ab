package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	homeTitleRow  = 1
	homeButtonRow = 4
	homeHintRow   = 7
	homeResultRow = 9
)

// Home is a minimal caller screen: a title, one button that opens the
// keyboard and the outcome of the last session.
type Home struct {
	mu      sync.Mutex
	screen  tcell.Screen
	visible bool
	message string

	Title  string
	Button string
	Hint   string
}

func NewHome(screen tcell.Screen, title, button, hint string) *Home {
	return &Home{screen: screen, Title: title, Button: button, Hint: hint}
}

func (h *Home) Show() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = true
	h.draw()
}

func (h *Home) Hide() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = false
}

func (h *Home) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

// SetMessage shows the outcome of the last session.
func (h *Home) SetMessage(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.message = msg
	h.draw()
}

func (h *Home) Message() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.message
}

func (h *Home) Redraw() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.draw()
}

// ButtonAt reports whether the cell at x, y belongs to the button.
func (h *Home) ButtonAt(x, y int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.visible || y != homeButtonRow {
		return false
	}
	x0, x1 := h.buttonSpan()
	return x >= x0 && x < x1
}

func (h *Home) buttonSpan() (int, int) {
	w, _ := h.screen.Size()
	label := "[ " + h.Button + " ]"
	x0 := (w - runewidth.StringWidth(label)) / 2
	return x0, x0 + runewidth.StringWidth(label)
}

func (h *Home) draw() {
	if !h.visible {
		return
	}
	s := h.screen
	w, _ := s.Size()
	clearScreen(s, tcell.StyleDefault)

	drawCentered(s, 0, w, homeTitleRow, h.Title, tcell.StyleDefault.Bold(true))
	x0, _ := h.buttonSpan()
	drawText(s, x0, homeButtonRow, "[ "+h.Button+" ]", styleButton)
	drawCentered(s, 0, w, homeHintRow, h.Hint, tcell.StyleDefault.Dim(true))
	if h.message != "" {
		drawCentered(s, 0, w, homeResultRow, h.message, tcell.StyleDefault)
	}
	s.Show()
}
