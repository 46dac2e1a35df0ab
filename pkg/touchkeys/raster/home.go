package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	homeButtonWidth  = 320
	homeButtonHeight = 90
)

// Home is a caller screen drawn on a Surface while the keyboard is hidden:
// a title, one button and the outcome of the last session.
type Home struct {
	surface *Surface

	Title  string
	Button string
	Hint   string
}

func NewHome(s *Surface, title, button, hint string) *Home {
	return &Home{surface: s, Title: title, Button: button, Hint: hint}
}

func (h *Home) Show() {
	h.surface.setHome(h, true)
}

func (h *Home) Hide() {
	h.surface.setHome(h, false)
}

// SetMessage shows the outcome of the last session.
func (h *Home) SetMessage(msg string) {
	s := h.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	s.homeMessage = msg
	s.redraw()
}

// ButtonAt reports whether p falls on the home button while it is shown.
func (h *Home) ButtonAt(p image.Point) bool {
	s := h.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.home == h && s.homeVisible && !s.visible && p.In(s.homeButton())
}

func (s *Surface) setHome(h *Home, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.home = h
	s.homeVisible = visible
	s.redraw()
}

func (s *Surface) homeButton() image.Rectangle {
	b := s.img.Bounds()
	x := (b.Dx() - homeButtonWidth) / 2
	y := (b.Dy() - homeButtonHeight) / 2
	return image.Rect(x, y, x+homeButtonWidth, y+homeButtonHeight)
}

func (s *Surface) drawHome() {
	h := s.home
	b := s.img.Bounds()

	s.drawCentered(h.Title, s.promptFace, b.Dx()/2, baseline(s.promptFace, 0, PromptHeight*2), s.theme.PromptText)

	btn := s.homeButton()
	fill(s.img, btn, s.theme.KeyBorder)
	fill(s.img, btn.Inset(2), s.theme.Key)
	s.drawCentered(h.Button, s.keyFace, b.Dx()/2, baseline(s.keyFace, btn.Min.Y, btn.Dy()), s.theme.KeyText)

	if h.Hint != "" {
		s.drawCentered(h.Hint, s.smallFace, b.Dx()/2, btn.Max.Y+30, s.theme.PromptText)
	}
	if s.homeMessage != "" {
		s.drawCentered(s.homeMessage, s.keyFace, b.Dx()/2, b.Dy()-60, s.theme.PromptText)
	}
}

func (s *Surface) drawCentered(text string, face font.Face, centerX, y int, col color.Color) {
	width := font.MeasureString(face, text).Ceil()
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(centerX - width/2), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
