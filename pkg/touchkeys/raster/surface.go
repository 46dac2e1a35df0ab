package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"github.com/pawndev/touchkeys/pkg/touchkeys"
	"go.uber.org/atomic"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 480

	PromptHeight = 60
	ScreenHeight = 60

	margin = 8
)

type hitBox struct {
	rect image.Rectangle
	key  touchkeys.Key
}

type iconKey struct {
	id    touchkeys.KeyID
	size  int
	color color.RGBA
}

// Surface draws the keyboard into an RGBA image: the prompt band, the text
// line and the key rows of the active layer. It implements
// touchkeys.Presenter and may be read from other goroutines.
type Surface struct {
	mu    sync.Mutex
	theme Theme
	img   *image.RGBA

	promptFace font.Face
	screenFace font.Face
	keyFace    font.Face
	smallFace  font.Face

	frame   touchkeys.Frame
	layer   int
	rows    [][]touchkeys.Key
	visible bool
	hits    []hitBox
	icons   map[iconKey]image.Image

	home        *Home
	homeVisible bool
	homeMessage string

	version *atomic.Int64
}

func NewSurface(theme Theme) (*Surface, error) {
	return NewSurfaceSize(theme, DefaultWidth, DefaultHeight)
}

func NewSurfaceSize(theme Theme, width, height int) (*Surface, error) {
	if width <= 0 || height <= PromptHeight+ScreenHeight {
		return nil, fmt.Errorf("surface size %dx%d too small", width, height)
	}

	s := &Surface{
		theme:   theme,
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		icons:   make(map[iconKey]image.Image),
		version: atomic.NewInt64(0),
	}
	if err := s.initFonts(); err != nil {
		return nil, err
	}
	s.redraw()
	return s, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	tt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func (s *Surface) initFonts() error {
	var err error
	if s.promptFace, err = newFace(gobold.TTF, 30); err != nil {
		return fmt.Errorf("failed to create prompt face: %w", err)
	}
	if s.screenFace, err = newFace(gomonobold.TTF, 30); err != nil {
		return fmt.Errorf("failed to create screen face: %w", err)
	}
	if s.keyFace, err = newFace(gobold.TTF, 26); err != nil {
		return fmt.Errorf("failed to create key face: %w", err)
	}
	if s.smallFace, err = newFace(goregular.TTF, 12); err != nil {
		return fmt.Errorf("failed to create small face: %w", err)
	}
	return nil
}

func (s *Surface) RenderText(f touchkeys.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
	s.redraw()
}

func (s *Surface) RenderLayer(layer int, rows [][]touchkeys.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layer = layer
	s.rows = rows
	s.layout()
	s.redraw()
}

func (s *Surface) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = visible
	s.redraw()
}

// Version increases on every redraw. Hosts compare it to skip uploads.
func (s *Surface) Version() int64 {
	return s.version.Load()
}

func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Image returns a copy of the current picture.
func (s *Surface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := image.NewRGBA(s.img.Bounds())
	draw.Draw(out, out.Bounds(), s.img, image.Point{}, draw.Src)
	return out
}

func (s *Surface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.Image())
}

// HitTest returns the key drawn under p. Spacers and a hidden keyboard
// never match.
func (s *Surface) HitTest(p image.Point) (touchkeys.Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visible {
		return touchkeys.Key{}, false
	}
	for _, h := range s.hits {
		if p.In(h.rect) && h.key.Interactive() {
			return h.key, true
		}
	}
	return touchkeys.Key{}, false
}

// layout assigns every key a rectangle. Key widths are relative, scaled so
// the widest row fills the surface.
func (s *Surface) layout() {
	s.hits = s.hits[:0]
	if len(s.rows) == 0 {
		return
	}

	b := s.img.Bounds()
	top := PromptHeight + ScreenHeight
	rowHeight := (b.Dy() - top) / len(s.rows)

	widest := 0.0
	for _, row := range s.rows {
		w := 0.0
		for _, k := range row {
			w += k.Width
		}
		if w > widest {
			widest = w
		}
	}
	unit := float64(b.Dx()) / widest

	for r, row := range s.rows {
		w := 0.0
		for _, k := range row {
			w += k.Width
		}
		x := (float64(b.Dx()) - w*unit) / 2
		y := top + r*rowHeight
		for _, k := range row {
			x0 := int(x + 0.5)
			x += k.Width * unit
			s.hits = append(s.hits, hitBox{
				rect: image.Rect(x0, y, int(x+0.5), y+rowHeight),
				key:  k,
			})
		}
	}
}

func (s *Surface) redraw() {
	defer s.version.Inc()

	fill(s.img, s.img.Bounds(), s.theme.Background)
	if !s.visible {
		if s.home != nil && s.homeVisible {
			s.drawHome()
		}
		return
	}
	s.drawPrompt()
	s.drawScreen()
	for _, h := range s.hits {
		s.drawKey(h)
	}
}

func (s *Surface) drawPrompt() {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(s.theme.PromptText),
		Face: s.promptFace,
		Dot:  fixed.Point26_6{X: fixed.I(margin), Y: fixed.I(baseline(s.promptFace, 0, PromptHeight))},
	}
	d.DrawString(s.frame.Prompt)
}

// drawScreen draws the text line. In insert mode the cursor is an inverse
// block, in overwrite mode an underline. Long text scrolls left to keep the
// cursor in view.
func (s *Surface) drawScreen() {
	b := s.img.Bounds()
	band := image.Rect(0, PromptHeight, b.Dx(), PromptHeight+ScreenHeight)
	fill(s.img, band, s.theme.Screen)

	f := s.frame
	preWidth := font.MeasureString(s.screenFace, f.Pre)
	onWidth := font.MeasureString(s.screenFace, f.On)

	x := fixed.I(margin)
	if limit := fixed.I(b.Dx() - margin); x+preWidth+onWidth > limit {
		x = limit - preWidth - onWidth
	}
	y := baseline(s.screenFace, band.Min.Y, ScreenHeight)

	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(s.theme.ScreenText),
		Face: s.screenFace,
		Dot:  fixed.Point26_6{X: x, Y: fixed.I(y)},
	}
	d.DrawString(f.Pre)

	cursorX := d.Dot.X
	cell := image.Rect(cursorX.Floor(), band.Min.Y+margin, (cursorX + onWidth).Ceil(), band.Max.Y-margin)
	if f.CursorVisible {
		if f.InsertMode {
			fill(s.img, cell, s.theme.Cursor)
			d.Src = image.NewUniform(s.theme.CursorText)
		} else {
			fill(s.img, image.Rect(cell.Min.X, cell.Max.Y-3, cell.Max.X, cell.Max.Y), s.theme.ScreenText)
		}
	}
	d.DrawString(f.On)

	d.Src = image.NewUniform(s.theme.ScreenText)
	if !f.AtEnd {
		d.DrawString(f.Post)
	}
}

func (s *Surface) drawKey(h hitBox) {
	k := h.key
	if !k.Interactive() {
		return
	}

	fill(s.img, h.rect, s.theme.KeyBorder)
	inner := h.rect.Inset(1)
	fill(s.img, inner, s.theme.Key)

	col := s.labelColor(k)
	if hasIcon(k.ID) {
		size := min(inner.Dx(), inner.Dy()) * 3 / 5
		icon := s.icon(k.ID, size, col)
		if icon == nil {
			return
		}
		at := image.Pt(inner.Min.X+(inner.Dx()-size)/2, inner.Min.Y+(inner.Dy()-size)/2)
		draw.Draw(s.img, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}, icon, image.Point{}, draw.Over)
		return
	}

	face := s.keyFace
	if k.ID == touchkeys.KeyIDDelete || k.ID == touchkeys.KeyIDInsert {
		face = s.smallFace
	}
	width := font.MeasureString(face, k.Label).Ceil()
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(inner.Min.X + (inner.Dx()-width)/2),
			Y: fixed.I(baseline(face, inner.Min.Y, inner.Dy())),
		},
	}
	d.DrawString(k.Label)
}

func (s *Surface) labelColor(k touchkeys.Key) color.RGBA {
	switch {
	case !k.Enabled:
		return s.theme.KeyDisabled
	case k.ID == touchkeys.KeyIDAccept:
		return s.theme.Accept
	case k.ID == touchkeys.KeyIDCancel:
		return s.theme.Cancel
	case k.ID == touchkeys.KeyIDInsert && s.frame.InsertMode:
		return s.theme.InsertActive
	default:
		return s.theme.KeyText
	}
}

func (s *Surface) icon(id touchkeys.KeyID, size int, col color.RGBA) image.Image {
	key := iconKey{id: id, size: size, color: col}
	if img, ok := s.icons[key]; ok {
		return img
	}
	img, err := renderIcon(id, size, col)
	if err != nil {
		return nil
	}
	s.icons[key] = img
	return img
}

// baseline centres a line of face vertically in a band starting at top.
func baseline(face font.Face, top, height int) int {
	m := face.Metrics()
	textHeight := (m.Ascent + m.Descent).Ceil()
	return top + (height-textHeight)/2 + m.Ascent.Ceil()
}

func fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}
