package raster

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/pawndev/touchkeys/pkg/touchkeys"
)

func newTestSurface(t *testing.T) (*Surface, *touchkeys.Keyboard) {
	t.Helper()
	s, err := NewSurface(LightTheme)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	kb, err := touchkeys.New(touchkeys.Options{
		Presenter: s,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, kb
}

func centre(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func (s *Surface) boxOf(t *testing.T, row, col int) image.Rectangle {
	t.Helper()
	for _, h := range s.hits {
		if h.key.Row == row && h.key.Col == col {
			return h.rect
		}
	}
	t.Fatalf("no key at %d,%d", row, col)
	return image.Rectangle{}
}

func TestSurface_HitTestPressesKey(t *testing.T) {
	s, kb := newTestSurface(t)
	if err := kb.Open("Name", "", nil); err != nil {
		t.Fatalf("Open: %v", err)
	}

	key, ok := s.HitTest(centre(s.boxOf(t, 0, 1)))
	if !ok || key.Label != "q" {
		t.Fatalf("HitTest = %+v, %v; want the q key", key, ok)
	}
	if err := kb.Press(key.Row, key.Col); err != nil {
		t.Fatalf("Press: %v", err)
	}
	v, _ := kb.Snapshot()
	if v.Text != "q" {
		t.Fatalf("text = %q", v.Text)
	}

	if _, ok := s.HitTest(centre(s.boxOf(t, 0, 0))); ok {
		t.Fatal("spacer should not be hit")
	}
	if _, ok := s.HitTest(image.Pt(10, 10)); ok {
		t.Fatal("prompt band should not be hit")
	}
}

func TestSurface_KeysFillTheKeyArea(t *testing.T) {
	s, kb := newTestSurface(t)
	_ = kb.Open("", "", nil)

	b := s.Bounds()
	for _, h := range s.hits {
		if !h.rect.In(b) {
			t.Fatalf("key %+v drawn outside the surface at %v", h.key, h.rect)
		}
		if h.rect.Min.Y < PromptHeight+ScreenHeight {
			t.Fatalf("key %+v overlaps the text bands", h.key)
		}
	}
}

func TestSurface_HiddenIgnoresTouches(t *testing.T) {
	s, kb := newTestSurface(t)
	_ = kb.Open("", "", nil)
	box := s.boxOf(t, 0, 1)
	_ = kb.HandleKey(touchkeys.IDEvent(touchkeys.KeyIDCancel))

	if _, ok := s.HitTest(centre(box)); ok {
		t.Fatal("hidden surface should not report hits")
	}
}

func TestSurface_VersionAdvances(t *testing.T) {
	s, kb := newTestSurface(t)
	before := s.Version()
	_ = kb.Open("", "", nil)
	afterOpen := s.Version()
	if afterOpen <= before {
		t.Fatalf("version %d did not advance past %d", afterOpen, before)
	}
	kb.Tick()
	if s.Version() <= afterOpen {
		t.Fatal("blink tick should redraw")
	}
}

func TestSurface_CursorBlinkChangesPixels(t *testing.T) {
	s, kb := newTestSurface(t)
	_ = kb.Open("", "", nil)
	_ = kb.HandleKey(touchkeys.CharEvent("a"))

	shown := s.Image()
	kb.Tick()
	hidden := s.Image()

	band := image.Rect(0, PromptHeight, shown.Bounds().Dx(), PromptHeight+ScreenHeight)
	if bytes.Equal(crop(shown, band), crop(hidden, band)) {
		t.Fatal("cursor blink left the text line unchanged")
	}
}

func crop(img *image.RGBA, r image.Rectangle) []byte {
	var out []byte
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		out = append(out, img.Pix[i:i+4*r.Dx()]...)
	}
	return out
}

func TestSurface_WritePNG(t *testing.T) {
	s, kb := newTestSurface(t)
	_ = kb.Open("PIN", "0123456789", nil)

	var buf bytes.Buffer
	if err := s.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != DefaultWidth || img.Bounds().Dy() != DefaultHeight {
		t.Fatalf("size = %v", img.Bounds())
	}
}

func TestNewSurfaceSize_TooSmall(t *testing.T) {
	if _, err := NewSurfaceSize(LightTheme, 800, 100); err == nil {
		t.Fatal("expected an error for a surface without room for keys")
	}
}

func TestRenderIcon(t *testing.T) {
	for id := range iconFiles {
		img, err := renderIcon(id, 32, DarkTheme.KeyText)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		inked := false
		b := img.Bounds()
		for y := b.Min.Y; y < b.Max.Y && !inked; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
					inked = true
					break
				}
			}
		}
		if !inked {
			t.Errorf("%s icon is blank", id)
		}
	}
	if _, err := renderIcon(touchkeys.KeyIDDelete, 32, DarkTheme.KeyText); err == nil {
		t.Fatal("delete has no icon")
	}
}

func TestThemeByName(t *testing.T) {
	if ThemeByName("dark") != DarkTheme || ThemeByName("light") != LightTheme || ThemeByName("") != LightTheme {
		t.Fatal("unexpected theme selection")
	}
}

func TestHome_ShownWhileKeyboardHidden(t *testing.T) {
	s, err := NewSurface(LightTheme)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	home := NewHome(s, "Home", "Keyboard", "")
	kb, err := touchkeys.New(touchkeys.Options{
		Presenter: s,
		Screen:    home,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	btn := centre(s.homeButton())
	if home.ButtonAt(btn) {
		t.Fatal("home button active before Show")
	}
	home.Show()
	if !home.ButtonAt(btn) {
		t.Fatal("home button not hit")
	}
	blank := s.Image()

	_ = kb.Open("", "", func(st *touchkeys.State, o touchkeys.Outcome) {
		st.Caller().Show()
	})
	if home.ButtonAt(btn) {
		t.Fatal("home button active under the keyboard")
	}

	_ = kb.HandleKey(touchkeys.IDEvent(touchkeys.KeyIDAccept))
	if !home.ButtonAt(btn) {
		t.Fatal("home button should return after the session")
	}

	home.SetMessage("done")
	if bytes.Equal(blank.Pix, s.Image().Pix) {
		t.Fatal("message not drawn")
	}
}
