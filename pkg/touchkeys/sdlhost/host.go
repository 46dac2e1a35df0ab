package sdlhost

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"os"
	"runtime"

	"github.com/pawndev/touchkeys/pkg/touchkeys"
	"github.com/pawndev/touchkeys/pkg/touchkeys/internal"
	"github.com/pawndev/touchkeys/pkg/touchkeys/raster"
	"github.com/veandco/go-sdl2/sdl"
)

// touchMouseID marks mouse events SDL synthesises from touches.
const touchMouseID = ^uint32(0)

// DefaultMapping binds SDL keycodes to keyboard ids. Printable keys arrive
// as text input events instead.
func DefaultMapping() *internal.InputMapping {
	m := internal.NewInputMapping()
	m.SDLKeys = map[int]string{
		int(sdl.K_BACKSPACE): string(touchkeys.KeyIDBackspace),
		int(sdl.K_DELETE):    string(touchkeys.KeyIDDelete),
		int(sdl.K_INSERT):    string(touchkeys.KeyIDInsert),
		int(sdl.K_LEFT):      string(touchkeys.KeyIDLeft),
		int(sdl.K_RIGHT):     string(touchkeys.KeyIDRight),
		int(sdl.K_RETURN):    string(touchkeys.KeyIDAccept),
		int(sdl.K_KP_ENTER):  string(touchkeys.KeyIDAccept),
		int(sdl.K_ESCAPE):    string(touchkeys.KeyIDCancel),
		int(sdl.K_TAB):       string(touchkeys.KeyIDShift),
	}
	return m
}

// ResolvedMapping is DefaultMapping with any custom mapping applied.
func ResolvedMapping() *internal.InputMapping {
	return internal.ResolveInputMapping(DefaultMapping())
}

// Host shows a raster surface in an SDL window and feeds touches, clicks
// and key presses back to the keyboard.
type Host struct {
	Title    string
	Keyboard *touchkeys.Keyboard
	Surface  *raster.Surface
	Home     *raster.Home
	Mapping  *internal.InputMapping
	Logger   *slog.Logger

	// Open is called when the home button is pressed.
	Open func() error
}

// Run owns the calling OS thread until the window is closed, Escape is
// pressed on the home screen or ctx ends.
func (h *Host) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if h.Mapping == nil {
		h.Mapping = ResolvedMapping()
	}
	if h.Logger == nil {
		h.Logger = internal.GetInternalLogger()
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return err
	}
	defer sdl.Quit()

	win, err := openWindow(h.Title, h.Surface, os.Getenv, h.Logger)
	if err != nil {
		return err
	}
	defer win.close()

	sdl.StartTextInput()
	defer sdl.StopTextInput()

	if h.Home != nil {
		h.Home.Show()
	}
	for ctx.Err() == nil {
		if ev := sdl.WaitEventTimeout(16); ev != nil {
			for ; ev != nil; ev = sdl.PollEvent() {
				if !h.handleEvent(ev) {
					return nil
				}
			}
		}
		if err := win.present(h.Surface); err != nil {
			h.Logger.Error("Failed to present surface", "error", err)
		}
	}
	return ctx.Err()
}

func (h *Host) handleEvent(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return false
	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN {
			return true
		}
		if !h.Keyboard.Visible() {
			switch e.Keysym.Sym {
			case sdl.K_ESCAPE:
				return false
			case sdl.K_RETURN, sdl.K_KP_ENTER:
				h.open()
			}
			return true
		}
		if id, ok := h.Mapping.Lookup(internal.SourceSDL, int(e.Keysym.Sym)); ok {
			h.logger().Debug("Keyboard input mapped", "key", int(e.Keysym.Sym), "id", id)
			h.handleKey(touchkeys.IDEvent(touchkeys.KeyID(id)))
		}
	case *sdl.TextInputEvent:
		if text := e.GetText(); text != "" && h.Keyboard.Visible() {
			h.handleKey(touchkeys.CharEvent(text))
		}
	case *sdl.MouseButtonEvent:
		// Touches also arrive as finger events.
		if e.Type == sdl.MOUSEBUTTONDOWN && e.Button == sdl.BUTTON_LEFT && e.Which != touchMouseID {
			h.touch(image.Pt(int(e.X), int(e.Y)))
		}
	case *sdl.TouchFingerEvent:
		if e.Type == sdl.FINGERDOWN {
			b := h.Surface.Bounds()
			h.touch(image.Pt(int(e.X*float32(b.Dx())), int(e.Y*float32(b.Dy()))))
		}
	}
	return true
}

func (h *Host) touch(p image.Point) {
	if key, ok := h.Surface.HitTest(p); ok {
		if err := h.Keyboard.Press(key.Row, key.Col); err != nil {
			h.logger().Debug("Key press rejected", "error", err)
		}
		return
	}
	if h.Home != nil && h.Home.ButtonAt(p) {
		h.open()
	}
}

func (h *Host) handleKey(ev touchkeys.KeyEvent) {
	if err := h.Keyboard.HandleKey(ev); err != nil {
		h.logger().Debug("Key event rejected", "error", err)
	}
}

func (h *Host) open() {
	if h.Open == nil {
		return
	}
	if err := h.Open(); err != nil && !errors.Is(err, touchkeys.ErrInvalidState) {
		h.logger().Error("Failed to open keyboard", "error", err)
	}
}

func (h *Host) logger() *slog.Logger {
	if h.Logger == nil {
		h.Logger = internal.GetInternalLogger()
	}
	return h.Logger
}
