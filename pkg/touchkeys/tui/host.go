package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/pawndev/touchkeys/pkg/touchkeys"
	"github.com/pawndev/touchkeys/pkg/touchkeys/internal"
)

// Host runs a keyboard and its caller screen in a terminal. Mouse clicks
// stand in for touches.
type Host struct {
	Screen    tcell.Screen
	Keyboard  *touchkeys.Keyboard
	Presenter *Presenter
	Home      *Home
	Mapping   *internal.InputMapping
	Logger    *slog.Logger

	// Open is called when the home button is pressed.
	Open func() error

	buttons tcell.ButtonMask
}

// Run polls terminal events until Escape on the home screen, Ctrl-C or ctx
// ends. The screen must already be initialised.
func (h *Host) Run(ctx context.Context) error {
	if h.Mapping == nil {
		h.Mapping = ResolvedMapping()
	}
	if h.Logger == nil {
		h.Logger = internal.GetInternalLogger()
	}
	h.Screen.EnableMouse()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = h.Screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	h.Home.Show()
	for {
		ev := h.Screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventResize:
			h.Screen.Sync()
			h.redraw()
		case *tcell.EventKey:
			if !h.handleKey(e) {
				return nil
			}
		case *tcell.EventMouse:
			h.handleMouse(e)
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			h.redraw()
		}
	}
}

func (h *Host) redraw() {
	if h.Keyboard.Visible() {
		h.Presenter.Redraw()
		return
	}
	h.Home.Redraw()
}

func (h *Host) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}

	if !h.Keyboard.Visible() {
		switch {
		case ev.Key() == tcell.KeyEscape:
			return false
		case ev.Key() == tcell.KeyEnter:
			h.open()
		}
		return true
	}

	kev, ok := KeyEventFor(h.Mapping, ev)
	if !ok {
		return true
	}
	if err := h.Keyboard.HandleKey(kev); err != nil {
		h.Logger.Debug("Key event rejected", "error", err)
	}
	return true
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0 && h.buttons&tcell.Button1 == 0
	h.buttons = ev.Buttons()
	if !pressed {
		return
	}

	x, y := ev.Position()
	if h.Keyboard.Visible() {
		key, ok := h.Presenter.HitTest(x, y)
		if !ok {
			return
		}
		if err := h.Keyboard.Press(key.Row, key.Col); err != nil {
			h.Logger.Debug("Key press rejected", "error", err)
		}
		return
	}
	if h.Home.ButtonAt(x, y) {
		h.open()
	}
}

func (h *Host) open() {
	if h.Open == nil {
		return
	}
	if err := h.Open(); err != nil && !errors.Is(err, touchkeys.ErrInvalidState) {
		h.Logger.Error("Failed to open keyboard", "error", err)
	}
}
