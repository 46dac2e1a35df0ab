package touchkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pawndev/touchkeys/pkg/touchkeys/internal"
)

// CursorPlaceholder stands in for the character under the cursor when the
// cursor sits past the end of the text.
const CursorPlaceholder = " "

// Frame is what a presenter needs to draw the text line.
type Frame struct {
	Prompt        string
	Pre           string
	On            string
	Post          string
	AtEnd         bool
	InsertMode    bool
	CursorVisible bool
}

// Text is the edited text without the placeholder.
func (f Frame) Text() string {
	if f.AtEnd {
		return f.Pre
	}
	return f.Pre + f.On + f.Post
}

// Presenter draws the keyboard. It only ever receives copies.
type Presenter interface {
	RenderText(f Frame)
	RenderLayer(layer int, rows [][]Key)
	SetVisible(visible bool)
}

// Screen is the caller's own screen, shown and hidden around sessions.
type Screen interface {
	Show()
	Hide()
}

// ActionObserver is told about every routed key event, for feedback such as
// key click sounds. It runs with the keyboard state locked.
type ActionObserver interface {
	Observe(ev KeyEvent, a Action)
}

type Options struct {
	// Keyset overrides Layout when set.
	Keyset    *KeysetTable
	Layout    KeyboardLayout
	Presenter Presenter
	Screen    Screen
	Observer  ActionObserver

	// Overwrite starts every session in overwrite mode instead of insert mode.
	Overwrite bool

	// Strict panics on lifecycle misuse instead of returning ErrInvalidState.
	Strict bool

	Logger *slog.Logger
}

// State is everything guarded by the keyboard lock. Its exported methods are
// for close actions and Keyboard.Do, which already hold the lock.
type State struct {
	buffer        *EditBuffer
	modal         ModalController
	keys          *KeysetTable
	filter        AcceptFilter
	prompt        string
	cursorVisible bool

	overwrite bool
	strict    bool
	screen    Screen
	presenter Presenter
	observer  ActionObserver
	logger    *slog.Logger
}

// Keyboard is a virtual keyboard: an edit buffer, a keyset and a modal
// Ok/Cancel session behind one lock shared by input events and the cursor
// blink ticker.
type Keyboard struct {
	mu       sync.Mutex
	state    State
	poisoned bool
}

func New(opts Options) (*Keyboard, error) {
	keys := opts.Keyset
	if keys == nil {
		var err error
		keys, err = BuiltinKeyset(opts.Layout)
		if err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = internal.GetInternalLogger()
	}

	presenter := opts.Presenter
	if presenter == nil {
		presenter = nopPresenter{}
	}

	buffer := NewEditBuffer()
	buffer.SetInsertMode(!opts.Overwrite)

	return &Keyboard{
		state: State{
			buffer:    buffer,
			keys:      keys,
			overwrite: opts.Overwrite,
			strict:    opts.Strict,
			screen:    opts.Screen,
			presenter: presenter,
			observer:  opts.Observer,
			logger:    logger,
		},
	}, nil
}

// locked runs fn with the state locked. A panic inside fn poisons the
// keyboard and keeps unwinding.
func (k *Keyboard) locked(fn func(s *State) error) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.poisoned {
		return ErrPoisoned
	}

	finished := false
	defer func() {
		if !finished {
			k.poisoned = true
			k.state.logger.Error("Panic with keyboard state locked, keyboard is now unusable")
		}
	}()

	err := fn(&k.state)
	finished = true
	return err
}

// Open starts a session with an empty buffer. accept lists the characters
// that may be typed, or is empty to allow everything. action fires once when
// the session is accepted or cancelled.
func (k *Keyboard) Open(prompt, accept string, action CloseAction) error {
	return k.locked(func(s *State) error {
		return s.Open(prompt, accept, action)
	})
}

// OpenWithText is Open with the buffer preloaded and the cursor at its end.
func (k *Keyboard) OpenWithText(prompt, accept, initial string, action CloseAction) error {
	return k.locked(func(s *State) error {
		return s.OpenWithText(prompt, accept, initial, action)
	})
}

// HandleKey applies one key event to the open session.
func (k *Keyboard) HandleKey(ev KeyEvent) error {
	return k.locked(func(s *State) error {
		return s.handle(ev)
	})
}

// Press presses the on-screen key at row, col of the active layer. Positions
// outside the keyset are ignored.
func (k *Keyboard) Press(row, col int) error {
	return k.locked(func(s *State) error {
		key, ok := s.keys.KeyAt(row, col)
		if !ok || !key.Interactive() {
			return nil
		}
		return s.handle(key.Event())
	})
}

// Close ends the session as if the accept or cancel key had been pressed.
func (k *Keyboard) Close(o Outcome) error {
	return k.locked(func(s *State) error {
		return s.close(o)
	})
}

// Tick toggles the cursor visibility. It is driven by a BlinkScheduler.
func (k *Keyboard) Tick() {
	_ = k.locked(func(s *State) error {
		s.cursorVisible = !s.cursorVisible
		if s.modal.Visible() {
			s.renderText()
		}
		return nil
	})
}

// Visible reports whether a session is open.
func (k *Keyboard) Visible() bool {
	visible := false
	_ = k.locked(func(s *State) error {
		visible = s.modal.Visible()
		return nil
	})
	return visible
}

// Do runs fn with the keyboard state locked.
func (k *Keyboard) Do(fn func(s *State) error) error {
	return k.locked(fn)
}

// SetPresenter replaces the presenter and redraws it.
func (k *Keyboard) SetPresenter(p Presenter) error {
	return k.locked(func(s *State) error {
		if p == nil {
			p = nopPresenter{}
		}
		s.presenter = p
		s.presenter.SetVisible(s.modal.Visible())
		s.renderLayer()
		s.renderText()
		return nil
	})
}

// View is a consistent copy of the keyboard state.
type View struct {
	Frame   Frame
	Visible bool
	Armed   bool
	Layer   int
	Keys    [][]Key
	Text    string
	Cursor  int
}

func (k *Keyboard) Snapshot() (View, error) {
	var v View
	err := k.locked(func(s *State) error {
		v = View{
			Frame:   s.Frame(),
			Visible: s.modal.Visible(),
			Armed:   s.modal.Armed(),
			Layer:   s.keys.ActiveLayer(),
			Keys:    s.keys.ActiveLayerKeys(),
			Text:    s.buffer.Text(),
			Cursor:  s.buffer.CursorPos(),
		}
		return nil
	})
	return v, err
}

func (s *State) Text() string {
	return s.buffer.Text()
}

func (s *State) CursorPos() int {
	return s.buffer.CursorPos()
}

func (s *State) InsertMode() bool {
	return s.buffer.InsertMode()
}

func (s *State) Visible() bool {
	return s.modal.Visible()
}

func (s *State) Prompt() string {
	return s.prompt
}

func (s *State) Layer() int {
	return s.keys.ActiveLayer()
}

// Caller returns the screen passed in Options, which may be nil.
func (s *State) Caller() Screen {
	return s.screen
}

// Reset clears the edit buffer.
func (s *State) Reset() {
	s.buffer.Reset()
	if s.modal.Visible() {
		s.renderText()
	}
}

// Open is Keyboard.Open for callers that already hold the lock. Opening while
// a session is shown aborts that session without firing its action.
func (s *State) Open(prompt, accept string, action CloseAction) error {
	return s.OpenWithText(prompt, accept, "", action)
}

func (s *State) OpenWithText(prompt, accept, initial string, action CloseAction) error {
	return s.openSession(prompt, accept, initial, action, nil)
}

// openSession is OpenWithText with a hook for when the session is aborted
// instead of closed.
func (s *State) openSession(prompt, accept, initial string, action CloseAction, aborted func()) error {
	if s.modal.Visible() {
		s.modal.Abort()
		s.buffer.Reset()
		s.presenter.SetVisible(false)
		return s.fault("open")
	}

	s.filter = NewAcceptFilter(accept)
	s.keys.ApplyFilter(s.filter)
	s.keys.ResetLayer()
	s.buffer.Reset()
	s.buffer.SetInsertMode(!s.overwrite)
	if initial != "" {
		s.buffer.SetText(initial)
	}
	s.prompt = prompt
	s.cursorVisible = true

	if err := s.modal.open(action, aborted); err != nil {
		return s.fault("open")
	}

	s.logger.Debug("Keyboard opened", "prompt", prompt, "accept", s.filter.String(), "keyset", s.keys.Name())

	s.presenter.SetVisible(true)
	s.renderLayer()
	s.renderText()
	return nil
}

// Frame describes the text line as it should currently be drawn.
func (s *State) Frame() Frame {
	split := s.buffer.Split(s.buffer.CursorPos())
	f := Frame{
		Prompt:        s.prompt,
		Pre:           split.Pre,
		On:            split.On,
		Post:          split.Post,
		AtEnd:         !split.HasOn,
		InsertMode:    s.buffer.InsertMode(),
		CursorVisible: s.cursorVisible,
	}
	if f.AtEnd {
		f.On = CursorPlaceholder
	}
	return f
}

func (s *State) handle(ev KeyEvent) error {
	if !s.modal.Visible() {
		s.logger.Debug("Key event while keyboard is hidden", "id", string(ev.ID), "char", ev.Char)
		return fmt.Errorf("key event: %w", ErrInvalidState)
	}

	action := Route(ev, s.filter)
	if s.observer != nil {
		s.observer.Observe(ev, action)
	}

	switch action.Kind {
	case ActionNone:
		if !ev.Disabled && !ev.ID.known() && ev.ID != KeyIDDisabled {
			s.logger.Debug("Ignoring unknown key id", "id", string(ev.ID))
		}
		return nil
	case ActionInsert:
		s.buffer.Insert(action.Text)
	case ActionBackspace:
		s.buffer.Backspace()
	case ActionDelete:
		s.buffer.DeleteAtCursor()
	case ActionToggleInsert:
		s.buffer.ToggleInsertMode()
	case ActionMoveLeft:
		s.buffer.MoveLeft()
	case ActionMoveRight:
		s.buffer.MoveRight()
	case ActionRotateLayer:
		s.keys.Rotate()
		s.renderLayer()
		return nil
	case ActionAccept:
		return s.close(OutcomeOK)
	case ActionCancel:
		return s.close(OutcomeCancel)
	}

	s.cursorVisible = true
	s.renderText()
	return nil
}

func (s *State) close(o Outcome) error {
	if !s.modal.Visible() {
		return s.fault("close")
	}

	s.logger.Debug("Keyboard closed", "outcome", o.String(), "length", s.buffer.Len())
	s.presenter.SetVisible(false)

	if err := s.modal.Close(s, o); err != nil {
		return s.fault("close")
	}

	// A close action may have chained a new session.
	if !s.modal.Visible() {
		s.buffer.Reset()
	}
	return nil
}

func (s *State) fault(op string) error {
	err := fmt.Errorf("%s: %w", op, ErrInvalidState)
	if s.strict {
		panic(err)
	}
	s.logger.Error("Keyboard lifecycle misuse", "op", op, "error", err)
	return err
}

func (s *State) renderText() {
	s.presenter.RenderText(s.Frame())
}

func (s *State) renderLayer() {
	s.presenter.RenderLayer(s.keys.ActiveLayer(), s.keys.ActiveLayerKeys())
}

type nopPresenter struct{}

func (nopPresenter) RenderText(Frame) {}
func (nopPresenter) RenderLayer(int, [][]Key) {}
func (nopPresenter) SetVisible(bool) {}
