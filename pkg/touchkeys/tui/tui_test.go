package tui

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pawndev/touchkeys/pkg/touchkeys"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(80, 25)
	t.Cleanup(s.Fini)
	return s
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKeyEventFor(t *testing.T) {
	m := DefaultMapping()
	cases := []struct {
		ev   *tcell.EventKey
		want touchkeys.KeyEvent
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), touchkeys.CharEvent("a")},
		{tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModShift), touchkeys.CharEvent("Q")},
		{tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), touchkeys.IDEvent(touchkeys.KeyIDBackspace)},
		{tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), touchkeys.IDEvent(touchkeys.KeyIDDelete)},
		{tcell.NewEventKey(tcell.KeyInsert, 0, tcell.ModNone), touchkeys.IDEvent(touchkeys.KeyIDInsert)},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), touchkeys.IDEvent(touchkeys.KeyIDLeft)},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), touchkeys.IDEvent(touchkeys.KeyIDRight)},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), touchkeys.IDEvent(touchkeys.KeyIDAccept)},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), touchkeys.IDEvent(touchkeys.KeyIDCancel)},
		{tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), touchkeys.IDEvent(touchkeys.KeyIDShift)},
	}
	for _, tc := range cases {
		got, ok := KeyEventFor(m, tc.ev)
		if !ok || got != tc.want {
			t.Errorf("KeyEventFor(%v) = %+v, %v; want %+v", tc.ev.Name(), got, ok, tc.want)
		}
	}

	if _, ok := KeyEventFor(m, tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)); ok {
		t.Error("F5 should not map to a key event")
	}
	if _, ok := KeyEventFor(m, tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt)); ok {
		t.Error("Alt+x should not type")
	}
}

func TestKeyEventFor_CustomMapping(t *testing.T) {
	m := DefaultMapping()
	m.TerminalKeys[int(tcell.KeyF2)] = string(touchkeys.KeyIDInsert)

	got, ok := KeyEventFor(m, tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone))
	if !ok || got.ID != touchkeys.KeyIDInsert {
		t.Fatalf("F2 = %+v, %v", got, ok)
	}
}

func openKeyboard(t *testing.T, s tcell.Screen) (*touchkeys.Keyboard, *Presenter) {
	t.Helper()
	p := NewPresenter(s)
	kb, err := touchkeys.New(touchkeys.Options{Presenter: p, Logger: discard()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := kb.Open("Name", "", nil); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return kb, p
}

func TestPresenter_DrawsPromptTextAndKeys(t *testing.T) {
	s := newSimScreen(t)
	kb, p := openKeyboard(t, s)
	_ = kb.HandleKey(touchkeys.CharEvent("z"))

	if r, _, _, _ := s.GetContent(0, promptRow); r != 'N' {
		t.Fatalf("prompt starts with %q", r)
	}
	if r, _, _, _ := s.GetContent(0, textRow); r != 'z' {
		t.Fatalf("text starts with %q", r)
	}

	_, _, st, _ := s.GetContent(1, textRow)
	if _, _, attrs := st.Decompose(); attrs&tcell.AttrReverse == 0 {
		t.Fatal("insert-mode cursor should be drawn reversed")
	}

	key, ok := p.HitTest(p.boxes[1].x0, keysRow)
	if !ok || key.Label != "q" {
		t.Fatalf("HitTest = %+v, %v", key, ok)
	}
	b := p.boxes[1]
	found := false
	for x := b.x0; x < b.x1; x++ {
		if r, _, _, _ := s.GetContent(x, b.y); r == 'q' {
			found = true
		}
	}
	if !found {
		t.Fatal("q label not drawn inside its key")
	}
}

func TestPresenter_OverwriteCursorUnderlined(t *testing.T) {
	s := newSimScreen(t)
	kb, _ := openKeyboard(t, s)
	_ = kb.HandleKey(touchkeys.IDEvent(touchkeys.KeyIDInsert))

	_, _, st, _ := s.GetContent(0, textRow)
	if _, _, attrs := st.Decompose(); attrs&tcell.AttrUnderline == 0 {
		t.Fatal("overwrite-mode cursor should be underlined")
	}

	kb.Tick()
	_, _, st, _ = s.GetContent(0, textRow)
	if _, _, attrs := st.Decompose(); attrs&(tcell.AttrUnderline|tcell.AttrReverse) != 0 {
		t.Fatal("blinked-off cursor should not be decorated")
	}
}

func TestPresenter_IndicatorAndStatus(t *testing.T) {
	s := newSimScreen(t)
	p := NewPresenter(s)
	p.Status = "help"
	p.Indicator = func(f touchkeys.Frame) string { return "INS" }
	kb, err := touchkeys.New(touchkeys.Options{Presenter: p, Logger: discard()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := kb.Open("Name", "", nil); err != nil {
		t.Fatalf("Open: %v", err)
	}

	w, h := s.Size()
	if r, _, _, _ := s.GetContent(w-3, promptRow); r != 'I' {
		t.Fatalf("indicator starts with %q", r)
	}
	if r, _, _, _ := s.GetContent(0, h-1); r != 'h' {
		t.Fatalf("status starts with %q", r)
	}
}

func TestPresenter_HiddenIgnoresClicks(t *testing.T) {
	s := newSimScreen(t)
	kb, p := openKeyboard(t, s)
	b := p.boxes[1]
	_ = kb.Close(touchkeys.OutcomeCancel)

	if _, ok := p.HitTest(b.x0, b.y); ok {
		t.Fatal("hidden keyboard should not take clicks")
	}
}

func TestHome_Button(t *testing.T) {
	s := newSimScreen(t)
	h := NewHome(s, "Home", "Keyboard", "hint")
	if h.ButtonAt(40, homeButtonRow) {
		t.Fatal("hidden home should not take clicks")
	}
	h.Show()

	x0, x1 := h.buttonSpan()
	if !h.ButtonAt(x0, homeButtonRow) || !h.ButtonAt(x1-1, homeButtonRow) {
		t.Fatal("button span not clickable")
	}
	if h.ButtonAt(x1, homeButtonRow) || h.ButtonAt(x0, homeButtonRow+1) {
		t.Fatal("click outside the button matched")
	}
	if r, _, _, _ := s.GetContent(x0, homeButtonRow); r != '[' {
		t.Fatalf("button drawn as %q", r)
	}

	h.SetMessage("done")
	if h.Message() != "done" {
		t.Fatalf("message = %q", h.Message())
	}
}

type harness struct {
	mu     sync.Mutex
	texts  []string
	result []touchkeys.Outcome
}

func newHost(t *testing.T, s tcell.Screen, hr *harness) *Host {
	t.Helper()
	home := NewHome(s, "Home", "Keyboard", "")
	p := NewPresenter(s)
	kb, err := touchkeys.New(touchkeys.Options{Presenter: p, Screen: home, Logger: discard()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	action := func(st *touchkeys.State, o touchkeys.Outcome) {
		hr.mu.Lock()
		hr.texts = append(hr.texts, st.Text())
		hr.result = append(hr.result, o)
		hr.mu.Unlock()
		st.Caller().Show()
	}
	return &Host{
		Screen:    s,
		Keyboard:  kb,
		Presenter: p,
		Home:      home,
		Mapping:   DefaultMapping(),
		Logger:    discard(),
		Open: func() error {
			return kb.Do(func(st *touchkeys.State) error {
				st.Caller().Hide()
				return st.Open("Name", "", action)
			})
		},
	}
}

func runHost(t *testing.T, h *Host) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		cancel()
		<-done
		t.Fatal("Run did not finish")
	}
}

func TestHost_TypeAndAccept(t *testing.T) {
	s := newSimScreen(t)
	hr := &harness{}
	h := newHost(t, s, hr)

	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'b', tcell.ModNone)
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	runHost(t, h)

	if len(hr.texts) != 1 || hr.texts[0] != "ab" || hr.result[0] != touchkeys.OutcomeOK {
		t.Fatalf("sessions = %q %v", hr.texts, hr.result)
	}
	if !h.Home.Visible() {
		t.Fatal("home should be shown after the session")
	}
}

func TestHost_ClickKeys(t *testing.T) {
	s := newSimScreen(t)
	hr := &harness{}
	h := newHost(t, s, hr)

	// Lay the keyboard out once to learn where q and cancel are drawn.
	kb, p := openKeyboard(t, s)
	q := p.boxes[1]
	var cancelBox cellBox
	for _, b := range p.boxes {
		if b.key.ID == touchkeys.KeyIDCancel {
			cancelBox = b
		}
	}
	_ = kb.Close(touchkeys.OutcomeCancel)

	h.Home.Show()
	x0, _ := h.Home.buttonSpan()
	h.Home.Hide()

	click := func(x, y int) {
		s.InjectMouse(x, y, tcell.Button1, tcell.ModNone)
		s.InjectMouse(x, y, tcell.ButtonNone, tcell.ModNone)
	}
	click(x0, homeButtonRow)
	click(q.x0, q.y)
	click(cancelBox.x0, cancelBox.y)
	s.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	runHost(t, h)

	if len(hr.texts) != 1 || hr.texts[0] != "q" || hr.result[0] != touchkeys.OutcomeCancel {
		t.Fatalf("sessions = %q %v", hr.texts, hr.result)
	}
}

func TestHost_ContextCancel(t *testing.T) {
	s := newSimScreen(t)
	h := newHost(t, s, &harness{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run ignored context cancel")
	}
}
