//go:build linux

package evdevinput

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/pawndev/touchkeys/pkg/touchkeys"
)

func key(code evdev.EvCode, value int32) *evdev.InputEvent {
	return &evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value}
}

func TestTranslate(t *testing.T) {
	tr := NewTranslator(nil)
	cases := []struct {
		name string
		ev   *evdev.InputEvent
		want touchkeys.KeyEvent
		ok   bool
	}{
		{"letter", key(evdev.KEY_A, keyPressed), touchkeys.CharEvent("a"), true},
		{"repeat", key(evdev.KEY_A, keyRepeated), touchkeys.CharEvent("a"), true},
		{"release", key(evdev.KEY_A, keyReleased), touchkeys.KeyEvent{}, false},
		{"digit", key(evdev.KEY_7, keyPressed), touchkeys.CharEvent("7"), true},
		{"keypad", key(evdev.KEY_KP7, keyPressed), touchkeys.CharEvent("7"), true},
		{"backspace", key(evdev.KEY_BACKSPACE, keyPressed), touchkeys.IDEvent(touchkeys.KeyIDBackspace), true},
		{"enter", key(evdev.KEY_ENTER, keyPressed), touchkeys.IDEvent(touchkeys.KeyIDAccept), true},
		{"escape", key(evdev.KEY_ESC, keyPressed), touchkeys.IDEvent(touchkeys.KeyIDCancel), true},
		{"tab", key(evdev.KEY_TAB, keyPressed), touchkeys.IDEvent(touchkeys.KeyIDShift), true},
		{"unknown", key(evdev.KEY_F5, keyPressed), touchkeys.KeyEvent{}, false},
		{"not a key", &evdev.InputEvent{Type: evdev.EV_SYN}, touchkeys.KeyEvent{}, false},
	}
	for _, tc := range cases {
		got, ok := tr.Translate(tc.ev)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: Translate = %+v, %v; want %+v, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTranslate_Shift(t *testing.T) {
	tr := NewTranslator(nil)

	if _, ok := tr.Translate(key(evdev.KEY_LEFTSHIFT, keyPressed)); ok {
		t.Fatal("shift alone should not produce an event")
	}
	if got, _ := tr.Translate(key(evdev.KEY_1, keyPressed)); got.Char != "!" {
		t.Fatalf("shift+1 = %q", got.Char)
	}
	_, _ = tr.Translate(key(evdev.KEY_RIGHTSHIFT, keyPressed))
	_, _ = tr.Translate(key(evdev.KEY_LEFTSHIFT, keyReleased))
	if got, _ := tr.Translate(key(evdev.KEY_Q, keyPressed)); got.Char != "Q" {
		t.Fatalf("right shift held: %q", got.Char)
	}
	_, _ = tr.Translate(key(evdev.KEY_RIGHTSHIFT, keyReleased))
	if tr.Shifted() {
		t.Fatal("both shifts released")
	}
	if got, _ := tr.Translate(key(evdev.KEY_Q, keyPressed)); got.Char != "q" {
		t.Fatalf("no shift: %q", got.Char)
	}
}

func TestTranslate_CustomMapping(t *testing.T) {
	m := DefaultMapping()
	m.EvdevKeys[int(evdev.KEY_F5)] = string(touchkeys.KeyIDInsert)
	m.EvdevKeys[int(evdev.KEY_A)] = string(touchkeys.KeyIDLeft)
	tr := NewTranslator(m)

	if got, ok := tr.Translate(key(evdev.KEY_F5, keyPressed)); !ok || got.ID != touchkeys.KeyIDInsert {
		t.Fatalf("F5 = %+v, %v", got, ok)
	}
	if got, _ := tr.Translate(key(evdev.KEY_A, keyPressed)); got.ID != touchkeys.KeyIDLeft {
		t.Fatalf("mapping should win over characters, got %+v", got)
	}
}

type fakeSource struct {
	mu     sync.Mutex
	events []*evdev.InputEvent
	closed chan struct{}
	once   sync.Once
}

func newFakeSource(events ...*evdev.InputEvent) *fakeSource {
	return &fakeSource{events: events, closed: make(chan struct{})}
}

func (f *fakeSource) ReadOne() (*evdev.InputEvent, error) {
	f.mu.Lock()
	if len(f.events) > 0 {
		ev := f.events[0]
		f.events = f.events[1:]
		f.mu.Unlock()
		return ev, nil
	}
	f.mu.Unlock()
	<-f.closed
	return nil, errors.New("device closed")
}

func (f *fakeSource) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func TestReader_TypesIntoKeyboard(t *testing.T) {
	kb, err := touchkeys.New(touchkeys.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	results := make(chan string, 1)
	_ = kb.Open("", "", func(s *touchkeys.State, o touchkeys.Outcome) {
		results <- s.Text()
	})

	src := newFakeSource(
		key(evdev.KEY_H, keyPressed), key(evdev.KEY_H, keyReleased),
		key(evdev.KEY_LEFTSHIFT, keyPressed),
		key(evdev.KEY_I, keyPressed), key(evdev.KEY_I, keyReleased),
		key(evdev.KEY_LEFTSHIFT, keyReleased),
		key(evdev.KEY_ENTER, keyPressed),
		key(evdev.KEY_X, keyPressed),
	)
	r := newReader(src, kb, nil)
	r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case text := <-results:
		if text != "hI" {
			t.Fatalf("text = %q, want hI", text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session never closed")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestReader_DeviceError(t *testing.T) {
	kb, _ := touchkeys.New(touchkeys.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	src := newFakeSource()
	_ = src.Close()

	r := newReader(src, kb, nil)
	r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := r.Run(context.Background()); err == nil || errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want a read error", err)
	}
}
