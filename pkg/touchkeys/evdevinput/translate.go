//go:build linux

package evdevinput

import (
	evdev "github.com/holoplot/go-evdev"
	"github.com/pawndev/touchkeys/pkg/touchkeys"
	"github.com/pawndev/touchkeys/pkg/touchkeys/internal"
)

// Key values of EV_KEY events.
const (
	keyReleased = 0
	keyPressed  = 1
	keyRepeated = 2
)

// KeyChar is the text a key types without and with shift held.
type KeyChar struct {
	Normal  string
	Shifted string
}

// KeyCharMap covers a US keyboard layout.
var KeyCharMap = map[evdev.EvCode]KeyChar{
	evdev.KEY_A: {"a", "A"}, evdev.KEY_B: {"b", "B"},
	evdev.KEY_C: {"c", "C"}, evdev.KEY_D: {"d", "D"},
	evdev.KEY_E: {"e", "E"}, evdev.KEY_F: {"f", "F"},
	evdev.KEY_G: {"g", "G"}, evdev.KEY_H: {"h", "H"},
	evdev.KEY_I: {"i", "I"}, evdev.KEY_J: {"j", "J"},
	evdev.KEY_K: {"k", "K"}, evdev.KEY_L: {"l", "L"},
	evdev.KEY_M: {"m", "M"}, evdev.KEY_N: {"n", "N"},
	evdev.KEY_O: {"o", "O"}, evdev.KEY_P: {"p", "P"},
	evdev.KEY_Q: {"q", "Q"}, evdev.KEY_R: {"r", "R"},
	evdev.KEY_S: {"s", "S"}, evdev.KEY_T: {"t", "T"},
	evdev.KEY_U: {"u", "U"}, evdev.KEY_V: {"v", "V"},
	evdev.KEY_W: {"w", "W"}, evdev.KEY_X: {"x", "X"},
	evdev.KEY_Y: {"y", "Y"}, evdev.KEY_Z: {"z", "Z"},

	evdev.KEY_1: {"1", "!"}, evdev.KEY_2: {"2", "@"},
	evdev.KEY_3: {"3", "#"}, evdev.KEY_4: {"4", "$"},
	evdev.KEY_5: {"5", "%"}, evdev.KEY_6: {"6", "^"},
	evdev.KEY_7: {"7", "&"}, evdev.KEY_8: {"8", "*"},
	evdev.KEY_9: {"9", "("}, evdev.KEY_0: {"0", ")"},

	evdev.KEY_KP0: {"0", "0"}, evdev.KEY_KP1: {"1", "1"},
	evdev.KEY_KP2: {"2", "2"}, evdev.KEY_KP3: {"3", "3"},
	evdev.KEY_KP4: {"4", "4"}, evdev.KEY_KP5: {"5", "5"},
	evdev.KEY_KP6: {"6", "6"}, evdev.KEY_KP7: {"7", "7"},
	evdev.KEY_KP8: {"8", "8"}, evdev.KEY_KP9: {"9", "9"},
	evdev.KEY_KPDOT: {".", "."},

	evdev.KEY_MINUS:      {"-", "_"},
	evdev.KEY_EQUAL:      {"=", "+"},
	evdev.KEY_LEFTBRACE:  {"[", "{"},
	evdev.KEY_RIGHTBRACE: {"]", "}"},
	evdev.KEY_SEMICOLON:  {";", ":"},
	evdev.KEY_APOSTROPHE: {"'", "\""},
	evdev.KEY_GRAVE:      {"`", "~"},
	evdev.KEY_BACKSLASH:  {"\\", "|"},
	evdev.KEY_COMMA:      {",", "<"},
	evdev.KEY_DOT:        {".", ">"},
	evdev.KEY_SLASH:      {"/", "?"},
	evdev.KEY_SPACE:      {" ", " "},
}

// DefaultMapping binds editing keys by evdev code. Entries win over
// KeyCharMap.
func DefaultMapping() *internal.InputMapping {
	m := internal.NewInputMapping()
	m.EvdevKeys = map[int]string{
		int(evdev.KEY_BACKSPACE): string(touchkeys.KeyIDBackspace),
		int(evdev.KEY_DELETE):    string(touchkeys.KeyIDDelete),
		int(evdev.KEY_INSERT):    string(touchkeys.KeyIDInsert),
		int(evdev.KEY_LEFT):      string(touchkeys.KeyIDLeft),
		int(evdev.KEY_RIGHT):     string(touchkeys.KeyIDRight),
		int(evdev.KEY_ENTER):     string(touchkeys.KeyIDAccept),
		int(evdev.KEY_KPENTER):   string(touchkeys.KeyIDAccept),
		int(evdev.KEY_ESC):       string(touchkeys.KeyIDCancel),
		int(evdev.KEY_TAB):       string(touchkeys.KeyIDShift),
	}
	return m
}

// Translator turns raw EV_KEY events into key events, tracking the shift
// keys itself.
type Translator struct {
	mapping    *internal.InputMapping
	leftShift  bool
	rightShift bool
}

func NewTranslator(m *internal.InputMapping) *Translator {
	if m == nil {
		m = DefaultMapping()
	}
	return &Translator{mapping: m}
}

func (t *Translator) Shifted() bool {
	return t.leftShift || t.rightShift
}

// Translate returns the key event for a press or auto-repeat. Releases,
// shift keys and unknown codes yield nothing.
func (t *Translator) Translate(ev *evdev.InputEvent) (touchkeys.KeyEvent, bool) {
	if ev == nil || ev.Type != evdev.EV_KEY {
		return touchkeys.KeyEvent{}, false
	}

	switch ev.Code {
	case evdev.KEY_LEFTSHIFT:
		t.leftShift = ev.Value != keyReleased
		return touchkeys.KeyEvent{}, false
	case evdev.KEY_RIGHTSHIFT:
		t.rightShift = ev.Value != keyReleased
		return touchkeys.KeyEvent{}, false
	}

	if ev.Value != keyPressed && ev.Value != keyRepeated {
		return touchkeys.KeyEvent{}, false
	}

	if id, ok := t.mapping.Lookup(internal.SourceEvdev, int(ev.Code)); ok {
		return touchkeys.IDEvent(touchkeys.KeyID(id)), true
	}
	if kc, ok := KeyCharMap[ev.Code]; ok {
		if t.Shifted() {
			return touchkeys.CharEvent(kc.Shifted), true
		}
		return touchkeys.CharEvent(kc.Normal), true
	}
	return touchkeys.KeyEvent{}, false
}
