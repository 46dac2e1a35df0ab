package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pawndev/touchkeys/pkg/touchkeys"
	"github.com/pawndev/touchkeys/pkg/touchkeys/internal"
)

// DefaultMapping binds terminal keys to keyboard ids. INPUT_MAPPING_PATH or
// touchkeys.SetInputMappingBytes can override entries by tcell key code.
func DefaultMapping() *internal.InputMapping {
	m := internal.NewInputMapping()
	m.TerminalKeys = map[int]string{
		int(tcell.KeyBackspace):  string(touchkeys.KeyIDBackspace),
		int(tcell.KeyBackspace2): string(touchkeys.KeyIDBackspace),
		int(tcell.KeyDelete):     string(touchkeys.KeyIDDelete),
		int(tcell.KeyInsert):     string(touchkeys.KeyIDInsert),
		int(tcell.KeyLeft):       string(touchkeys.KeyIDLeft),
		int(tcell.KeyRight):      string(touchkeys.KeyIDRight),
		int(tcell.KeyEnter):      string(touchkeys.KeyIDAccept),
		int(tcell.KeyEscape):     string(touchkeys.KeyIDCancel),
		int(tcell.KeyTab):        string(touchkeys.KeyIDShift),
	}
	return m
}

// ResolvedMapping is DefaultMapping with any custom mapping applied.
func ResolvedMapping() *internal.InputMapping {
	return internal.ResolveInputMapping(DefaultMapping())
}

// KeyEventFor translates a terminal key press. Printable runes type
// themselves; other keys go through the mapping.
func KeyEventFor(m *internal.InputMapping, ev *tcell.EventKey) (touchkeys.KeyEvent, bool) {
	if ev == nil {
		return touchkeys.KeyEvent{}, false
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) == 0 {
		return touchkeys.CharEvent(string(ev.Rune())), true
	}
	id, ok := m.Lookup(internal.SourceTerminal, int(ev.Key()))
	if !ok {
		return touchkeys.KeyEvent{}, false
	}
	return touchkeys.IDEvent(touchkeys.KeyID(id)), true
}
