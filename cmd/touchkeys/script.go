package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pawndev/touchkeys/pkg/touchkeys"
)

var scriptKeys = map[string]touchkeys.KeyID{
	string(touchkeys.KeyIDBackspace): touchkeys.KeyIDBackspace,
	string(touchkeys.KeyIDDelete):    touchkeys.KeyIDDelete,
	string(touchkeys.KeyIDInsert):    touchkeys.KeyIDInsert,
	string(touchkeys.KeyIDShift):     touchkeys.KeyIDShift,
	string(touchkeys.KeyIDLeft):      touchkeys.KeyIDLeft,
	string(touchkeys.KeyIDRight):     touchkeys.KeyIDRight,
	string(touchkeys.KeyIDAccept):    touchkeys.KeyIDAccept,
	string(touchkeys.KeyIDCancel):    touchkeys.KeyIDCancel,
}

// parseScript turns a keystroke script into key events. Plain characters
// type themselves, {name} presses a structural key and {{ types a brace.
func parseScript(script string) ([]touchkeys.KeyEvent, error) {
	var events []touchkeys.KeyEvent
	rest := script
	for rest != "" {
		if strings.HasPrefix(rest, "{{") {
			events = append(events, touchkeys.CharEvent("{"))
			rest = rest[2:]
			continue
		}
		if rest[0] == '{' {
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated key name in %q", rest)
			}
			id, ok := scriptKeys[rest[1:end]]
			if !ok {
				return nil, fmt.Errorf("unknown key %q", rest[1:end])
			}
			events = append(events, touchkeys.IDEvent(id))
			rest = rest[end+1:]
			continue
		}
		r, size := utf8.DecodeRuneInString(rest)
		if r == utf8.RuneError && size == 1 {
			return nil, fmt.Errorf("invalid UTF-8 at byte %d", len(script)-len(rest))
		}
		events = append(events, touchkeys.CharEvent(string(r)))
		rest = rest[size:]
	}
	return events, nil
}
