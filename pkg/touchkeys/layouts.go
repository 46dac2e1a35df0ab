package touchkeys

import (
	"fmt"
	"strings"
)

// KeyboardLayout selects one of the built-in keysets.
type KeyboardLayout int

const (
	// LayoutGeneral is a QWERTY keyset with lower, upper and symbol layers.
	LayoutGeneral KeyboardLayout = iota
	// LayoutURL puts common URL fragments and punctuation above the letters.
	LayoutURL
	// LayoutNumeric is a numpad.
	LayoutNumeric
)

func (l KeyboardLayout) String() string {
	switch l {
	case LayoutGeneral:
		return "general"
	case LayoutURL:
		return "url"
	case LayoutNumeric:
		return "numeric"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// ParseKeyboardLayout maps a layout name as written in config files and flags.
func ParseKeyboardLayout(name string) (KeyboardLayout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "general", "qwerty":
		return LayoutGeneral, nil
	case "url":
		return LayoutURL, nil
	case "numeric", "number", "numpad":
		return LayoutNumeric, nil
	default:
		return LayoutGeneral, fmt.Errorf("unknown keyboard layout %q", name)
	}
}

// URLShortcut is a key on the URL layout that types a whole fragment.
// SymbolValue is typed when the symbol layer is active.
type URLShortcut struct {
	Value       string
	SymbolValue string
}

var DefaultURLShortcuts = []URLShortcut{
	{Value: "https://", SymbolValue: "http://"},
	{Value: "www.", SymbolValue: "ftp://"},
	{Value: ".com", SymbolValue: ".co"},
	{Value: ".org", SymbolValue: ".tv"},
	{Value: ".net", SymbolValue: ".me"},
}

// BuiltinKeyset returns a fresh table for one of the built-in layouts.
func BuiltinKeyset(layout KeyboardLayout) (*KeysetTable, error) {
	switch layout {
	case LayoutURL:
		return URLKeyset(DefaultURLShortcuts)
	case LayoutNumeric:
		return NewKeysetTable(layout.String(), numericRows())
	default:
		return NewKeysetTable(LayoutGeneral.String(), generalRows())
	}
}

// letterRow builds character keys for letters, shifting to upper case on the
// upper layer and to symbols on the symbol layer.
func letterRow(letters string, symbols []string) []KeyDef {
	row := make([]KeyDef, 0, len(symbols))
	for i, r := range letters {
		lower := string(r)
		row = append(row, CharKey(1, lower, strings.ToUpper(lower), symbols[i]))
	}
	return row
}

func generalRows() [][]KeyDef {
	row1 := []KeyDef{Spacer(0.5)}
	row1 = append(row1, CharKey(1, "q", "Q", "1"), CharKey(1, "w", "W", "2"), CharKey(1, "e", "E", "3"),
		CharKey(1, "r", "R", "4"), CharKey(1, "t", "T", "5"), CharKey(1, "y", "Y", "6"),
		CharKey(1, "u", "U", "7"), CharKey(1, "i", "I", "8"), CharKey(1, "o", "O", "9"),
		CharKey(1, "p", "P", "0"), CharKey(1, "-", "_", "¬"), CharKey(1, "+", "=", "€"),
		ControlKey(2, KeyIDBackspace))

	row2 := []KeyDef{ControlKey(1, KeyIDDelete)}
	row2 = append(row2, letterRow("asdfghjkl", []string{"!", "\"", "£", "$", "%", "^", "&", "*", "("})...)
	row2 = append(row2, CharKey(1, ";", ":", ")"), CharKey(1, "'", "@", "`"), CharKey(1, "#", "~", "#"),
		ControlKey(1, KeyIDInsert))

	row3 := []KeyDef{ControlKey(1.75, KeyIDShift)}
	row3 = append(row3, letterRow("zxcvbnm", []string{"{", "}", "[", "]", "<", ">", "|"})...)
	row3 = append(row3, CharKey(1, ",", "<", ","), CharKey(1, ".", ">", "."), CharKey(1, "/", "?", "\\"),
		Spacer(3))

	row4 := []KeyDef{
		ControlKey(3, KeyIDCancel),
		Spacer(0.25),
		ControlKey(1, KeyIDLeft),
		SameKey(8, " "),
		ControlKey(1, KeyIDRight),
		Spacer(0.25),
		ControlKey(3, KeyIDAccept),
	}

	return [][]KeyDef{row1, row2, row3, row4}
}

func numericRows() [][]KeyDef {
	return [][]KeyDef{
		{SameKey(1, "7"), SameKey(1, "8"), SameKey(1, "9"), ControlKey(1.5, KeyIDBackspace)},
		{SameKey(1, "4"), SameKey(1, "5"), SameKey(1, "6"), ControlKey(1.5, KeyIDDelete)},
		{SameKey(1, "1"), SameKey(1, "2"), SameKey(1, "3"), ControlKey(0.75, KeyIDLeft), ControlKey(0.75, KeyIDRight)},
		{ControlKey(1, KeyIDCancel), SameKey(1, "0"), CharKey(1, ".", "-", ","), ControlKey(0.75, KeyIDShift), ControlKey(0.75, KeyIDAccept)},
	}
}

// URLKeyset builds the URL layout with up to five shortcut keys in its first row.
func URLKeyset(shortcuts []URLShortcut) (*KeysetTable, error) {
	if len(shortcuts) == 0 {
		shortcuts = DefaultURLShortcuts
	}
	if len(shortcuts) > 5 {
		shortcuts = shortcuts[:5]
	}

	row1 := make([]KeyDef, 0, len(shortcuts)+1)
	for _, s := range shortcuts {
		symbol := s.SymbolValue
		if symbol == "" {
			symbol = s.Value
		}
		row1 = append(row1, CharKey(2, s.Value, s.Value, symbol))
	}
	row1 = append(row1, ControlKey(2, KeyIDBackspace))

	urlChars := []string{"/", ":", "@", "-", "_", ".", "~", "?", "#", "&"}
	urlSymbols := []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	row2 := make([]KeyDef, 0, len(urlChars)+1)
	for i, c := range urlChars {
		row2 = append(row2, CharKey(1, c, c, urlSymbols[i]))
	}
	row2 = append(row2, ControlKey(2, KeyIDDelete))

	row3 := append(letterRow("qwertyuiop", strings.Split("qwertyuiop", "")), ControlKey(2, KeyIDInsert))
	row4 := append([]KeyDef{Spacer(0.5)}, letterRow("asdfghjkl", strings.Split("asdfghjkl", ""))...)
	row4 = append(row4, Spacer(0.5), ControlKey(2, KeyIDShift))
	row5 := []KeyDef{ControlKey(2, KeyIDCancel), ControlKey(1, KeyIDLeft)}
	row5 = append(row5, letterRow("zxcvbnm", strings.Split("zxcvbnm", ""))...)
	row5 = append(row5, ControlKey(1, KeyIDRight), ControlKey(2, KeyIDAccept))

	return NewKeysetTable(LayoutURL.String(), [][]KeyDef{row1, row2, row3, row4, row5})
}
