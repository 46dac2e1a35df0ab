package touchkeys

import "fmt"

// KeyID is the logical identity of a key, independent of the glyph it shows
// or the physical key that produced it. The empty id is a plain character key.
type KeyID string

const (
	KeyIDChar      KeyID = ""
	KeyIDBackspace KeyID = "backspace"
	KeyIDDelete    KeyID = "delete"
	KeyIDInsert    KeyID = "insert"
	KeyIDShift     KeyID = "shift"
	KeyIDLeft      KeyID = "left"
	KeyIDRight     KeyID = "right"
	KeyIDAccept    KeyID = "ok"
	KeyIDCancel    KeyID = "cancel"
	KeyIDSpacer    KeyID = "spacer"

	// KeyIDDisabled is accepted on inbound events for hosts that mark inert
	// keys by id. Key definitions use KeyDef.Disabled instead.
	KeyIDDisabled KeyID = "disabled"
)

var structuralLabels = map[KeyID]string{
	KeyIDBackspace: "⌫",
	KeyIDDelete:    "Del",
	KeyIDInsert:    "Ins",
	KeyIDShift:     "⇧",
	KeyIDLeft:      "◁",
	KeyIDRight:     "▷",
	KeyIDAccept:    "✔",
	KeyIDCancel:    "🗙",
}

// Structural reports whether the id names an editing or control key.
func (id KeyID) Structural() bool {
	_, ok := structuralLabels[id]
	return ok
}

func (id KeyID) known() bool {
	return id == KeyIDChar || id == KeyIDSpacer || id.Structural()
}

// DefaultLabel is the glyph shown on a structural key.
func (id KeyID) DefaultLabel() string {
	return structuralLabels[id]
}

// Layers of every keyset.
const (
	LayerLower = iota
	LayerUpper
	LayerSymbols

	LayerCount
)

// KeyDef describes one key position. Width is relative to the other keys of
// the keyset. Character keys type Labels[layer].
type KeyDef struct {
	Width    float64
	ID       KeyID
	Labels   [LayerCount]string
	Disabled bool
}

// CharKey is a character key with one label per layer.
func CharKey(width float64, lower, upper, symbol string) KeyDef {
	return KeyDef{Width: width, Labels: [LayerCount]string{lower, upper, symbol}}
}

// SameKey is a character key that types the same text on every layer.
func SameKey(width float64, text string) KeyDef {
	return CharKey(width, text, text, text)
}

// ControlKey is a structural key labelled with its default glyph.
func ControlKey(width float64, id KeyID) KeyDef {
	l := id.DefaultLabel()
	return KeyDef{Width: width, ID: id, Labels: [LayerCount]string{l, l, l}}
}

func Spacer(width float64) KeyDef {
	return KeyDef{Width: width, ID: KeyIDSpacer}
}

// Key is a key as seen on the active layer.
type Key struct {
	Row     int
	Col     int
	ID      KeyID
	Width   float64
	Label   string
	Enabled bool
}

// Interactive reports whether the key reacts to presses at all.
func (k Key) Interactive() bool {
	return k.ID != KeyIDSpacer
}

// Event is the key event produced by pressing the key.
func (k Key) Event() KeyEvent {
	ev := KeyEvent{ID: k.ID, Disabled: !k.Enabled}
	if k.ID == KeyIDChar {
		ev.Char = k.Label
	}
	return ev
}

// KeysetTable is an ordered set of key rows shared by three layers. Only the
// labels change between layers; ids and widths stay at their positions.
type KeysetTable struct {
	name    string
	rows    [][]KeyDef
	enabled [][][LayerCount]bool
	layer   int
}

// NewKeysetTable validates rows and returns a table on the lower layer with
// every usable key enabled.
func NewKeysetTable(name string, rows [][]KeyDef) (*KeysetTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("keyset %q has no rows: %w", name, ErrInvalidKeyset)
	}

	copied := make([][]KeyDef, len(rows))
	for r, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("keyset %q row %d is empty: %w", name, r, ErrInvalidKeyset)
		}
		for c, def := range row {
			if def.Width <= 0 {
				return nil, fmt.Errorf("keyset %q key %d,%d has width %v: %w", name, r, c, def.Width, ErrInvalidKeyset)
			}
			if !def.ID.known() {
				return nil, fmt.Errorf("keyset %q key %d,%d has unknown id %q: %w", name, r, c, def.ID, ErrInvalidKeyset)
			}
			if def.ID == KeyIDChar {
				for layer, label := range def.Labels {
					if label == "" {
						return nil, fmt.Errorf("keyset %q key %d,%d has no label on layer %d: %w", name, r, c, layer, ErrInvalidKeyset)
					}
				}
			}
		}
		copied[r] = append([]KeyDef(nil), row...)
	}

	t := &KeysetTable{name: name, rows: copied}
	t.ApplyFilter(AcceptFilter{})
	return t, nil
}

func (t *KeysetTable) Name() string {
	return t.name
}

// ApplyFilter fixes the enabled flag of every key on every layer.
func (t *KeysetTable) ApplyFilter(f AcceptFilter) {
	t.enabled = make([][][LayerCount]bool, len(t.rows))
	for r, row := range t.rows {
		t.enabled[r] = make([][LayerCount]bool, len(row))
		for c, def := range row {
			for layer := 0; layer < LayerCount; layer++ {
				t.enabled[r][c][layer] = f.Enabled(def, layer)
			}
		}
	}
}

// Rotate moves to the next layer, wrapping after the last one.
func (t *KeysetTable) Rotate() {
	t.layer = (t.layer + 1) % LayerCount
}

func (t *KeysetTable) ResetLayer() {
	t.layer = LayerLower
}

func (t *KeysetTable) ActiveLayer() int {
	return t.layer
}

// Rows returns the number of key rows.
func (t *KeysetTable) Rows() int {
	return len(t.rows)
}

// ActiveLayerKeys returns a fresh copy of the keys on the active layer.
func (t *KeysetTable) ActiveLayerKeys() [][]Key {
	out := make([][]Key, len(t.rows))
	for r, row := range t.rows {
		out[r] = make([]Key, len(row))
		for c := range row {
			out[r][c] = t.key(r, c)
		}
	}
	return out
}

// KeyAt returns the key at row, col on the active layer.
func (t *KeysetTable) KeyAt(row, col int) (Key, bool) {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return Key{}, false
	}
	return t.key(row, col), true
}

func (t *KeysetTable) key(r, c int) Key {
	def := t.rows[r][c]
	return Key{
		Row:     r,
		Col:     c,
		ID:      def.ID,
		Width:   def.Width,
		Label:   def.Labels[t.layer],
		Enabled: t.enabled[r][c][t.layer],
	}
}
