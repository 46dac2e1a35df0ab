package touchkeys

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// A keyset file describes rows of keys:
//
//	name = "azerty"
//
//	[[rows]]
//	keys = [
//	  { labels = ["a", "A", "1"] },
//	  { id = "backspace", width = 2.0 },
//	]
//
// Width defaults to 1. A character key has one label shared by all layers or
// one label per layer. Structural keys take their default glyph when labels
// are omitted.
type keysetFile struct {
	Name string      `toml:"name"`
	Rows []keysetRow `toml:"rows"`
}

type keysetRow struct {
	Keys []keysetKey `toml:"keys"`
}

type keysetKey struct {
	Width    float64  `toml:"width"`
	ID       string   `toml:"id"`
	Labels   []string `toml:"labels"`
	Disabled bool     `toml:"disabled"`
}

// ParseKeysetTOML builds a keyset from the TOML form described above.
func ParseKeysetTOML(data []byte) (*KeysetTable, error) {
	var file keysetFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("failed to decode keyset: %w", err)
	}

	rows := make([][]KeyDef, 0, len(file.Rows))
	for r, row := range file.Rows {
		defs := make([]KeyDef, 0, len(row.Keys))
		for c, k := range row.Keys {
			def, err := k.toKeyDef()
			if err != nil {
				return nil, fmt.Errorf("keyset %q key %d,%d: %w", file.Name, r, c, err)
			}
			defs = append(defs, def)
		}
		rows = append(rows, defs)
	}

	name := file.Name
	if name == "" {
		name = "custom"
	}
	return NewKeysetTable(name, rows)
}

func (k keysetKey) toKeyDef() (KeyDef, error) {
	def := KeyDef{Width: k.Width, ID: KeyID(k.ID), Disabled: k.Disabled}
	if def.Width == 0 {
		def.Width = 1
	}

	switch len(k.Labels) {
	case 0:
		l := def.ID.DefaultLabel()
		def.Labels = [LayerCount]string{l, l, l}
	case 1:
		def.Labels = [LayerCount]string{k.Labels[0], k.Labels[0], k.Labels[0]}
	case LayerCount:
		copy(def.Labels[:], k.Labels)
	default:
		return def, fmt.Errorf("%d labels, want 1 or %d: %w", len(k.Labels), LayerCount, ErrInvalidKeyset)
	}
	return def, nil
}

// LoadKeysetFile reads a keyset from a TOML file.
func LoadKeysetFile(path string) (*KeysetTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyset file: %w", err)
	}
	return ParseKeysetTOML(data)
}
