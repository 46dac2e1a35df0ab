package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

const MappingPathEnvVar = "INPUT_MAPPING_PATH"

var inputMappingBytes []byte

func SetInputMappingBytes(data []byte) {
	inputMappingBytes = data
}

// Source is a kind of host that delivers raw key codes.
type Source int

const (
	SourceSDL Source = iota
	SourceTerminal
	SourceEvdev
)

func (s Source) String() string {
	switch s {
	case SourceSDL:
		return "sdl"
	case SourceTerminal:
		return "terminal"
	case SourceEvdev:
		return "evdev"
	default:
		return "unknown"
	}
}

// InputMapping maps raw host key codes to logical key ids, per source.
type InputMapping struct {
	SDLKeys      map[int]string
	TerminalKeys map[int]string
	EvdevKeys    map[int]string
}

// Mapping is the JSON form of an InputMapping.
type Mapping struct {
	SDLKeyMap      map[int]string `json:"sdl_key_map,omitempty"`
	TerminalKeyMap map[int]string `json:"terminal_key_map,omitempty"`
	EvdevKeyMap    map[int]string `json:"evdev_key_map,omitempty"`
}

func NewInputMapping() *InputMapping {
	return &InputMapping{
		SDLKeys:      make(map[int]string),
		TerminalKeys: make(map[int]string),
		EvdevKeys:    make(map[int]string),
	}
}

// Keys returns the code table for one source.
func (im *InputMapping) Keys(source Source) map[int]string {
	switch source {
	case SourceSDL:
		return im.SDLKeys
	case SourceTerminal:
		return im.TerminalKeys
	case SourceEvdev:
		return im.EvdevKeys
	default:
		return nil
	}
}

// Lookup returns the logical id bound to a raw code.
func (im *InputMapping) Lookup(source Source, code int) (string, bool) {
	id, ok := im.Keys(source)[code]
	return id, ok
}

// Overlay returns a copy of im with every entry of custom applied on top.
func (im *InputMapping) Overlay(custom *InputMapping) *InputMapping {
	out := NewInputMapping()
	for _, src := range []Source{SourceSDL, SourceTerminal, SourceEvdev} {
		for code, id := range im.Keys(src) {
			out.Keys(src)[code] = id
		}
		if custom == nil {
			continue
		}
		for code, id := range custom.Keys(src) {
			out.Keys(src)[code] = id
		}
	}
	return out
}

// ResolveInputMapping applies a custom mapping from embedded bytes if set,
// or from the file named by the environment variable, on top of defaults.
func ResolveInputMapping(defaults *InputMapping) *InputMapping {
	if len(inputMappingBytes) > 0 {
		mapping, err := LoadInputMappingFromBytes(inputMappingBytes)
		if err == nil {
			GetInternalLogger().Info("Loaded custom input mapping from embedded bytes")
			return defaults.Overlay(mapping)
		}
		GetInternalLogger().Warn("Failed to load custom input mapping from bytes, trying file path", "error", err)
	}

	mappingPath := os.Getenv(MappingPathEnvVar)
	if mappingPath != "" {
		mapping, err := LoadInputMappingFromJSON(mappingPath)
		if err == nil {
			GetInternalLogger().Info("Loaded custom input mapping from environment variable", "path", mappingPath)
			return defaults.Overlay(mapping)
		}
		GetInternalLogger().Warn("Failed to load custom input mapping, using default", "path", mappingPath, "error", err)
	}
	return defaults.Overlay(nil)
}

func LoadInputMappingFromJSON(filePath string) (*InputMapping, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return LoadInputMappingFromBytes(data)
}

func LoadInputMappingFromBytes(data []byte) (*InputMapping, error) {
	var serializableMapping Mapping
	err := json.Unmarshal(data, &serializableMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	mapping := NewInputMapping()
	for code, id := range serializableMapping.SDLKeyMap {
		mapping.SDLKeys[code] = id
	}
	for code, id := range serializableMapping.TerminalKeyMap {
		mapping.TerminalKeys[code] = id
	}
	for code, id := range serializableMapping.EvdevKeyMap {
		mapping.EvdevKeys[code] = id
	}
	return mapping, nil
}

// ToJSON converts the InputMapping to JSON bytes in the export format.
// Keys are raw host codes, values are logical key ids.
func (im *InputMapping) ToJSON() ([]byte, error) {
	serializableMapping := &Mapping{
		SDLKeyMap:      im.SDLKeys,
		TerminalKeyMap: im.TerminalKeys,
		EvdevKeyMap:    im.EvdevKeys,
	}
	return json.MarshalIndent(serializableMapping, "", "  ")
}

func (im *InputMapping) SaveToJSON(filePath string) error {
	data, err := im.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal mapping to JSON: %w", err)
	}

	err = os.WriteFile(filePath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}
