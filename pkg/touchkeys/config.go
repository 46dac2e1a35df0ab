package touchkeys

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pawndev/touchkeys/pkg/touchkeys/internal"
)

const (
	EnvLogLevel    = "TOUCHKEYS_LOG_LEVEL"
	EnvHost        = "TOUCHKEYS_HOST"
	EnvEvdevDevice = "TOUCHKEYS_EVDEV"
	EnvSound       = "TOUCHKEYS_SOUND"
)

// Config is the on-disk configuration of the touchkeys program.
type Config struct {
	Keyboard KeyboardConfig `toml:"keyboard"`
	Log      LogConfig      `toml:"log"`
	Display  DisplayConfig  `toml:"display"`
	Input    InputConfig    `toml:"input"`
	Sound    SoundConfig    `toml:"sound"`
}

type KeyboardConfig struct {
	Layout     string `toml:"layout"`
	KeysetFile string `toml:"keyset_file"`
	Prompt     string `toml:"prompt"`
	Accept     string `toml:"accept"`
	Language   string `toml:"language"`
	BlinkMs    int    `toml:"blink_ms"`
	Overwrite  bool   `toml:"overwrite"`
	Strict     bool   `toml:"strict"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"`
	File  string `toml:"file"`
}

type DisplayConfig struct {
	Host   string `toml:"host"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Theme  string `toml:"theme"`
}

type InputConfig struct {
	MappingFile string `toml:"mapping_file"`
	EvdevDevice string `toml:"evdev_device"`
}

type SoundConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

func DefaultConfig() Config {
	return Config{
		Keyboard: KeyboardConfig{
			Layout:   LayoutGeneral.String(),
			Language: "en",
			BlinkMs:  int(DefaultBlinkInterval / time.Millisecond),
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "logs",
			File:  "touchkeys.log",
		},
		Display: DisplayConfig{
			Host:   "tui",
			Width:  800,
			Height: 480,
			Theme:  "light",
		},
		Sound: SoundConfig{
			Volume: 0.5,
		},
	}
}

// ParseConfig decodes TOML over the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("unknown config keys %v", undecoded)
	}
	return cfg, cfg.Validate()
}

// LoadConfig reads path, or returns the defaults when path is empty, and then
// applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg, err = ParseConfig(data)
		if err != nil {
			return cfg, err
		}
	}

	cfg = cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
func (c Config) ApplyEnv(getenv func(string) string) Config {
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvHost); v != "" {
		c.Display.Host = v
	}
	if v := getenv(internal.MappingPathEnvVar); v != "" {
		c.Input.MappingFile = v
	}
	if v := getenv(EnvEvdevDevice); v != "" {
		c.Input.EvdevDevice = v
	}
	if v := getenv(EnvSound); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Sound.Enabled = on
		}
	}
	return c
}

func (c Config) Validate() error {
	if _, err := ParseKeyboardLayout(c.Keyboard.Layout); err != nil {
		return err
	}
	switch c.Display.Host {
	case "tui", "sdl", "png":
	default:
		return fmt.Errorf("unknown display host %q", c.Display.Host)
	}
	if c.Keyboard.BlinkMs < 0 {
		return fmt.Errorf("blink_ms must not be negative, got %d", c.Keyboard.BlinkMs)
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return fmt.Errorf("sound volume must be within [0, 1], got %v", c.Sound.Volume)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	return nil
}

func (c Config) BlinkInterval() time.Duration {
	return time.Duration(c.Keyboard.BlinkMs) * time.Millisecond
}

// Keyset loads the configured keyset file or built-in layout.
func (c Config) Keyset() (*KeysetTable, error) {
	if c.Keyboard.KeysetFile != "" {
		return LoadKeysetFile(c.Keyboard.KeysetFile)
	}
	layout, err := ParseKeyboardLayout(c.Keyboard.Layout)
	if err != nil {
		return nil, err
	}
	return BuiltinKeyset(layout)
}

// KeyboardOptions returns the keyboard options described by the config.
func (c Config) KeyboardOptions() (Options, error) {
	keys, err := c.Keyset()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Keyset:    keys,
		Overwrite: c.Keyboard.Overwrite,
		Strict:    c.Keyboard.Strict,
	}, nil
}
