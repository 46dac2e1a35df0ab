package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/pawndev/touchkeys/pkg/touchkeys"
	"github.com/pawndev/touchkeys/pkg/touchkeys/feedback"
	"github.com/pawndev/touchkeys/pkg/touchkeys/i18n"
	"github.com/pawndev/touchkeys/pkg/touchkeys/raster"
	"github.com/pawndev/touchkeys/pkg/touchkeys/sdlhost"
	"github.com/pawndev/touchkeys/pkg/touchkeys/tui"
)

type flags struct {
	config string
	host   string
	layout string
	keyset string
	accept string
	prompt string
	lang   string
	sound  bool
	evdev  string
	script string
	out    string
}

func parseFlags(args []string) (flags, *flag.FlagSet, error) {
	var f flags
	fs := flag.NewFlagSet("touchkeys", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", "", "path to a TOML config file")
	fs.StringVar(&f.host, "host", "", "display host: tui, sdl or png")
	fs.StringVar(&f.layout, "layout", "", "built-in layout: general, numeric or url")
	fs.StringVar(&f.keyset, "keyset", "", "path to a TOML keyset file")
	fs.StringVar(&f.accept, "accept", "", "characters the keyboard accepts, empty for all")
	fs.StringVar(&f.prompt, "prompt", "", "prompt shown above the text")
	fs.StringVar(&f.lang, "lang", "", "message language: en or es")
	fs.BoolVar(&f.sound, "sound", false, "play key click sounds")
	fs.StringVar(&f.evdev, "evdev", "", "read keys from a Linux input device")
	fs.StringVar(&f.script, "script", "", "keystrokes typed in png mode, e.g. \"abc{left}{ok}\"")
	fs.StringVar(&f.out, "out", "touchkeys.png", "output file in png mode")
	err := fs.Parse(args)
	return f, fs, err
}

// apply overrides config values with flags given on the command line.
func (f flags) apply(fs *flag.FlagSet, cfg touchkeys.Config) touchkeys.Config {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "host":
			cfg.Display.Host = f.host
		case "layout":
			cfg.Keyboard.Layout = f.layout
		case "keyset":
			cfg.Keyboard.KeysetFile = f.keyset
		case "accept":
			cfg.Keyboard.Accept = f.accept
		case "prompt":
			cfg.Keyboard.Prompt = f.prompt
		case "lang":
			cfg.Keyboard.Language = f.lang
		case "sound":
			cfg.Sound.Enabled = f.sound
		case "evdev":
			cfg.Input.EvdevDevice = f.evdev
		}
	})
	return cfg
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "touchkeys:", err)
		os.Exit(1)
	}
}

// messenger is the part of a home screen the close action writes to.
type messenger interface {
	touchkeys.Screen
	SetMessage(msg string)
}

// app ties one keyboard to the home screen that opens it.
type app struct {
	cfg      touchkeys.Config
	keyboard *touchkeys.Keyboard
	home     messenger
	logger   *slog.Logger
}

func run(args []string) error {
	f, fs, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := touchkeys.LoadConfig(f.config)
	if err != nil {
		return err
	}
	cfg = f.apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	touchkeys.SetLogDir(cfg.Log.Dir)
	touchkeys.SetLogFilename(cfg.Log.File)
	touchkeys.SetRawLogLevel(cfg.Log.Level)
	// The terminal belongs to tcell.
	touchkeys.SetLogQuiet(cfg.Display.Host == "tui")
	defer touchkeys.CloseLogger()
	logger := touchkeys.GetLogger()

	if err := i18n.InitDefault(); err != nil {
		return err
	}
	if err := i18n.SetWithCode(cfg.Keyboard.Language); err != nil {
		logger.Warn("Unsupported language, using English", "language", cfg.Keyboard.Language, "error", err)
	}
	if cfg.Input.MappingFile != "" {
		if err := touchkeys.SetInputMappingFile(cfg.Input.MappingFile); err != nil {
			return err
		}
	}

	opts, err := cfg.KeyboardOptions()
	if err != nil {
		return err
	}
	opts.Logger = logger

	if cfg.Sound.Enabled {
		player := feedback.NewPlayer(cfg.Sound.Volume)
		if err := player.Initialize(); err != nil {
			logger.Warn("Audio unavailable, sounds disabled", "error", err)
		} else {
			defer player.Cleanup()
			opts.Observer = player
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Display.Host {
	case "tui":
		return runTUI(ctx, cfg, opts, logger)
	case "sdl":
		return runSDL(ctx, cfg, opts, logger)
	default:
		return runPNG(cfg, opts, f.script, f.out, logger)
	}
}

func newApp(cfg touchkeys.Config, opts touchkeys.Options, home messenger, logger *slog.Logger) (*app, error) {
	opts.Screen = home
	kb, err := touchkeys.New(opts)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, keyboard: kb, home: home, logger: logger}, nil
}

// open hides the home screen and starts a session, as the home button does.
func (a *app) open() error {
	prompt := a.cfg.Keyboard.Prompt
	if prompt == "" {
		prompt = i18n.GetString("prompt_default")
	}
	return a.keyboard.Do(func(s *touchkeys.State) error {
		// A failed open aborts any shown session, so the home screen comes back.
		if err := s.Open(prompt, a.cfg.Keyboard.Accept, a.closed); err != nil {
			s.Caller().Show()
			return err
		}
		s.Caller().Hide()
		return nil
	})
}

func (a *app) closed(s *touchkeys.State, o touchkeys.Outcome) {
	var msg string
	if o == touchkeys.OutcomeOK {
		msg = i18n.GetStringWithData("result_ok", map[string]interface{}{"Text": s.Text()})
	} else {
		msg = i18n.GetString("result_cancel")
	}
	a.logger.Info(msg, "outcome", o.String())
	a.home.SetMessage(msg)
	s.Caller().Show()
}

// modeIndicator reads like "INS 3 characters".
func modeIndicator(f touchkeys.Frame) string {
	mode := i18n.GetString("mode_overwrite")
	if f.InsertMode {
		mode = i18n.GetString("mode_insert")
	}
	return mode + " " + i18n.GetPluralString("chars_count", utf8.RuneCountInString(f.Text()))
}

func (a *app) startBlink(ctx context.Context) (*touchkeys.BlinkScheduler, error) {
	blink := touchkeys.NewBlinkScheduler(a.keyboard, a.cfg.BlinkInterval())
	if err := blink.Start(ctx); err != nil {
		return nil, err
	}
	return blink, nil
}

func runTUI(ctx context.Context, cfg touchkeys.Config, opts touchkeys.Options, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	home := tui.NewHome(screen, i18n.GetString("home_title"), i18n.GetString("home_button"), i18n.GetString("home_hint"))
	presenter := tui.NewPresenter(screen)
	presenter.Status = i18n.GetString("help_keys")
	presenter.Indicator = modeIndicator
	opts.Presenter = presenter
	a, err := newApp(cfg, opts, home, logger)
	if err != nil {
		return err
	}

	blink, err := a.startBlink(ctx)
	if err != nil {
		return err
	}
	defer blink.Stop()
	if err := startEvdev(ctx, cfg.Input.EvdevDevice, a.keyboard, logger); err != nil {
		return err
	}

	host := &tui.Host{
		Screen:    screen,
		Keyboard:  a.keyboard,
		Presenter: presenter,
		Home:      home,
		Logger:    logger,
		Open:      a.open,
	}
	if err := host.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newSurface(cfg touchkeys.Config) (*raster.Surface, *raster.Home, error) {
	surface, err := raster.NewSurfaceSize(raster.ThemeByName(cfg.Display.Theme), cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return nil, nil, err
	}
	home := raster.NewHome(surface, i18n.GetString("home_title"), i18n.GetString("home_button"), i18n.GetString("home_hint"))
	return surface, home, nil
}

func runSDL(ctx context.Context, cfg touchkeys.Config, opts touchkeys.Options, logger *slog.Logger) error {
	surface, home, err := newSurface(cfg)
	if err != nil {
		return err
	}
	opts.Presenter = surface
	a, err := newApp(cfg, opts, home, logger)
	if err != nil {
		return err
	}

	blink, err := a.startBlink(ctx)
	if err != nil {
		return err
	}
	defer blink.Stop()
	if err := startEvdev(ctx, cfg.Input.EvdevDevice, a.keyboard, logger); err != nil {
		return err
	}

	host := &sdlhost.Host{
		Title:    i18n.GetString("home_title"),
		Keyboard: a.keyboard,
		Surface:  surface,
		Home:     home,
		Logger:   logger,
		Open:     a.open,
	}
	if err := host.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// runPNG opens one session, types script into it and writes the surface to
// out. An accepted or cancelled script leaves the home screen in the image.
func runPNG(cfg touchkeys.Config, opts touchkeys.Options, script, out string, logger *slog.Logger) error {
	events, err := parseScript(script)
	if err != nil {
		return err
	}
	surface, home, err := newSurface(cfg)
	if err != nil {
		return err
	}
	opts.Presenter = surface
	a, err := newApp(cfg, opts, home, logger)
	if err != nil {
		return err
	}

	home.Show()
	if err := a.open(); err != nil {
		return err
	}
	for _, ev := range events {
		if err := a.keyboard.HandleKey(ev); err != nil {
			logger.Debug("Scripted key rejected", "id", ev.ID, "char", ev.Char, "error", err)
		}
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := surface.WritePNG(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	logger.Info("Wrote keyboard image", "path", out, "version", surface.Version())
	return nil
}
