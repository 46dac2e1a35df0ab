//go:build linux

package evdevinput

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	evdev "github.com/holoplot/go-evdev"
	"github.com/pawndev/touchkeys/pkg/touchkeys"
	"github.com/pawndev/touchkeys/pkg/touchkeys/internal"
)

type eventSource interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Reader forwards key presses from a Linux input device to a keyboard.
type Reader struct {
	src        eventSource
	keyboard   *touchkeys.Keyboard
	translator *Translator

	// Logger defaults to the internal logger.
	Logger *slog.Logger
}

// Open opens an input device such as /dev/input/event3. A nil mapping uses
// the defaults with any custom mapping applied.
func Open(path string, kb *touchkeys.Keyboard, mapping *internal.InputMapping) (*Reader, error) {
	if mapping == nil {
		mapping = internal.ResolveInputMapping(DefaultMapping())
	}
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input device %s: %w", path, err)
	}
	return newReader(dev, kb, mapping), nil
}

func newReader(src eventSource, kb *touchkeys.Keyboard, mapping *internal.InputMapping) *Reader {
	return &Reader{
		src:        src,
		keyboard:   kb,
		translator: NewTranslator(mapping),
	}
}

// Run reads events until the device fails or ctx ends. Closing the device
// unblocks the pending read.
func (r *Reader) Run(ctx context.Context) error {
	if r.Logger == nil {
		r.Logger = internal.GetInternalLogger()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = r.src.Close()
	}()

	for {
		ev, err := r.src.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read input event: %w", err)
		}

		kev, ok := r.translator.Translate(ev)
		if !ok {
			continue
		}
		if err := r.keyboard.HandleKey(kev); err != nil {
			if errors.Is(err, touchkeys.ErrPoisoned) {
				return err
			}
			r.Logger.Debug("Input device key ignored", "id", string(kev.ID), "char", kev.Char, "error", err)
		}
	}
}
