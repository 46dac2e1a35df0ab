//go:build linux

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pawndev/touchkeys/pkg/touchkeys"
	"github.com/pawndev/touchkeys/pkg/touchkeys/evdevinput"
)

// startEvdev forwards a physical keyboard to kb until ctx ends. An empty
// path does nothing.
func startEvdev(ctx context.Context, path string, kb *touchkeys.Keyboard, logger *slog.Logger) error {
	if path == "" {
		return nil
	}
	r, err := evdevinput.Open(path, kb, nil)
	if err != nil {
		return err
	}
	r.Logger = logger
	go func() {
		if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Input device stopped", "path", path, "error", err)
		}
	}()
	return nil
}
