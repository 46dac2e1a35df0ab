//go:build !linux

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pawndev/touchkeys/pkg/touchkeys"
)

func startEvdev(_ context.Context, path string, _ *touchkeys.Keyboard, _ *slog.Logger) error {
	if path == "" {
		return nil
	}
	return errors.New("evdev input is only available on linux")
}
