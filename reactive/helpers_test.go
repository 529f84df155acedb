package reactive_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/delaneyj/quanta/reactive"
)

func newSystem(t *testing.T, opts ...reactive.Option) *reactive.ReactiveSystem {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return reactive.CreateReactiveSystem(append([]reactive.Option{reactive.WithLogger(logger)}, opts...)...)
}

// newLoggedSystem records warnings and errors into the returned buffer.
func newLoggedSystem(t *testing.T, opts ...reactive.Option) (*reactive.ReactiveSystem, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return reactive.CreateReactiveSystem(append([]reactive.Option{reactive.WithLogger(logger)}, opts...)...), buf
}

func object(t *testing.T, rs *reactive.ReactiveSystem, fields map[string]any) *reactive.ObservedObject {
	t.Helper()
	return rs.Object(reactive.NewObject(fields))
}
