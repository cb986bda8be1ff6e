package orawire

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

const defaultFetchSize = 25

// Options configures a protocol engine. Everything is explicit; nothing
// is read from the environment.
type Options struct {
	// Logger receives the engine's structured logs. Nil discards them.
	Logger *slog.Logger

	// LogLevel gates the default logger when Logger is nil.
	LogLevel slog.Level

	// FetchSize is the number of rows requested per fetch round trip.
	FetchSize uint32
}

func (o *Options) setDefaults() {
	if o.FetchSize == 0 {
		o.FetchSize = defaultFetchSize
	}
}

func (o *Options) validate() error {
	if o.FetchSize > 1<<16 {
		return errors.Errorf("fetch size %d out of range", o.FetchSize)
	}
	return nil
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: o.LogLevel}))
}
