// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// NewHandler returns a new text [slog.Handler] writing to the given writer
// that only shows messages at or above the given level. Level names are
// colored when the writer is a terminal that supports it; otherwise
// the output is plain text. If source is true, the source file and line
// of the logging call are included.
func NewHandler(w io.Writer, level slog.Leveler, source bool) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: source,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			l, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			a.Value = slog.StringValue(out.String(l.String()).Foreground(levelColor(l)).String())
			return a
		},
	})
}

// levelColor returns the color used for the given level.
func levelColor(l slog.Level) termenv.Color {
	switch {
	case l >= slog.LevelError:
		return termenv.ANSIRed
	case l >= slog.LevelWarn:
		return termenv.ANSIYellow
	case l >= slog.LevelInfo:
		return termenv.ANSIGreen
	default:
		return termenv.ANSIBrightBlack
	}
}

// SetDefaultLogger sets the default logger to one writing to
// [os.Stderr] at [UserLevel], with source locations at [slog.LevelDebug].
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, UserLevel, UserLevel <= slog.LevelDebug)))
}
