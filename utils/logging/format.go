// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Highlighting modes available
const (
	Plain Highlight = iota
	Colors
)

var (
	errUnknownHighlight = errors.New("unknown highlight")

	defaultEncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	termTimeEncoder = zapcore.TimeEncoderOfLayout("[01-02|15:04:05.000]")

	jsonEncoderConfig         zapcore.EncoderConfig
	consoleColorEncoderConfig zapcore.EncoderConfig
	consolePlainEncoderConfig zapcore.EncoderConfig
)

func init() {
	jsonEncoderConfig = defaultEncoderConfig
	jsonEncoderConfig.EncodeLevel = jsonLevelEncoder
	jsonEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consolePlainEncoderConfig = defaultEncoderConfig
	consolePlainEncoderConfig.EncodeLevel = levelEncoder
	consolePlainEncoderConfig.EncodeTime = termTimeEncoder

	consoleColorEncoderConfig = defaultEncoderConfig
	consoleColorEncoderConfig.EncodeLevel = colorLevelEncoder
	consoleColorEncoderConfig.EncodeTime = termTimeEncoder
}

// Highlight mode to apply to displayed logs
type Highlight int

// ToHighlight chooses a highlighting mode
func ToHighlight(h string, fd uintptr) (Highlight, error) {
	switch strings.ToUpper(h) {
	case "PLAIN":
		return Plain, nil
	case "COLORS":
		return Colors, nil
	case "AUTO":
		if !term.IsTerminal(int(fd)) {
			return Plain, nil
		}
		return Colors, nil
	default:
		return Plain, fmt.Errorf("%w: %s", errUnknownHighlight, h)
	}
}

func (h Highlight) MarshalJSON() ([]byte, error) {
	switch h {
	case Plain:
		return []byte("\"PLAIN\""), nil
	case Colors:
		return []byte("\"COLORS\""), nil
	default:
		return nil, errUnknownHighlight
	}
}

// ConsoleEncoder returns the encoder used for displayed logs.
func (h Highlight) ConsoleEncoder() zapcore.Encoder {
	if h == Colors {
		return zapcore.NewConsoleEncoder(consoleColorEncoderConfig)
	}
	return zapcore.NewConsoleEncoder(consolePlainEncoderConfig)
}

// FileEncoder returns the encoder used for logs written to disk.
func FileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(jsonEncoderConfig)
}

func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(Level(l).String())
}

func jsonLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(Level(l).LowerString())
}

func colorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	lvl := Level(l)
	s, ok := levelToColor[lvl]
	if !ok {
		s = Reset
	}
	enc.AppendString(s.Wrap(lvl.String()))
}
