// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"errors"
	"fmt"
	"path/filepath"
)

var errMissingLoggerName = errors.New("logger name must not be empty")

// RotatingWriterConfig controls the on-disk log files.
type RotatingWriterConfig struct {
	// Directory logs are written to. Empty disables file output.
	Directory string `json:"directory"`
	// MaxSize is the maximum size, in megabytes, of a log file before it is
	// rotated.
	MaxSize int `json:"maxSize"`
	// MaxFiles is the number of rotated files to retain.
	MaxFiles int `json:"maxFiles"`
	// MaxAge is the number of days to retain rotated files.
	MaxAge int `json:"maxAge"`
	// Compress rotated files with gzip.
	Compress bool `json:"compress"`
}

// Config defines the configuration of a logger
type Config struct {
	RotatingWriterConfig
	DisableWriterDisplaying bool      `json:"disableWriterDisplaying"`
	LogLevel                Level     `json:"logLevel"`
	DisplayLevel            Level     `json:"displayLevel"`
	LogFormat               Highlight `json:"logFormat"`
	MsgPrefix               string    `json:"-"`
	LoggerName              string    `json:"-"`
}

// DefaultConfig returns a config that displays Info and above and does not
// write to disk.
func DefaultConfig() Config {
	return Config{
		RotatingWriterConfig: RotatingWriterConfig{
			MaxSize:  8, // MB
			MaxFiles: 7,
			MaxAge:   0,
		},
		LogLevel:     Info,
		DisplayLevel: Info,
		LogFormat:    Plain,
	}
}

func (c Config) fileName() (string, error) {
	if len(c.LoggerName) == 0 {
		return "", errMissingLoggerName
	}
	return filepath.Join(c.Directory, fmt.Sprintf("%s.log", c.LoggerName)), nil
}
