// Package logging builds the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/config"
)

// New logs human-readable lines locally and JSON everywhere else.
func New(cfg *config.Config) zerolog.Logger {
	var w io.Writer = os.Stderr
	if cfg.IsLocal() {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return NewWithWriter(w, cfg.LogLevel)
}

func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
