package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog zerolog.Logger

// InitStructured initializes the structured zerolog logger
func InitStructured(env string) {
	var w io.Writer

	if env == "development" || env == "dev" || env == "" {
		// Pretty console output when running by hand
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	} else {
		// JSON output for unattended runs (machine-readable)
		w = os.Stdout
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", "fireboard-import").
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// GetLogger returns the global zerolog logger
func GetLogger() *zerolog.Logger {
	return &zlog
}

// WithStage returns a logger scoped to one import stage (users, categories, posts)
func WithStage(stage string) zerolog.Logger {
	return zlog.With().Str("stage", stage).Logger()
}

// WithPost returns a logger scoped to a single source post
func WithPost(postID int) zerolog.Logger {
	return zlog.With().Int("post_id", postID).Logger()
}
