// Package logging routes the standard logger to the rotating
// operational log file. Every package logs through the stdlib log
// package; this is the single place that decides where those lines
// land.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup directs the standard logger to an append-only log file at
// path, rotated and pruned by age. The prefix tags every line so
// overlapping hook invocations can be told apart; verbose mirrors
// output to stderr for interactive debugging.
func Setup(path, prefix string, maxAgeDays int, verbose bool) {
	writer := io.Writer(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     maxAgeDays,
	})
	if verbose {
		writer = io.MultiWriter(writer, os.Stderr)
	}

	log.SetOutput(writer)
	log.SetFlags(log.LstdFlags)
	if prefix != "" {
		log.SetPrefix(fmt.Sprintf("[%s] ", prefix))
	}
}
