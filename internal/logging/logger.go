// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params selects where and how the service logs. An empty FilePath logs to
// stdout only.
type Params struct {
	FilePath   string
	AlsoStdout bool
	Level      string
	JSON       bool
}

// Setup points the standard logger at the destinations in p. The returned
// closer releases the rotated log file; it is nil for stdout-only logging.
func Setup(p Params) io.Closer {
	if p.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(p.Level))

	out, file := writers(p)
	logrus.SetOutput(out)
	logrus.WithField("file", p.FilePath).Debug("logging configured")
	if file == nil {
		return nil
	}
	return file
}

// writers builds the log output for p and the rotated file behind it, if any.
func writers(p Params) (io.Writer, *lumberjack.Logger) {
	if p.FilePath == "" {
		return os.Stdout, nil
	}
	name := p.FilePath
	if filepath.Ext(name) != ".log" {
		name += ".log"
	}
	file := &lumberjack.Logger{
		Filename:   name,
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	if p.AlsoStdout {
		return NewCombinedWriter(os.Stdout, file), file
	}
	return file, file
}

// GetLevel parses a level name, falling back to info for unknown names.
func GetLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
