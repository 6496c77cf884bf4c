package cli

import (
	"io"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// newLogger builds the logger for one run. Logs go to stderr, or to a
// size-rotated file when --log-file is set. The returned closer releases the
// log file and is never nil.
func newLogger(cfg *Config, stderr io.Writer) (*logrus.Logger, io.Closer) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if cfg.LogFile == "" {
		logger.SetOutput(stderr)
		return logger, nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	var out io.Writer = file
	if cfg.LogAlsoStd {
		out = io.MultiWriter(file, stderr)
	}
	logger.SetOutput(out)
	return logger, file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
