package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger builds the CLI logger. --verbose and --quiet win over
// LOG_LEVEL; the default level shows warnings such as unresolved images.
func newLogger(w io.Writer, common commonFlags, envLevel string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level := logrus.WarnLevel
	switch {
	case common.verbose:
		level = logrus.DebugLevel
	case common.quiet:
		level = logrus.ErrorLevel
	case envLevel != "":
		parsed, err := logrus.ParseLevel(envLevel)
		if err != nil {
			return nil, fmt.Errorf("%w: LOG_LEVEL=%q", ErrInvalidEnvValue, envLevel)
		}
		level = parsed
	}
	logger.SetLevel(level)

	return logger, nil
}
