// Package logger provides the shared project logger.
package logger

import (
	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
)

const projectName = "music21"

// GetProjectLogger returns the logger used across the project.
func GetProjectLogger() *logrus.Entry {
	return GetLogger(projectName)
}

// GetLogger returns a logger tagged with the given subsystem name.
func GetLogger(name string) *logrus.Entry {
	return logrus.NewEntry(logging.GetLogger(name))
}

// SetLevel adjusts the verbosity of loggers handed out by this package.
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logging.SetGlobalLogLevel(parsed)
	return nil
}
