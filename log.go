package studytutor

import "github.com/sirupsen/logrus"

// Package logger, overridable by the embedding application
var logger = logrus.StandardLogger()

// SetLogger replaces the package logger.
func SetLogger(l *logrus.Logger) {
	logger = l
}

// SetVerbose enables debug-level logging for the package.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}
