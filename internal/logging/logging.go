/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package logging builds the zap loggers used by the node and the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// Environment names accepted by New
const (
	Production  = "production"
	Development = "development"
)

// New creates a structured logger for the environment. Production writes JSON at
// info level, development writes console output at debug level.
func New(environment string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	switch environment {
	case Production, "":
		logger, err = zap.NewProduction()
	case Development:
		logger, err = zap.NewDevelopment()
	default:
		return nil, fmt.Errorf("unknown log environment %q", environment)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
