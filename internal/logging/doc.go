// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Both write to stderr by default so response bodies printed by the CLI
// stay clean on stdout.
//
// Example Usage:
//
//	logger := logging.NewDefault().ForBackend("resty")
//	logger.Debug("exchange", logging.Exchange{Method: "GET", Status: 200}.Fields()...)
//	logger.Warn("transport failure", zap.Error(err))
package logging
