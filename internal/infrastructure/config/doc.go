// Package config provides 12-factor configuration for forestclient.
//
// Values start from Default(), are optionally overlaid by a .toml, .yaml or
// .json file, and finally by environment variables.
//
// Configuration Sections:
//   - Client: backend, timeouts, retries, rate limit, user agent, stream threshold
//   - Breaker: circuit breaker thresholds
//   - Logging: log level and output format
//
// Example Usage:
//
//	cfg, err := config.LoadFile("forest.toml")
//	client, err := client.New(cfg, logger, metrics)
//
// Environment Variables:
//   - FOREST_BACKEND, FOREST_TIMEOUT, FOREST_MAX_RETRIES
//   - FOREST_RETRY_WAIT_MIN, FOREST_RETRY_WAIT_MAX, FOREST_RATE_LIMIT_RPS
//   - FOREST_USER_AGENT, FOREST_STREAM_THRESHOLD
//   - FOREST_BREAKER_ENABLED, FOREST_BREAKER_MAX_REQUESTS, FOREST_BREAKER_INTERVAL,
//     FOREST_BREAKER_TIMEOUT, FOREST_BREAKER_CONSECUTIVE_FAILURES,
//     FOREST_BREAKER_MIN_REQUESTS, FOREST_BREAKER_FAILURE_RATIO
//   - FOREST_LOG_LEVEL, FOREST_LOG_DEV
package config
