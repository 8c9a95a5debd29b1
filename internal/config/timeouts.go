package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Build             time.Duration // Timeout for a single component build
	CRDWait           time.Duration // Timeout for waiting for the operator CRD
	Validate          time.Duration // Deadline for the full validation cycle
	ValidateConfirm   time.Duration // Deadline when only confirming existing readiness
	PollInterval      time.Duration // Interval between validation polls
	RetryMaxAttempts  int           // Retries for transient failures (0 = no retry)
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - COCOCTL_TIMEOUT_BUILD (default: 20m)
//   - COCOCTL_TIMEOUT_CRD_WAIT (default: 2m)
//   - COCOCTL_TIMEOUT_VALIDATE (default: 5m)
//   - COCOCTL_TIMEOUT_VALIDATE_CONFIRM (default: 30s)
//   - COCOCTL_POLL_INTERVAL (default: 5s)
//   - COCOCTL_RETRY_MAX_ATTEMPTS (default: 0)
//   - COCOCTL_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Build:             parseDuration("COCOCTL_TIMEOUT_BUILD", 20*time.Minute),
		CRDWait:           parseDuration("COCOCTL_TIMEOUT_CRD_WAIT", 2*time.Minute),
		Validate:          parseDuration("COCOCTL_TIMEOUT_VALIDATE", 5*time.Minute),
		ValidateConfirm:   parseDuration("COCOCTL_TIMEOUT_VALIDATE_CONFIRM", 30*time.Second),
		PollInterval:      parseDuration("COCOCTL_POLL_INTERVAL", 5*time.Second),
		RetryMaxAttempts:  parseInt("COCOCTL_RETRY_MAX_ATTEMPTS", 0),
		RetryInitialDelay: parseDuration("COCOCTL_RETRY_INITIAL_DELAY", time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return n
}
