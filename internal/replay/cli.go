// Package replay drives a running hobby service through its HTTP API and
// checks the log it derives against a local recomputation.
package replay

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/hobbyseeds/pkg/logger"
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		logFile = "replay_log_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWith(io.MultiWriter(os.Stdout, file), "text"); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return file, nil
}

// ShowHelp prints usage information for the replay tool.
func ShowHelp() {
	os.Stdout.WriteString(`Hobby Seeds Log Replay
======================

Logs generated hobby attempts through a running service and verifies the
greatCount, topTags, unlock state and step-up ranking it reports.

Usage:
  go run ./cmd/log-replay [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -attempts int
        Number of attempts to log (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed uint
        Seed for hobby and rating draws (default random)
  -resend int
        Resend every Nth attempt with the same request id (default 10, 0 disables)
  -clear
        Clear the log before replaying (default true)
  -catalog string
        Catalog directory the service was started with (default bundled)
  -output string
        Output file for generated attempts
  -log string
        Log file for replay output (default: replay_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Replay against a local service
  go run ./cmd/log-replay

  # Reproducible run keeping the existing log
  go run ./cmd/log-replay -seed 42 -clear=false -attempts 1000
`)
}
