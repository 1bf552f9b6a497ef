package replay

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/hobbyseeds/internal/domain/catalog"
	"github.com/okian/hobbyseeds/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run executes a complete replay and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting hobby log replay",
		logger.String("baseURL", config.BaseURL),
		logger.Int("attempts", config.Attempts),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("clear", config.Clear))

	if config.Attempts <= 0 || config.Workers <= 0 {
		return nil, ErrInvalidConfig
	}

	cat, err := loadCatalog(config.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("catalog load failed: %w", err)
	}

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Start from an empty log when asked
	if config.Clear {
		status, _, err := client.do(ctx, http.MethodDelete, "/log", nil)
		if err != nil {
			return nil, fmt.Errorf("clear log failed: %w", err)
		}
		if status != StatusOK {
			return nil, fmt.Errorf("clear log failed with status: %d", status)
		}
	}

	// Step 3: Generate and submit attempts
	attempts := generateAttempts(ctx, config, cat.Hobbies(), stats)
	submitAttempts(ctx, config, attempts, stats)

	// Step 4: Verify derived state. Appends are acknowledged after the
	// writer stored them, so no settling delay is needed.
	body, rec, err := fetchState(ctx, client)
	if err != nil {
		return stats, fmt.Errorf("state retrieval failed: %w", err)
	}
	if err := verifyResults(ctx, config, cat, body, rec, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Save attempts to file
	if config.OutputFile != "" {
		if err := saveAttempts(config.OutputFile, attempts); err != nil {
			log.Warn(ctx, "failed to save attempts to file", logger.Error(err))
		} else {
			log.Info(ctx, "attempts saved to file", logger.String("filename", config.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	log.Info(ctx, "replay completed successfully")
	return stats, nil
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Bundled()
	}
	return catalog.LoadDir(dir)
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	// Any 200 is healthy; the body is Prometheus metrics.
	if err := client.getJSON(ctx, "/healthz", nil); err != nil {
		return fmt.Errorf("failed to reach service: %w", err)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveAttempts writes the generated attempts as a JSON array.
func saveAttempts(filename string, attempts []Attempt) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(attempts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal attempts: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// displayFinalStats logs the final replay statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, attemptsPerSecond float64

	if stats.Submitted > 0 {
		successRate = float64(stats.Created+stats.Duplicate) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		attemptsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("created", stats.Created),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("logEntries", stats.LogEntries),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("attemptsPerSecond", attemptsPerSecond))
}
