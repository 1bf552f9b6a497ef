package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/hobbyseeds/internal/replay"
)

// Default configuration constants.
const (
	defaultAttempts   = 200
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultResend     = 10
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		attempts   = flag.Int("attempts", defaultAttempts, "Number of attempts to log")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed       = flag.Uint64("seed", 0, "Seed for hobby and rating draws (0 = random)")
		resend     = flag.Int("resend", defaultResend, "Resend every Nth attempt with the same request id (0 = never)")
		clearLog   = flag.Bool("clear", true, "Clear the log before replaying")
		catalogDir = flag.String("catalog", "", "Catalog directory the service was started with (default bundled)")
		outputFile = flag.String("output", "", "Output file for generated attempts")
		logFile    = flag.String("log", "", "Log file for replay output (default: replay_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		replay.ShowHelp()
		return
	}

	closer, err := replay.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)

	_, err = replay.Run(ctx, &replay.Config{
		BaseURL:    *baseURL,
		Attempts:   *attempts,
		Workers:    *workers,
		Timeout:    *timeout,
		Seed:       *seed,
		Resend:     *resend,
		Clear:      *clearLog,
		CatalogDir: *catalogDir,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	})
	cancel()
	_ = closer.Close()
	if err != nil {
		os.Stderr.WriteString("Replay failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
