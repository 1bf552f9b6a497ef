package replay

import (
	"time"

	"github.com/okian/hobbyseeds/internal/domain/model"
)

// Config holds configuration for a replay run
type Config struct {
	BaseURL    string        // Base URL of the service
	Attempts   int           // Number of attempts to log
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Seed for hobby and rating draws, 0 for random
	Resend     int           // Resend every Nth attempt with the same request id, 0 to disable
	Clear      bool          // Clear the log before replaying
	CatalogDir string        // Catalog the service was started with, empty for the bundled one
	OutputFile string        // Output file for generated attempts, empty to skip
	Verbose    bool          // Enable verbose logging
}

// Attempt is one log entry submitted to the service
type Attempt struct {
	HobbyID   int          `json:"hobbyId"`
	Rating    model.Rating `json:"rating"`
	RequestID string       `json:"requestId"`
}

// ackResponse is the body of a duplicate submission
type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds replay statistics
type Stats struct {
	Generated  int
	Submitted  int
	Created    int
	Duplicate  int
	Rejected   int
	Failed     int
	GreatSent  int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	LogEntries int
}
