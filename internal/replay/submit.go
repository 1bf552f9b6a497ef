package replay

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/hobbyseeds/internal/domain/model"
	"github.com/okian/hobbyseeds/pkg/logger"
)

type submitResult int

const (
	resultCreated submitResult = iota
	resultDuplicate
	resultRejected
	resultFailed
)

// submitAttempts posts attempts concurrently using a worker pool.
func submitAttempts(ctx context.Context, config *Config, attempts []Attempt, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "submitting attempts",
		logger.Int("attempts", len(attempts)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	var (
		submitted  int64
		created    int64
		duplicate  int64
		rejected   int64
		failed     int64
		greatSent  int64
		lastReport atomic.Int64
	)

	attemptChan := make(chan Attempt, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range attemptChan {
				if ctx.Err() != nil {
					return
				}
				result := submitSingleAttempt(ctx, client, a)

				atomic.AddInt64(&submitted, 1)
				switch result {
				case resultCreated:
					atomic.AddInt64(&created, 1)
					if a.Rating == model.RatingGreat {
						atomic.AddInt64(&greatSent, 1)
					}
				case resultDuplicate:
					atomic.AddInt64(&duplicate, 1)
				case resultRejected:
					atomic.AddInt64(&rejected, 1)
				case resultFailed:
					atomic.AddInt64(&failed, 1)
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if config.Verbose && now-last >= int64(ProgressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress",
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
						logger.Int("total", len(attempts)),
						logger.Int("created", int(atomic.LoadInt64(&created))),
						logger.Int("duplicate", int(atomic.LoadInt64(&duplicate))),
						logger.Int("failed", int(atomic.LoadInt64(&failed))))
				}
			}
		}()
	}

	go func() {
		defer close(attemptChan)
		for _, a := range attempts {
			select {
			case <-ctx.Done():
				return
			case attemptChan <- a:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(submitted)
	stats.Created = int(created)
	stats.Duplicate = int(duplicate)
	stats.Rejected = int(rejected)
	stats.Failed = int(failed)
	stats.GreatSent = int(greatSent)

	log.Info(ctx, "submission completed",
		logger.Int("created", stats.Created),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))
}

// submitSingleAttempt posts one attempt and classifies the response.
func submitSingleAttempt(ctx context.Context, client *HTTPClient, a Attempt) submitResult {
	status, body, err := client.do(ctx, http.MethodPost, "/log/entries", a)
	if err != nil {
		return resultFailed
	}

	switch status {
	case StatusCreated:
		return resultCreated
	case StatusOK:
		var ack ackResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return resultDuplicate
		}
		return resultFailed
	case StatusTooManyRequests:
		return resultRejected
	default:
		return resultFailed
	}
}
