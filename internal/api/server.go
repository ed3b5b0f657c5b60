package api

import (
	"context"
	"time"

	"github.com/vytor/vocabflash/internal/jobs"
	"github.com/vytor/vocabflash/internal/services"
)

// Pinger reports whether the database answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	ProfileService services.ProfileService
	MistakeService services.MistakeService
	ReviewService  services.ReviewService
	StatsService   services.StatsService
	ImportService  services.ImportService
	Jobs           jobs.JobQueue
	DB             Pinger

	// RequestTimeout bounds every request except the health probes. Zero
	// disables the limit.
	RequestTimeout time.Duration
	// Now is the review clock. Defaults to time.Now.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
