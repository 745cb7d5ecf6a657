package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Engine   string `json:"engine"`
}

// Service encapsulates health-related checks.
type Service struct {
	db               Pinger
	engineConfigured bool
}

// NewService constructs a health service. A nil db means the in-memory repos are in use.
func NewService(db Pinger, engineConfigured bool) *Service {
	return &Service{db: db, engineConfigured: engineConfigured}
}

// Status reports OK unless the database is configured and unreachable.
// A missing engine only degrades analyze, so it does not fail the check.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", Engine: "unconfigured"}
	if s.engineConfigured {
		st.Engine = "configured"
	}
	if s.db == nil {
		return st
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		st.OK = false
		st.Database = "down"
		return st
	}
	st.Database = "up"
	return st
}
