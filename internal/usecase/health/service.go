package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the store is reachable.
	Healthy Status = "ok"
	// Unhealthy indicates the store did not answer.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	Driver string
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	driver string
}

// New creates a Service for the named store driver.
func New(db DBPinger, driver string) *Service {
	return &Service{db: db, driver: driver}
}

// Check pings the store.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"database": CheckOK}
	status := Healthy

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, Driver: s.driver}
}
