package streamflex

import (
	"context"

	healthuc "github.com/kailas-cloud/streamflex/internal/usecase/health"
)

// HealthStatus reports whether the backing store answers.
type HealthStatus struct {
	Status string            // "ok" or "error"
	Driver string            // mongo, redis, memory
	Checks map[string]string // component -> "ok"/"error"
}

// Health pings the backing store.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Driver: report.Driver,
		Checks: checks,
	}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
