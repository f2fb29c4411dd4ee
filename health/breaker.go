package health

import (
	"context"
	"fmt"

	"github.com/lumenhq/callguard/resilience"
)

// BreakerChecker reports dependency health from circuit breaker state.
// A registry with no tripped breakers is healthy, one with some open
// breakers is degraded, and one where every breaker is open is
// unhealthy.
type BreakerChecker struct {
	name     string
	registry *resilience.BreakerRegistry
}

// NewBreakerChecker creates a checker over the given registry.
func NewBreakerChecker(name string, registry *resilience.BreakerRegistry) *BreakerChecker {
	return &BreakerChecker{name: name, registry: registry}
}

func (c *BreakerChecker) Name() string { return c.name }

// Check inspects the registry snapshot. It never calls through the
// breakers, so it cannot trigger cool-down resets.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	snapshot := c.registry.Snapshot()
	if len(snapshot) == 0 {
		return Healthy("no circuits registered")
	}

	details := make(map[string]any, len(snapshot))
	open := 0
	for _, status := range snapshot {
		details[status.Key] = map[string]any{
			"state":    status.State.String(),
			"failures": status.Failures,
		}
		if status.State == resilience.StateOpen {
			open++
		}
	}

	switch {
	case open == 0:
		return Healthy(fmt.Sprintf("%d circuits closed", len(snapshot))).WithDetails(details)
	case open == len(snapshot):
		return Unhealthy(fmt.Sprintf("all %d circuits open", open), nil).WithDetails(details)
	default:
		return Degraded(fmt.Sprintf("%d of %d circuits open", open, len(snapshot))).WithDetails(details)
	}
}
