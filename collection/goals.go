package collection

import (
	"context"
	"fmt"

	"github.com/readshelf/readshelf/models"
)

// Goal bounds for SetGoal. One book a day is the ceiling.
const (
	minGoalTarget = 1
	maxGoalTarget = 365
)

// Goals returns a copy of the year -> goal map.
func (m *Manager) Goals() map[int]models.Goal {
	out := make(map[int]models.Goal, len(m.goals))
	for year, g := range m.goals {
		out[year] = g
	}
	return out
}

// Goal returns the goal for year, if one exists.
func (m *Manager) Goal(year int) (models.Goal, bool) {
	g, ok := m.goals[year]
	return g, ok
}

// SetGoal sets the target for year and activates the goal. A target
// outside [1, 365] is rejected with a field-level error.
func (m *Manager) SetGoal(ctx context.Context, year, target int) error {
	if target < minGoalTarget || target > maxGoalTarget {
		return FieldErrors{"target": fmt.Sprintf("must be between %d and %d", minGoalTarget, maxGoalTarget)}
	}
	m.goals[year] = models.Goal{Target: target, IsActive: true}
	m.persist(ctx)
	return nil
}

// EnsureGoalForYear creates the default goal for year if none exists.
// Idempotent: an existing goal, active or not, is left alone.
func (m *Manager) EnsureGoalForYear(ctx context.Context, year int) {
	if _, ok := m.goals[year]; ok {
		return
	}
	m.goals[year] = models.Goal{Target: models.DefaultGoalTarget, IsActive: true}
	m.persist(ctx)
}

// DeactivateGoal turns the goal for year off, keeping its target so it
// can be reactivated later. Goals are never deleted.
func (m *Manager) DeactivateGoal(ctx context.Context, year int) {
	g, ok := m.goals[year]
	if !ok {
		g = models.Goal{Target: models.DefaultGoalTarget}
	}
	g.IsActive = false
	m.goals[year] = g
	m.persist(ctx)
}
