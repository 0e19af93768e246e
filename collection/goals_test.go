package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readshelf/readshelf/models"
)

func TestSetGoalValidatesTarget(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	for _, target := range []int{0, -1, 366, 1000} {
		err := m.SetGoal(ctx, 2025, target)
		var fe FieldErrors
		require.ErrorAs(t, err, &fe, "target %d", target)
		assert.Contains(t, fe, "target")
	}
	_, ok := m.Goal(2025)
	assert.False(t, ok, "rejected targets must not create a goal")

	require.NoError(t, m.SetGoal(ctx, 2025, 1))
	require.NoError(t, m.SetGoal(ctx, 2025, 365))
}

func TestSetGoalActivates(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	m.DeactivateGoal(ctx, 2025)
	require.NoError(t, m.SetGoal(ctx, 2025, 30))

	goal, ok := m.Goal(2025)
	require.True(t, ok)
	assert.Equal(t, models.Goal{Target: 30, IsActive: true}, goal)
}

func TestEnsureGoalForYearIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	m.EnsureGoalForYear(ctx, 2025)
	first, ok := m.Goal(2025)
	require.True(t, ok)
	assert.Equal(t, models.Goal{Target: models.DefaultGoalTarget, IsActive: true}, first)

	m.EnsureGoalForYear(ctx, 2025)
	second, _ := m.Goal(2025)
	assert.Equal(t, first, second)

	// An existing customized goal is left alone too.
	require.NoError(t, m.SetGoal(ctx, 2026, 52))
	m.EnsureGoalForYear(ctx, 2026)
	goal, _ := m.Goal(2026)
	assert.Equal(t, 52, goal.Target)
}

func TestDeactivateGoalPreservesTarget(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.SetGoal(ctx, 2025, 42))
	m.DeactivateGoal(ctx, 2025)

	goal, ok := m.Goal(2025)
	require.True(t, ok, "deactivation never deletes the goal")
	assert.Equal(t, models.Goal{Target: 42, IsActive: false}, goal)

	// Reactivation through SetGoal picks life back up.
	require.NoError(t, m.SetGoal(ctx, 2025, 42))
	goal, _ = m.Goal(2025)
	assert.True(t, goal.IsActive)
}
