package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"pustaka-backend/internal/adapters/persistence/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePenaltySweeper deactivates in-memory penalties with the same
// boundary as the SQL sweep: active and end_date strictly before now.
type fakePenaltySweeper struct {
	penalties []*models.Penalty

	lastNow time.Time
	err     error
}

func (f *fakePenaltySweeper) ExpireBefore(_ context.Context, now time.Time) (int64, error) {
	f.lastNow = now
	if f.err != nil {
		return 0, f.err
	}

	var expired int64
	for _, p := range f.penalties {
		if p.Status && p.IsExpired(now) {
			p.Status = false
			expired++
		}
	}
	return expired, nil
}

func sweeperPenalty(endDate time.Time, active bool) *models.Penalty {
	return &models.Penalty{
		ID:        uuid.NewString(),
		MemberID:  uuid.NewString(),
		StartDate: endDate.AddDate(0, 0, -PenaltyPeriodDays),
		EndDate:   endDate,
		Status:    active,
		Reason:    PenaltyReasonOverdue,
	}
}

func newTestCronService(sweeper *fakePenaltySweeper, now time.Time) *CronService {
	return &CronService{
		penaltyRepo: sweeper,
		cron:        cron.New(),
		now:         func() time.Time { return now },
	}
}

func TestExpirePenaltiesDeactivatesPastEndDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)

	pastActive := sweeperPenalty(now.AddDate(0, 0, -1), true)
	atBoundary := sweeperPenalty(now, true)
	future := sweeperPenalty(now.AddDate(0, 0, 2), true)
	pastInactive := sweeperPenalty(now.AddDate(0, 0, -5), false)

	sweeper := &fakePenaltySweeper{
		penalties: []*models.Penalty{pastActive, atBoundary, future, pastInactive},
	}
	svc := newTestCronService(sweeper, now)

	svc.ExpirePenalties()

	assert.Equal(t, now, sweeper.lastNow)

	// Only the active penalty strictly past its end date flips.
	assert.False(t, pastActive.Status)
	assert.True(t, atBoundary.Status)
	assert.True(t, future.Status)
	assert.False(t, pastInactive.Status)
}

func TestExpirePenaltiesLeavesRecordsOnSweepError(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)
	pastActive := sweeperPenalty(now.AddDate(0, 0, -1), true)

	sweeper := &fakePenaltySweeper{
		penalties: []*models.Penalty{pastActive},
		err:       errors.New("connection lost"),
	}
	svc := newTestCronService(sweeper, now)

	svc.ExpirePenalties()

	assert.True(t, pastActive.Status)
}

func TestExpireBeforeCountsOnlyFlippedPenalties(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC)

	sweeper := &fakePenaltySweeper{
		penalties: []*models.Penalty{
			sweeperPenalty(now.AddDate(0, 0, -1), true),
			sweeperPenalty(now.AddDate(0, 0, -2), true),
			sweeperPenalty(now.AddDate(0, 0, 1), true),
			sweeperPenalty(now.AddDate(0, 0, -3), false),
		},
	}

	expired, err := sweeper.ExpireBefore(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), expired)
}
