package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsboard/internal/model"
)

func day(t *testing.T, offset int, now time.Time) string {
	t.Helper()
	return model.Today(now).AddDate(0, 0, offset).Format("2006-01-02")
}

// The canonical scenario: one region, one client there, one overdue critical
// task. Heat must come out as 1*1.0 + 1*0.5 + 1*2.0.
func TestRegionHeatSingleCriticalOverdueTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	region, err := env.regionSvc.CreateRegion(ctx, RegionInput{Name: "Ashanti", Country: "Ghana", Latitude: 6.6666, Longitude: -1.6163})
	require.NoError(t, err)

	client, err := env.clientSvc.CreateClient(ctx, ClientInput{Name: "Acme Ltd", RegionID: &region.ID})
	require.NoError(t, err)

	_, err = env.taskSvc.CreateTask(ctx, TaskInput{
		Title:    "Audit",
		ClientID: &client.ID,
		Status:   model.StatusOpen,
		Priority: model.PriorityCritical,
		DueDate:  day(t, -1, now),
	})
	require.NoError(t, err)

	summary, err := env.analytics.Summary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Overdue)

	heat, err := env.analytics.RegionHeat(ctx)
	require.NoError(t, err)
	require.Len(t, heat, 1)
	assert.Equal(t, "Ashanti", heat[0].Name)
	assert.Equal(t, 1, heat[0].ClientsCount)
	assert.Equal(t, 1, heat[0].OpenTasks)
	assert.Equal(t, 1, heat[0].CriticalTasks)
	assert.InDelta(t, 3.5, heat[0].Heat, 1e-9)
}

func TestSummaryOverdueRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	mk := func(status, due string) {
		_, err := env.taskSvc.CreateTask(ctx, TaskInput{Title: "t", Status: status, DueDate: due})
		require.NoError(t, err)
	}
	mk(model.StatusOpen, day(t, -2, now))      // overdue
	mk(model.StatusBlocked, day(t, -1, now))   // overdue
	mk(model.StatusCompleted, day(t, -5, now)) // completed is never overdue
	mk(model.StatusOpen, day(t, 1, now))       // due tomorrow
	mk(model.StatusOpen, "")                   // no date
	mk(model.StatusInProgress, "not-a-date")   // unparseable means no date
	mk(model.StatusOpen, day(t, 0, now))       // due today is not overdue yet

	summary, err := env.analytics.Summary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.InProgress)
	assert.Equal(t, 2, summary.Overdue)
}

func TestStatusFunnelSortedByCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i, status := range []string{
		model.StatusOpen, model.StatusOpen, model.StatusOpen,
		model.StatusCompleted, model.StatusCompleted,
		model.StatusBlocked,
	} {
		_, err := env.taskSvc.CreateTask(ctx, TaskInput{Title: "t", Status: status, Priority: model.Priorities[i%4]})
		require.NoError(t, err)
	}

	funnel, err := env.analytics.StatusFunnel(ctx)
	require.NoError(t, err)
	require.Len(t, funnel, 3)
	assert.Equal(t, StatusCount{Status: model.StatusOpen, Count: 3}, funnel[0])
	assert.Equal(t, StatusCount{Status: model.StatusCompleted, Count: 2}, funnel[1])
	assert.Equal(t, StatusCount{Status: model.StatusBlocked, Count: 1}, funnel[2])
}

func TestOnTimeClassification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mk := func(status, due, done string) {
		_, err := env.taskSvc.CreateTask(ctx, TaskInput{Title: "t", Status: status, DueDate: due, CompletedDate: done})
		require.NoError(t, err)
	}
	mk(model.StatusCompleted, "2026-01-10", "2026-01-10") // on the day: on time
	mk(model.StatusCompleted, "2026-01-10", "2026-01-05") // early: on time
	mk(model.StatusCompleted, "", "2026-01-05")           // no due date: on time
	mk(model.StatusCompleted, "2026-01-10", "2026-01-12") // late
	mk(model.StatusCompleted, "2026-01-10", "")           // completed without a date
	mk(model.StatusOpen, "2026-01-10", "")                // not completed
	mk(model.StatusBlocked, "", "2026-01-05")             // completion date alone does not count

	b, err := env.analytics.OnTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, b.OnTime)
	assert.Equal(t, 1, b.Late)
	assert.Equal(t, 3, b.NotCompleted)
}

func TestWorkloadByIndustryExcludesUnset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	industries, err := env.industries.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, industries)
	mining := industries[0]

	withIndustry, err := env.clientSvc.CreateClient(ctx, ClientInput{Name: "Mining Co", IndustryID: &mining.ID})
	require.NoError(t, err)
	noIndustry, err := env.clientSvc.CreateClient(ctx, ClientInput{Name: "Floating Co"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = env.taskSvc.CreateTask(ctx, TaskInput{Title: "t", ClientID: &withIndustry.ID})
		require.NoError(t, err)
	}
	_, err = env.taskSvc.CreateTask(ctx, TaskInput{Title: "t", ClientID: &noIndustry.ID})
	require.NoError(t, err)
	_, err = env.taskSvc.CreateTask(ctx, TaskInput{Title: "t"}) // no client
	require.NoError(t, err)

	load, err := env.analytics.WorkloadByIndustry(ctx)
	require.NoError(t, err)
	require.Len(t, load, 1)
	assert.Equal(t, mining.Name, load[0].Industry)
	assert.Equal(t, 2, load[0].Tasks)
}

func TestRegionHeatEmptyRegionsStillAppear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.regionSvc.CreateRegion(ctx, RegionInput{Name: "Oti", Latitude: 8.05, Longitude: 0.3667})
	require.NoError(t, err)

	heat, err := env.analytics.RegionHeat(ctx)
	require.NoError(t, err)
	require.Len(t, heat, 1)
	assert.Zero(t, heat[0].Heat)
	assert.Zero(t, heat[0].CompletionRate, "a region with no tasks reads 0, not NaN")
}

func TestRegionCompletionRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	region, err := env.regionSvc.CreateRegion(ctx, RegionInput{Name: "Volta", Latitude: 6.58, Longitude: 0.47})
	require.NoError(t, err)
	client, err := env.clientSvc.CreateClient(ctx, ClientInput{Name: "Dam Works", RegionID: &region.ID})
	require.NoError(t, err)

	statuses := []string{
		model.StatusCompleted, model.StatusCompleted,
		model.StatusOpen, model.StatusInProgress, model.StatusBlocked, model.StatusOpen,
	}
	for _, status := range statuses {
		_, err = env.taskSvc.CreateTask(ctx, TaskInput{Title: "t", ClientID: &client.ID, Status: status})
		require.NoError(t, err)
	}

	heat, err := env.analytics.RegionHeat(ctx)
	require.NoError(t, err)
	require.Len(t, heat, 1)
	// 2 completed out of 6, rounded to one decimal.
	assert.InDelta(t, 33.3, heat[0].CompletionRate, 1e-9)
	assert.GreaterOrEqual(t, heat[0].CompletionRate, 0.0)
	assert.LessOrEqual(t, heat[0].CompletionRate, 100.0)
}

func TestOverdueTrendGroupsByDueDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	mk := func(status, due string) {
		_, err := env.taskSvc.CreateTask(ctx, TaskInput{Title: "t", Status: status, DueDate: due})
		require.NoError(t, err)
	}
	mk(model.StatusOpen, day(t, -3, now))
	mk(model.StatusOpen, day(t, -3, now))
	mk(model.StatusCompleted, day(t, -3, now)) // not overdue, same day
	mk(model.StatusOpen, day(t, 2, now))       // due in the future: zero-count day

	trend, err := env.analytics.OverdueTrend(ctx, now)
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.True(t, trend[0].Day.Before(trend[1].Day))
	assert.Equal(t, 2, trend[0].Overdue)
	assert.Equal(t, 0, trend[1].Overdue)
}

func TestDateHistogram(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mk := func(start string) {
		_, err := env.taskSvc.CreateTask(ctx, TaskInput{Title: "t", StartDate: start})
		require.NoError(t, err)
	}
	mk("2026-02-01")
	mk("2026-02-01")
	mk("2026-02-03")
	mk("") // dropped

	bins, err := env.analytics.DateHistogram(ctx, "start_date")
	require.NoError(t, err)
	require.Len(t, bins, 2)
	assert.Equal(t, 2, bins[0].Count)
	assert.Equal(t, 1, bins[1].Count)

	_, err = env.analytics.DateHistogram(ctx, "completed_date")
	require.Error(t, err)
}
