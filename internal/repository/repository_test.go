package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"opsboard/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestNewDBSeedsIndustriesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDB(path)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Industry{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultIndustries)), count)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// Reopening must not reseed.
	db, err = NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Industry{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultIndustries)), count)
}

func TestResetDropsAllRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(path)
	require.NoError(t, err)

	ctx := context.Background()
	regions := NewRegionRepository(db)
	require.NoError(t, regions.Create(ctx, &model.Region{Name: "Volta", Latitude: 6.57, Longitude: 0.47}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	db, err = Reset(path)
	require.NoError(t, err)

	var regionCount, industryCount int64
	require.NoError(t, db.Model(&model.Region{}).Count(&regionCount).Error)
	require.NoError(t, db.Model(&model.Industry{}).Count(&industryCount).Error)
	assert.Equal(t, int64(0), regionCount)
	assert.Equal(t, int64(len(DefaultIndustries)), industryCount)
}

func TestResetMissingFileIsNotAnError(t *testing.T) {
	db, err := Reset(filepath.Join(t.TempDir(), "never-created.db"))
	require.NoError(t, err)
	require.NotNil(t, db)
}

func TestTimestampsStampedAndRefreshed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tasks := NewTaskRepository(db)

	task := &model.Task{Title: "Inspect boiler", Status: model.StatusOpen, Priority: model.PriorityMedium}
	require.NoError(t, tasks.Create(ctx, task))
	assert.False(t, task.CreatedAt.IsZero())
	assert.False(t, task.UpdatedAt.IsZero())

	created := task.CreatedAt
	time.Sleep(10 * time.Millisecond)
	task.Status = model.StatusBlocked
	require.NoError(t, tasks.Update(ctx, task))

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestClientNameUniqueness(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clients := NewClientRepository(db)

	require.NoError(t, clients.Create(ctx, &model.Client{Name: "Acme Ltd", IsActive: true}))
	err := clients.Create(ctx, &model.Client{Name: "Acme Ltd", IsActive: true})
	require.Error(t, err)
}

func TestDeactivateHidesFromActiveListOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clients := NewClientRepository(db)

	client := &model.Client{Name: "Acme Ltd", IsActive: true}
	require.NoError(t, clients.Create(ctx, client))
	require.NoError(t, clients.Deactivate(ctx, client.ID))

	active, err := clients.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := clients.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
}

func TestDeleteClientClearsTaskReferences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	clients := NewClientRepository(db)
	tasks := NewTaskRepository(db)

	client := &model.Client{Name: "Acme Ltd", IsActive: true}
	require.NoError(t, clients.Create(ctx, client))

	task := &model.Task{Title: "Audit", ClientID: &client.ID, Status: model.StatusOpen, Priority: model.PriorityHigh}
	require.NoError(t, tasks.Create(ctx, task))

	require.NoError(t, clients.Delete(ctx, client.ID))

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ClientID, "task must survive with its client reference cleared")
}

func TestRegionNamesNotUnique(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	regions := NewRegionRepository(db)

	require.NoError(t, regions.Create(ctx, &model.Region{Name: "Central", Latitude: 5.12, Longitude: -1.34}))
	require.NoError(t, regions.Create(ctx, &model.Region{Name: "Central", Latitude: 5.12, Longitude: -1.34}))
}

func TestListByStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tasks := NewTaskRepository(db)

	for _, status := range []string{model.StatusOpen, model.StatusCompleted, model.StatusBlocked} {
		require.NoError(t, tasks.Create(ctx, &model.Task{Title: "t-" + status, Status: status, Priority: model.PriorityLow}))
	}

	open, err := tasks.ListByStatus(ctx, model.StatusOpen, model.StatusBlocked)
	require.NoError(t, err)
	assert.Len(t, open, 2)
}
