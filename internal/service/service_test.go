package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"opsboard/internal/repository"
)

type testEnv struct {
	industries *repository.IndustryRepository
	regions    *repository.RegionRepository
	clients    *repository.ClientRepository
	tasks      *repository.TaskRepository

	analytics *AnalyticsService
	transfer  *TransferService
	digest    *DigestService
	taskSvc   *TaskService
	clientSvc *ClientService
	regionSvc *RegionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		industries: repository.NewIndustryRepository(db),
		regions:    repository.NewRegionRepository(db),
		clients:    repository.NewClientRepository(db),
		tasks:      repository.NewTaskRepository(db),
	}
	env.analytics = NewAnalyticsService(env.tasks, env.clients, env.regions, env.industries)
	env.transfer = NewTransferService(env.industries, env.regions, env.clients, env.tasks)
	env.digest = NewDigestService(env.analytics, env.tasks)
	env.taskSvc = NewTaskService(env.tasks, env.clients)
	env.clientSvc = NewClientService(env.clients)
	env.regionSvc = NewRegionService(env.regions)
	return env
}
