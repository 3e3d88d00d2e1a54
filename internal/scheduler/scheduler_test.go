package scheduler

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varnamer/api/internal/model"
	"github.com/varnamer/api/internal/testutil"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// database/sql keeps a connection opener goroutine per pool
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func TestBackupScheduler_RunOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Create(&model.VariableMapping{Korean: "주문", English: "order", Type: "변수"}).Error)

	s := NewBackupScheduler(db, SchedulerConfig{Dir: t.TempDir(), Interval: time.Hour})
	s.now = func() time.Time { return time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC) }

	path, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	status := s.GetStatus()
	assert.Equal(t, 1, status["runs"])
	assert.Equal(t, 0, status["failures"])
	assert.Equal(t, path, status["lastFile"])
	assert.Equal(t, "2026-06-01T03:00:00Z", status["lastRun"])
	assert.Equal(t, false, status["running"])
}

func TestBackupScheduler_StartWritesOnTickAndStopsOnCancel(t *testing.T) {
	db := testutil.NewTestDB(t)
	dir := t.TempDir()
	s := NewBackupScheduler(db, SchedulerConfig{Dir: dir, Interval: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return s.GetStatus()["runs"].(int) >= 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, true, s.GetStatus()["running"])

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	assert.Equal(t, false, s.GetStatus()["running"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestBackupScheduler_Stop(t *testing.T) {
	s := NewBackupScheduler(testutil.NewTestDB(t), SchedulerConfig{Dir: t.TempDir(), Interval: time.Hour})

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool {
		return s.GetStatus()["running"].(bool)
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestBackupScheduler_RecordsFailure(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "not-a-dir")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	s := NewBackupScheduler(testutil.NewTestDB(t), SchedulerConfig{Dir: file.Name(), Interval: time.Hour})

	_, err = s.RunOnce(context.Background())
	require.Error(t, err)

	status := s.GetStatus()
	assert.Equal(t, 1, status["failures"])
	assert.NotEmpty(t, status["lastError"])
}
