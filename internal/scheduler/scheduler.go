package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/varnamer/api/internal/backup"
	"gorm.io/gorm"
)

// BackupScheduler periodically writes a database snapshot to a directory
type BackupScheduler struct {
	db        *gorm.DB
	dir       string
	interval  time.Duration
	running   bool
	runs      int
	failures  int
	lastRun   time.Time
	lastFile  string
	lastError string
	mu        sync.Mutex
	stopChan  chan struct{}
	now       func() time.Time
}

type SchedulerConfig struct {
	Dir      string
	Interval time.Duration
}

func NewBackupScheduler(db *gorm.DB, cfg SchedulerConfig) *BackupScheduler {
	if cfg.Interval == 0 {
		cfg.Interval = 24 * time.Hour
	}
	if cfg.Dir == "" {
		cfg.Dir = "backups"
	}

	return &BackupScheduler{
		db:       db,
		dir:      cfg.Dir,
		interval: cfg.Interval,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start blocks, writing a snapshot every interval until ctx is cancelled or
// Stop is called
func (s *BackupScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[Scheduler] Starting backups to %s every %v", s.dir, s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Scheduler] Context cancelled, stopping")
			s.markStopped()
			return
		case <-s.stopChan:
			log.Println("[Scheduler] Stop signal received")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		log.Println("[Scheduler] Stopped")
	}
}

func (s *BackupScheduler) markStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// RunOnce collects and writes one snapshot, returning the file path
func (s *BackupScheduler) RunOnce(ctx context.Context) (string, error) {
	snapshot, err := backup.Collect(ctx, s.db, s.now())
	var path string
	var size int
	if err == nil {
		path, size, err = snapshot.WriteFile(s.dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs++
	s.lastRun = s.now()
	if err != nil {
		s.failures++
		s.lastError = err.Error()
		log.Printf("[Scheduler] Backup failed: %v", err)
		return "", err
	}

	s.lastFile = path
	s.lastError = ""
	log.Printf("[Scheduler] Backup written: %s (%s MB, %d mappings)",
		path, backup.SizeInMB(size), snapshot.Metadata.Counts.VariableMappings)
	return path, nil
}

// GetStatus returns current scheduler status
func (s *BackupScheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":  s.running,
		"interval": s.interval.String(),
		"dir":      s.dir,
		"runs":     s.runs,
		"failures": s.failures,
		"lastFile": s.lastFile,
	}
	if !s.lastRun.IsZero() {
		status["lastRun"] = s.lastRun.Format(time.RFC3339)
	}
	if s.lastError != "" {
		status["lastError"] = s.lastError
	}
	return status
}
