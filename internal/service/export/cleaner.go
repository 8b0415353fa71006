package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"softfocus/internal/domain"
)

// Cleaner manages cron-based reclamation of aged export artifacts.
type Cleaner struct {
	cron      *cron.Cron
	dir       string
	retention time.Duration
	logger    *slog.Logger
}

// NewCleaner creates a cleaner over the artifact directory. Artifacts whose
// modification time is older than retention are removed on each sweep.
func NewCleaner(dir string, retention time.Duration, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		cron:      cron.New(),
		dir:       dir,
		retention: retention,
		logger:    logger,
	}
}

// Start registers the sweep on the given cron schedule and starts the
// scheduler.
func (c *Cleaner) Start(schedule string) error {
	if _, err := c.cron.AddFunc(schedule, func() {
		if _, err := c.Sweep(); err != nil {
			c.logger.Warn("artifact sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	c.cron.Start()
	c.logger.Info("artifact cleaner started", "schedule", schedule, "retention", c.retention)
	return nil
}

// Stop gracefully stops the cron scheduler.
func (c *Cleaner) Stop() {
	c.cron.Stop()
	c.logger.Info("artifact cleaner stopped")
}

// Sweep removes every artifact older than the retention window and returns
// how many were removed. Per-file failures are logged and skipped so one bad
// entry never blocks the rest of the sweep.
func (c *Cleaner) Sweep() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("read artifact dir %s: %w", c.dir, err)
	}

	cutoff := time.Now().Add(-c.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), domain.ArtifactSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			c.logger.Warn("stat artifact failed", "file", entry.Name(), "error", err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(c.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			c.logger.Warn("remove artifact failed", "file", entry.Name(), "error", err)
			continue
		}
		removed++
		c.logger.Info("aged artifact removed", "file", entry.Name(), "age", time.Since(info.ModTime()).Round(time.Second))
	}
	return removed, nil
}
