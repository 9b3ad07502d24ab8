package task

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/covox/callaudit/internal/models"
	"github.com/covox/callaudit/pkg/logger"
	stores "github.com/covox/callaudit/pkg/storage"
)

// OrphanSweeper finds audio files in the store that no call record
// references. Orphans appear when a compensating delete fails after a
// rejected insert, or when the process dies between file write and row
// insert. The sweeper reports them and, when enabled, removes them.
type OrphanSweeper struct {
	db     *gorm.DB
	store  *stores.LocalStore
	remove bool

	// grace protects uploads that are mid-flight: a file younger than this
	// may simply not have its row yet.
	grace time.Duration
}

func NewOrphanSweeper(db *gorm.DB, store *stores.LocalStore, remove bool) *OrphanSweeper {
	return &OrphanSweeper{
		db:     db,
		store:  store,
		remove: remove,
		grace:  time.Hour,
	}
}

// Sweep runs one pass and returns the orphan keys it acted on.
func (s *OrphanSweeper) Sweep() ([]string, error) {
	keys, err := s.store.List()
	if err != nil {
		return nil, err
	}
	referenced, err := models.ReferencedAudioFiles(s.db)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-s.grace)
	var orphans []string
	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		mtime, err := s.store.ModTime(key)
		if err != nil {
			logger.Warn("orphan sweep: stat failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if mtime.After(cutoff) {
			continue
		}
		orphans = append(orphans, key)
		if !s.remove {
			logger.Info("orphan audio found", zap.String("key", key))
			continue
		}
		if err := s.store.Delete(key); err != nil {
			logger.Warn("orphan sweep: delete failed", zap.String("key", key), zap.Error(err))
			continue
		}
		logger.Info("orphan audio removed", zap.String("key", key))
	}
	return orphans, nil
}

// Run satisfies cron.Job.
func (s *OrphanSweeper) Run() {
	orphans, err := s.Sweep()
	if err != nil {
		logger.Error("orphan sweep failed", zap.Error(err))
		return
	}
	logger.Info("orphan sweep complete", zap.Int("orphans", len(orphans)))
}

// StartOrphanSweeper schedules the sweeper on the given cron expression and
// returns the running scheduler so the caller can Stop it on shutdown.
func StartOrphanSweeper(db *gorm.DB, store *stores.LocalStore, schedule string, remove bool) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddJob(schedule, NewOrphanSweeper(db, store, remove)); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
