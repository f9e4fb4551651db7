package audit

import (
	"context"

	"shaper-sync/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Hook writes one audit row per cycle. It satisfies reconcile.Hook; the
// engine already treats hook failures as non-fatal.
type Hook struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewHook creates the audit hook.
func NewHook(db *gorm.DB, log *zap.Logger) *Hook {
	return &Hook{db: db, log: log}
}

// Migrate creates or updates the audit table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&CycleRecord{})
}

// AfterCycle implements reconcile.Hook.
func (h *Hook) AfterCycle(ctx context.Context, sum reconcile.Summary) error {
	rec := CycleRecord{
		CycleID:      sum.CycleID,
		StartedAt:    sum.StartedAt,
		DurationMs:   sum.Duration.Milliseconds(),
		Records:      sum.Records,
		Inserted:     sum.Inserted,
		Updated:      sum.Updated,
		Pruned:       sum.Pruned,
		Dropped:      sum.Dropped,
		Evicted:      sum.Evicted,
		SourceErrors: sum.SourceErrors,
		ModeChanged:  sum.ModeChanged,
		Committed:    sum.Committed,
		Reloaded:     sum.Reloaded,
	}
	return h.db.WithContext(ctx).Create(&rec).Error
}

// Recent returns the latest cycle rows, newest first.
func Recent(ctx context.Context, db *gorm.DB, limit int) ([]CycleRecord, error) {
	var rows []CycleRecord
	err := db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
