package audit

import "time"

// CycleRecord is one persisted audit row per reconciliation cycle.
type CycleRecord struct {
	ID      uint   `gorm:"primaryKey"`
	CycleID string `gorm:"size:36;index"`

	StartedAt  time.Time
	DurationMs int64

	Records      int
	Inserted     int
	Updated      int
	Pruned       int
	Dropped      int
	Evicted      int
	SourceErrors int

	ModeChanged bool
	Committed   bool
	Reloaded    bool

	CreatedAt time.Time
}

// TableName overrides the default gorm pluralization.
func (CycleRecord) TableName() string { return "cycle_audit" }
