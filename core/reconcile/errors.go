package reconcile

import "errors"

var (
	// ErrSourceUnavailable wraps a source collection failure. The cycle
	// continues; the affected records simply age toward the grace window.
	ErrSourceUnavailable = errors.New("reconcile: source unavailable")

	// ErrPersistence wraps a load or commit failure of the persisted
	// artifacts. The cycle aborts without reloading the shaper.
	ErrPersistence = errors.New("reconcile: persistence failure")

	// ErrReload wraps a failed shaper reload after a successful commit. The
	// reload stays pending and is retried on the next cycle.
	ErrReload = errors.New("reconcile: shaper reload failed")
)
