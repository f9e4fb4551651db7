package status

import (
	"github.com/gofiber/fiber/v2"
)

// Handler exposes the daemon's health and last-cycle state over HTTP.
type Handler struct {
	tracker *Tracker
}

// NewHandler creates the status handler.
func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// Register mounts the endpoints on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.health)
	app.Get("/status", h.status)
}

func (h *Handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) status(c *fiber.Ctx) error {
	body := fiber.Map{
		"uptime_seconds": int64(h.tracker.Uptime().Seconds()),
	}

	sum, ok := h.tracker.Last()
	if !ok {
		body["last_cycle"] = nil
		return c.JSON(body)
	}

	body["last_cycle"] = fiber.Map{
		"cycle_id":      sum.CycleID,
		"started_at":    sum.StartedAt,
		"duration_ms":   sum.Duration.Milliseconds(),
		"records":       sum.Records,
		"inserted":      sum.Inserted,
		"updated":       sum.Updated,
		"pruned":        sum.Pruned,
		"dropped":       sum.Dropped,
		"evicted":       sum.Evicted,
		"source_errors": sum.SourceErrors,
		"mode_changed":  sum.ModeChanged,
		"committed":     sum.Committed,
		"reloaded":      sum.Reloaded,
	}
	return c.JSON(body)
}
