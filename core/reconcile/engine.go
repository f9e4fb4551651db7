package reconcile

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"shaper-sync/core/hierarchy"
	"shaper-sync/core/inventory"
	"shaper-sync/core/logger"
	"shaper-sync/core/shaper"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store abstracts the persistence of the canonical table, the hierarchy
// tree, and the parent-mode token. Satisfied by store.FileStore.
type Store interface {
	LoadTable() (*inventory.Table, error)
	SaveTable(table *inventory.Table) error
	LoadHierarchy() (hierarchy.Tree, error)
	SaveHierarchy(tree hierarchy.Tree) error
	LoadMode() (string, error)
	SaveMode(mode string) error
}

// Hook runs after every cycle with its summary. Hook failures are logged and
// never fail the cycle.
type Hook interface {
	AfterCycle(ctx context.Context, sum Summary) error
}

// Summary describes the outcome of one reconciliation cycle.
type Summary struct {
	CycleID   string
	StartedAt time.Time
	Duration  time.Duration

	// Records is the table size after the cycle.
	Records int

	Inserted int
	Updated  int
	Pruned   int
	// Dropped counts dynamic observations discarded over a static IP claim.
	Dropped int
	// Evicted counts records deleted because another circuit took their IP.
	Evicted int

	// SourceErrors counts sources that failed to collect.
	SourceErrors int

	// ModeChanged reports that the parent-mode guard wiped the table.
	ModeChanged bool
	// Committed reports that the table was persisted this cycle.
	Committed bool
	// Reloaded reports that the shaper picked up the new table.
	Reloaded bool
}

// Mode tokens persisted as the comparison baseline for the parent-mode guard.
const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

// Engine drives the reconciliation cycle: collect from every source, merge
// into the canonical table, prune stale records, commit, reload the shaper.
// The table lives in memory between cycles so observation timestamps survive;
// the hierarchy is re-read every cycle to pick up operator edits.
type Engine struct {
	cfg      Config
	store    Store
	reloader shaper.Reloader
	sources  []Source
	hooks    []Hook
	log      *zap.Logger

	table         *inventory.Table
	pendingReload bool

	newID func() string
	now   func() time.Time
}

// NewEngine wires up an engine. Sources are processed static-first regardless
// of their order in the slice.
func NewEngine(cfg Config, st Store, reloader shaper.Reloader, sources []Source, hooks []Hook, log *zap.Logger) *Engine {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Engine{
		cfg:      cfg,
		store:    st,
		reloader: reloader,
		sources:  sources,
		hooks:    hooks,
		log:      log,
		newID:    inventory.NewIDGenerator(rng, cfg.IDLength),
		now:      time.Now,
	}
}

// Run executes cycles until the context is canceled. A failed cycle shortens
// the delay to the error-retry interval. A cycle that only failed to reload
// the shaper still committed its table, so it is logged as a pending reload
// rather than a failed cycle.
func (e *Engine) Run(ctx context.Context) error {
	for {
		delay := e.cfg.ScanInterval()
		if _, err := e.RunCycle(ctx); err != nil {
			if errors.Is(err, ErrReload) {
				e.log.Warn("Shaper reload failed, retrying next cycle", zap.Error(err))
			} else {
				e.log.Error("Reconciliation cycle failed", zap.Error(err))
			}
			delay = e.cfg.ErrorRetry()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// RunCycle executes one full reconciliation cycle.
func (e *Engine) RunCycle(ctx context.Context) (Summary, error) {
	sum := Summary{
		CycleID:   uuid.NewString(),
		StartedAt: e.now(),
	}
	log := logger.WithCycle(e.log, sum.CycleID)
	log.Info("Cycle started")

	if err := e.ensureTable(log); err != nil {
		return sum, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	tree, err := e.store.LoadHierarchy()
	if err != nil {
		return sum, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	hm := hierarchy.NewManager(tree, e.cfg.DefaultNodeMbps, log)

	cleared, mode, err := e.applyModeGuard(log)
	if err != nil {
		e.table = nil
		return sum, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	sum.ModeChanged = cleared

	cy := &cycle{
		now:        e.now(),
		seen:       make(map[string]struct{}),
		staticIPs:  make(map[string]string),
		staticSeen: make(map[string]struct{}),
		warnedPool: make(map[string]struct{}),
	}

	// Static entries go first so their address claims win over any dynamic
	// observation in the same cycle.
	for _, src := range e.sources {
		if src.Kind() == inventory.CommentStatic {
			e.collect(ctx, src, hm, cy, &sum, log)
		}
	}
	for _, src := range e.sources {
		if src.Kind() != inventory.CommentStatic {
			e.collect(ctx, src, hm, cy, &sum, log)
		}
	}

	e.prune(cy, &sum, log)

	if err := e.commit(hm, cleared, mode, &sum, log); err != nil {
		// Drop the in-memory table so the next cycle rebuilds from the
		// persisted state and retries the commit with fresh observations.
		e.table = nil
		return sum, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var reloadErr error
	if sum.Committed || e.pendingReload {
		e.pendingReload = true
		if err := e.reloader.Reload(ctx); err != nil {
			reloadErr = fmt.Errorf("%w: %v", ErrReload, err)
		} else {
			e.pendingReload = false
			sum.Reloaded = true
		}
	}

	sum.Records = e.table.Len()
	sum.Duration = e.now().Sub(sum.StartedAt)

	for _, h := range e.hooks {
		if err := h.AfterCycle(ctx, sum); err != nil {
			log.Warn("Cycle hook failed", zap.Error(err))
		}
	}

	log.Info("Cycle finished",
		zap.Int("records", sum.Records),
		zap.Int("inserted", sum.Inserted),
		zap.Int("updated", sum.Updated),
		zap.Int("pruned", sum.Pruned),
		zap.Int("dropped", sum.Dropped),
		zap.Int("evicted", sum.Evicted),
		zap.Int("source_errors", sum.SourceErrors),
		zap.Bool("committed", sum.Committed),
		zap.Bool("reloaded", sum.Reloaded),
		zap.Duration("duration", sum.Duration),
	)
	return sum, reloadErr
}

// cycle carries the per-cycle merge state.
type cycle struct {
	now      time.Time
	rotation int

	// seen tracks circuit names observed live this cycle.
	seen map[string]struct{}
	// staticIPs maps addresses reserved by static entries to their owner.
	staticIPs map[string]string
	// staticSeen tracks static circuit names listed this cycle.
	staticSeen map[string]struct{}
	// staticOK reports that the static list was read successfully, which
	// authorizes removal of unlisted static records.
	staticOK bool

	warnedPool map[string]struct{}
}

// ensureTable loads the persisted table on the first cycle. Loaded dynamic
// records get a fresh observation timestamp: the file does not carry one, and
// a restart must not prune everything at once.
func (e *Engine) ensureTable(log *zap.Logger) error {
	if e.table != nil {
		return nil
	}
	table, err := e.store.LoadTable()
	if err != nil {
		return err
	}
	now := e.now()
	for _, rec := range table.All() {
		if !rec.IsStatic() {
			rec.LastSeen = now
		}
	}
	e.table = table
	log.Info("Loaded shaped-device table", zap.Int("records", table.Len()))
	return nil
}

// applyModeGuard compares the configured parent-assignment mode against the
// persisted baseline. On a change the table is wiped; the hierarchy is kept
// so node caps tuned by the operator survive the rebuild. The returned token
// is persisted by commit rather than here: advancing the baseline before the
// wiped table lands on disk would let an aborted cycle skip the wipe forever.
func (e *Engine) applyModeGuard(log *zap.Logger) (cleared bool, token string, err error) {
	want := ModeAuto
	if e.cfg.ManualParents {
		want = ModeManual
	}

	prior, err := e.store.LoadMode()
	if err != nil {
		return false, "", err
	}
	if prior == want {
		return false, "", nil
	}

	if prior != "" {
		log.Warn("Parent-assignment mode changed, rebuilding table from scratch",
			zap.String("from", prior),
			zap.String("to", want),
		)
		e.table.Clear()
		cleared = true
	}
	return cleared, want, nil
}

func (e *Engine) collect(ctx context.Context, src Source, hm *hierarchy.Manager, cy *cycle, sum *Summary, log *zap.Logger) {
	entries, err := src.Collect(ctx)
	if err != nil {
		sum.SourceErrors++
		log.Error("Source collection failed",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		return
	}

	static := src.Kind() == inventory.CommentStatic
	if static {
		cy.staticOK = true
	}

	for _, entry := range entries {
		if static {
			e.mergeStatic(entry, hm, cy, sum, log)
		} else {
			e.mergeDynamic(entry, src.Kind(), hm, cy, sum, log)
		}
	}
	log.Debug("Source collected",
		zap.String("source", src.Name()),
		zap.Int("entries", len(entries)),
	)
}

// mergeStatic applies one static entry. Static claims are authoritative: a
// dynamic record squatting on the entry's address is evicted.
func (e *Engine) mergeStatic(entry Entry, hm *hierarchy.Manager, cy *cycle, sum *Summary, log *zap.Logger) {
	name := entry.CircuitName

	if entry.IPv4 != "" {
		if owner, ok := e.table.OwnerOfIPv4(entry.IPv4); ok && owner != name {
			if rec, found := e.table.Get(owner); found && rec.IsStatic() {
				log.Warn("Two static devices claim the same address",
					zap.String("ipv4", entry.IPv4),
					zap.String("kept", name),
					zap.String("conflicting", owner),
				)
			} else {
				e.table.Delete(owner)
				sum.Evicted++
				log.Info("Evicted dynamic record over static address claim",
					zap.String("circuit", owner),
					zap.String("ipv4", entry.IPv4),
				)
			}
		}
		cy.staticIPs[entry.IPv4] = name
	}

	if entry.StaticParent != "" {
		hm.EnsureStaticParent(entry.StaticParent)
	}

	e.upsert(name, entry, entry.StaticParent, inventory.CommentStatic, sum)
	cy.staticSeen[name] = struct{}{}
	cy.seen[name] = struct{}{}
}

// mergeDynamic applies one dynamic entry. A static reservation on the
// entry's address drops the observation; a dynamic holder loses the address
// to the newer observation.
func (e *Engine) mergeDynamic(entry Entry, kind string, hm *hierarchy.Manager, cy *cycle, sum *Summary, log *zap.Logger) {
	name := entry.CircuitName

	if entry.IPv4 != "" {
		if holder, ok := cy.staticIPs[entry.IPv4]; ok && holder != name {
			sum.Dropped++
			log.Debug("Dropped dynamic observation over static reservation",
				zap.String("circuit", name),
				zap.String("ipv4", entry.IPv4),
				zap.String("reserved_by", holder),
			)
			return
		}
		if owner, ok := e.table.OwnerOfIPv4(entry.IPv4); ok && owner != name {
			if rec, found := e.table.Get(owner); found && rec.IsStatic() {
				sum.Dropped++
				return
			}
			e.table.Delete(owner)
			delete(cy.seen, owner)
			sum.Evicted++
			log.Info("Evicted record over reassigned address",
				zap.String("circuit", owner),
				zap.String("taken_by", name),
				zap.String("ipv4", entry.IPv4),
			)
		}
	}

	req := entry.Parent
	req.ManualEnabled = e.cfg.ManualParents
	req.Rotation = &cy.rotation
	if req.ManualEnabled && len(req.Pool) == 0 {
		if _, warned := cy.warnedPool[req.Router]; !warned {
			cy.warnedPool[req.Router] = struct{}{}
			log.Warn("Manual parent mode enabled but router declares no pool",
				zap.String("router", req.Router),
			)
		}
	}
	parent := hm.ResolveParent(req)

	e.upsert(name, entry, parent, kind, sum)
	cy.seen[name] = struct{}{}
	e.table.Touch(name, cy.now)
}

func (e *Engine) upsert(name string, entry Entry, parent, kind string, sum *Summary) {
	_, existed := e.table.Get(name)

	device := entry.DeviceName
	if device == "" {
		device = name
	}

	attrs := inventory.Attrs{
		DeviceName:      inventory.Ptr(device),
		MAC:             inventory.Ptr(entry.MAC),
		IPv4:            inventory.Ptr(entry.IPv4),
		IPv6:            inventory.Ptr(entry.IPv6),
		Comment:         inventory.Ptr(kind),
		DownloadMaxMbps: inventory.Ptr(entry.Max.RxMbps),
		UploadMaxMbps:   inventory.Ptr(entry.Max.TxMbps),
		DownloadMinMbps: inventory.Ptr(entry.Min.RxMbps),
		UploadMinMbps:   inventory.Ptr(entry.Min.TxMbps),
	}
	if parent != "" {
		attrs.ParentNode = inventory.Ptr(parent)
	}

	_, changed := e.table.BuildOrUpdate(name, attrs, e.newID)
	if !existed {
		sum.Inserted++
	} else if changed {
		sum.Updated++
	}
}

// prune removes records that fell out of every source. Dynamic records get
// the grace window; static records are removed only when the static list was
// read successfully and no longer names them.
func (e *Engine) prune(cy *cycle, sum *Summary, log *zap.Logger) {
	for _, rec := range e.table.All() {
		if _, ok := cy.seen[rec.CircuitName]; ok {
			continue
		}

		if rec.IsStatic() {
			if cy.staticOK {
				e.table.Delete(rec.CircuitName)
				sum.Pruned++
				log.Info("Removed unlisted static record", zap.String("circuit", rec.CircuitName))
			}
			continue
		}

		if cy.now.Sub(rec.LastSeen) > e.cfg.Grace() {
			e.table.Delete(rec.CircuitName)
			sum.Pruned++
			log.Info("Pruned stale record",
				zap.String("circuit", rec.CircuitName),
				zap.Time("last_seen", rec.LastSeen),
			)
		}
	}
}

// commit persists the table and hierarchy when they changed. The mode token
// advances last: until the whole commit lands, the persisted baseline keeps
// re-triggering the mode guard on the next cycle.
func (e *Engine) commit(hm *hierarchy.Manager, cleared bool, mode string, sum *Summary, log *zap.Logger) error {
	changed := cleared || sum.Inserted+sum.Updated+sum.Pruned+sum.Evicted > 0

	if changed {
		if err := e.store.SaveTable(e.table); err != nil {
			return err
		}
		sum.Committed = true
	}
	if hm.Dirty() {
		if err := e.store.SaveHierarchy(hm.Tree()); err != nil {
			return err
		}
	}
	if mode != "" {
		if err := e.store.SaveMode(mode); err != nil {
			return err
		}
	}
	return nil
}
