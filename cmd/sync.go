package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"shaper-sync/core/config"
	"shaper-sync/core/database"
	"shaper-sync/core/logger"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/routeros"
	"shaper-sync/core/shaper"
	"shaper-sync/core/storage"
	"shaper-sync/core/store"

	"shaper-sync/feature/audit"
	"shaper-sync/feature/dhcp"
	"shaper-sync/feature/hotspot"
	"shaper-sync/feature/ppp"
	"shaper-sync/feature/static"
	"shaper-sync/feature/status"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runOnce bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the reconciliation daemon",
	Long: `Scans the configured routers on an interval, reconciles the
shaped-device table and parent hierarchy, and reloads the shaping engine
when something changed. With --once a single cycle runs and the command
exits.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Declarative inputs
		routers, err := config.LoadRouters(cfg.Paths.RoutersPath)
		if err != nil {
			logg.Fatal("Failed to load router list", zap.Error(err))
		}
		logg.Info("Loaded router list", zap.Int("routers", len(routers)))

		// 4. Persistence and the shaper reload command
		fileStore := store.NewFileStore(cfg.Paths, logg)
		reloader, err := shaper.NewExecReloader(cfg.Shaper, logg)
		if err != nil {
			logg.Fatal("Invalid shaper configuration", zap.Error(err))
		}

		// 5. Sources: the static list plus one source per enabled access
		// kind per router.
		policy := cfg.Engine.RatePolicy()
		sources := []reconcile.Source{
			static.NewSource(cfg.Paths.StaticPath, policy, logg),
		}
		for _, router := range routers {
			client := routeros.NewRESTClient(router, logg)
			if router.PPPoE.Enabled {
				sources = append(sources,
					ppp.NewSource(router, client, policy, cfg.Engine.ProfileCacheSize, logg))
			}
			if router.Hotspot.Enabled {
				sources = append(sources, hotspot.NewSource(router, client, policy, logg))
			}
			if router.DHCP.Enabled {
				sources = append(sources, dhcp.NewSource(router, client, policy, logg))
			}
		}

		// 6. Optional hooks: status endpoint, audit trail, artifact mirror.
		var hooks []reconcile.Hook

		var app *fiber.App
		if cfg.Status.Enabled {
			tracker := status.NewTracker()
			hooks = append(hooks, tracker)

			app = fiber.New(fiber.Config{DisableStartupMessage: true})
			status.NewHandler(tracker).Register(app)
			go func() {
				logg.Info("Status endpoint listening", zap.String("port", cfg.Status.Port))
				if err := app.Listen(":" + cfg.Status.Port); err != nil {
					logg.Error("Status endpoint failed", zap.Error(err))
				}
			}()
		}

		if cfg.Database.Enabled {
			if db, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Audit database unavailable, continuing without audit trail", zap.Error(err))
			} else if err := audit.Migrate(db); err != nil {
				logg.Warn("Audit migration failed, continuing without audit trail", zap.Error(err))
			} else {
				hooks = append(hooks, audit.NewHook(db, logg))
				logg.Info("Audit trail enabled")
			}
		}

		if cfg.Mirror.Enabled {
			client, err := storage.NewClient(cfg.Mirror)
			if err != nil {
				logg.Warn("Mirror client unavailable, continuing without mirroring", zap.Error(err))
			} else {
				mirror := storage.NewMirror(client, cfg.Mirror,
					[]string{cfg.Paths.TablePath, cfg.Paths.HierarchyPath}, logg)
				if err := mirror.EnsureBucket(cmd.Context()); err != nil {
					logg.Warn("Mirror bucket unavailable, continuing without mirroring", zap.Error(err))
				} else {
					hooks = append(hooks, storage.NewMirrorHook(mirror))
					logg.Info("Artifact mirroring enabled", zap.String("bucket", cfg.Mirror.Bucket))
				}
			}
		}

		// 7. Run
		engine := reconcile.NewEngine(cfg.Engine, fileStore, reloader, sources, hooks, logg)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if runOnce {
			if _, err := engine.RunCycle(ctx); err != nil {
				logg.Fatal("Cycle failed", zap.Error(err))
			}
		} else {
			logg.Info("Daemon started",
				zap.Int("scan_interval_seconds", cfg.Engine.ScanIntervalSeconds),
				zap.Int("sources", len(sources)),
			)
			if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
				logg.Fatal("Daemon stopped unexpectedly", zap.Error(err))
			}
		}

		if app != nil {
			logg.Info("Shutting down status endpoint")
			_ = app.Shutdown()
		}
	},
}

func init() {
	syncCmd.Flags().BoolVar(&runOnce, "once", false, "run a single reconciliation cycle and exit")
	RootCmd.AddCommand(syncCmd)
}
