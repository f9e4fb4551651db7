package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"shaper-sync/core/config"
	"shaper-sync/core/database"
	"shaper-sync/core/logger"
	"shaper-sync/core/store"
	"shaper-sync/feature/audit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the persisted state and declarative inputs",
	Long: `Validates the router and static device lists and prints the
persisted shaped-device table, without touching any router.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()

		routers, err := config.LoadRouters(cfg.Paths.RoutersPath)
		if err != nil {
			logg.Fatal("Router list invalid", zap.Error(err))
		}
		statics, err := config.LoadStaticDevices(cfg.Paths.StaticPath)
		if err != nil {
			logg.Fatal("Static device list invalid", zap.Error(err))
		}

		fileStore := store.NewFileStore(cfg.Paths, logg)
		table, err := fileStore.LoadTable()
		if err != nil {
			logg.Fatal("Shaped-device table unreadable", zap.Error(err))
		}
		tree, err := fileStore.LoadHierarchy()
		if err != nil {
			logg.Fatal("Hierarchy unreadable", zap.Error(err))
		}
		mode, err := fileStore.LoadMode()
		if err != nil {
			logg.Fatal("Mode token unreadable", zap.Error(err))
		}
		if mode == "" {
			mode = "(none)"
		}

		fmt.Printf("routers: %d  static devices: %d  records: %d  root nodes: %d  mode: %s\n\n",
			len(routers), len(statics), table.Len(), len(tree), mode)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CIRCUIT\tPARENT\tIPV4\tMAX DL/UL\tMIN DL/UL\tSOURCE")
		for _, rec := range table.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%g/%g\t%g/%g\t%s\n",
				rec.CircuitName, rec.ParentNode, rec.IPv4,
				rec.DownloadMaxMbps, rec.UploadMaxMbps,
				rec.DownloadMinMbps, rec.UploadMinMbps,
				rec.Comment,
			)
		}
		w.Flush()

		if cfg.Database.Enabled {
			printRecentCycles(cmd.Context(), cfg, logg)
		}
	},
}

// printRecentCycles appends the audit trail tail to the inspect output. An
// unreachable audit database is reported but never fails the command.
func printRecentCycles(ctx context.Context, cfg *config.Config, logg *zap.Logger) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logg.Warn("Audit database unavailable", zap.Error(err))
		return
	}
	cycles, err := audit.Recent(ctx, db, 10)
	if err != nil {
		logg.Warn("Audit trail unreadable", zap.Error(err))
		return
	}

	fmt.Println("\nrecent cycles:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CYCLE\tSTARTED\tRECORDS\tINS\tUPD\tPRUNED\tERRORS\tCOMMITTED")
	for _, c := range cycles {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%t\n",
			c.CycleID, c.StartedAt.Format("2006-01-02 15:04:05"),
			c.Records, c.Inserted, c.Updated, c.Pruned,
			c.SourceErrors, c.Committed,
		)
	}
	w.Flush()
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}
