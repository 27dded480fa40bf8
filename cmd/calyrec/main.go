package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"calyrec/internal/config"
	"calyrec/internal/domain"
	"calyrec/internal/email/noop"
	"calyrec/internal/email/ses"
	"calyrec/internal/logging"
	"calyrec/internal/port"
	"calyrec/internal/repository/sqlite"
	"calyrec/internal/service"
	s3storage "calyrec/internal/storage/s3"
)

var (
	// Global flags
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "calyrec",
	Short: "Batch reference reconciliation for dated transaction files",
	Long: `calyrec resolves one field of every record in a dated transaction file
against a prioritized chain of reference tables.

For each business date it loads the reference tables published for that
date, rewrites the target column of the transaction file (unresolved keys
are marked "no encontrado") and leaves the result in the output directory
together with an exception list of the keys it could not resolve.

Run without arguments to process the most recent dated file in the data
directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		// History only reads the ledger; it does not get an operations log.
		logFile := ""
		if cmd.Name() != "history" {
			logFile = filepath.Join(cfg.Dirs.Logs,
				fmt.Sprintf("procesamiento_%s.log", time.Now().Format("20060102_150405")))
		}
		logger, err = logging.New(level, cfg.Log.Format, logFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: process the most recent dated file.
		return runProcess(cmd, args)
	},
}

var (
	processDate string
	processAll  bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Resolve one or every dated transaction file",
	Long: `Processes dated transaction files from the data directory.

With --date, processes the file for that business date token (for example
D250807). With --all, processes every dated file found. Without flags,
processes the most recent dated file.`,
	RunE: runProcess,
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs from the run ledger",
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default calyrec.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	processCmd.Flags().StringVar(&processDate, "date", "", "Business date token to process (for example D250807)")
	processCmd.Flags().BoolVar(&processAll, "all", false, "Process every dated file in the data directory")
	processCmd.MarkFlagsMutuallyExclusive("date", "all")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// deps holds the optional collaborators wired from config.
type deps struct {
	db       *sqlx.DB
	runRepo  port.RunRepository
	storage  port.ObjectStorage
	notifier port.Notifier
}

func (d *deps) close() {
	if d.db != nil {
		_ = d.db.Close()
	}
}

func buildDeps() (*deps, error) {
	d := &deps{notifier: noop.NewNoopNotifier()}

	if cfg.Ledger.Enabled {
		db, err := sqlite.NewDB(cfg.Ledger.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open run ledger: %w", err)
		}
		d.db = db
		d.runRepo = sqlite.NewRunRepo(db)
	}

	if cfg.S3.Enabled {
		storage, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			d.close()
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		d.storage = storage
	}

	if cfg.Email.Provider == "ses" {
		notifier, err := ses.NewSESNotifier(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.Recipients)
		if err != nil {
			d.close()
			return nil, fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
		d.notifier = notifier
	}

	return d, nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	if processDate != "" {
		if _, err := domain.ParseDateToken(processDate); err != nil {
			return err
		}
	}

	if err := service.EnsureDirs(cfg.Dirs); err != nil {
		return err
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	processor := service.NewProcessService(cfg, d.runRepo, d.storage, d.notifier, logging.NewZapObserver(logger), logger)
	discovery := service.NewDiscovery(cfg.Dirs.Data, cfg.Primary)
	batch := service.NewBatchService(discovery, processor, cfg.Process.Concurrency, logger)

	ctx := cmd.Context()
	switch {
	case processDate != "":
		summary, err := processor.ProcessDate(ctx, processDate)
		if err != nil {
			return err
		}
		printSummary(summary)
	case processAll:
		results, err := batch.ProcessAll(ctx)
		if err != nil {
			return err
		}
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.Token, r.Err)
				continue
			}
			printSummary(r.Summary)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d runs failed", failed, len(results))
		}
	default:
		summary, err := batch.ProcessLatest(ctx)
		if err != nil {
			return err
		}
		printSummary(summary)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if !cfg.Ledger.Enabled {
		return fmt.Errorf("run ledger is disabled")
	}
	db, err := sqlite.NewDB(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("failed to open run ledger: %w", err)
	}
	defer db.Close()

	runs, err := sqlite.NewRunRepo(db).ListRecent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, r := range runs {
		when := r.StartedAt.Format("2006-01-02 15:04:05")
		if r.Status == domain.RunStatusFailed {
			fmt.Printf("%s  %s  %-9s  %s\n", when, r.DateToken, r.Status, r.Error)
			continue
		}
		fmt.Printf("%s  %s  %-9s  %d/%d matched\n", when, r.DateToken, r.Status, r.Matched, r.Total)
	}
	return nil
}

func printSummary(s *domain.RunSummary) {
	fmt.Printf("%s: %d records, %d matched, %d unmatched (%s)\n",
		s.DateToken, s.Total, s.Matched, s.Unmatched, s.Duration.Round(time.Millisecond))
	fmt.Printf("  output: %s\n", s.OutputFile)
	if s.Unmatched > 0 {
		fmt.Printf("  exceptions: %s\n", filepath.Join(cfg.Dirs.Logs, service.ExceptionLogFile))
	}
}
