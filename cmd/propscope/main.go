package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"propscope/adapters/postgres"
	"propscope/adapters/tabular"
	"propscope/domain/core"
	"propscope/domain/run"
	"propscope/internal/api"
	"propscope/internal/config"
	"propscope/internal/explore"
	"propscope/internal/profile"
	"propscope/internal/report"
	"propscope/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Main] No .env file found, using environment variables")
	}

	rootCmd := &cobra.Command{
		Use:   "propscope",
		Short: "Explore and profile real-estate listing tables",
		Long: `Propscope loads a listings table from a CSV file, a CSV URL, or an
Excel workbook, resolves its column names against the logical schema,
and walks a fixed exploration sequence over it: previews, selection,
filtering, grouping, mutation, and numeric transforms.`,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newProfileCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sourceFromArgsOrEnv prefers the positional argument and falls back
// to DATASET_SOURCE.
func sourceFromArgsOrEnv(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("no source given: %w", err)
	}
	return cfg.Data.Source, nil
}

func loadDataset(ctx context.Context, source string) (*tabular.Result, error) {
	res, err := tabular.NewDataReader(source).Load(ctx)
	if err != nil {
		return nil, describeLoadError(source, err)
	}
	return res, nil
}

// describeLoadError turns the source error taxonomy into operator-facing
// diagnostics.
func describeLoadError(source string, err error) error {
	switch {
	case errors.Is(err, core.ErrSourceNotFound):
		return fmt.Errorf("source %q does not exist: %w", source, err)
	case errors.Is(err, core.ErrSourcePermission):
		return fmt.Errorf("no permission to read %q: %w", source, err)
	case errors.Is(err, core.ErrSourceMalformed):
		return fmt.Errorf("source %q is not a readable table: %w", source, err)
	default:
		return fmt.Errorf("failed to load %q: %w", source, err)
	}
}

func newRunCmd() *cobra.Command {
	var workers int
	var skipProfile bool

	cmd := &cobra.Command{
		Use:   "run [source]",
		Short: "Run the full exploration sequence over a table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := sourceFromArgsOrEnv(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			res, err := loadDataset(ctx, source)
			if err != nil {
				return err
			}

			summary := explore.NewRunner(cmd.OutOrStdout()).Run(res.Frame, res.Mapping)

			rpt := report.New(res.Source, res.Rows, res.Cols)
			rpt.Mapping = map[string]string(res.Mapping)
			rpt.Run = summary

			if !skipProfile {
				profiles, err := profile.NewProfiler(workers).ProfileFrame(ctx, res.Frame)
				if err != nil {
					log.Printf("[Main] Profiling failed: %v", err)
				} else {
					rpt.Profiles = profiles
				}
			}

			if repo := openRepository(ctx); repo != nil {
				persistRun(ctx, repo, res, rpt)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent profiling workers (0 = one per CPU)")
	cmd.Flags().BoolVar(&skipProfile, "no-profile", false, "skip column profiling")
	return cmd
}

func newProfileCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "profile [source]",
		Short: "Profile every column and print the results as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := sourceFromArgsOrEnv(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			res, err := loadDataset(ctx, source)
			if err != nil {
				return err
			}

			profiles, err := profile.NewProfiler(workers).ProfileFrame(ctx, res.Frame)
			if err != nil {
				return fmt.Errorf("failed to profile %q: %w", source, err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(profiles)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent profiling workers (0 = one per CPU)")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the run results over HTTP, loading the dataset in the background",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer()
			go loadAndPublish(ctx, cfg, server)

			return server.Start(ctx, ":"+cfg.Server.Port)
		},
	}
}

// loadAndPublish performs the full load-run-profile pipeline and hands
// the outcome to the server. The server answers 503 until this lands.
func loadAndPublish(ctx context.Context, cfg *config.Config, server *api.Server) {
	res, err := loadDataset(ctx, cfg.Data.Source)
	if err != nil {
		log.Printf("[Main] Background load failed: %v", err)
		server.SetError(err)
		return
	}

	rpt := report.New(res.Source, res.Rows, res.Cols)
	rpt.Mapping = map[string]string(res.Mapping)

	if !cfg.Profiling.SkipRun {
		var transcript bytes.Buffer
		runner := explore.NewRunner(io.MultiWriter(os.Stdout, &transcript))
		rpt.Run = runner.Run(res.Frame, res.Mapping)
		rpt.RunOutput = transcript.String()
	}

	profiles, err := profile.NewProfiler(cfg.Profiling.Workers).ProfileFrame(ctx, res.Frame)
	if err != nil {
		log.Printf("[Main] Profiling failed: %v", err)
	} else {
		rpt.Profiles = profiles
	}

	server.SetResult(res.Frame, res.Mapping, rpt)
	log.Printf("[Main] Dataset ready: %d rows, %d columns", res.Rows, res.Cols)

	if repo := openRepository(ctx); repo != nil {
		persistRun(ctx, repo, res, rpt)
	}
}

// openRepository connects to PostgreSQL when DATABASE_URL is set.
// Persistence is best-effort: a missing or unreachable database only
// logs.
func openRepository(ctx context.Context) ports.RunRepository {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		log.Printf("[Main] Database unavailable, skipping persistence: %v", err)
		return nil
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Printf("[Main] Schema setup failed, skipping persistence: %v", err)
		return nil
	}
	return postgres.NewRunRepository(db)
}

func persistRun(ctx context.Context, repo ports.RunRepository, res *tabular.Result, rpt *report.Report) {
	rec := run.NewRecord(res.Source, res.Rows, res.Cols)
	rec.Mapping = rpt.Mapping
	if rpt.Run != nil {
		rec.StepsTotal = rpt.Run.Total
		rec.StepsSkipped = rpt.Run.Skipped
	}
	if len(rpt.Profiles) > 0 {
		if data, err := json.Marshal(rpt.Profiles); err == nil {
			rec.Profiles = data
		}
	}
	rec.ReportMarkdown = rpt.Markdown()

	if err := repo.Create(ctx, rec); err != nil {
		log.Printf("[Main] Failed to persist run: %v", err)
		return
	}
	log.Printf("[Main] Run persisted: %s", rec.ID)
}
