package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JonMunkholm/visitseed/internal/config"
	"github.com/JonMunkholm/visitseed/internal/importer"
	"github.com/JonMunkholm/visitseed/internal/logging"
	"github.com/JonMunkholm/visitseed/internal/source"
	"github.com/JonMunkholm/visitseed/internal/store"
	"github.com/JonMunkholm/visitseed/internal/traveltime"
	"github.com/JonMunkholm/visitseed/internal/validate"
)

type rootOptions struct {
	envFiles    []string
	dataDir     string
	week        string
	assignRatio float64
	dryRun      bool
}

type runMode int

const (
	modeFull runMode = iota
	modeOrders
	modeValidate
)

func noArgs(cmd *cobra.Command, args []string) error {
	return withCode(exitUsage, cobra.NoArgs(cmd, args))
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Validate the seed CSV set and import it into the document store",
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts, modeFull, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	pf := cmd.PersistentFlags()
	pf.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")
	pf.StringVar(&opts.dataDir, "data-dir", "", "directory holding the seed CSV files (default SEED_DATA_DIR or seed/data)")
	pf.StringVar(&opts.week, "week", "", "Monday (YYYY-MM-DD) to generate orders for (default: current week)")
	pf.BoolVar(&opts.dryRun, "dry-run", false, "run against an in-memory store; nothing is written")
	cmd.Flags().Float64Var(&opts.assignRatio, "assign-ratio", 0, "share of orders given a sample helper assignment (0-1)")

	cmd.AddCommand(newOrdersCmd(&opts, stdout, stderr))
	cmd.AddCommand(newValidateCmd(&opts, stdout, stderr))
	return cmd
}

func newOrdersCmd(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Regenerate the orders collection only",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, *opts, modeOrders, stdout, stderr)
		},
	}
	cmd.Flags().Float64Var(&opts.assignRatio, "assign-ratio", 0, "share of orders given a sample helper assignment (0-1)")
	return cmd
}

func newValidateCmd(opts *rootOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the seed CSV set without writing",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, *opts, modeValidate, stdout, stderr)
		},
	}
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command, opts rootOptions) (*config.Config, error) {
	config.LoadDotEnv(opts.envFiles...)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if opts.dataDir != "" {
		cfg.Source.DataDir = opts.dataDir
	}
	if opts.week != "" {
		cfg.Import.WeekStart = opts.week
	}
	if f := cmd.Flags().Lookup("assign-ratio"); f != nil && f.Changed {
		cfg.Import.AssignRatio = opts.assignRatio
	}
	if opts.dryRun {
		cfg.Store.Driver = config.DriverMemory
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func importerOptions(cfg *config.Config) (importer.Options, error) {
	opts := importer.Options{
		DataDir:     cfg.Source.DataDir,
		AssignRatio: cfg.Import.AssignRatio,
		Office:      traveltime.Location{ID: cfg.Geo.OfficeID, Lat: cfg.Geo.OfficeLat, Lng: cfg.Geo.OfficeLng},
		Validate: validate.Options{
			Bounds: validate.Bounds{
				MinLat: cfg.Geo.MinLat,
				MaxLat: cfg.Geo.MaxLat,
				MinLng: cfg.Geo.MinLng,
				MaxLng: cfg.Geo.MaxLng,
			},
			OfficeID: cfg.Geo.OfficeID,
		},
		BatchSize: cfg.Store.BatchSize,
	}
	if cfg.Import.WeekStart != "" {
		week, err := source.ParseDate(cfg.Import.WeekStart)
		if err != nil {
			return opts, err
		}
		opts.WeekStart = week
	}
	return opts, nil
}

func newEstimator(cfg *config.Config, logger *zap.Logger) traveltime.Estimator {
	if cfg.Maps.APIKey == "" {
		return traveltime.HaversineEstimator{}
	}
	return traveltime.NewDistanceMatrixClient(traveltime.DistanceMatrixOptions{
		APIKey:        cfg.Maps.APIKey,
		BaseURL:       cfg.Maps.BaseURL,
		Timeout:       cfg.Maps.Timeout,
		MaxRetries:    cfg.Maps.MaxRetries,
		RetryWait:     cfg.Maps.RetryWait,
		MaxConcurrent: cfg.Maps.MaxConcurrent,
	}, logger)
}

func runSeed(cmd *cobra.Command, opts rootOptions, mode runMode, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return withCode(exitUsage, err)
	}

	logger, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return withCode(exitUsage, err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("Configuration loaded", zap.Stringer("config", cfg))
	source.MaxFileSize = cfg.Source.MaxFileSize

	imOpts, err := importerOptions(cfg)
	if err != nil {
		return withCode(exitUsage, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var s store.Store = store.NewMemory()
	if mode != modeValidate {
		s, err = store.Open(ctx, cfg.Store, logger)
		if err != nil {
			return withCode(exitStore, errors.Wrap(err, "open store"))
		}
		if opts.dryRun {
			logger.Info("Dry run: writing to an in-memory store")
		}
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			logger.Warn("Failed to close store", zap.Error(cerr))
		}
	}()

	im := importer.New(s, newEstimator(cfg, logger), imOpts, logger)

	start := time.Now()
	var res importer.Result
	switch mode {
	case modeOrders:
		res = im.RunOrdersOnly(ctx)
	case modeValidate:
		res = im.Validate(ctx)
	default:
		res = im.Run(ctx)
	}
	logger.Debug("Run finished", zap.String("phase", string(res.Phase)), zap.Duration("elapsed", time.Since(start)))

	return reportResult(res, mode, stdout, stderr)
}

// reportResult prints the outcome of a run and maps it to an exit code.
func reportResult(res importer.Result, mode runMode, stdout, stderr io.Writer) error {
	switch res.Phase {
	case importer.PhaseDone:
		if mode == modeValidate {
			fmt.Fprintln(stdout, "All validations passed")
			return nil
		}
		importer.WriteReport(stdout, res)
		return nil

	case importer.PhaseAborted:
		importer.WriteValidationErrors(stderr, res.ValidationErrors)
		return withCode(exitValidation, errReported)

	default:
		importer.WriteFailure(stderr, res)
		var se *source.SourceReadError
		if errors.As(res.Err, &se) {
			return withCode(exitSource, errReported)
		}
		return withCode(exitStore, errReported)
	}
}
