// Fetch command: resolves targets and runs the download pipeline.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/jpcorpreg/internal/client"
	"github.com/mesh-intelligence/jpcorpreg/internal/paths"
	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// fetchFlags holds the fetch command's flag values.
type fetchFlags struct {
	all         bool
	prefectures []string
	diff        bool
	date        string
	format      string
	output      string
	partitionBy []string
	batchSize   int
}

func newFetchCmd() *cobra.Command {
	var f fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download registry data and convert it",
		Long: `Fetch downloads registry archives and converts them to parquet datasets
or an in-memory table summary.

Example:
  jpcorpreg fetch --prefecture Shimane --format table
  jpcorpreg fetch --all --format parquet --partition-by prefecture_code
  jpcorpreg fetch --diff --date 20260220 --partition-by update_date
  jpcorpreg fetch --prefecture Tottori --prefecture Shimane`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, f)
		},
	}

	cmd.Flags().BoolVar(&f.all, "all", false, "fetch the nationwide full snapshot")
	cmd.Flags().StringSliceVar(&f.prefectures, "prefecture", nil, "prefecture or region name (repeatable)")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "fetch a daily differential update")
	cmd.Flags().StringVar(&f.date, "date", "", "diff publication date (YYYYMMDD, default: latest)")
	cmd.Flags().StringVar(&f.format, "format", types.FormatParquet, "output format: table or parquet")
	cmd.Flags().StringVar(&f.output, "output", "", "dataset root for parquet output (default: platform data dir)")
	cmd.Flags().StringSliceVar(&f.partitionBy, "partition-by", nil, "partition columns for parquet output")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 0, "rows per write batch (default 50000)")

	return cmd
}

func runFetch(cmd *cobra.Command, f fetchFlags) error {
	v, err := loadConfig()
	if err != nil {
		return err
	}

	requests, err := buildRequests(f)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(f, v)
	if err != nil {
		return err
	}

	log, err := buildLogger(v.GetString(cfgKeyLogLevel))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	c := client.New(client.WithLogger(log))
	ctx := cmd.Context()

	// Each target runs as an independent pipeline. Distinct prefectures get
	// distinct dataset roots, so concurrent writes never share a root.
	g, ctx := errgroup.WithContext(ctx)
	for _, req := range requests {
		req := req
		cfg := cfg
		if cfg.Format == types.FormatParquet && len(requests) > 1 {
			cfg.OutputDir = filepath.Join(cfg.OutputDir, strings.ToLower(req.Prefecture))
		}
		g.Go(func() error {
			table, root, err := c.Fetch(ctx, req, cfg)
			if err != nil {
				return err
			}
			if table != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records, %d columns\n", targetName(req), table.Len(), len(table.Columns))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: dataset written to %s\n", targetName(req), root)
			}
			return nil
		})
	}
	return g.Wait()
}

// buildRequests maps the target flags to registry requests. Exactly one
// target family must be selected.
func buildRequests(f fetchFlags) ([]types.Request, error) {
	selected := 0
	if f.all {
		selected++
	}
	if len(f.prefectures) > 0 {
		selected++
	}
	if f.diff {
		selected++
	}
	if selected != 1 {
		return nil, fmt.Errorf("select exactly one of --all, --prefecture, --diff")
	}

	switch {
	case f.all:
		return []types.Request{{Kind: types.KindFull}}, nil
	case f.diff:
		return []types.Request{{Kind: types.KindDiff, Date: f.date}}, nil
	default:
		reqs := make([]types.Request, 0, len(f.prefectures))
		for _, p := range f.prefectures {
			canonical, err := types.NormalizePrefecture(p)
			if err != nil {
				return nil, err
			}
			reqs = append(reqs, types.Request{Kind: types.KindPrefecture, Prefecture: canonical})
		}
		return reqs, nil
	}
}

// buildConfig merges flags with config.yaml defaults.
func buildConfig(f fetchFlags, v *viper.Viper) (types.Config, error) {
	cfg := types.Config{
		Format:           f.format,
		PartitionColumns: f.partitionBy,
		BatchSize:        f.batchSize,
	}
	if len(cfg.PartitionColumns) == 0 {
		cfg.PartitionColumns = v.GetStringSlice(cfgKeyPartitionBy)
	}
	if cfg.Format == types.FormatParquet {
		root, err := paths.ResolveDataDir(f.output, v.GetString(cfgKeyOutputDir))
		if err != nil {
			return types.Config{}, fmt.Errorf("resolve output dir: %w", err)
		}
		cfg.OutputDir = root
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// buildLogger creates a production JSON logger to stderr.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableCaller = true
	return cfg.Build()
}

// targetName labels a request in CLI output.
func targetName(req types.Request) string {
	switch req.Kind {
	case types.KindFull:
		return "all"
	case types.KindDiff:
		if req.Date == "" {
			return "diff (latest)"
		}
		return "diff " + req.Date
	default:
		return req.Prefecture
	}
}
