package types

import (
	"errors"
	"fmt"
)

// Output formats.
const (
	FormatTable   = "table"   // buffer everything into an in-memory Table
	FormatParquet = "parquet" // stream to a hive-partitioned parquet dataset
)

// Config validation errors.
var (
	ErrFormatUnknown      = errors.New("unknown output format")
	ErrOutputDirEmpty     = errors.New("output directory must be set for parquet format")
	ErrBatchSizeInvalid   = errors.New("batch size must be positive")
	ErrPartitionWithTable = errors.New("partition columns require parquet format")
)

// DefaultBatchSize is the chunk size used when streaming records to the
// partition writer. Large enough to amortize per-file overhead, small enough
// to bound memory on the nationwide snapshot.
const DefaultBatchSize = 50000

// Config holds the output side of a fetch call.
type Config struct {
	Format           string   `json:"format" yaml:"format"`
	OutputDir        string   `json:"output_dir" yaml:"output_dir"`
	PartitionColumns []string `json:"partition_by" yaml:"partition_by"`
	BatchSize        int      `json:"batch_size" yaml:"batch_size"`
}

// Validate checks that the Config is well-formed. Partition column names are
// checked against the schema here so a bad name fails before any network
// access.
func (c Config) Validate() error {
	switch c.Format {
	case FormatTable:
		if len(c.PartitionColumns) > 0 {
			return ErrPartitionWithTable
		}
	case FormatParquet:
		if c.OutputDir == "" {
			return ErrOutputDirEmpty
		}
	default:
		return fmt.Errorf("%q: %w", c.Format, ErrFormatUnknown)
	}
	if c.BatchSize < 0 {
		return ErrBatchSizeInvalid
	}
	for _, name := range c.PartitionColumns {
		if _, ok := LookupColumn(name); !ok {
			return fmt.Errorf("%q: %w", name, ErrUnknownPartitionColumn)
		}
	}
	return nil
}

// EffectiveBatchSize returns BatchSize or the default when unset.
func (c Config) EffectiveBatchSize() int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return DefaultBatchSize
}
