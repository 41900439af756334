// Package partition writes record batches as a hive-partitioned parquet
// dataset and reads such datasets back.
//
// Each write call appends one new part file per partition key it touches;
// existing files are never truncated or overwritten, so repeated diff
// ingestion into the same root accumulates history. A schema marker at the
// dataset root stops a writer from mixing two schema versions into one
// dataset. Concurrent writers against the same root are a caller contract,
// not enforced here.
package partition

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// markerName is the dataset schema marker file, written once per root.
const markerName = "_jpcorpreg_schema.json"

// hiveNullValue is the conventional hive path segment for a null partition
// value.
const hiveNullValue = "__HIVE_DEFAULT_PARTITION__"

// marker records the schema a dataset was written with.
type marker struct {
	SchemaVersion int      `json:"schema_version"`
	Columns       []string `json:"columns"`
}

// Writer appends record batches to a partitioned dataset root.
type Writer struct {
	root string
	cols []string
}

// NewWriter prepares a writer for the given root and ordered partition
// columns (empty means a flat, unpartitioned dataset). The root directory
// is created if missing; an existing dataset written with a different
// schema version is rejected.
func NewWriter(root string, partitionCols []string) (*Writer, error) {
	for _, name := range partitionCols {
		if _, ok := types.LookupColumn(name); !ok {
			return nil, fmt.Errorf("%q: %w", name, types.ErrUnknownPartitionColumn)
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &types.PartitionWriteError{Path: root, Err: err}
	}
	if err := ensureMarker(root); err != nil {
		return nil, err
	}
	return &Writer{root: root, cols: partitionCols}, nil
}

// Root returns the dataset root path.
func (w *Writer) Root() string { return w.root }

// Write appends one batch. Records are grouped by their partition key tuple
// and each group lands in a fresh part file under its hive-style directory,
// preserving input order within the group. A filesystem failure is fatal
// and aborts remaining groups; partitions already written stay on disk as a
// resumable partial result.
func (w *Writer) Write(batch []types.Record) error {
	groups := make(map[string][]types.Record)
	var keys []string
	for _, rec := range batch {
		key, err := w.partitionPath(&rec)
		if err != nil {
			return err
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], rec)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := w.writeGroup(key, groups[key]); err != nil {
			return err
		}
	}
	return nil
}

// partitionPath renders the record's hive path segments relative to root.
func (w *Writer) partitionPath(rec *types.Record) (string, error) {
	path := ""
	for _, col := range w.cols {
		v, present, err := rec.Value(col)
		if err != nil {
			return "", err
		}
		if !present {
			v = hiveNullValue
		} else {
			v = url.QueryEscape(v)
		}
		path = filepath.Join(path, col+"="+v)
	}
	return path, nil
}

// writeGroup writes one part file for one partition key.
func (w *Writer) writeGroup(key string, records []types.Record) error {
	dir := filepath.Join(w.root, key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &types.PartitionWriteError{Path: dir, Err: err}
	}

	// Nanosecond prefix keeps part files of sequential writes in write
	// order under a lexical walk; the uuid guards against collisions.
	name := fmt.Sprintf("part-%d-%s.parquet", time.Now().UnixNano(), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return &types.PartitionWriteError{Path: path, Err: err}
	}

	rows := make([]fileRow, len(records))
	for i, rec := range records {
		rows[i] = toFileRow(rec)
	}

	pw := parquet.NewGenericWriter[fileRow](f)
	if _, err := pw.Write(rows); err != nil {
		pw.Close()
		f.Close()
		return &types.PartitionWriteError{Path: path, Err: err}
	}
	if err := pw.Close(); err != nil {
		f.Close()
		return &types.PartitionWriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &types.PartitionWriteError{Path: path, Err: err}
	}
	return nil
}

// ensureMarker writes the schema marker on a fresh root and verifies it on
// an existing one.
func ensureMarker(root string) error {
	path := filepath.Join(root, markerName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		m := marker{SchemaVersion: types.SchemaVersion, Columns: types.ColumnNames()}
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return &types.PartitionWriteError{Path: path, Err: err}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return &types.PartitionWriteError{Path: path, Err: err}
		}
		return nil
	}
	if err != nil {
		return &types.PartitionWriteError{Path: path, Err: err}
	}

	var m marker
	if err := json.Unmarshal(data, &m); err != nil {
		return &types.PartitionWriteError{Path: path, Err: err}
	}
	if m.SchemaVersion != types.SchemaVersion {
		return &types.PartitionWriteError{
			Path: path,
			Err:  fmt.Errorf("dataset written with schema version %d, writer has %d", m.SchemaVersion, types.SchemaVersion),
		}
	}
	return nil
}

// ReadDataset walks the dataset tree in lexical order and reconstructs
// every record from its part files. Intended for verification and for
// modest datasets; partition-aware readers should consume the tree
// directly.
func ReadDataset(root string) ([]types.Record, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".parquet" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk dataset %s: %w", root, err)
	}
	sort.Strings(paths)

	var records []types.Record
	for _, path := range paths {
		rows, err := parquet.ReadFile[fileRow](path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, row := range rows {
			rec, err := fromFileRow(row)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			records = append(records, rec)
		}
	}
	return records, nil
}
