// Package assemble drains the record stream into an in-memory table or
// forwards it in fixed-size batches to a sink.
package assemble

import (
	"errors"
	"io"

	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// RecordSource is the upstream contract: typed records until io.EOF.
type RecordSource interface {
	Next() (types.Record, error)
}

// Sink receives record batches in input order. Batch boundaries carry no
// semantic meaning; a partition may span multiple batches.
type Sink interface {
	Write(batch []types.Record) error
}

// Table consumes the entire source eagerly and builds one in-memory table
// with the schema's column order. This is the only place the full result
// must fit in memory.
func Table(src RecordSource) (*types.Table, error) {
	t := &types.Table{Columns: types.ColumnNames()}
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		t.Records = append(t.Records, rec)
	}
}

// Stream buffers records into batches of batchSize rows and forwards each
// full batch to the sink, then flushes the partial tail. Row order within
// and across batches matches input order.
func Stream(src RecordSource, sink Sink, batchSize int) error {
	if batchSize <= 0 {
		batchSize = types.DefaultBatchSize
	}

	batch := make([]types.Record, 0, batchSize)
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		batch = append(batch, rec)
		if len(batch) == batchSize {
			if err := sink.Write(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return sink.Write(batch)
	}
	return nil
}
