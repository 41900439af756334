package types

import (
	"errors"
	"fmt"
)

// Request validation and resolution errors.
var (
	ErrInvalidPrefecture      = errors.New("unexpected prefecture or region")
	ErrInvalidDateFormat      = errors.New("date must be an 8-digit calendar date (YYYYMMDD)")
	ErrResourceNotFound       = errors.New("no publication found for the requested target")
	ErrUnknownPartitionColumn = errors.New("unknown partition column")
)

// TransportError reports a failed remote read. The core never retries;
// callers wanting resilience wrap the fetch in their own retry loop.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecompressionError reports a corrupt or unexpected archive container.
type DecompressionError struct {
	Resource string
	Err      error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("decompress %s: %v", e.Resource, e.Err)
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// EncodingError reports the first undecodable line of an archive member.
// Offset is the byte offset of the line start in the decoded stream.
// The stream is aborted at the first bad line; partial decode is never
// handed to the parser.
type EncodingError struct {
	Resource string
	Line     int
	Offset   int64
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding %s: undecodable bytes at line %d (offset %d)", e.Resource, e.Line, e.Offset)
}

// MalformedRecordError reports a line that violates the registry schema.
// Line numbers are 1-based. A single malformed line fails the whole
// resource; the parser never skips rows.
type MalformedRecordError struct {
	Resource string
	Line     int
	Err      error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %s line %d: %v", e.Resource, e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// PartitionWriteError reports a filesystem failure while writing the
// partitioned dataset. Fatal for the remaining batches; already-written
// partitions stay on disk as a resumable partial result.
type PartitionWriteError struct {
	Path string
	Err  error
}

func (e *PartitionWriteError) Error() string {
	return fmt.Sprintf("partition write %s: %v", e.Path, e.Err)
}

func (e *PartitionWriteError) Unwrap() error { return e.Err }
