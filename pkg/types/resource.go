package types

import (
	"context"
	"io"
)

// Container and text encoding formats published by the registry.
const (
	ContainerZip     = "zip"
	EncodingShiftJIS = "shift_jis"
)

// Resource identifies one concrete remote archive. Immutable once resolved;
// owned solely by the stream decoder during the fetch.
type Resource struct {
	// Name identifies the resource in errors and record provenance,
	// e.g. "zenken-shimane" or "sabun-20260220".
	Name string

	URL       string
	Container string
	Encoding  string
}

// Transport is the contract the pipeline needs from an HTTP client: given a
// URL, produce a byte stream or signal unreachable/not-found. Get returns
// ErrResourceNotFound (wrapped) when the server reports the resource missing
// and *TransportError on connectivity failure. Timeout and retry policy
// belong to the Transport implementation and its caller, never to the core.
type Transport interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
}
