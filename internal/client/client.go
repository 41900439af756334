// Package client wires the fetch pipeline: locator, stream decoder, record
// parser, assembler, and partition writer.
package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/jpcorpreg/internal/assemble"
	"github.com/mesh-intelligence/jpcorpreg/internal/locator"
	"github.com/mesh-intelligence/jpcorpreg/internal/parser"
	"github.com/mesh-intelligence/jpcorpreg/internal/partition"
	"github.com/mesh-intelligence/jpcorpreg/internal/stream"
	"github.com/mesh-intelligence/jpcorpreg/internal/transport"
	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// Client performs one-shot fetch-transform-store operations against the
// registry. Each fetch is a single pull-driven pipeline; the client retains
// no state between calls. Instances are safe for sequential reuse; callers
// fetching several targets concurrently run one pipeline per goroutine and
// must not point two pipelines at the same dataset root.
type Client struct {
	transport  types.Transport
	locator    *locator.Locator
	log        *zap.Logger
	locatorOpt []locator.Option
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default HTTP transport.
func WithTransport(t types.Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithLocatorOptions forwards options to the locator, e.g. page URL
// overrides for tests.
func WithLocatorOptions(opts ...locator.Option) Option {
	return func(c *Client) { c.locatorOpt = append(c.locatorOpt, opts...) }
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = transport.NewHTTP()
	}
	c.locator = locator.New(c.transport, append(c.locatorOpt, locator.WithLogger(c.log))...)
	return c
}

// DownloadAll fetches the nationwide full snapshot. The in-memory format is
// documented as unsuitable here at default settings; prefer parquet output.
func (c *Client) DownloadAll(ctx context.Context, cfg types.Config) (*types.Table, string, error) {
	return c.Fetch(ctx, types.Request{Kind: types.KindFull}, cfg)
}

// DownloadPrefecture fetches the full snapshot of one prefecture or region.
func (c *Client) DownloadPrefecture(ctx context.Context, prefecture string, cfg types.Config) (*types.Table, string, error) {
	return c.Fetch(ctx, types.Request{Kind: types.KindPrefecture, Prefecture: prefecture}, cfg)
}

// DownloadDiff fetches the daily differential update for the given YYYYMMDD
// date, or the latest published one when date is empty.
func (c *Client) DownloadDiff(ctx context.Context, date string, cfg types.Config) (*types.Table, string, error) {
	return c.Fetch(ctx, types.Request{Kind: types.KindDiff, Date: date}, cfg)
}

// Fetch resolves the request and runs the pipeline. It returns the
// in-memory table for FormatTable, or the dataset root for FormatParquet.
// Errors carry resource and line context; nothing is retried here, so a
// caller wanting resilience re-invokes Fetch (partitioned output composes
// additively across runs).
func (c *Client) Fetch(ctx context.Context, req types.Request, cfg types.Config) (*types.Table, string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	resources, err := c.locator.Resolve(ctx, req)
	if err != nil {
		return nil, "", err
	}

	switch cfg.Format {
	case types.FormatTable:
		table, err := c.fetchTable(ctx, resources)
		if err != nil {
			return nil, "", err
		}
		return table, "", nil
	case types.FormatParquet:
		root, err := c.fetchDataset(ctx, resources, cfg)
		if err != nil {
			return nil, "", err
		}
		return nil, root, nil
	default:
		return nil, "", fmt.Errorf("%q: %w", cfg.Format, types.ErrFormatUnknown)
	}
}

// fetchTable drains every resource into one in-memory table, in resource
// order.
func (c *Client) fetchTable(ctx context.Context, resources []types.Resource) (*types.Table, error) {
	result := &types.Table{Columns: types.ColumnNames()}
	for _, res := range resources {
		if err := c.withResource(ctx, res, func(records *parser.Reader) error {
			t, err := assemble.Table(records)
			if err != nil {
				return err
			}
			result.Records = append(result.Records, t.Records...)
			return nil
		}); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// fetchDataset streams every resource through the partition writer.
func (c *Client) fetchDataset(ctx context.Context, resources []types.Resource, cfg types.Config) (string, error) {
	w, err := partition.NewWriter(cfg.OutputDir, cfg.PartitionColumns)
	if err != nil {
		return "", err
	}
	for _, res := range resources {
		if err := c.withResource(ctx, res, func(records *parser.Reader) error {
			return assemble.Stream(records, w, cfg.EffectiveBatchSize())
		}); err != nil {
			return "", err
		}
	}
	return w.Root(), nil
}

// withResource opens one resource's line stream, hands the parsed record
// reader to fn, and releases the stream on every path.
func (c *Client) withResource(ctx context.Context, res types.Resource, fn func(*parser.Reader) error) error {
	c.log.Info("fetching resource", zap.String("resource", res.Name), zap.String("url", res.URL))

	lines, err := stream.Open(ctx, c.transport, res)
	if err != nil {
		return err
	}
	defer lines.Close()

	return fn(parser.New(lines))
}
