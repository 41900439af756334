// Package locator resolves a registry request to the concrete remote
// archives publishing it.
//
// Full and per-prefecture snapshots resolve from a static file-number table
// with no network access. Diff resolution consults the site's listing page:
// the site assigns opaque file numbers to each day's archive, so the listing
// is the only source of the date-to-archive mapping.
package locator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// Publication pages of the Corporate Number Publication Site.
const (
	DefaultZenkenURL = "https://www.houjin-bangou.nta.go.jp/download/zenken/"
	DefaultSabunURL  = "https://www.houjin-bangou.nta.go.jp/download/sabun/"
)

// zenkenFileNumbers maps canonical region names to the stable download file
// numbers of the Unicode CSV full snapshots. Prefecture numbers follow JIS
// code order after the nationwide file.
var zenkenFileNumbers = func() map[string]string {
	m := make(map[string]string, len(types.Prefectures)+1)
	m["All"] = "05000"
	for i, p := range types.Prefectures {
		m[p] = fmt.Sprintf("%05d", 5001+i)
	}
	return m
}()

// Locator resolves requests to remote resources.
type Locator struct {
	transport types.Transport
	zenkenURL string
	sabunURL  string
	log       *zap.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithZenkenURL overrides the full-snapshot page URL.
func WithZenkenURL(u string) Option {
	return func(l *Locator) { l.zenkenURL = u }
}

// WithSabunURL overrides the diff listing page URL.
func WithSabunURL(u string) Option {
	return func(l *Locator) { l.sabunURL = u }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Locator) { l.log = log }
}

// New creates a Locator using the given transport for listing discovery.
func New(t types.Transport, opts ...Option) *Locator {
	l := &Locator{
		transport: t,
		zenkenURL: DefaultZenkenURL,
		sabunURL:  DefaultSabunURL,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve validates the request and returns the remote resources backing it.
// Full and prefecture requests resolve without network access. Diff requests
// read the listing page; a date with no publication (weekend, holiday)
// returns ErrResourceNotFound.
func (l *Locator) Resolve(ctx context.Context, req types.Request) ([]types.Resource, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	switch req.Kind {
	case types.KindFull:
		return []types.Resource{l.zenkenResource("All")}, nil
	case types.KindPrefecture:
		return []types.Resource{l.zenkenResource(req.Prefecture)}, nil
	case types.KindDiff:
		res, err := l.resolveDiff(ctx, req.Date)
		if err != nil {
			return nil, err
		}
		return []types.Resource{res}, nil
	default:
		return nil, fmt.Errorf("unknown request kind %q", req.Kind)
	}
}

func (l *Locator) zenkenResource(region string) types.Resource {
	num := zenkenFileNumbers[region]
	return types.Resource{
		Name:      "zenken-" + strings.ToLower(region),
		URL:       fmt.Sprintf("%s?selDlFileNo=%s&event=download", l.zenkenURL, num),
		Container: types.ContainerZip,
		Encoding:  types.EncodingShiftJIS,
	}
}

// resolveDiff scrapes the sabun listing for the file number of the requested
// date, or the most recent entry when date is empty.
func (l *Locator) resolveDiff(ctx context.Context, date string) (types.Resource, error) {
	entries, err := l.fetchDiffListing(ctx)
	if err != nil {
		return types.Resource{}, err
	}
	l.log.Debug("diff listing fetched", zap.Int("entries", len(entries)))

	for _, e := range entries {
		if date == "" || e.date == date {
			return types.Resource{
				Name:      "sabun-" + e.date,
				URL:       fmt.Sprintf("%s?selDlFileNo=%s&event=download", l.sabunURL, e.fileNumber),
				Container: types.ContainerZip,
				Encoding:  types.EncodingShiftJIS,
			}, nil
		}
	}
	if date == "" {
		return types.Resource{}, fmt.Errorf("diff listing is empty: %w", types.ErrResourceNotFound)
	}
	return types.Resource{}, fmt.Errorf("diff %s: %w", date, types.ErrResourceNotFound)
}

// diffEntry is one row of the diff listing table.
type diffEntry struct {
	date       string // YYYYMMDD
	fileNumber string
}

var fileNumberPattern = regexp.MustCompile(`\d{5}`)

// fetchDiffListing downloads and parses the sabun index page. Rows list a
// Japanese-era publication date and a download link whose onclick handler
// carries the 5-digit file number. Listing order is newest first.
func (l *Locator) fetchDiffListing(ctx context.Context) ([]diffEntry, error) {
	body, err := l.transport.Get(ctx, l.sabunURL+"index.html")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse diff listing: %w", err)
	}

	var entries []diffEntry
	table := doc.Find("#csv-unicode").NextAllFiltered("div.tbl03").First()
	table.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		date, ok := ConvertEraDate(row.Find("th").First().Text())
		if !ok {
			return
		}
		onclick, ok := row.Find("td a").First().Attr("onclick")
		if !ok {
			return
		}
		num := fileNumberPattern.FindString(onclick)
		if num == "" {
			return
		}
		entries = append(entries, diffEntry{date: date, fileNumber: num})
	})
	return entries, nil
}

var (
	reiwaPattern  = regexp.MustCompile(`令和(\d+|元)年(\d+)月(\d+)日`)
	heiseiPattern = regexp.MustCompile(`平成(\d+|元)年(\d+)月(\d+)日`)
)

// ConvertEraDate converts a Japanese-era date such as 令和8年2月20日 to its
// 8-digit Gregorian form (20260220). 元年 is year one of an era. Returns
// false when the string carries no recognizable era date.
func ConvertEraDate(s string) (string, bool) {
	if m := reiwaPattern.FindStringSubmatch(s); m != nil {
		return eraDate(m, 2018), true
	}
	if m := heiseiPattern.FindStringSubmatch(s); m != nil {
		return eraDate(m, 1988), true
	}
	return "", false
}

func eraDate(m []string, yearBase int) string {
	year := 1
	if m[1] != "元" {
		year, _ = strconv.Atoi(m[1])
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return fmt.Sprintf("%04d%02d%02d", yearBase+year, month, day)
}
