package client

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/mesh-intelligence/jpcorpreg/internal/locator"
	"github.com/mesh-intelligence/jpcorpreg/internal/partition"
	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

const sabunListing = `<html><body>
<h2 id="csv-unicode">CSV (Unicode)</h2>
<div class="tbl03"><table><tbody>
<tr><th>令和8年2月20日</th><td><a onclick="return doDownload(00123);">download</a></td></tr>
</tbody></table></div>
</body></html>`

// registryLine renders one well-formed 29-field line for the given
// corporate number.
func registryLine(seq int, corporateNumber string) string {
	fields := make([]string, len(types.Schema))
	fields[0] = fmt.Sprintf("%d", seq)
	fields[1] = corporateNumber
	fields[2] = "01"
	fields[3] = "0"
	fields[4] = "20260220"
	fields[6] = fmt.Sprintf("株式会社テスト%d", seq)
	fields[8] = "301"
	fields[9] = "島根県"
	fields[10] = "松江市"
	fields[13] = "32"
	fields[22] = "20151005"
	fields[28] = "0"

	var buf bytes.Buffer
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(f)
		buf.WriteByte('"')
	}
	return buf.String()
}

// shimaneArchive zips three Shift_JIS-encoded registry lines.
func shimaneArchive(t *testing.T) []byte {
	t.Helper()

	content := registryLine(1, "1000000000001") + "\r\n" +
		registryLine(2, "1000000000002") + "\r\n" +
		registryLine(3, "1000000000003") + "\r\n"
	encoded, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), content)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("32_shimane_all_20260220.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte(encoded))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// newRegistryServer serves the zenken archive for Shimane (file number
// 05032) and a one-entry sabun listing with its archive.
func newRegistryServer(t *testing.T) *httptest.Server {
	t.Helper()
	archive := shimaneArchive(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/zenken/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("event") != "download" || r.URL.Query().Get("selDlFileNo") != "05032" {
			http.NotFound(w, r)
			return
		}
		w.Write(archive)
	})
	mux.HandleFunc("/sabun/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sabunListing))
	})
	mux.HandleFunc("/sabun/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("selDlFileNo") != "00123" {
			http.NotFound(w, r)
			return
		}
		w.Write(archive)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return New(WithLocatorOptions(
		locator.WithZenkenURL(srv.URL+"/zenken/"),
		locator.WithSabunURL(srv.URL+"/sabun/"),
	))
}

func TestDownloadPrefectureTable(t *testing.T) {
	c := newTestClient(newRegistryServer(t))

	table, root, err := c.DownloadPrefecture(context.Background(), "Shimane", types.Config{Format: types.FormatTable})
	require.NoError(t, err)
	assert.Empty(t, root)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, types.ColumnNames(), table.Columns)
	for i, want := range []string{"1000000000001", "1000000000002", "1000000000003"} {
		assert.Equal(t, want, table.Records[i].CorporateNumber)
	}
}

func TestDownloadPrefectureParquet(t *testing.T) {
	c := newTestClient(newRegistryServer(t))
	out := t.TempDir()

	table, root, err := c.DownloadPrefecture(context.Background(), "shimane", types.Config{
		Format:           types.FormatParquet,
		OutputDir:        out,
		PartitionColumns: []string{"update_date"},
	})
	require.NoError(t, err)
	assert.Nil(t, table)
	assert.Equal(t, out, root)

	records, err := partition.ReadDataset(root)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "1000000000001", records[0].CorporateNumber)
}

func TestDownloadDiffLatest(t *testing.T) {
	c := newTestClient(newRegistryServer(t))

	table, _, err := c.DownloadDiff(context.Background(), "", types.Config{Format: types.FormatTable})
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "sabun-20260220", table.Records[0].Resource)
}

func TestDownloadDiffUnpublishedDate(t *testing.T) {
	c := newTestClient(newRegistryServer(t))

	_, _, err := c.DownloadDiff(context.Background(), "20260218", types.Config{Format: types.FormatTable})
	assert.ErrorIs(t, err, types.ErrResourceNotFound)
}

func TestDownloadDiffRepeatedIngestionAccumulates(t *testing.T) {
	c := newTestClient(newRegistryServer(t))
	out := t.TempDir()
	cfg := types.Config{
		Format:           types.FormatParquet,
		OutputDir:        out,
		PartitionColumns: []string{"update_date"},
	}

	_, _, err := c.DownloadDiff(context.Background(), "", cfg)
	require.NoError(t, err)
	_, _, err = c.DownloadDiff(context.Background(), "", cfg)
	require.NoError(t, err)

	records, err := partition.ReadDataset(out)
	require.NoError(t, err)
	assert.Len(t, records, 6, "diff history accumulates additively")
}

func TestFetchInvalidPrefecture(t *testing.T) {
	c := newTestClient(newRegistryServer(t))

	_, _, err := c.DownloadPrefecture(context.Background(), "Atlantis", types.Config{Format: types.FormatTable})
	assert.ErrorIs(t, err, types.ErrInvalidPrefecture)
}

func TestFetchInvalidConfigBeforeNetwork(t *testing.T) {
	// No server: a config error must surface before any resolution.
	c := New()

	_, _, err := c.DownloadPrefecture(context.Background(), "Shimane", types.Config{Format: "xml"})
	assert.ErrorIs(t, err, types.ErrFormatUnknown)
}

func TestFetchMissingArchive(t *testing.T) {
	srv := newRegistryServer(t)
	c := newTestClient(srv)

	// Tottori resolves to a file number the server does not host.
	_, _, err := c.DownloadPrefecture(context.Background(), "Tottori", types.Config{Format: types.FormatTable})
	assert.ErrorIs(t, err, types.ErrResourceNotFound)
}
