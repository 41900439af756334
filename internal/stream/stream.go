// Package stream opens a remote registry archive and yields its decoded
// text lines one at a time.
//
// The publication convention is a zip archive with a single CSV member
// encoded in Shift_JIS. The HTTP body is spooled to a temporary file (the
// zip central directory lives at the end, so random access is required),
// then the member is decompressed and decoded incrementally; only one line
// is ever buffered in memory.
package stream

import (
	"archive/zip"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// Line is one decoded text line plus its provenance. Numbers are 1-based.
type Line struct {
	Resource string
	Number   int
	Text     string
}

// LineReader is a single-pass reader over an archive's decoded lines. It is
// not restartable; a new fetch requires a new Open. Close releases the
// network spool, the archive, and the temporary file, and is safe to call
// on every exit path including early abandonment.
type LineReader struct {
	resource types.Resource
	tmpPath  string
	archive  *zip.ReadCloser
	member   io.ReadCloser
	decoded  *bufio.Reader
	line     int
	offset   int64 // byte offset of the next line in the decoded stream
	done     bool
}

// Open connects to the resource, spools the archive, and prepares line
// decoding. On error nothing is left behind on disk.
func Open(ctx context.Context, t types.Transport, res types.Resource) (*LineReader, error) {
	tmpPath, err := spool(ctx, t, res)
	if err != nil {
		return nil, err
	}

	archive, err := zip.OpenReader(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, &types.DecompressionError{Resource: res.Name, Err: err}
	}

	member, err := openCSVMember(archive, res.Name)
	if err != nil {
		archive.Close()
		os.Remove(tmpPath)
		return nil, err
	}

	return &LineReader{
		resource: res,
		tmpPath:  tmpPath,
		archive:  archive,
		member:   member,
		decoded:  bufio.NewReaderSize(transform.NewReader(member, japanese.ShiftJIS.NewDecoder()), 64*1024),
	}, nil
}

// spool streams the remote body to a temporary file and returns its path.
func spool(ctx context.Context, t types.Transport, res types.Resource) (string, error) {
	body, err := t.Get(ctx, res.URL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	tmp, err := os.CreateTemp("", "jpcorpreg-*.zip")
	if err != nil {
		return "", fmt.Errorf("create spool file: %w", err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &types.TransportError{URL: res.URL, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close spool file: %w", err)
	}
	return tmp.Name(), nil
}

// openCSVMember returns the archive's single CSV member.
func openCSVMember(archive *zip.ReadCloser, resource string) (io.ReadCloser, error) {
	for _, f := range archive.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			rc, err := f.Open()
			if err != nil {
				return nil, &types.DecompressionError{Resource: resource, Err: err}
			}
			return rc, nil
		}
	}
	return nil, &types.DecompressionError{Resource: resource, Err: errors.New("no CSV member in archive")}
}

// Next returns the next decoded line, or io.EOF when the member is
// exhausted. A decode failure aborts the whole stream: the Shift_JIS decoder
// substitutes U+FFFD for undecodable byte sequences, and any line carrying
// the substitution fails with *types.EncodingError rather than yielding
// partial text.
func (r *LineReader) Next() (Line, error) {
	if r.done {
		return Line{}, io.EOF
	}

	text, err := r.decoded.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		r.done = true
		// Mid-stream read failures surface from the decompressor.
		return Line{}, &types.DecompressionError{Resource: r.resource.Name, Err: err}
	}
	if text == "" {
		r.done = true
		return Line{}, io.EOF
	}

	lineStart := r.offset
	r.offset += int64(len(text))
	r.line++

	if errors.Is(err, io.EOF) {
		r.done = true
	}

	text = strings.TrimRight(text, "\r\n")
	if strings.ContainsRune(text, utf8.RuneError) {
		r.done = true
		return Line{}, &types.EncodingError{Resource: r.resource.Name, Line: r.line, Offset: lineStart}
	}
	if text == "" {
		// Trailing newline at end of member.
		return r.Next()
	}

	return Line{Resource: r.resource.Name, Number: r.line, Text: text}, nil
}

// Close releases the member, the archive, and the spool file. Idempotent.
func (r *LineReader) Close() error {
	if r.tmpPath == "" {
		return nil
	}
	r.done = true
	err := r.member.Close()
	if cerr := r.archive.Close(); err == nil {
		err = cerr
	}
	if rerr := os.Remove(r.tmpPath); err == nil && rerr != nil && !os.IsNotExist(rerr) {
		err = rerr
	}
	r.tmpPath = ""
	return err
}
