// Package parser maps decoded registry lines to typed records using the
// fixed column schema.
package parser

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/jpcorpreg/internal/stream"
	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// LineSource is the upstream contract: decoded lines until io.EOF.
type LineSource interface {
	Next() (stream.Line, error)
}

// Reader yields typed records pulled lazily from a line source. A single
// malformed line fails the whole resource with *types.MalformedRecordError;
// each line is a full well-formed record or the archive is corrupt, so
// silent row-skipping is never correct here. Callers wanting to skip do so
// at the resource level.
type Reader struct {
	lines LineSource
}

// New wraps a line source.
func New(lines LineSource) *Reader {
	return &Reader{lines: lines}
}

// Next returns the next record, or io.EOF when the source is exhausted.
func (r *Reader) Next() (types.Record, error) {
	line, err := r.lines.Next()
	if err != nil {
		return types.Record{}, err
	}

	fields, err := splitLine(line.Text)
	if err != nil {
		return types.Record{}, &types.MalformedRecordError{Resource: line.Resource, Line: line.Number, Err: err}
	}
	if len(fields) != len(types.Schema) {
		return types.Record{}, &types.MalformedRecordError{
			Resource: line.Resource,
			Line:     line.Number,
			Err:      fmt.Errorf("expected %d fields, got %d", len(types.Schema), len(fields)),
		}
	}

	rec, err := buildRecord(fields)
	if err != nil {
		return types.Record{}, &types.MalformedRecordError{Resource: line.Resource, Line: line.Number, Err: err}
	}
	rec.Resource = line.Resource
	return rec, nil
}

// splitLine splits one comma-delimited line, honoring quoted fields. The
// registry publishes one logical record per line, so a quoted field never
// spans lines.
func splitLine(text string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	return cr.Read()
}

// buildRecord coerces positional fields into a typed record. Identifier
// fields stay strings with their leading digits intact; empty strings on
// nullable fields become nil; required fields must be present.
func buildRecord(fields []string) (types.Record, error) {
	b := fieldParser{fields: fields}
	rec := types.Record{
		SequenceNumber:           b.str("sequence_number"),
		CorporateNumber:          b.str("corporate_number"),
		Process:                  b.str("process"),
		Correct:                  b.str("correct"),
		UpdateDate:               b.date("update_date"),
		ChangeDate:               b.optDate("change_date"),
		Name:                     b.str("name"),
		NameImageID:              b.opt("name_image_id"),
		Kind:                     b.str("kind"),
		PrefectureName:           b.opt("prefecture_name"),
		CityName:                 b.opt("city_name"),
		StreetNumber:             b.opt("street_number"),
		AddressImageID:           b.opt("address_image_id"),
		PrefectureCode:           b.opt("prefecture_code"),
		CityCode:                 b.opt("city_code"),
		PostCode:                 b.opt("post_code"),
		AddressOutside:           b.opt("address_outside"),
		AddressOutsideImageID:    b.opt("address_outside_image_id"),
		CloseDate:                b.optDate("close_date"),
		CloseCause:               b.opt("close_cause"),
		SuccessorCorporateNumber: b.opt("successor_corporate_number"),
		ChangeCause:              b.opt("change_cause"),
		AssignmentDate:           b.date("assignment_date"),
		EnName:                   b.opt("en_name"),
		EnPrefectureName:         b.opt("en_prefecture_name"),
		EnCityName:               b.opt("en_city_name"),
		EnAddressOutside:         b.opt("en_address_outside"),
		Furigana:                 b.opt("furigana"),
		Hihyoji:                  b.str("hihyoji"),
	}
	return rec, b.err
}

// fieldParser accumulates the first coercion error while mapping fields.
type fieldParser struct {
	fields []string
	err    error
}

func (p *fieldParser) raw(name string) string {
	col, _ := types.LookupColumn(name)
	return p.fields[col.Pos]
}

func (p *fieldParser) str(name string) string {
	v := p.raw(name)
	if v == "" && p.err == nil {
		p.err = fmt.Errorf("required field %s is empty", name)
	}
	return v
}

func (p *fieldParser) opt(name string) *string {
	v := p.raw(name)
	if v == "" {
		return nil
	}
	return &v
}

func (p *fieldParser) date(name string) time.Time {
	t, err := parseDate(p.raw(name))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("field %s: %w", name, err)
	}
	return t
}

func (p *fieldParser) optDate(name string) *time.Time {
	v := p.raw(name)
	if v == "" {
		return nil
	}
	t, err := parseDate(v)
	if err != nil {
		if p.err == nil {
			p.err = fmt.Errorf("field %s: %w", name, err)
		}
		return nil
	}
	return &t
}

// parseDate parses the registry's strict 8-digit date literal.
func parseDate(v string) (time.Time, error) {
	if len(v) != 8 {
		return time.Time{}, fmt.Errorf("date %q does not match %s", v, types.DateLayout)
	}
	t, err := time.ParseInLocation(types.DateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q does not match %s", v, types.DateLayout)
	}
	return t, nil
}
