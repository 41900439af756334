package partition

import (
	"time"

	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

// fileRow is the parquet shape of a record. Every column is written as a
// string, dates included, so the file schema never drifts between batches
// regardless of which fields happen to be populated.
type fileRow struct {
	SequenceNumber           string  `parquet:"sequence_number"`
	CorporateNumber          string  `parquet:"corporate_number"`
	Process                  string  `parquet:"process"`
	Correct                  string  `parquet:"correct"`
	UpdateDate               string  `parquet:"update_date"`
	ChangeDate               *string `parquet:"change_date,optional"`
	Name                     string  `parquet:"name"`
	NameImageID              *string `parquet:"name_image_id,optional"`
	Kind                     string  `parquet:"kind"`
	PrefectureName           *string `parquet:"prefecture_name,optional"`
	CityName                 *string `parquet:"city_name,optional"`
	StreetNumber             *string `parquet:"street_number,optional"`
	AddressImageID           *string `parquet:"address_image_id,optional"`
	PrefectureCode           *string `parquet:"prefecture_code,optional"`
	CityCode                 *string `parquet:"city_code,optional"`
	PostCode                 *string `parquet:"post_code,optional"`
	AddressOutside           *string `parquet:"address_outside,optional"`
	AddressOutsideImageID    *string `parquet:"address_outside_image_id,optional"`
	CloseDate                *string `parquet:"close_date,optional"`
	CloseCause               *string `parquet:"close_cause,optional"`
	SuccessorCorporateNumber *string `parquet:"successor_corporate_number,optional"`
	ChangeCause              *string `parquet:"change_cause,optional"`
	AssignmentDate           string  `parquet:"assignment_date"`
	EnName                   *string `parquet:"en_name,optional"`
	EnPrefectureName         *string `parquet:"en_prefecture_name,optional"`
	EnCityName               *string `parquet:"en_city_name,optional"`
	EnAddressOutside         *string `parquet:"en_address_outside,optional"`
	Furigana                 *string `parquet:"furigana,optional"`
	Hihyoji                  string  `parquet:"hihyoji"`
}

func toFileRow(rec types.Record) fileRow {
	return fileRow{
		SequenceNumber:           rec.SequenceNumber,
		CorporateNumber:          rec.CorporateNumber,
		Process:                  rec.Process,
		Correct:                  rec.Correct,
		UpdateDate:               rec.UpdateDate.Format(types.DateLayout),
		ChangeDate:               dateLiteral(rec.ChangeDate),
		Name:                     rec.Name,
		NameImageID:              rec.NameImageID,
		Kind:                     rec.Kind,
		PrefectureName:           rec.PrefectureName,
		CityName:                 rec.CityName,
		StreetNumber:             rec.StreetNumber,
		AddressImageID:           rec.AddressImageID,
		PrefectureCode:           rec.PrefectureCode,
		CityCode:                 rec.CityCode,
		PostCode:                 rec.PostCode,
		AddressOutside:           rec.AddressOutside,
		AddressOutsideImageID:    rec.AddressOutsideImageID,
		CloseDate:                dateLiteral(rec.CloseDate),
		CloseCause:               rec.CloseCause,
		SuccessorCorporateNumber: rec.SuccessorCorporateNumber,
		ChangeCause:              rec.ChangeCause,
		AssignmentDate:           rec.AssignmentDate.Format(types.DateLayout),
		EnName:                   rec.EnName,
		EnPrefectureName:         rec.EnPrefectureName,
		EnCityName:               rec.EnCityName,
		EnAddressOutside:         rec.EnAddressOutside,
		Furigana:                 rec.Furigana,
		Hihyoji:                  rec.Hihyoji,
	}
}

func fromFileRow(row fileRow) (types.Record, error) {
	updateDate, err := time.ParseInLocation(types.DateLayout, row.UpdateDate, time.UTC)
	if err != nil {
		return types.Record{}, err
	}
	assignmentDate, err := time.ParseInLocation(types.DateLayout, row.AssignmentDate, time.UTC)
	if err != nil {
		return types.Record{}, err
	}
	changeDate, err := optDate(row.ChangeDate)
	if err != nil {
		return types.Record{}, err
	}
	closeDate, err := optDate(row.CloseDate)
	if err != nil {
		return types.Record{}, err
	}

	return types.Record{
		SequenceNumber:           row.SequenceNumber,
		CorporateNumber:          row.CorporateNumber,
		Process:                  row.Process,
		Correct:                  row.Correct,
		UpdateDate:               updateDate,
		ChangeDate:               changeDate,
		Name:                     row.Name,
		NameImageID:              row.NameImageID,
		Kind:                     row.Kind,
		PrefectureName:           row.PrefectureName,
		CityName:                 row.CityName,
		StreetNumber:             row.StreetNumber,
		AddressImageID:           row.AddressImageID,
		PrefectureCode:           row.PrefectureCode,
		CityCode:                 row.CityCode,
		PostCode:                 row.PostCode,
		AddressOutside:           row.AddressOutside,
		AddressOutsideImageID:    row.AddressOutsideImageID,
		CloseDate:                closeDate,
		CloseCause:               row.CloseCause,
		SuccessorCorporateNumber: row.SuccessorCorporateNumber,
		ChangeCause:              row.ChangeCause,
		AssignmentDate:           assignmentDate,
		EnName:                   row.EnName,
		EnPrefectureName:         row.EnPrefectureName,
		EnCityName:               row.EnCityName,
		EnAddressOutside:         row.EnAddressOutside,
		Furigana:                 row.Furigana,
		Hihyoji:                  row.Hihyoji,
	}, nil
}

func dateLiteral(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(types.DateLayout)
	return &s
}

func optDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.ParseInLocation(types.DateLayout, *s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
