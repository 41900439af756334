package types

import (
	"fmt"
	"time"
)

// Record is one typed registry row. Numeric-looking identifier fields stay
// fixed-width strings; nullable fields use pointers with nil as the explicit
// absent marker (never the empty string). Date fields hold UTC midnight of
// the registry's 8-digit literal.
type Record struct {
	SequenceNumber           string
	CorporateNumber          string
	Process                  string
	Correct                  string
	UpdateDate               time.Time
	ChangeDate               *time.Time
	Name                     string
	NameImageID              *string
	Kind                     string
	PrefectureName           *string
	CityName                 *string
	StreetNumber             *string
	AddressImageID           *string
	PrefectureCode           *string
	CityCode                 *string
	PostCode                 *string
	AddressOutside           *string
	AddressOutsideImageID    *string
	CloseDate                *time.Time
	CloseCause               *string
	SuccessorCorporateNumber *string
	ChangeCause              *string
	AssignmentDate           time.Time
	EnName                   *string
	EnPrefectureName         *string
	EnCityName               *string
	EnAddressOutside         *string
	Furigana                 *string
	Hihyoji                  string

	// Resource names the archive the record came from. Diff records may
	// repeat a corporate number across dated archives; this keeps each
	// change event attributable.
	Resource string
}

// Value returns the record's value for the named schema column, serialized
// to the registry's literal form (dates as YYYYMMDD). The second return is
// false when the field is absent. Returns ErrUnknownPartitionColumn for a
// name outside the schema.
func (r *Record) Value(name string) (string, bool, error) {
	switch name {
	case "sequence_number":
		return r.SequenceNumber, true, nil
	case "corporate_number":
		return r.CorporateNumber, true, nil
	case "process":
		return r.Process, true, nil
	case "correct":
		return r.Correct, true, nil
	case "update_date":
		return r.UpdateDate.Format(DateLayout), true, nil
	case "change_date":
		return optDateValue(r.ChangeDate)
	case "name":
		return r.Name, true, nil
	case "name_image_id":
		return optValue(r.NameImageID)
	case "kind":
		return r.Kind, true, nil
	case "prefecture_name":
		return optValue(r.PrefectureName)
	case "city_name":
		return optValue(r.CityName)
	case "street_number":
		return optValue(r.StreetNumber)
	case "address_image_id":
		return optValue(r.AddressImageID)
	case "prefecture_code":
		return optValue(r.PrefectureCode)
	case "city_code":
		return optValue(r.CityCode)
	case "post_code":
		return optValue(r.PostCode)
	case "address_outside":
		return optValue(r.AddressOutside)
	case "address_outside_image_id":
		return optValue(r.AddressOutsideImageID)
	case "close_date":
		return optDateValue(r.CloseDate)
	case "close_cause":
		return optValue(r.CloseCause)
	case "successor_corporate_number":
		return optValue(r.SuccessorCorporateNumber)
	case "change_cause":
		return optValue(r.ChangeCause)
	case "assignment_date":
		return r.AssignmentDate.Format(DateLayout), true, nil
	case "en_name":
		return optValue(r.EnName)
	case "en_prefecture_name":
		return optValue(r.EnPrefectureName)
	case "en_city_name":
		return optValue(r.EnCityName)
	case "en_address_outside":
		return optValue(r.EnAddressOutside)
	case "furigana":
		return optValue(r.Furigana)
	case "hihyoji":
		return r.Hihyoji, true, nil
	default:
		return "", false, fmt.Errorf("%q: %w", name, ErrUnknownPartitionColumn)
	}
}

func optValue(s *string) (string, bool, error) {
	if s == nil {
		return "", false, nil
	}
	return *s, true, nil
}

func optDateValue(t *time.Time) (string, bool, error) {
	if t == nil {
		return "", false, nil
	}
	return t.Format(DateLayout), true, nil
}
