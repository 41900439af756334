// Package types defines the request, resource, schema, and record types for
// the corporate registry client, along with its standard errors.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Request kinds.
const (
	KindFull       = "full"       // nationwide snapshot
	KindPrefecture = "prefecture" // single-prefecture snapshot
	KindDiff       = "diff"       // daily differential update
)

// DateLayout is the registry's 8-digit calendar date format.
const DateLayout = "20060102"

// Request describes one fetch target. It is created per call and discarded
// after resolution.
type Request struct {
	Kind       string
	Prefecture string // KindPrefecture only
	Date       string // KindDiff only; empty means latest available
}

// Prefectures lists the canonical region names accepted for prefecture
// requests: the 47 prefectures in JIS code order, plus "Other" for
// corporations registered outside Japan.
var Prefectures = []string{
	"Hokkaido", "Aomori", "Iwate", "Miyagi", "Akita", "Yamagata", "Fukushima",
	"Ibaraki", "Tochigi", "Gunma", "Saitama", "Chiba", "Tokyo", "Kanagawa",
	"Niigata", "Toyama", "Ishikawa", "Fukui", "Yamanashi", "Nagano", "Gifu",
	"Shizuoka", "Aichi", "Mie", "Shiga", "Kyoto", "Osaka", "Hyogo", "Nara",
	"Wakayama", "Tottori", "Shimane", "Okayama", "Hiroshima", "Yamaguchi",
	"Tokushima", "Kagawa", "Ehime", "Kochi", "Fukuoka", "Saga", "Nagasaki",
	"Kumamoto", "Oita", "Miyazaki", "Kagoshima", "Okinawa", "Other",
}

// canonicalPrefectures maps lower-cased names to their canonical form.
var canonicalPrefectures = func() map[string]string {
	m := make(map[string]string, len(Prefectures))
	for _, p := range Prefectures {
		m[strings.ToLower(p)] = p
	}
	return m
}()

// NormalizePrefecture returns the canonical form of a prefecture or region
// name, matching case-insensitively. Returns ErrInvalidPrefecture when the
// name is not in the known set.
func NormalizePrefecture(name string) (string, error) {
	canonical, ok := canonicalPrefectures[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidPrefecture)
	}
	return canonical, nil
}

// ValidateDate checks that date is a well-formed YYYYMMDD calendar date and
// not in the future. Returns ErrInvalidDateFormat otherwise.
func ValidateDate(date string) error {
	if len(date) != 8 {
		return fmt.Errorf("%q: %w", date, ErrInvalidDateFormat)
	}
	for _, r := range date {
		if r < '0' || r > '9' {
			return fmt.Errorf("%q: %w", date, ErrInvalidDateFormat)
		}
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return fmt.Errorf("%q: %w", date, ErrInvalidDateFormat)
	}
	if t.After(time.Now()) {
		return fmt.Errorf("%q is in the future: %w", date, ErrInvalidDateFormat)
	}
	return nil
}

// Validate checks the request and normalizes the prefecture name in place.
// No network access happens during validation.
func (r *Request) Validate() error {
	switch r.Kind {
	case KindFull:
		return nil
	case KindPrefecture:
		canonical, err := NormalizePrefecture(r.Prefecture)
		if err != nil {
			return err
		}
		r.Prefecture = canonical
		return nil
	case KindDiff:
		if r.Date == "" {
			return nil
		}
		return ValidateDate(r.Date)
	default:
		return fmt.Errorf("unknown request kind %q", r.Kind)
	}
}
