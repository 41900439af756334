package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jpcorpreg/pkg/types"
)

func TestBuildRequests(t *testing.T) {
	tests := []struct {
		name    string
		flags   fetchFlags
		want    []types.Request
		wantErr bool
	}{
		{
			name:  "all",
			flags: fetchFlags{all: true},
			want:  []types.Request{{Kind: types.KindFull}},
		},
		{
			name:  "single prefecture",
			flags: fetchFlags{prefectures: []string{"Shimane"}},
			want:  []types.Request{{Kind: types.KindPrefecture, Prefecture: "Shimane"}},
		},
		{
			name:  "prefecture names normalize",
			flags: fetchFlags{prefectures: []string{"shimane", "TOTTORI"}},
			want: []types.Request{
				{Kind: types.KindPrefecture, Prefecture: "Shimane"},
				{Kind: types.KindPrefecture, Prefecture: "Tottori"},
			},
		},
		{
			name:  "diff with date",
			flags: fetchFlags{diff: true, date: "20260220"},
			want:  []types.Request{{Kind: types.KindDiff, Date: "20260220"}},
		},
		{
			name:  "diff without date",
			flags: fetchFlags{diff: true},
			want:  []types.Request{{Kind: types.KindDiff}},
		},
		{
			name:    "no target selected",
			flags:   fetchFlags{},
			wantErr: true,
		},
		{
			name:    "two targets selected",
			flags:   fetchFlags{all: true, diff: true},
			wantErr: true,
		},
		{
			name:    "unknown prefecture",
			flags:   fetchFlags{prefectures: []string{"Atlantis"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildRequests(tt.flags)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid prefecture", types.ErrInvalidPrefecture, exitUserError},
		{"invalid date", fmt.Errorf("date: %w", types.ErrInvalidDateFormat), exitUserError},
		{"unknown partition column", types.ErrUnknownPartitionColumn, exitUserError},
		{"unknown format", types.ErrFormatUnknown, exitUserError},
		{"partition with table", types.ErrPartitionWithTable, exitUserError},
		{"bad batch size", types.ErrBatchSizeInvalid, exitUserError},
		{"transport failure", &types.TransportError{URL: "https://example.invalid", Err: errors.New("refused")}, exitSysError},
		{"resource not found", types.ErrResourceNotFound, exitSysError},
		{"plain error", errors.New("boom"), exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestTargetName(t *testing.T) {
	assert.Equal(t, "all", targetName(types.Request{Kind: types.KindFull}))
	assert.Equal(t, "diff (latest)", targetName(types.Request{Kind: types.KindDiff}))
	assert.Equal(t, "diff 20260220", targetName(types.Request{Kind: types.KindDiff, Date: "20260220"}))
	assert.Equal(t, "Shimane", targetName(types.Request{Kind: types.KindPrefecture, Prefecture: "Shimane"}))
}
