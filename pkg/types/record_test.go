package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValue(t *testing.T) {
	pref := "島根県"
	change := time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC)
	rec := Record{
		SequenceNumber:  "1",
		CorporateNumber: "0001000000000013",
		UpdateDate:      time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		ChangeDate:      &change,
		PrefectureName:  &pref,
	}

	t.Run("string field", func(t *testing.T) {
		v, present, err := rec.Value("corporate_number")
		require.NoError(t, err)
		assert.True(t, present)
		assert.Equal(t, "0001000000000013", v)
	})

	t.Run("date serialized to registry literal", func(t *testing.T) {
		v, present, err := rec.Value("update_date")
		require.NoError(t, err)
		assert.True(t, present)
		assert.Equal(t, "20260220", v)
	})

	t.Run("nullable date present", func(t *testing.T) {
		v, present, err := rec.Value("change_date")
		require.NoError(t, err)
		assert.True(t, present)
		assert.Equal(t, "20260219", v)
	})

	t.Run("absent nullable field", func(t *testing.T) {
		_, present, err := rec.Value("close_date")
		require.NoError(t, err)
		assert.False(t, present)

		_, present, err = rec.Value("city_name")
		require.NoError(t, err)
		assert.False(t, present)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, _, err := rec.Value("favourite_colour")
		assert.ErrorIs(t, err, ErrUnknownPartitionColumn)
	})
}

func TestSchemaPositionsAreContiguous(t *testing.T) {
	require.NotEmpty(t, Schema)
	for i, col := range Schema {
		assert.Equal(t, i, col.Pos, col.Name)
	}
}

func TestColumnNamesMatchSchemaOrder(t *testing.T) {
	names := ColumnNames()
	require.Len(t, names, len(Schema))
	assert.Equal(t, "sequence_number", names[0])
	assert.Equal(t, "corporate_number", names[1])
	assert.Equal(t, "hihyoji", names[len(names)-1])

	// Every schema column resolves through Record.Value.
	rec := Record{UpdateDate: time.Now(), AssignmentDate: time.Now()}
	for _, name := range names {
		_, _, err := rec.Value(name)
		assert.NoError(t, err, name)
	}
}
