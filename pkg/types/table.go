package types

// Table is the in-memory fetch result: every record of one fetch, in input
// order, with the schema's declared column order. Building one requires the
// whole result in memory, which is documented as unsuitable for the
// nationwide full snapshot; callers should prefer the partitioned dataset
// output for that.
type Table struct {
	Columns []string
	Records []Record
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }
