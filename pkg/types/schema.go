package types

// ColumnType is the semantic type of a schema column.
type ColumnType int

const (
	// TypeString covers names, addresses, codes, and fixed-width numeric
	// identifiers. Identifiers are never coerced to integers; the corporate
	// number has significant leading digits.
	TypeString ColumnType = iota
	// TypeDate is an 8-digit YYYYMMDD calendar date.
	TypeDate
)

// SchemaVersion identifies the column layout below. A partitioned dataset
// records the version it was written with and rejects writers of another.
const SchemaVersion = 1

// Column describes one position of the registry's delimited line format.
type Column struct {
	Name     string
	Pos      int
	Type     ColumnType
	Nullable bool
}

// Schema is the registry's fixed column layout, in file position order.
// Positions are 0-based.
var Schema = []Column{
	{Name: "sequence_number", Pos: 0, Type: TypeString},
	{Name: "corporate_number", Pos: 1, Type: TypeString},
	{Name: "process", Pos: 2, Type: TypeString},
	{Name: "correct", Pos: 3, Type: TypeString},
	{Name: "update_date", Pos: 4, Type: TypeDate},
	{Name: "change_date", Pos: 5, Type: TypeDate, Nullable: true},
	{Name: "name", Pos: 6, Type: TypeString},
	{Name: "name_image_id", Pos: 7, Type: TypeString, Nullable: true},
	{Name: "kind", Pos: 8, Type: TypeString},
	{Name: "prefecture_name", Pos: 9, Type: TypeString, Nullable: true},
	{Name: "city_name", Pos: 10, Type: TypeString, Nullable: true},
	{Name: "street_number", Pos: 11, Type: TypeString, Nullable: true},
	{Name: "address_image_id", Pos: 12, Type: TypeString, Nullable: true},
	{Name: "prefecture_code", Pos: 13, Type: TypeString, Nullable: true},
	{Name: "city_code", Pos: 14, Type: TypeString, Nullable: true},
	{Name: "post_code", Pos: 15, Type: TypeString, Nullable: true},
	{Name: "address_outside", Pos: 16, Type: TypeString, Nullable: true},
	{Name: "address_outside_image_id", Pos: 17, Type: TypeString, Nullable: true},
	{Name: "close_date", Pos: 18, Type: TypeDate, Nullable: true},
	{Name: "close_cause", Pos: 19, Type: TypeString, Nullable: true},
	{Name: "successor_corporate_number", Pos: 20, Type: TypeString, Nullable: true},
	{Name: "change_cause", Pos: 21, Type: TypeString, Nullable: true},
	{Name: "assignment_date", Pos: 22, Type: TypeDate},
	{Name: "en_name", Pos: 23, Type: TypeString, Nullable: true},
	{Name: "en_prefecture_name", Pos: 24, Type: TypeString, Nullable: true},
	{Name: "en_city_name", Pos: 25, Type: TypeString, Nullable: true},
	{Name: "en_address_outside", Pos: 26, Type: TypeString, Nullable: true},
	{Name: "furigana", Pos: 27, Type: TypeString, Nullable: true},
	{Name: "hihyoji", Pos: 28, Type: TypeString},
}

// columnsByName indexes Schema for lookup.
var columnsByName = func() map[string]Column {
	m := make(map[string]Column, len(Schema))
	for _, c := range Schema {
		m[c.Name] = c
	}
	return m
}()

// ColumnNames returns the schema column names in position order.
func ColumnNames() []string {
	names := make([]string, len(Schema))
	for i, c := range Schema {
		names[i] = c.Name
	}
	return names
}

// LookupColumn returns the schema column with the given name.
func LookupColumn(name string) (Column, bool) {
	c, ok := columnsByName[name]
	return c, ok
}
