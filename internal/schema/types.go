package schema

// Column describes a single column in a table
type Column struct {
	Name       string
	Type       string // storage type: integer, string, boolean, decimal, ...
	Limit      *int   // nil when the column has no explicit size
	Precision  *int   // decimal only
	Scale      *int   // decimal only
	Nullable   bool
	Default    *string // raw default text, nil if no default
	PrimaryKey bool

	// SerializedAs names the class the column is serialized into, if any.
	SerializedAs string
}

// Index describes an index on a table. Column order matters.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Includes reports whether column is one of the index's columns.
func (i Index) Includes(column string) bool {
	for _, c := range i.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Table is an immutable snapshot of one model's table: its columns in
// ordinal order, the associations its model declares and its indexes in
// discovery order.
type Table struct {
	Name              string // table name, e.g. "articles"
	Model             string // model class name, e.g. "SubArticle"
	PrimaryKey        string
	InheritanceColumn string // STI discriminator, usually "type"
	Columns           []Column
	Associations      []Association
	Indexes           []Index
}

// Column returns the column called name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// HasColumn reports whether the table has a column called name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// ColumnNames returns the column names in ordinal order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
