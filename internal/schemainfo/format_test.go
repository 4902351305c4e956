package schemainfo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koustreak/aam/internal/schema"
)

func TestIndexMarker(t *testing.T) {
	table := &schema.Table{
		Indexes: []schema.Index{
			{Name: "a", Columns: []string{"x"}},
			{Name: "b", Columns: []string{"col", "x"}},
			{Name: "c", Columns: []string{"y"}},
			{Name: "d", Columns: []string{"z"}, Unique: true},
			{Name: "e", Columns: []string{"col"}, Unique: true},
		},
	}

	assert.Equal(t, "B E!", IndexMarker(table, "col"))
	assert.Equal(t, "A B", IndexMarker(table, "x"))
	assert.Equal(t, "D!", IndexMarker(table, "z"))
	assert.Equal(t, "", IndexMarker(table, "missing"))
}

func TestIndexLabel_PastZ(t *testing.T) {
	assert.Equal(t, "Z", IndexLabel(25, schema.Index{}))
	assert.Equal(t, "", IndexLabel(26, schema.Index{}))
	assert.Equal(t, "!", IndexLabel(26, schema.Index{Unique: true}))
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		col  schema.Column
		want string
	}{
		{"plain", schema.Column{Type: "integer"}, "integer"},
		{"limit", schema.Column{Type: "string", Limit: intp(32)}, "string(32)"},
		{"decimal", schema.Column{Type: "decimal", Precision: intp(10), Scale: intp(2)}, "decimal(10, 2)"},
		{"decimal without scale", schema.Column{Type: "decimal", Precision: intp(8)}, "decimal(8, 0)"},
		{"decimal without precision", schema.Column{Type: "decimal"}, "decimal"},
		{"serialized", schema.Column{Type: "text", SerializedAs: "Hash"}, "text => Hash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.col))
		})
	}
}

func TestDefaultOf(t *testing.T) {
	tests := []struct {
		name  string
		col   schema.Column
		style BooleanStyle
		want  string
	}{
		{"nil", schema.Column{Type: "string"}, BooleanLetter, ""},
		{"string", schema.Column{Type: "string", Default: strp("draft")}, BooleanLetter, "draft"},
		{"bool letter", schema.Column{Type: "boolean", Default: strp("false")}, BooleanLetter, "f"},
		{"bool letter true", schema.Column{Type: "boolean", Default: strp("1")}, BooleanLetter, "t"},
		{"bool digit", schema.Column{Type: "boolean", Default: strp("t")}, BooleanDigit, "1"},
		{"bool unparsable", schema.Column{Type: "boolean", Default: strp("maybe")}, BooleanDigit, "maybe"},
		{"decimal zero", schema.Column{Type: "decimal", Default: strp("0.00")}, BooleanLetter, "0"},
		{"decimal integral", schema.Column{Type: "decimal", Default: strp("10")}, BooleanLetter, "10.0"},
		{"decimal fraction", schema.Column{Type: "decimal", Default: strp("1.50")}, BooleanLetter, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultOf(tt.col, tt.style))
		})
	}
}

func TestAttributesOf(t *testing.T) {
	col := schema.Column{Type: "boolean", Default: strp("f"), PrimaryKey: true}
	assert.Equal(t, "DEFAULT(f) NOT NULL PK", AttributesOf(col, BooleanLetter))
	assert.Equal(t, "", AttributesOf(schema.Column{Type: "string", Nullable: true}, BooleanLetter))
}

func TestOrdered(t *testing.T) {
	diags := []Diagnostic{{Message: "b"}, {Message: "a"}, {Message: "c"}}

	assert.Equal(t, diags, Ordered(diags, false))
	assert.Equal(t, []Diagnostic{{Message: "a"}, {Message: "b"}, {Message: "c"}}, Ordered(diags, true))
	assert.Equal(t, "b", diags[0].Message)
}

func TestSink(t *testing.T) {
	s := NewSink(nil)
	s.Warn("user_id", "missing index")
	s.Note("user_id", "found inverse")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 1, Warnings(s.All()))
	assert.Equal(t, SeverityInfo, s.All()[1].Severity)
	assert.Equal(t, "info", SeverityInfo.String())
}

func TestFormat_NoDiagnostics(t *testing.T) {
	rows := []Row{{Name: "id", Label: "Id", Type: "integer", Attributes: "NOT NULL PK"}}
	want := `# == Schema Information ==
#
# T (ts as T)
#
# |------+------+---------+-------------+------+-------|
# | name | desc | type    | opts        | refs | index |
# |------+------+---------+-------------+------+-------|
# | id   | Id   | integer | NOT NULL PK |      |       |
# |------+------+---------+-------------+------+-------|
`
	assert.Equal(t, want, Format("T (ts as T)", rows, nil, GeneratorStyle()))
	assert.Equal(t, Format("T (ts as T)", rows, nil, GeneratorStyle()), Format("T (ts as T)", rows, nil, GeneratorStyle()))
}
