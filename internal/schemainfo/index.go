package schemainfo

import (
	"regexp"
	"strings"

	"github.com/koustreak/aam/internal/schema"
)

var (
	idColumn   = regexp.MustCompile(`(\w+)_id$`)
	indexNames = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// IndexLabel returns the display label of the index at position pos in
// discovery order: "A" for the first, "B" for the second, with a trailing
// "!" for unique indexes. Positions past "Z" get no letter.
func IndexLabel(pos int, idx schema.Index) string {
	label := ""
	if pos >= 0 && pos < len(indexNames) {
		label = indexNames[pos : pos+1]
	}
	if idx.Unique {
		label += "!"
	}
	return label
}

// IndexMarker lists the labels of every index containing column, in the
// table's discovery order.
func IndexMarker(t *schema.Table, column string) string {
	var labels []string
	for pos, idx := range t.Indexes {
		if idx.Includes(column) {
			labels = append(labels, IndexLabel(pos, idx))
		}
	}
	return strings.Join(labels, " ")
}

func indexed(t *schema.Table, column string) bool {
	for _, idx := range t.Indexes {
		if idx.Includes(column) {
			return true
		}
	}
	return false
}

func hasExactIndex(t *schema.Table, columns ...string) bool {
	for _, idx := range t.Indexes {
		if len(idx.Columns) != len(columns) {
			continue
		}
		match := true
		for i, c := range columns {
			if idx.Columns[i] != c {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// checkIndex records a diagnostic when an index-worthy column lacks
// coverage. A column is index-worthy when it is named <word>_id or is the
// foreign key of a belongs_to. A <word>_id with a <word>_type sibling must be
// covered as a pair.
func (a *analysis) checkIndex(col schema.Column) {
	md := idColumn.FindStringSubmatch(col.Name)
	if md == nil && len(a.table.BelongsToFor(col.Name)) == 0 {
		return
	}

	if md != nil {
		typeCol := md[1] + "_type"
		if a.table.HasColumn(typeCol) {
			covered := hasExactIndex(a.table, col.Name, typeCol) ||
				(indexed(a.table, col.Name) && indexed(a.table, typeCol))
			if !covered {
				spec := "[:" + col.Name + ", :" + typeCol + "]"
				a.sink.Warn(col.Name, a.msg.indexWarning(a.table.Name, spec))
			}
			return
		}
	}

	if !indexed(a.table, col.Name) {
		a.sink.Warn(col.Name, a.msg.indexWarning(a.table.Name, ":"+col.Name))
	}
}
