package schemainfo

import (
	"strconv"
	"strings"

	"github.com/koustreak/aam/internal/schema"
	"github.com/koustreak/aam/internal/textable"
)

const bannerWidth = 80

// Row is the resolved facts for one column, one cell per field.
type Row struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	Attributes string `json:"attributes"`
	References string `json:"references"`
	Index      string `json:"index"`
}

func (r Row) cells() []string {
	return []string{r.Name, r.Label, r.Type, r.Attributes, r.References, r.Index}
}

// Format renders a documentation block. It is a pure function of its
// arguments: formatting the same inputs twice yields identical text.
func Format(title string, rows []Row, diags []Diagnostic, opts Options) string {
	msg := messagesFor(opts.Language)
	m := opts.marker()

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(m + " " + Header)
	line(m)
	line(m + " " + title)
	line(m)

	tb := textable.New(opts.Border, msg.headers...)
	for _, r := range rows {
		tb.AddRow(r.cells()...)
	}
	for _, l := range tb.Lines() {
		line(m + " " + l)
	}

	if len(diags) > 0 {
		line(m)
		head := "- " + msg.remarks + " "
		line(m + head + strings.Repeat("-", bannerWidth-textable.Width(head)))
		for _, d := range Ordered(diags, opts.SortDiagnostics) {
			line(m + " " + msg.bullet + d.Message)
		}
		line(m + strings.Repeat("-", bannerWidth))
	}
	return b.String()
}

// TypeOf renders the storage type with its size: "string(32)",
// "decimal(10, 2)", optionally followed by "=> Class" for serialized columns.
func TypeOf(col schema.Column) string {
	s := col.Type
	if col.Type == "decimal" {
		if col.Precision != nil {
			scale := 0
			if col.Scale != nil {
				scale = *col.Scale
			}
			s += "(" + strconv.Itoa(*col.Precision) + ", " + strconv.Itoa(scale) + ")"
		}
	} else if col.Limit != nil {
		s += "(" + strconv.Itoa(*col.Limit) + ")"
	}
	if col.SerializedAs != "" {
		s += " => " + col.SerializedAs
	}
	return s
}

// AttributesOf renders DEFAULT(x), NOT NULL and PK, in that order.
func AttributesOf(col schema.Column, style BooleanStyle) string {
	var attrs []string
	if col.Default != nil {
		attrs = append(attrs, "DEFAULT("+DefaultOf(col, style)+")")
	}
	if !col.Nullable {
		attrs = append(attrs, "NOT NULL")
	}
	if col.PrimaryKey {
		attrs = append(attrs, "PK")
	}
	return strings.Join(attrs, " ")
}

// DefaultOf renders a column's default. Booleans follow style; decimals
// render as plain numbers, "0" for zero and with a ".0" suffix when integral.
// Anything else renders as stored.
func DefaultOf(col schema.Column, style BooleanStyle) string {
	if col.Default == nil {
		return ""
	}
	raw := *col.Default

	switch col.Type {
	case "boolean":
		v, ok := parseBool(raw)
		if !ok {
			return raw
		}
		if style == BooleanDigit {
			if v {
				return "1"
			}
			return "0"
		}
		if v {
			return "t"
		}
		return "f"
	case "decimal":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		if f == 0 {
			return "0"
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return raw
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "t", "true", "1", "yes":
		return true, true
	case "f", "false", "0", "no":
		return false, true
	}
	return false, false
}
