// Package schemainfo builds the schema documentation block for one table:
// one row per column describing its type, attributes, relational role and
// index membership, followed by diagnostics about missing indexes and
// missing or one-sided association declarations.
//
// Usage:
//
//	gen := schemainfo.New(catalog, dict, schemainfo.GeneratorStyle(), log)
//	report := gen.Analyze(table)
//	fmt.Print(report.Text)
package schemainfo

import (
	"fmt"

	"github.com/koustreak/aam/internal/logger"
	"github.com/koustreak/aam/internal/schema"
	"github.com/koustreak/aam/internal/translate"
)

// Report is the outcome of analysing one table.
type Report struct {
	Model       string       `json:"model"`
	Table       string       `json:"table"`
	Title       string       `json:"title"`
	Rows        []Row        `json:"rows"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Text        string       `json:"-"`
}

// Generator analyses tables against a catalog. It holds no per-table state,
// so one Generator may serve concurrent Analyze calls.
type Generator struct {
	catalog schema.Catalog
	tr      translate.Translator
	opts    Options
	log     *logger.Logger
}

// New creates a Generator. A nil translator humanizes every name; a nil
// logger discards debug output.
func New(catalog schema.Catalog, tr translate.Translator, opts Options, log *logger.Logger) *Generator {
	if tr == nil {
		tr = translate.None{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if catalog == nil {
		catalog = schema.MapCatalog{}
	}
	return &Generator{catalog: catalog, tr: tr, opts: opts, log: log}
}

// Options returns the generator's options.
func (g *Generator) Options() Options { return g.opts }

// Analyze resolves every column of t and renders the block.
func (g *Generator) Analyze(t *schema.Table) *Report {
	msg := messagesFor(g.opts.Language)
	a := &analysis{
		table:   t,
		catalog: g.catalog,
		opts:    g.opts,
		msg:     msg,
		log:     g.log,
	}
	if g.opts.Debug {
		a.sink = NewSink(g.log.With().Str("model", t.Model).Logger())
	} else {
		a.sink = NewSink(nil)
	}

	var rows []Row
	for _, col := range t.Columns {
		if g.opts.skipped(col.Name) {
			continue
		}
		rows = append(rows, Row{
			Name:       col.Name,
			Label:      translate.ColumnLabel(g.tr, t.Model, col.Name, msg.suffixes),
			Type:       TypeOf(col),
			Attributes: AttributesOf(col, g.opts.BooleanStyle),
			References: a.references(col),
			Index:      IndexMarker(t, col.Name),
		})
	}
	a.checkForeignKeys()

	title := fmt.Sprintf(msg.title, translate.ModelLabel(g.tr, t.Model), t.Name, t.Model)
	diags := a.sink.All()
	return &Report{
		Model:       t.Model,
		Table:       t.Name,
		Title:       title,
		Rows:        rows,
		Diagnostics: Ordered(diags, g.opts.SortDiagnostics),
		Text:        Format(title, rows, diags, g.opts),
	}
}

// Generate returns only the rendered block for t.
func (g *Generator) Generate(t *schema.Table) string {
	return g.Analyze(t).Text
}
