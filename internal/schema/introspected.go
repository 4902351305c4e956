package schema

import (
	"context"
	"sort"

	"github.com/koustreak/aam/internal/errs"
)

// Introspected is a Provider that takes models, associations and the
// inheritance column from a declaring provider (the manifest) and columns,
// primary key and indexes from the live database.
type Introspected struct {
	declared  Provider
	inspector Introspector
	schema    string
}

// NewIntrospected wraps declared so every table is read live through
// inspector. schemaName selects the database namespace.
func NewIntrospected(declared Provider, inspector Introspector, schemaName string) *Introspected {
	return &Introspected{declared: declared, inspector: inspector, schema: schemaName}
}

// Models returns the declared models.
func (p *Introspected) Models(ctx context.Context) ([]string, error) {
	return p.declared.Models(ctx)
}

// Table returns the declared model merged with its live table. A table that
// cannot be read is a provider failure for that model only.
func (p *Introspected) Table(ctx context.Context, model string) (*Table, error) {
	declared, err := p.declared.Table(ctx, model)
	if err != nil {
		return nil, err
	}

	live, err := p.inspector.InspectTable(ctx, p.schema, declared.Name)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindProviderFailure, "inspect table "+declared.Name+" of "+model, err)
	}
	return merge(declared, live), nil
}

// Unmapped returns the live tables no declared model maps to, sorted.
func (p *Introspected) Unmapped(ctx context.Context) ([]string, error) {
	tables, err := p.inspector.ListTables(ctx, p.schema)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindProviderFailure, "list tables", err)
	}
	models, err := p.declared.Models(ctx)
	if err != nil {
		return nil, err
	}

	mapped := make(map[string]bool, len(models))
	for _, m := range models {
		t, err := p.declared.Table(ctx, m)
		if err != nil {
			continue
		}
		mapped[t.Name] = true
	}

	var out []string
	for _, t := range tables {
		if !mapped[t] {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out, nil
}

func merge(declared, live *Table) *Table {
	t := &Table{
		Name:              declared.Name,
		Model:             declared.Model,
		PrimaryKey:        live.PrimaryKey,
		InheritanceColumn: declared.InheritanceColumn,
		Associations:      declared.Associations,
		Indexes:           live.Indexes,
		Columns:           make([]Column, len(live.Columns)),
	}
	copy(t.Columns, live.Columns)
	if t.PrimaryKey == "" {
		t.PrimaryKey = declared.PrimaryKey
	}
	for i, c := range t.Columns {
		if d, ok := declared.Column(c.Name); ok {
			t.Columns[i].SerializedAs = d.SerializedAs
		}
	}
	if t.InheritanceColumn == "" && t.HasColumn("type") {
		t.InheritanceColumn = "type"
	}
	return t
}
