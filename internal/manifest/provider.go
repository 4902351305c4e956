package manifest

import (
	"context"
	"sort"

	"github.com/koustreak/aam/internal/errs"
	"github.com/koustreak/aam/internal/schema"
)

// Provider serves the tables of a resolved manifest. It implements
// schema.Provider and is safe for concurrent use.
type Provider struct {
	tables map[string]*schema.Table
	models []string
}

// NewProvider resolves m.
func NewProvider(m *Manifest) (*Provider, error) {
	tables, err := m.Tables()
	if err != nil {
		return nil, err
	}

	p := &Provider{tables: make(map[string]*schema.Table, len(tables))}
	for _, t := range tables {
		p.tables[t.Model] = t
		p.models = append(p.models, t.Model)
	}
	sort.Strings(p.models)
	return p, nil
}

// Open loads and resolves the manifest at path.
func Open(path string) (*Provider, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewProvider(m)
}

// Models returns every model name, sorted.
func (p *Provider) Models(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "list models", err)
	}
	out := make([]string, len(p.models))
	copy(out, p.models)
	return out, nil
}

// Table returns the snapshot for model.
func (p *Provider) Table(ctx context.Context, model string) (*schema.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "load model "+model, err)
	}
	t, ok := p.tables[model]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "model %s is not in the manifest", model)
	}
	return t, nil
}
