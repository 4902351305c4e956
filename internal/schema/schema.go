package schema

import (
	"context"
	"sort"

	"github.com/koustreak/aam/internal/errs"
)

// Provider supplies table snapshots, one per model.
type Provider interface {
	// Models returns the model names the provider knows, sorted.
	Models(ctx context.Context) ([]string, error)

	// Table returns the snapshot for model. Failures are reported as
	// errs.ErrKindProviderFailure or errs.ErrKindNotFound.
	Table(ctx context.Context, model string) (*Table, error)
}

// Catalog resolves association targets by model name.
type Catalog interface {
	Lookup(model string) (*Table, error)
}

// MapCatalog is a Catalog over an in-memory set of tables keyed by model.
type MapCatalog map[string]*Table

// NewCatalog indexes tables by their model name.
func NewCatalog(tables ...*Table) MapCatalog {
	c := make(MapCatalog, len(tables))
	for _, t := range tables {
		c[t.Model] = t
	}
	return c
}

// Lookup returns the table for model or an ErrKindUnresolvedTarget error.
func (c MapCatalog) Lookup(model string) (*Table, error) {
	if t, ok := c[model]; ok {
		return t, nil
	}
	return nil, errs.Newf(errs.ErrKindUnresolvedTarget, "uninitialized constant %s", model)
}

// Models returns the catalog's model names, sorted.
func (c MapCatalog) Models() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProviderCatalog resolves targets on demand through a provider and keeps
// what it read. It serves one analysis and is not safe for concurrent use.
type ProviderCatalog struct {
	ctx    context.Context
	p      Provider
	tables map[string]*Table
}

// NewProviderCatalog returns a catalog bound to ctx for the lifetime of one
// request.
func NewProviderCatalog(ctx context.Context, p Provider) *ProviderCatalog {
	return &ProviderCatalog{ctx: ctx, p: p, tables: make(map[string]*Table)}
}

// Lookup returns the table for model. Any provider failure makes the
// target unresolved.
func (c *ProviderCatalog) Lookup(model string) (*Table, error) {
	if t, ok := c.tables[model]; ok {
		return t, nil
	}
	t, err := c.p.Table(c.ctx, model)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindUnresolvedTarget, "uninitialized constant "+model, err)
	}
	c.tables[model] = t
	return t, nil
}

// LoadCatalog asks p for every model and builds a catalog. Models whose
// snapshot cannot be built are left out and returned in failed so callers
// can count them; they only become unresolved targets for other tables.
func LoadCatalog(ctx context.Context, p Provider) (MapCatalog, map[string]error, error) {
	models, err := p.Models(ctx)
	if err != nil {
		return nil, nil, err
	}

	cat := make(MapCatalog, len(models))
	failed := make(map[string]error)
	for _, m := range models {
		t, err := p.Table(ctx, m)
		if err != nil {
			failed[m] = err
			continue
		}
		cat[m] = t
	}
	return cat, failed, nil
}
