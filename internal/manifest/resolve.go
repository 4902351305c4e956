package manifest

import (
	"github.com/koustreak/aam/internal/errs"
	"github.com/koustreak/aam/internal/schema"
)

// Tables resolves every model into a table snapshot, in manifest order.
// Omitted table names, primary keys, target classes and foreign keys follow
// naming conventions. A model that inherits another reuses its table and
// its associations, then adds its own.
func (m *Manifest) Tables() ([]*schema.Table, error) {
	r := &resolver{
		models:   make(map[string]*Model, len(m.Models)),
		done:     make(map[string]*schema.Table, len(m.Models)),
		visiting: make(map[string]bool),
	}
	for i := range m.Models {
		md := &m.Models[i]
		if md.Name == "" {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "model #%d has no name", i+1)
		}
		if _, dup := r.models[md.Name]; dup {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "model %s is declared twice", md.Name)
		}
		r.models[md.Name] = md
	}

	tables := make([]*schema.Table, 0, len(m.Models))
	for _, md := range m.Models {
		t, err := r.resolve(md.Name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

type resolver struct {
	models   map[string]*Model
	done     map[string]*schema.Table
	visiting map[string]bool
}

func (r *resolver) resolve(name string) (*schema.Table, error) {
	if t, ok := r.done[name]; ok {
		return t, nil
	}
	md, ok := r.models[name]
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unknown model %s", name)
	}
	if r.visiting[name] {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "model %s inherits itself", name)
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	own := make([]schema.Association, 0, len(md.Associations))
	for _, a := range md.Associations {
		assoc, err := resolveAssociation(md.Name, a)
		if err != nil {
			return nil, err
		}
		own = append(own, assoc)
	}

	t := &schema.Table{Model: md.Name}
	if md.Inherits != "" {
		if _, ok := r.models[md.Inherits]; !ok {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "model %s inherits unknown model %s", md.Name, md.Inherits)
		}
		parent, err := r.resolve(md.Inherits)
		if err != nil {
			return nil, err
		}
		t.Name = parent.Name
		t.PrimaryKey = parent.PrimaryKey
		t.InheritanceColumn = parent.InheritanceColumn
		t.Columns = parent.Columns
		t.Indexes = parent.Indexes
		t.Associations = append(t.Associations, parent.Associations...)
	}
	t.Associations = append(t.Associations, own...)

	if md.Table != "" {
		t.Name = md.Table
	}
	if t.Name == "" {
		t.Name = schema.TableName(md.Name)
	}
	if md.PrimaryKey != "" {
		t.PrimaryKey = md.PrimaryKey
	}
	if t.PrimaryKey == "" {
		t.PrimaryKey = primaryKeyOf(md.Columns)
	}
	if len(md.Columns) > 0 {
		t.Columns = columnsOf(md.Columns, t.PrimaryKey)
	}
	if len(md.Indexes) > 0 {
		t.Indexes = indexesOf(md.Indexes)
	}
	if md.InheritanceColumn != "" {
		t.InheritanceColumn = md.InheritanceColumn
	}
	if t.InheritanceColumn == "" && t.HasColumn("type") {
		t.InheritanceColumn = "type"
	}

	r.done[name] = t
	return t, nil
}

// resolveAssociation applies the naming conventions of the declaring model
// owner. Inherited associations keep the conventions of the model that
// declared them.
func resolveAssociation(owner string, a Association) (schema.Association, error) {
	set := 0
	for _, n := range []string{a.BelongsTo, a.HasMany, a.HasOne} {
		if n != "" {
			set++
		}
	}
	if set != 1 {
		return nil, errs.Newf(errs.ErrKindInvalidInput,
			"model %s: an association sets exactly one of belongs_to, has_many, has_one", owner)
	}

	inverseKey := a.ForeignKey
	if a.Through != "" {
		// the key belongs to the source association on the through model
		inverseKey = ""
	} else if inverseKey == "" {
		if a.As != "" {
			inverseKey = a.As + "_id"
		} else {
			inverseKey = schema.ForeignKeyFor(owner)
		}
	}

	switch {
	case a.BelongsTo != "":
		d := schema.Decl{
			Name:               a.BelongsTo,
			ForeignKey:         a.ForeignKey,
			ExplicitForeignKey: a.ForeignKey,
		}
		if d.ForeignKey == "" {
			d.ForeignKey = a.BelongsTo + "_id"
		}
		if !a.Polymorphic {
			d.ClassName = orDefault(a.ClassName, schema.Camelize(a.BelongsTo))
		}
		return schema.BelongsTo{Decl: d, Polymorphic: a.Polymorphic}, nil

	case a.HasMany != "":
		return schema.HasMany{
			Decl: schema.Decl{
				Name:               a.HasMany,
				ClassName:          orDefault(a.ClassName, schema.Camelize(schema.Singularize(a.HasMany))),
				ForeignKey:         inverseKey,
				ExplicitForeignKey: a.ForeignKey,
			},
			As:      a.As,
			Through: a.Through,
		}, nil

	default:
		return schema.HasOne{
			Decl: schema.Decl{
				Name:               a.HasOne,
				ClassName:          orDefault(a.ClassName, schema.Camelize(a.HasOne)),
				ForeignKey:         inverseKey,
				ExplicitForeignKey: a.ForeignKey,
			},
			As:      a.As,
			Through: a.Through,
		}, nil
	}
}

func primaryKeyOf(cols []Column) string {
	for _, c := range cols {
		if c.PrimaryKey {
			return c.Name
		}
	}
	return "id"
}

func columnsOf(cols []Column, pk string) []schema.Column {
	out := make([]schema.Column, 0, len(cols))
	for _, c := range cols {
		primary := c.PrimaryKey || c.Name == pk
		nullable := !primary
		if c.Nullable != nil {
			nullable = *c.Nullable
		}
		out = append(out, schema.Column{
			Name:         c.Name,
			Type:         c.Type,
			Limit:        c.Limit,
			Precision:    c.Precision,
			Scale:        c.Scale,
			Nullable:     nullable,
			Default:      c.Default,
			PrimaryKey:   primary,
			SerializedAs: c.Serialize,
		})
	}
	return out
}

func indexesOf(idxs []Index) []schema.Index {
	out := make([]schema.Index, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, schema.Index{Name: i.Name, Columns: i.Columns, Unique: i.Unique})
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
