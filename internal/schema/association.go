package schema

// Kind identifies the macro an association was declared with.
type Kind int

const (
	KindBelongsTo Kind = iota
	KindHasMany
	KindHasOne
)

func (k Kind) String() string {
	switch k {
	case KindBelongsTo:
		return "belongs_to"
	case KindHasMany:
		return "has_many"
	case KindHasOne:
		return "has_one"
	default:
		return "unknown"
	}
}

// Decl holds the fields every association declaration has.
type Decl struct {
	// Name is the association name as declared (":user" -> "user").
	Name string

	// ClassName is the resolved target model. Empty for polymorphic
	// belongs_to, whose target is only known per row.
	ClassName string

	// ForeignKey is the resolved foreign key column.
	ForeignKey string

	// ExplicitForeignKey is set only when the declaration overrode the
	// conventional foreign key.
	ExplicitForeignKey string
}

// Declaration returns the common declaration fields.
func (d Decl) Declaration() Decl { return d }

// Association is a sealed variant over BelongsTo, HasMany and HasOne.
// Use a type switch to reach kind-specific fields.
type Association interface {
	Kind() Kind
	Declaration() Decl
	sealed()
}

// BelongsTo is a column-level reference from the declaring table.
type BelongsTo struct {
	Decl
	Polymorphic bool
}

// HasMany is the inverse side of a belongs_to, declared on the target.
type HasMany struct {
	Decl
	As      string // polymorphic interface name ("as: :xxx")
	Through string // indirect association, never maps to a column
}

// HasOne is the single-row inverse side of a belongs_to.
type HasOne struct {
	Decl
	As      string
	Through string
}

func (BelongsTo) Kind() Kind { return KindBelongsTo }
func (HasMany) Kind() Kind   { return KindHasMany }
func (HasOne) Kind() Kind    { return KindHasOne }

func (BelongsTo) sealed() {}
func (HasMany) sealed()   {}
func (HasOne) sealed()    {}

// IsThrough reports whether a is an indirect (through) association.
func IsThrough(a Association) bool {
	switch v := a.(type) {
	case HasMany:
		return v.Through != ""
	case HasOne:
		return v.Through != ""
	default:
		return false
	}
}

// BelongsToFor returns the belongs_to declarations whose foreign key is column.
func (t *Table) BelongsToFor(column string) []BelongsTo {
	var out []BelongsTo
	for _, a := range t.Associations {
		if bt, ok := a.(BelongsTo); ok && bt.ForeignKey == column {
			out = append(out, bt)
		}
	}
	return out
}
