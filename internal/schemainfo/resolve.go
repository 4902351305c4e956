package schemainfo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/koustreak/aam/internal/logger"
	"github.com/koustreak/aam/internal/schema"
)

// analysis is the state of one Generate call. It reads the table and the
// catalog and writes only to its own sink.
type analysis struct {
	table   *schema.Table
	catalog schema.Catalog
	opts    Options
	msg     *messages
	sink    *Sink
	log     *logger.Logger
}

// references describes the relational role of col, or returns "" for a
// plain attribute. Index coverage is checked on the way.
func (a *analysis) references(col schema.Column) string {
	if a.table.InheritanceColumn != "" && col.Name == a.table.InheritanceColumn {
		return a.msg.sti
	}

	a.checkIndex(col)

	var matches []schema.Association
	for _, assoc := range a.table.Associations {
		if schema.IsThrough(assoc) {
			continue
		}
		if assoc.Declaration().ForeignKey == col.Name {
			matches = append(matches, assoc)
		}
	}

	if len(matches) == 0 {
		return a.unmodeled(col)
	}

	var descs []string
	for _, assoc := range matches {
		bt, ok := assoc.(schema.BelongsTo)
		if !ok {
			continue
		}
		descs = append(descs, a.describe(col, bt))
	}
	sort.Strings(descs)
	return strings.Join(descs, a.msg.separator)
}

// unmodeled handles a column no association claims. A <word>_id column is a
// foreign key nobody declared; a <word>_type column is labelled only when a
// polymorphic belongs_to owns it, since the missing declaration is already
// reported on its _id sibling.
func (a *analysis) unmodeled(col schema.Column) string {
	if md := idColumn.FindStringSubmatch(col.Name); md != nil {
		name := md[1]
		polymorphic := a.table.HasColumn(name + "_type")
		decl := a.msg.declaration("belongs_to", name, polymorphic, "")
		a.sink.Warn(col.Name, fmt.Sprintf(a.msg.missingAssoc, decl, a.table.Model))
		return ""
	}

	for _, assoc := range a.table.Associations {
		if bt, ok := assoc.(schema.BelongsTo); ok && bt.Polymorphic && bt.Name+"_type" == col.Name {
			return a.msg.poly
		}
	}
	return ""
}

// describe renders one belongs_to as "[:name ]=> Target#pk" and, for a fixed
// target, verifies the target declares the inverse side.
func (a *analysis) describe(col schema.Column, bt schema.BelongsTo) string {
	var target string
	if bt.Polymorphic {
		target = fmt.Sprintf("(%s_type)#%s", bt.Name, a.table.PrimaryKey)
	} else {
		target = bt.ClassName + "#" + a.table.PrimaryKey
		if err := a.checkReciprocal(col, bt); err != nil {
			if a.opts.Debug {
				a.log.With().
					Str("model", a.table.Model).
					Str("association", bt.Name).
					Logger().
					DebugErr("association target could not be resolved", err)
			}
		}
	}

	if bt.Name+"_id" != col.Name {
		return ":" + bt.Name + " => " + target
	}
	return "=> " + target
}

// checkReciprocal looks on the target model for the first association whose
// foreign key is col. A belongs_to with an explicit foreign key needs the
// inverse to name the same key, so a mismatch is reported as missing.
func (a *analysis) checkReciprocal(col schema.Column, bt schema.BelongsTo) error {
	target, err := a.catalog.Lookup(bt.ClassName)
	if err != nil {
		return err
	}

	for _, inv := range target.Associations {
		if schema.IsThrough(inv) {
			continue
		}
		d := inv.Declaration()
		if d.ForeignKey != col.Name {
			continue
		}
		if a.opts.RelationNotes {
			decl := a.msg.declaration(inv.Kind().String(), d.Name, false, d.ExplicitForeignKey)
			a.sink.Note(col.Name, a.msg.reciprocalNote(a.table.Model, target.Model, decl))
		}
		return nil
	}

	plural := schema.Pluralize(schema.Underscore(a.table.Model))
	decl := a.msg.declaration("has_many", plural, false, bt.ExplicitForeignKey)
	a.sink.Warn(col.Name, fmt.Sprintf(a.msg.missingReciprocal, bt.ClassName, decl))
	return nil
}

// checkForeignKeys reports belongs_to declarations whose foreign key is not
// a column of the table.
func (a *analysis) checkForeignKeys() {
	for _, assoc := range a.table.Associations {
		bt, ok := assoc.(schema.BelongsTo)
		if !ok || a.table.HasColumn(bt.ForeignKey) {
			continue
		}
		decl := a.msg.declaration("belongs_to", bt.Name, bt.Polymorphic, bt.ExplicitForeignKey)
		a.sink.Warn(bt.ForeignKey, fmt.Sprintf(a.msg.missingColumn, decl, bt.ForeignKey, a.table.Name))
	}
}
