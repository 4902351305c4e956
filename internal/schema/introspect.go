package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/koustreak/aam/internal/database"
	"github.com/koustreak/aam/internal/errs"
)

// Introspector reads live table structure from a database: columns in
// ordinal order, the primary key and the secondary indexes. Associations
// are not part of the database and come from the manifest.
type Introspector interface {
	ListTables(ctx context.Context, schema string) ([]string, error)
	InspectTable(ctx context.Context, schema, table string) (*Table, error)
}

// dialect holds the catalog queries of one engine. Both queries take the
// schema and the table name, in that order.
type dialect struct {
	tables     string
	columns    string
	indexes    string
	scanColumn func(database.Rows) (Column, bool, error)
}

// PgIntrospector implements Introspector for PostgreSQL using
// information_schema and pg_catalog.
type PgIntrospector struct {
	db database.DB
}

// NewPgIntrospector creates a new Postgres schema introspector
func NewPgIntrospector(db database.DB) *PgIntrospector {
	return &PgIntrospector{db: db}
}

var pgDialect = dialect{
	tables: `
		SELECT table_name::text
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`,

	columns: `
		SELECT
			c.column_name::text,
			c.data_type::text,
			c.is_nullable = 'YES'                  AS is_nullable,
			c.column_default::text,
			c.character_maximum_length::int,
			c.numeric_precision::int,
			c.numeric_scale::int,
			COALESCE(pk.is_pk, false)              AS is_primary_key
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT kcu.column_name, true AS is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
			  AND tc.table_schema = $1
			  AND tc.table_name   = $2
		) pk ON pk.column_name = c.column_name
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position`,

	indexes: `
		SELECT i.relname::text, ix.indisunique, a.attname::text
		FROM pg_catalog.pg_index ix
		JOIN pg_catalog.pg_class t ON t.oid = ix.indrelid
		JOIN pg_catalog.pg_class i ON i.oid = ix.indexrelid
		JOIN pg_catalog.pg_namespace n ON n.oid = t.relnamespace
		JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord) ON true
		JOIN pg_catalog.pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
		WHERE n.nspname = $1
		  AND t.relname = $2
		  AND NOT ix.indisprimary
		ORDER BY i.relname, k.ord`,

	scanColumn: func(rows database.Rows) (Column, bool, error) {
		var (
			col      Column
			dataType string
			def      *string
			maxLen   *int
			prec     *int
			scale    *int
		)
		if err := rows.Scan(&col.Name, &dataType, &col.Nullable, &def, &maxLen, &prec, &scale, &col.PrimaryKey); err != nil {
			return Column{}, false, err
		}
		col.Type = abstractType(dataType)
		col.Default = pgDefault(def)
		sizeColumn(&col, maxLen, prec, scale)
		return col, col.PrimaryKey, nil
	},
}

// ListTables returns all user-defined table names in the given schema
func (p *PgIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	return listTables(ctx, p.db, pgDialect, pgSchema(schema))
}

// InspectTable returns the live structure of one table.
func (p *PgIntrospector) InspectTable(ctx context.Context, schema, table string) (*Table, error) {
	return inspectTable(ctx, p.db, pgDialect, pgSchema(schema), table)
}

func pgSchema(s string) string {
	if s == "" {
		return "public"
	}
	return s
}

func listTables(ctx context.Context, db database.DB, d dialect, schema string) ([]string, error) {
	rows, err := db.Query(ctx, d.tables, schema)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func inspectTable(ctx context.Context, db database.DB, d dialect, schema, table string) (*Table, error) {
	rows, err := db.Query(ctx, d.columns, schema, table)
	if err != nil {
		return nil, fmt.Errorf("inspect table %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	t := &Table{Name: table}
	for rows.Next() {
		col, primary, err := d.scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		if primary && t.PrimaryKey == "" {
			t.PrimaryKey = col.Name
		}
		t.Columns = append(t.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(t.Columns) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %s.%s not found or has no columns", schema, table)
	}

	t.Indexes, err = listIndexes(ctx, db, d, schema, table)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// listIndexes reads one row per indexed column, ordered by index then
// column position, and folds them into indexes.
func listIndexes(ctx context.Context, db database.DB, d dialect, schema, table string) ([]Index, error) {
	rows, err := db.Query(ctx, d.indexes, schema, table)
	if err != nil {
		return nil, fmt.Errorf("list indexes of %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var out []Index
	for rows.Next() {
		var (
			name, column string
			unique       bool
		)
		if err := rows.Scan(&name, &unique, &column); err != nil {
			return nil, fmt.Errorf("scan index: %w", err)
		}
		if n := len(out); n > 0 && out[n-1].Name == name {
			out[n-1].Columns = append(out[n-1].Columns, column)
			continue
		}
		out = append(out, Index{Name: name, Columns: []string{column}, Unique: unique})
	}
	return out, rows.Err()
}

// abstractType maps an engine data type to the portable type names the
// report shows.
func abstractType(dataType string) string {
	dt := strings.ToLower(dataType)
	switch dt {
	case "character varying", "varchar", "character", "char", "citext":
		return "string"
	case "text", "tinytext", "mediumtext", "longtext":
		return "text"
	case "integer", "int", "smallint", "bigint", "mediumint", "tinyint":
		return "integer"
	case "numeric", "decimal":
		return "decimal"
	case "real", "double precision", "float", "double":
		return "float"
	case "boolean", "bool":
		return "boolean"
	case "timestamp without time zone", "timestamp with time zone", "timestamp", "datetime":
		return "datetime"
	case "time without time zone", "time with time zone":
		return "time"
	case "bytea", "blob", "tinyblob", "mediumblob", "longblob", "binary", "varbinary":
		return "binary"
	}
	return dt
}

// sizeColumn keeps the size facts the report renders: the length of
// strings and the precision and scale of decimals.
func sizeColumn(col *Column, maxLen, prec, scale *int) {
	switch col.Type {
	case "string":
		col.Limit = maxLen
	case "decimal":
		col.Precision = prec
		col.Scale = scale
	}
}

var (
	quotedDefault  = regexp.MustCompile(`^'(.*)'(?:::[\w\s"\[\]]+)?$`)
	numericDefault = regexp.MustCompile(`^\(?(-?\d+(?:\.\d+)?)\)?(?:::[\w\s]+)?$`)
)

// pgDefault reduces a PostgreSQL default expression to its literal value.
// Sequences, function calls and NULL have no literal and map to nil.
func pgDefault(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if md := quotedDefault.FindStringSubmatch(s); md != nil {
		v := strings.ReplaceAll(md[1], "''", "'")
		return &v
	}
	if md := numericDefault.FindStringSubmatch(s); md != nil {
		return &md[1]
	}
	if s == "true" || s == "false" {
		return &s
	}
	return nil
}
