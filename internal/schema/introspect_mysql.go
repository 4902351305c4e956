package schema

import (
	"context"
	"strings"

	"github.com/koustreak/aam/internal/database"
)

// MySQLIntrospector implements Introspector for MySQL using information_schema.
// An empty schema means the connection's current database.
type MySQLIntrospector struct {
	db database.DB
}

// NewMySQLIntrospector creates a new MySQL schema introspector
func NewMySQLIntrospector(db database.DB) *MySQLIntrospector {
	return &MySQLIntrospector{db: db}
}

var mysqlDialect = dialect{
	tables: `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`,

	columns: `
		SELECT
			c.column_name,
			c.data_type,
			c.column_type,
			c.is_nullable = 'YES'  AS is_nullable,
			c.column_default,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.column_key = 'PRI'   AS is_primary_key
		FROM information_schema.columns c
		WHERE c.table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND c.table_name = ?
		ORDER BY c.ordinal_position`,

	indexes: `
		SELECT s.index_name, s.non_unique = 0 AS is_unique, s.column_name
		FROM information_schema.statistics s
		WHERE s.table_schema = COALESCE(NULLIF(?, ''), DATABASE())
		  AND s.table_name = ?
		  AND s.index_name <> 'PRIMARY'
		ORDER BY s.index_name, s.seq_in_index`,

	scanColumn: func(rows database.Rows) (Column, bool, error) {
		var (
			col        Column
			dataType   string
			columnType string
			def        *string
			maxLen     *int
			prec       *int
			scale      *int
		)
		if err := rows.Scan(&col.Name, &dataType, &columnType, &col.Nullable, &def, &maxLen, &prec, &scale, &col.PrimaryKey); err != nil {
			return Column{}, false, err
		}
		col.Type = abstractType(dataType)
		if strings.HasPrefix(strings.ToLower(columnType), "tinyint(1)") {
			col.Type = "boolean"
		}
		col.Default = mysqlDefault(def)
		sizeColumn(&col, maxLen, prec, scale)
		return col, col.PrimaryKey, nil
	},
}

// ListTables returns all user-defined table names in the given database (schema = database in MySQL)
func (m *MySQLIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	return listTables(ctx, m.db, mysqlDialect, schema)
}

// InspectTable returns the live structure of one table.
func (m *MySQLIntrospector) InspectTable(ctx context.Context, schema, table string) (*Table, error) {
	return inspectTable(ctx, m.db, mysqlDialect, schema, table)
}

// mysqlDefault keeps literal defaults. MySQL reports string literals
// unquoted, MariaDB quotes them; generated defaults have no literal.
func mysqlDefault(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := *raw
	switch strings.ToUpper(s) {
	case "NULL", "CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP()", "NOW()":
		return nil
	}
	if md := quotedDefault.FindStringSubmatch(s); md != nil {
		v := strings.ReplaceAll(md[1], "''", "'")
		return &v
	}
	return &s
}
