package manifest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/aam/internal/errs"
	"github.com/koustreak/aam/internal/schema"
	"github.com/koustreak/aam/internal/schemainfo"
)

const blogManifest = `
models:
  - name: User
    columns:
      - {name: id, type: integer}
      - {name: name, type: string, limit: 32}
      - {name: flag, type: boolean, default: "f"}
    indexes:
      - {name: index_users_on_name, columns: [name], unique: true}
    associations:
      - has_many: articles
      - has_one: article
        as: xxx

  - name: Article
    columns:
      - {name: id, type: integer}
      - {name: user_id, type: integer}
      - {name: xxx_type, type: string}
      - {name: xxx_id, type: integer}
    associations:
      - belongs_to: user
      - belongs_to: xxx
        polymorphic: true

  - name: Blog
    columns:
      - {name: id, type: integer}
      - {name: name, type: string}
    associations:
      - has_many: sub_articles
        foreign_key: xxx_id

  - name: SubArticle
    inherits: Article
    associations:
      - belongs_to: blog
        class_name: Blog
        foreign_key: xxx_id

  - name: Foo
    columns:
      - {name: id, type: integer}
      - {name: user_id, type: integer}
      - {name: xxx_type, type: string}
      - {name: xxx_id, type: integer}
`

func parse(t *testing.T, doc string) *Manifest {
	t.Helper()
	m, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return m
}

func tablesByModel(t *testing.T, doc string) map[string]*schema.Table {
	t.Helper()
	tables, err := parse(t, doc).Tables()
	require.NoError(t, err)

	out := make(map[string]*schema.Table, len(tables))
	for _, tb := range tables {
		out[tb.Model] = tb
	}
	return out
}

func TestTables_Conventions(t *testing.T) {
	tables := tablesByModel(t, blogManifest)

	user := tables["User"]
	assert.Equal(t, "users", user.Name)
	assert.Equal(t, "id", user.PrimaryKey)
	assert.Equal(t, []string{"id", "name", "flag"}, user.ColumnNames())

	id, _ := user.Column("id")
	assert.True(t, id.PrimaryKey)
	assert.False(t, id.Nullable)
	name, _ := user.Column("name")
	assert.True(t, name.Nullable)
	require.NotNil(t, name.Limit)
	assert.Equal(t, 32, *name.Limit)

	require.Len(t, user.Associations, 2)
	assert.Equal(t, schema.HasMany{Decl: schema.Decl{
		Name: "articles", ClassName: "Article", ForeignKey: "user_id",
	}}, user.Associations[0])
	assert.Equal(t, schema.HasOne{Decl: schema.Decl{
		Name: "article", ClassName: "Article", ForeignKey: "xxx_id",
	}, As: "xxx"}, user.Associations[1])

	article := tables["Article"]
	assert.Equal(t, schema.BelongsTo{Decl: schema.Decl{
		Name: "user", ClassName: "User", ForeignKey: "user_id",
	}}, article.Associations[0])
	assert.Equal(t, schema.BelongsTo{Decl: schema.Decl{
		Name: "xxx", ForeignKey: "xxx_id",
	}, Polymorphic: true}, article.Associations[1])

	blog := tables["Blog"]
	assert.Equal(t, schema.HasMany{Decl: schema.Decl{
		Name: "sub_articles", ClassName: "SubArticle", ForeignKey: "xxx_id", ExplicitForeignKey: "xxx_id",
	}}, blog.Associations[0])

	assert.Equal(t, "foos", tables["Foo"].Name)
	assert.Empty(t, tables["Foo"].Associations)
}

func TestTables_Inherits(t *testing.T) {
	tables := tablesByModel(t, blogManifest)

	sub := tables["SubArticle"]
	assert.Equal(t, "articles", sub.Name)
	assert.Equal(t, tables["Article"].Columns, sub.Columns)
	require.Len(t, sub.Associations, 3)
	assert.Equal(t, "user", sub.Associations[0].Declaration().Name)
	assert.Equal(t, "xxx", sub.Associations[1].Declaration().Name)
	assert.Equal(t, schema.BelongsTo{Decl: schema.Decl{
		Name: "blog", ClassName: "Blog", ForeignKey: "xxx_id", ExplicitForeignKey: "xxx_id",
	}}, sub.Associations[2])

	assert.Len(t, tables["Article"].Associations, 2)
}

func TestTables_InheritanceColumn(t *testing.T) {
	tables := tablesByModel(t, `
models:
  - name: Vehicle
    columns:
      - {name: id, type: integer}
      - {name: type, type: string}
  - name: Car
    inherits: Vehicle
  - name: Tag
    inheritance_column: kind
    columns:
      - {name: id, type: integer}
      - {name: kind, type: string}
`)
	assert.Equal(t, "type", tables["Vehicle"].InheritanceColumn)
	assert.Equal(t, "type", tables["Car"].InheritanceColumn)
	assert.Equal(t, "vehicles", tables["Car"].Name)
	assert.Equal(t, "kind", tables["Tag"].InheritanceColumn)
}

func TestTables_Serialized(t *testing.T) {
	tables := tablesByModel(t, `
models:
  - name: Setting
    primary_key: key
    columns:
      - {name: key, type: string, nullable: false}
      - {name: value, type: text, serialize: Hash}
`)
	s := tables["Setting"]
	assert.Equal(t, "key", s.PrimaryKey)
	key, _ := s.Column("key")
	assert.True(t, key.PrimaryKey)
	value, _ := s.Column("value")
	assert.Equal(t, "Hash", value.SerializedAs)
}

func TestTables_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"no name", "models:\n  - table: users\n", "has no name"},
		{"duplicate", "models:\n  - name: User\n  - name: User\n", "declared twice"},
		{"no kind", "models:\n  - name: User\n    associations:\n      - class_name: Post\n", "exactly one of"},
		{"two kinds", "models:\n  - name: User\n    associations:\n      - {has_many: posts, has_one: post}\n", "exactly one of"},
		{"unknown parent", "models:\n  - name: Car\n    inherits: Vehicle\n", "unknown model Vehicle"},
		{"cycle", "models:\n  - name: A\n    inherits: B\n  - name: B\n    inherits: A\n", "inherits itself"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.doc).Tables()
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	m, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Models)

	_, err = Parse(strings.NewReader("models: [oops"))
	assert.True(t, errs.IsInvalidInput(err))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.True(t, errs.IsNotFound(err))
}

func TestProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yml")
	require.NoError(t, os.WriteFile(path, []byte(blogManifest), 0o644))

	p, err := Open(path)
	require.NoError(t, err)

	ctx := context.Background()
	models, err := p.Models(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Article", "Blog", "Foo", "SubArticle", "User"}, models)

	_, err = p.Table(ctx, "Comment")
	assert.True(t, errs.IsNotFound(err))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.Table(canceled, "User")
	assert.True(t, errs.IsTimeout(err))
}

func TestProvider_FeedsGenerator(t *testing.T) {
	p, err := NewProvider(parse(t, blogManifest))
	require.NoError(t, err)

	cat, failed, err := schema.LoadCatalog(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, failed)

	gen := schemainfo.New(cat, nil, schemainfo.GeneratorStyle(), nil)
	report := gen.Analyze(cat["SubArticle"])
	require.Len(t, report.Rows, 4)
	assert.Equal(t, ":blog => Blog#id and => (xxx_type)#id", report.Rows[3].References)
	assert.Equal(t, "Blog.has_many :sub_articles, foreign_key: :xxx_id", report.Diagnostics[0].Message)
}

func TestTables_ThroughHasNoForeignKey(t *testing.T) {
	const doc = `
models:
  - name: User
    columns:
      - {name: id, type: integer}
    associations:
      - has_many: comments
        through: articles
  - name: Comment
    columns:
      - {name: id, type: integer}
      - {name: user_id, type: integer}
    indexes:
      - {name: index_comments_on_user_id, columns: [user_id]}
    associations:
      - belongs_to: user
`
	p, err := NewProvider(parse(t, doc))
	require.NoError(t, err)
	cat, failed, err := schema.LoadCatalog(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, failed)

	assert.Equal(t, schema.HasMany{Decl: schema.Decl{
		Name: "comments", ClassName: "Comment",
	}, Through: "articles"}, cat["User"].Associations[0])

	report := schemainfo.New(cat, nil, schemainfo.GeneratorStyle(), nil).Analyze(cat["Comment"])
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, schemainfo.SeverityWarning, report.Diagnostics[0].Severity)
	assert.Equal(t,
		"[Warning: Missing relation] User model does not declare has_many :comments",
		report.Diagnostics[0].Message)
}
