package schemainfo

import (
	"github.com/koustreak/aam/internal/schema"
)

func intp(n int) *int       { return &n }
func strp(s string) *string { return &s }

func pkColumn() schema.Column {
	return schema.Column{Name: "id", Type: "integer", PrimaryKey: true}
}

func fk(name string) schema.Column {
	return schema.Column{Name: name, Type: "integer", Nullable: true}
}

func typeCol(name string) schema.Column {
	return schema.Column{Name: name, Type: "string", Nullable: true}
}

func usersTable() *schema.Table {
	return &schema.Table{
		Name:       "users",
		Model:      "User",
		PrimaryKey: "id",
		Columns: []schema.Column{
			pkColumn(),
			{Name: "name", Type: "string", Limit: intp(32), Nullable: true},
			{Name: "flag", Type: "boolean", Nullable: true, Default: strp("f")},
		},
		Indexes: []schema.Index{{Name: "index_users_on_name", Columns: []string{"name"}, Unique: true}},
		Associations: []schema.Association{
			schema.HasMany{Decl: schema.Decl{Name: "articles", ClassName: "Article", ForeignKey: "user_id"}},
			schema.HasOne{Decl: schema.Decl{Name: "article", ClassName: "Article", ForeignKey: "xxx_id"}, As: "xxx"},
		},
	}
}

func articleColumns() []schema.Column {
	return []schema.Column{pkColumn(), fk("user_id"), typeCol("xxx_type"), fk("xxx_id")}
}

func articlesTable() *schema.Table {
	return &schema.Table{
		Name:       "articles",
		Model:      "Article",
		PrimaryKey: "id",
		Columns:    articleColumns(),
		Associations: []schema.Association{
			schema.BelongsTo{Decl: schema.Decl{Name: "user", ClassName: "User", ForeignKey: "user_id"}},
			schema.BelongsTo{Decl: schema.Decl{Name: "xxx", ForeignKey: "xxx_id"}, Polymorphic: true},
		},
	}
}

func blogsTable() *schema.Table {
	return &schema.Table{
		Name:       "blogs",
		Model:      "Blog",
		PrimaryKey: "id",
		Columns:    []schema.Column{pkColumn(), {Name: "name", Type: "string", Nullable: true}},
		Associations: []schema.Association{
			schema.HasMany{Decl: schema.Decl{
				Name: "sub_articles", ClassName: "SubArticle", ForeignKey: "xxx_id", ExplicitForeignKey: "xxx_id",
			}},
		},
	}
}

func subArticlesTable() *schema.Table {
	t := articlesTable()
	t.Model = "SubArticle"
	t.Associations = append(t.Associations, schema.BelongsTo{Decl: schema.Decl{
		Name: "blog", ClassName: "Blog", ForeignKey: "xxx_id", ExplicitForeignKey: "xxx_id",
	}})
	return t
}

func foosTable() *schema.Table {
	return &schema.Table{
		Name:       "foos",
		Model:      "Foo",
		PrimaryKey: "id",
		Columns:    articleColumns(),
	}
}

func catalog() schema.MapCatalog {
	return schema.NewCatalog(usersTable(), articlesTable(), blogsTable(), subArticlesTable(), foosTable())
}
