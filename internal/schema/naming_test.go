package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnderscore(t *testing.T) {
	tests := map[string]string{
		"User":        "user",
		"SubArticle":  "sub_article",
		"Admin::User": "admin/user",
		"HTMLParser":  "html_parser",
		"Item2Tag":    "item2_tag",
		"ABCParser":   "abc_parser",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Underscore(in))
		})
	}
}

func TestCamelize(t *testing.T) {
	assert.Equal(t, "SubArticle", Camelize("sub_article"))
	assert.Equal(t, "Admin::User", Camelize("admin/user"))
	assert.Equal(t, "Blog", Camelize("blog"))
	assert.Equal(t, "ApiKey", Camelize("api_key"))
}

func TestInflections(t *testing.T) {
	assert.Equal(t, "articles", Pluralize("article"))
	assert.Equal(t, "people", Pluralize("person"))
	assert.Equal(t, "sub_article", Singularize("sub_articles"))

	assert.Equal(t, "sub_articles", TableName("SubArticle"))
	assert.Equal(t, "admin_users", TableName("Admin::User"))

	assert.Equal(t, "user_id", ForeignKeyFor("User"))
	assert.Equal(t, "user_id", ForeignKeyFor("Admin::User"))
	assert.Equal(t, "sub_article_id", ForeignKeyFor("SubArticle"))
}
