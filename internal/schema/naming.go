package schema

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Underscore converts a model name to its snake_case form:
// "SubArticle" -> "sub_article", "Admin::User" -> "admin/user".
func Underscore(name string) string {
	name = strings.ReplaceAll(name, "::", "/")
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '/' && runes[i-1] != '_' {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Camelize converts a snake_case name to a model name:
// "sub_article" -> "SubArticle".
func Camelize(name string) string {
	var b strings.Builder
	for _, seg := range strings.Split(name, "/") {
		if b.Len() > 0 {
			b.WriteString("::")
		}
		for _, part := range strings.Split(seg, "_") {
			if part == "" {
				continue
			}
			r := []rune(part)
			b.WriteRune(unicode.ToUpper(r[0]))
			b.WriteString(string(r[1:]))
		}
	}
	return b.String()
}

// Pluralize returns the plural of word ("article" -> "articles").
func Pluralize(word string) string {
	return inflection.Plural(word)
}

// Singularize returns the singular of word ("articles" -> "article").
func Singularize(word string) string {
	return inflection.Singular(word)
}

// TableName returns the conventional table name of a model.
func TableName(model string) string {
	return Pluralize(strings.ReplaceAll(Underscore(model), "/", "_"))
}

// ForeignKeyFor returns the conventional foreign key pointing at model:
// "User" -> "user_id".
func ForeignKeyFor(model string) string {
	u := Underscore(model)
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		u = u[i+1:]
	}
	return u + "_id"
}
