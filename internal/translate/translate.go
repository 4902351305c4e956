// Package translate turns column and model names into human labels.
//
// A Translator is an injected lookup service; Dictionary is the YAML-backed
// implementation the CLI uses. When no translation exists, labels fall back
// to Humanize.
package translate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/koustreak/aam/internal/schema"
)

// Translator looks up explicit translations. ok is false when none exists.
type Translator interface {
	Attribute(model, attr string) (label string, ok bool)
	Model(model string) (label string, ok bool)
}

// None is a Translator with no entries; every label is humanized.
type None struct{}

func (None) Attribute(string, string) (string, bool) { return "", false }
func (None) Model(string) (string, bool)             { return "", false }

// Suffix is a recognised column suffix and the label appended to a
// translated stem ("item_id" -> "<item label>ID").
type Suffix struct {
	Key   string
	Label string
	re    *regexp.Regexp
}

// NewSuffix builds a Suffix matching "<stem>_<key>".
func NewSuffix(key, label string) Suffix {
	return Suffix{Key: key, Label: label, re: regexp.MustCompile(`(\w+)_` + regexp.QuoteMeta(key) + `$`)}
}

// ColumnLabel returns the label for a column of model. For each suffix the
// column ends in, the full name is tried first, then the stem plus the
// suffix label. Without any translation the name is humanized.
func ColumnLabel(tr Translator, model, name string, suffixes []Suffix) string {
	for _, s := range suffixes {
		md := s.re.FindStringSubmatch(name)
		if md == nil {
			continue
		}
		if v, ok := lookup(tr, model, name); ok {
			return v
		}
		if v, ok := lookup(tr, model, md[1]); ok {
			return v + s.Label
		}
	}
	if v, ok := lookup(tr, model, name); ok {
		return v
	}
	return Humanize(name)
}

// ModelLabel returns the human name of a model.
func ModelLabel(tr Translator, model string) string {
	key := demodulize(schema.Underscore(model))
	if v, ok := tr.Model(key); ok && v != "" {
		return v
	}
	return Humanize(key)
}

func lookup(tr Translator, model, attr string) (string, bool) {
	v, ok := tr.Attribute(model, attr)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Humanize mirrors the usual ORM convention: leading underscores and a
// trailing "_id" are dropped, underscores become spaces, the result is
// lower-cased and its first letter capitalised.
// "xxx_type" -> "Xxx type", "user_id" -> "User", "id" -> "Id".
func Humanize(name string) string {
	s := strings.TrimLeft(name, "_")
	s = strings.TrimSuffix(s, "_id")
	s = strings.ToLower(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func demodulize(u string) string {
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		return u[i+1:]
	}
	return u
}
