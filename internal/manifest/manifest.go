// Package manifest reads the YAML model manifest: the list of models, the
// tables they map to and the associations they declare. It is the metadata
// source when no database is configured, and the source of associations
// when one is.
//
//	models:
//	  - name: User
//	    columns:
//	      - {name: id, type: integer, primary_key: true}
//	      - {name: name, type: string, limit: 32}
//	    indexes:
//	      - {name: index_users_on_name, columns: [name], unique: true}
//	    associations:
//	      - has_many: articles
//	  - name: SubArticle
//	    inherits: Article
//	    associations:
//	      - belongs_to: blog
//	        foreign_key: xxx_id
package manifest

import (
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/koustreak/aam/internal/errs"
)

// Manifest is the decoded document.
type Manifest struct {
	Models []Model `yaml:"models"`
}

// Model is one model entry. Every field except Name is optional; omitted
// values follow naming conventions.
type Model struct {
	Name              string        `yaml:"name"`
	Table             string        `yaml:"table"`
	PrimaryKey        string        `yaml:"primary_key"`
	InheritanceColumn string        `yaml:"inheritance_column"`
	Inherits          string        `yaml:"inherits"`
	Columns           []Column      `yaml:"columns"`
	Indexes           []Index       `yaml:"indexes"`
	Associations      []Association `yaml:"associations"`
}

// Column is one column entry. Nullable defaults to true except for the primary key.
type Column struct {
	Name       string  `yaml:"name"`
	Type       string  `yaml:"type"`
	Limit      *int    `yaml:"limit"`
	Precision  *int    `yaml:"precision"`
	Scale      *int    `yaml:"scale"`
	Nullable   *bool   `yaml:"nullable"`
	Default    *string `yaml:"default"`
	PrimaryKey bool    `yaml:"primary_key"`
	Serialize  string  `yaml:"serialize"`
}

// Index is one index entry, in discovery order.
type Index struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
}

// Association is one declaration. Exactly one of BelongsTo, HasMany and
// HasOne names the association; the key used selects the kind.
type Association struct {
	BelongsTo   string `yaml:"belongs_to"`
	HasMany     string `yaml:"has_many"`
	HasOne      string `yaml:"has_one"`
	ClassName   string `yaml:"class_name"`
	ForeignKey  string `yaml:"foreign_key"`
	Polymorphic bool   `yaml:"polymorphic"`
	As          string `yaml:"as"`
	Through     string `yaml:"through"`
}

// Parse decodes a manifest document. An empty document is an empty manifest.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.NewDecoder(r).Decode(m); err != nil && err != io.EOF {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid model manifest", err)
	}
	return m, nil
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindNotFound, "open model manifest "+path, err)
	}
	defer f.Close()
	return Parse(f)
}
