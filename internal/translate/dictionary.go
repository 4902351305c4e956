package translate

import (
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/koustreak/aam/internal/errs"
	"github.com/koustreak/aam/internal/schema"
)

// Dictionary is a Translator loaded from YAML:
//
//	models:
//	  sub_article: Sub-article
//	attributes:
//	  user_id: Author
//	model_attributes:
//	  article:
//	    title: Headline
//
// Model-scoped attributes win over global ones.
type Dictionary struct {
	Models          map[string]string            `yaml:"models"`
	Attributes      map[string]string            `yaml:"attributes"`
	ModelAttributes map[string]map[string]string `yaml:"model_attributes"`
}

// ParseDictionary decodes a dictionary document.
func ParseDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{}
	if err := yaml.NewDecoder(r).Decode(d); err != nil && err != io.EOF {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid translation dictionary", err)
	}
	return d, nil
}

// LoadDictionary reads a dictionary file.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindNotFound, "open translation dictionary "+path, err)
	}
	defer f.Close()
	return ParseDictionary(f)
}

// Attribute implements Translator.
func (d *Dictionary) Attribute(model, attr string) (string, bool) {
	if scoped, ok := d.ModelAttributes[schema.Underscore(model)]; ok {
		if v, ok := scoped[attr]; ok {
			return v, true
		}
	}
	v, ok := d.Attributes[attr]
	return v, ok
}

// Model implements Translator. model is the underscored model name.
func (d *Dictionary) Model(model string) (string, bool) {
	v, ok := d.Models[model]
	return v, ok
}
