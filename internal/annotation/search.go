package annotation

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/koustreak/aam/internal/schema"
)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// searchPatterns lists, relative to the root, where the files that belong
// to a model live, as doublestar patterns over slash separated paths.
func searchPatterns(model string) []string {
	name := schema.Underscore(model)
	paths := []string{
		"**/app/models/**/" + name + ".rb",
		"**/app/models/**/" + name + "_{search,observer,callback,sweeper}.rb",
		"**/test/unit/**/" + name + "_test.rb",
		"**/test/fixtures/**/" + schema.Pluralize(name) + ".yml",
		"**/test/unit/helpers/**/" + name + "_helper_test.rb",
		"**/spec/models/**/" + name + "_spec.rb",
		"**/{test,spec}/**/" + name + "_factory.rb",
	}
	for _, prefix := range []string{schema.Pluralize(name), schema.Singularize(name)} {
		paths = append(paths,
			"**/app/controllers/**/"+prefix+"_controller.rb",
			"**/app/helpers/**/"+prefix+"_helper.rb",
			"**/test/functional/**/"+prefix+"_controller_test.rb",
			"**/test/factories/**/"+prefix+"_factory.rb",
			"**/test/factories/**/"+prefix+".rb",
			"**/db/seeds/**/{[0-9]*_,}"+prefix+"_setup.rb",
			"**/db/seeds/**/{[0-9]*_,}"+prefix+"_seed.rb",
			"**/db/seeds/**/{[0-9]*_,}"+prefix+".rb",
			"**/db/migrate/*_{create,to,from}_"+prefix+".rb",
			"**/spec/**/"+prefix+"_{controller,helper}_spec.rb",
		)
	}
	return paths
}

// Index is the set of files below a root, walked once per run.
type Index struct {
	root  string
	files []string
}

// Scan walks root and records every regular file outside skipped
// directories.
func Scan(root string) (*Index, error) {
	idx := &Index{root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		idx.files = append(idx.files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(idx.files)
	return idx, nil
}

// FilesFor returns the absolute paths of the files that belong to model,
// sorted and without duplicates.
func (idx *Index) FilesFor(model string) []string {
	var patterns []string
	for _, p := range searchPatterns(model) {
		if doublestar.ValidatePattern(p) {
			patterns = append(patterns, p)
		}
	}

	var out []string
	for _, f := range idx.files {
		for _, p := range patterns {
			if doublestar.MatchUnvalidated(p, f) {
				out = append(out, filepath.Join(idx.root, filepath.FromSlash(f)))
				break
			}
		}
	}
	return out
}

// MatchModels applies a comma separated filter to models. Each term
// matches, case-insensitively, any model whose class or file name contains
// it. An empty filter keeps every model.
func MatchModels(models []string, filter string) []string {
	var terms []string
	for _, t := range strings.Split(filter, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return models
	}

	var out []string
	for _, m := range models {
		class := strings.ToLower(m)
		file := strings.ToLower(schema.Underscore(m))
		for _, t := range terms {
			if strings.Contains(class, strings.ToLower(schema.Camelize(t))) ||
				strings.Contains(file, strings.ToLower(schema.Underscore(t))) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
