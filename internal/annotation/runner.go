// Package annotation runs the generator over every model of a provider and
// writes the blocks where developers read them: at the top of each model's
// source files and in one schema_info.txt export.
//
// Usage:
//
//	r := annotation.NewRunner(provider, dict, opts, schemainfo.GeneratorStyle(), log)
//	batch, err := r.Analyze(ctx)
//	if err != nil { ... }
//	counts := r.Annotate(ctx, batch)
package annotation

import (
	"context"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/koustreak/aam/internal/errs"
	"github.com/koustreak/aam/internal/logger"
	"github.com/koustreak/aam/internal/schema"
	"github.com/koustreak/aam/internal/schemainfo"
	"github.com/koustreak/aam/internal/translate"
)

// Options controls one run.
type Options struct {
	// RootDir is searched for the files of each model.
	RootDir string

	// Models is a comma separated filter; empty means every model.
	Models string

	// DryRun reports what would be written without touching any file.
	DryRun bool

	// Concurrency bounds parallel table analyses. Zero means GOMAXPROCS.
	Concurrency int
}

// Counts tallies file outcomes the way the summary line prints them.
type Counts struct {
	Success int `json:"success"`
	Skip    int `json:"skip"`
	Error   int `json:"error"`
}

// Add accumulates o into c.
func (c *Counts) Add(o Counts) {
	c.Success += o.Success
	c.Skip += o.Skip
	c.Error += o.Error
}

// Batch is the result of analysing every selected model.
type Batch struct {
	// Reports are in model order.
	Reports []*schemainfo.Report

	// Failed holds the models whose table could not be built.
	Failed map[string]error
}

// FailedModels returns the failed model names, sorted.
func (b *Batch) FailedModels() []string {
	names := make([]string, 0, len(b.Failed))
	for m := range b.Failed {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}

// Runner ties a provider to a generator.
type Runner struct {
	provider schema.Provider
	tr       translate.Translator
	opts     Options
	style    schemainfo.Options
	log      *logger.Logger
}

// NewRunner creates a Runner. A nil logger discards output.
func NewRunner(p schema.Provider, tr translate.Translator, opts Options, style schemainfo.Options, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{provider: p, tr: tr, opts: opts, style: style, log: log}
}

// Analyze loads the catalog and renders a report per selected model. The
// catalog always holds every model so associations to filtered-out models
// still resolve.
func (r *Runner) Analyze(ctx context.Context) (*Batch, error) {
	catalog, failed, err := schema.LoadCatalog(ctx, r.provider)
	if err != nil {
		return nil, err
	}
	for m, ferr := range failed {
		r.log.With().Str("model", m).Err(ferr).Logger().Warn("table skipped")
	}

	models, err := r.provider.Models(ctx)
	if err != nil {
		return nil, err
	}
	models = MatchModels(models, r.opts.Models)

	gen := schemainfo.New(catalog, r.tr, r.style, r.log)
	reports := make([]*schemainfo.Report, len(models))

	limit := r.opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, m := range models {
		t, ok := catalog[m]
		if !ok {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errs.Wrap(errs.ErrKindTimeout, "analyze "+m, err)
			}
			reports[i] = gen.Analyze(t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &Batch{Failed: make(map[string]error)}
	for i, m := range models {
		if reports[i] != nil {
			batch.Reports = append(batch.Reports, reports[i])
			continue
		}
		if ferr, ok := failed[m]; ok {
			batch.Failed[m] = ferr
		}
	}
	return batch, nil
}

// Annotate writes each report into the files that belong to its model.
// Files are patched one at a time in model order; a file shared by two
// models ends up with the later model's block. Failed models count as
// errors.
func (r *Runner) Annotate(ctx context.Context, b *Batch) (Counts, error) {
	var counts Counts
	counts.Error += len(b.Failed)

	idx, err := Scan(r.opts.RootDir)
	if err != nil {
		return counts, errs.Wrap(errs.ErrKindInvalidInput, "scan "+r.opts.RootDir, err)
	}
	patcher := NewPatcher(r.style.Marker)

	for _, rep := range b.Reports {
		if err := ctx.Err(); err != nil {
			return counts, errs.Wrap(errs.ErrKindTimeout, "annotate", err)
		}
		log := r.log.With().Str("model", rep.Model).Logger()
		for _, path := range idx.FilesFor(rep.Model) {
			counts.Add(r.annotateFile(patcher, path, rep.Text, log))
		}
	}
	return counts, nil
}

func (r *Runner) annotateFile(p *Patcher, path, block string, log *logger.Logger) Counts {
	body, err := os.ReadFile(path)
	if err != nil {
		log.ErrorWith("read failed", err, map[string]any{"file": path})
		return Counts{Error: 1}
	}
	patched := p.Patch(string(body), block)
	if patched == string(body) {
		log.Debugf("up to date: %s", path)
		return Counts{Skip: 1}
	}
	if !r.opts.DryRun {
		if err := writeFile(path, []byte(patched)); err != nil {
			log.ErrorWith("write failed", err, map[string]any{"file": path})
			return Counts{Error: 1}
		}
	}
	log.Infof("write: %s", path)
	return Counts{Success: 1}
}

// writeFile replaces path keeping its permissions.
func writeFile(path string, data []byte) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, fi.Mode().Perm())
}
