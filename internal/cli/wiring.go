package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/aam/internal/config"
	"github.com/koustreak/aam/internal/database"
	"github.com/koustreak/aam/internal/database/mysql"
	"github.com/koustreak/aam/internal/database/postgres"
	"github.com/koustreak/aam/internal/filestore"
	"github.com/koustreak/aam/internal/filestore/minio"
	"github.com/koustreak/aam/internal/logger"
	"github.com/koustreak/aam/internal/manifest"
	"github.com/koustreak/aam/internal/schema"
	"github.com/koustreak/aam/internal/translate"
)

// app holds what every command needs, built from one configuration.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	provider schema.Provider
	tr       translate.Translator
	closers  []func()
}

// close releases connections in reverse order of opening.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// loadConfig reads the configuration with the flags the user set applied
// on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		switch f.Value.Type() {
		case "bool":
			v, _ := flags.GetBool(name)
			overrides[key] = v
		case "int":
			v, _ := flags.GetInt(name)
			overrides[key] = v
		default:
			overrides[key] = f.Value.String()
		}
	}
	file, _ := flags.GetString("config")
	return config.Load(config.Options{File: file, Overrides: overrides})
}

// setup loads the configuration and opens the provider.
func setup(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	a := &app{cfg: cfg, log: logger.New(lc)}

	if cfg.Translations != "" {
		dict, err := translate.LoadDictionary(cfg.Translations)
		if err != nil {
			return nil, err
		}
		a.tr = dict
	}

	declared, err := manifest.Open(cfg.Manifest)
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", cfg.Manifest, err)
	}
	a.provider = declared

	if cfg.Database.Driver == "" {
		return a, nil
	}
	if err := a.openDatabase(ctx, declared); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// openDatabase switches the provider to live introspection.
func (a *app) openDatabase(ctx context.Context, declared schema.Provider) error {
	dc, err := a.cfg.DatabaseConfig()
	if err != nil {
		return err
	}

	var inspector schema.Introspector
	switch dc.Driver {
	case database.DriverPostgres:
		db, err := postgres.New(ctx, dc)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		inspector = schema.NewPgIntrospector(db)
	case database.DriverMySQL:
		db, err := mysql.New(ctx, dc)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		inspector = schema.NewMySQLIntrospector(db)
	}

	live := schema.NewIntrospected(declared, inspector, dc.Schema)
	a.provider = live
	a.log.With().Str("driver", string(dc.Driver)).Logger().Debug("introspecting live database")

	unmapped, err := live.Unmapped(ctx)
	if err != nil {
		a.log.DebugErr("list unmapped tables", err)
		return nil
	}
	for _, t := range unmapped {
		a.log.Infof("table %s has no model in the manifest", t)
	}
	return nil
}

// openStore opens the configured export sink.
func (a *app) openStore(ctx context.Context) (filestore.Store, error) {
	fc, err := a.cfg.ExportConfig()
	if err != nil {
		return nil, err
	}
	if fc.Provider == filestore.ProviderMinIO {
		d, err := minio.New(ctx, fc)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	s, err := filestore.NewLocal(fc)
	if err != nil {
		return nil, err
	}
	return s, nil
}
