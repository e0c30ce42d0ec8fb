package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/promptguide/internal/catalog"
	"github.com/roach88/promptguide/internal/config"
	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/ir"
	"github.com/roach88/promptguide/internal/query"
	"github.com/roach88/promptguide/internal/store"
)

// env is everything a browsing command needs.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	ctrl     *engine.Controller
	closeLog func()
}

// Close releases the store and flushes the logger.
func (e *env) Close() error {
	_ = e.logger.Sync()
	err := e.store.Close()
	e.closeLog()
	return err
}

// loadConfig reads the config file and applies flag overrides.
func (opts *RootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}

	if opts.DB != "" {
		cfg.Database = opts.DB
	}
	if opts.Catalog != "" {
		cfg.Catalog = opts.Catalog
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a JSON zap logger at the configured level.
//
// Logs go to cfg.LogFile when set, otherwise to sink. A nil sink with no
// log file disables logging, which is what the TUI wants.
func newLogger(cfg *config.Config, sink io.Writer) (*zap.Logger, func(), error) {
	var ws zapcore.WriteSyncer
	closeFn := func() {}

	switch {
	case cfg.LogFile != "":
		out, closeOut, err := zap.Open(cfg.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		ws, closeFn = out, closeOut
	case sink != nil:
		ws = zapcore.AddSync(sink)
	default:
		return zap.NewNop(), closeFn, nil
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, cfg.Level())
	return zap.New(core), closeFn, nil
}

// loadCatalog returns the configured catalog, or the built-in one.
func loadCatalog(cfg *config.Config) (*ir.Catalog, error) {
	if cfg.Catalog != "" {
		return catalog.LoadFile(cfg.Catalog)
	}
	return catalog.Load()
}

// openEnv loads config, logger, catalog and store and builds the
// controller. On failure the error has already been reported through f.
func (opts *RootOptions) openEnv(ctx context.Context, f *OutputFormatter, logSink io.Writer, extra ...engine.Option) (*env, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	logger, closeLog, err := newLogger(cfg, logSink)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		closeLog()
		return nil, f.Fail(ExitCommandError, ErrCodeCatalog, err.Error(), nil)
	}
	f.VerboseLog("Loaded catalog with %d techniques", query.CountTechniques(cat))

	st, err := store.Open(cfg.Database)
	if err != nil {
		closeLog()
		return nil, f.Fail(ExitCommandError, ErrCodeStore, err.Error(), map[string]string{"database": cfg.Database})
	}
	f.VerboseLog("Opened database %s", cfg.Database)

	engineOpts := []engine.Option{engine.WithLogger(logger)}
	if cfg.DefaultCategory != "" {
		engineOpts = append(engineOpts, engine.WithDefaultCategory(cfg.DefaultCategory))
	}
	if cfg.Seed != 0 {
		engineOpts = append(engineOpts, engine.WithRNG(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1))))
	}
	engineOpts = append(engineOpts, extra...)

	ctrl, err := engine.New(ctx, cat, st, engineOpts...)
	if err != nil {
		st.Close()
		closeLog()
		if errors.Is(err, query.ErrCatalogTooSmall) {
			return nil, f.Fail(ExitCommandError, ErrCodeQuizUnavailable, err.Error(), nil)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeCatalog, err.Error(), nil)
	}

	return &env{cfg: cfg, logger: logger, store: st, ctrl: ctrl, closeLog: closeLog}, nil
}

// openStore loads config and opens the preference store without building a
// controller. On failure the error has already been reported through f.
func (opts *RootOptions) openStore(f *OutputFormatter) (*store.Store, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, err.Error(), map[string]string{"database": cfg.Database})
	}
	f.VerboseLog("Opened database %s", cfg.Database)
	return st, nil
}

// dispatch applies ev and maps a rejection to a CLI error.
func (e *env) dispatch(ctx context.Context, f *OutputFormatter, ev engine.Event) error {
	err := e.ctrl.Dispatch(ctx, ev)
	if err == nil {
		return nil
	}

	code := ErrCodeGeneric
	switch engine.CodeOf(err) {
	case engine.ErrCodeUnknownCategory:
		code = ErrCodeUnknownCategory
	case engine.ErrCodeUnknownTechnique:
		code = ErrCodeUnknownTechnique
	case engine.ErrCodeQuizUnavailable:
		code = ErrCodeQuizUnavailable
	}
	return f.Fail(ExitCommandError, code, err.Error(), map[string]string{"event": ev.String()})
}
