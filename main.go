// Command mdsite turns a set of Markdown documents into a static HTML site.
//
// With no flags it builds the documents in the current directory into
// ./docs_html and exits. -watch keeps rebuilding as sources change and -serve
// previews the result over HTTP. Every flag can also be set from the
// environment, for example SRC=docs or SERVE=:8080.
package main

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ancientlore/mdsite/site"
	"github.com/ancientlore/mdsite/watch"
	"github.com/ancientlore/mdsite/web"
	"github.com/facebookgo/flagenv"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// options are the command line settings.
type options struct {
	src     string
	config  string
	out     string
	engine  string
	watch   bool
	serve   string
	verbose bool
}

func main() {
	var o options
	flag.StringVar(&o.src, "src", ".", "Directory holding the Markdown sources.")
	flag.StringVar(&o.config, "config", "site.toml", "Site configuration, relative to -src. Optional.")
	flag.StringVar(&o.out, "out", "", "Output directory. Overrides the configured one.")
	flag.StringVar(&o.engine, "engine", "", "Markdown engine, regex or blackfriday. Overrides the configured one.")
	flag.BoolVar(&o.watch, "watch", false, "Rebuild when a source file changes.")
	flag.StringVar(&o.serve, "serve", "", "Serve the output on this address, for example :8080.")
	flag.BoolVar(&o.verbose, "verbose", false, "Log debug messages.")
	flag.Parse()
	flagenv.Parse()

	logger := setupLogger(o.verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, o, logger)
	stop()
	if err != nil {
		logger.Error("failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// setupLogger logs human readable lines to standard error.
func setupLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		&zapcore.BufferedWriteSyncer{WS: os.Stderr, FlushInterval: time.Second},
		level,
	))
	return logger.With(zap.String("run_id", uuid.NewString()))
}

// run builds the site once, then watches and serves it if asked to until
// ctx is done.
func run(ctx context.Context, o options, logger *zap.Logger) error {
	src := os.DirFS(o.src)

	cfg, err := loadConfig(src, o)
	if err != nil {
		return err
	}
	b, err := site.NewBuilder(cfg, src, outputDir(o, cfg), logger)
	if err != nil {
		return err
	}
	start := time.Now()
	res, err := b.Build(ctx)
	if err != nil {
		return err
	}
	logger.Debug("build finished", zap.Duration("elapsed", time.Since(start)))

	if !o.watch && o.serve == "" {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if o.watch {
		rebuild := func(ctx context.Context) error {
			next, err := loadConfig(src, o)
			if err != nil {
				return err
			}
			b, err := site.NewBuilder(next, src, outputDir(o, next), logger)
			if err != nil {
				return err
			}
			if _, err := b.Build(ctx); err != nil {
				return err
			}
			cfg = next
			return nil
		}
		match := func(name string) bool {
			return name == o.config || cfg.Watches(name)
		}
		w, err := watch.New(o.src, match, rebuild, logger)
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
	}
	if o.serve != "" {
		h := web.Handler(res.OutputDir, cfg.Serve)
		g.Go(func() error { return web.ListenAndServe(ctx, o.serve, h, logger) })
	}
	return g.Wait()
}

// loadConfig reads the configuration and applies the flag overrides.
func loadConfig(src fs.FS, o options) (*site.Config, error) {
	cfg, err := site.LoadConfig(src, o.config)
	if err != nil {
		return nil, err
	}
	if o.engine != "" {
		cfg.Engine = o.engine
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// outputDir is -out relative to the working directory, or else the
// configured output relative to the source directory.
func outputDir(o options, cfg *site.Config) string {
	if o.out != "" {
		return o.out
	}
	if filepath.IsAbs(cfg.Output) {
		return cfg.Output
	}
	return filepath.Join(o.src, filepath.FromSlash(cfg.Output))
}
