package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/dsxform/internal/analytics"
	"github.com/alexisbeaulieu97/dsxform/internal/app/session"
	s3store "github.com/alexisbeaulieu97/dsxform/internal/blob/s3"
	"github.com/alexisbeaulieu97/dsxform/internal/config"
	"github.com/alexisbeaulieu97/dsxform/internal/dataset"
	"github.com/alexisbeaulieu97/dsxform/internal/dialogs"
	"github.com/alexisbeaulieu97/dsxform/internal/journal"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
	"github.com/alexisbeaulieu97/dsxform/internal/metrics"
	"github.com/alexisbeaulieu97/dsxform/internal/plugins"
	"github.com/alexisbeaulieu97/dsxform/internal/transform"
)

// appContext bundles the long-lived services a command needs.
type appContext struct {
	cfg     *config.Config
	log     *logger.Logger
	env     transform.StaticEnvironment
	plugins *plugins.Registry
	source  transform.PluginSource
	actions *transform.Registry
	metrics *metrics.Recorder
	events  *analytics.Publisher
	clicks  analytics.Subscription
	journal *journal.Journal
	catalog *dialogs.Catalog

	logFile *os.File
}

type appOptions struct {
	// interactive discards logs unless a log file is configured, since the
	// menu owns the terminal.
	interactive bool
}

func newAppContext(cmd *cobra.Command, flags *rootFlags, opts appOptions) (*appContext, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, newCommandError("load configuration", valueOrFallback(flags.configPath, "(defaults)"), err,
			"Check the YAML syntax and field values of the config file")
	}

	app := &appContext{cfg: cfg}
	if err := app.initLogger(cmd.ErrOrStderr(), flags, opts); err != nil {
		return nil, err
	}

	mode := cfg.Environment
	if flags.environment != "" {
		mode = flags.environment
	}
	if app.env, err = resolveEnvironment(mode); err != nil {
		app.Close()
		return nil, newCommandError("resolve environment", mode, err, "Use --env auto, --env desktop or --env web")
	}

	app.plugins = plugins.NewRegistry(app.log.With("component", "plugins"))
	for _, m := range cfg.Plugins.Entries {
		if err := app.plugins.Register(m); err != nil {
			app.Close()
			return nil, newCommandError("register plugin", m.Name, err, "Fix the plugins.entries item in the config file")
		}
	}
	app.source = plugins.Chain(app.plugins, plugins.NewDirSource(cfg.Plugins.Dir, app.log.With("component", "plugins")))

	if app.actions, err = transform.NewRegistry(cfg.Actions.Overrides); err != nil {
		app.Close()
		return nil, newCommandError("load action overrides", "actions.overrides", err,
			"Run 'dsxform actions' to list the valid action ids")
	}

	app.metrics = metrics.NewRecorder()
	app.events = analytics.NewPublisher(app.log.With("component", "analytics"))
	app.clicks = app.events.Subscribe(transform.ButtonClickedEvent, app.metrics.HandleEvent)

	if !cfg.Journal.Disabled {
		path := cfg.Journal.Path
		if path == "" {
			if path, err = journal.DefaultPath(); err != nil {
				app.Close()
				return nil, fmt.Errorf("failed to determine journal path: %w", err)
			}
		}
		if app.journal, err = journal.Open(path, cfg.Journal.Limit); err != nil {
			app.Close()
			return nil, newCommandError("open journal", path, err,
				"Remove the corrupt journal file or set journal.disabled: true")
		}
	}

	var uploader dialogs.Uploader
	if cfg.Transforms.Upload.Bucket != "" {
		store, err := s3store.New(cmd.Context(), cfg.Transforms.Upload, s3store.Options{})
		if err != nil {
			app.Close()
			return nil, newCommandError("configure upload store", cfg.Transforms.Upload.Bucket, err,
				"Check transforms.upload and the AWS credentials in your environment")
		}
		uploader = store
	}

	app.catalog = dialogs.NewCatalog(dialogs.Options{
		Transforms: cfg.Transforms,
		Uploader:   uploader,
		HTTPClient: &http.Client{},
		Extractor: dialogs.FFmpegExtractor{
			Binary:  cfg.Transforms.VideoFrames.FFmpeg,
			Timeout: cfg.Transforms.VideoFrames.Timeout,
		},
		Runner: plugins.NewRunner(app.log.With("component", "plugins")),
		Logger: app.log.With("component", "dialogs"),
	})

	return app, nil
}

func (a *appContext) initLogger(stderr io.Writer, flags *rootFlags, opts appOptions) error {
	level := a.cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}

	path := flags.logFile
	if path == "" {
		path = a.cfg.Log.File
	}

	var writer io.Writer = stderr
	human := a.cfg.Log.Human
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return newCommandError("open log file", path, err, "Check that the directory exists and is writable")
		}
		a.logFile = f
		writer = f
	case opts.interactive:
		a.log = logger.Discard()
		return nil
	default:
		human = human || supportsUnicode(stderr)
		if !flags.verbose && level == "info" {
			// Command output goes to stdout; keep stderr for problems.
			level = "warn"
		}
	}

	log, err := logger.New(logger.Options{Level: level, HumanReadable: human, Writer: writer})
	if err != nil {
		return newCommandError("configure logging", level, err, "Use one of debug, info, warn or error for log.level")
	}
	a.log = log
	return nil
}

// openSession loads the dataset at path, attaching git history when enabled.
func (a *appContext) openSession(path string) (*session.Session, error) {
	var history *dataset.History
	if a.cfg.History.Enabled {
		h, err := dataset.OpenHistory(path, dataset.HistoryOptions{
			Init:        a.cfg.History.Init,
			AuthorName:  a.cfg.History.AuthorName,
			AuthorEmail: a.cfg.History.AuthorEmail,
		})
		if err != nil {
			return nil, newCommandError("open dataset history", path, err,
				"Run 'git init' in the dataset directory or set history.init: true")
		}
		history = h
	}

	store, err := dataset.NewStore(path, dataset.StoreOptions{History: history, Logger: a.log})
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(store, session.Options{Journal: a.journal, Metrics: a.metrics, Logger: a.log})
	if err != nil {
		return nil, newCommandError("open dataset", path, err, "Check that the file exists and is valid JSON or YAML")
	}
	return sess, nil
}

func (a *appContext) newPage(sess *session.Session) (*transform.Page, error) {
	return transform.NewPage(transform.PageOptions{
		Registry:  a.actions,
		Source:    a.source,
		Env:       a.env,
		Owner:     sess,
		DialogIDs: a.catalog.IDs(),
		Tracker:   a.events,
		Logger:    a.log.With("component", "menu"),
	})
}

// serveMetrics exposes metrics in the background when metrics.addr is set.
func (a *appContext) serveMetrics(ctx context.Context) {
	if a.cfg.Metrics.Addr == "" {
		return
	}
	go func() {
		if err := a.metrics.Serve(ctx, a.cfg.Metrics.Addr, a.log); err != nil {
			a.log.Error(err, "metrics server stopped")
		}
	}()
}

func (a *appContext) Close() {
	if a.clicks != nil {
		a.clicks.Unsubscribe()
		a.clicks = nil
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func valueOrFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
