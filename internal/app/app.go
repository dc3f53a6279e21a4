package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/specialistvlad/dagselect/internal/config"
	"github.com/specialistvlad/dagselect/internal/ctxlog"
	"github.com/specialistvlad/dagselect/internal/executor"
	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/methods"
	"github.com/specialistvlad/dagselect/internal/selection"
	"github.com/specialistvlad/dagselect/internal/selectors"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW         io.Writer
	logger       *slog.Logger
	invocationID string
	config       *Config

	project   *config.Project
	graph     *graph.Index
	selectors *selectors.Store
	evaluator *selection.Evaluator
	handlers  *executor.Handlers
}

// Option customizes an App during construction.
type Option func(*App)

// WithHandlers replaces the executor handlers used by Run and Test.
func WithHandlers(h *executor.Handlers) Option {
	return func(a *App) { a.handlers = h }
}

// NewApp loads the project through loader, builds its graph, and loads the
// selectors file. Command output goes to outW and logs go to logW. Every
// load failure is returned as a *LoadError.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger, invocationID := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:         outW,
		logger:       logger,
		invocationID: invocationID,
		config:       cfg,
		handlers:     executor.DefaultHandlers(),
	}
	for _, opt := range opts {
		opt(a)
	}

	project, err := loader.Load(ctx, cfg.ProjectDir)
	if err != nil {
		return nil, &LoadError{What: "project", Err: err}
	}
	logger.Debug("Project loaded.", "project", project.Name, "nodes", len(project.Nodes), "files", len(project.Files))

	idx, err := graph.NewBuilder().AddNodes(project.Nodes...).Build()
	if err != nil {
		return nil, &LoadError{What: "graph", Err: err}
	}
	logger.Debug("Dependency graph built.", "node_count", idx.Len())

	store, err := loadSelectors(ctx, cfg)
	if err != nil {
		return nil, &LoadError{What: "selectors", Err: err}
	}

	a.project = project
	a.graph = idx
	a.selectors = store
	a.evaluator = selection.NewEvaluator(idx, methods.Default())
	return a, nil
}

func loadSelectors(ctx context.Context, cfg *Config) (*selectors.Store, error) {
	logger := ctxlog.FromContext(ctx)
	path, explicit := cfg.selectorsFile()

	store, err := selectors.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No selectors file found, continuing without selectors.", "path", path)
			return selectors.Empty(), nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("Selectors loaded.", "path", path, "count", store.Len())
	return store, nil
}

// Graph returns the project's graph index.
func (a *App) Graph() *graph.Index {
	return a.graph
}

// Project returns the loaded project.
func (a *App) Project() *config.Project {
	return a.project
}

// Selectors returns the loaded selector definitions.
func (a *App) Selectors() *selectors.Store {
	return a.selectors
}

// InvocationID identifies this App in its log lines.
func (a *App) InvocationID() string {
	return a.invocationID
}

func (a *App) context(ctx context.Context, command string) context.Context {
	return ctxlog.WithLogger(ctx, a.logger.With("command", command))
}
