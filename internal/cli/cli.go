package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/specialistvlad/dagselect/internal/app"
	"github.com/specialistvlad/dagselect/internal/graph"
	"github.com/specialistvlad/dagselect/internal/methods"
	"github.com/specialistvlad/dagselect/internal/selection"
	"github.com/specialistvlad/dagselect/internal/selectors"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	projectDir string
	selectors  string
	logLevel   string
	logFormat  string
	workers    int
}

// Execute runs the command line described by args. Command output goes to
// outW; logs and help for errors go to errW. Every failure is returned as
// an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return toExitError(err)
	}
	return nil
}

// NewRootCommand builds the dagselect command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "dagselect",
		Short: "Select, list, run, and test nodes of a project graph",
		Long: `dagselect loads an HCL project manifest and resolves selection
expressions and named selectors into the exact set of nodes to operate on,
including the tests attached to them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.projectDir, "project-dir", ".", "Directory containing the project's .hcl manifest files.")
	flags.StringVar(&opts.selectors, "selectors", "", "Path to the selectors YAML file (default <project-dir>/selectors.yml when present).")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Logging level: debug, info, warn, or error.")
	flags.StringVar(&opts.logFormat, "log-format", "auto", "Log output format: text, json, or auto (text on a terminal).")
	flags.IntVar(&opts.workers, "workers", 4, "Number of concurrent workers for run and test.")

	root.AddCommand(
		newListCommand(opts, outW, errW),
		newRunCommand(opts, outW, errW),
		newTestCommand(opts, outW, errW),
	)
	return root
}

// config validates the persistent flags into an app configuration.
func (o *globalOptions) config(errW io.Writer) (*app.Config, error) {
	format := strings.ToLower(o.logFormat)
	if format == "auto" {
		format = autoLogFormat(errW)
	}

	cfg, err := app.NewConfig(app.Config{
		ProjectDir:    o.projectDir,
		SelectorsPath: o.selectors,
		LogFormat:     format,
		LogLevel:      strings.ToLower(o.logLevel),
		WorkerCount:   o.workers,
	})
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return cfg, nil
}

// autoLogFormat picks text for terminals and json otherwise.
func autoLogFormat(w io.Writer) string {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "text"
	}
	return "json"
}

// toExitError maps application errors onto exit codes.
func toExitError(err error) *ExitError {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	var (
		usage           *app.UsageError
		load            *app.LoadError
		grammar         *selection.GrammarError
		unknownMethod   *methods.UnknownMethodError
		invalidValue    *methods.InvalidValueError
		unknownSelector *selectors.UnknownSelectorError
		definition      *selectors.SelectorDefinitionError
		construction    *graph.ConstructionError
	)
	switch {
	case errors.As(err, &usage),
		errors.As(err, &load),
		errors.As(err, &grammar),
		errors.As(err, &unknownMethod),
		errors.As(err, &invalidValue),
		errors.As(err, &unknownSelector),
		errors.As(err, &definition),
		errors.As(err, &construction):
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	case isCobraUsageError(err):
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	default:
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
}

// isCobraUsageError recognizes the argument errors cobra returns as plain
// errors.
func isCobraUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
