package cli

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cameron-headspace/graphql-inspector/pkg/config"
	"github.com/cameron-headspace/graphql-inspector/pkg/observability"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the diff concluded failure
	ExitCommandError = 2 // bad input, unreadable files, server errors
)

// ExitError carries the process exit code for an error
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ErrCheckFailed is returned by diff when the conclusion is failure
var ErrCheckFailed = &ExitError{Code: ExitFailure, Err: errors.New("schema check failed")}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// RootOptions holds global flags for all commands
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "graphql-inspector",
		Short:         "Detect breaking changes between GraphQL schemas",
		Long:          "Compare two GraphQL SDL documents, classify every change and decide whether the new schema is safe to ship.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// load resolves configuration and builds the logger for a command
func (o *RootOptions) load(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(o.ConfigPath)
	if err != nil {
		return nil, nil, &ExitError{Code: ExitCommandError, Err: err}
	}
	if o.LogLevel != "" {
		cfg.Observability.LogLevel = o.LogLevel
	}
	return cfg, observability.NewLogger(cfg.Observability.LogLevel, cmd.ErrOrStderr()), nil
}

func commandError(format string, args ...interface{}) error {
	return &ExitError{Code: ExitCommandError, Err: fmt.Errorf(format, args...)}
}
