package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cameron-headspace/graphql-inspector/pkg/check"
	"github.com/cameron-headspace/graphql-inspector/pkg/diff"
	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

// Output formats
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatGitHub = "github"
)

// DiffOptions holds the diff command flags
type DiffOptions struct {
	Path               string
	Interceptor        string
	InterceptorTimeout time.Duration
	FailOnDangerous    bool
	Rules              []string
	Format             string
}

// NewDiffCommand creates the diff command
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <old-schema> <new-schema>",
		Short: "Compare two schema files",
		Long: `Compare two GraphQL SDL files and report every change with its criticality.

Exits with status 1 when a breaking change is found, or a dangerous change
with --fail-on-dangerous, unless an interceptor overrides the conclusion.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, rootOpts, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "file label used in annotations (default: the new schema path)")
	cmd.Flags().StringVar(&opts.Interceptor, "interceptor", "", "URL of an interceptor that may rewrite changes")
	cmd.Flags().DurationVar(&opts.InterceptorTimeout, "interceptor-timeout", 0, "interceptor call timeout")
	cmd.Flags().BoolVar(&opts.FailOnDangerous, "fail-on-dangerous", false, "treat dangerous changes as failures")
	cmd.Flags().StringArrayVar(&opts.Rules, "rule", nil, "post-processing rule to apply (repeatable)")
	cmd.Flags().StringVar(&opts.Format, "format", FormatText, "output format (text|json|github)")

	return cmd
}

func runDiff(cmd *cobra.Command, rootOpts *RootOptions, opts *DiffOptions, oldPath, newPath string) error {
	if !isValidFormat(opts.Format) {
		return commandError("invalid format %q: must be one of %v", opts.Format, validFormats)
	}

	cfg, logger, err := rootOpts.load(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("interceptor") {
		cfg.Diff.InterceptorURL = opts.Interceptor
	}
	if flags.Changed("interceptor-timeout") {
		cfg.Diff.InterceptorTimeout = opts.InterceptorTimeout
	}
	if flags.Changed("fail-on-dangerous") {
		cfg.Diff.FailOnDangerous = opts.FailOnDangerous
	}
	if flags.Changed("rule") {
		cfg.Diff.Rules = opts.Rules
	}
	if err := cfg.Validate(); err != nil {
		return commandError("%w", err)
	}

	label := opts.Path
	if label == "" {
		label = newPath
	}

	sources, err := readSources(oldPath, newPath, label)
	if err != nil {
		return err
	}
	snapshot, err := schema.Load(sources)
	if err != nil {
		return commandError("%w", err)
	}

	result, err := diff.Diff(cmd.Context(), diff.Input{
		Sources:        sources,
		Snapshot:       snapshot,
		InterceptorURL: cfg.Diff.InterceptorURL,
		Path:           label,
	}, diff.Options{
		Logger:             logger,
		InterceptorTimeout: cfg.Diff.InterceptorTimeout,
		Rules:              cfg.Diff.Rules,
		Policy:             check.Policy{FailOnDangerous: cfg.Diff.FailOnDangerous},
		Concurrency:        cfg.Diff.Concurrency,
	})
	if err != nil {
		return commandError("%w", err)
	}

	if err := writeResult(cmd.OutOrStdout(), opts.Format, result); err != nil {
		return commandError("failed to write output: %w", err)
	}

	if result.Conclusion == check.Failure {
		return ErrCheckFailed
	}
	return nil
}

func readSources(oldPath, newPath, label string) (schema.SourcePair, error) {
	oldBody, err := os.ReadFile(oldPath)
	if err != nil {
		return schema.SourcePair{}, commandError("failed to read old schema: %w", err)
	}
	newBody, err := os.ReadFile(newPath)
	if err != nil {
		return schema.SourcePair{}, commandError("failed to read new schema: %w", err)
	}
	return schema.SourcePair{
		Old: schema.Source{Name: oldPath, Body: string(oldBody)},
		New: schema.Source{Name: label, Body: string(newBody)},
	}, nil
}
