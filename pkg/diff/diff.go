// Package diff runs the full schema diff pipeline: detection, classification,
// optional post-processing rules, the interceptor hook, conclusion resolution
// and source line annotation.
package diff

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/cameron-headspace/graphql-inspector/pkg/check"
	"github.com/cameron-headspace/graphql-inspector/pkg/compatibility"
	"github.com/cameron-headspace/graphql-inspector/pkg/interceptor"
	"github.com/cameron-headspace/graphql-inspector/pkg/observability"
	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
	"github.com/cameron-headspace/graphql-inspector/pkg/sdl"
)

var (
	tracer = otel.Tracer("graphql-inspector/diff")
	meter  = otel.Meter("graphql-inspector/diff")

	diffCounter   = newCounter("graphql_inspector.diffs", "Completed schema diffs by conclusion", "{diff}")
	changeCounter = newCounter("graphql_inspector.diff.changes", "Changes reported by schema diffs by criticality", "{change}")
)

// newCounter falls back to a no-op instrument so recording never fails
func newCounter(name, description, unit string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return noop.Int64Counter{}
	}
	return counter
}

// Input is one diff invocation
type Input struct {
	// Sources is the schema text, used only to locate lines
	Sources schema.SourcePair
	// Snapshot holds the parsed type systems
	Snapshot schema.Snapshot
	// InterceptorURL enables the HTTP interceptor when Options.Interceptor is nil
	InterceptorURL string
	// Path is copied verbatim into every annotation
	Path string
}

// Options tunes a diff. The zero value is usable.
type Options struct {
	Logger  logrus.FieldLogger
	Metrics *observability.Metrics

	// Interceptor takes precedence over Input.InterceptorURL
	Interceptor        interceptor.Interceptor
	InterceptorTimeout time.Duration

	// Rules names post-processing rules looked up in Registry
	Rules    []string
	Registry *compatibility.RuleRegistry

	Policy      check.Policy
	Concurrency int
}

// Result is the outcome of a diff. Annotations[i] describes Changes[i].
type Result struct {
	Changes     []compatibility.Change `json:"changes"`
	Annotations []check.Annotation     `json:"annotations"`
	Conclusion  check.Conclusion       `json:"conclusion"`
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger == nil {
		return observability.NewDiscardLogger()
	}
	return o.Logger
}

// Diff compares the snapshot in input and returns the annotated result.
// Interceptor failures are logged and ignored. The only errors are
// cancellation of ctx and unknown rule names.
func Diff(ctx context.Context, input Input, opts Options) (*Result, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "diff.Diff")
	defer span.End()
	span.SetAttributes(attribute.String("diff.path", input.Path))

	result, err := run(ctx, input, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "diff failed")
		return nil, err
	}

	levels := make([]string, len(result.Changes))
	for i, c := range result.Changes {
		levels[i] = string(c.Criticality.Level)
	}
	opts.Metrics.ObserveDiff(string(result.Conclusion), levels, time.Since(start))
	diffCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("conclusion", string(result.Conclusion))))
	for _, level := range levels {
		changeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("criticality", level)))
	}

	span.SetAttributes(
		attribute.Int("diff.changes", len(result.Changes)),
		attribute.String("diff.conclusion", string(result.Conclusion)),
	)
	observability.WithTraceContext(ctx, opts.logger()).WithFields(logrus.Fields{
		"path":       input.Path,
		"changes":    len(result.Changes),
		"conclusion": result.Conclusion,
	}).Debug("Schema diff finished")

	return result, nil
}

func run(ctx context.Context, input Input, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var compareOpts []compatibility.ComparatorOption
	if opts.Concurrency > 0 {
		compareOpts = append(compareOpts, compatibility.WithConcurrency(opts.Concurrency))
	}
	changes, err := compatibility.NewComparator(input.Snapshot.Old, input.Snapshot.New, compareOpts...).Compare(ctx)
	if err != nil {
		return nil, err
	}

	if len(opts.Rules) > 0 {
		registry := opts.Registry
		if registry == nil {
			registry = compatibility.NewRuleRegistry()
		}
		changes, err = registry.Apply(opts.Rules, changes, input.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to apply rules: %w", err)
		}
	}

	changes, conclusion, err := intercept(ctx, input, opts, changes)
	if err != nil {
		return nil, err
	}
	if conclusion == "" {
		conclusion = check.Resolve(changes, opts.Policy)
	}

	if changes == nil {
		changes = []compatibility.Change{}
	}
	locator := sdl.NewPairLocator(input.Sources)
	annotations := make([]check.Annotation, len(changes))
	for i, c := range changes {
		annotations[i] = check.NewAnnotation(c, input.Path, locator.Line(c.Path))
	}

	return &Result{
		Changes:     changes,
		Annotations: annotations,
		Conclusion:  conclusion,
	}, nil
}

// intercept runs the configured interceptor. A failed call keeps the changes
// as they were and leaves the conclusion to be derived.
func intercept(ctx context.Context, input Input, opts Options, changes []compatibility.Change) ([]compatibility.Change, check.Conclusion, error) {
	ic := opts.Interceptor
	if ic == nil && input.InterceptorURL != "" {
		ic = interceptor.NewHTTPInterceptor(input.InterceptorURL, interceptor.WithTimeout(opts.InterceptorTimeout))
	}
	if ic == nil {
		return changes, "", nil
	}

	start := time.Now()
	result, err := ic.Intercept(ctx, append([]compatibility.Change(nil), changes...))
	if ctxErr := ctx.Err(); ctxErr != nil {
		opts.Metrics.ObserveInterceptor(observability.InterceptorCanceled, time.Since(start))
		return nil, "", ctxErr
	}
	if err != nil {
		opts.Metrics.ObserveInterceptor(observability.InterceptorError, time.Since(start))
		observability.WithTraceContext(ctx, opts.logger()).
			WithError(err).
			WithField("path", input.Path).
			Warn("Interceptor failed, keeping original changes")
		return changes, "", nil
	}
	opts.Metrics.ObserveInterceptor(observability.InterceptorOK, time.Since(start))

	if result == nil {
		return changes, "", nil
	}
	if result.Changes != nil {
		changes = result.Changes
	}
	return changes, result.Conclusion, nil
}

// FromSDL parses both documents and diffs them. Parse errors are returned
// wrapped with the side that failed.
func FromSDL(ctx context.Context, path, oldSDL, newSDL string, opts Options) (*Result, error) {
	sources := schema.SourcePair{
		Old: schema.Source{Name: path, Body: oldSDL},
		New: schema.Source{Name: path, Body: newSDL},
	}
	snapshot, err := schema.Load(sources)
	if err != nil {
		return nil, err
	}
	return Diff(ctx, Input{Sources: sources, Snapshot: snapshot, Path: path}, opts)
}
