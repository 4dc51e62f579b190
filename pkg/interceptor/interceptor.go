// Package interceptor lets an external service rewrite classified changes
// and override the check conclusion before annotations are built.
package interceptor

import (
	"context"

	"github.com/cameron-headspace/graphql-inspector/pkg/check"
	"github.com/cameron-headspace/graphql-inspector/pkg/compatibility"
)

// Result is what an interceptor returns. A nil Changes leaves the change list
// as it was; an empty non-nil slice replaces it with no changes. An empty
// Conclusion means the conclusion is derived from the final changes.
type Result struct {
	Changes    []compatibility.Change
	Conclusion check.Conclusion
}

// Interceptor rewrites changes between classification and annotation
type Interceptor interface {
	Intercept(ctx context.Context, changes []compatibility.Change) (*Result, error)
}

// Func adapts a function to the Interceptor interface
type Func func(ctx context.Context, changes []compatibility.Change) (*Result, error)

// Intercept calls f
func (f Func) Intercept(ctx context.Context, changes []compatibility.Change) (*Result, error) {
	return f(ctx, changes)
}

// Noop leaves every change and the conclusion untouched
var Noop Interceptor = Func(func(context.Context, []compatibility.Change) (*Result, error) {
	return &Result{}, nil
})
