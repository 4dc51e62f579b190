package compatibility

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

// Comparator compares two type systems and reports every difference as a Change
type Comparator struct {
	oldSchema   *schema.TypeMap
	newSchema   *schema.TypeMap
	concurrency int
}

// ComparatorOption configures a Comparator
type ComparatorOption func(*Comparator)

// WithConcurrency bounds the number of definitions compared in parallel.
// Values below 1 keep the default of GOMAXPROCS.
func WithConcurrency(n int) ComparatorOption {
	return func(c *Comparator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewComparator creates a new comparator
func NewComparator(oldSchema, newSchema *schema.TypeMap, opts ...ComparatorOption) *Comparator {
	c := &Comparator{
		oldSchema:   oldSchema,
		newSchema:   newSchema,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Detect runs every rule and returns unclassified changes in contract order:
// schema roots first, then definitions in the new schema's declaration order,
// then definitions that exist only in the old schema, in the old order.
// The only error is cancellation of ctx.
func (c *Comparator) Detect(ctx context.Context) ([]Change, error) {
	changes := c.compareRoots()

	keys := c.definitionOrder()
	slots := make([][]Change, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = c.compareDefinition(key)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, slot := range slots {
		changes = append(changes, slot...)
	}
	return changes, nil
}

// Compare runs Detect and tags every change with its criticality
func (c *Comparator) Compare(ctx context.Context) ([]Change, error) {
	changes, err := c.Detect(ctx)
	if err != nil {
		return nil, err
	}
	return ClassifyAll(changes), nil
}

// CompareSnapshots is a helper that compares both sides of a snapshot
func CompareSnapshots(ctx context.Context, snapshot schema.Snapshot) ([]Change, error) {
	return NewComparator(snapshot.Old, snapshot.New).Compare(ctx)
}

func (c *Comparator) definitionOrder() []string {
	keys := c.newSchema.Names()
	for _, key := range c.oldSchema.Names() {
		if _, ok := c.newSchema.Lookup(key); !ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func (c *Comparator) compareRoots() []Change {
	var oldRoots, newRoots schema.RootTypes
	if c.oldSchema != nil {
		oldRoots = c.oldSchema.Roots
	}
	if c.newSchema != nil {
		newRoots = c.newSchema.Roots
	}

	s := &changeSet{}
	roots := []struct {
		kind     string
		old, new string
		rule     ChangeType
	}{
		{"query", oldRoots.Query, newRoots.Query, SchemaQueryTypeChanged},
		{"mutation", oldRoots.Mutation, newRoots.Mutation, SchemaMutationTypeChanged},
		{"subscription", oldRoots.Subscription, newRoots.Subscription, SchemaSubscriptionTypeChanged},
	}
	for _, r := range roots {
		// Introducing a root that did not exist is additive and reported as a type addition
		if r.old == "" || r.old == r.new {
			continue
		}
		if r.new == "" {
			// a deleted root type is already reported as TYPE_REMOVED
			if _, kept := c.newSchema.Lookup(r.old); !kept {
				continue
			}
			s.add(r.rule, "", "Schema %s root '%s' was removed", r.kind, r.old)
			continue
		}
		s.add(r.rule, "", "Schema %s root has changed from '%s' to '%s'", r.kind, r.old, r.new)
	}
	return s.changes
}

// compareDefinition diffs one key of the type maps. A malformed pair that makes a
// rule panic contributes no changes.
func (c *Comparator) compareDefinition(key string) (changes []Change) {
	defer func() {
		if r := recover(); r != nil {
			changes = nil
		}
	}()

	oldDef, inOld := c.oldSchema.Lookup(key)
	newDef, inNew := c.newSchema.Lookup(key)

	s := &changeSet{}
	switch {
	case inNew && !inOld:
		definitionAdded(s, newDef)
	case inOld && !inNew:
		definitionRemoved(s, oldDef)
	case inOld && inNew:
		if oldDef == nil || newDef == nil {
			return nil
		}
		if oldDef.Kind() != newDef.Kind() {
			s.add(TypeKindChanged, key, "'%s' kind changed from '%s' to '%s'",
				key, oldDef.Kind(), newDef.Kind())
			return s.changes
		}
		compareSameKind(s, oldDef, newDef)
	}
	return s.changes
}

// changeSet accumulates changes for one definition
type changeSet struct {
	changes []Change
}

func (s *changeSet) add(changeType ChangeType, path, format string, args ...interface{}) {
	s.changes = append(s.changes, NewChangeBuilder(changeType).
		WithPath(path).
		WithMessage(fmt.Sprintf(format, args...)).
		Build())
}
