// Package compatibility detects and classifies changes between two GraphQL type systems.
//
// # Overview
//
// The package compares an old and a new schema.TypeMap and reports every difference as a
// Change: a rule id (ChangeType), a human-readable message, and a dotted path that names the
// element that changed. Each change is then tagged with a Criticality from a fixed table, so
// callers can decide whether a schema update is safe to ship.
//
// # Criticality
//
// BREAKING: existing operations stop working. Removals, kind changes, named type or list
// wrapping changes, output field nullability changes in either direction, tightened inputs,
// new required input fields, removed directive locations, removed repeatability and changed
// root operation types.
//
// DANGEROUS: existing operations keep validating but may behave differently. New required
// arguments, changed default values and removed directive usages.
//
// NON_BREAKING: everything else, e.g. additions, description and deprecation edits, and
// loosened inputs.
//
// The table is total over AllChangeTypes. Classify panics for a rule id it does not know,
// which means the catalog and the table have drifted apart.
//
// # Paths
//
// Paths are the join key between a change and its source location:
//
//	Post                   type-level changes
//	Post.title             fields, input fields, enum values
//	Query.post.id          arguments
//	Post.title.deprecated  directive usages on a field
//	@auth, @auth.role      directive definitions and their arguments
//
// Schema root changes carry an empty path.
//
// # Ordering
//
// Detect returns changes in a stable order: schema root changes, then definitions in the new
// schema's declaration order, then definitions that exist only in the old schema in the old
// declaration order. Within a definition, description changes come first, then interfaces,
// union members, enum values or directive locations, then fields (added, removed, then mutual
// fields in new order), and finally directives applied to the definition itself.
//
// Definitions are compared in parallel. Every worker writes into its own slot and the slots
// are concatenated in the order above, so repeated runs over the same input return the same
// list.
//
// # Usage Example
//
//	snapshot, err := schema.Load(schema.SourcePair{
//		Old: schema.Source{Name: "old.graphql", Body: oldSDL},
//		New: schema.Source{Name: "new.graphql", Body: newSDL},
//	})
//	if err != nil {
//		return err
//	}
//
//	changes, err := compatibility.CompareSnapshots(ctx, snapshot)
//	if err != nil {
//		return err
//	}
//
//	for _, c := range changes {
//		fmt.Printf("[%s] %s (%s)\n", c.Criticality.Level, c.Message, c.Path)
//	}
//
// # Post-processing Rules
//
// A RuleRegistry holds opt-in rules that run after classification:
//
//	registry := compatibility.NewRuleRegistry()
//	changes, err = registry.Apply([]string{
//		compatibility.RuleSuppressRemovalOfDeprecatedField,
//	}, changes, snapshot)
//
// ignoreDescriptionChanges drops description-only changes. suppressRemovalOfDeprecatedField
// downgrades the removal of a field, input field or enum value that was already deprecated
// in the old schema from BREAKING to DANGEROUS.
//
// # Malformed Input
//
// Definitions are assumed to be internally consistent. A nil type reference or a rule that
// panics on one definition drops that definition's changes; the rest of the comparison is
// unaffected.
package compatibility
