package compatibility

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

// Rule post-processes classified changes. Rules are opt-in and run after
// classification, in the order they are requested.
type Rule interface {
	Name() string
	Description() string
	Apply(changes []Change, snapshot schema.Snapshot) []Change
}

// Built-in rule names
const (
	RuleIgnoreDescriptionChanges         = "ignoreDescriptionChanges"
	RuleSuppressRemovalOfDeprecatedField = "suppressRemovalOfDeprecatedField"
)

// RuleRegistry manages available post-processing rules
type RuleRegistry struct {
	rules map[string]Rule
}

// NewRuleRegistry creates a registry with the built-in rules registered
func NewRuleRegistry() *RuleRegistry {
	registry := &RuleRegistry{
		rules: make(map[string]Rule),
	}
	registry.Register(ignoreDescriptionChanges{})
	registry.Register(suppressRemovalOfDeprecatedField{})
	return registry
}

// Register adds a rule to the registry, replacing any rule with the same name
func (r *RuleRegistry) Register(rule Rule) {
	r.rules[rule.Name()] = rule
}

// GetRule retrieves a rule by name
func (r *RuleRegistry) GetRule(name string) (Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// GetAllRules returns all registered rules sorted by name
func (r *RuleRegistry) GetAllRules() []Rule {
	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].Name() < rules[j].Name()
	})
	return rules
}

// Apply runs the named rules in order. Unknown names are an error and leave
// the changes untouched.
func (r *RuleRegistry) Apply(names []string, changes []Change, snapshot schema.Snapshot) ([]Change, error) {
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		rule, ok := r.GetRule(name)
		if !ok {
			return changes, fmt.Errorf("unknown rule %q", name)
		}
		rules = append(rules, rule)
	}
	for _, rule := range rules {
		changes = rule.Apply(changes, snapshot)
	}
	return changes, nil
}

type ignoreDescriptionChanges struct{}

func (ignoreDescriptionChanges) Name() string { return RuleIgnoreDescriptionChanges }

func (ignoreDescriptionChanges) Description() string {
	return "Drops every change that only touches a description"
}

func (ignoreDescriptionChanges) Apply(changes []Change, _ schema.Snapshot) []Change {
	kept := make([]Change, 0, len(changes))
	for _, c := range changes {
		if strings.Contains(string(c.Type), "DESCRIPTION") {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

type suppressRemovalOfDeprecatedField struct{}

func (suppressRemovalOfDeprecatedField) Name() string { return RuleSuppressRemovalOfDeprecatedField }

func (suppressRemovalOfDeprecatedField) Description() string {
	return "Downgrades removal of a field or enum value deprecated in the old schema to DANGEROUS"
}

func (suppressRemovalOfDeprecatedField) Apply(changes []Change, snapshot schema.Snapshot) []Change {
	out := make([]Change, len(changes))
	copy(out, changes)
	for i, c := range out {
		if c.Type != FieldRemoved && c.Type != EnumValueRemoved && c.Type != InputFieldRemoved {
			continue
		}
		if c.Criticality.Level != Breaking || !deprecatedInOld(snapshot.Old, c.Path) {
			continue
		}
		out[i].Criticality = Criticality{
			Level:  Dangerous,
			Reason: "The removed element was deprecated in the previous schema.",
		}
	}
	return out
}

func deprecatedInOld(old *schema.TypeMap, path string) bool {
	typeName, member, ok := strings.Cut(path, ".")
	if !ok {
		return false
	}
	def, found := old.Lookup(typeName)
	if !found {
		return false
	}

	var directives []schema.DirectiveUsage
	switch d := def.(type) {
	case *schema.ObjectType:
		directives = fieldDirectives(d.Fields, member)
	case *schema.InterfaceType:
		directives = fieldDirectives(d.Fields, member)
	case *schema.InputObjectType:
		for _, f := range d.Fields {
			if f.Name == member {
				directives = f.Directives
			}
		}
	case *schema.EnumType:
		for _, v := range d.Values {
			if v.Name == member {
				directives = v.Directives
			}
		}
	}
	deprecated, _ := schema.Deprecation(directives)
	return deprecated
}

func fieldDirectives(fields []*schema.Field, name string) []schema.DirectiveUsage {
	for _, f := range fields {
		if f.Name == name {
			return f.Directives
		}
	}
	return nil
}
