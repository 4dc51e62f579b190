package compatibility

import (
	"fmt"

	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

type usageRuleSet struct {
	added   ChangeType
	removed ChangeType
}

var (
	// fieldUsageRules apply to directives on object and interface fields
	fieldUsageRules = usageRuleSet{added: FieldDirectiveAdded, removed: FieldDirectiveRemoved}
	// usageRules apply everywhere else
	usageRules = usageRuleSet{added: DirectiveUsageAdded, removed: DirectiveUsageRemoved}
)

// compareDirectiveUsages reports directives applied or no longer applied to an element.
// Usages are matched by directive name; repeated usages count once.
func compareDirectiveUsages(s *changeSet, rules usageRuleSet, ownerPath, owner string, oldUsages, newUsages []schema.DirectiveUsage) {
	added, removed := diffNames(usageNames(oldUsages), usageNames(newUsages))
	for _, name := range added {
		s.add(rules.added, ownerPath+"."+name, "Directive '%s' was added to %s", name, owner)
	}
	for _, name := range removed {
		s.add(rules.removed, ownerPath+"."+name, "Directive '%s' was removed from %s", name, owner)
	}
}

func usageNames(usages []schema.DirectiveUsage) []string {
	seen := make(map[string]bool, len(usages))
	names := make([]string, 0, len(usages))
	for _, u := range usages {
		if seen[u.Name] {
			continue
		}
		seen[u.Name] = true
		names = append(names, u.Name)
	}
	return names
}

func compareDirectiveDefinitions(s *changeSet, oldDir, newDir *schema.DirectiveDefinition) {
	key := schema.Key(oldDir)

	if oldDir.Description() != newDir.Description() {
		s.add(DirectiveDescriptionChanged, key, "Directive '%s' description changed from '%s' to '%s'",
			key, oldDir.Description(), newDir.Description())
	}

	added, removed := diffNames(oldDir.Locations, newDir.Locations)
	for _, loc := range added {
		s.add(DirectiveLocationAdded, key, "Location '%s' was added to directive '%s'", loc, key)
	}
	for _, loc := range removed {
		s.add(DirectiveLocationRemoved, key, "Location '%s' was removed from directive '%s'", loc, key)
	}

	switch {
	case !oldDir.Repeatable && newDir.Repeatable:
		s.add(DirectiveRepeatableAdded, key, "Directive '%s' is now repeatable", key)
	case oldDir.Repeatable && !newDir.Repeatable:
		s.add(DirectiveRepeatableRemoved, key, "Directive '%s' is no longer repeatable", key)
	}

	compareArguments(s, directiveArgumentRules, key, fmt.Sprintf("directive '%s'", key), oldDir.Arguments, newDir.Arguments)
}
