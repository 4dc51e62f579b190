package compatibility

import (
	"fmt"

	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

func definitionAdded(s *changeSet, def schema.Definition) {
	if def == nil {
		return
	}
	if _, ok := def.(*schema.DirectiveDefinition); ok {
		s.add(DirectiveAdded, schema.Key(def), "Directive '%s' was added", schema.Key(def))
		return
	}
	s.add(TypeAdded, def.Name(), "Type '%s' was added", def.Name())
}

func definitionRemoved(s *changeSet, def schema.Definition) {
	if def == nil {
		return
	}
	if _, ok := def.(*schema.DirectiveDefinition); ok {
		s.add(DirectiveRemoved, schema.Key(def), "Directive '%s' was removed", schema.Key(def))
		return
	}
	s.add(TypeRemoved, def.Name(), "Type '%s' was removed", def.Name())
}

// compareSameKind dispatches to the rule family of the variant. Both definitions
// are known to have the same kind.
func compareSameKind(s *changeSet, oldDef, newDef schema.Definition) {
	if d, ok := oldDef.(*schema.DirectiveDefinition); ok {
		compareDirectiveDefinitions(s, d, newDef.(*schema.DirectiveDefinition))
		return
	}

	compareTypeDescription(s, oldDef, newDef)

	switch o := oldDef.(type) {
	case *schema.ObjectType:
		n := newDef.(*schema.ObjectType)
		compareInterfaces(s, o.Name(), oldDef.Kind(), o.Interfaces, n.Interfaces)
		compareFields(s, o.Name(), oldDef.Kind(), o.Fields, n.Fields)
		compareDirectiveUsages(s, usageRules, o.Name(), describeType(oldDef), o.Directives, n.Directives)
	case *schema.InterfaceType:
		n := newDef.(*schema.InterfaceType)
		compareInterfaces(s, o.Name(), oldDef.Kind(), o.Interfaces, n.Interfaces)
		compareFields(s, o.Name(), oldDef.Kind(), o.Fields, n.Fields)
		compareDirectiveUsages(s, usageRules, o.Name(), describeType(oldDef), o.Directives, n.Directives)
	case *schema.UnionType:
		n := newDef.(*schema.UnionType)
		compareUnionMembers(s, o, n)
		compareDirectiveUsages(s, usageRules, o.Name(), describeType(oldDef), o.Directives, n.Directives)
	case *schema.EnumType:
		n := newDef.(*schema.EnumType)
		compareEnumValues(s, o, n)
		compareDirectiveUsages(s, usageRules, o.Name(), describeType(oldDef), o.Directives, n.Directives)
	case *schema.InputObjectType:
		n := newDef.(*schema.InputObjectType)
		compareInputFields(s, o, n)
		compareDirectiveUsages(s, usageRules, o.Name(), describeType(oldDef), o.Directives, n.Directives)
	case *schema.ScalarType:
		n := newDef.(*schema.ScalarType)
		compareDirectiveUsages(s, usageRules, o.Name(), describeType(oldDef), o.Directives, n.Directives)
	default:
		panic(fmt.Sprintf("compatibility: unsupported definition %T", oldDef))
	}
}

func describeType(def schema.Definition) string {
	return fmt.Sprintf("%s '%s'", def.Kind(), def.Name())
}

func compareTypeDescription(s *changeSet, oldDef, newDef schema.Definition) {
	name := oldDef.Name()
	oldDesc, newDesc := oldDef.Description(), newDef.Description()
	switch {
	case oldDesc == newDesc:
	case oldDesc == "":
		s.add(TypeDescriptionAdded, name, "Description '%s' was added to %s", newDesc, describeType(newDef))
	case newDesc == "":
		s.add(TypeDescriptionRemoved, name, "Description '%s' was removed from %s", oldDesc, describeType(oldDef))
	default:
		s.add(TypeDescriptionChanged, name, "Description '%s' on type '%s' has changed to '%s'", oldDesc, name, newDesc)
	}
}

func compareInterfaces(s *changeSet, typeName string, kind schema.Kind, oldIfaces, newIfaces []string) {
	added, removed := diffNames(oldIfaces, newIfaces)
	for _, iface := range added {
		s.add(ObjectTypeInterfaceAdded, typeName, "'%s' %s implements '%s' interface", typeName, kind, iface)
	}
	for _, iface := range removed {
		s.add(ObjectTypeInterfaceRemoved, typeName, "'%s' %s no longer implements '%s' interface", typeName, kind, iface)
	}
}

func compareUnionMembers(s *changeSet, oldUnion, newUnion *schema.UnionType) {
	name := oldUnion.Name()
	added, removed := diffNames(oldUnion.Members, newUnion.Members)
	for _, member := range added {
		s.add(UnionMemberAdded, name, "Member '%s' was added to Union type '%s'", member, name)
	}
	for _, member := range removed {
		s.add(UnionMemberRemoved, name, "Member '%s' was removed from Union type '%s'", member, name)
	}
}

func compareEnumValues(s *changeSet, oldEnum, newEnum *schema.EnumType) {
	name := oldEnum.Name()
	oldValues := make(map[string]*schema.EnumValue, len(oldEnum.Values))
	for _, v := range oldEnum.Values {
		oldValues[v.Name] = v
	}
	newValues := make(map[string]*schema.EnumValue, len(newEnum.Values))
	for _, v := range newEnum.Values {
		newValues[v.Name] = v
	}

	for _, v := range newEnum.Values {
		if _, ok := oldValues[v.Name]; !ok {
			s.add(EnumValueAdded, name+"."+v.Name, "Enum value '%s' was added to enum '%s'", v.Name, name)
		}
	}
	for _, v := range oldEnum.Values {
		if _, ok := newValues[v.Name]; !ok {
			s.add(EnumValueRemoved, name+"."+v.Name, "Enum value '%s' was removed from enum '%s'", v.Name, name)
		}
	}

	for _, newValue := range newEnum.Values {
		oldValue, ok := oldValues[newValue.Name]
		if !ok {
			continue
		}
		path := name + "." + newValue.Name

		if oldValue.Description != newValue.Description {
			s.add(EnumValueDescriptionChanged, path, "Description for enum value '%s' changed from '%s' to '%s'",
				path, oldValue.Description, newValue.Description)
		}

		oldDeprecated, oldReason := schema.Deprecation(oldValue.Directives)
		newDeprecated, newReason := schema.Deprecation(newValue.Directives)
		switch {
		case !oldDeprecated && newDeprecated:
			s.add(EnumValueDeprecationAdded, path, "Enum value '%s' was deprecated with reason '%s'", path, newReason)
		case oldDeprecated && !newDeprecated:
			s.add(EnumValueDeprecationRemoved, path, "Enum value '%s' is no longer deprecated", path)
		case oldDeprecated && oldReason != newReason:
			s.add(EnumValueDeprecationReasonChanged, path, "Enum value '%s' deprecation reason changed from '%s' to '%s'",
				path, oldReason, newReason)
		}

		compareDirectiveUsages(s, usageRules, path, fmt.Sprintf("enum value '%s'", path),
			oldValue.Directives, newValue.Directives)
	}
}

// diffNames returns the names only in next, in next's order, and the names only
// in prev, in prev's order.
func diffNames(prev, next []string) (added, removed []string) {
	inPrev := make(map[string]bool, len(prev))
	for _, n := range prev {
		inPrev[n] = true
	}
	inNext := make(map[string]bool, len(next))
	for _, n := range next {
		inNext[n] = true
	}
	for _, n := range next {
		if !inPrev[n] {
			added = append(added, n)
		}
	}
	for _, n := range prev {
		if !inNext[n] {
			removed = append(removed, n)
		}
	}
	return added, removed
}
