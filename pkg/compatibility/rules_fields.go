package compatibility

import (
	"fmt"

	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

// refChange is the single sub-case a type reference change falls into
type refChange int

const (
	refUnchanged refChange = iota
	refNamed
	refList
	refTightened
	refLoosened
	refMixed
)

// refRules maps the sub-cases of a type reference change to the rule ids of one family
type refRules struct {
	changed   ChangeType
	tightened ChangeType
	loosened  ChangeType
	list      ChangeType
}

var (
	fieldRefRules = refRules{
		changed:   FieldTypeChanged,
		tightened: FieldNullabilityTightened,
		loosened:  FieldNullabilityLoosened,
		list:      FieldListWrappingChanged,
	}
	inputFieldRefRules = refRules{
		changed:   InputFieldTypeChanged,
		tightened: InputFieldNullabilityTightened,
		loosened:  InputFieldNullabilityLoosened,
		list:      InputFieldListWrappingChanged,
	}
)

// argumentRules is the rule set for the arguments of one owner kind
type argumentRules struct {
	added          ChangeType
	requiredAdded  ChangeType
	removed        ChangeType
	defaultChanged ChangeType
	description    ChangeType
	ref            refRules
}

var (
	fieldArgumentRules = argumentRules{
		added:          FieldArgumentAdded,
		requiredAdded:  FieldRequiredArgumentAdded,
		removed:        FieldArgumentRemoved,
		defaultChanged: FieldArgumentDefaultChanged,
		description:    FieldArgumentDescriptionChanged,
		ref: refRules{
			changed:   FieldArgumentTypeChanged,
			tightened: FieldArgumentNullabilityTightened,
			loosened:  FieldArgumentNullabilityLoosened,
			list:      FieldArgumentListWrappingChanged,
		},
	}
	directiveArgumentRules = argumentRules{
		added:          DirectiveArgumentAdded,
		requiredAdded:  DirectiveRequiredArgumentAdded,
		removed:        DirectiveArgumentRemoved,
		defaultChanged: DirectiveArgumentDefaultChanged,
		description:    DirectiveArgumentDescriptionChanged,
		ref: refRules{
			changed:   DirectiveArgumentTypeChanged,
			tightened: DirectiveArgumentNullabilityTightened,
			loosened:  DirectiveArgumentNullabilityLoosened,
			list:      DirectiveArgumentListWrappingChanged,
		},
	}
)

// compareTypeRefs classifies the difference between two type references.
// A nil reference is malformed and aborts the comparison of the enclosing type.
func compareTypeRefs(oldRef, newRef *schema.TypeRef) refChange {
	if oldRef == nil || newRef == nil {
		panic("compatibility: missing type reference")
	}
	if oldRef.NamedType() != newRef.NamedType() {
		return refNamed
	}

	tightened, loosened := false, false
	for o, n := oldRef, newRef; o != nil && n != nil; o, n = o.Elem, n.Elem {
		switch {
		case !o.NonNull && n.NonNull:
			tightened = true
		case o.NonNull && !n.NonNull:
			loosened = true
		}
		if (o.Elem == nil) != (n.Elem == nil) {
			return refList
		}
	}

	switch {
	case tightened && loosened:
		return refMixed
	case tightened:
		return refTightened
	case loosened:
		return refLoosened
	default:
		return refUnchanged
	}
}

// reportTypeRef emits at most one change for a type reference difference
func reportTypeRef(s *changeSet, rules refRules, path, subject string, oldRef, newRef *schema.TypeRef) {
	var changeType ChangeType
	switch compareTypeRefs(oldRef, newRef) {
	case refUnchanged:
		return
	case refList:
		changeType = rules.list
	case refTightened:
		changeType = rules.tightened
	case refLoosened:
		changeType = rules.loosened
	default:
		changeType = rules.changed
	}
	s.add(changeType, path, "%s changed type from '%s' to '%s'", subject, oldRef, newRef)
}

func compareFields(s *changeSet, typeName string, kind schema.Kind, oldFields, newFields []*schema.Field) {
	oldByName := make(map[string]*schema.Field, len(oldFields))
	for _, f := range oldFields {
		oldByName[f.Name] = f
	}
	newByName := make(map[string]*schema.Field, len(newFields))
	for _, f := range newFields {
		newByName[f.Name] = f
	}

	for _, f := range newFields {
		if _, ok := oldByName[f.Name]; !ok {
			s.add(FieldAdded, typeName+"."+f.Name, "Field '%s' was added to %s '%s'", f.Name, kind, typeName)
		}
	}
	for _, f := range oldFields {
		if _, ok := newByName[f.Name]; ok {
			continue
		}
		label := ""
		if deprecated, _ := schema.Deprecation(f.Directives); deprecated {
			label = "(deprecated) "
		}
		s.add(FieldRemoved, typeName+"."+f.Name, "Field '%s' %swas removed from %s '%s'", f.Name, label, kind, typeName)
	}

	for _, newField := range newFields {
		oldField, ok := oldByName[newField.Name]
		if !ok {
			continue
		}
		compareField(s, typeName+"."+newField.Name, oldField, newField)
	}
}

func compareField(s *changeSet, path string, oldField, newField *schema.Field) {
	switch {
	case oldField.Description == newField.Description:
	case oldField.Description == "":
		s.add(FieldDescriptionAdded, path, "Field '%s' has description '%s'", path, newField.Description)
	case newField.Description == "":
		s.add(FieldDescriptionRemoved, path, "Description was removed from field '%s'", path)
	default:
		s.add(FieldDescriptionChanged, path, "Field '%s' description changed from '%s' to '%s'",
			path, oldField.Description, newField.Description)
	}

	oldDeprecated, oldReason := schema.Deprecation(oldField.Directives)
	newDeprecated, newReason := schema.Deprecation(newField.Directives)
	switch {
	case !oldDeprecated && newDeprecated:
		s.add(FieldDeprecationAdded, path, "Field '%s' is deprecated", path)
	case oldDeprecated && !newDeprecated:
		s.add(FieldDeprecationRemoved, path, "Field '%s' is no longer deprecated", path)
	case oldDeprecated && oldReason != newReason:
		s.add(FieldDeprecationReasonChanged, path, "Deprecation reason on field '%s' has changed from '%s' to '%s'",
			path, oldReason, newReason)
	}

	reportTypeRef(s, fieldRefRules, path, fmt.Sprintf("Field '%s'", path), oldField.Type, newField.Type)

	compareArguments(s, fieldArgumentRules, path, fmt.Sprintf("field '%s'", path), oldField.Arguments, newField.Arguments)

	compareDirectiveUsages(s, fieldUsageRules, path, fmt.Sprintf("field '%s'", path), oldField.Directives, newField.Directives)
}

// compareArguments diffs the arguments of a field or directive definition.
// owner is the human-readable owner, e.g. "field 'Query.post'".
func compareArguments(s *changeSet, rules argumentRules, ownerPath, owner string, oldArgs, newArgs []*schema.Argument) {
	oldByName := make(map[string]*schema.Argument, len(oldArgs))
	for _, a := range oldArgs {
		oldByName[a.Name] = a
	}
	newByName := make(map[string]*schema.Argument, len(newArgs))
	for _, a := range newArgs {
		newByName[a.Name] = a
	}

	for _, a := range newArgs {
		if _, ok := oldByName[a.Name]; ok {
			continue
		}
		changeType := rules.added
		if a.Type != nil && a.Type.NonNull && a.DefaultValue == nil {
			changeType = rules.requiredAdded
		}
		s.add(changeType, ownerPath+"."+a.Name, "Argument '%s: %s' added to %s", a.Name, a.Type, owner)
	}
	for _, a := range oldArgs {
		if _, ok := newByName[a.Name]; !ok {
			s.add(rules.removed, ownerPath+"."+a.Name, "Argument '%s: %s' was removed from %s", a.Name, a.Type, owner)
		}
	}

	for _, newArg := range newArgs {
		oldArg, ok := oldByName[newArg.Name]
		if !ok {
			continue
		}
		path := ownerPath + "." + newArg.Name

		if oldArg.Description != newArg.Description {
			s.add(rules.description, path, "Description for argument '%s' on %s changed from '%s' to '%s'",
				newArg.Name, owner, oldArg.Description, newArg.Description)
		}
		if msg, changed := defaultValueChange(oldArg.DefaultValue, newArg.DefaultValue); changed {
			s.add(rules.defaultChanged, path, "Default value for argument '%s' on %s %s", newArg.Name, owner, msg)
		}
		reportTypeRef(s, rules.ref, path, fmt.Sprintf("Argument '%s' on %s", newArg.Name, owner), oldArg.Type, newArg.Type)
		compareDirectiveUsages(s, usageRules, path, fmt.Sprintf("argument '%s' on %s", newArg.Name, owner),
			oldArg.Directives, newArg.Directives)
	}
}

// defaultValueChange describes how a default value changed, if it did
func defaultValueChange(oldValue, newValue *string) (string, bool) {
	switch {
	case oldValue == nil && newValue == nil:
		return "", false
	case oldValue == nil:
		return fmt.Sprintf("was added as '%s'", *newValue), true
	case newValue == nil:
		return fmt.Sprintf("'%s' was removed", *oldValue), true
	case *oldValue != *newValue:
		return fmt.Sprintf("changed from '%s' to '%s'", *oldValue, *newValue), true
	default:
		return "", false
	}
}
