package compatibility

import (
	"fmt"

	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

func compareInputFields(s *changeSet, oldInput, newInput *schema.InputObjectType) {
	typeName := oldInput.Name()
	oldByName := make(map[string]*schema.InputField, len(oldInput.Fields))
	for _, f := range oldInput.Fields {
		oldByName[f.Name] = f
	}
	newByName := make(map[string]*schema.InputField, len(newInput.Fields))
	for _, f := range newInput.Fields {
		newByName[f.Name] = f
	}

	for _, f := range newInput.Fields {
		if _, ok := oldByName[f.Name]; ok {
			continue
		}
		changeType := InputFieldAdded
		if f.Type != nil && f.Type.NonNull && f.DefaultValue == nil {
			changeType = RequiredInputFieldAdded
		}
		s.add(changeType, typeName+"."+f.Name, "Input field '%s' was added to input object type '%s'", f.Name, typeName)
	}
	for _, f := range oldInput.Fields {
		if _, ok := newByName[f.Name]; !ok {
			s.add(InputFieldRemoved, typeName+"."+f.Name, "Input field '%s' was removed from input object type '%s'",
				f.Name, typeName)
		}
	}

	for _, newField := range newInput.Fields {
		oldField, ok := oldByName[newField.Name]
		if !ok {
			continue
		}
		path := typeName + "." + newField.Name

		if oldField.Description != newField.Description {
			s.add(InputFieldDescriptionChanged, path, "Input field '%s' description changed from '%s' to '%s'",
				path, oldField.Description, newField.Description)
		}
		if msg, changed := defaultValueChange(oldField.DefaultValue, newField.DefaultValue); changed {
			s.add(InputFieldDefaultValueChanged, path, "Default value for input field '%s' %s", path, msg)
		}
		reportTypeRef(s, inputFieldRefRules, path, fmt.Sprintf("Input field '%s'", path), oldField.Type, newField.Type)
		compareDirectiveUsages(s, usageRules, path, fmt.Sprintf("input field '%s'", path),
			oldField.Directives, newField.Directives)
	}
}
