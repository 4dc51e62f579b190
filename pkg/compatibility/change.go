package compatibility

// ChangeType identifies the rule that produced a Change
type ChangeType string

const (
	// Schema root operation types
	SchemaQueryTypeChanged        ChangeType = "SCHEMA_QUERY_TYPE_CHANGED"
	SchemaMutationTypeChanged     ChangeType = "SCHEMA_MUTATION_TYPE_CHANGED"
	SchemaSubscriptionTypeChanged ChangeType = "SCHEMA_SUBSCRIPTION_TYPE_CHANGED"

	// Types
	TypeAdded              ChangeType = "TYPE_ADDED"
	TypeRemoved            ChangeType = "TYPE_REMOVED"
	TypeKindChanged        ChangeType = "TYPE_KIND_CHANGED"
	TypeDescriptionAdded   ChangeType = "TYPE_DESCRIPTION_ADDED"
	TypeDescriptionRemoved ChangeType = "TYPE_DESCRIPTION_REMOVED"
	TypeDescriptionChanged ChangeType = "TYPE_DESCRIPTION_CHANGED"

	// Object and interface types
	ObjectTypeInterfaceAdded   ChangeType = "OBJECT_TYPE_INTERFACE_ADDED"
	ObjectTypeInterfaceRemoved ChangeType = "OBJECT_TYPE_INTERFACE_REMOVED"
	FieldAdded                 ChangeType = "FIELD_ADDED"
	FieldRemoved               ChangeType = "FIELD_REMOVED"

	// Fields
	FieldDescriptionAdded          ChangeType = "FIELD_DESCRIPTION_ADDED"
	FieldDescriptionRemoved        ChangeType = "FIELD_DESCRIPTION_REMOVED"
	FieldDescriptionChanged        ChangeType = "FIELD_DESCRIPTION_CHANGED"
	FieldDeprecationAdded          ChangeType = "FIELD_DEPRECATION_ADDED"
	FieldDeprecationRemoved        ChangeType = "FIELD_DEPRECATION_REMOVED"
	FieldDeprecationReasonChanged  ChangeType = "FIELD_DEPRECATION_REASON_CHANGED"
	FieldTypeChanged               ChangeType = "FIELD_TYPE_CHANGED"
	FieldNullabilityTightened      ChangeType = "FIELD_NULLABILITY_TIGHTENED"
	FieldNullabilityLoosened       ChangeType = "FIELD_NULLABILITY_LOOSENED"
	FieldListWrappingChanged       ChangeType = "FIELD_LIST_WRAPPING_CHANGED"
	FieldDirectiveAdded            ChangeType = "FIELD_DIRECTIVE_ADDED"
	FieldDirectiveRemoved          ChangeType = "FIELD_DIRECTIVE_REMOVED"

	// Field arguments
	FieldArgumentAdded               ChangeType = "FIELD_ARGUMENT_ADDED"
	FieldRequiredArgumentAdded       ChangeType = "FIELD_REQUIRED_ARGUMENT_ADDED"
	FieldArgumentRemoved             ChangeType = "FIELD_ARGUMENT_REMOVED"
	FieldArgumentDefaultChanged      ChangeType = "FIELD_ARGUMENT_DEFAULT_CHANGED"
	FieldArgumentTypeChanged         ChangeType = "FIELD_ARGUMENT_TYPE_CHANGED"
	FieldArgumentNullabilityTightened ChangeType = "FIELD_ARGUMENT_NULLABILITY_TIGHTENED"
	FieldArgumentNullabilityLoosened ChangeType = "FIELD_ARGUMENT_NULLABILITY_LOOSENED"
	FieldArgumentListWrappingChanged ChangeType = "FIELD_ARGUMENT_LIST_WRAPPING_CHANGED"
	FieldArgumentDescriptionChanged  ChangeType = "FIELD_ARGUMENT_DESCRIPTION_CHANGED"

	// Directive usages outside fields
	DirectiveUsageAdded   ChangeType = "DIRECTIVE_USAGE_ADDED"
	DirectiveUsageRemoved ChangeType = "DIRECTIVE_USAGE_REMOVED"

	// Enums
	EnumValueAdded                   ChangeType = "ENUM_VALUE_ADDED"
	EnumValueRemoved                 ChangeType = "ENUM_VALUE_REMOVED"
	EnumValueDescriptionChanged      ChangeType = "ENUM_VALUE_DESCRIPTION_CHANGED"
	EnumValueDeprecationAdded        ChangeType = "ENUM_VALUE_DEPRECATION_ADDED"
	EnumValueDeprecationRemoved      ChangeType = "ENUM_VALUE_DEPRECATION_REMOVED"
	EnumValueDeprecationReasonChanged ChangeType = "ENUM_VALUE_DEPRECATION_REASON_CHANGED"

	// Unions
	UnionMemberAdded   ChangeType = "UNION_MEMBER_ADDED"
	UnionMemberRemoved ChangeType = "UNION_MEMBER_REMOVED"

	// Input objects
	InputFieldAdded               ChangeType = "INPUT_FIELD_ADDED"
	RequiredInputFieldAdded       ChangeType = "REQUIRED_INPUT_FIELD_ADDED"
	InputFieldRemoved             ChangeType = "INPUT_FIELD_REMOVED"
	InputFieldTypeChanged         ChangeType = "INPUT_FIELD_TYPE_CHANGED"
	InputFieldNullabilityTightened ChangeType = "INPUT_FIELD_NULLABILITY_TIGHTENED"
	InputFieldNullabilityLoosened ChangeType = "INPUT_FIELD_NULLABILITY_LOOSENED"
	InputFieldListWrappingChanged ChangeType = "INPUT_FIELD_LIST_WRAPPING_CHANGED"
	InputFieldDefaultValueChanged ChangeType = "INPUT_FIELD_DEFAULT_VALUE_CHANGED"
	InputFieldDescriptionChanged  ChangeType = "INPUT_FIELD_DESCRIPTION_CHANGED"

	// Directive definitions
	DirectiveAdded                        ChangeType = "DIRECTIVE_ADDED"
	DirectiveRemoved                      ChangeType = "DIRECTIVE_REMOVED"
	DirectiveDescriptionChanged           ChangeType = "DIRECTIVE_DESCRIPTION_CHANGED"
	DirectiveLocationAdded                ChangeType = "DIRECTIVE_LOCATION_ADDED"
	DirectiveLocationRemoved              ChangeType = "DIRECTIVE_LOCATION_REMOVED"
	DirectiveRepeatableAdded              ChangeType = "DIRECTIVE_REPEATABLE_ADDED"
	DirectiveRepeatableRemoved            ChangeType = "DIRECTIVE_REPEATABLE_REMOVED"
	DirectiveArgumentAdded                ChangeType = "DIRECTIVE_ARGUMENT_ADDED"
	DirectiveRequiredArgumentAdded        ChangeType = "DIRECTIVE_REQUIRED_ARGUMENT_ADDED"
	DirectiveArgumentRemoved              ChangeType = "DIRECTIVE_ARGUMENT_REMOVED"
	DirectiveArgumentDefaultChanged       ChangeType = "DIRECTIVE_ARGUMENT_DEFAULT_CHANGED"
	DirectiveArgumentTypeChanged          ChangeType = "DIRECTIVE_ARGUMENT_TYPE_CHANGED"
	DirectiveArgumentNullabilityTightened ChangeType = "DIRECTIVE_ARGUMENT_NULLABILITY_TIGHTENED"
	DirectiveArgumentNullabilityLoosened  ChangeType = "DIRECTIVE_ARGUMENT_NULLABILITY_LOOSENED"
	DirectiveArgumentListWrappingChanged  ChangeType = "DIRECTIVE_ARGUMENT_LIST_WRAPPING_CHANGED"
	DirectiveArgumentDescriptionChanged   ChangeType = "DIRECTIVE_ARGUMENT_DESCRIPTION_CHANGED"
)

// catalog lists every change type the comparator can emit
var catalog = []ChangeType{
	SchemaQueryTypeChanged,
	SchemaMutationTypeChanged,
	SchemaSubscriptionTypeChanged,
	TypeAdded,
	TypeRemoved,
	TypeKindChanged,
	TypeDescriptionAdded,
	TypeDescriptionRemoved,
	TypeDescriptionChanged,
	ObjectTypeInterfaceAdded,
	ObjectTypeInterfaceRemoved,
	FieldAdded,
	FieldRemoved,
	FieldDescriptionAdded,
	FieldDescriptionRemoved,
	FieldDescriptionChanged,
	FieldDeprecationAdded,
	FieldDeprecationRemoved,
	FieldDeprecationReasonChanged,
	FieldTypeChanged,
	FieldNullabilityTightened,
	FieldNullabilityLoosened,
	FieldListWrappingChanged,
	FieldDirectiveAdded,
	FieldDirectiveRemoved,
	FieldArgumentAdded,
	FieldRequiredArgumentAdded,
	FieldArgumentRemoved,
	FieldArgumentDefaultChanged,
	FieldArgumentTypeChanged,
	FieldArgumentNullabilityTightened,
	FieldArgumentNullabilityLoosened,
	FieldArgumentListWrappingChanged,
	FieldArgumentDescriptionChanged,
	DirectiveUsageAdded,
	DirectiveUsageRemoved,
	EnumValueAdded,
	EnumValueRemoved,
	EnumValueDescriptionChanged,
	EnumValueDeprecationAdded,
	EnumValueDeprecationRemoved,
	EnumValueDeprecationReasonChanged,
	UnionMemberAdded,
	UnionMemberRemoved,
	InputFieldAdded,
	RequiredInputFieldAdded,
	InputFieldRemoved,
	InputFieldTypeChanged,
	InputFieldNullabilityTightened,
	InputFieldNullabilityLoosened,
	InputFieldListWrappingChanged,
	InputFieldDefaultValueChanged,
	InputFieldDescriptionChanged,
	DirectiveAdded,
	DirectiveRemoved,
	DirectiveDescriptionChanged,
	DirectiveLocationAdded,
	DirectiveLocationRemoved,
	DirectiveRepeatableAdded,
	DirectiveRepeatableRemoved,
	DirectiveArgumentAdded,
	DirectiveRequiredArgumentAdded,
	DirectiveArgumentRemoved,
	DirectiveArgumentDefaultChanged,
	DirectiveArgumentTypeChanged,
	DirectiveArgumentNullabilityTightened,
	DirectiveArgumentNullabilityLoosened,
	DirectiveArgumentListWrappingChanged,
	DirectiveArgumentDescriptionChanged,
}

// AllChangeTypes lists every change type the comparator can emit
func AllChangeTypes() []ChangeType {
	types := make([]ChangeType, len(catalog))
	copy(types, catalog)
	return types
}

// CriticalityLevel is the severity of a change. Values outside the three
// constants are tolerated so interceptor output can pass through unchanged.
type CriticalityLevel string

const (
	Breaking    CriticalityLevel = "BREAKING"
	Dangerous   CriticalityLevel = "DANGEROUS"
	NonBreaking CriticalityLevel = "NON_BREAKING"
)

// Criticality pairs a level with an optional reason
type Criticality struct {
	Level  CriticalityLevel `json:"level"`
	Reason string           `json:"reason,omitempty"`
}

// Change is a single detected difference between two schemas
type Change struct {
	Type        ChangeType  `json:"type"`
	Criticality Criticality `json:"criticality"`
	Message     string      `json:"message"`
	Path        string      `json:"path"`
}

// IsBreaking reports whether the change is classified as breaking
func (c Change) IsBreaking() bool {
	return c.Criticality.Level == Breaking
}

// ChangeBuilder helps construct changes fluently
type ChangeBuilder struct {
	change Change
}

// NewChangeBuilder creates a new change builder
func NewChangeBuilder(changeType ChangeType) *ChangeBuilder {
	return &ChangeBuilder{
		change: Change{
			Type: changeType,
		},
	}
}

func (b *ChangeBuilder) WithPath(path string) *ChangeBuilder {
	b.change.Path = path
	return b
}

func (b *ChangeBuilder) WithMessage(message string) *ChangeBuilder {
	b.change.Message = message
	return b
}

func (b *ChangeBuilder) WithCriticality(level CriticalityLevel, reason string) *ChangeBuilder {
	b.change.Criticality = Criticality{Level: level, Reason: reason}
	return b
}

func (b *ChangeBuilder) Build() Change {
	return b.change
}
