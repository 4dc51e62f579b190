package compatibility

import (
	"fmt"
)

const (
	reasonRemoval       = "Removing an element from the schema breaks clients that still query or send it."
	reasonFieldType     = "Changing the type of a field can break clients that rely on the returned shape or nullability."
	reasonInputType     = "Changing the type of an input can make previously valid requests invalid."
	reasonRequiredInput = "Adding a required input without a default makes existing requests invalid."
	reasonRequiredArg   = "Adding a required argument without a default may break existing queries that omit it."
	reasonDefault       = "Changing a default value silently changes behavior for clients that rely on it."
	reasonRoot          = "Changing a root operation type breaks every operation of that kind."
	reasonKind          = "Changing the kind of a type breaks queries and fragments that select on it."
	reasonInterface     = "Removing an interface breaks fragments spread on that interface."
	reasonUnionMember   = "Removing a union member breaks fragments that select on it."
	reasonEnumValue     = "Removing an enum value breaks clients that send or switch on it."
	reasonDirectiveUse  = "Removing a directive usage may change runtime behavior that clients depend on."
	reasonDirectiveLoc  = "Removing a directive location breaks documents that use the directive there."
	reasonRepeatable    = "Making a directive non-repeatable breaks documents that apply it more than once."
)

var criticalityTable = map[ChangeType]Criticality{
	SchemaQueryTypeChanged:        {Level: Breaking, Reason: reasonRoot},
	SchemaMutationTypeChanged:     {Level: Breaking, Reason: reasonRoot},
	SchemaSubscriptionTypeChanged: {Level: Breaking, Reason: reasonRoot},

	TypeAdded:              {Level: NonBreaking},
	TypeRemoved:            {Level: Breaking, Reason: reasonRemoval},
	TypeKindChanged:        {Level: Breaking, Reason: reasonKind},
	TypeDescriptionAdded:   {Level: NonBreaking},
	TypeDescriptionRemoved: {Level: NonBreaking},
	TypeDescriptionChanged: {Level: NonBreaking},

	ObjectTypeInterfaceAdded:   {Level: NonBreaking, Reason: "Clients that switch on __typename may meet new fragment matches."},
	ObjectTypeInterfaceRemoved: {Level: Breaking, Reason: reasonInterface},
	FieldAdded:                 {Level: NonBreaking},
	FieldRemoved:               {Level: Breaking, Reason: reasonRemoval},

	FieldDescriptionAdded:         {Level: NonBreaking},
	FieldDescriptionRemoved:       {Level: NonBreaking},
	FieldDescriptionChanged:       {Level: NonBreaking},
	FieldDeprecationAdded:         {Level: NonBreaking},
	FieldDeprecationRemoved:       {Level: NonBreaking},
	FieldDeprecationReasonChanged: {Level: NonBreaking},
	FieldTypeChanged:              {Level: Breaking, Reason: reasonFieldType},
	FieldNullabilityTightened:     {Level: Breaking, Reason: reasonFieldType},
	FieldNullabilityLoosened:      {Level: Breaking, Reason: "Making a field nullable can break clients that expect a value."},
	FieldListWrappingChanged:      {Level: Breaking, Reason: reasonFieldType},
	FieldDirectiveAdded:           {Level: NonBreaking},
	FieldDirectiveRemoved:         {Level: Dangerous, Reason: reasonDirectiveUse},

	FieldArgumentAdded:                {Level: NonBreaking},
	FieldRequiredArgumentAdded:        {Level: Dangerous, Reason: reasonRequiredArg},
	FieldArgumentRemoved:              {Level: Breaking, Reason: reasonRemoval},
	FieldArgumentDefaultChanged:       {Level: Dangerous, Reason: reasonDefault},
	FieldArgumentTypeChanged:          {Level: Breaking, Reason: reasonInputType},
	FieldArgumentNullabilityTightened: {Level: Breaking, Reason: reasonInputType},
	FieldArgumentNullabilityLoosened:  {Level: NonBreaking},
	FieldArgumentListWrappingChanged:  {Level: Breaking, Reason: reasonInputType},
	FieldArgumentDescriptionChanged:   {Level: NonBreaking},

	DirectiveUsageAdded:   {Level: NonBreaking},
	DirectiveUsageRemoved: {Level: Dangerous, Reason: reasonDirectiveUse},

	EnumValueAdded:                    {Level: NonBreaking, Reason: "Clients that switch exhaustively on the enum may meet an unknown value."},
	EnumValueRemoved:                  {Level: Breaking, Reason: reasonEnumValue},
	EnumValueDescriptionChanged:       {Level: NonBreaking},
	EnumValueDeprecationAdded:         {Level: NonBreaking},
	EnumValueDeprecationRemoved:       {Level: NonBreaking},
	EnumValueDeprecationReasonChanged: {Level: NonBreaking},

	UnionMemberAdded:   {Level: NonBreaking, Reason: "Clients that switch exhaustively on the union may meet an unknown member."},
	UnionMemberRemoved: {Level: Breaking, Reason: reasonUnionMember},

	InputFieldAdded:                {Level: NonBreaking},
	RequiredInputFieldAdded:        {Level: Breaking, Reason: reasonRequiredInput},
	InputFieldRemoved:              {Level: Breaking, Reason: reasonRemoval},
	InputFieldTypeChanged:          {Level: Breaking, Reason: reasonInputType},
	InputFieldNullabilityTightened: {Level: Breaking, Reason: reasonInputType},
	InputFieldNullabilityLoosened:  {Level: NonBreaking},
	InputFieldListWrappingChanged:  {Level: Breaking, Reason: reasonInputType},
	InputFieldDefaultValueChanged:  {Level: Dangerous, Reason: reasonDefault},
	InputFieldDescriptionChanged:   {Level: NonBreaking},

	DirectiveAdded:                        {Level: NonBreaking},
	DirectiveRemoved:                      {Level: Breaking, Reason: reasonRemoval},
	DirectiveDescriptionChanged:           {Level: NonBreaking},
	DirectiveLocationAdded:                {Level: NonBreaking},
	DirectiveLocationRemoved:              {Level: Breaking, Reason: reasonDirectiveLoc},
	DirectiveRepeatableAdded:              {Level: NonBreaking},
	DirectiveRepeatableRemoved:            {Level: Breaking, Reason: reasonRepeatable},
	DirectiveArgumentAdded:                {Level: NonBreaking},
	DirectiveRequiredArgumentAdded:        {Level: Dangerous, Reason: reasonRequiredArg},
	DirectiveArgumentRemoved:              {Level: Breaking, Reason: reasonRemoval},
	DirectiveArgumentDefaultChanged:       {Level: Dangerous, Reason: reasonDefault},
	DirectiveArgumentTypeChanged:          {Level: Breaking, Reason: reasonInputType},
	DirectiveArgumentNullabilityTightened: {Level: Breaking, Reason: reasonInputType},
	DirectiveArgumentNullabilityLoosened:  {Level: NonBreaking},
	DirectiveArgumentListWrappingChanged:  {Level: Breaking, Reason: reasonInputType},
	DirectiveArgumentDescriptionChanged:   {Level: NonBreaking},
}

// Classify returns the criticality registered for a change type.
// It panics on an unregistered type: the rule catalog and this table must not drift apart.
func Classify(changeType ChangeType) Criticality {
	c, ok := criticalityTable[changeType]
	if !ok {
		panic(fmt.Sprintf("compatibility: no criticality registered for change type %q", changeType))
	}
	return c
}

// ClassifyAll tags every change with its registered criticality
func ClassifyAll(changes []Change) []Change {
	for i := range changes {
		changes[i].Criticality = Classify(changes[i].Type)
	}
	return changes
}
