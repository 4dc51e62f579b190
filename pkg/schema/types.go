package schema

import "strings"

// Kind tags the construct a Definition describes
type Kind int

const (
	KindObject Kind = iota
	KindInterface
	KindUnion
	KindEnum
	KindInputObject
	KindScalar
	KindDirective
)

func (k Kind) String() string {
	return []string{
		"object type", "interface type", "union type", "enum type",
		"input object type", "scalar type", "directive",
	}[k]
}

// Definition is a named entry of a TypeMap. The set of implementations is closed:
// *ObjectType, *InterfaceType, *UnionType, *EnumType, *InputObjectType, *ScalarType
// and *DirectiveDefinition.
type Definition interface {
	Name() string
	Kind() Kind
	Description() string
	sealed()
}

// Meta holds the attributes every named definition carries
type Meta struct {
	TypeName string
	Desc     string
}

func (m Meta) Name() string        { return m.TypeName }
func (m Meta) Description() string { return m.Desc }
func (Meta) sealed()               {}

// ObjectType is an output object type
type ObjectType struct {
	Meta
	Interfaces []string
	Fields     []*Field
	Directives []DirectiveUsage
}

func (*ObjectType) Kind() Kind { return KindObject }

// InterfaceType is an interface; interfaces may implement other interfaces
type InterfaceType struct {
	Meta
	Interfaces []string
	Fields     []*Field
	Directives []DirectiveUsage
}

func (*InterfaceType) Kind() Kind { return KindInterface }

// UnionType is a union of object types
type UnionType struct {
	Meta
	Members    []string
	Directives []DirectiveUsage
}

func (*UnionType) Kind() Kind { return KindUnion }

// EnumType is an enum with ordered values
type EnumType struct {
	Meta
	Values     []*EnumValue
	Directives []DirectiveUsage
}

func (*EnumType) Kind() Kind { return KindEnum }

// InputObjectType is an input object
type InputObjectType struct {
	Meta
	Fields     []*InputField
	Directives []DirectiveUsage
}

func (*InputObjectType) Kind() Kind { return KindInputObject }

// ScalarType is a custom scalar
type ScalarType struct {
	Meta
	Directives []DirectiveUsage
}

func (*ScalarType) Kind() Kind { return KindScalar }

// DirectiveDefinition is a directive declaration (directive @name(...) on ...)
type DirectiveDefinition struct {
	Meta
	Arguments  []*Argument
	Locations  []string
	Repeatable bool
}

func (*DirectiveDefinition) Kind() Kind { return KindDirective }

// Field is a field of an object or interface type
type Field struct {
	Name        string
	Description string
	Type        *TypeRef
	Arguments   []*Argument
	Directives  []DirectiveUsage
}

// Argument is an argument of a field or directive definition
type Argument struct {
	Name         string
	Description  string
	Type         *TypeRef
	DefaultValue *string // nil when no default is declared
	Directives   []DirectiveUsage
}

// InputField is a field of an input object type
type InputField struct {
	Name         string
	Description  string
	Type         *TypeRef
	DefaultValue *string
	Directives   []DirectiveUsage
}

// EnumValue is a single value of an enum type
type EnumValue struct {
	Name        string
	Description string
	Directives  []DirectiveUsage
}

// DirectiveUsage is a directive applied to a definition or member
type DirectiveUsage struct {
	Name      string
	Arguments map[string]string // argument name -> printed value
}

// TypeRef is a (possibly wrapped) reference to a named type.
// Exactly one of Name or Elem is set.
type TypeRef struct {
	Name    string
	Elem    *TypeRef
	NonNull bool
}

// String prints the reference in SDL form, e.g. [Post!]!
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	var sb strings.Builder
	if t.Elem != nil {
		sb.WriteString("[")
		sb.WriteString(t.Elem.String())
		sb.WriteString("]")
	} else {
		sb.WriteString(t.Name)
	}
	if t.NonNull {
		sb.WriteString("!")
	}
	return sb.String()
}

// NamedType returns the innermost named type
func (t *TypeRef) NamedType() string {
	for t != nil && t.Elem != nil {
		t = t.Elem
	}
	if t == nil {
		return ""
	}
	return t.Name
}

// DefaultDeprecationReason is the reason implied by a bare @deprecated
const DefaultDeprecationReason = "No longer supported"

// Deprecation inspects directive usages for @deprecated
func Deprecation(directives []DirectiveUsage) (deprecated bool, reason string) {
	for _, d := range directives {
		if d.Name != "deprecated" {
			continue
		}
		if r, ok := d.Arguments["reason"]; ok {
			return true, r
		}
		return true, DefaultDeprecationReason
	}
	return false, ""
}
