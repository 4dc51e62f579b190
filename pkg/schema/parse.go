package schema

import (
	"fmt"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Parse reads SDL text into a TypeMap. Only declared definitions are included;
// built-in scalars and directives are not added. The document is not validated.
func Parse(src Source) (*TypeMap, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: src.Name, Input: src.Body})
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %q: %w", src.Name, err)
	}
	return NewBuilder().Build(doc), nil
}

// Load parses both sides of a SourcePair into a Snapshot
func Load(pair SourcePair) (Snapshot, error) {
	oldMap, err := Parse(pair.Old)
	if err != nil {
		return Snapshot{}, fmt.Errorf("old schema: %w", err)
	}
	newMap, err := Parse(pair.New)
	if err != nil {
		return Snapshot{}, fmt.Errorf("new schema: %w", err)
	}
	return Snapshot{Old: oldMap, New: newMap}, nil
}

// Builder converts a parsed schema document into a TypeMap
type Builder struct{}

// NewBuilder creates a new builder
func NewBuilder() *Builder {
	return &Builder{}
}

type positioned struct {
	offset int
	def    Definition
}

// Build merges type extensions into their base definitions and returns the
// definitions in source order.
func (b *Builder) Build(doc *ast.SchemaDocument) *TypeMap {
	merged := make(map[string]*ast.Definition, len(doc.Definitions))
	var offsets []int
	var names []string

	for _, def := range doc.Definitions {
		if _, dup := merged[def.Name]; dup {
			continue
		}
		cp := *def
		merged[def.Name] = &cp
		offsets = append(offsets, offsetOf(def.Position))
		names = append(names, def.Name)
	}
	for _, ext := range doc.Extensions {
		base, ok := merged[ext.Name]
		if !ok {
			cp := *ext
			merged[ext.Name] = &cp
			offsets = append(offsets, offsetOf(ext.Position))
			names = append(names, ext.Name)
			continue
		}
		mergeExtension(base, ext)
	}

	entries := make([]positioned, 0, len(names)+len(doc.Directives))
	for i, name := range names {
		entries = append(entries, positioned{
			offset: offsets[i],
			def:    b.buildDefinition(merged[name]),
		})
	}
	for _, dir := range doc.Directives {
		entries = append(entries, positioned{
			offset: offsetOf(dir.Position),
			def:    b.buildDirective(dir),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].offset < entries[j].offset
	})

	defs := make([]Definition, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, e.def)
	}

	return NewTypeMap(b.extractRoots(doc), defs...)
}

func offsetOf(pos *ast.Position) int {
	if pos == nil {
		return 0
	}
	return pos.Start
}

func mergeExtension(base, ext *ast.Definition) {
	base.Interfaces = append(append([]string{}, base.Interfaces...), ext.Interfaces...)
	base.Fields = append(append(ast.FieldList{}, base.Fields...), ext.Fields...)
	base.Types = append(append([]string{}, base.Types...), ext.Types...)
	base.EnumValues = append(append(ast.EnumValueList{}, base.EnumValues...), ext.EnumValues...)
	base.Directives = append(append(ast.DirectiveList{}, base.Directives...), ext.Directives...)
}

func (b *Builder) extractRoots(doc *ast.SchemaDocument) RootTypes {
	var roots RootTypes
	explicit := false
	for _, list := range []ast.SchemaDefinitionList{doc.Schema, doc.SchemaExtension} {
		for _, sd := range list {
			for _, op := range sd.OperationTypes {
				explicit = true
				switch op.Operation {
				case ast.Query:
					roots.Query = op.Type
				case ast.Mutation:
					roots.Mutation = op.Type
				case ast.Subscription:
					roots.Subscription = op.Type
				}
			}
		}
	}
	if explicit {
		return roots
	}

	declared := make(map[string]bool, len(doc.Definitions))
	for _, def := range doc.Definitions {
		declared[def.Name] = true
	}
	if declared["Query"] {
		roots.Query = "Query"
	}
	if declared["Mutation"] {
		roots.Mutation = "Mutation"
	}
	if declared["Subscription"] {
		roots.Subscription = "Subscription"
	}
	return roots
}

func (b *Builder) buildDefinition(def *ast.Definition) Definition {
	meta := Meta{TypeName: def.Name, Desc: def.Description}
	directives := buildDirectiveUsages(def.Directives)

	switch def.Kind {
	case ast.Object:
		return &ObjectType{
			Meta:       meta,
			Interfaces: append([]string{}, def.Interfaces...),
			Fields:     buildFields(def.Fields),
			Directives: directives,
		}
	case ast.Interface:
		return &InterfaceType{
			Meta:       meta,
			Interfaces: append([]string{}, def.Interfaces...),
			Fields:     buildFields(def.Fields),
			Directives: directives,
		}
	case ast.Union:
		return &UnionType{
			Meta:       meta,
			Members:    append([]string{}, def.Types...),
			Directives: directives,
		}
	case ast.Enum:
		values := make([]*EnumValue, 0, len(def.EnumValues))
		for _, v := range def.EnumValues {
			values = append(values, &EnumValue{
				Name:        v.Name,
				Description: v.Description,
				Directives:  buildDirectiveUsages(v.Directives),
			})
		}
		return &EnumType{Meta: meta, Values: values, Directives: directives}
	case ast.InputObject:
		fields := make([]*InputField, 0, len(def.Fields))
		for _, f := range def.Fields {
			fields = append(fields, &InputField{
				Name:         f.Name,
				Description:  f.Description,
				Type:         buildTypeRef(f.Type),
				DefaultValue: printValue(f.DefaultValue),
				Directives:   buildDirectiveUsages(f.Directives),
			})
		}
		return &InputObjectType{Meta: meta, Fields: fields, Directives: directives}
	default:
		return &ScalarType{Meta: meta, Directives: directives}
	}
}

func (b *Builder) buildDirective(dir *ast.DirectiveDefinition) Definition {
	locations := make([]string, 0, len(dir.Locations))
	for _, loc := range dir.Locations {
		locations = append(locations, string(loc))
	}
	return &DirectiveDefinition{
		Meta:       Meta{TypeName: dir.Name, Desc: dir.Description},
		Arguments:  buildArguments(dir.Arguments),
		Locations:  locations,
		Repeatable: dir.IsRepeatable,
	}
}

func buildFields(list ast.FieldList) []*Field {
	fields := make([]*Field, 0, len(list))
	for _, f := range list {
		fields = append(fields, &Field{
			Name:        f.Name,
			Description: f.Description,
			Type:        buildTypeRef(f.Type),
			Arguments:   buildArguments(f.Arguments),
			Directives:  buildDirectiveUsages(f.Directives),
		})
	}
	return fields
}

func buildArguments(list ast.ArgumentDefinitionList) []*Argument {
	args := make([]*Argument, 0, len(list))
	for _, a := range list {
		args = append(args, &Argument{
			Name:         a.Name,
			Description:  a.Description,
			Type:         buildTypeRef(a.Type),
			DefaultValue: printValue(a.DefaultValue),
			Directives:   buildDirectiveUsages(a.Directives),
		})
	}
	return args
}

func buildDirectiveUsages(list ast.DirectiveList) []DirectiveUsage {
	usages := make([]DirectiveUsage, 0, len(list))
	for _, d := range list {
		args := make(map[string]string, len(d.Arguments))
		for _, a := range d.Arguments {
			if a.Value == nil {
				continue
			}
			switch a.Value.Kind {
			case ast.StringValue, ast.BlockValue:
				args[a.Name] = a.Value.Raw
			default:
				args[a.Name] = a.Value.String()
			}
		}
		usages = append(usages, DirectiveUsage{Name: d.Name, Arguments: args})
	}
	return usages
}

func buildTypeRef(t *ast.Type) *TypeRef {
	if t == nil {
		return nil
	}
	ref := &TypeRef{NonNull: t.NonNull}
	if t.Elem != nil {
		ref.Elem = buildTypeRef(t.Elem)
	} else {
		ref.Name = t.NamedType
	}
	return ref
}

func printValue(v *ast.Value) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
