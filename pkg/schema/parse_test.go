package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSDL = `
"""
A blog post
"""
type Post implements Node {
  id: ID!
  title(locale: String = "en"): String @deprecated(reason: "Use headline")
  tags: [String!]!
}

interface Node {
  id: ID!
}

directive @auth(role: String!) repeatable on FIELD_DEFINITION | OBJECT

union SearchResult = Post | Comment

enum Color {
  RED
  GREEN @deprecated
}

input PostFilter {
  first: Int = 10
  term: String!
}

scalar DateTime

type Comment {
  body: String
}

extend type Comment {
  author: String
}

type Query {
  post(id: ID!): Post
}
`

func TestParse_DeclarationOrder(t *testing.T) {
	m, err := Parse(Source{Name: "schema.graphql", Body: sampleSDL})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Post", "Node", "@auth", "SearchResult", "Color", "PostFilter",
		"DateTime", "Comment", "Query",
	}, m.Names())
	assert.Equal(t, 9, m.Len())
	assert.Equal(t, "Query", m.Roots.Query)
	assert.Empty(t, m.Roots.Mutation)
}

func TestParse_Variants(t *testing.T) {
	m, err := Parse(Source{Name: "schema.graphql", Body: sampleSDL})
	require.NoError(t, err)

	def, ok := m.Lookup("Post")
	require.True(t, ok)
	post, ok := def.(*ObjectType)
	require.True(t, ok)
	assert.Equal(t, KindObject, post.Kind())
	assert.Equal(t, "A blog post", post.Description())
	assert.Equal(t, []string{"Node"}, post.Interfaces)
	require.Len(t, post.Fields, 3)

	title := post.Fields[1]
	assert.Equal(t, "String", title.Type.String())
	require.Len(t, title.Arguments, 1)
	require.NotNil(t, title.Arguments[0].DefaultValue)
	assert.Equal(t, `"en"`, *title.Arguments[0].DefaultValue)
	deprecated, reason := Deprecation(title.Directives)
	assert.True(t, deprecated)
	assert.Equal(t, "Use headline", reason)

	assert.Equal(t, "[String!]!", post.Fields[2].Type.String())
	assert.Equal(t, "String", post.Fields[2].Type.NamedType())

	def, ok = m.Lookup("@auth")
	require.True(t, ok)
	auth := def.(*DirectiveDefinition)
	assert.True(t, auth.Repeatable)
	assert.Equal(t, []string{"FIELD_DEFINITION", "OBJECT"}, auth.Locations)

	def, _ = m.Lookup("SearchResult")
	assert.Equal(t, []string{"Post", "Comment"}, def.(*UnionType).Members)

	def, _ = m.Lookup("Color")
	enum := def.(*EnumType)
	require.Len(t, enum.Values, 2)
	deprecated, reason = Deprecation(enum.Values[1].Directives)
	assert.True(t, deprecated)
	assert.Equal(t, DefaultDeprecationReason, reason)

	def, _ = m.Lookup("PostFilter")
	input := def.(*InputObjectType)
	require.Len(t, input.Fields, 2)
	assert.Equal(t, "10", *input.Fields[0].DefaultValue)
	assert.Nil(t, input.Fields[1].DefaultValue)

	def, _ = m.Lookup("DateTime")
	assert.Equal(t, KindScalar, def.Kind())
}

func TestParse_MergesExtensions(t *testing.T) {
	m, err := Parse(Source{Name: "schema.graphql", Body: sampleSDL})
	require.NoError(t, err)

	def, ok := m.Lookup("Comment")
	require.True(t, ok)
	fields := def.(*ObjectType).Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "author", fields[1].Name)
}

func TestParse_ExplicitSchemaRoots(t *testing.T) {
	m, err := Parse(Source{Body: `
schema { query: RootQuery mutation: RootMutation }
type RootQuery { a: Int }
type RootMutation { b: Int }
type Query { c: Int }
`})
	require.NoError(t, err)
	assert.Equal(t, RootTypes{Query: "RootQuery", Mutation: "RootMutation"}, m.Roots)
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse(Source{Name: "broken.graphql", Body: "type Post {"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.graphql")
}

func TestLoad(t *testing.T) {
	snap, err := Load(SourcePair{
		Old: Source{Body: "type A { x: Int }"},
		New: Source{Body: "type A { x: Int } type B { y: Int }"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Old.Len())
	assert.Equal(t, 2, snap.New.Len())

	_, err = Load(SourcePair{Old: Source{Body: "type {"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "old schema")

	_, err = Load(SourcePair{Old: Source{Body: "type A { x: Int }"}, New: Source{Body: "type {"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new schema")
}

func TestNewTypeMap_SkipsNilAndReplacesDuplicates(t *testing.T) {
	first := &ScalarType{Meta: Meta{TypeName: "A", Desc: "first"}}
	second := &ScalarType{Meta: Meta{TypeName: "A", Desc: "second"}}
	m := NewTypeMap(RootTypes{}, first, nil, second)

	assert.Equal(t, []string{"A"}, m.Names())
	def, _ := m.Lookup("A")
	assert.Equal(t, "second", def.Description())

	var empty *TypeMap
	assert.Equal(t, 0, empty.Len())
	_, ok := empty.Lookup("A")
	assert.False(t, ok)
}

func TestTypeRef_String(t *testing.T) {
	ref := &TypeRef{NonNull: true, Elem: &TypeRef{Elem: &TypeRef{Name: "Int", NonNull: true}}}
	assert.Equal(t, "[[Int!]]!", ref.String())
	assert.Equal(t, "Int", ref.NamedType())

	var nilRef *TypeRef
	assert.Equal(t, "", nilRef.String())
	assert.Equal(t, "", nilRef.NamedType())
}
