package sdl

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

func printedLine(body string, line int) string {
	return strings.TrimSpace(regexp.MustCompile(`\r\n|[\n\r]`).Split(body, -1)[line-1])
}

const postsOld = `
  type Post {
    id: ID
    title: String @deprecated(reason: "No more used")
    createdAt: String
    modifiedAt: String
  }

  type Query {
    post: Post!
    posts: [Post!]
  }
`

const postsNew = `
  type Post {
    id: ID!
    title: String!
    createdAt: String!
  }

  type Query {
    post(id: ID!, "lookup mode" mode: Mode = FAST): Post!
  }
`

func TestLocateChange_PostsExample(t *testing.T) {
	sources := schema.SourcePair{
		Old: schema.Source{Body: postsOld},
		New: schema.Source{Body: postsNew},
	}

	tests := []struct {
		path     string
		expected string
	}{
		{path: "Post.modifiedAt", expected: "type Post {"},
		{path: "Post.createdAt", expected: "createdAt: String!"},
		{path: "Post.title.deprecated", expected: "title: String!"},
		{path: "Query.posts", expected: "type Query {"},
		{path: "Query.post.mode", expected: `post(id: ID!, "lookup mode" mode: Mode = FAST): Post!`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, printedLine(postsNew, LocateChange(sources, tt.path)))
		})
	}
}

func TestLocateChange_CommentsAndDescriptions(t *testing.T) {
	oldSDL := `
      # This is an autogenerated file.
      # Please do not edit it directly.

      """
      Represents meta information about this service.
      """
      type Meta {
        """
        A short description of the service.
        """
        description: String!

        name: String!

        """
        Version number of the service.
        """
        version: String!
      }
`
	newSDL := `
      # This is an autogenerated file.
      # Please do not edit it directly.
      # type Meta {

      """
      Represents a user of the application.
      type Meta {
      """
      type User {
        """
        The user's email.
        name: String
        """
        email: String!

        """
        The user's first name.
        """
        firstName: String!
      }

      """
      Represents meta information about this service.
      """
      type Meta {
        """
        A short description of the service.
        """
        description: String!
        name: String
      }
`
	sources := schema.SourcePair{
		Old: schema.Source{Body: oldSDL},
		New: schema.Source{Body: newSDL},
	}

	assert.Equal(t, "type User {", printedLine(newSDL, LocateChange(sources, "User")))
	assert.Equal(t, "type Meta {", printedLine(newSDL, LocateChange(sources, "Meta.version")))
	assert.Equal(t, "name: String", printedLine(newSDL, LocateChange(sources, "Meta.name")))

	// the commented and described copies of "type Meta {" come first but are not declarations
	line := LocateChange(sources, "Meta")
	assert.Greater(t, line, 20)
}

func TestLocateChange_FallsBackToOldSource(t *testing.T) {
	sources := schema.SourcePair{
		Old: schema.Source{Body: "type Query { a: Int }\n\ntype Gone {\n  x: Int\n}\n"},
		New: schema.Source{Body: "type Query { a: Int }\n"},
	}

	assert.Equal(t, 3, LocateChange(sources, "Gone"))
	assert.Equal(t, 4, LocateChange(sources, "Gone.x"))
	assert.Equal(t, FallbackLine, LocateChange(sources, "Missing.field"))
	assert.Equal(t, FallbackLine, LocateChange(sources, ""))
}

func TestLocateChange_Unscannable(t *testing.T) {
	sources := schema.SourcePair{
		Old: schema.Source{Body: `type Post { "unterminated }`},
		New: schema.Source{Body: ""},
	}
	assert.Equal(t, FallbackLine, LocateChange(sources, "Post"))
}

func TestIndex_Definitions(t *testing.T) {
	body := `directive @auth(
  role: String! = "user"
  scopes: [String!]
) repeatable on FIELD_DEFINITION | OBJECT

type Post @key(fields: "id") {
  id: ID!
  title(locale: String @since(version: 2)): String @deprecated(reason: "x")
  meta: Meta = { a: 1 }
}

extend type Post {
  author: String
}

enum Color { RED GREEN @deprecated BLUE }

union SearchResult = Post | Comment

schema { query: Query }
`
	doc, err := Index(body)
	require.NoError(t, err)

	var names []string
	for _, b := range doc.Blocks {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"@auth", "Post", "Post", "Color", "SearchResult"}, names)

	auth := doc.Blocks[0]
	require.Len(t, auth.Members, 2)
	assert.Equal(t, "role", auth.Members[0].Name)
	assert.Equal(t, 2, auth.Members[0].Line)
	assert.Equal(t, 3, auth.Members[1].Line)

	post := doc.Blocks[1]
	var members []string
	for _, m := range post.Members {
		members = append(members, m.Name)
	}
	assert.Equal(t, []string{"id", "title", "meta"}, members)
	assert.Equal(t, map[string]int{"locale": 8}, post.Members[1].Arguments)

	assert.True(t, doc.Blocks[2].Extend)

	var values []string
	for _, m := range doc.Blocks[3].Members {
		values = append(values, m.Name)
	}
	assert.Equal(t, []string{"RED", "GREEN", "BLUE"}, values)

	l := NewLocator(body)
	line, ok := l.Locate("@auth.scopes")
	assert.True(t, ok)
	assert.Equal(t, 3, line)

	line, ok = l.Locate("Post.author")
	assert.True(t, ok)
	assert.Equal(t, 13, line)

	line, ok = l.Locate("Post.title.locale")
	assert.True(t, ok)
	assert.Equal(t, 8, line)

	_, ok = l.Locate("Query")
	assert.False(t, ok)
}

func TestLocateChange_LineTerminators(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "LF", body: "type A {\n  a: Int\n  b: Int\n}\n"},
		{name: "CRLF", body: "type A {\r\n  a: Int\r\n  b: Int\r\n}\r\n"},
		{name: "CR", body: "type A {\r  a: Int\r  b: Int\r}\r"},
		{name: "mixed", body: "type A {\r\n  a: Int\r  b: Int\n}\n"},
		{name: "BOM", body: "\uFEFFtype A {\n  a: Int\n  b: Int\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := schema.SourcePair{New: schema.Source{Body: tt.body}}
			assert.Equal(t, 1, LocateChange(sources, "A"))
			assert.Equal(t, 2, LocateChange(sources, "A.a"))
			assert.Equal(t, 3, LocateChange(sources, "A.b"))
		})
	}
}

func TestIndex_MultilineDescriptionsKeepLines(t *testing.T) {
	body := "\"\"\"\r\nfirst\r\nsecond\r\n\"\"\"\rtype A {\r  # a: Int\r  b: Int\r}\r"
	l := NewLocator(body)

	line, ok := l.Locate("A")
	assert.True(t, ok)
	assert.Equal(t, 5, line)

	line, ok = l.Locate("A.b")
	assert.True(t, ok)
	assert.Equal(t, 7, line)
}
