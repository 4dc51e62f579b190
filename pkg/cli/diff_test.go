package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameron-headspace/graphql-inspector/pkg/check"
	"github.com/cameron-headspace/graphql-inspector/pkg/diff"
)

const oldSchema = `
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

const newSchema = `
  type Post {
    id: ID!
    title: String!
    createdAt: String!
  }

  type Query {
    post: Post!
  }
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func writeSchema(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDiff_TextOutput(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeSchema(t, dir, "old.graphql", oldSchema)
	newPath := writeSchema(t, dir, "new.graphql", newSchema)

	out, err := runCommand(t, "diff", oldPath, newPath, "--path", "schema.graphql")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "Detected 7 changes")
	assert.Contains(t, out, "✖ Field 'modifiedAt' was removed from object type 'Post'  (schema.graphql:2)")
	assert.Contains(t, out, "5 breaking")
	assert.Contains(t, out, "Conclusion: failure")
}

func TestDiff_NoChanges(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeSchema(t, dir, "old.graphql", newSchema)
	newPath := writeSchema(t, dir, "new.graphql", newSchema)

	out, err := runCommand(t, "diff", oldPath, newPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No changes detected")
	assert.Contains(t, out, "Conclusion: success")
}

func TestDiff_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeSchema(t, dir, "old.graphql", oldSchema)
	newPath := writeSchema(t, dir, "new.graphql", newSchema)

	out, err := runCommand(t, "diff", oldPath, newPath, "--format", "json")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result diff.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Changes, 7)
	assert.Len(t, result.Annotations, 7)
	assert.Equal(t, check.Failure, result.Conclusion)
	// the label defaults to the new schema path
	assert.Equal(t, newPath, result.Annotations[0].Path)
}

func TestDiff_GitHubOutput(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeSchema(t, dir, "old.graphql", oldSchema)
	newPath := writeSchema(t, dir, "new.graphql", newSchema)

	out, err := runCommand(t, "diff", oldPath, newPath, "--format", "github", "--path", "schema.graphql")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0],
		"::error file=schema.graphql,line=2,endLine=2,title=Field 'modifiedAt' was removed from object type 'Post'::"), lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "::notice "))
	assert.True(t, strings.HasPrefix(lines[4], "::warning "))
}

func TestDiff_FailOnDangerous(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeSchema(t, dir, "old.graphql", "type Query { a(x: Int = 1): Int }")
	newPath := writeSchema(t, dir, "new.graphql", "type Query { a(x: Int = 2): Int }")

	_, err := runCommand(t, "diff", oldPath, newPath)
	assert.NoError(t, err)

	_, err = runCommand(t, "diff", oldPath, newPath, "--fail-on-dangerous")
	assert.ErrorIs(t, err, ErrCheckFailed)
}

func TestDiff_Rules(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeSchema(t, dir, "old.graphql", `type Query { "first" x: Int }`)
	newPath := writeSchema(t, dir, "new.graphql", `type Query { "second" x: Int }`)

	out, err := runCommand(t, "diff", oldPath, newPath, "--rule", "ignoreDescriptionChanges")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes detected")

	_, err = runCommand(t, "diff", oldPath, newPath, "--rule", "noSuchRule")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown rule")
}

func TestDiff_InterceptorOverridesConclusion(t *testing.T) {
	interceptorServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conclusion":"neutral"}`))
	}))
	defer interceptorServer.Close()

	dir := t.TempDir()
	oldPath := writeSchema(t, dir, "old.graphql", oldSchema)
	newPath := writeSchema(t, dir, "new.graphql", newSchema)

	out, err := runCommand(t, "diff", oldPath, newPath, "--interceptor", interceptorServer.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Conclusion: neutral")
}

func TestDiff_CommandErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeSchema(t, dir, "valid.graphql", newSchema)
	broken := writeSchema(t, dir, "broken.graphql", "type Post {")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing args", args: []string{"diff", valid}, wantErr: "accepts 2 arg(s)"},
		{name: "bad format", args: []string{"diff", valid, valid, "--format", "xml"}, wantErr: "invalid format"},
		{name: "missing file", args: []string{"diff", filepath.Join(dir, "nope.graphql"), valid}, wantErr: "failed to read old schema"},
		{name: "parse error", args: []string{"diff", valid, broken}, wantErr: "new schema"},
		{name: "bad interceptor", args: []string{"diff", valid, valid, "--interceptor", "ftp://x"}, wantErr: "invalid interceptor URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEscaping(t *testing.T) {
	assert.Equal(t, "a%25b%0Dc%0Ad", escapeData("a%b\rc\nd"))
	assert.Equal(t, "a%3Ab%2Cc", escapeProperty("a:b,c"))
	assert.Equal(t, "a:b,c", escapeData("a:b,c"))
}

func TestWorkflowCommand(t *testing.T) {
	assert.Equal(t, "error", workflowCommand(check.LevelFailure))
	assert.Equal(t, "warning", workflowCommand(check.LevelWarning))
	assert.Equal(t, "notice", workflowCommand(check.LevelNotice))
}
