// Package sdl locates change paths in SDL source text.
package sdl

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/lexer"

	"github.com/cameron-headspace/graphql-inspector/pkg/schema"
)

// FallbackLine is reported when a path cannot be located
const FallbackLine = 1

var definitionKeywords = map[string]bool{
	"type":      true,
	"interface": true,
	"union":     true,
	"enum":      true,
	"input":     true,
	"scalar":    true,
	"directive": true,
}

// Member is a field, input field, enum value or directive argument together
// with the lines of its own arguments
type Member struct {
	Name      string
	Line      int
	Arguments map[string]int
}

// Block is one declaration of a named definition. A type declared once and
// extended twice has three blocks.
type Block struct {
	Name    string // "@name" for directive definitions
	Line    int
	Extend  bool
	Members []*Member
}

// Document is the structural index of an SDL source
type Document struct {
	Blocks []*Block
}

// Index lexes body and records the line of every definition, member and
// member argument. Comments and strings are single tokens, so their contents
// never produce entries. Lines follow the GraphQL line terminators: LF, CRLF
// and a lone CR.
func Index(body string) (*Document, error) {
	lex := lexer.New(&ast.Source{Input: body})
	ix := &indexer{doc: &Document{}}
	for {
		tok, err := lex.ReadToken()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case lexer.EOF:
			return ix.doc, nil
		case lexer.Comment:
			continue
		}
		ix.feed(tok)
	}
}

// indexer walks significant tokens and tracks nesting depth
type indexer struct {
	doc *Document

	braces, parens, brackets int

	prev, prevPrev lexer.Token

	block        *Block
	member       *Member
	extend       bool
	expectName   bool // a definition keyword was seen at depth 0
	directiveDef bool // the keyword was "directive"
	skipParens   int  // paren depth of a directive usage being skipped, 0 when none
	argOwner     *Member
	declStart    int // rune offset of the most recent definition name
}

func (ix *indexer) topLevel() bool {
	return ix.braces == 0 && ix.parens == 0 && ix.brackets == 0
}

func (ix *indexer) feed(tok lexer.Token) {
	defer func() {
		ix.prevPrev = ix.prev
		ix.prev = tok
	}()

	if tok.Kind == lexer.Name {
		ix.name(tok)
		return
	}
	ix.punct(tok)
}

func (ix *indexer) name(tok lexer.Token) {
	if ix.topLevel() {
		switch {
		case ix.expectName:
			// directive names follow '@', which is not a name token
			name := tok.Value
			if ix.directiveDef {
				name = "@" + name
			}
			ix.block = &Block{Name: name, Line: tok.Pos.Line, Extend: ix.extend}
			ix.declStart = tok.Pos.Start
			ix.doc.Blocks = append(ix.doc.Blocks, ix.block)
			ix.member = nil
			ix.expectName = false
			ix.extend = false
		case tok.Value == "extend" && !ix.afterValueSeparator():
			ix.extend = true
		case definitionKeywords[tok.Value] && !ix.afterValueSeparator():
			ix.expectName = true
			ix.directiveDef = tok.Value == "directive"
			ix.block = nil
		case tok.Value == "schema" && !ix.afterValueSeparator():
			ix.block = nil
			ix.extend = false
		}
		return
	}

	if ix.block == nil || ix.skipParens > 0 || ix.brackets > 0 || ix.afterValueSeparator() {
		return
	}

	switch {
	// members of a type body
	case !ix.block.isDirective() && ix.braces == 1 && ix.parens == 0:
		ix.member = &Member{Name: tok.Value, Line: tok.Pos.Line, Arguments: map[string]int{}}
		ix.block.Members = append(ix.block.Members, ix.member)
	// arguments of a field
	case !ix.block.isDirective() && ix.braces == 1 && ix.parens == 1 && ix.argOwner != nil:
		if _, seen := ix.argOwner.Arguments[tok.Value]; !seen {
			ix.argOwner.Arguments[tok.Value] = tok.Pos.Line
		}
	// arguments of a directive definition are its members
	case ix.block.isDirective() && ix.braces == 0 && ix.parens == 1:
		ix.block.Members = append(ix.block.Members, &Member{Name: tok.Value, Line: tok.Pos.Line, Arguments: map[string]int{}})
	}
}

// afterValueSeparator reports whether the previous token makes the current
// name a type reference, a directive usage or a value rather than a declaration
func (ix *indexer) afterValueSeparator() bool {
	switch ix.prev.Kind {
	case lexer.Colon, lexer.Equals, lexer.At, lexer.Pipe, lexer.Amp:
		return true
	case lexer.Name:
		return ix.prev.Value == "implements"
	}
	return false
}

func (ix *indexer) punct(tok lexer.Token) {
	switch tok.Kind {
	case lexer.BraceL:
		ix.braces++
		if ix.braces == 1 && ix.parens == 0 {
			ix.member = nil
		}
	case lexer.BraceR:
		if ix.braces > 0 {
			ix.braces--
		}
	case lexer.BracketL:
		ix.brackets++
	case lexer.BracketR:
		if ix.brackets > 0 {
			ix.brackets--
		}
	case lexer.ParenL:
		ix.parens++
		if ix.skipParens > 0 {
			return
		}
		// '(' right after '@name' opens the arguments of a directive usage,
		// unless '@name' is the directive being defined
		usage := ix.prev.Kind == lexer.Name && ix.prevPrev.Kind == lexer.At
		if usage && !(ix.block != nil && ix.block.isDirective() && ix.prev.Pos.Start == ix.declStart) {
			ix.skipParens = ix.parens
			return
		}
		if ix.parens == 1 {
			ix.argOwner = ix.member
		}
	case lexer.ParenR:
		if ix.parens > 0 {
			if ix.skipParens == ix.parens {
				ix.skipParens = 0
			}
			ix.parens--
		}
		if ix.parens == 0 {
			ix.argOwner = nil
		}
	}
}

func (b *Block) isDirective() bool {
	return strings.HasPrefix(b.Name, "@")
}

// Locator resolves change paths to lines of one SDL source
type Locator struct {
	blocks map[string][]*Block
}

// NewLocator indexes body. A body that cannot be lexed yields a Locator
// that finds nothing.
func NewLocator(body string) *Locator {
	l := &Locator{blocks: map[string][]*Block{}}
	doc, err := Index(body)
	if err != nil {
		return l
	}
	for _, b := range doc.Blocks {
		l.blocks[b.Name] = append(l.blocks[b.Name], b)
	}
	return l
}

// Has reports whether the source declares the named definition
func (l *Locator) Has(name string) bool {
	return len(l.blocks[name]) > 0
}

// Locate returns the line of the deepest element of path found in the source:
// the definition, then the member, then the member's argument.
func (l *Locator) Locate(path string) (int, bool) {
	if path == "" {
		return 0, false
	}
	segments := strings.Split(path, ".")
	blocks := l.blocks[segments[0]]
	if len(blocks) == 0 {
		return 0, false
	}

	line := blocks[0].Line
	if len(segments) < 2 {
		return line, true
	}

	for _, b := range blocks {
		for _, m := range b.Members {
			if m.Name != segments[1] {
				continue
			}
			if len(segments) > 2 {
				if argLine, ok := m.Arguments[segments[2]]; ok {
					return argLine, true
				}
			}
			return m.Line, true
		}
	}
	return line, true
}

// PairLocator resolves paths against the new source first and falls back to
// the old source for definitions the new source no longer declares
type PairLocator struct {
	old *Locator
	new *Locator
}

// NewPairLocator indexes both sides of a source pair
func NewPairLocator(sources schema.SourcePair) *PairLocator {
	return &PairLocator{
		old: NewLocator(sources.Old.Body),
		new: NewLocator(sources.New.Body),
	}
}

// Line returns the line for path, or FallbackLine when nothing matches
func (p *PairLocator) Line(path string) int {
	top, _, _ := strings.Cut(path, ".")
	if p.new.Has(top) {
		if line, ok := p.new.Locate(path); ok {
			return line
		}
		return FallbackLine
	}
	if line, ok := p.old.Locate(path); ok {
		return line
	}
	return FallbackLine
}

// LocateChange returns the line a change path points at. It never fails.
func LocateChange(sources schema.SourcePair, path string) int {
	return NewPairLocator(sources).Line(path)
}
