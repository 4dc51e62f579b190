package schema

// RootTypes names the root operation types of a schema
type RootTypes struct {
	Query        string
	Mutation     string
	Subscription string
}

// TypeMap is an immutable, declaration-ordered mapping from name to definition.
// Directive definitions are keyed with a leading '@'.
type TypeMap struct {
	Roots RootTypes

	order []string
	defs  map[string]Definition
}

// NewTypeMap builds a TypeMap preserving the order of defs.
// A later definition with a duplicate key replaces the earlier one in place.
func NewTypeMap(roots RootTypes, defs ...Definition) *TypeMap {
	m := &TypeMap{
		Roots: roots,
		order: make([]string, 0, len(defs)),
		defs:  make(map[string]Definition, len(defs)),
	}
	for _, def := range defs {
		if def == nil {
			continue
		}
		key := Key(def)
		if _, exists := m.defs[key]; !exists {
			m.order = append(m.order, key)
		}
		m.defs[key] = def
	}
	return m
}

// Key returns the TypeMap key of a definition
func Key(def Definition) string {
	if def.Kind() == KindDirective {
		return "@" + def.Name()
	}
	return def.Name()
}

// Lookup returns the definition stored under key
func (m *TypeMap) Lookup(key string) (Definition, bool) {
	if m == nil {
		return nil, false
	}
	def, ok := m.defs[key]
	return def, ok
}

// Names returns all keys in declaration order
func (m *TypeMap) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// Len returns the number of definitions
func (m *TypeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Snapshot pairs the old and new type systems being compared
type Snapshot struct {
	Old *TypeMap
	New *TypeMap
}

// Source is the original text of a schema document
type Source struct {
	Name string
	Body string
}

// SourcePair holds the old and new schema text, used only for line lookup
type SourcePair struct {
	Old Source
	New Source
}
