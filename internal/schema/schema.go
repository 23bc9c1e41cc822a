// Package schema models the field tree of one generated record type.
//
// A schema is a root Group whose entries are either Leaf fields (a semantic
// type tag plus options) or nested Groups. Keys are arbitrary strings and
// keep the order in which they were declared.
package schema

// Node is either a *Leaf or a *Group.
type Node interface {
	node()
}

// Leaf is a terminal field carrying a semantic type and optional metadata.
type Leaf struct {
	Kind Kind
	// Tag is the tag as written, without options. It differs from
	// Kind.String() when the tag was not recognized.
	Tag     string
	Options []string
}

// Known reports whether the leaf's tag belongs to the vocabulary.
func (l *Leaf) Known() bool {
	_, ok := tagKinds[l.Tag]
	return ok
}

// Field is one named entry of a Group.
type Field struct {
	Key  string
	Node Node
}

// Group is an ordered set of named fields.
type Group struct {
	Fields []Field
}

func (*Leaf) node()  {}
func (*Group) node() {}

// NewLeaf builds a leaf from a raw tag such as "SELECT#draft,published".
func NewLeaf(raw string) *Leaf {
	tag, opts := SplitTag(raw)
	k, _ := ParseKind(tag)
	return &Leaf{Kind: k, Tag: tag, Options: ParseOptions(opts)}
}

// Add appends a field and returns the group for chaining.
func (g *Group) Add(key string, n Node) *Group {
	g.Fields = append(g.Fields, Field{Key: key, Node: n})
	return g
}

// Len returns the number of direct fields.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Fields)
}

// Get returns the direct child named key.
func (g *Group) Get(key string) (Node, bool) {
	if g == nil {
		return nil, false
	}
	for _, f := range g.Fields {
		if f.Key == key {
			return f.Node, true
		}
	}
	return nil, false
}

// Lookup resolves a path of keys through nested groups.
func (g *Group) Lookup(path ...string) (Node, bool) {
	var cur Node = g
	for _, key := range path {
		grp, ok := cur.(*Group)
		if !ok {
			return nil, false
		}
		if cur, ok = grp.Get(key); !ok {
			return nil, false
		}
	}
	return cur, len(path) > 0
}

// Visitor receives callbacks from Walk. Nil callbacks are skipped.
// path holds the keys of the enclosing groups, not including key.
type Visitor struct {
	Leaf  func(path []string, key string, l *Leaf)
	Enter func(path []string, key string, g *Group)
	Leave func(path []string, key string, g *Group)
}

// Walk traverses g depth first in declaration order.
func Walk(g *Group, v Visitor) {
	walk(g, nil, v)
}

func walk(g *Group, path []string, v Visitor) {
	if g == nil {
		return
	}
	for _, f := range g.Fields {
		switch n := f.Node.(type) {
		case *Leaf:
			if v.Leaf != nil {
				v.Leaf(path, f.Key, n)
			}
		case *Group:
			if v.Enter != nil {
				v.Enter(path, f.Key, n)
			}
			walk(n, appendPath(path, f.Key), v)
			if v.Leave != nil {
				v.Leave(path, f.Key, n)
			}
		}
	}
}

// appendPath copies so callers may retain the slice they were given.
func appendPath(path []string, key string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}

// LeafRef is a leaf together with its full key path.
type LeafRef struct {
	Path []string
	Leaf *Leaf
}

// Key returns the leaf's own key.
func (r LeafRef) Key() string {
	return r.Path[len(r.Path)-1]
}

// Leaves flattens g into its leaves in traversal order.
func Leaves(g *Group) []LeafRef {
	var out []LeafRef
	Walk(g, Visitor{
		Leaf: func(path []string, key string, l *Leaf) {
			out = append(out, LeafRef{Path: appendPath(path, key), Leaf: l})
		},
	})
	return out
}
