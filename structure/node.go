package structure

// NodeData is the payload of a [Node]. The set of implementations is closed:
// [Tag], [Text], [Expression], [SimpleStatement], [CompoundStatement], [Partial] and [Root].
type NodeData interface {
	nodeData()
}

// AttributeSet is one element of [Tag.Attributes], either [StaticAttributes] or [DynamicAttributes].
type AttributeSet interface {
	attributeSet()
}

// Attribute is a single key of a static attribute set. Bare attribute names carry Bool set to true.
type Attribute struct {
	Key   string
	Value string
	Bool  bool
}

// StaticAttributes is an ordered key->value mapping known at compile time.
// Setting an existing key replaces its value but keeps its position.
type StaticAttributes struct {
	Items []Attribute
}

func (*StaticAttributes) attributeSet() {}

// Set stores the value for key.
func (s *StaticAttributes) Set(attr Attribute) {
	for i := range s.Items {
		if s.Items[i].Key == attr.Key {
			s.Items[i] = attr
			return
		}
	}
	s.Items = append(s.Items, attr)
}

// Get returns the attribute stored for key.
func (s *StaticAttributes) Get(key string) (Attribute, bool) {
	for _, attr := range s.Items {
		if attr.Key == key {
			return attr, true
		}
	}
	return Attribute{}, false
}

// DynamicAttributes is a host-language expression producing a dict at render time.
type DynamicAttributes struct {
	Source string
}

func (*DynamicAttributes) attributeSet() {}

// Tag is a markup element.
type Tag struct {
	// Name is the element name. An empty name renders as "div".
	Name string

	ID    string
	HasID bool

	// Classes holds unique class names in declaration order.
	Classes []string

	Attributes []AttributeSet
}

func (*Tag) nodeData() {}

// AddClass appends class unless it is already present.
func (t *Tag) AddClass(class string) {
	for _, c := range t.Classes {
		if c == class {
			return
		}
	}
	t.Classes = append(t.Classes, class)
}

// IsStatic reports whether the opening tag can be computed at compile time.
func (t *Tag) IsStatic() bool {
	if len(t.Attributes) == 0 {
		return true
	}
	if len(t.Attributes) > 1 {
		return false
	}
	_, ok := t.Attributes[0].(*StaticAttributes)
	return ok
}

// Text is literal text.
type Text struct {
	Content string
	Escape  bool
}

func (*Text) nodeData() {}

// Expression outputs the value of a host-language expression.
type Expression struct {
	Content string
	Escape  bool
}

func (*Expression) nodeData() {}

// SimpleStatement is a host-language statement without a body.
type SimpleStatement struct {
	Content string

	// Keyword is the leading control keyword, if any. See [StatementKeywords].
	Keyword string
}

func (*SimpleStatement) nodeData() {}

// StatementKeywords are the keywords recorded in [SimpleStatement.Keyword].
var StatementKeywords = map[string]bool{
	"return":   true,
	"break":    true,
	"continue": true,
	"yield":    true,
	"raise":    true,
	"pass":     true,
	"assert":   true,
	"del":      true,
	"import":   true,
	"global":   true,
	"nonlocal": true,
}

// CompoundStatement is a host-language statement owning a body, e.g. "for a in b:".
type CompoundStatement struct {
	// Keyword is one of if, elif, else, for and while.
	Keyword string

	// Content is the complete header line including the trailing colon.
	Content string
}

func (*CompoundStatement) nodeData() {}

// Partial is a named, callable fragment of the template.
type Partial struct {
	Name string

	// Params is the raw parameter list source, without parentheses.
	Params string
}

func (*Partial) nodeData() {}

// Root owns the main body of the template.
type Root struct{}

func (*Root) nodeData() {}

// Node is an entry of the [Tree] arena. Links are indices into the arena, -1 when absent.
type Node struct {
	Data NodeData

	Parent      int
	Root        int
	PrevSibling int
	NextSibling int
	FirstChild  int
	LastChild   int
	ChildCount  int
}
