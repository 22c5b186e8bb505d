// Package catalog models the external metadata catalog the analyzer
// navigates: containers, entities, attributes, procedures, aliases, and
// unresolved references. It never implements a concrete backend itself —
// callers supply a Driver (see pkg/fixturecatalog for an in-memory one)
// and the Navigator in this package handles monitor-mode selection and
// error containment around it.
package catalog

import "context"

// Kind tags the variant of a catalog Object.
type Kind int

const (
	KindContainer Kind = iota
	KindEntity
	KindAttribute
	KindProcedure
	KindAlias
	KindObjectReference
	// KindAny matches every kind; used by StructureAssistant.Find for
	// the cross-type fuzzy fallback search (§4.4.2's "consult a
	// structure assistant" fallback), which isn't restricted to one
	// object class.
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindEntity:
		return "entity"
	case KindAttribute:
		return "attribute"
	case KindProcedure:
		return "procedure"
	case KindAlias:
		return "alias"
	case KindObjectReference:
		return "object-reference"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// Object is the tagged-variant catalog entity contract. Every concrete
// type in this package implements it; callers type-switch on Kind() or
// use one of the narrow capability interfaces below rather than asserting
// concrete types directly.
type Object interface {
	Kind() Kind
	Name() string
	// Parent is the enclosing container, or nil at the catalog root.
	Parent() Object
	// Hidden marks an object the navigator should never enumerate
	// directly (system columns, internal containers) but may still
	// traverse through.
	Hidden() bool
}

// HasChildren is implemented by objects that can enumerate child
// objects — Containers, and Entities exposing their attributes through
// the unified child-enumeration path.
type HasChildren interface {
	Children(ctx context.Context, mon Monitor) ([]Object, error)
}

// HasAttributes is implemented by Entity.
type HasAttributes interface {
	Attributes(ctx context.Context, mon Monitor) ([]*Attribute, error)
}

// HasAssociations is implemented by Entity; an association models a
// foreign-key-like link used for join-condition synthesis.
type HasAssociations interface {
	Associations(ctx context.Context, mon Monitor) ([]Association, error)
}

// Association links an entity's local attribute to a referenced entity's
// attribute, in either direction.
type Association struct {
	LocalEntity *Entity
	LocalColumn string
	RefEntity   *Entity
	RefColumn   string
}

// Aliasing is implemented by Alias, and resolves to the object the alias
// stands for.
type Aliasing interface {
	ResolveAlias(ctx context.Context, mon Monitor) (Object, error)
}

// base holds the fields shared by every concrete catalog type.
type base struct {
	name   string
	parent Object
	hidden bool
}

func (b *base) Name() string   { return b.name }
func (b *base) Parent() Object { return b.parent }
func (b *base) Hidden() bool   { return b.hidden }

// GlobFilter is an include/exclude glob-pattern pair for one object kind.
// A nil/empty Include allows everything through before Exclude is
// applied; a non-empty Include restricts to names matching at least one
// pattern. Patterns use path.Match syntax.
type GlobFilter struct {
	Include []string
	Exclude []string
}

// Container is a namespace-like object (catalog, schema, data source
// root) with children and optional caching.
type Container struct {
	base
	children []Object
	cached   bool
	filters  map[Kind]GlobFilter
}

// NewContainer builds a Container with a fixed child set, as a fixture
// catalog or test double would.
func NewContainer(name string, parent Object, children []Object) *Container {
	return &Container{base: base{name: name, parent: parent}, children: children, cached: true}
}

// SetFilter installs the data source's per-object-class glob filter for
// kind, consulted by the post-filter's user-filter step.
func (c *Container) SetFilter(kind Kind, f GlobFilter) {
	if c.filters == nil {
		c.filters = make(map[Kind]GlobFilter)
	}
	c.filters[kind] = f
}

// Filter returns the glob filter configured for kind, if any.
func (c *Container) Filter(kind Kind) (GlobFilter, bool) {
	f, ok := c.filters[kind]
	return f, ok
}

// SetChildren replaces the container's child list. Exposed separately
// from the constructor because a fixture catalog often must construct a
// container first (so entities can name it as their parent) and only
// then build the entities that become its children.
func (c *Container) SetChildren(children []Object) { c.children = children }

func (c *Container) Kind() Kind { return KindContainer }

func (c *Container) Children(ctx context.Context, mon Monitor) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.children, nil
}

// Cached reports whether the container's child list is already resident
// (vs requiring a Driver round trip to populate).
func (c *Container) Cached() bool { return c.cached }

// Entity is a table/view-like object with attributes and associations.
type Entity struct {
	base
	attributes   []*Attribute
	associations []Association
}

// NewEntity builds an Entity with a fixed attribute set.
func NewEntity(name string, parent Object, attributes []*Attribute) *Entity {
	e := &Entity{base: base{name: name, parent: parent}, attributes: attributes}
	for _, a := range attributes {
		a.parent = e
	}
	return e
}

func (e *Entity) Kind() Kind { return KindEntity }

func (e *Entity) Children(ctx context.Context, mon Monitor) ([]Object, error) {
	attrs, err := e.Attributes(ctx, mon)
	if err != nil {
		return nil, err
	}
	out := make([]Object, len(attrs))
	for i, a := range attrs {
		out[i] = a
	}
	return out, nil
}

func (e *Entity) Attributes(ctx context.Context, mon Monitor) ([]*Attribute, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.attributes, nil
}

func (e *Entity) Associations(ctx context.Context, mon Monitor) ([]Association, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.associations, nil
}

// SetAssociations replaces the entity's association list. Exposed
// separately from the constructor because associations are often wired
// up after both entities already exist (a FK references both sides).
func (e *Entity) SetAssociations(assoc []Association) { e.associations = assoc }

// ValueSource describes how an Attribute's completion values are
// produced when show-values is enabled.
type ValueSource int

const (
	// ValueSourceNone means the attribute has no enumerable values.
	ValueSourceNone ValueSource = iota
	// ValueSourceDictionary means values come from a referenced
	// label/value dictionary (e.g. a lookup table).
	ValueSourceDictionary
	// ValueSourceEnumerable means the attribute itself can be asked for
	// its distinct values (e.g. a small-cardinality column).
	ValueSourceEnumerable
)

// Attribute is a typed column, optionally enumerable for value proposals.
type Attribute struct {
	base
	Type        string
	ValueSource ValueSource
	// DictionaryValues backs ValueSourceDictionary: label -> value.
	DictionaryValues []DictionaryValue
	// EnumerableValues backs ValueSourceEnumerable.
	EnumerableValues []string
}

// DictionaryValue is one label/value pair from a referenced dictionary.
type DictionaryValue struct {
	Label string
	Value string
}

// NewAttribute builds a plain, non-enumerable Attribute.
func NewAttribute(name, sqlType string) *Attribute {
	return &Attribute{base: base{name: name}, Type: sqlType}
}

func (a *Attribute) Kind() Kind { return KindAttribute }

// Procedure is a stored procedure or function.
type Procedure struct {
	base
	Parameters []string
	IsFunction bool
}

// NewProcedure builds a Procedure.
func NewProcedure(name string, parent Object, params []string, isFunction bool) *Procedure {
	return &Procedure{base: base{name: name, parent: parent}, Parameters: params, IsFunction: isFunction}
}

func (p *Procedure) Kind() Kind { return KindProcedure }

// Alias resolves to another catalog object; statement-level table
// aliases are represented this way when surfaced through the catalog
// rather than through tableref.Ref.
type Alias struct {
	base
	target Object
}

// NewAlias builds an Alias pointing at target.
func NewAlias(name string, target Object) *Alias {
	return &Alias{base: base{name: name}, target: target}
}

func (a *Alias) Kind() Kind { return KindAlias }

func (a *Alias) ResolveAlias(ctx context.Context, mon Monitor) (Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.target, nil
}

// ObjectReference is an unresolved handle with a class tag: the catalog
// knows a name was referenced (e.g. in a FROM clause) but hasn't bound it
// to a live object yet.
type ObjectReference struct {
	base
	ClassTag string
}

// NewObjectReference builds an unresolved reference.
func NewObjectReference(name, classTag string, parent Object) *ObjectReference {
	return &ObjectReference{base: base{name: name, parent: parent}, ClassTag: classTag}
}

func (r *ObjectReference) Kind() Kind { return KindObjectReference }
