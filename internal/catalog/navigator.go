package catalog

import (
	"context"

	"github.com/charmbracelet/log"
)

// Navigator wraps a Driver, picking the monitor mode per call and
// containing catalog errors so a single failed lookup never aborts an
// analyzer run — the step that failed simply yields no children, logged
// at debug.
type Navigator struct {
	driver Driver
	logger *log.Logger
	// nodes, when non-nil, is the set of qualified names the navigator
	// actually has a tree node for. Objects outside this set are
	// filtered from results (checkNavigatorNodes) — it guards against
	// proposing stale references to objects the navigator tree hasn't
	// caught up with yet.
	nodes map[string]bool
}

// NewNavigator wraps driver. logger receives debug-level entries for
// every contained catalog error.
func NewNavigator(driver Driver, logger *log.Logger) *Navigator {
	return &Navigator{driver: driver, logger: logger}
}

// SetKnownNodes installs the navigator-node allowlist used by
// requireNode. A nil or empty map disables the guard (every resolved
// object is accepted).
func (n *Navigator) SetKnownNodes(qualifiedNames []string) {
	if len(qualifiedNames) == 0 {
		n.nodes = nil
		return
	}
	n.nodes = make(map[string]bool, len(qualifiedNames))
	for _, q := range qualifiedNames {
		n.nodes[q] = true
	}
}

// monitorFor picks Live or CacheOnly depending on the driver's
// extra-metadata-read setting. Child enumeration always forces CacheOnly
// when extra-metadata-read is disabled, matching every other navigator
// call — there's only one policy knob, not a separate one per method.
func (n *Navigator) monitorFor() Monitor {
	if n.driver.ExtraMetadataReadEnabled() {
		return LiveMonitor()
	}
	return CacheOnlyMonitor()
}

// Root returns the catalog roots, or an empty list on error.
func (n *Navigator) Root(ctx context.Context) []Object {
	roots, err := n.driver.Root(ctx, n.monitorFor())
	if err != nil {
		n.logf(ctx, "root lookup failed: %v", err)
		return nil
	}
	return n.filterNodes(roots)
}

// Children returns parent's children, or an empty list on error.
func (n *Navigator) Children(ctx context.Context, parent Object) []Object {
	children, err := n.driver.Children(ctx, n.monitorFor(), parent)
	if err != nil {
		n.logf(ctx, "children lookup failed for %q: %v", parent.Name(), err)
		return nil
	}
	return n.filterNodes(children)
}

// Child looks up one named child, returning (nil, false) on error or if
// not found.
func (n *Navigator) Child(ctx context.Context, parent Object, name string) (Object, bool) {
	obj, ok, err := n.driver.Child(ctx, n.monitorFor(), parent, name)
	if err != nil {
		n.logf(ctx, "child lookup failed for %q under %q: %v", name, parent.Name(), err)
		return nil, false
	}
	if !ok || !n.requireNode(obj) {
		return nil, false
	}
	return obj, true
}

// Attributes returns entity's attributes, or an empty list on error.
func (n *Navigator) Attributes(ctx context.Context, entity *Entity) []*Attribute {
	attrs, err := n.driver.Attributes(ctx, n.monitorFor(), entity)
	if err != nil {
		n.logf(ctx, "attribute lookup failed for %q: %v", entity.Name(), err)
		return nil
	}
	return attrs
}

// Associations returns entity's associations, or an empty list on error.
func (n *Navigator) Associations(ctx context.Context, entity *Entity) []Association {
	assoc, err := n.driver.Associations(ctx, n.monitorFor(), entity)
	if err != nil {
		n.logf(ctx, "association lookup failed for %q: %v", entity.Name(), err)
		return nil
	}
	return assoc
}

// FindObjectsByMask searches parent for kind objects matching mask, or
// returns an empty list on error.
func (n *Navigator) FindObjectsByMask(ctx context.Context, parent Object, kind Kind, mask string, limit int) []Object {
	objs, err := n.driver.FindObjectsByMask(ctx, n.monitorFor(), parent, kind, mask, limit)
	if err != nil {
		n.logf(ctx, "mask search failed under %q for mask %q: %v", parent.Name(), mask, err)
		return nil
	}
	return n.filterNodes(objs)
}

// ResolveObject resolves a dotted qualified name, or returns (nil, false)
// on error or if the resolved object fails the navigator-node guard.
func (n *Navigator) ResolveObject(ctx context.Context, base Object, qualifiedName []string) (Object, bool) {
	obj, err := n.driver.ResolveObject(ctx, n.monitorFor(), base, qualifiedName)
	if err != nil {
		n.logf(ctx, "resolve failed for %v: %v", qualifiedName, err)
		return nil, false
	}
	if obj == nil || !n.requireNode(obj) {
		return nil, false
	}
	return obj, true
}

// requireNode applies the checkNavigatorNodes guard: an object with no
// corresponding navigator node is rejected even though the driver
// resolved it, guarding against stale references to objects the
// navigator tree hasn't caught up with.
func (n *Navigator) requireNode(obj Object) bool {
	if n.nodes == nil || obj == nil {
		return obj != nil
	}
	return n.nodes[qualifiedNameOf(obj)]
}

func (n *Navigator) filterNodes(objs []Object) []Object {
	if n.nodes == nil {
		return objs
	}
	out := make([]Object, 0, len(objs))
	for _, o := range objs {
		if n.requireNode(o) {
			out = append(out, o)
		}
	}
	return out
}

func (n *Navigator) logf(ctx context.Context, format string, args ...any) {
	if err := ctx.Err(); err != nil {
		return
	}
	if n.logger != nil {
		n.logger.Debugf(format, args...)
	}
}

// qualifiedNameOf builds a dotted name by walking Parent() up to the
// root.
func qualifiedNameOf(obj Object) string {
	var parts []string
	for o := obj; o != nil; o = o.Parent() {
		parts = append([]string{o.Name()}, parts...)
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "." + p
	}
	return out
}
