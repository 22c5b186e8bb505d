package catalog

import "context"

// MonitorMode selects whether a catalog call is allowed to hit the
// network/disk or must answer from whatever is already cached.
type MonitorMode int

const (
	// Live permits real reads; used when the data source container has
	// extra-metadata-read enabled.
	Live MonitorMode = iota
	// CacheOnly refuses network/disk reads and only returns cached
	// answers. Child enumeration always uses this mode when the data
	// source has extra-metadata-read disabled.
	CacheOnly
)

// Monitor is the progress-and-cancellation handle passed to every Driver
// call, standing in for the template system's progress monitor.
// Cancellation is carried by the accompanying context.Context; Monitor
// only carries the read-mode policy.
type Monitor struct {
	Mode MonitorMode
}

// LiveMonitor returns a Monitor permitting real reads.
func LiveMonitor() Monitor { return Monitor{Mode: Live} }

// CacheOnlyMonitor returns a Monitor that refuses to trigger new reads.
func CacheOnlyMonitor() Monitor { return Monitor{Mode: CacheOnly} }

// Driver is the external catalog backend contract: every method may
// suspend to do I/O and must honor ctx cancellation. Drivers decide for
// themselves how to answer under CacheOnly — typically by returning
// whatever they already have resident and no error.
type Driver interface {
	// Root returns the catalog's top-level containers (data sources).
	Root(ctx context.Context, mon Monitor) ([]Object, error)
	// Child looks up one named child of parent.
	Child(ctx context.Context, mon Monitor, parent Object, name string) (Object, bool, error)
	// Children enumerates all of parent's children.
	Children(ctx context.Context, mon Monitor, parent Object) ([]Object, error)
	// Attributes enumerates an Entity's attributes.
	Attributes(ctx context.Context, mon Monitor, entity *Entity) ([]*Attribute, error)
	// Associations enumerates an Entity's associations.
	Associations(ctx context.Context, mon Monitor, entity *Entity) ([]Association, error)
	// FindObjectsByMask searches within parent for objects of the given
	// kind whose name matches mask (a SQL LIKE-style pattern built by
	// resolve.BuildMask), bounded to limit results.
	FindObjectsByMask(ctx context.Context, mon Monitor, parent Object, kind Kind, mask string, limit int) ([]Object, error)
	// CacheStructure asks the driver to warm its cache for parent ahead
	// of an expected burst of child lookups.
	CacheStructure(ctx context.Context, mon Monitor, parent Object) error
	// ResolveObject resolves a dotted qualified name to an object,
	// starting from root if base is nil.
	ResolveObject(ctx context.Context, mon Monitor, base Object, qualifiedName []string) (Object, error)
	// ExtraMetadataReadEnabled reports whether this driver's data source
	// permits Live reads; false forces CacheOnly everywhere.
	ExtraMetadataReadEnabled() bool
}

// StructureAssistant performs a fuzzy, cross-kind search across catalog
// object types — the fallback used when dotted-path descent fails on a
// single-segment prefix, and the search driving procedure lookup.
type StructureAssistant interface {
	// Find returns objects of kind matching mask under parent (or
	// globally if parent is nil and searchGlobally is true), bounded to
	// limit results, ranked by fuzzy score.
	Find(ctx context.Context, mon Monitor, parent Object, kind Kind, mask string, searchGlobally bool, limit int) ([]Object, error)
}
