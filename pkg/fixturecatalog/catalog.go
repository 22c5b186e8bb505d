package fixturecatalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/fuzzy"
	"github.com/bastiangx/sqlassist/internal/util"
)

// LoaderStats reports the chunk loader's current progress.
type LoaderStats struct {
	LoadedChunks    int
	AvailableChunks int
	IsLoading       bool
}

// chunk is one schema fixture, materialized into a live catalog.Container
// on first access rather than at construction time.
type chunk struct {
	mu        sync.Mutex
	fixture   SchemaFixture
	container *catalog.Container
	// byName indexes the chunk's own entities and procedures by folded
	// name, for Child lookups once the chunk is loaded.
	byName map[string]catalog.Object
	// trie indexes the same names for prefix search (FindObjectsByMask).
	trie   *patricia.Trie
	loaded bool
}

// Catalog is an in-memory catalog.Driver over a DataSourceFixture. Its
// root container is resident immediately; each schema chunk loads lazily,
// materializing its tables, columns, and procedures into catalog objects
// the first time something asks for it.
type Catalog struct {
	root              *catalog.Container
	chunks            []*chunk
	byName            map[string]int // folded schema name -> chunk index
	trie              *patricia.Trie // folded schema name -> chunk index
	extraMetadataRead bool

	mu         sync.RWMutex
	errorCount map[int]int
	maxRetries int
	loadingCh  chan int
	done       chan struct{}
	started    bool
}

// New builds a Catalog from a fixture. The returned catalog answers
// queries immediately; call StartLazyLoading to also run a background
// loader that warms every chunk ahead of demand.
func New(ds DataSourceFixture) *Catalog {
	c := &Catalog{
		root:              catalog.NewContainer(ds.Name, nil, nil),
		byName:            make(map[string]int, len(ds.Schemas)),
		trie:              patricia.NewTrie(),
		extraMetadataRead: true,
		errorCount:        make(map[int]int),
		maxRetries:        3,
		loadingCh:         make(chan int, 16),
		done:              make(chan struct{}),
	}
	for i, sf := range ds.Schemas {
		c.chunks = append(c.chunks, &chunk{fixture: sf})
		folded := util.FoldName(sf.Name)
		c.byName[folded] = i
		c.trie.Insert(patricia.Prefix(folded), i)
	}
	return c
}

// SetExtraMetadataReadEnabled overrides the default (enabled) policy;
// disabling it forces every navigator call through this driver into
// CacheOnly mode, answering strictly from whatever chunks already
// loaded.
func (c *Catalog) SetExtraMetadataReadEnabled(v bool) { c.extraMetadataRead = v }

func (c *Catalog) ExtraMetadataReadEnabled() bool { return c.extraMetadataRead }

// StartLazyLoading spawns the background loader and queues every chunk
// for loading. It does not block for any chunk to finish; Live calls
// that reach an unloaded chunk still load it synchronously on demand.
func (c *Catalog) StartLazyLoading() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go c.backgroundLoader()
	for i := range c.chunks {
		select {
		case c.loadingCh <- i:
		case <-time.After(100 * time.Millisecond):
			log.Warnf("fixturecatalog: loading queue full, chunk %d deferred", i)
		}
	}
}

// Stop halts the background loader. Safe to call even if
// StartLazyLoading was never called.
func (c *Catalog) Stop() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *Catalog) backgroundLoader() {
	for {
		select {
		case idx := <-c.loadingCh:
			if _, err := c.ensureChunk(idx, catalog.LiveMonitor()); err != nil {
				c.mu.Lock()
				c.errorCount[idx]++
				attempts := c.errorCount[idx]
				c.mu.Unlock()
				if attempts < c.maxRetries {
					go func(id, attempt int) {
						select {
						case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
						case <-c.done:
							return
						}
						select {
						case c.loadingCh <- id:
						case <-c.done:
						}
					}(idx, attempts)
				} else {
					log.Errorf("fixturecatalog: chunk %d failed %d times, giving up", idx, c.maxRetries)
				}
			}
		case <-c.done:
			return
		}
	}
}

// LoadSpecificChunk loads one schema by index if it isn't already
// resident.
func (c *Catalog) LoadSpecificChunk(idx int) error {
	_, err := c.ensureChunk(idx, catalog.LiveMonitor())
	return err
}

// GetLoadedChunkIDs returns the indices of every currently-resident
// schema chunk, sorted ascending.
func (c *Catalog) GetLoadedChunkIDs() []int {
	var out []int
	for i, ch := range c.chunks {
		ch.mu.Lock()
		loaded := ch.loaded
		ch.mu.Unlock()
		if loaded {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// Stats reports the loader's current progress.
func (c *Catalog) Stats() LoaderStats {
	return LoaderStats{
		LoadedChunks:    len(c.GetLoadedChunkIDs()),
		AvailableChunks: len(c.chunks),
		IsLoading:       len(c.loadingCh) > 0,
	}
}

// ensureChunk materializes chunk idx if mon permits a read and it isn't
// already resident. Under CacheOnly it returns (nil, nil) for a chunk
// that hasn't loaded yet, matching the Driver contract's "answer from
// whatever is already resident" rule rather than treating a cold chunk
// as an error.
func (c *Catalog) ensureChunk(idx int, mon catalog.Monitor) (*catalog.Container, error) {
	if idx < 0 || idx >= len(c.chunks) {
		return nil, fmt.Errorf("fixturecatalog: chunk index %d out of range", idx)
	}
	ch := c.chunks[idx]
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.loaded {
		return ch.container, nil
	}
	if mon.Mode == catalog.CacheOnly {
		return nil, nil
	}
	container, byName, trie := buildSchema(ch.fixture, c.root)
	ch.container = container
	ch.byName = byName
	ch.trie = trie
	ch.loaded = true
	return container, nil
}

// buildSchema materializes one SchemaFixture into a Container whose
// children are fully-wired Entity/Procedure objects, including
// cross-table associations.
func buildSchema(sf SchemaFixture, parent catalog.Object) (*catalog.Container, map[string]catalog.Object, *patricia.Trie) {
	c := catalog.NewContainer(sf.Name, parent, nil)

	entitiesByName := make(map[string]*catalog.Entity, len(sf.Tables))
	children := make([]catalog.Object, 0, len(sf.Tables)+len(sf.Procedures))
	byName := make(map[string]catalog.Object, len(sf.Tables)+len(sf.Procedures))
	trie := patricia.NewTrie()

	for _, tf := range sf.Tables {
		attrs := make([]*catalog.Attribute, 0, len(tf.Columns))
		for _, cf := range tf.Columns {
			a := catalog.NewAttribute(cf.Name, cf.Type)
			switch {
			case len(cf.Dictionary) > 0:
				a.ValueSource = catalog.ValueSourceDictionary
				a.DictionaryValues = cf.Dictionary
			case len(cf.Values) > 0:
				a.ValueSource = catalog.ValueSourceEnumerable
				a.EnumerableValues = cf.Values
			}
			attrs = append(attrs, a)
		}
		e := catalog.NewEntity(tf.Name, c, attrs)
		entitiesByName[util.FoldName(tf.Name)] = e
	}

	for _, tf := range sf.Tables {
		e := entitiesByName[util.FoldName(tf.Name)]
		var assoc []catalog.Association
		for _, rf := range tf.References {
			ref, ok := entitiesByName[util.FoldName(rf.RefTable)]
			if !ok {
				continue
			}
			assoc = append(assoc, catalog.Association{
				LocalEntity: e, LocalColumn: rf.Column,
				RefEntity: ref, RefColumn: rf.RefColumn,
			})
		}
		e.SetAssociations(assoc)
		children = append(children, e)
		folded := util.FoldName(tf.Name)
		byName[folded] = e
		trie.Insert(patricia.Prefix(folded), e)
	}

	for _, pf := range sf.Procedures {
		p := catalog.NewProcedure(pf.Name, c, pf.Parameters, pf.IsFunction)
		children = append(children, p)
		folded := util.FoldName(pf.Name)
		byName[folded] = p
		trie.Insert(patricia.Prefix(folded), p)
	}

	c.SetChildren(children)
	if sf.EntityFilter.Include != nil || sf.EntityFilter.Exclude != nil {
		c.SetFilter(catalog.KindEntity, sf.EntityFilter)
	}
	return c, byName, trie
}

// Root returns the single data-source container.
func (c *Catalog) Root(ctx context.Context, mon catalog.Monitor) ([]catalog.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []catalog.Object{c.root}, nil
}

// Children enumerates parent's children, loading schema chunks on demand
// (Live) or returning only what's already resident (CacheOnly).
func (c *Catalog) Children(ctx context.Context, mon catalog.Monitor, parent catalog.Object) ([]catalog.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if parent == catalog.Object(c.root) {
		out := make([]catalog.Object, 0, len(c.chunks))
		for i := range c.chunks {
			container, err := c.ensureChunk(i, mon)
			if err != nil {
				return nil, err
			}
			if container != nil {
				out = append(out, container)
			}
		}
		return out, nil
	}
	if hc, ok := parent.(catalog.HasChildren); ok {
		return hc.Children(ctx, mon)
	}
	return nil, nil
}

// Child looks up one named child of parent, folding case for the match.
func (c *Catalog) Child(ctx context.Context, mon catalog.Monitor, parent catalog.Object, name string) (catalog.Object, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	folded := util.FoldName(name)
	if parent == catalog.Object(c.root) {
		idx, ok := c.byName[folded]
		if !ok {
			return nil, false, nil
		}
		container, err := c.ensureChunk(idx, mon)
		if err != nil || container == nil {
			return nil, false, err
		}
		return container, true, nil
	}
	children, err := c.Children(ctx, mon, parent)
	if err != nil {
		return nil, false, err
	}
	for _, ch := range children {
		if util.FoldName(ch.Name()) == folded {
			return ch, true, nil
		}
	}
	return nil, false, nil
}

// Attributes delegates to the entity: attribute lists are fixed at
// chunk-load time, never paged separately.
func (c *Catalog) Attributes(ctx context.Context, mon catalog.Monitor, entity *catalog.Entity) ([]*catalog.Attribute, error) {
	return entity.Attributes(ctx, mon)
}

// Associations delegates to the entity.
func (c *Catalog) Associations(ctx context.Context, mon catalog.Monitor, entity *catalog.Entity) ([]catalog.Association, error) {
	return entity.Associations(ctx, mon)
}

// CacheStructure proactively loads every schema chunk under the root
// ahead of an expected burst of lookups; it's a no-op below root, since
// nothing under a schema is itself chunked.
func (c *Catalog) CacheStructure(ctx context.Context, mon catalog.Monitor, parent catalog.Object) error {
	if parent != catalog.Object(c.root) {
		return nil
	}
	for i := range c.chunks {
		if _, err := c.ensureChunk(i, catalog.LiveMonitor()); err != nil {
			return err
		}
	}
	return nil
}

// ResolveObject walks qualifiedName from base (or root if base is nil)
// one segment at a time via Child.
func (c *Catalog) ResolveObject(ctx context.Context, mon catalog.Monitor, base catalog.Object, qualifiedName []string) (catalog.Object, error) {
	cur := base
	if cur == nil {
		cur = c.root
	}
	for _, seg := range qualifiedName {
		next, ok, err := c.Child(ctx, mon, cur, seg)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		cur = next
	}
	return cur, nil
}

// FindObjectsByMask searches parent's subtree for kind objects whose
// name matches mask, using the relevant chunk's trie for a fast prefix
// scan when mask has the shape "literal%", and a linear scan otherwise.
func (c *Catalog) FindObjectsByMask(ctx context.Context, mon catalog.Monitor, parent catalog.Object, kind catalog.Kind, mask string, limit int) ([]catalog.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if parent == nil {
		parent = c.root
	}

	var matches []catalog.Object
	switch {
	case parent == catalog.Object(c.root) && (kind == catalog.KindContainer || kind == catalog.KindAny):
		matches = append(matches, c.matchSchemas(mon, mask)...)
	case parent == catalog.Object(c.root):
		// Entities/procedures under an unspecified schema: scan every
		// resident (or loadable, under Live) schema.
		for i := range c.chunks {
			container, err := c.ensureChunk(i, mon)
			if err != nil {
				return nil, err
			}
			if container == nil {
				continue
			}
			matches = append(matches, c.matchWithinChunk(i, kind, mask)...)
		}
	default:
		if idx, ok := c.chunkIndexOf(parent); ok {
			matches = append(matches, c.matchWithinChunk(idx, kind, mask)...)
		}
	}

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (c *Catalog) matchSchemas(mon catalog.Monitor, mask string) []catalog.Object {
	var out []catalog.Object
	if prefix, ok := likePrefix(mask); ok {
		c.trie.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
			idx := item.(int)
			if container, err := c.ensureChunk(idx, mon); err == nil && container != nil {
				out = append(out, container)
			}
			return nil
		})
		return out
	}
	for i, ch := range c.chunks {
		if !likeMatch(mask, ch.fixture.Name) {
			continue
		}
		if container, err := c.ensureChunk(i, mon); err == nil && container != nil {
			out = append(out, container)
		}
	}
	return out
}

func (c *Catalog) matchWithinChunk(idx int, kind catalog.Kind, mask string) []catalog.Object {
	ch := c.chunks[idx]
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if !ch.loaded {
		return nil
	}
	var out []catalog.Object
	if prefix, ok := likePrefix(mask); ok {
		ch.trie.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
			obj := item.(catalog.Object)
			if kind == catalog.KindAny || obj.Kind() == kind {
				out = append(out, obj)
			}
			return nil
		})
		return out
	}
	for name, obj := range ch.byName {
		if kind != catalog.KindAny && obj.Kind() != kind {
			continue
		}
		if likeMatch(mask, name) {
			out = append(out, obj)
		}
	}
	return out
}

func (c *Catalog) chunkIndexOf(parent catalog.Object) (int, bool) {
	for i, ch := range c.chunks {
		ch.mu.Lock()
		container := ch.container
		ch.mu.Unlock()
		if container != nil && catalog.Object(container) == parent {
			return i, true
		}
	}
	return 0, false
}

// Find implements catalog.StructureAssistant: a fuzzy, cross-kind search
// across the whole catalog (or one schema, if parent is non-nil),
// ranked by fuzzy.Score and bounded to limit.
func (c *Catalog) Find(ctx context.Context, mon catalog.Monitor, parent catalog.Object, kind catalog.Kind, mask string, searchGlobally bool, limit int) ([]catalog.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pattern := strings.Trim(mask, "%")

	var candidates []catalog.Object
	switch {
	case parent != nil:
		objs, err := c.FindObjectsByMask(ctx, mon, parent, kind, "%", 0)
		if err != nil {
			return nil, err
		}
		candidates = objs
	case searchGlobally:
		for i := range c.chunks {
			container, err := c.ensureChunk(i, mon)
			if err != nil {
				return nil, err
			}
			if container == nil {
				continue
			}
			objs, err := c.FindObjectsByMask(ctx, mon, container, kind, "%", 0)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, objs...)
			if kind == catalog.KindContainer || kind == catalog.KindAny {
				candidates = append(candidates, container)
			}
		}
	default:
		objs, err := c.FindObjectsByMask(ctx, mon, c.root, kind, "%", 0)
		if err != nil {
			return nil, err
		}
		candidates = objs
	}

	type scored struct {
		obj   catalog.Object
		score int
	}
	var ranked []scored
	for _, obj := range candidates {
		s := fuzzy.Score(obj.Name(), pattern)
		if s <= 0 {
			continue
		}
		ranked = append(ranked, scored{obj, s})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]catalog.Object, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.obj)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
