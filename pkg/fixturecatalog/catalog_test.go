package fixturecatalog

import (
	"context"
	"testing"
	"time"

	"github.com/bastiangx/sqlassist/internal/catalog"
)

func testFixture() DataSourceFixture {
	return DataSourceFixture{
		Name: "testdb",
		Schemas: []SchemaFixture{
			{
				Name: "public",
				Tables: []TableFixture{
					{
						Name: "orders",
						Columns: []AttributeFixture{
							{Name: "id", Type: "integer"},
							{Name: "customer_id", Type: "integer"},
						},
						References: []ReferenceFixture{
							{Column: "customer_id", RefTable: "customers", RefColumn: "id"},
						},
					},
					{
						Name: "customers",
						Columns: []AttributeFixture{
							{Name: "id", Type: "integer"},
							{Name: "name", Type: "text"},
						},
					},
				},
				Procedures: []ProcedureFixture{
					{Name: "calc_total", Parameters: []string{"order_id"}, IsFunction: true},
				},
			},
			{
				Name: "audit",
				Tables: []TableFixture{
					{Name: "change_log", Columns: []AttributeFixture{{Name: "id", Type: "integer"}}},
					{Name: "tmp_staging", Columns: []AttributeFixture{{Name: "id", Type: "integer"}}},
				},
				EntityFilter: catalog.GlobFilter{Exclude: []string{"tmp_*"}},
			},
		},
	}
}

func TestRootReturnsSingleDataSource(t *testing.T) {
	c := New(testFixture())
	roots, err := c.Root(context.Background(), catalog.LiveMonitor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 1 || roots[0].Name() != "testdb" {
		t.Fatalf("Root() = %+v, want one data source named testdb", roots)
	}
}

func TestChildrenLoadsSchemasOnDemand(t *testing.T) {
	c := New(testFixture())
	if loaded := c.GetLoadedChunkIDs(); len(loaded) != 0 {
		t.Fatalf("expected no chunks loaded before first access, got %v", loaded)
	}
	children, err := c.Children(context.Background(), catalog.LiveMonitor(), c.root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("got %d schema children, want 2", len(children))
	}
	if loaded := c.GetLoadedChunkIDs(); len(loaded) != 2 {
		t.Fatalf("expected both chunks loaded after Children, got %v", loaded)
	}
}

func TestChildrenCacheOnlySkipsUnloadedChunks(t *testing.T) {
	c := New(testFixture())
	children, err := c.Children(context.Background(), catalog.CacheOnlyMonitor(), c.root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("expected no children under CacheOnly before any chunk loads, got %d", len(children))
	}
	if _, err := c.ensureChunk(0, catalog.LiveMonitor()); err != nil {
		t.Fatalf("ensureChunk returned error: %v", err)
	}
	children, err = c.Children(context.Background(), catalog.CacheOnlyMonitor(), c.root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("expected exactly the one warmed chunk, got %d", len(children))
	}
}

func TestChildResolvesCaseInsensitively(t *testing.T) {
	c := New(testFixture())
	obj, ok, err := c.Child(context.Background(), catalog.LiveMonitor(), c.root, "PUBLIC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || obj.Name() != "public" {
		t.Fatalf("Child(PUBLIC) = %+v, %v, want the public schema", obj, ok)
	}
}

func TestChildMissingSchemaReturnsNotFound(t *testing.T) {
	c := New(testFixture())
	_, ok, err := c.Child(context.Background(), catalog.LiveMonitor(), c.root, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected not-found for a nonexistent schema")
	}
}

func TestResolveObjectWalksDottedPath(t *testing.T) {
	c := New(testFixture())
	obj, err := c.ResolveObject(context.Background(), catalog.LiveMonitor(), nil, []string{"public", "orders", "customer_id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj == nil || obj.Kind() != catalog.KindAttribute || obj.Name() != "customer_id" {
		t.Fatalf("ResolveObject = %+v, want attribute customer_id", obj)
	}
}

func TestAssociationsWireCrossTableReferences(t *testing.T) {
	c := New(testFixture())
	obj, _, err := c.Child(context.Background(), catalog.LiveMonitor(), c.root, "public")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	container := obj.(*catalog.Container)
	entityObj, ok, err := c.Child(context.Background(), catalog.LiveMonitor(), container, "orders")
	if err != nil || !ok {
		t.Fatalf("failed to find orders entity: %v %v", ok, err)
	}
	entity := entityObj.(*catalog.Entity)
	assoc, err := entity.Associations(context.Background(), catalog.LiveMonitor())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assoc) != 1 || assoc[0].RefEntity.Name() != "customers" {
		t.Fatalf("Associations = %+v, want one link to customers", assoc)
	}
}

func TestEntityFilterIsInstalledOnSchemaContainer(t *testing.T) {
	c := New(testFixture())
	obj, _, err := c.Child(context.Background(), catalog.LiveMonitor(), c.root, "audit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	container := obj.(*catalog.Container)
	f, ok := container.Filter(catalog.KindEntity)
	if !ok || len(f.Exclude) != 1 || f.Exclude[0] != "tmp_*" {
		t.Fatalf("Filter(KindEntity) = %+v, %v, want the tmp_* exclude pattern", f, ok)
	}
}

func TestFindObjectsByMaskUsesTriePrefixFastPath(t *testing.T) {
	c := New(testFixture())
	objs, err := c.FindObjectsByMask(context.Background(), catalog.LiveMonitor(), c.root, catalog.KindContainer, "pub%", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 1 || objs[0].Name() != "public" {
		t.Fatalf("FindObjectsByMask(pub%%) = %+v, want public only", objs)
	}
}

func TestFindObjectsByMaskWithinSchemaMatchesEntities(t *testing.T) {
	c := New(testFixture())
	schemaObj, _, _ := c.Child(context.Background(), catalog.LiveMonitor(), c.root, "public")
	objs, err := c.FindObjectsByMask(context.Background(), catalog.LiveMonitor(), schemaObj, catalog.KindEntity, "cust%", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 1 || objs[0].Name() != "customers" {
		t.Fatalf("FindObjectsByMask(cust%%) = %+v, want customers only", objs)
	}
}

func TestFindObjectsByMaskSubstringFallback(t *testing.T) {
	c := New(testFixture())
	schemaObj, _, _ := c.Child(context.Background(), catalog.LiveMonitor(), c.root, "public")
	objs, err := c.FindObjectsByMask(context.Background(), catalog.LiveMonitor(), schemaObj, catalog.KindEntity, "%stom%", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 1 || objs[0].Name() != "customers" {
		t.Fatalf("FindObjectsByMask(%%stom%%) = %+v, want customers only", objs)
	}
}

func TestFindRanksByFuzzyScoreAcrossSchemas(t *testing.T) {
	c := New(testFixture())
	objs, err := c.Find(context.Background(), catalog.LiveMonitor(), nil, catalog.KindProcedure, "calc", true, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objs) != 1 || objs[0].Name() != "calc_total" {
		t.Fatalf("Find(calc) = %+v, want calc_total", objs)
	}
}

func TestExtraMetadataReadEnabledDefaultsTrue(t *testing.T) {
	c := New(testFixture())
	if !c.ExtraMetadataReadEnabled() {
		t.Fatalf("expected ExtraMetadataReadEnabled() = true by default")
	}
	c.SetExtraMetadataReadEnabled(false)
	if c.ExtraMetadataReadEnabled() {
		t.Fatalf("expected ExtraMetadataReadEnabled() = false after override")
	}
}

func TestStartLazyLoadingEventuallyLoadsEveryChunk(t *testing.T) {
	c := New(testFixture())
	c.StartLazyLoading()
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(c.GetLoadedChunkIDs()) == len(c.chunks) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected all %d chunks loaded, got %v", len(c.chunks), c.GetLoadedChunkIDs())
}
