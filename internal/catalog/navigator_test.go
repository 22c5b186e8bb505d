package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

type fakeDriver struct {
	root         []Object
	children     map[string][]Object
	extraReads   bool
	failChildren bool
}

func (f *fakeDriver) Root(ctx context.Context, mon Monitor) ([]Object, error) {
	return f.root, nil
}

func (f *fakeDriver) Child(ctx context.Context, mon Monitor, parent Object, name string) (Object, bool, error) {
	for _, c := range f.children[parent.Name()] {
		if c.Name() == name {
			return c, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeDriver) Children(ctx context.Context, mon Monitor, parent Object) ([]Object, error) {
	if f.failChildren {
		return nil, errors.New("boom")
	}
	return f.children[parent.Name()], nil
}

func (f *fakeDriver) Attributes(ctx context.Context, mon Monitor, entity *Entity) ([]*Attribute, error) {
	return entity.attributes, nil
}

func (f *fakeDriver) Associations(ctx context.Context, mon Monitor, entity *Entity) ([]Association, error) {
	return entity.associations, nil
}

func (f *fakeDriver) FindObjectsByMask(ctx context.Context, mon Monitor, parent Object, kind Kind, mask string, limit int) ([]Object, error) {
	return nil, nil
}

func (f *fakeDriver) CacheStructure(ctx context.Context, mon Monitor, parent Object) error {
	return nil
}

func (f *fakeDriver) ResolveObject(ctx context.Context, mon Monitor, base Object, qualifiedName []string) (Object, error) {
	return nil, nil
}

func (f *fakeDriver) ExtraMetadataReadEnabled() bool { return f.extraReads }

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestNavigatorRoot(t *testing.T) {
	root := NewContainer("public", nil, nil)
	d := &fakeDriver{root: []Object{root}}
	nav := NewNavigator(d, testLogger())
	got := nav.Root(context.Background())
	if len(got) != 1 || got[0] != Object(root) {
		t.Fatalf("Root() = %+v, want [public]", got)
	}
}

func TestNavigatorChildrenErrorYieldsEmpty(t *testing.T) {
	d := &fakeDriver{failChildren: true}
	nav := NewNavigator(d, testLogger())
	parent := NewContainer("public", nil, nil)
	got := nav.Children(context.Background(), parent)
	if got != nil {
		t.Fatalf("expected nil on driver error, got %+v", got)
	}
}

func TestNavigatorChildren(t *testing.T) {
	parent := NewContainer("public", nil, nil)
	child := NewContainer("orders", parent, nil)
	d := &fakeDriver{children: map[string][]Object{"public": {child}}}
	nav := NewNavigator(d, testLogger())
	got := nav.Children(context.Background(), parent)
	if len(got) != 1 || got[0].Name() != "orders" {
		t.Fatalf("Children() = %+v", got)
	}
}

func TestNavigatorRequireNodeGuard(t *testing.T) {
	parent := NewContainer("public", nil, nil)
	allowed := NewContainer("orders", parent, nil)
	blocked := NewContainer("stale_table", parent, nil)
	d := &fakeDriver{children: map[string][]Object{"public": {allowed, blocked}}}
	nav := NewNavigator(d, testLogger())
	nav.SetKnownNodes([]string{"public.orders"})
	got := nav.Children(context.Background(), parent)
	if len(got) != 1 || got[0].Name() != "orders" {
		t.Fatalf("expected only known node to survive guard, got %+v", got)
	}
}

func TestNavigatorMonitorModeFollowsExtraMetadataRead(t *testing.T) {
	d := &fakeDriver{extraReads: false}
	nav := NewNavigator(d, testLogger())
	if nav.monitorFor().Mode != CacheOnly {
		t.Fatalf("expected CacheOnly mode when extra-metadata-read is disabled")
	}
	d.extraReads = true
	if nav.monitorFor().Mode != Live {
		t.Fatalf("expected Live mode when extra-metadata-read is enabled")
	}
}
