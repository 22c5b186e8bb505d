package postfilter

import (
	"testing"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/propose"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/worddetect"
)

type fakeExec struct {
	selected catalog.Object
}

func (f *fakeExec) SelectedContainer() catalog.Object       { return f.selected }
func (f *fakeExec) SelectedSchema() catalog.Object           { return f.selected }
func (f *fakeExec) DefaultSchemaChildren() []catalog.Object  { return nil }
func (f *fakeExec) DefaultCatalogChildren() []catalog.Object { return nil }

func testRequest(exec reqctx.ExecutionContext, cfg reqctx.Config) *reqctx.Request {
	return &reqctx.Request{
		Ctx: &reqctx.Context{
			Syntax: dialect.NewSyntaxManager(dialect.NewGeneric(), dialect.CaseUpper),
			Exec:   exec,
			Config: cfg,
		},
	}
}

func TestDedupByDisplayFirstWins(t *testing.T) {
	in := []propose.Proposal{
		{DisplayString: "orders"},
		{DisplayString: "ORDERS"},
		{DisplayString: "customers"},
	}
	out := dedupByDisplay(in)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
}

func TestHideDuplicatesKeepsActiveContainerMember(t *testing.T) {
	public := catalog.NewContainer("public", nil, nil)
	staging := catalog.NewContainer("staging", nil, nil)
	orders1 := catalog.NewEntity("orders", public, nil)
	orders2 := catalog.NewEntity("orders", staging, nil)

	in := []propose.Proposal{
		{DisplayString: "orders (public)", BackingObject: orders1, ContainerObject: public},
		{DisplayString: "orders (staging)", BackingObject: orders2, ContainerObject: staging},
	}
	out := hideCrossContainerDuplicates(in, public)
	if len(out) != 1 || out[0].ContainerObject != catalog.Object(public) {
		t.Fatalf("out = %+v, want only the public-container proposal", out)
	}
}

func TestHideDuplicatesNoActiveContainerLeavesInputAlone(t *testing.T) {
	orders1 := catalog.NewEntity("orders", nil, nil)
	in := []propose.Proposal{{DisplayString: "a", BackingObject: orders1}}
	out := hideCrossContainerDuplicates(in, nil)
	if len(out) != 1 {
		t.Fatalf("expected input unchanged when there is no active container")
	}
}

func TestApplyContainerFilterExcludesGlobMatch(t *testing.T) {
	public := catalog.NewContainer("public", nil, nil)
	public.SetFilter(catalog.KindEntity, catalog.GlobFilter{Exclude: []string{"tmp_*"}})
	tmpTable := catalog.NewEntity("tmp_scratch", public, nil)
	ordersTable := catalog.NewEntity("orders", public, nil)

	in := []propose.Proposal{
		{DisplayString: "tmp_scratch", BackingObject: tmpTable, ContainerObject: public},
		{DisplayString: "orders", BackingObject: ordersTable, ContainerObject: public},
	}
	out := applyContainerFilters(in)
	if len(out) != 1 || out[0].DisplayString != "orders" {
		t.Fatalf("out = %+v, want only orders", out)
	}
}

func TestApplyContainerFilterIncludeRestricts(t *testing.T) {
	public := catalog.NewContainer("public", nil, nil)
	public.SetFilter(catalog.KindEntity, catalog.GlobFilter{Include: []string{"ord*"}})
	orders := catalog.NewEntity("orders", public, nil)
	customers := catalog.NewEntity("customers", public, nil)

	in := []propose.Proposal{
		{DisplayString: "orders", BackingObject: orders, ContainerObject: public},
		{DisplayString: "customers", BackingObject: customers, ContainerObject: public},
	}
	out := applyContainerFilters(in)
	if len(out) != 1 || out[0].DisplayString != "orders" {
		t.Fatalf("out = %+v, want only orders", out)
	}
}

func TestApplyContainerFilterSkipsProposalsWithoutBackingObject(t *testing.T) {
	in := []propose.Proposal{{DisplayString: "SELECT"}}
	out := applyContainerFilters(in)
	if len(out) != 1 {
		t.Fatalf("expected keyword-only proposal to pass through untouched")
	}
}

func TestAllowedKeywordsAfterSelectIsFromOnly(t *testing.T) {
	class := classify.Classification{Word: &worddetect.Result{PrevKeyWord: "SELECT"}}
	allowed := allowedKeywords(class, dialect.NewGeneric())
	if len(allowed) != 1 || !allowed["FROM"] {
		t.Fatalf("allowed = %+v, want {FROM}", allowed)
	}
}

func TestAllowedKeywordsAfterUpdateIsSetOnly(t *testing.T) {
	class := classify.Classification{Word: &worddetect.Result{PrevKeyWord: "UPDATE"}}
	allowed := allowedKeywords(class, dialect.NewGeneric())
	if len(allowed) != 1 || !allowed["SET"] {
		t.Fatalf("allowed = %+v, want {SET}", allowed)
	}
}

func TestAllowedKeywordsStatementStartPermitsQueryLeads(t *testing.T) {
	class := classify.Classification{Word: &worddetect.Result{}}
	allowed := allowedKeywords(class, dialect.NewGeneric())
	if !allowed["SELECT"] || !allowed["CREATE"] || !allowed["CALL"] {
		t.Fatalf("allowed = %+v, want statement-start leads present", allowed)
	}
}

func TestAllowedKeywordsMidStatementIsUnrestricted(t *testing.T) {
	class := classify.Classification{Word: &worddetect.Result{PrevKeyWord: "WHERE", PrevWords: []string{"id"}}}
	if allowed := allowedKeywords(class, dialect.NewGeneric()); allowed != nil {
		t.Fatalf("allowed = %+v, want nil (unrestricted)", allowed)
	}
}

func TestBuildKeywordAssistExcludesTypeKeywords(t *testing.T) {
	req := testRequest(nil, reqctx.DefaultConfig())
	class := classify.Classification{Word: &worddetect.Result{WordPart: "int"}}
	d := dialect.NewGeneric()
	out := buildKeywordAssist(req, class, d, nil)
	for _, p := range out {
		if p.Kind == propose.KindType {
			t.Fatalf("did not expect a TYPE keyword proposal, got %+v", p)
		}
	}
}

func TestBuildKeywordAssistSkipsAlreadyProducedDisplay(t *testing.T) {
	req := testRequest(nil, reqctx.DefaultConfig())
	class := classify.Classification{Word: &worddetect.Result{PrevKeyWord: "SELECT", WordPart: "fr"}}
	d := dialect.NewGeneric()
	existing := []propose.Proposal{{DisplayString: "FROM"}}
	out := buildKeywordAssist(req, class, d, existing)
	for _, p := range out {
		if p.DisplayString == "FROM" {
			t.Fatalf("expected FROM to be skipped as already produced")
		}
	}
}

func TestBuildKeywordAssistColumnContextKeepsFunctionKeyword(t *testing.T) {
	req := testRequest(nil, reqctx.DefaultConfig())
	class := classify.Classification{QueryType: classify.QueryTypeColumn, Word: &worddetect.Result{PrevKeyWord: "WHERE", WordPart: "cou"}}
	d := dialect.NewGeneric()
	out := buildKeywordAssist(req, class, d, nil)
	found := false
	for _, p := range out {
		if p.DisplayString == "COUNT" && p.Kind == propose.KindFunction {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected COUNT function keyword in COLUMN context, got %+v", out)
	}
}

func TestHippieProposalsCollectsPrefixMatches(t *testing.T) {
	doc := worddetect.NewStringDocument("SELECT customer_ref FROM orders WHERE cust")
	req := testRequest(nil, reqctx.Config{HippieEnabled: true})
	req.Document = doc
	req.Offset = doc.Len()
	class := classify.Classification{Word: &worddetect.Result{WordPart: "cust"}}
	out := hippieProposals(req, class, nil)
	if len(out) != 1 || out[0].DisplayString != "customer_ref" {
		t.Fatalf("out = %+v, want [customer_ref]", out)
	}
}

func TestHippieProposalsExcludesAlreadyPresent(t *testing.T) {
	doc := worddetect.NewStringDocument("SELECT customers FROM cust")
	req := testRequest(nil, reqctx.Config{HippieEnabled: true})
	req.Document = doc
	req.Offset = doc.Len()
	class := classify.Classification{Word: &worddetect.Result{WordPart: "cust"}}
	existing := []propose.Proposal{{DisplayString: "customers"}}
	out := hippieProposals(req, class, existing)
	if len(out) != 0 {
		t.Fatalf("out = %+v, want none (already present)", out)
	}
}

func TestHippieProposalsRespectsMinLength(t *testing.T) {
	doc := worddetect.NewStringDocument("SELECT id FROM ident")
	req := testRequest(nil, reqctx.Config{HippieEnabled: true})
	req.Document = doc
	req.Offset = doc.Len()
	class := classify.Classification{Word: &worddetect.Result{WordPart: "identif"}}
	out := hippieProposals(req, class, nil)
	if len(out) != 0 {
		t.Fatalf("out = %+v, want none (candidate shorter than prefix)", out)
	}
}

func TestApplySuppressesKeywordAssistInsideStringPartition(t *testing.T) {
	req := testRequest(&fakeExec{}, reqctx.DefaultConfig())
	req.Document = worddetect.NewStringDocument("SELECT * FROM orders WHERE status = 'a")
	req.Offset = req.Document.Len()
	req.Partition = reqctx.PartitionString
	class := classify.Classification{QueryType: classify.QueryTypeColumn, Word: &worddetect.Result{WordPart: "a", PrevKeyWord: "WHERE", PrevWords: []string{"status"}}}
	out := Apply(req, class, nil)
	for _, p := range out {
		if p.Kind == propose.KindKeyword {
			t.Fatalf("expected no KEYWORD proposals inside a STRING partition, got %+v", out)
		}
	}
}

func TestApplyRunsFullPipelineWithoutPanicking(t *testing.T) {
	req := testRequest(&fakeExec{}, reqctx.DefaultConfig())
	req.Document = worddetect.NewStringDocument("SELECT * FROM orders WHERE ")
	req.Offset = req.Document.Len()
	class := classify.Classification{QueryType: classify.QueryTypeColumn, Word: &worddetect.Result{PrevKeyWord: "WHERE"}}
	orders := catalog.NewEntity("orders", nil, nil)
	in := []propose.Proposal{{DisplayString: "orders", BackingObject: orders}}
	out := Apply(req, class, in)
	if len(out) == 0 {
		t.Fatalf("expected at least the object proposal to survive")
	}
}
