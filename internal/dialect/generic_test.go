package dialect

import "testing"

func TestGenericIsEntityQueryWord(t *testing.T) {
	g := NewGeneric()
	if !g.IsEntityQueryWord("from") {
		t.Fatalf("expected FROM to be an entity query word")
	}
	if g.IsEntityQueryWord("select") {
		t.Fatalf("did not expect SELECT to be an entity query word")
	}
}

func TestGenericIsAttributeQueryWord(t *testing.T) {
	g := NewGeneric()
	if !g.IsAttributeQueryWord("WHERE") {
		t.Fatalf("expected WHERE to be an attribute query word")
	}
	if g.IsAttributeQueryWord("from") {
		t.Fatalf("did not expect FROM to be an attribute query word")
	}
}

func TestGenericIsExecQuery(t *testing.T) {
	g := NewGeneric()
	for _, kw := range []string{"call", "EXEC", "Execute"} {
		if !g.IsExecQuery(kw) {
			t.Fatalf("expected %q to be an exec query word", kw)
		}
	}
}

func TestGenericGetKeywordType(t *testing.T) {
	g := NewGeneric()
	cases := []struct {
		kw   string
		want KeywordType
		ok   bool
	}{
		{"select", KeywordTypeKeyword, true},
		{"COUNT", KeywordTypeFunction, true},
		{"varchar", KeywordTypeType, true},
		{"notaknownword", KeywordTypeNone, false},
	}
	for _, c := range cases {
		got, ok := g.GetKeywordType(c.kw)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("GetKeywordType(%q) = (%v, %v), want (%v, %v)", c.kw, got, ok, c.want, c.ok)
		}
	}
}

func TestGenericGetMatchedKeywordsPrefix(t *testing.T) {
	g := NewGeneric()
	matched := g.GetMatchedKeywords("sel")
	found := false
	for _, m := range matched {
		if m == "SELECT" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SELECT among matches for prefix 'sel', got %v", matched)
	}
}

func TestGenericGetMatchedKeywordsEmptyPrefixReturnsAll(t *testing.T) {
	g := NewGeneric()
	if got := len(g.GetMatchedKeywords("")); got != len(g.allKeywords) {
		t.Fatalf("empty prefix returned %d keywords, want %d", got, len(g.allKeywords))
	}
}

func TestGenericCaseTransform(t *testing.T) {
	g := NewGeneric()
	if g.StoresUnquotedCase().Transform("orders") != "ORDERS" {
		t.Fatalf("expected StoresUnquotedCase to upper-fold")
	}
	if g.KeywordCase().Transform("select") != "SELECT" {
		t.Fatalf("expected KeywordCase to upper-fold")
	}
}

func TestGenericIdentifierQuoteStrings(t *testing.T) {
	g := NewGeneric()
	pairs := g.IdentifierQuoteStrings()
	if len(pairs) != 1 || pairs[0].Open != `"` || pairs[0].Close != `"` {
		t.Fatalf("unexpected quote pairs: %v", pairs)
	}
}

func TestNewSyntaxManager(t *testing.T) {
	g := NewGeneric()
	sm := NewSyntaxManager(g, CaseLower)
	if sm.Dialect() != g {
		t.Fatalf("expected wrapped dialect to be returned")
	}
	if sm.StructSeparator() != '.' {
		t.Fatalf("expected struct separator '.', got %q", sm.StructSeparator())
	}
	if sm.KeywordCase() != CaseLower {
		t.Fatalf("expected overridden keyword case to be CaseLower")
	}
}
