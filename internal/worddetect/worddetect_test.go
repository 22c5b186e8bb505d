package worddetect

import (
	"testing"

	"github.com/bastiangx/sqlassist/internal/dialect"
)

func newSyn() dialect.SyntaxManager {
	return dialect.NewSyntaxManager(dialect.NewGeneric(), dialect.CaseUpper)
}

func TestDetectWordPart(t *testing.T) {
	doc := NewStringDocument("SELECT ord FROM orders")
	r := Detect(doc, 10, newSyn())
	if r.WordPart != "ord" {
		t.Fatalf("WordPart = %q, want %q", r.WordPart, "ord")
	}
	if r.WordStart != 7 || r.WordEnd != 10 {
		t.Fatalf("span = [%d,%d), want [7,10)", r.WordStart, r.WordEnd)
	}
}

func TestDetectPrevKeyWord(t *testing.T) {
	doc := NewStringDocument("SELECT * FROM ord")
	r := Detect(doc, len([]rune("SELECT * FROM ord")), newSyn())
	if r.PrevKeyWord != "FROM" {
		t.Fatalf("PrevKeyWord = %q, want FROM", r.PrevKeyWord)
	}
	if r.WordPart != "ord" {
		t.Fatalf("WordPart = %q, want ord", r.WordPart)
	}
}

func TestDetectPrevWords(t *testing.T) {
	text := "INSERT INTO orders col"
	doc := NewStringDocument(text)
	r := Detect(doc, len([]rune(text)), newSyn())
	if r.PrevKeyWord != "INTO" {
		t.Fatalf("PrevKeyWord = %q, want INTO", r.PrevKeyWord)
	}
	if len(r.PrevWords) != 1 || r.PrevWords[0] != "orders" {
		t.Fatalf("PrevWords = %v, want [orders]", r.PrevWords)
	}
}

func TestDetectPrevDelimiterStar(t *testing.T) {
	text := "INSERT INTO orders(*col"
	doc := NewStringDocument(text)
	r := Detect(doc, len([]rune(text)), newSyn())
	if r.PrevDelimiter != "(*" {
		t.Fatalf("PrevDelimiter = %q, want (*", r.PrevDelimiter)
	}
}

func TestDetectNextWord(t *testing.T) {
	doc := NewStringDocument("SELECT ord FROM orders")
	r := Detect(doc, 10, newSyn())
	if r.NextWord != "" {
		t.Fatalf("NextWord = %q, want empty (cursor mid-identifier run has no right word here)", r.NextWord)
	}
}

func TestDetectEmptyWordPart(t *testing.T) {
	doc := NewStringDocument("SELECT * FROM ")
	r := Detect(doc, len([]rune("SELECT * FROM ")), newSyn())
	if r.WordPart != "" {
		t.Fatalf("WordPart = %q, want empty", r.WordPart)
	}
	if r.PrevKeyWord != "FROM" {
		t.Fatalf("PrevKeyWord = %q, want FROM", r.PrevKeyWord)
	}
}

func TestShiftOffset(t *testing.T) {
	r := &Result{WordStart: 5}
	r.ShiftOffset(-1)
	if r.WordStart != 4 {
		t.Fatalf("WordStart = %d, want 4", r.WordStart)
	}
	r.ShiftOffset(-10)
	if r.WordStart != 0 {
		t.Fatalf("WordStart should clamp at 0, got %d", r.WordStart)
	}
}

func TestIsQuotedAndRemoveQuotes(t *testing.T) {
	d := dialect.NewGeneric()
	if !IsQuoted(`"orders"`, d) {
		t.Fatalf("expected quoted identifier to be detected")
	}
	if IsQuoted("orders", d) {
		t.Fatalf("did not expect bare identifier to be detected as quoted")
	}
	if got := RemoveQuotes(`"orders"`, d); got != "orders" {
		t.Fatalf("RemoveQuotes = %q, want orders", got)
	}
}

func TestSplitIdentifier(t *testing.T) {
	d := dialect.NewGeneric()
	parts := SplitIdentifier("public.orders.id", d)
	want := []string{"public", "orders", "id"}
	if len(parts) != len(want) {
		t.Fatalf("SplitIdentifier = %v, want %v", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Fatalf("SplitIdentifier = %v, want %v", parts, want)
		}
	}
}

func TestSplitIdentifierRespectsQuoting(t *testing.T) {
	d := dialect.NewGeneric()
	parts := SplitIdentifier(`"my.schema".orders`, d)
	if len(parts) != 2 || parts[0] != `"my.schema"` || parts[1] != "orders" {
		t.Fatalf("SplitIdentifier = %v, want [\"my.schema\" orders]", parts)
	}
}

func TestContainsSeparator(t *testing.T) {
	d := dialect.NewGeneric()
	if !ContainsSeparator("public.orders", d) {
		t.Fatalf("expected separator to be detected")
	}
	if ContainsSeparator("orders", d) {
		t.Fatalf("did not expect separator in bare identifier")
	}
}
