// Package classify assigns a query type to a word-detector result: the
// single pure classification table the rest of the analyzer dispatches
// on. It never touches the catalog or the document beyond what the word
// detector already extracted.
package classify

import (
	"strings"

	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/worddetect"
)

// QueryType is the classifier's verdict for one completion position.
type QueryType int

const (
	QueryTypeUnset QueryType = iota
	QueryTypeTable
	QueryTypeColumn
	QueryTypeJoin
	QueryTypeExec
)

// Classification is the classifier's full output: the query type plus
// the (possibly rewritten/shifted) word-detector result it operated on,
// and the derived scheduling flags the resolver needs.
type Classification struct {
	QueryType QueryType
	Word      *worddetect.Result

	// Suppressed means the classifier decided no proposals should be
	// produced at all (STRING partition directly after INTO).
	Suppressed bool
	// ParamExec is false only when we are declaring a routine
	// (PROCEDURE/FUNCTION) rather than calling one.
	ParamExec bool
	// ScheduleProcedureSearch marks the "bare PROCEDURE/FUNCTION name"
	// case, where a procedure search should run regardless of QueryType.
	ScheduleProcedureSearch bool
}

func upper(s string) string { return strings.ToUpper(s) }

// Classify implements spec.md §4.3 verbatim: pre-processing (stale
// keyword discard, STRING+INTO suppression), the main table, the
// column-context '*' special case, and PARAM_EXEC derivation.
func Classify(req *reqctx.Request, word *worddetect.Result) Classification {
	w := *word // work on a copy; rewrites must not leak back into caller's Result if classification is retried
	d := req.Ctx.Syntax.Dialect()

	if req.ActiveStatementStart > w.PrevKeyWordOffset {
		w.PrevKeyWord = ""
		w.PrevWords = nil
		w.PrevKeyWordOffset = -1
	}

	if req.Partition == reqctx.PartitionString && upper(w.PrevKeyWord) == "INTO" {
		return Classification{QueryType: QueryTypeUnset, Word: &w, Suppressed: true}
	}

	c := Classification{Word: &w}
	c.ParamExec = true
	if len(w.PrevWords) > 0 {
		first := upper(w.PrevWords[0])
		if first == "PROCEDURE" || first == "FUNCTION" {
			c.ParamExec = false
		}
	}

	pk := upper(w.PrevKeyWord)

	switch {
	case pk == "DELETE" || pk == "INSERT":
		c.QueryType = QueryTypeUnset

	case pk == "INTO" && len(w.PrevWords) > 0 && (w.PrevDelimiter == "(" || w.PrevDelimiter == ","):
		c.QueryType = QueryTypeColumn

	case pk == "INTO" && len(w.PrevWords) > 0 && isStarOpener(w.PrevDelimiter):
		c.QueryType = QueryTypeColumn
		w.WordPart = "*"
		w.ShiftOffset(-1)

	case pk == "JOIN" && len(w.PrevWords) == 0:
		c.QueryType = QueryTypeJoin

	case d.IsEntityQueryWord(w.PrevKeyWord):
		c.QueryType = QueryTypeTable

	case d.IsAttributeQueryWord(w.PrevKeyWord):
		c.QueryType = QueryTypeColumn

	case d.IsExecQuery(w.PrevKeyWord):
		c.QueryType = QueryTypeExec

	case w.PrevKeyWord == "" && len(w.PrevWords) > 0 && (upper(w.PrevWords[0]) == "PROCEDURE" || upper(w.PrevWords[0]) == "FUNCTION"):
		c.QueryType = QueryTypeUnset
		c.ScheduleProcedureSearch = true

	default:
		c.QueryType = QueryTypeUnset
	}

	if w.WordPart == "" && w.PrevDelimiter == "*" && w.NextWord != "" {
		w.WordPart = "*"
		w.ShiftOffset(-1)
	}

	return c
}

// isStarOpener reports whether delim is one of the bracket-plus-star
// openers that precede an "insert all columns" completion inside an
// INTO column list: "(*", "{*", "[*".
func isStarOpener(delim string) bool {
	switch delim {
	case "(*", "{*", "[*":
		return true
	default:
		return false
	}
}
