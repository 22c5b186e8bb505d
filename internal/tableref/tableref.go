// Package tableref extracts table references and their aliases from the
// text of the active SQL statement. It backs alias resolution during
// COLUMN-context completion and the root-table lookup the resolver needs
// for join and value-enumeration proposals.
package tableref

import (
	"regexp"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Ref is one table reference found in the statement: its qualified name
// (as written, dot-separated) and its alias, if any.
type Ref struct {
	QualifiedName string
	Alias         string
}

// Analyzer extracts table references from SQL statement text. Both
// implementations tolerate partial/invalid SQL and return a best-effort
// result rather than failing.
type Analyzer interface {
	// FilteredTableReferences returns references whose qualified name or
	// alias matches prefix (case-insensitive prefix match). An empty
	// prefix matches everything.
	FilteredTableReferences(statement, prefix string) []Ref
	// TableAliasesFromQuery returns every reference found, unfiltered.
	TableAliasesFromQuery(statement string) []Ref
}

// introducerWords are the keywords that precede a table reference.
var introducerWords = []string{"FROM", "JOIN", "UPDATE", "INTO"}

// refPattern matches one introducer keyword followed by a dotted
// identifier. It deliberately does NOT try to capture a trailing alias
// itself: Go's RE2 engine has no lookahead, so any alias group here
// would consume whatever token follows, including the next introducer
// keyword (FROM orders JOIN customers c ... would swallow "JOIN" as
// orders' alias and FindAllStringSubmatch would never see it as its own
// match). aliasFor peeks past each match by hand instead. The pattern is
// deliberately permissive otherwise: partial statements (a trailing FROM
// with no table yet, a dangling comma) still yield whatever prefix
// matched before the first unrecognized token.
var refPattern = regexp.MustCompile(
	`(?i)\b(FROM|JOIN|UPDATE|INTO)\s+([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)`,
)

// aliasPattern matches a leading identifier, optionally preceded by AS,
// at the very start of the text handed to aliasFor.
var aliasPattern = regexp.MustCompile(`(?i)^\s+(?:AS\s+)?([A-Za-z_][A-Za-z0-9_]*)`)

// clauseKeywords rejects an alias candidate that is actually the next
// clause or introducer keyword (FROM a JOIN b — "JOIN" must never become
// a's alias; FROM a WHERE b — "WHERE" must never become a's alias).
var clauseKeywords = map[string]bool{
	"WHERE": true, "JOIN": true, "ON": true, "GROUP": true, "ORDER": true,
	"HAVING": true, "LIMIT": true, "SET": true, "VALUES": true, "AND": true,
	"OR": true, "INNER": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"CROSS": true, "UNION": true, "FROM": true, "UPDATE": true, "INTO": true,
}

// aliasFor returns the alias immediately following a table reference
// match, given the statement text starting right after the matched
// qualified name. Returns "" if no alias is present or the candidate
// token is actually the next clause/introducer keyword.
func aliasFor(rest string) string {
	m := aliasPattern.FindStringSubmatch(rest)
	if m == nil {
		return ""
	}
	if clauseKeywords[strings.ToUpper(m[1])] {
		return ""
	}
	return m[1]
}

// Pattern is the default, regex-based table reference analyzer. It does
// not build a parse tree and tolerates arbitrarily broken SQL around the
// matched fragments.
type Pattern struct{}

// NewPattern constructs the default analyzer.
func NewPattern() *Pattern { return &Pattern{} }

func (p *Pattern) TableAliasesFromQuery(statement string) []Ref {
	matches := refPattern.FindAllStringSubmatchIndex(statement, -1)
	refs := make([]Ref, 0, len(matches))
	for _, m := range matches {
		name := statement[m[4]:m[5]]
		alias := aliasFor(statement[m[5]:])
		refs = append(refs, Ref{QualifiedName: name, Alias: alias})
	}
	return refs
}

func (p *Pattern) FilteredTableReferences(statement, prefix string) []Ref {
	return filterByPrefix(p.TableAliasesFromQuery(statement), prefix)
}

// filterByPrefix indexes refs into a patricia trie keyed by lower-cased
// qualified name and alias, then walks the subtree under prefix. A trie
// is overkill for the handful of references a single statement usually
// carries, but it's the same prefix-matching primitive the rest of the
// module uses for catalog and dictionary lookups, so refs stay filterable
// the same way regardless of how many a pathological statement produces.
func filterByPrefix(refs []Ref, prefix string) []Ref {
	if prefix == "" {
		return refs
	}
	trie := patricia.NewTrie()
	for i, r := range refs {
		trie.Insert(patricia.Prefix(strings.ToLower(r.QualifiedName)), i)
		if r.Alias != "" {
			trie.Insert(patricia.Prefix(strings.ToLower(r.Alias)), i)
		}
	}
	seen := make(map[int]bool)
	var out []Ref
	trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), func(_ patricia.Prefix, item patricia.Item) error {
		i := item.(int)
		if !seen[i] {
			seen[i] = true
			out = append(out, refs[i])
		}
		return nil
	})
	return out
}

// Structural is the opt-in table reference analyzer, selected when
// experimental reference analysis is enabled. It delegates to a real
// statement parser rather than a regex scan, exposing a table-name
// visitor contract the pattern-based analyzer can't offer (correct
// handling of nested subqueries, CTEs, and comments).
type Structural struct {
	// Parse parses statement and returns every table reference its
	// visitor encounters. Left as an injected function rather than a
	// concrete parser dependency so Structural stays usable without
	// committing the module to one SQL grammar library.
	Parse func(statement string) ([]Ref, error)
	// fallback is used when Parse is nil or returns an error — partial
	// input must still yield a best-effort answer.
	fallback *Pattern
}

// NewStructural builds a structural analyzer around parse. If parse is
// nil, or later returns an error for a given statement, Structural falls
// back to pattern-based extraction so broken input never yields nothing.
func NewStructural(parse func(statement string) ([]Ref, error)) *Structural {
	return &Structural{Parse: parse, fallback: NewPattern()}
}

func (s *Structural) TableAliasesFromQuery(statement string) []Ref {
	if s.Parse != nil {
		if refs, err := s.Parse(statement); err == nil {
			return refs
		}
	}
	return s.fallback.TableAliasesFromQuery(statement)
}

func (s *Structural) FilteredTableReferences(statement, prefix string) []Ref {
	return filterByPrefix(s.TableAliasesFromQuery(statement), prefix)
}
