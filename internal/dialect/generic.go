package dialect

import (
	"strings"

	"github.com/bastiangx/sqlassist/internal/fuzzy"
)

// entityWords introduce a table/entity completion position.
var entityWords = []string{
	"FROM", "UPDATE", "TABLE", "INTO", "DELETE", "JOIN", "TRUNCATE",
}

// attributeWords introduce a column/attribute completion position.
var attributeWords = []string{
	"SELECT", "WHERE", "SET", "ON", "BY", "HAVING", "AND", "OR",
	"GROUP", "ORDER", "RETURNING",
}

// execWords introduce a procedure/function-call completion position.
var execWords = []string{"CALL", "EXEC", "EXECUTE", "PERFORM"}

var queryKeywords = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "WITH", "MERGE"}

var dmlKeywords = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "MERGE"}

var ddlKeywords = []string{
	"CREATE", "ALTER", "DROP", "TRUNCATE", "COMMENT", "RENAME",
}

var executeKeywords = []string{"CALL", "EXEC", "EXECUTE"}

// functionKeywords are recognized built-in SQL function names.
var functionKeywords = []string{
	"COUNT", "SUM", "AVG", "MIN", "MAX", "COALESCE", "NULLIF", "CAST",
	"LOWER", "UPPER", "TRIM", "LTRIM", "RTRIM", "LENGTH", "SUBSTRING",
	"REPLACE", "CONCAT", "ABS", "CEIL", "FLOOR", "ROUND", "NOW",
	"CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME", "EXTRACT",
	"ROW_NUMBER", "RANK", "DENSE_RANK", "LAG", "LEAD",
}

// typeKeywords are recognized built-in SQL type names.
var typeKeywords = []string{
	"INT", "INTEGER", "BIGINT", "SMALLINT", "NUMERIC", "DECIMAL", "REAL",
	"DOUBLE", "FLOAT", "BOOLEAN", "CHAR", "VARCHAR", "TEXT", "DATE",
	"TIME", "TIMESTAMP", "UUID", "JSON", "JSONB", "BYTEA", "SERIAL",
}

// otherKeywords are general syntax keywords, not in the entity/attribute/
// exec categories above, that the keyword assist should still suggest.
var otherKeywords = []string{
	"LEFT", "RIGHT", "INNER", "OUTER", "FULL", "CROSS", "NOT", "IN",
	"EXISTS", "BETWEEN", "LIKE", "ILIKE", "IS", "NULL", "AS", "CASE",
	"WHEN", "THEN", "ELSE", "END", "VALUES", "VIEW", "INDEX", "UNIQUE",
	"PRIMARY", "KEY", "FOREIGN", "REFERENCES", "CONSTRAINT", "DEFAULT",
	"CHECK", "CASCADE", "RESTRICT", "ASC", "DESC", "LIMIT", "OFFSET",
	"DISTINCT", "ALL", "ANY", "SOME", "UNION", "INTERSECT", "EXCEPT",
	"WITH", "RECURSIVE", "BEGIN", "COMMIT", "ROLLBACK", "TRANSACTION",
	"IF", "PROCEDURE", "FUNCTION",
}

// Generic is an ANSI-flavored SQL dialect that covers the keyword set
// shared across mainstream engines. It double-quotes identifiers, folds
// unquoted identifiers to upper case (the ANSI default; Postgres-style
// dialects would fold to lower), and allows aliasing after FROM/JOIN in
// both SELECT and UPDATE statements.
type Generic struct {
	keywordIndex map[string]KeywordType
	allKeywords  []string
}

// NewGeneric builds the default dialect and its keyword index.
func NewGeneric() *Generic {
	g := &Generic{keywordIndex: make(map[string]KeywordType)}
	add := func(words []string, kind KeywordType) {
		for _, w := range words {
			g.keywordIndex[w] = kind
			g.allKeywords = append(g.allKeywords, w)
		}
	}
	add(entityWords, KeywordTypeKeyword)
	add(attributeWords, KeywordTypeKeyword)
	add(execWords, KeywordTypeKeyword)
	add(otherKeywords, KeywordTypeKeyword)
	add(functionKeywords, KeywordTypeFunction)
	add(typeKeywords, KeywordTypeType)
	return g
}

func containsFold(words []string, kw string) bool {
	up := strings.ToUpper(kw)
	for _, w := range words {
		if w == up {
			return true
		}
	}
	return false
}

func (g *Generic) IsEntityQueryWord(kw string) bool    { return containsFold(entityWords, kw) }
func (g *Generic) IsAttributeQueryWord(kw string) bool { return containsFold(attributeWords, kw) }
func (g *Generic) IsExecQuery(kw string) bool          { return containsFold(execWords, kw) }

func (g *Generic) GetKeywordType(kw string) (KeywordType, bool) {
	t, ok := g.keywordIndex[strings.ToUpper(kw)]
	return t, ok
}

// GetMatchedKeywords returns every dialect keyword with a positive fuzzy
// score against prefix.
func (g *Generic) GetMatchedKeywords(prefix string) []string {
	if prefix == "" {
		out := make([]string, len(g.allKeywords))
		copy(out, g.allKeywords)
		return out
	}
	var matched []string
	for _, kw := range g.allKeywords {
		if fuzzy.Score(kw, prefix) > 0 {
			matched = append(matched, kw)
		}
	}
	return matched
}

func (g *Generic) CatalogSeparator() string { return "." }
func (g *Generic) StructSeparator() rune    { return '.' }

func (g *Generic) IdentifierQuoteStrings() []QuotePair {
	return []QuotePair{{Open: `"`, Close: `"`}}
}

func (g *Generic) QueryKeywords() []string   { return queryKeywords }
func (g *Generic) DMLKeywords() []string     { return dmlKeywords }
func (g *Generic) DDLKeywords() []string     { return ddlKeywords }
func (g *Generic) ExecuteKeywords() []string { return executeKeywords }

func (g *Generic) StoresUnquotedCase() CaseTransform { return CaseUpper }
func (g *Generic) KeywordCase() CaseTransform        { return CaseUpper }

func (g *Generic) SupportsAliasInSelect() bool { return true }
func (g *Generic) SupportsAliasInUpdate() bool { return true }

// genericSyntaxManager is the default SyntaxManager wrapping Generic.
type genericSyntaxManager struct {
	dialect     Dialect
	keywordCase CaseTransform
}

// NewSyntaxManager wraps a dialect with a keyword-case policy for the
// word detector and proposal builder.
func NewSyntaxManager(d Dialect, keywordCase CaseTransform) SyntaxManager {
	return &genericSyntaxManager{dialect: d, keywordCase: keywordCase}
}

func (s *genericSyntaxManager) Dialect() Dialect           { return s.dialect }
func (s *genericSyntaxManager) StructSeparator() rune      { return s.dialect.StructSeparator() }
func (s *genericSyntaxManager) KeywordCase() CaseTransform { return s.keywordCase }
