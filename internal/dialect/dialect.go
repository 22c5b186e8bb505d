// Package dialect describes the SQL-dialect capability contract the
// analyzer depends on: keyword classification, identifier quoting and
// casing rules, and the separators used to split qualified names. The
// analyzer never special-cases a dialect by name — it only calls through
// this interface, so adding a dialect means adding an implementation,
// not touching the analyzer.
package dialect

// KeywordType classifies a dialect keyword for proposal-kind purposes.
type KeywordType int

const (
	// KeywordTypeNone marks a token the dialect doesn't recognize as a keyword.
	KeywordTypeNone KeywordType = iota
	KeywordTypeKeyword
	KeywordTypeFunction
	KeywordTypeType
	KeywordTypeOther
)

// CaseTransform is the case policy applied to an identifier or keyword:
// UPPER, LOWER, or "as typed" (no transform).
type CaseTransform int

const (
	CaseAsTyped CaseTransform = iota
	CaseUpper
	CaseLower
)

// Transform applies the case policy to s.
func (c CaseTransform) Transform(s string) string {
	switch c {
	case CaseUpper:
		return upperASCII(s)
	case CaseLower:
		return lowerASCII(s)
	default:
		return s
	}
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// QuotePair is an opening/closing identifier-quote pair, e.g. {`"`, `"`}
// or {"[", "]"}.
type QuotePair struct {
	Open  string
	Close string
}

// Dialect is the capability contract the analyzer consumes for any SQL
// variant. Implementations never need to be named by the analyzer; every
// dialect-dependent decision goes through one of these methods.
type Dialect interface {
	// IsEntityQueryWord reports whether kw introduces a table/entity
	// position (FROM, UPDATE, TABLE, INTO, DELETE, ...).
	IsEntityQueryWord(kw string) bool
	// IsAttributeQueryWord reports whether kw introduces a column
	// position (SELECT, WHERE, SET, ON, BY, HAVING, AND, OR, ...).
	IsAttributeQueryWord(kw string) bool
	// IsExecQuery reports whether kw introduces a procedure call
	// (CALL, EXEC, EXECUTE, ...).
	IsExecQuery(kw string) bool
	// GetKeywordType classifies kw, returning ok=false if kw isn't a
	// recognized keyword at all.
	GetKeywordType(kw string) (KeywordType, bool)
	// GetMatchedKeywords returns every keyword that fuzzy-matches prefix,
	// in no particular order (callers sort by fuzzy score themselves).
	GetMatchedKeywords(prefix string) []string

	// CatalogSeparator is the dialect's catalog-qualifier separator
	// (almost always ".").
	CatalogSeparator() string
	// StructSeparator is the identifier-hierarchy separator rune.
	StructSeparator() rune
	// IdentifierQuoteStrings lists the quote pairs the dialect accepts
	// for quoted identifiers, e.g. `"..."`, `[...]`, `` `...` ``.
	IdentifierQuoteStrings() []QuotePair

	QueryKeywords() []string
	DMLKeywords() []string
	DDLKeywords() []string
	ExecuteKeywords() []string

	// StoresUnquotedCase is the case transform applied to unquoted
	// identifiers before they hit the catalog (e.g. Postgres folds to
	// lower, many others fold to upper).
	StoresUnquotedCase() CaseTransform
	// KeywordCase is the case policy applied to bare keyword insertions,
	// independent of the identifier case-folding rule above.
	KeywordCase() CaseTransform

	SupportsAliasInSelect() bool
	SupportsAliasInUpdate() bool
}

// SyntaxManager bundles the dialect with the parse-time separator and
// keyword-case policy the word detector and proposal builder need. It is
// a thin indirection so the analyzer never reaches into a dialect
// directly for anything but keyword/quoting semantics.
type SyntaxManager interface {
	Dialect() Dialect
	StructSeparator() rune
	KeywordCase() CaseTransform
}
