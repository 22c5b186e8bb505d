package propose

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/tableref"
)

// injectAlias implements §4.5's alias-injection rule for an entity
// proposal following FROM/INTO/JOIN. Returns "" when no alias should be
// appended (mode is NONE, the dialect doesn't permit one here, or the
// synthesized alias collides with the entity's own name).
func injectAlias(req *reqctx.Request, class classify.Classification, e *catalog.Entity, refs tableref.Analyzer) string {
	pk := strings.ToUpper(class.Word.PrevKeyWord)
	if pk != "FROM" && pk != "INTO" && pk != "JOIN" {
		return ""
	}
	mode := req.Ctx.Config.AliasInsertMode
	if mode == reqctx.AliasInsertNone {
		return ""
	}
	d := req.Ctx.Syntax.Dialect()
	if !d.SupportsAliasInSelect() {
		return ""
	}
	if isDMLLeadingStatement(req.ActiveStatementText, d) && !d.SupportsAliasInUpdate() {
		return ""
	}

	used := make(map[string]bool)
	for _, r := range refs.TableAliasesFromQuery(req.ActiveStatementText) {
		if r.Alias != "" {
			used[strings.ToLower(r.Alias)] = true
		}
	}
	taken := func(s string) bool {
		if used[strings.ToLower(s)] {
			return true
		}
		if _, ok := d.GetKeywordType(s); ok {
			return true
		}
		return len(refs.FilteredTableReferences(req.ActiveStatementText, s)) > 0
	}

	alias := generateAlias(e.Name(), taken)
	if strings.EqualFold(alias, e.Name()) {
		return ""
	}
	return alias
}

// isDMLLeadingStatement reports whether stmt's first token is one of the
// dialect's DML keywords (INSERT, UPDATE, DELETE, ...).
func isDMLLeadingStatement(stmt string, d dialect.Dialect) bool {
	fields := strings.Fields(stmt)
	if len(fields) == 0 {
		return false
	}
	first := fields[0]
	for _, kw := range d.DMLKeywords() {
		if strings.EqualFold(kw, first) {
			return true
		}
	}
	return false
}

// generateAlias synthesizes a short alias from name's initials, adding a
// numeric suffix until taken reports it's free.
func generateAlias(name string, taken func(string) bool) string {
	base := initials(name)
	if !taken(base) {
		return base
	}
	for i := 2; i < 1000; i++ {
		candidate := base + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
	return base
}

// initials scans name for uppercase letters (camelCase/PascalCase) first;
// failing that, it takes the first letter of each underscore/space
// separated word; failing that, the first character of name.
func initials(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if b.Len() > 0 {
		return b.String()
	}

	b.Reset()
	start := true
	for _, r := range name {
		if r == '_' || r == ' ' || r == '-' {
			start = true
			continue
		}
		if start {
			b.WriteRune(unicode.ToLower(r))
			start = false
		}
	}
	if b.Len() > 0 {
		return b.String()
	}

	if len(name) > 0 {
		return strings.ToLower(name[:1])
	}
	return "t"
}

func aliasText(mode reqctx.AliasInsertMode, alias string) string {
	switch mode {
	case reqctx.AliasInsertExtended:
		return " AS " + alias
	case reqctx.AliasInsertPlain:
		return " " + alias
	default:
		return ""
	}
}
