package propose

import (
	"strings"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/tableref"
)

// qualifyWhereColumn implements §4.5's WHERE/AND column qualification:
// prefix a bare column proposal with its table's alias (or name, if the
// table has no alias in the active statement). Only applies when the
// typed word part is empty — a partial column name is completed as-is.
func qualifyWhereColumn(req *reqctx.Request, class classify.Classification, a *catalog.Attribute, refs tableref.Analyzer) string {
	if class.Word.WordPart != "" {
		return ""
	}
	pk := strings.ToUpper(class.Word.PrevKeyWord)
	if pk != "WHERE" && pk != "AND" {
		return ""
	}
	parent := a.Parent()
	if parent == nil {
		return ""
	}
	qualifier := parent.Name()
	for _, r := range refs.TableAliasesFromQuery(req.ActiveStatementText) {
		if strings.EqualFold(r.QualifiedName, qualifier) && r.Alias != "" {
			qualifier = r.Alias
			break
		}
	}
	sep := string(req.Ctx.Syntax.StructSeparator())
	return qualifier + sep + a.Name()
}

// needsFullyQualifiedName implements §4.5's other full-qualification
// trigger: an unresolved ObjectReference under a container different
// from the session's selected object, when the typed word has no
// separator (so a bare name alone would be ambiguous).
func needsFullyQualifiedName(req *reqctx.Request, o catalog.Object, wordHasSeparator bool) bool {
	if wordHasSeparator {
		return false
	}
	ref, ok := o.(*catalog.ObjectReference)
	if !ok {
		return false
	}
	parent := ref.Parent()
	if parent == nil {
		return true
	}
	if req.Ctx.Exec == nil {
		return true
	}
	selected := req.Ctx.Exec.SelectedContainer()
	return selected == nil || !strings.EqualFold(parent.Name(), selected.Name())
}

// fullyQualifiedName walks o's parent chain to the catalog root, joining
// each name with the dialect's catalog separator.
func fullyQualifiedName(o catalog.Object, sep string) string {
	var parts []string
	for cur := o; cur != nil; cur = cur.Parent() {
		parts = append([]string{cur.Name()}, parts...)
	}
	return strings.Join(parts, sep)
}
