package propose

import (
	"context"
	"strings"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/resolve"
	"github.com/bastiangx/sqlassist/internal/tableref"
	"github.com/bastiangx/sqlassist/internal/worddetect"
)

// Build turns one resolve.Result into the proposal list §4.5 describes,
// dispatching on which of Result's alternative outputs is populated
// (join conditions, value enumeration, or plain candidates) before
// falling through to the per-candidate builder.
func Build(ctx context.Context, req *reqctx.Request, class classify.Classification, result resolve.Result, refs tableref.Analyzer) []Proposal {
	if result.Suppressed || result.AliasOnCursor {
		return nil
	}
	d := req.Ctx.Syntax.Dialect()

	if len(result.JoinConditions) > 0 {
		var out []Proposal
		for _, jc := range result.JoinConditions {
			expr, ok := GenerateJoinCondition(d, jc)
			if !ok {
				continue
			}
			out = append(out, Proposal{
				DisplayString:   expr,
				ReplaceString:   expr,
				CursorOffset:    len(expr),
				Kind:            KindOther,
				BackingObject:   jc.Right,
				ContainerObject: jc.Left,
				IsSingleObject:  true,
			})
		}
		return out
	}

	if len(result.ValueEnumerationEntities) > 0 {
		return buildValueProposals(req, class, result.ValueEnumerationEntities)
	}

	var out []Proposal
	for _, c := range result.Candidates {
		if c.StartPart == "*" && len(c.AllColumns) > 0 {
			out = append(out, buildAllColumnsProposal(class, c))
			continue
		}
		if c.Object == nil {
			continue
		}
		out = append(out, buildProposal(req, class, c, refs, d))
	}
	return out
}

// buildAllColumnsProposal implements §4.4.4 step 4: a single proposal
// concatenating every visible child, each prefixed by whatever dotted
// qualifier preceded the "*" in the typed text.
func buildAllColumnsProposal(class classify.Classification, c resolve.Candidate) Proposal {
	prefix := strings.TrimSuffix(class.Word.WordPart, "*")
	names := make([]string, len(c.AllColumns))
	for i, o := range c.AllColumns {
		names[i] = prefix + o.Name()
	}
	replace := strings.Join(names, ", ")
	return Proposal{
		DisplayString:  "*",
		ReplaceString:  replace,
		CursorOffset:   len(replace),
		Kind:           KindOther,
		IsSingleObject: false,
	}
}

// buildProposal implements §4.5 for one resolved catalog object: full
// qualification, WHERE/AND qualification, alias injection, casing, and
// function-kind cursor placement, in that order. WHERE-qualified and
// fully-qualified replacements already carry their final form (a known
// alias, or a parent chain read straight from the catalog) and skip the
// casing step so it can't re-case an alias that isn't a catalog name.
func buildProposal(req *reqctx.Request, class classify.Classification, c resolve.Candidate, refs tableref.Analyzer, d dialect.Dialect) Proposal {
	o := c.Object
	cfg := req.Ctx.Config

	replace := o.Name()
	display := o.Name()
	isFQ := false
	isQualified := false
	kind := KindOther

	hasSeparator := worddetect.ContainsSeparator(class.Word.WordPart, d)
	switch {
	case cfg.UseFQNames:
		replace = fullyQualifiedName(o, d.CatalogSeparator())
		isFQ = true
	case needsFullyQualifiedName(req, o, hasSeparator):
		replace = fullyQualifiedName(o, d.CatalogSeparator())
		isFQ = true
	}

	if a, ok := o.(*catalog.Attribute); ok {
		if q := qualifyWhereColumn(req, class, a, refs); q != "" {
			replace = q
			isFQ = false
			isQualified = true
		}
	}

	aliasSuffix := ""
	if e, ok := o.(*catalog.Entity); ok {
		if alias := injectAlias(req, class, e, refs); alias != "" {
			aliasSuffix = aliasText(cfg.AliasInsertMode, alias)
		}
	}

	if _, ok := o.(*catalog.Procedure); ok {
		kind = KindFunction
		replace += "()"
	}

	if !isFQ && !isQualified && !worddetect.IsQuoted(replace, d) {
		replace = ApplyCasing(replace, d, cfg.InsertCase)
	}

	replace += aliasSuffix
	if c.AppendOn {
		replace += " ON"
	}

	cursorOffset := len(replace)
	if kind == KindFunction {
		if idx := strings.Index(replace, "("); idx >= 0 {
			cursorOffset = idx + 1
		}
	}

	return Proposal{
		DisplayString:    display,
		ReplaceString:    replace,
		CursorOffset:     cursorOffset,
		Kind:             kind,
		Score:            c.Score,
		BackingObject:    o,
		ContainerObject:  o.Parent(),
		IsFullyQualified: isFQ,
		IsSingleObject:   true,
	}
}
