// Package resolve drives the query-type-specific catalog search: dotted
// path descent, alias lookup, structure-assistant fallback, procedure
// container disambiguation, and the child-enumeration helper every path
// shares.
package resolve

import (
	"context"
	"sort"
	"strings"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/fuzzy"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/tableref"
	"github.com/bastiangx/sqlassist/internal/util"
	"github.com/bastiangx/sqlassist/internal/worddetect"
)

// structureAssistantSearchLimit bounds the fallback fuzzy search across
// all catalog object kinds when dotted-path descent fails on a
// single-segment prefix.
const structureAssistantSearchLimit = 2

// Candidate is one resolved catalog object together with the metadata
// the proposal builder needs to finish building a Proposal from it.
type Candidate struct {
	Object catalog.Object
	// Score is the fuzzy match score against the search mask, 0 if the
	// candidate wasn't scored (alphabetical/attribute-order sort).
	Score int
	// StartPart is the dotted-prefix segment these children were
	// enumerated under, used by the "*" all-columns aggregate.
	StartPart string
	// AppendOn marks a JOIN-context candidate whose replacement string
	// should get " ON" appended.
	AppendOn bool
	// JoinLeftTable is the table AppendOn candidates should be checked
	// for an association against, during join filtering.
	JoinLeftTable string
	// AllColumns holds the full visible-children set when StartPart is
	// "*": the proposal builder concatenates these into one "all
	// columns" replacement instead of treating Candidate as one object.
	AllColumns []catalog.Object
}

// JoinCondition is one left/right entity pair the proposal builder turns
// into a synthesized "left.col = right.col" join criterion (§4.4.1's
// "if prevKeyWord = ON, emit generated join conditions" path, the
// makeJoinColumnProposals/generateTableJoin feature from original_source/).
type JoinCondition struct {
	Left  *catalog.Entity
	Right *catalog.Entity
}

// Result is the resolver's output for one classified request: the
// candidate catalog objects (already filtered/sorted where the path
// dictates), whether the cursor sits on a known alias, and whether all
// proposals are suppressed.
type Result struct {
	Candidates    []Candidate
	AliasOnCursor bool
	Suppressed    bool
	// JoinConditions holds synthesized join-condition pairs when the
	// cursor sits right after ON in a COLUMN context with an empty
	// prefix; propose.Build turns each into one OTHER-kind proposal
	// instead of a plain column candidate.
	JoinConditions []JoinCondition
	// ValueEnumerationEntities holds the root entities the proposal
	// builder should run §4.5's value-enumeration path against, when
	// show-values is active and the cursor looks like a value position.
	ValueEnumerationEntities []*catalog.Entity
}

// Resolve dispatches on class.QueryType and the word-detector result it
// carries, implementing spec.md §4.4.
func Resolve(ctx context.Context, req *reqctx.Request, class classify.Classification, refs tableref.Analyzer) Result {
	if class.Suppressed {
		return Result{Suppressed: true}
	}

	w := class.Word
	d := req.Ctx.Syntax.Dialect()
	cfg := req.Ctx.Config

	if class.ScheduleProcedureSearch || class.QueryType == classify.QueryTypeExec ||
		(class.QueryType == classify.QueryTypeColumn && cfg.SearchProcedures) {
		return resolveProcedureSearch(ctx, req, class)
	}

	if isLiteralPrefix(w.WordPart) {
		return resolveEmptyPrefix(ctx, req, class, refs)
	}

	// A prefix that is exactly an alias of the active statement is never
	// replaced, whatever the query type.
	for _, r := range refs.TableAliasesFromQuery(req.ActiveStatementText) {
		if r.Alias != "" && strings.EqualFold(r.Alias, w.WordPart) {
			return Result{AliasOnCursor: true}
		}
	}

	if class.QueryType == classify.QueryTypeColumn {
		return resolveColumnPrefix(ctx, req, class, refs)
	}

	return resolveDottedPath(ctx, req, class, d)
}

// isLiteralPrefix treats an empty, purely numeric, or quoted prefix as
// the "no useful prefix" path (§4.4.1) rather than dotted-path descent.
func isLiteralPrefix(wordPart string) bool {
	if wordPart == "" {
		return true
	}
	if len(wordPart) >= 2 && (wordPart[0] == '\'' || wordPart[0] == '"') {
		return true
	}
	for _, r := range wordPart {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// resolveEmptyPrefix implements §4.4.1: root-table children, plus the
// session's default schema/catalog/data-source children as a fallback
// for non-COLUMN query types.
func resolveEmptyPrefix(ctx context.Context, req *reqctx.Request, class classify.Classification, refs tableref.Analyzer) Result {
	var candidates []Candidate
	w := class.Word

	rootRefs := refs.TableAliasesFromQuery(req.ActiveStatementText)

	if class.QueryType == classify.QueryTypeColumn {
		if strings.EqualFold(w.PrevKeyWord, "ON") {
			if joins := buildJoinConditions(ctx, req, rootRefs, w); len(joins) > 0 {
				return Result{JoinConditions: joins}
			}
		}
		if valueKeywords[strings.ToUpper(w.PrevKeyWord)] && req.Ctx.Config.ShowValues && looksLikeValuePosition(req, w) {
			return Result{ValueEnumerationEntities: valueEntities(ctx, req, rootRefs)}
		}
		for _, rt := range rootRefs {
			obj := resolveRefObject(ctx, req, rt)
			if obj == nil {
				continue
			}
			if req.Partition != reqctx.PartitionString {
				candidates = append(candidates, EnumerateChildren(ctx, req, obj, "")...)
			}
		}
	} else {
		switch {
		case req.Ctx.Exec != nil && len(req.Ctx.Exec.DefaultSchemaChildren()) > 0:
			candidates = append(candidates, wrapObjects(req.Ctx.Exec.DefaultSchemaChildren(), "")...)
		case req.Ctx.Exec != nil && len(req.Ctx.Exec.DefaultCatalogChildren()) > 0:
			candidates = append(candidates, wrapObjects(req.Ctx.Exec.DefaultCatalogChildren(), "")...)
		case req.Ctx.Navigator != nil:
			candidates = append(candidates, wrapObjects(req.Ctx.Navigator.Root(ctx), "")...)
		}
	}

	if class.QueryType == classify.QueryTypeJoin {
		candidates = applyJoinFilter(ctx, candidates, leftTableName(rootRefs))
	}

	return Result{Candidates: candidates}
}

// resolveColumnPrefix implements the COLUMN branch of §4.4.2: the
// leftmost dotted segment is treated as a table alias.
func resolveColumnPrefix(ctx context.Context, req *reqctx.Request, class classify.Classification, refs tableref.Analyzer) Result {
	w := class.Word
	d := req.Ctx.Syntax.Dialect()

	segments := worddetect.SplitIdentifier(w.WordPart, d)
	aliasSeg := segments[0]

	aliasRefs := refs.TableAliasesFromQuery(req.ActiveStatementText)
	for _, r := range aliasRefs {
		if strings.EqualFold(r.Alias, w.WordPart) || strings.EqualFold(r.QualifiedName, w.WordPart) {
			// the cursor sits on a known alias; the editor will not
			// replace it, so no proposals are emitted.
			return Result{AliasOnCursor: true}
		}
	}

	for _, r := range aliasRefs {
		if strings.EqualFold(r.Alias, aliasSeg) {
			obj := resolveRefObject(ctx, req, r)
			if obj == nil {
				return Result{}
			}
			remainder := strings.Join(segments[1:], string(d.StructSeparator()))
			return Result{Candidates: EnumerateChildren(ctx, req, obj, remainder)}
		}
	}

	// Fallback (a): the whole prefix might itself be a known alias with
	// no further segments, already handled above. Fallback (b): consult
	// the structure assistant across all catalog kinds.
	if req.Ctx.Assistant != nil {
		mask := BuildMask(w.WordPart, d, req.Ctx.Config.SearchInsideNames)
		objs, _ := req.Ctx.Assistant.Find(ctx, catalog.LiveMonitor(), nil, catalog.KindAny, mask, req.Ctx.Config.SearchGlobally, structureAssistantSearchLimit)
		return Result{Candidates: wrapObjects(objs, w.WordPart)}
	}
	return Result{}
}

// resolveDottedPath implements §4.4.2's "Other" branch: split-walk
// containers from the catalog root (falling back to the selected
// object's container on the first unresolved step), holding the final
// incomplete segment as the search mask.
func resolveDottedPath(ctx context.Context, req *reqctx.Request, class classify.Classification, d dialect.Dialect) Result {
	w := class.Word
	if w.WordPart == "" {
		return Result{}
	}

	segments := worddetect.SplitIdentifier(w.WordPart, d)
	endsInSeparator := strings.HasSuffix(w.WordPart, string(d.StructSeparator()))

	var mask string
	walkSegments := segments
	if !endsInSeparator {
		mask = segments[len(segments)-1]
		walkSegments = segments[:len(segments)-1]
	}

	var cur catalog.Object
	if req.Ctx.Navigator != nil {
		roots := req.Ctx.Navigator.Root(ctx)
		for i, seg := range walkSegments {
			seg = transformSegment(seg, d)
			var next catalog.Object
			var found bool
			if cur == nil {
				next, found = findByName(roots, seg)
				if !found && req.Ctx.Exec != nil && req.Ctx.Exec.SelectedContainer() != nil {
					next, found = req.Ctx.Navigator.Child(ctx, req.Ctx.Exec.SelectedContainer(), seg)
				}
			} else {
				next, found = req.Ctx.Navigator.Child(ctx, cur, seg)
			}
			if !found {
				if i == 0 && len(walkSegments) == 1 {
					break // single-segment case handled by fallbacks below
				}
				return Result{}
			}
			cur = next
		}
	}

	if cur == nil && len(walkSegments) > 0 {
		// Single segment only, unresolved: an exact alias was already
		// answered in Resolve, so only the structure assistant is left.
		if req.Ctx.Assistant != nil {
			am := BuildMask(w.WordPart, d, req.Ctx.Config.SearchInsideNames)
			objs, _ := req.Ctx.Assistant.Find(ctx, catalog.LiveMonitor(), nil, catalog.KindAny, am, req.Ctx.Config.SearchGlobally, structureAssistantSearchLimit)
			if len(objs) > 0 {
				return Result{Candidates: wrapObjects(objs, w.WordPart)}
			}
		}
		return Result{}
	}

	if cur == nil {
		if req.Ctx.Navigator != nil {
			return Result{Candidates: wrapObjects(req.Ctx.Navigator.Root(ctx), mask)}
		}
		return Result{}
	}

	return Result{Candidates: EnumerateChildren(ctx, req, cur, mask)}
}

func transformSegment(seg string, d dialect.Dialect) string {
	if worddetect.IsQuoted(seg, d) {
		return worddetect.RemoveQuotes(seg, d)
	}
	return d.StoresUnquotedCase().Transform(seg)
}

func findByName(objs []catalog.Object, name string) (catalog.Object, bool) {
	for _, o := range objs {
		if strings.EqualFold(o.Name(), name) {
			return o, true
		}
	}
	return nil, false
}

// resolveProcedureSearch implements §4.4.3.
func resolveProcedureSearch(ctx context.Context, req *reqctx.Request, class classify.Classification) Result {
	w := class.Word
	d := req.Ctx.Syntax.Dialect()
	if req.Ctx.Assistant == nil {
		return Result{}
	}

	container := procedureContainer(ctx, req, w.WordPart, d)
	mask := BuildMask(w.WordPart, d, req.Ctx.Config.SearchInsideNames)
	objs, _ := req.Ctx.Assistant.Find(ctx, catalog.LiveMonitor(), container, catalog.KindProcedure, mask, req.Ctx.Config.SearchGlobally, 0)
	return Result{Candidates: wrapObjects(objs, w.WordPart)}
}

// procedureContainer picks the selected object's container unless the
// prefix looks fully qualified and the selected container's own name
// isn't part of it, in which case the sibling container named by the
// prefix's leading segments is used instead (original_source/
// SQLCompletionAnalyzer's segment-counting rule: a prefix ending on the
// struct separator names the container in its last segment; otherwise
// the second-to-last segment names it).
func procedureContainer(ctx context.Context, req *reqctx.Request, prefix string, d dialect.Dialect) catalog.Object {
	var selected catalog.Object
	if req.Ctx.Exec != nil {
		selected = req.Ctx.Exec.SelectedContainer()
	}
	if !worddetect.ContainsSeparator(prefix, d) {
		return selected
	}
	segments := worddetect.SplitIdentifier(prefix, d)
	endsOnSeparator := strings.HasSuffix(prefix, string(d.StructSeparator()))

	var containerName string
	if endsOnSeparator {
		containerName = segments[len(segments)-1]
	} else if len(segments) >= 2 {
		containerName = segments[len(segments)-2]
	} else {
		return selected
	}

	if selected == nil {
		return nil
	}
	if strings.EqualFold(selected.Name(), containerName) {
		return selected
	}
	if req.Ctx.Navigator == nil {
		return selected
	}
	if sibling, ok := req.Ctx.Navigator.Child(ctx, selected, containerName); ok {
		return sibling
	}
	return selected
}

// EnumerateChildren implements §4.4.4, shared by every resolve path that
// needs to walk a container's or entity's children.
func EnumerateChildren(ctx context.Context, req *reqctx.Request, parent catalog.Object, startPart string) []Candidate {
	if a, ok := parent.(catalog.Aliasing); ok {
		resolved, err := a.ResolveAlias(ctx, catalog.LiveMonitor())
		if err == nil && resolved != nil {
			parent = resolved
		}
	}

	var children []catalog.Object
	if req.Ctx.Navigator != nil {
		children = req.Ctx.Navigator.Children(ctx, parent)
	} else if hc, ok := parent.(catalog.HasChildren); ok {
		children, _ = hc.Children(ctx, catalog.LiveMonitor())
	}

	var visible []catalog.Object
	for _, c := range children {
		if c.Hidden() {
			continue
		}
		visible = append(visible, c)
	}

	if startPart == "*" && !req.Ctx.Config.SimpleMode {
		return []Candidate{{StartPart: "*", AllColumns: visible}}
	}

	searchInside := req.Ctx.Config.SearchInsideNames
	var matched []Candidate
	for _, c := range visible {
		if searchInside {
			score := fuzzy.Score(c.Name(), startPart)
			if score > 0 {
				matched = append(matched, Candidate{Object: c, Score: score, StartPart: startPart})
			}
		} else if util.HasPrefixIgnoreCase(c.Name(), startPart) {
			matched = append(matched, Candidate{Object: c, StartPart: startPart})
		}
	}

	sortCandidates(matched, req.Ctx.Config.SortAlphabetically)
	return matched
}

func sortCandidates(cands []Candidate, alphabetical bool) {
	hasScores := false
	for _, c := range cands {
		if c.Score > 0 {
			hasScores = true
			break
		}
	}
	if hasScores {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
		return
	}
	if alphabetical {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Object.Name() < cands[j].Object.Name() })
	}
}

func wrapObjects(objs []catalog.Object, startPart string) []Candidate {
	out := make([]Candidate, len(objs))
	for i, o := range objs {
		out[i] = Candidate{Object: o, StartPart: startPart}
	}
	return out
}

func resolveRefObject(ctx context.Context, req *reqctx.Request, ref tableref.Ref) catalog.Object {
	if req.Ctx.Navigator == nil {
		return nil
	}
	segs := strings.Split(ref.QualifiedName, ".")
	obj, ok := req.Ctx.Navigator.ResolveObject(ctx, nil, segs)
	if !ok {
		return nil
	}
	return obj
}

// valueKeywords is the set of attribute-context keywords after which a
// bare value (not a column) may be expected (§4.4.1's value-enumeration
// trigger).
var valueKeywords = map[string]bool{"SET": true, "WHERE": true, "AND": true, "OR": true, "ON": true}

// looksLikeValuePosition approximates "we appear to be at a value
// position": inside a string literal, right after LIKE/ILIKE, or the
// delimiter run is non-empty and doesn't end on a closing paren.
func looksLikeValuePosition(req *reqctx.Request, w *worddetect.Result) bool {
	if req.Partition == reqctx.PartitionString {
		return true
	}
	pk := strings.ToUpper(w.PrevKeyWord)
	if pk == "LIKE" || pk == "ILIKE" {
		return true
	}
	return w.PrevDelimiter != "" && !strings.HasSuffix(w.PrevDelimiter, ")")
}

func valueEntities(ctx context.Context, req *reqctx.Request, refs []tableref.Ref) []*catalog.Entity {
	var out []*catalog.Entity
	for _, r := range refs {
		if e, ok := resolveRefObject(ctx, req, r).(*catalog.Entity); ok {
			out = append(out, e)
		}
	}
	return out
}

// joinRightTableName re-runs the word detector at the ON keyword's own
// offset to recover the table name typed immediately before it (the
// "right table" of the JOIN ... ON being completed) — original_source/'s
// makeJoinColumnProposals does the equivalent with a second
// SQLWordPartDetector anchored at the join keyword's start offset.
func joinRightTableName(req *reqctx.Request, w *worddetect.Result) string {
	if w.PrevKeyWordOffset < 0 || req.Document == nil {
		return ""
	}
	prior := worddetect.Detect(req.Document, w.PrevKeyWordOffset, req.Ctx.Syntax)
	return prior.WordPart
}

// buildJoinConditions pairs every resolved root table against the table
// named just before ON, producing one JoinCondition per pair whose
// right-hand side resolves to an entity.
func buildJoinConditions(ctx context.Context, req *reqctx.Request, rootRefs []tableref.Ref, w *worddetect.Result) []JoinCondition {
	rightName := joinRightTableName(req, w)
	if rightName == "" {
		return nil
	}
	rightObj := resolveRefObject(ctx, req, tableref.Ref{QualifiedName: rightName})
	rightEntity, ok := rightObj.(*catalog.Entity)
	if !ok {
		return nil
	}
	var out []JoinCondition
	for _, rt := range rootRefs {
		leftEntity, ok := resolveRefObject(ctx, req, rt).(*catalog.Entity)
		if !ok {
			continue
		}
		out = append(out, JoinCondition{Left: leftEntity, Right: rightEntity})
	}
	return out
}

func leftTableName(refs []tableref.Ref) string {
	if len(refs) == 0 {
		return ""
	}
	return refs[0].QualifiedName
}

// applyJoinFilter retains only candidates whose backing entity has an
// association to leftTable in either direction, appending " ON" markers
// the proposal builder turns into a literal suffix.
func applyJoinFilter(ctx context.Context, cands []Candidate, leftTable string) []Candidate {
	if leftTable == "" {
		return cands
	}
	var out []Candidate
	for _, c := range cands {
		entity, ok := c.Object.(*catalog.Entity)
		if !ok {
			continue
		}
		assoc, err := entity.Associations(ctx, catalog.LiveMonitor())
		if err != nil {
			continue
		}
		for _, a := range assoc {
			if strings.EqualFold(a.RefEntity.Name(), leftTable) || strings.EqualFold(a.LocalEntity.Name(), leftTable) {
				c.AppendOn = true
				c.JoinLeftTable = leftTable
				out = append(out, c)
				break
			}
		}
	}
	if len(out) == 0 {
		return cands
	}
	return out
}
