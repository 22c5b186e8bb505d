// Package postfilter implements spec.md §4.7: the five-step pass that
// runs over the proposal builder's output before it reaches the caller —
// dedup, hide-duplicates, per-container user filters, keyword assist, and
// hippie in-document word completion. Every step is a pure function over
// a proposal slice; Apply runs them in the fixed order the section names.
package postfilter

import (
	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/propose"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/util"
)

// Apply runs the post-filter pipeline over proposals, built from one
// completion request and its classification.
func Apply(req *reqctx.Request, class classify.Classification, proposals []propose.Proposal) []propose.Proposal {
	out := dedupByDisplay(proposals)

	if req.Ctx.Config.HideDuplicates {
		out = hideCrossContainerDuplicates(out, activeContainer(req))
	}

	out = applyContainerFilters(out)

	if req.Partition != reqctx.PartitionString {
		d := req.Ctx.Syntax.Dialect()
		out = append(out, buildKeywordAssist(req, class, d, out)...)
	}

	if req.Ctx.Config.HippieEnabled {
		out = append(out, hippieProposals(req, class, out)...)
	}

	return out
}

// dedupByDisplay implements step 1: stable, first-wins dedup by display
// string.
func dedupByDisplay(proposals []propose.Proposal) []propose.Proposal {
	f := util.NewDisplayFilter()
	out := make([]propose.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if f.ShouldInclude(p.DisplayString) {
			out = append(out, p)
		}
	}
	return out
}

// activeContainer resolves the "active object" hide-duplicates compares
// against: the session's currently selected container, if any.
func activeContainer(req *reqctx.Request) catalog.Object {
	if req.Ctx.Exec == nil {
		return nil
	}
	return req.Ctx.Exec.SelectedContainer()
}

// hideCrossContainerDuplicates implements step 2: among proposals sharing
// a backing-object name, keep only the one belonging to the active
// container when one of them does; otherwise the group is left alone
// since there's no unambiguous winner.
func hideCrossContainerDuplicates(proposals []propose.Proposal, active catalog.Object) []propose.Proposal {
	if active == nil {
		return proposals
	}
	groups := make(map[string][]int)
	for i, p := range proposals {
		if p.BackingObject == nil {
			continue
		}
		key := util.FoldName(p.BackingObject.Name())
		groups[key] = append(groups[key], i)
	}

	drop := make(map[int]bool)
	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		hasActiveMember := false
		for _, i := range idxs {
			if sameContainer(proposals[i].ContainerObject, active) {
				hasActiveMember = true
				break
			}
		}
		if !hasActiveMember {
			continue
		}
		for _, i := range idxs {
			if !sameContainer(proposals[i].ContainerObject, active) {
				drop[i] = true
			}
		}
	}
	if len(drop) == 0 {
		return proposals
	}
	out := make([]propose.Proposal, 0, len(proposals)-len(drop))
	for i, p := range proposals {
		if !drop[i] {
			out = append(out, p)
		}
	}
	return out
}

func sameContainer(a, b catalog.Object) bool {
	return a != nil && b != nil && a == b
}

// applyContainerFilters implements step 3: consult the backing object's
// container for a per-object-class GlobFilter and drop any proposal whose
// backing object fails it.
func applyContainerFilters(proposals []propose.Proposal) []propose.Proposal {
	out := make([]propose.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p.BackingObject == nil {
			out = append(out, p)
			continue
		}
		container, ok := p.ContainerObject.(*catalog.Container)
		if !ok {
			out = append(out, p)
			continue
		}
		filter, ok := container.Filter(p.BackingObject.Kind())
		if !ok {
			out = append(out, p)
			continue
		}
		if passesGlobFilter(p.BackingObject.Name(), filter) {
			out = append(out, p)
		}
	}
	return out
}

func passesGlobFilter(name string, f catalog.GlobFilter) bool {
	if len(f.Include) > 0 && !matchesAny(name, f.Include) {
		return false
	}
	if matchesAny(name, f.Exclude) {
		return false
	}
	return true
}

func matchesAny(name string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, err := util.GlobMatch(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

// keywordKind maps a dialect KeywordType to the proposal Kind it should
// surface as.
func keywordKind(kt dialect.KeywordType) propose.Kind {
	switch kt {
	case dialect.KeywordTypeFunction:
		return propose.KindFunction
	case dialect.KeywordTypeType:
		return propose.KindType
	default:
		return propose.KindKeyword
	}
}
