package postfilter

import (
	"sort"
	"strings"

	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/fuzzy"
	"github.com/bastiangx/sqlassist/internal/propose"
	"github.com/bastiangx/sqlassist/internal/reqctx"
)

// buildKeywordAssist implements §4.7 step 4: dialect keywords matching
// wordPart, excluding type keywords, restricted in COLUMN context to
// FUNCTION/KEYWORD/OTHER, further restricted to allowedKeywords, sorted
// by fuzzy score ascending unless simple-mode, and never repeating a
// display string an object proposal already produced.
func buildKeywordAssist(req *reqctx.Request, class classify.Classification, d dialect.Dialect, existing []propose.Proposal) []propose.Proposal {
	seen := make(map[string]bool)
	for _, p := range existing {
		seen[strings.ToLower(p.DisplayString)] = true
	}

	wordPart := class.Word.WordPart
	allowed := allowedKeywords(class, d)

	type scored struct {
		kw    string
		kt    dialect.KeywordType
		score int
	}
	var candidates []scored
	for _, kw := range d.GetMatchedKeywords(wordPart) {
		kt, ok := d.GetKeywordType(kw)
		if !ok || kt == dialect.KeywordTypeType {
			continue
		}
		if class.QueryType == classify.QueryTypeColumn {
			if kt != dialect.KeywordTypeFunction && kt != dialect.KeywordTypeKeyword && kt != dialect.KeywordTypeOther {
				continue
			}
		}
		if allowed != nil && !allowed[strings.ToUpper(kw)] {
			continue
		}
		if seen[strings.ToLower(kw)] {
			continue
		}
		candidates = append(candidates, scored{kw: kw, kt: kt, score: fuzzy.Score(kw, wordPart)})
	}

	if !req.Ctx.Config.SimpleMode {
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score < candidates[j].score })
	}

	out := make([]propose.Proposal, 0, len(candidates))
	for _, c := range candidates {
		text := propose.ApplyCasing(c.kw, d, req.Ctx.Config.InsertCase)
		out = append(out, propose.Proposal{
			DisplayString:  text,
			ReplaceString:  text,
			CursorOffset:   len(text),
			Kind:           keywordKind(c.kt),
			Score:          c.score,
			IsSingleObject: true,
		})
	}
	return out
}

// allowedKeywords implements §4.7's allowedKeywords derivation. A nil
// result means no restriction beyond the base keyword-set filtering.
func allowedKeywords(class classify.Classification, d dialect.Dialect) map[string]bool {
	pk := strings.ToUpper(class.Word.PrevKeyWord)
	switch {
	case pk == "SELECT":
		return set("FROM")
	case pk == "DELETE":
		return set("FROM")
	case pk == "UPDATE":
		return set("SET")
	}

	if pk == "" && len(class.Word.PrevWords) == 0 {
		leads := make(map[string]bool)
		for _, kw := range d.QueryKeywords() {
			leads[strings.ToUpper(kw)] = true
		}
		for _, kw := range d.DMLKeywords() {
			leads[strings.ToUpper(kw)] = true
		}
		for _, kw := range d.DDLKeywords() {
			leads[strings.ToUpper(kw)] = true
		}
		for _, kw := range d.ExecuteKeywords() {
			leads[strings.ToUpper(kw)] = true
		}
		return leads
	}

	return nil
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[strings.ToUpper(w)] = true
	}
	return m
}
