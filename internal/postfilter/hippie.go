package postfilter

import (
	"strings"
	"unicode"

	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/propose"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/util"
	"github.com/bastiangx/sqlassist/internal/worddetect"
)

// hippieProposals implements §4.7 step 5: an in-document word extractor
// over the buffer up to the cursor, emitting distinct identifier-like
// words at least as long as the typed prefix that start with it, as
// LITERAL proposals. Dotted names never survive extractIdentifierWords
// (the separator breaks the run); a word already produced by an earlier
// proposal, or identical to the prefix itself (the fragment being typed,
// not a completion of it), is skipped.
func hippieProposals(req *reqctx.Request, class classify.Classification, existing []propose.Proposal) []propose.Proposal {
	doc := req.Document
	if doc == nil {
		return nil
	}
	upto := req.Offset
	if upto > doc.Len() {
		upto = doc.Len()
	}
	prefix := class.Word.WordPart

	seen := make(map[string]bool)
	for _, p := range existing {
		seen[strings.ToLower(p.DisplayString)] = true
	}

	var out []propose.Proposal
	for _, w := range extractIdentifierWords(doc, upto) {
		if len(w) < len(prefix) {
			continue
		}
		if !util.HasPrefixIgnoreCase(w, prefix) {
			continue
		}
		key := strings.ToLower(w)
		if seen[key] || (prefix != "" && key == strings.ToLower(prefix)) {
			continue
		}
		seen[key] = true
		out = append(out, propose.Proposal{
			DisplayString:  w,
			ReplaceString:  w,
			CursorOffset:   len(w),
			Kind:           propose.KindLiteral,
			IsSingleObject: true,
		})
	}
	return out
}

// extractIdentifierWords scans doc[0:upto] for maximal runs of letters,
// digits, and underscores, in document order, duplicates included (the
// caller dedups).
func extractIdentifierWords(doc worddetect.Document, upto int) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < upto; i++ {
		r := doc.At(i)
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}
