// Package worddetect scans the document around the cursor to isolate the
// identifier fragment being typed and the tokens leading up to it. It is a
// pure function of the document, the cursor offset, and the syntax
// manager: no state survives between calls.
package worddetect

import (
	"strings"

	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/util"
)

// maxPrevWords bounds how many non-keyword tokens are collected to the
// left of wordPart before giving up on finding prevKeyWord.
const maxPrevWords = 8

// Document is random-access read access to the text being completed.
// Implementations need not be backed by a string in memory; a rope or a
// text-editor buffer works equally well.
type Document interface {
	// Len returns the total document length in runes.
	Len() int
	// At returns the rune at position i, 0 <= i < Len().
	At(i int) rune
}

// StringDocument is a Document backed by an in-memory string, converted
// once to a rune slice for O(1) indexed access.
type StringDocument struct {
	runes []rune
}

// NewStringDocument wraps s as a Document.
func NewStringDocument(s string) *StringDocument {
	return &StringDocument{runes: []rune(s)}
}

func (d *StringDocument) Len() int      { return len(d.runes) }
func (d *StringDocument) At(i int) rune { return d.runes[i] }

// Result is the word detector's output for one completion request.
type Result struct {
	// WordPart is the identifier fragment immediately left of the
	// cursor, possibly empty.
	WordPart string
	// WordStart, WordEnd delimit WordPart's span in the document.
	WordStart, WordEnd int

	// PrevKeyWord is the nearest dialect keyword to the left of
	// WordPart, or empty if none was found within the scan bound.
	PrevKeyWord string
	// PrevKeyWordOffset is PrevKeyWord's start offset, or -1 if absent.
	PrevKeyWordOffset int
	// PrevWords holds the non-keyword tokens between WordPart and
	// PrevKeyWord, most-recent (closest to WordPart) first.
	PrevWords []string
	// PrevDelimiter is the literal run of non-word characters between
	// PrevWords[0] (or WordPart, if PrevWords is empty) and WordPart.
	PrevDelimiter string

	// NextWord is the identifier-like token immediately right of the
	// cursor, possibly empty.
	NextWord string
}

// Detect scans document around offset and builds a Result. syn supplies
// the struct separator and the dialect keyword table.
func Detect(doc Document, offset int, syn dialect.SyntaxManager) *Result {
	sep := syn.StructSeparator()
	d := syn.Dialect()

	wordStart, word := scanWordLeft(doc, offset, sep)
	r := &Result{
		WordPart:          word,
		WordStart:         wordStart,
		WordEnd:           offset,
		PrevKeyWordOffset: -1,
	}

	// The delimiter sits directly left of wordStart regardless of how
	// many prevWords are eventually found; record it before consuming
	// the run in the prevWords scan.
	r.PrevDelimiter = runesToString(doc, skipNonWordLeft(doc, wordStart), wordStart)

	pos := wordStart
	var prevWords []string
	for len(prevWords) < maxPrevWords && pos > 0 {
		tokenEnd := skipNonWordLeft(doc, pos)
		if tokenEnd == pos {
			break
		}
		tokStart, tok := scanWordLeft(doc, tokenEnd, sep)
		if tok == "" {
			break
		}
		if _, ok := d.GetKeywordType(tok); ok {
			r.PrevKeyWord = tok
			r.PrevKeyWordOffset = tokStart
			break
		}
		prevWords = append(prevWords, tok)
		pos = tokStart
	}
	r.PrevWords = prevWords

	_, r.NextWord = scanWordRight(doc, offset, sep)

	return r
}

// ShiftOffset adjusts a Result's word span when the classifier rewrites
// the matched prefix (see the '*' handling in the classifier).
func (r *Result) ShiftOffset(delta int) {
	r.WordStart += delta
	if r.WordStart < 0 {
		r.WordStart = 0
	}
}

func scanWordLeft(doc Document, from int, sep rune) (start int, word string) {
	i := from
	for i > 0 && util.IsIdentifierRune(doc.At(i-1), sep) {
		i--
	}
	return i, runesToString(doc, i, from)
}

func scanWordRight(doc Document, from int, sep rune) (end int, word string) {
	i := from
	n := doc.Len()
	for i < n && util.IsIdentifierRune(doc.At(i), sep) {
		i++
	}
	return i, runesToString(doc, from, i)
}

func skipNonWordLeft(doc Document, from int) int {
	i := from
	for i > 0 && !util.IsIdentifierRune(doc.At(i-1), 0) {
		i--
	}
	return i
}

func runesToString(doc Document, start, end int) string {
	if start >= end {
		return ""
	}
	b := make([]rune, 0, end-start)
	for i := start; i < end; i++ {
		b = append(b, doc.At(i))
	}
	return string(b)
}

// IsQuoted reports whether token is wrapped in one of the dialect's
// identifier quote pairs.
func IsQuoted(token string, d dialect.Dialect) bool {
	for _, qp := range d.IdentifierQuoteStrings() {
		if strings.HasPrefix(token, qp.Open) && strings.HasSuffix(token, qp.Close) && len(token) >= len(qp.Open)+len(qp.Close) {
			return true
		}
	}
	return false
}

// RemoveQuotes strips a matching dialect quote pair from token, if present.
func RemoveQuotes(token string, d dialect.Dialect) string {
	for _, qp := range d.IdentifierQuoteStrings() {
		if strings.HasPrefix(token, qp.Open) && strings.HasSuffix(token, qp.Close) && len(token) >= len(qp.Open)+len(qp.Close) {
			return token[len(qp.Open) : len(token)-len(qp.Close)]
		}
	}
	return token
}

// SplitIdentifier splits token on the dialect struct separator, ignoring
// separators that occur inside a quoted segment.
func SplitIdentifier(token string, d dialect.Dialect) []string {
	sep := byte('.')
	for _, qp := range d.IdentifierQuoteStrings() {
		if qp.Open == "." {
			sep = '.'
		}
	}
	var parts []string
	var cur strings.Builder
	quoted := false
	var quoteClose string
	i := 0
	for i < len(token) {
		if !quoted {
			opened := false
			for _, qp := range d.IdentifierQuoteStrings() {
				if strings.HasPrefix(token[i:], qp.Open) {
					quoted = true
					quoteClose = qp.Close
					cur.WriteString(qp.Open)
					i += len(qp.Open)
					opened = true
					break
				}
			}
			if opened {
				continue
			}
			if token[i] == sep {
				parts = append(parts, cur.String())
				cur.Reset()
				i++
				continue
			}
			cur.WriteByte(token[i])
			i++
			continue
		}
		if strings.HasPrefix(token[i:], quoteClose) {
			cur.WriteString(quoteClose)
			i += len(quoteClose)
			quoted = false
			continue
		}
		cur.WriteByte(token[i])
		i++
	}
	parts = append(parts, cur.String())
	return parts
}

// ContainsSeparator reports whether token contains the dialect's struct
// separator outside of any quoted segment.
func ContainsSeparator(token string, d dialect.Dialect) bool {
	return len(SplitIdentifier(token, d)) > 1
}
