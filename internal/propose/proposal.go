// Package propose turns resolved catalog candidates and synthesized
// fragments (join conditions, enumerated values) into replacement-ready
// Proposal records: alias injection, WHERE/AND qualification, full
// qualification, identifier casing, and function cursor placement.
package propose

import "github.com/bastiangx/sqlassist/internal/catalog"

// Kind classifies a Proposal's insertion semantics, independent of the
// catalog Kind of any backing object.
type Kind int

const (
	KindKeyword Kind = iota
	KindFunction
	KindType
	KindLiteral
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindFunction:
		return "function"
	case KindType:
		return "type"
	case KindLiteral:
		return "literal"
	default:
		return "other"
	}
}

// Proposal is one completion record ready for the editor to insert.
type Proposal struct {
	DisplayString string
	ReplaceString string
	// CursorOffset is the index into ReplaceString where the cursor
	// should land after insertion (end of string, except FUNCTION kind
	// which places it between the parens).
	CursorOffset int
	Image        string
	Kind         Kind
	Score        int
	BackingObject   catalog.Object
	ContainerObject catalog.Object
	IsFullyQualified bool
	// IsSingleObject is false for the "*" all-columns aggregate, which
	// represents many backing objects concatenated into one proposal.
	IsSingleObject bool
	Params map[string]any
}
