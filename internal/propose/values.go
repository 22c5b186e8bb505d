package propose

import (
	"context"
	"strings"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/reqctx"
)

// defaultMaxAttributeValueProposals is used when the config leaves the
// cap unset (zero value), matching spec.md §4.5's MAX_ATTRIBUTE_VALUE_PROPOSALS.
const defaultMaxAttributeValueProposals = 50

// buildValueProposals implements §4.4.1's value-enumeration path: the
// column named by the last accumulated prevWords entry (the token
// nearest the triggering keyword, not the cursor) is looked up on every
// candidate root entity, and its dictionary or enumerable values become
// LITERAL proposals.
func buildValueProposals(req *reqctx.Request, class classify.Classification, entities []*catalog.Entity) []Proposal {
	w := class.Word
	if len(w.PrevWords) == 0 {
		return nil
	}
	colName := w.PrevWords[len(w.PrevWords)-1]

	var out []Proposal
	for _, e := range entities {
		attrs, err := e.Attributes(context.Background(), catalog.LiveMonitor())
		if err != nil {
			continue
		}
		for _, a := range attrs {
			if strings.EqualFold(a.Name(), colName) {
				out = append(out, valuesForAttribute(req, a)...)
			}
		}
	}
	return out
}

func valuesForAttribute(req *reqctx.Request, a *catalog.Attribute) []Proposal {
	max := req.Ctx.Config.MaxAttributeValueProposals
	if max <= 0 {
		max = defaultMaxAttributeValueProposals
	}

	switch a.ValueSource {
	case catalog.ValueSourceDictionary:
		var out []Proposal
		for i, dv := range a.DictionaryValues {
			if i >= max {
				break
			}
			out = append(out, valueProposal(req, dv.Value, dv.Label, a))
		}
		return out
	case catalog.ValueSourceEnumerable:
		var out []Proposal
		for i, v := range a.EnumerableValues {
			if i >= max {
				break
			}
			out = append(out, valueProposal(req, v, "", a))
		}
		return out
	default:
		return nil
	}
}

func valueProposal(req *reqctx.Request, raw, label string, a *catalog.Attribute) Proposal {
	display := raw
	if label != "" {
		display = raw + " - " + label
	}
	replace := raw
	if req.Partition != reqctx.PartitionString {
		replace = sqlLiteral(raw)
	}
	return Proposal{
		DisplayString:  display,
		ReplaceString:  replace,
		CursorOffset:   len(replace),
		Kind:           KindLiteral,
		BackingObject:  a,
		IsSingleObject: true,
	}
}

// sqlLiteral quotes raw as a SQL string literal, doubling embedded quotes.
func sqlLiteral(raw string) string {
	return "'" + strings.ReplaceAll(raw, "'", "''") + "'"
}
