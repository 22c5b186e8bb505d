package propose

import (
	"context"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/resolve"
)

// GenerateJoinCondition synthesizes a "left.col = right.col" criterion
// from an association between jc.Left and jc.Right, in either direction —
// the Go counterpart of original_source/'s
// SQLUtils.generateTableJoin/makeJoinColumnProposals. Returns ok=false if
// no association links the two entities.
func GenerateJoinCondition(d dialect.Dialect, jc resolve.JoinCondition) (string, bool) {
	sep := string(d.StructSeparator())

	if assoc, err := jc.Left.Associations(context.Background(), catalog.LiveMonitor()); err == nil {
		for _, a := range assoc {
			if a.RefEntity == jc.Right {
				return jc.Left.Name() + sep + a.LocalColumn + " = " + jc.Right.Name() + sep + a.RefColumn, true
			}
		}
	}
	if assoc, err := jc.Right.Associations(context.Background(), catalog.LiveMonitor()); err == nil {
		for _, a := range assoc {
			if a.RefEntity == jc.Left {
				return jc.Left.Name() + sep + a.RefColumn + " = " + jc.Right.Name() + sep + a.LocalColumn, true
			}
		}
	}
	return "", false
}
