// Package analyzer wires the word detector, classifier, resolver,
// proposal builder, and post-filter into the single synchronous call a
// caller actually makes: one document, one cursor offset, one result.
// Nothing here holds state across requests — every Analyzer is built for
// exactly one Run and discarded.
package analyzer

import (
	"context"
	"fmt"

	"github.com/bastiangx/sqlassist/internal/classify"
	"github.com/bastiangx/sqlassist/internal/postfilter"
	"github.com/bastiangx/sqlassist/internal/propose"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/resolve"
	"github.com/bastiangx/sqlassist/internal/tableref"
	"github.com/bastiangx/sqlassist/internal/worddetect"
)

// Request and Config are the caller-facing names for the types every
// downstream package already shares through internal/reqctx.
type (
	Request = reqctx.Request
	Context = reqctx.Context
	Config  = reqctx.Config
)

// DefaultConfig returns the out-of-the-box option set spec.md describes.
func DefaultConfig() Config { return reqctx.DefaultConfig() }

// Result is one completion run's full output.
type Result struct {
	// Proposals is the post-filtered proposal list, in final display
	// order. Empty (not nil) when SearchFinished is true.
	Proposals []propose.Proposal
	// SearchFinished mirrors DBeaver's SQLCompletionAnalyzer "search
	// finished without searching" signal: the classifier or resolver
	// decided the cursor position can never complete to anything (an
	// alias sitting at the cursor, or a STRING partition directly after
	// INTO), so no further search is worth attempting, even a retry
	// with different options.
	SearchFinished bool
}

// Analyzer runs exactly one completion request. Construct one with New
// per request; Run errors if called more than once.
type Analyzer struct {
	req *Request
	ran bool
}

// New builds an Analyzer for req. req.Ctx must be populated: Syntax,
// Navigator or Assistant (or both), and Config at minimum.
func New(req *Request) *Analyzer {
	return &Analyzer{req: req}
}

// Run executes the word-detect -> classify -> resolve -> propose ->
// post-filter pipeline once and returns its Result. A second call on the
// same Analyzer returns an error rather than silently recomputing;
// build a new Analyzer for the next request.
func (a *Analyzer) Run(ctx context.Context) (Result, error) {
	if a.ran {
		return Result{}, fmt.Errorf("analyzer: Run called more than once on the same request")
	}
	a.ran = true

	req := a.req
	if req.Ctx == nil {
		return Result{}, fmt.Errorf("analyzer: request has no Context")
	}
	if req.Ctx.Syntax == nil {
		return Result{}, fmt.Errorf("analyzer: request Context has no SyntaxManager")
	}

	word := worddetect.Detect(req.Document, req.Offset, req.Ctx.Syntax)
	class := classify.Classify(req, word)

	if class.Suppressed {
		return Result{Proposals: []propose.Proposal{}, SearchFinished: true}, nil
	}

	refs := referenceAnalyzer(req.Ctx.Config)

	result := resolve.Resolve(ctx, req, class, refs)
	if result.Suppressed || result.AliasOnCursor {
		return Result{Proposals: []propose.Proposal{}, SearchFinished: true}, nil
	}

	built := propose.Build(ctx, req, class, result, refs)
	filtered := postfilter.Apply(req, class, built)
	if filtered == nil {
		filtered = []propose.Proposal{}
	}

	return Result{Proposals: filtered}, nil
}

// referenceAnalyzer picks the table-reference analyzer the rest of the
// pipeline threads explicitly through every call: the regex-based
// Pattern by default, or the parser-backed Structural implementation
// when the caller opted into it. pkg/analyzer owns this choice because
// resolve and propose take tableref.Analyzer as an explicit parameter
// rather than reading it off reqctx.Context.
func referenceAnalyzer(cfg reqctx.Config) tableref.Analyzer {
	if cfg.ExperimentalReferenceAnalyzer {
		return tableref.NewStructural(nil)
	}
	return tableref.NewPattern()
}
