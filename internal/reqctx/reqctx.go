// Package reqctx defines the request, context, and configuration types
// shared by the classifier, resolver, proposal builder, and post-filter.
// It sits below all of them in the import graph — it depends on dialect,
// catalog, and worddetect but never on its own consumers — so that
// pkg/analyzer can wire everything together without an import cycle.
package reqctx

import (
	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/worddetect"
)

// Partition is the lexer/partitioner verdict at the cursor.
type Partition int

const (
	PartitionCode Partition = iota
	PartitionString
	PartitionQuotedIdent
)

// AliasInsertMode controls whether and how a synthesized table alias is
// appended to an entity proposal.
type AliasInsertMode int

const (
	AliasInsertNone AliasInsertMode = iota
	AliasInsertPlain
	// AliasInsertExtended appends "AS alias" instead of a bare alias.
	AliasInsertExtended
)

// Config is the enumerated option set of the completion request.
type Config struct {
	InsertCase                    dialect.CaseTransform
	UseFQNames                    bool
	UseShortNames                 bool
	SortAlphabetically            bool
	SearchInsideNames             bool
	SearchGlobally                bool
	SearchProcedures              bool
	ShowValues                    bool
	HideDuplicates                bool
	SimpleMode                    bool
	AliasInsertMode               AliasInsertMode
	ExperimentalReferenceAnalyzer bool
	HippieEnabled                 bool
	// MaxAttributeValueProposals caps value-enumeration proposals.
	MaxAttributeValueProposals int
}

// DefaultConfig returns the configuration spec.md describes as the
// out-of-the-box behavior: prefix matching, alphabetical fallback sort,
// plain alias insertion, everything else off.
func DefaultConfig() Config {
	return Config{
		InsertCase:                 dialect.CaseAsTyped,
		SortAlphabetically:         true,
		AliasInsertMode:            AliasInsertPlain,
		MaxAttributeValueProposals: 50,
	}
}

// ExecutionContext exposes the session's currently selected catalog
// objects — the "selected object" fallback that dotted-path descent and
// procedure search consult when the first path segment doesn't resolve
// from the root.
type ExecutionContext interface {
	SelectedContainer() catalog.Object
	SelectedSchema() catalog.Object
	// DefaultSchemaChildren/DefaultCatalogChildren back the empty-prefix
	// proposal path (§4.4.1 "propose from the session's default schema
	// children, then default catalog children, then data-source roots").
	DefaultSchemaChildren() []catalog.Object
	DefaultCatalogChildren() []catalog.Object
}

// Context bundles everything a completion request needs beyond the
// document and cursor: the dialect/syntax rules, the catalog backend,
// the session's execution context, and the configuration.
type Context struct {
	Syntax            dialect.SyntaxManager
	Navigator         *catalog.Navigator
	Assistant         catalog.StructureAssistant
	Exec              ExecutionContext
	Config            Config
	ExtraMetadataRead bool
}

// Request is the immutable input to one completion run.
type Request struct {
	Document             worddetect.Document
	Offset               int
	ActiveStatementStart int
	ActiveStatementText  string
	Partition            Partition
	Ctx                  *Context
}
