/*
Package sqlserver implements msgpack IPC for the completion analyzer.

The server operates on a request/response model over stdin/stdout: one
msgpack-encoded CompletionRequest in, one msgpack-encoded CompletionResponse
(or CompletionError) out, decoded and encoded back to back on the same
stream with no length framing — msgpack values are self-delimiting, the
same way this pack's other IPC server streams JSON values back to back.

Send a completion request:

	{"id": "req1", "doc": "SELECT * FROM ", "off": 14, "stmt": "SELECT * FROM "}

Receive proposals with timing info:

	{"id": "req1", "proposals": [{"display": "orders", "replace": "orders"}], "count": 1, "us": 42}
*/
package sqlserver

import "github.com/bastiangx/sqlassist/internal/reqctx"

// CompletionRequest is one analyzer run's wire input.
type CompletionRequest struct {
	ID string `msgpack:"id"`
	// Document is the full statement text the cursor sits inside.
	Document string `msgpack:"doc"`
	// Offset is the cursor position within Document, in runes.
	Offset int `msgpack:"off"`
	// ActiveStatement is the enclosing statement's own text, which may
	// differ from Document when the client sends a whole script.
	ActiveStatement string `msgpack:"stmt,omitempty"`
	// Partition overrides the lexer partition at the cursor: 0 = code,
	// 1 = string literal, 2 = quoted identifier. Absent (0) means code.
	Partition int `msgpack:"part,omitempty"`
	// Config overrides the server's default option set for this request
	// only. A nil Config reuses the server's standing configuration.
	Config *WireConfig `msgpack:"config,omitempty"`
}

// WireConfig is reqctx.Config's msgpack-serializable form, the same
// field set pkg/config.AnalyzerConfig carries for its TOML file.
type WireConfig struct {
	InsertCase                    string `msgpack:"insert_case,omitempty"`
	UseFQNames                    bool   `msgpack:"use_fq_names,omitempty"`
	UseShortNames                 bool   `msgpack:"use_short_names,omitempty"`
	SortAlphabetically            bool   `msgpack:"sort_alphabetically,omitempty"`
	SearchInsideNames             bool   `msgpack:"search_inside_names,omitempty"`
	SearchGlobally                bool   `msgpack:"search_globally,omitempty"`
	SearchProcedures              bool   `msgpack:"search_procedures,omitempty"`
	ShowValues                    bool   `msgpack:"show_values,omitempty"`
	HideDuplicates                bool   `msgpack:"hide_duplicates,omitempty"`
	SimpleMode                    bool   `msgpack:"simple_mode,omitempty"`
	AliasInsertMode               string `msgpack:"alias_insert_mode,omitempty"`
	ExperimentalReferenceAnalyzer bool   `msgpack:"experimental_reference_analyzer,omitempty"`
	HippieEnabled                 bool   `msgpack:"hippie_enabled,omitempty"`
	MaxAttributeValueProposals    int    `msgpack:"max_attribute_value_proposals,omitempty"`
}

// WireProposal is one propose.Proposal flattened to wire-safe fields;
// BackingObject/ContainerObject never cross the wire since they're live
// catalog references, not serializable values.
type WireProposal struct {
	Display      string `msgpack:"display"`
	Replace      string `msgpack:"replace"`
	CursorOffset int    `msgpack:"cursor"`
	Kind         string `msgpack:"kind"`
	Score        int    `msgpack:"score,omitempty"`
}

// CompletionResponse is one analyzer run's wire output.
type CompletionResponse struct {
	ID              string         `msgpack:"id"`
	Proposals       []WireProposal `msgpack:"proposals"`
	Count           int            `msgpack:"count"`
	SearchFinished  bool           `msgpack:"search_finished,omitempty"`
	TimeTakenMicros int64          `msgpack:"us"`
}

// CompletionError reports a request that could not be analyzed.
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
}

// toReqPartition maps the wire partition code to reqctx.Partition.
func toReqPartition(n int) reqctx.Partition {
	switch n {
	case 1:
		return reqctx.PartitionString
	case 2:
		return reqctx.PartitionQuotedIdent
	default:
		return reqctx.PartitionCode
	}
}
