package sqlserver

import (
	"context"
	"io"
	"time"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/propose"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/worddetect"
	"github.com/bastiangx/sqlassist/pkg/analyzer"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Session supplies the standing pieces of a Context a request doesn't
// carry itself: the catalog navigator, the structure assistant, the
// session's default schema/catalog, and the dialect in use.
type Session struct {
	Navigator *catalog.Navigator
	Assistant catalog.StructureAssistant
	Exec      reqctx.ExecutionContext
	Dialect   dialect.Dialect
	// DefaultConfig is overridden per request when a CompletionRequest
	// carries its own Config.
	DefaultConfig reqctx.Config
}

// Server handles msgpack IPC for completion requests, one catalog
// session serving every request on the stream.
type Server struct {
	session Session
	dec     *msgpack.Decoder
	enc     *msgpack.Encoder
}

// NewServer creates a completion server reading requests from r and
// writing responses to w.
func NewServer(session Session, r io.Reader, w io.Writer) *Server {
	return &Server{
		session: session,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
	}
}

// Start reads CompletionRequests until the stream closes, running one
// analyzer per request and writing back a CompletionResponse or
// CompletionError. It returns nil on a clean EOF.
func (s *Server) Start() error {
	log.Debug("sqlserver: listening for requests")
	for {
		var req CompletionRequest
		if err := s.dec.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("sqlserver: decoding request: %v", err)
			return err
		}
		s.handle(req)
	}
}

func (s *Server) handle(req CompletionRequest) {
	cfg := s.session.DefaultConfig
	if req.Config != nil {
		cfg = applyWireConfig(req.Config)
	}

	creq := &reqctx.Request{
		Document:            worddetect.NewStringDocument(req.Document),
		Offset:              req.Offset,
		ActiveStatementText: req.ActiveStatement,
		Partition:           toReqPartition(req.Partition),
		Ctx: &reqctx.Context{
			Syntax:    dialect.NewSyntaxManager(s.session.Dialect, cfg.InsertCase),
			Navigator: s.session.Navigator,
			Assistant: s.session.Assistant,
			Exec:      s.session.Exec,
			Config:    cfg,
		},
	}

	start := time.Now()
	res, err := analyzer.New(creq).Run(context.Background())
	elapsed := time.Since(start)

	if err != nil {
		s.sendError(req.ID, err.Error())
		return
	}

	s.send(CompletionResponse{
		ID:              req.ID,
		Proposals:       toWireProposals(res.Proposals),
		Count:           len(res.Proposals),
		SearchFinished:  res.SearchFinished,
		TimeTakenMicros: elapsed.Microseconds(),
	})
}

func (s *Server) send(resp CompletionResponse) {
	if err := s.enc.Encode(resp); err != nil {
		log.Errorf("sqlserver: encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string) {
	if err := s.enc.Encode(CompletionError{ID: id, Error: message}); err != nil {
		log.Errorf("sqlserver: encoding error response: %v", err)
	}
}

// toWireProposals strips the live catalog references a propose.Proposal
// carries down to the fields that actually cross the wire.
func toWireProposals(in []propose.Proposal) []WireProposal {
	out := make([]WireProposal, len(in))
	for i, p := range in {
		out[i] = WireProposal{
			Display:      p.DisplayString,
			Replace:      p.ReplaceString,
			CursorOffset: p.CursorOffset,
			Kind:         p.Kind.String(),
			Score:        p.Score,
		}
	}
	return out
}

// applyWireConfig translates a request-scoped WireConfig override into
// reqctx.Config, the same field-by-field translation
// pkg/config.Config.ToReqConfig applies to a TOML-loaded config.
func applyWireConfig(w *WireConfig) reqctx.Config {
	return reqctx.Config{
		InsertCase:                    parseCaseTransform(w.InsertCase),
		UseFQNames:                    w.UseFQNames,
		UseShortNames:                 w.UseShortNames,
		SortAlphabetically:            w.SortAlphabetically,
		SearchInsideNames:             w.SearchInsideNames,
		SearchGlobally:                w.SearchGlobally,
		SearchProcedures:              w.SearchProcedures,
		ShowValues:                    w.ShowValues,
		HideDuplicates:                w.HideDuplicates,
		SimpleMode:                    w.SimpleMode,
		AliasInsertMode:               parseAliasInsertMode(w.AliasInsertMode),
		ExperimentalReferenceAnalyzer: w.ExperimentalReferenceAnalyzer,
		HippieEnabled:                 w.HippieEnabled,
		MaxAttributeValueProposals:    w.MaxAttributeValueProposals,
	}
}

func parseCaseTransform(s string) dialect.CaseTransform {
	switch s {
	case "UPPER":
		return dialect.CaseUpper
	case "LOWER":
		return dialect.CaseLower
	default:
		return dialect.CaseAsTyped
	}
}

func parseAliasInsertMode(s string) reqctx.AliasInsertMode {
	switch s {
	case "EXTENDED":
		return reqctx.AliasInsertExtended
	case "NONE":
		return reqctx.AliasInsertNone
	default:
		return reqctx.AliasInsertPlain
	}
}
