// Command sqlassist is an interactive debug REPL for the completion
// pipeline: type a partial statement, optionally mark the cursor with
// "|", and see the proposals pkg/analyzer would return.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/worddetect"
	"github.com/bastiangx/sqlassist/pkg/analyzer"
	"github.com/bastiangx/sqlassist/pkg/config"
	"github.com/bastiangx/sqlassist/pkg/fixturecatalog"
	"github.com/charmbracelet/log"
)

func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// sessionExec exposes a fixture catalog's root objects as the session's
// default-schema children, so a bare "FROM |" has somewhere to look
// before any table has been typed.
type sessionExec struct {
	nav *catalog.Navigator
}

func (e *sessionExec) SelectedContainer() catalog.Object        { return nil }
func (e *sessionExec) SelectedSchema() catalog.Object           { return nil }
func (e *sessionExec) DefaultSchemaChildren() []catalog.Object  { return e.nav.Root(context.Background()) }
func (e *sessionExec) DefaultCatalogChildren() []catalog.Object { return nil }

func main() {
	sigHandler()

	fixturePath := flag.String("fixture", "", "Path to a TOML fixture describing the catalog (empty: built-in sample)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	configPath := flag.String("config", "", "Path to config.toml (empty: default search path)")
	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(false)
	} else {
		log.SetLevel(log.ErrorLevel)
	}

	if *fixturePath != "" {
		log.Warn("fixture file loading is not implemented, falling back to the built-in sample", "path", *fixturePath)
	}

	cfg, source, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debug("loaded config", "source", source)

	cat := fixturecatalog.New(fixturecatalog.Sample())
	nav := catalog.NewNavigator(cat, nil)
	syn := dialect.NewSyntaxManager(cfg.ResolveDialect(), cfg.KeywordCase())

	ctx := &reqctx.Context{
		Syntax:    syn,
		Navigator: nav,
		Assistant: cat,
		Exec:      &sessionExec{nav: nav},
		Config:    cfg.ToReqConfig(),
	}

	log.Print("sqlassist CLI [BETA]")
	log.Print("type a statement, mark the cursor with '|' (default: end of line), Ctrl+C to exit:")

	runREPL(ctx)
}

func runREPL(ctx *reqctx.Context) {
	reader := bufio.NewReader(os.Stdin)
	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Fatalf("input error: %v", err)
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		handleLine(ctx, line)
	}
}

// handleLine runs one REPL line through the analyzer and prints the
// resulting proposals.
func handleLine(ctx *reqctx.Context, line string) {
	text, offset := splitCursor(line)

	req := &reqctx.Request{
		Document:            worddetect.NewStringDocument(text),
		Offset:              offset,
		ActiveStatementText: text,
		Partition:           reqctx.PartitionCode,
		Ctx:                 ctx,
	}

	start := time.Now()
	res, err := analyzer.New(req).Run(context.Background())
	elapsed := time.Since(start)

	if err != nil {
		log.Errorf("analyzer error: %v", err)
		return
	}
	log.Debugf("took %v", elapsed)

	if res.SearchFinished && len(res.Proposals) == 0 {
		log.Warn("search finished, no proposals at this position")
		return
	}
	if len(res.Proposals) == 0 {
		log.Warn("no proposals found")
		return
	}

	log.Printf("Found %d proposals:", len(res.Proposals))
	for i, p := range res.Proposals {
		clName := fmt.Sprintf("\033[38;5;75m%s\033[0m", p.DisplayString)
		log.Printf("%2d. %-40s [%s] -> %q", i+1, clName, p.Kind, p.ReplaceString)
	}
}

// splitCursor extracts the first "|" in line as the cursor marker,
// returning the text with it removed and the offset it marked. A line
// with no marker is treated as a statement typed up to its end.
func splitCursor(line string) (text string, offset int) {
	if idx := strings.IndexByte(line, '|'); idx >= 0 {
		return line[:idx] + line[idx+1:], idx
	}
	return line, len(line)
}
