// Command sqlassist-server runs the completion analyzer as a msgpack IPC
// server over stdin/stdout, for editor integrations that spawn it as a
// subprocess.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/sqlassist/internal/catalog"
	"github.com/bastiangx/sqlassist/pkg/config"
	"github.com/bastiangx/sqlassist/pkg/fixturecatalog"
	"github.com/bastiangx/sqlassist/pkg/sqlserver"
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

// staticExec exposes a fixture catalog's roots as the session's default
// schema children for the "propose from the session's default schema"
// empty-prefix fallback.
type staticExec struct {
	roots []catalog.Object
}

func (e *staticExec) SelectedContainer() catalog.Object        { return nil }
func (e *staticExec) SelectedSchema() catalog.Object           { return nil }
func (e *staticExec) DefaultSchemaChildren() []catalog.Object  { return e.roots }
func (e *staticExec) DefaultCatalogChildren() []catalog.Object { return nil }

func main() {
	sigHandler()

	debugMode := flag.Bool("d", false, "Toggle debug mode")
	configPath := flag.String("config", "", "Path to config.toml (empty: default search path)")
	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, source, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debug("loaded config", "source", source)

	cat := fixturecatalog.New(fixturecatalog.Sample())
	nav := catalog.NewNavigator(cat, nil)

	session := sqlserver.Session{
		Navigator:     nav,
		Assistant:     cat,
		Exec:          &staticExec{roots: nav.Root(context.Background())},
		Dialect:       cfg.ResolveDialect(),
		DefaultConfig: cfg.ToReqConfig(),
	}

	log.Debug("spawning sqlassist IPC server")
	srv := sqlserver.NewServer(session, os.Stdin, os.Stdout)
	if err := srv.Start(); err != nil {
		log.Fatalf("server error: %v", err)
		os.Exit(1)
	}
}
