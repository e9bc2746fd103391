package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Garsondee/Field-Command/internal/game"
	"github.com/Garsondee/Field-Command/internal/spectate"
	"github.com/Garsondee/Field-Command/internal/store"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type pageData struct {
	Name          string
	Width, Height int
}

func newMux(hub *spectate.Hub, page pageData) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, page); err != nil {
			log.Printf("render index: %v", err)
		}
	})
	return mux
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	scenarioPath := flag.String("scenario", "", "scenario file (default: embedded crossroads)")
	unitsPath := flag.String("units", "", "unit registry file (default: embedded)")
	configPath := flag.String("config", "", "engine config file (default: embedded)")
	saveDir := flag.String("saves", "saves", "directory for save records")
	dsn := flag.String("db", os.Getenv("DATABASE_URL"), "postgres connection string; overrides -saves")
	resume := flag.String("resume", "", "save record to restore before starting")
	autosave := flag.String("autosave", "spectator", "save record written on shutdown; empty disables")
	flag.Parse()

	setup, err := game.LoadSetup(*scenarioPath, *unitsPath, *configPath)
	if err != nil {
		log.Fatal(err)
	}
	m, _, err := setup.Build()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := store.Open(ctx, *dsn, *saveDir)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	if *resume != "" {
		snap, err := st.Load(ctx, *resume)
		if err != nil {
			log.Fatalf("resume %q: %v", *resume, err)
		}
		if err := m.Restore(snap); err != nil {
			log.Fatalf("resume %q: %v", *resume, err)
		}
		log.Printf("resumed %q at tick %d", *resume, snap.Tick)
	}

	hub := spectate.NewHub()
	m.SetUIBridge(hub)
	m.SetEventSink(hub)
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newMux(hub, pageData{Name: setup.Scenario.Name, Width: setup.Scenario.Map.Width, Height: setup.Scenario.Map.Height}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("spectator listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	period := time.Second / time.Duration(setup.Config.TPS)
	if err := hub.Drive(ctx, m, period); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("simulation stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if *autosave != "" {
		if err := st.Save(shutdownCtx, *autosave, m.Snapshot()); err != nil {
			log.Printf("autosave: %v", err)
		} else {
			log.Printf("saved %q at tick %d", *autosave, m.CurrentTick())
		}
	}
	log.Print(m.Stats())
}
