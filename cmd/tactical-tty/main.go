package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Field-Command/internal/game"
	"github.com/Garsondee/Field-Command/internal/store"
	"github.com/Garsondee/Field-Command/internal/tty"
)

func main() {
	scenarioPath := flag.String("scenario", "", "scenario file (default: embedded crossroads)")
	unitsPath := flag.String("units", "", "unit registry file (default: embedded)")
	configPath := flag.String("config", "", "engine config file (default: embedded)")
	saveDir := flag.String("saves", "saves", "directory for quick saves")
	dsn := flag.String("db", os.Getenv("DATABASE_URL"), "postgres connection string; overrides -saves")
	logPath := flag.String("log", "tactical-tty.log", "log file; the terminal is owned by the UI")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	setup, err := game.LoadSetup(*scenarioPath, *unitsPath, *configPath)
	if err != nil {
		log.Fatal(err)
	}
	m, nav, err := setup.Build()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, closeStore, err := store.Open(ctx, *dsn, *saveDir)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	console := tty.New(m, screen, tty.Options{Nav: nav, Store: st})
	runErr := console.Run(ctx, time.Second/time.Duration(setup.Config.TPS))
	screen.Fini()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Print(runErr)
	}

	r := game.DetermineBattleOutcome(m)
	fmt.Printf("%s after %d ticks: %s\n", r.Outcome, m.CurrentTick(), r.Description)
	fmt.Print(m.Stats())
}
