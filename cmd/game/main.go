package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Field-Command/internal/audio"
	"github.com/Garsondee/Field-Command/internal/game"
	"github.com/Garsondee/Field-Command/internal/store"
	"github.com/Garsondee/Field-Command/internal/view"
)

func main() {
	scenarioPath := flag.String("scenario", "", "scenario file (default: embedded crossroads)")
	unitsPath := flag.String("units", "", "unit registry file (default: embedded)")
	configPath := flag.String("config", "", "engine config file (default: embedded)")
	saveDir := flag.String("saves", "saves", "directory for quick saves")
	dsn := flag.String("db", os.Getenv("DATABASE_URL"), "postgres connection string; overrides -saves")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	setup, err := game.LoadSetup(*scenarioPath, *unitsPath, *configPath)
	if err != nil {
		log.Fatal(err)
	}
	m, nav, err := setup.Build()
	if err != nil {
		log.Fatal(err)
	}

	st, closeStore, err := store.Open(context.Background(), *dsn, *saveDir)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	var sinks []game.EventSink
	if !*mute {
		sb := audio.NewSoundBoard()
		if err := sb.Initialize(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			defer sb.Close()
			sinks = append(sinks, sb)
		}
	}

	g := view.New(m, view.Options{
		MapWidth:  setup.Scenario.Map.Width,
		MapHeight: setup.Scenario.Map.Height,
		Nav:       nav,
		Store:     st,
		Sinks:     sinks,
	})
	ebiten.SetWindowTitle("Field Command - " + setup.Scenario.Name)
	ebiten.SetWindowSize(g.WindowSize())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
