package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/grid-snake/config"
	"github.com/hoshinonyaruko/grid-snake/snake"
	"github.com/hoshinonyaruko/grid-snake/term"
)

func main() {
	cfg := config.LoadConfig("./config.json")
	width := flag.Int("width", cfg.Width, "grid width in cells")
	height := flag.Int("height", cfg.Height, "grid height in cells")
	interval := flag.Duration("interval", config.GetTickInterval(), "tick interval")
	flag.Parse()

	state, err := snake.New(*width, *height)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to open terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize terminal: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = term.Run(ctx, screen, snake.NewSession(state), *interval)
	screen.Fini()
	if err != nil {
		log.Fatal(err)
	}

	// 中途退出时不打印结果
	if summary := term.Summary(state.Snapshot()); summary != "" {
		log.Print(summary)
	}
}
