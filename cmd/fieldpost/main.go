package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/fieldpost/internal/config"
	"github.com/jask/fieldpost/internal/intake"
	"github.com/jask/fieldpost/internal/service"
	"github.com/jask/fieldpost/internal/staging"
	"github.com/jask/fieldpost/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if len(cfg.Roster.Officers) == 0 {
		log.Fatal("config: roster.officers is empty")
	}

	client := intake.NewClient(cfg.Intake.Endpoint, cfg.Intake.Timeout())
	set := staging.NewSet()
	submitter := &service.Submitter{Client: client}

	p := tea.NewProgram(tui.New(ctx, cfg, set, submitter, client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
