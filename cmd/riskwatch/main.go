package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"riskwatch/internal/api"
	"riskwatch/internal/config"
	"riskwatch/internal/ledger"
	"riskwatch/internal/predict"
	"riskwatch/internal/roster"
	"riskwatch/internal/session"
	"riskwatch/internal/stats"
	"riskwatch/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if os.Getenv("RISKWATCH_DEBUG") != "" {
		f, err := tea.LogToFile("riskwatch-debug.log", "debug")
		if err != nil {
			log.Fatalf("debug log: %v", err)
		}
		defer f.Close()
	}

	sess := session.NewStore("")
	httpc := &http.Client{Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second}
	client := api.NewClient(cfg.API.BaseURL, sess, httpc)

	svc := tui.Services{
		Client:  client,
		Session: sess,
		Roster:  roster.NewStore(client),
		Predict: &predict.Orchestrator{Client: client},
		Ledger:  ledger.New(client),
		Stats:   &stats.Service{Client: client},
	}

	p := tea.NewProgram(tui.New(ctx, cfg, svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
