package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rgoodwin/leaguelotto/internal/app"
	"github.com/rgoodwin/leaguelotto/internal/config"
	"github.com/rgoodwin/leaguelotto/internal/logger"
	"github.com/rgoodwin/leaguelotto/internal/report"
	"github.com/rgoodwin/leaguelotto/internal/repository"
	"github.com/rgoodwin/leaguelotto/internal/services"
	"github.com/rgoodwin/leaguelotto/web"
)

const version = "1.2.0"

func usage() {
	fmt.Fprintf(os.Stderr, `LeagueLotto - Club League Lottery

Usage:
  leaguelotto [options]

Options:
  -registrants str  Registrant export CSV (or REGISTRANTS_CSV env)
  -leagues str      League catalog CSV (or LEAGUES_CSV env)
  -out str          Directory for generated reports (default ".")
  -db str           Results database path (default "leaguelotto.db")
  -seed int         Random seed; same seed, same draw (default: clock)
  -cap int          Global per-member league cap (default 25)
  -log-level str    Log level: debug, info, warn, error (default "info")
  -serve            Start the dashboard server after the draw
  -port int         Dashboard server port (default 8080)
  -version          Show version and exit
  -help             Show this help message

Examples:
  leaguelotto -registrants export.csv -leagues catalog.csv
  leaguelotto -registrants export.csv -leagues catalog.csv -seed 42
  leaguelotto -registrants export.csv -leagues catalog.csv -serve
  leaguelotto -serve -db /data/lottery.db    # dashboard over past runs only

`)
}

func main() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-version", "--version":
			fmt.Printf("leaguelotto %s\n", version)
			os.Exit(0)
		case "-help", "--help", "-h":
			usage()
			os.Exit(0)
		}
	}

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		usage()
		os.Exit(2)
	}

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	var source services.InputSource
	if cfg.RegistrantsPath != "" {
		source = services.NewFileSource(appLog, cfg.LeaguesPath, cfg.RegistrantsPath)
	}

	if source != nil {
		if err := runDraw(appLog, cfg, source); err != nil {
			log.Fatal("Lottery draw failed: ", err)
		}
	}

	if !cfg.Serve {
		return
	}

	a, err := app.New(appLog, cfg.DBPath, source, cfg.GlobalCap, web.GetTemplatesFS(), web.GetStaticFS())
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	if err := a.Run(cfg.Addr()); err != nil {
		log.Fatal(err)
	}
}

// runDraw performs one batch lottery and writes the reports
func runDraw(appLog logger.Logger, cfg config.Config, source services.InputSource) error {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	seed := cfg.Seed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}

	svc := services.NewLotteryService(appLog, repo, source, cfg.GlobalCap)
	doc, err := svc.RunFromSource(context.Background(), seed)
	if err != nil {
		return err
	}

	if err := writeReports(cfg.OutDir, doc); err != nil {
		return err
	}

	appLog.Info("Draw complete", "run_id", doc.RunID, "seed", seed, "out", cfg.OutDir)
	return nil
}

// writeReports writes the JSON document and the coordinator text
// reports next to each other in outDir.
func writeReports(outDir string, doc report.Document) error {
	jsonPath := filepath.Join(outDir, fmt.Sprintf("lottery_%s.json", doc.RunID))
	f, err := os.Create(jsonPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.WriteJSON(f, doc); err != nil {
		return err
	}

	textPath := filepath.Join(outDir, fmt.Sprintf("lottery_%s.txt", doc.RunID))
	tf, err := os.Create(textPath)
	if err != nil {
		return err
	}
	defer tf.Close()
	report.WriteDocumentReport(tf, doc)

	return nil
}
