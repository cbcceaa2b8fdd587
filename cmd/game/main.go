package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/kingdom-crisis/internal/config"
	"github.com/tatianab/kingdom-crisis/internal/engine"
	"github.com/tatianab/kingdom-crisis/internal/logger"
	"github.com/tatianab/kingdom-crisis/internal/models"
	"github.com/tatianab/kingdom-crisis/internal/narrator"
	"github.com/tatianab/kingdom-crisis/internal/store"
	"github.com/tatianab/kingdom-crisis/internal/tui"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	models.SaveDir = cfg.SaveDir

	// The alt screen owns stdout, so logs only go to a file.
	log := logger.Discard()
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "kingdom")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		log = logger.New(f)
	}

	evidence := engine.LoadEvidence(cfg.EvidenceDir, log)

	var rng engine.RNG
	if cfg.Seed != 0 {
		rng = engine.NewRNG(cfg.Seed)
	}
	static := narrator.NewStatic(rng)
	var narr engine.Narrator = static
	if cfg.GeminiAPIKey != "" {
		gem, err := narrator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.NarratorTimeout, static, log)
		if err != nil {
			return fmt.Errorf("creating narrator: %w", err)
		}
		defer gem.Close()
		narr = gem
		log.Info("narrating with %s", cfg.GeminiModel)
	}

	opts := tui.Options{
		Rules:    cfg.Rules,
		Evidence: evidence,
		Narrator: narr,
		Logger:   log,
		Slots:    store.Files{},
		Seed:     cfg.Seed,
	}
	if cfg.DBDialect != "" {
		db, err := store.Open(ctx, cfg.DBDialect, cfg.StoreDSN())
		if err != nil {
			return err
		}
		defer db.Close()
		opts.Slots = db.Sessions()
		opts.Outcomes = db.Outcomes()
		log.Info("saving to %s", db.Dialect())
	}

	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
