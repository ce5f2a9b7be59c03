// Command advisor-report evaluates a recorded scenario offline and prints a
// styled advisory report. No network calls are made.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/i474232898/harvest-advisor/internal/cannabis"
	"github.com/i474232898/harvest-advisor/internal/render"
)

func main() {
	var (
		scenarioFile = flag.String("scenario", "scenario.json", "Scenario file path")
		catalogFile  = flag.String("catalog", "", "Variety catalog YAML (embedded catalog when empty)")
		lang         = flag.String("lang", "es", "Report language (es or en)")
		at           = flag.String("at", "", "Evaluation date, YYYY-MM-DD (today when empty)")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(*scenarioFile, *catalogFile, *lang, *at); err != nil {
		fmt.Fprintf(os.Stderr, "advisor-report: %v\n", err)
		os.Exit(1)
	}
}

func run(scenarioFile, catalogFile, lang, at string) error {
	raw, err := os.ReadFile(scenarioFile)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	sc, err := parseScenario(raw)
	if err != nil {
		return err
	}

	catalog, err := cannabis.DefaultCatalog()
	if catalogFile != "" {
		catalog, err = cannabis.LoadCatalog(catalogFile)
	}
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	renderer, err := render.New(lang)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if at != "" {
		if now, err = time.Parse(time.DateOnly, at); err != nil {
			return fmt.Errorf("invalid -at date: %w", err)
		}
	}

	rep, err := evaluate(context.Background(), sc, catalog, now)
	if err != nil {
		return err
	}
	fmt.Println(format(rep, renderer, renderer.Default()))
	return nil
}
