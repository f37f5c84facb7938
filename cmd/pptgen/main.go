// Command pptgen renders a generator-produced JSON deck against a PPTX
// template and writes the resulting presentation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	pptgen "github.com/pcoiffet/ai-ppt-generator"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to YAML config (optional)")
		templatePath = flag.String("template", "", "path to the PPTX template (required)")
		deckPath     = flag.String("deck", "", "path to the deck JSON (required)")
		outDir       = flag.String("out", ".", "output directory")
		lang         = flag.String("lang", "", "deck language tag, overrides the JSON")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *templatePath == "" || *deckPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, *templatePath, *deckPath, *outDir, *lang, logger); err != nil {
		logger.Error("render failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath, templatePath, deckPath, outDir, lang string, logger *slog.Logger) error {
	cfg, err := pptgen.LoadConfig(configPath)
	if err != nil {
		return err
	}

	tmpl, err := pptgen.LoadTemplate(templatePath)
	if err != nil {
		return err
	}

	renderer, err := pptgen.NewRenderer(tmpl, cfg, pptgen.WithLogger(logger))
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(deckPath)
	if err != nil {
		return fmt.Errorf("read deck: %w", err)
	}
	deck, err := pptgen.DecodeDeck(raw, lang)
	if err != nil {
		return err
	}

	result, err := renderer.Render(context.Background(), deck)
	if err != nil {
		return err
	}

	for _, d := range result.Degraded {
		fmt.Fprintf(os.Stderr, "warning: slide %d (%s) rendered on layout %q\n",
			d.Index+1, d.Kind, d.LayoutUsed)
	}

	outPath := filepath.Join(outDir, result.Filename)
	if err := os.WriteFile(outPath, result.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Println(outPath)
	return nil
}
