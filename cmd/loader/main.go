package main

import (
	"net/http"
	"os"
	"time"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/config"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/logger"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_NAMES" description:"Limit processing to specific source names"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"8"`
	Output      string   `short:"o" long:"output"      env:"OUTPUT_DIR"  description:"Output directory, overrides the configuration"`
	Force       bool     `short:"f" long:"force"       description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if opts.Output != "" {
		cfg.Output = opts.Output
	}

	ex, err := cfg.Extractor()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build extractor")
	}

	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
		},
		Timeout: 60 * time.Second,
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = processor.DefaultConcurrency
	}

	// Filter sources if limit is set
	sourcesToProcess := cfg.Sources
	if len(opts.Limit) > 0 {
		sourcesToProcess = make([]config.Source, 0)
		availableSources := make(map[string]config.Source)
		for _, s := range cfg.Sources {
			availableSources[s.Name] = s
			for _, alias := range s.Aliases {
				availableSources[alias] = s
			}
		}

		seen := make(map[string]bool)

		for _, limitName := range opts.Limit {
			s, ok := availableSources[limitName]
			if !ok {
				log.Error().
					Str("name", limitName).
					Msg("Source specified in --limit not found in configuration")
				continue
			}
			if seen[s.Name] {
				continue
			}
			seen[s.Name] = true
			sourcesToProcess = append(sourcesToProcess, s)
		}
	}

	log.Info().
		Int("sources_total", len(cfg.Sources)).
		Int("sources_queued", len(sourcesToProcess)).
		Str("output", cfg.OutputDir()).
		Msg("Starting loader")

	failed := 0
	for _, src := range sourcesToProcess {
		if err := processor.ProcessSource(client, ex, src, cfg.OutputDir(), opts.Concurrency, opts.Force); err != nil {
			log.Error().Err(err).Str("source", src.Name).Msg("Failed to process source")
			failed++
		}
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Loader finished with errors")
	}

	log.Info().Msg("Loader finished successfully")
}
