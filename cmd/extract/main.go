package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/config"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/geo"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/logger"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/processor"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/spatial"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input       string `short:"i" long:"in"          description:"Input file path (record, array, search response or NDJSON). Reads from stdin if empty"`
	Output      string `short:"o" long:"out"         description:"Output file path. Writes to stdout if empty"`
	Format      string `short:"f" long:"format"      description:"Output format" choice:"json" choice:"yaml" default:"json"`
	ConfigFile  string `short:"c" long:"config"      env:"CONFIG_FILE" description:"Optional configuration file with CRS definitions and extra paths"`
	Context     bool   `short:"x" long:"context"     description:"Add the bounding context of every result"`
	Compact     bool   `short:"C" long:"compact"     description:"Write single-line JSON"`
	Concurrency int    `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"8"`
}

// entry is one output item; records without spatial data are written as null.
type entry struct {
	spatial.Result `yaml:",inline"`
	Context        *geo.BoundingContext `json:"context,omitempty" yaml:"context,omitempty"`
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

	cfg := &config.Config{}
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	ex, err := cfg.Extractor()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build extractor")
	}

	// Read Input
	var inputData []byte
	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
	} else {
		inputData, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	records, err := processor.DecodeRecords(inputData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to decode records")
	}

	results := processor.ExtractAll(ex, records, opts.Concurrency)

	entries := make([]*entry, len(results))
	count := 0
	for i, res := range results {
		if res == nil {
			continue
		}
		e := &entry{Result: *res}
		if opts.Context {
			if ctx, ok := geo.CalculateGeoContext(res.GeoJSON); ok {
				e.Context = &ctx
			}
		}
		entries[i] = e
		count++
	}

	// marshal
	var outputData []byte
	switch {
	case opts.Format == "yaml":
		outputData, err = yaml.Marshal(entries)
	case opts.Compact:
		outputData, err = json.Marshal(entries)
	default:
		outputData, err = json.MarshalIndent(entries, "", "  ")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal results")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output file")
		}
		log.Info().
			Int("records", len(records)).
			Int("results", count).
			Str("path", opts.Output).
			Str("format", opts.Format).
			Msg("Extraction finished")
		return
	}

	if _, err := os.Stdout.Write(append(outputData, '\n')); err != nil {
		log.Fatal().Err(err).Msg("Failed to write output")
	}
}
