package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/config"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/logger"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"   env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"   env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	Output     string `short:"o" long:"output" env:"OUTPUT_DIR"     description:"Loader output directory, overrides the configuration"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
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

	srvCtx := server.NewServerContext(cfg, ex)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("sources_loaded", len(cfg.Sources)).
		Int("crs_definitions", len(cfg.CRS)).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Handler()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
