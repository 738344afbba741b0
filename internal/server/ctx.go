package server

import (
	"os"
	"sort"

	"github.com/Abhishekkumar2021/SynqX-sub006/internal/config"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/processor"
	"github.com/Abhishekkumar2021/SynqX-sub006/internal/spatial"

	"github.com/rs/zerolog/log"
)

// maxBodySize limits request bodies of the extraction endpoints.
const maxBodySize = 32 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config         *config.Config
	Extractor      *spatial.Extractor
	SourceResolver map[string]string
	OutputDir      string
}

// NewServerContext initializes the context and processes the source configuration.
// It marks sources whose loader output exists and sets up the name resolver.
func NewServerContext(cfg *config.Config, ex *spatial.Extractor) *ServerContext {
	log.Info().Int("config_sources_count", len(cfg.Sources)).Msg("Initializing server context")

	outDir := cfg.OutputDir()
	resolver := make(map[string]string)
	available := 0

	for i := range cfg.Sources {
		src := &cfg.Sources[i]

		path := processor.OutputPath(outDir, src.Name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			src.Available = true
			available++
		} else {
			log.Warn().
				Str("source", src.Name).
				Str("path", path).
				Msg("Loader output not found, run the loader first")
		}

		resolver[src.Name] = src.Name
		for _, alias := range src.Aliases {
			if prev, ok := resolver[alias]; ok && prev != src.Name {
				log.Warn().
					Str("alias", alias).
					Str("source", src.Name).
					Str("previous", prev).
					Msg("Alias already taken, ignoring")
				continue
			}
			resolver[alias] = src.Name
		}

		log.Debug().
			Str("source", src.Name).
			Bool("available", src.Available).
			Strs("aliases", src.Aliases).
			Msg("Source added to context")
	}

	sort.Slice(cfg.Sources, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if cfg.Sources[i].Index != nil {
			idxI = *cfg.Sources[i].Index
		}
		if cfg.Sources[j].Index != nil {
			idxJ = *cfg.Sources[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return cfg.Sources[i].Name < cfg.Sources[j].Name
	})

	log.Info().
		Int("available_sources_count", available).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:         cfg,
		Extractor:      ex,
		SourceResolver: resolver,
		OutputDir:      outDir,
	}
}
