package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/memvfs/config"
	"github.com/brettbedarf/memvfs/filesystem"
	"github.com/brettbedarf/memvfs/internal/util"
	"github.com/brettbedarf/memvfs/runner"
)

func main() {
	// Parse command line arguments
	var (
		configPath string
		scriptPath string
		order      string
		verbose    int
	)
	flag.StringVar(&scriptPath, "script", "", "Path to command script. Reads stdin when empty.")
	flag.StringVar(&scriptPath, "s", "", "--script (shorthand)")
	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config override file")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.StringVar(&order, "order", "", "Sibling order in listings: insertion or name. Overrides the config file.")
	flag.IntVar(&verbose, "verbose", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", config.InfoVerbose, "--verbose (shorthand)")
	flag.Parse()

	override := &config.ConfigOverride{}
	if configPath != "" {
		fileOverride, err := config.LoadConfigOverrideFile(configPath)
		if err != nil {
			util.InitializeLogger(config.VerboseToLogLevel(verbose))
			logger := util.GetLogger("main")
			logger.Fatal().Err(err).Str("config", configPath).Msg("Failed to load config file")
		}
		override = fileOverride
	}
	// CLI flags win over the config file
	if flagPassed("verbose") || flagPassed("v") || override.LogLvl == nil {
		override.LogLvl = &verbose
	}
	if order != "" {
		override.ListOrder = &order
	}
	cfg := config.NewConfig(override)

	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("main")
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	var in io.Reader = os.Stdin
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			logger.Fatal().Err(err).Str("script", scriptPath).Msg("Failed to open script")
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := filesystem.NewFS(cfg)
	logger.Info().Str("fs", fs.ID().String()).Str("script", scriptPath).Str("order", cfg.ListOrder).Msg("memvfs starting")

	r := runner.New(fs, cfg, os.Stdout)
	runErr := r.Run(ctx, in)

	res := r.Result()
	stats := fs.Stats()
	logger.Info().
		Int("lines", res.Lines).
		Int("applied", res.Applied).
		Int("diagnostics", res.Diagnostics).
		Int("dirs", stats.Dirs).
		Uint64("last_ino", stats.LastIno).
		Msg("Run complete")

	if runErr != nil {
		logger.Error().Err(runErr).Msg("Run failed")
		stop()
		os.Exit(1)
	}
}

// flagPassed reports whether the named flag was set on the command line
func flagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
