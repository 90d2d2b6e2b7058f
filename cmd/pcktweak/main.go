// Command pcktweak patches a Godot PCK archive in place using the
// replace.toml configuration found in an assets directory.
//
// The archive is either given directly with -pck or located in an installed
// Steam library with -game/-pck-name.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gdtweak/pck/assets"
	"github.com/gdtweak/pck/steam"
	"github.com/gdtweak/pck/tweak"
)

type config struct {
	pck     string
	assets  string
	game    string
	pckName string
	verbose bool
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.pck, "pck", "", "path to the PCK file")
	flag.StringVar(&cfg.assets, "assets", "", "path to the assets folder containing replace.toml")
	flag.StringVar(&cfg.game, "game", "", "Steam game folder name, used to locate the PCK when -pck is not set")
	flag.StringVar(&cfg.pckName, "pck-name", "", "PCK file name inside the game folder (with -game)")
	flag.BoolVar(&cfg.verbose, "v", false, "enable debug logging")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, logger); err != nil {
		logger.Error("patching failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	pckPath, err := resolvePCKPath(cfg, logger)
	if err != nil {
		return err
	}

	info, err := os.Stat(pckPath)
	if err != nil {
		return fmt.Errorf("PCK file does not exist: %s", pckPath)
	}
	if info.IsDir() {
		return fmt.Errorf("path is not a file: %s", pckPath)
	}

	if cfg.assets == "" {
		return errors.New("-assets is required")
	}
	info, err = os.Stat(cfg.assets)
	if err != nil {
		return fmt.Errorf("assets folder does not exist: %s", cfg.assets)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", cfg.assets)
	}

	return tweak.Apply(pckPath, assets.NewDirSource(cfg.assets), tweak.WithLogger(logger))
}

func resolvePCKPath(cfg config, logger *slog.Logger) (string, error) {
	if cfg.pck != "" {
		return cfg.pck, nil
	}
	if cfg.game == "" || cfg.pckName == "" {
		return "", errors.New("either -pck or both -game and -pck-name are required")
	}

	found, ok := steam.FindPCK(cfg.game, cfg.pckName)
	if !ok {
		return "", fmt.Errorf("could not locate %s for %q in any Steam library", cfg.pckName, cfg.game)
	}
	logger.Info("found archive in Steam library", "path", found)
	return found, nil
}
