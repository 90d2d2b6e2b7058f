// Package tweak orchestrates a full patch pass over a game archive: it
// loads the replace configuration and payloads from an assets source,
// opens the archive, and drives the replace and delete batches.
package tweak

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gdtweak/pck"
	"github.com/gdtweak/pck/assets"
)

// Option configures Apply.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets a logger for progress and debug output.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Apply patches the archive at pckPath with the batches described by src's
// replace.toml: replacements and additions first, deletions second.
func Apply(pckPath string, src assets.Source, opts ...Option) (err error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	conf, err := assets.LoadConfig(src)
	if err != nil {
		return err
	}
	batch, err := assets.LoadReplacements(src, conf.Replace)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(pckPath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", pckPath, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close archive %s: %w", pckPath, closeErr)
		}
	}()

	a, err := pck.Open(f, pck.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("patching archive",
		"path", pckPath, "entries", a.Len(),
		"replace", len(batch), "delete", len(conf.Delete))

	if err := a.Replace(batch); err != nil {
		return fmt.Errorf("replace files in %s: %w", pckPath, err)
	}
	if err := a.Delete(conf.Delete); err != nil {
		return fmt.Errorf("delete files from %s: %w", pckPath, err)
	}

	logger.Info("archive patched", "path", pckPath, "entries", a.Len())
	return nil
}
