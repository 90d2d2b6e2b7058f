package assets

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"

	"github.com/gdtweak/pck"
)

// loadConcurrency bounds concurrent asset reads in LoadReplacements.
const loadConcurrency = 8

// Config is the decoded replace.toml.
//
//	[[replace]]
//	path = "res://Core/Game.gde"
//	file = "Game.gde"
//
//	delete = ["res://Obsolete/old.gde"]
type Config struct {
	Replace []Rule   `toml:"replace"`
	Delete  []string `toml:"delete"`
}

// Rule maps an archive path to the asset file holding its new content.
type Rule struct {
	Path string `toml:"path"`
	File string `toml:"file"`
}

// ParseConfig decodes and validates replace.toml content.
func ParseConfig(content string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ConfigName, err)
	}
	for i, rule := range cfg.Replace {
		if rule.Path == "" {
			return nil, fmt.Errorf("%s: replace rule %d has no path", ConfigName, i)
		}
		if rule.File == "" {
			return nil, fmt.Errorf("%s: replace rule for %s has no file", ConfigName, rule.Path)
		}
	}
	for i, path := range cfg.Delete {
		if path == "" {
			return nil, fmt.Errorf("%s: delete entry %d is empty", ConfigName, i)
		}
	}
	return &cfg, nil
}

// LoadConfig reads and parses the configuration from a source.
func LoadConfig(src Source) (*Config, error) {
	content, err := src.ConfigContent()
	if err != nil {
		return nil, err
	}
	return ParseConfig(content)
}

// LoadReplacements reads every rule's payload from src and returns the
// replacement batch in rule order. Reads run concurrently with a small
// bound; the first failure wins.
func LoadReplacements(src Source, rules []Rule) ([]pck.Replacement, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	batch := make([]pck.Replacement, len(rules))
	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for i, rule := range rules {
		g.Go(func() error {
			data, err := src.GetFile(rule.File)
			if err != nil {
				return err
			}
			batch[i] = pck.Replacement{Path: rule.Path, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batch, nil
}
