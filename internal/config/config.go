// Package config loads the optional runtime tunables SPEC_FULL.md's
// ambient stack adds on top of spec.md's core: resource-model limits and
// REPL prompt strings. Absence of a config file is normal; every field
// falls back to the reference implementation's MAX_* constants
// (kvlang_internals.h).
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kvlang/keyva/internal/interp"
)

// DefaultConfigFile is the filename looked for in the current directory
// when KEYVA_CONFIG is not set.
const DefaultConfigFile = ".keyvarc.yaml"

// Config holds everything loaded from a .keyvarc.yaml file.
type Config struct {
	MaxVariables       int    `yaml:"max_variables"`
	MaxFunctions       int    `yaml:"max_functions"`
	MaxScopes          int    `yaml:"max_scopes"`
	MaxTokenLength     int    `yaml:"max_token_length"`
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
}

// Defaults returns the reference implementation's resource limits
// (kvlang_internals.h: MAX_TOKENS_PER_LINE=100 informs MaxFunctions'
// informal cousin; MAX_FUNC_PARAMS, MAX_TOKEN_LENGTH=256) and the
// original's REPL prompt strings.
func Defaults() Config {
	return Config{
		MaxVariables:       100,
		MaxFunctions:       100,
		MaxScopes:          100,
		MaxTokenLength:     256,
		Prompt:             "> ",
		ContinuationPrompt: "... ",
	}
}

// Load reads path (or DefaultConfigFile, or $KEYVA_CONFIG if set and path
// is empty) and overlays it onto Defaults(). A missing file is not an
// error — it just means the defaults apply.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		if env := os.Getenv("KEYVA_CONFIG"); env != "" {
			path = env
		} else {
			path = DefaultConfigFile
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Limits projects the resource-model fields into interp.Limits.
func (c Config) Limits() interp.Limits {
	return interp.Limits{
		MaxVariables: c.MaxVariables,
		MaxFunctions: c.MaxFunctions,
		MaxScopes:    c.MaxScopes,
	}
}
