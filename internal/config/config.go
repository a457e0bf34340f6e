// Package config loads redphone configuration from the YAML config file and
// merges it with defaults, environment variables, and CLI flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	yamlparser "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jgoldschrafe/redphone-cli/internal/options"
)

// ErrInvalidConfig is returned when the config file cannot be parsed.
var ErrInvalidConfig = errors.New("invalid config file")

const (
	// DefaultFileName is the config file name looked up in the home directory.
	DefaultFileName = ".redphone.yml"

	// DefaultSection is the config file section for the PagerDuty commands.
	DefaultSection = "pagerduty"

	// EnvPrefix is the prefix for environment variable overrides.
	EnvPrefix = "REDPHONE_"
)

// DefaultPath returns the default config file location (~/.redphone.yml).
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	return filepath.Join(homeDir, DefaultFileName), nil
}

// Loader reads option values from a YAML config file and resolves the full
// option layering. Precedence order (highest to lowest):
// 1. CLI flags
// 2. Environment variables (REDPHONE_*)
// 3. Config file section
// 4. Built-in defaults
type Loader struct {
	path string
}

// NewLoader creates a Loader for the given config file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the named section of the config file and returns it as an
// option set. A missing file or a missing section yields an empty set, not
// an error; a file that exists but cannot be parsed yields ErrInvalidConfig.
func (l *Loader) Load(section string) (options.Set, error) {
	if !fileExists(l.path) {
		return options.Set{}, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(l.path), yamlparser.Parser()); err != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "parsing %s: %v", l.path, err)
	}

	return setFromMap(k.Cut(section).Raw()), nil
}

// Resolve merges defaults, the config file section, REDPHONE_* environment
// variables, and explicit CLI flag values, in that order of increasing
// precedence, into a single option set.
func (l *Loader) Resolve(section string, defaults, flags options.Set) (options.Set, error) {
	fileSet, err := l.Load(section)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(toMap(defaults), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := k.Load(confmap.Provider(toMap(fileSet), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load config file values")
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}

	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if err := k.Load(confmap.Provider(toMap(flags), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load flags")
	}

	return setFromMap(k.Raw()), nil
}

// transformEnv maps REDPHONE_SERVICE_KEY style variables to option names.
// Variables that do not name a known option are dropped.
func transformEnv(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)

	if !isKnownOption(key) {
		return "", nil
	}

	return key, value
}

// setFromMap converts a raw config map into an option set, keeping only
// known options. Keys are normalized to the flag identifier form (dashes
// become underscores) so merging across sources is direct.
func setFromMap(raw map[string]any) options.Set {
	set := options.Set{}

	for key, value := range raw {
		if value == nil {
			continue
		}

		key = strings.ReplaceAll(key, "-", "_")
		if !isKnownOption(key) {
			continue
		}

		set[options.Option(key)] = value
	}

	return set
}

// toMap converts an option set into the map shape koanf providers expect.
func toMap(set options.Set) map[string]any {
	m := make(map[string]any, len(set))

	for opt, value := range set {
		if value == nil {
			continue
		}

		m[string(opt)] = value
	}

	return m
}

// isKnownOption reports whether the key names a recognized option.
func isKnownOption(key string) bool {
	for _, opt := range options.Known() {
		if key == string(opt) {
			return true
		}
	}

	return false
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
