package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
)

// Normalizer maps loosely written strings (any case, surrounding space) onto
// enum values.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
	keys         []string
}

// NewNormalizer creates a normalizer over values; unknown input maps to defaultValue.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	n := &Normalizer[T]{values: make(map[string]T, len(values)), defaultValue: defaultValue}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	sort.Strings(n.keys)
	return n
}

// Normalize returns the enum value for raw, or the default.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// NormalizeWithError returns the enum value for raw or an error naming the
// valid options.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.values[clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.keys)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalize canonicalizes enum fields and list values in place. Empty enum
// fields are left for defaults; unknown ones are errors.
func Normalize(cfg *Config) error {
	if cfg.Logging.Level != "" {
		lvl, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level))
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid logging.level").Fatal().Build()
		}
		cfg.Logging.Level = lvl
	}
	if cfg.Logging.Format != "" {
		f, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format))
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid logging.format").Fatal().Build()
		}
		cfg.Logging.Format = f
	}

	if len(cfg.TOC.Levels) > 0 {
		levels := slices.Clone(cfg.TOC.Levels)
		slices.Sort(levels)
		cfg.TOC.Levels = slices.Compact(levels)
	}
	cfg.TOC.ContainerClasses = cleanTokens(cfg.TOC.ContainerClasses)
	cfg.TOC.HeaderClasses = cleanTokens(cfg.TOC.HeaderClasses)

	if ext := strings.TrimSpace(cfg.Output.Extension); ext != "" && !strings.HasPrefix(ext, ".") {
		cfg.Output.Extension = "." + ext
	}
	return nil
}

// cleanTokens trims class tokens, splits space separated entries and drops
// empties.
func cleanTokens(in []string) []string {
	var out []string
	for _, s := range in {
		out = append(out, strings.Fields(s)...)
	}
	return out
}
