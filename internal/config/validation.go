package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/tocnav/internal/foundation/errors"
)

// Validate checks a normalized, defaulted configuration.
func Validate(cfg *Config) error {
	rules := []struct {
		section string
		err     error
	}{
		{"toc", validation.ValidateStruct(&cfg.TOC,
			validation.Field(&cfg.TOC.Levels, validation.Required, validation.Each(validation.Min(1), validation.Max(6))),
			validation.Field(&cfg.TOC.HeaderText, validation.Required),
			validation.Field(&cfg.TOC.ContainerClasses, validation.Required),
		)},
		{"output", validation.ValidateStruct(&cfg.Output,
			validation.Field(&cfg.Output.Directory, validation.Required),
		)},
		{"watch", validation.ValidateStruct(&cfg.Watch,
			validation.Field(&cfg.Watch.Debounce, validation.By(nonNegativeDuration)),
		)},
	}
	for _, r := range rules {
		if r.err != nil {
			return errors.WrapError(r.err, errors.CategoryValidation, fmt.Sprintf("invalid %s configuration", r.section)).
				WithContext("section", r.section).Build()
		}
	}
	return nil
}

func nonNegativeDuration(value any) error {
	s, _ := value.(string)
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("not a duration: %q", s)
	}
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
