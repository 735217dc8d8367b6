package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Validate checks cfg for values the commands cannot work with.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Rules.Base == "" && cfg.Rules.Extended == "" {
		errs = append(errs, ValidationError{
			Field:   "rules",
			Message: "no whitelist rules configured",
		})
	}

	if _, err := glob.Compile(cfg.Include, '/'); err != nil {
		errs = append(errs, ValidationError{
			Field:   "include",
			Message: fmt.Sprintf("invalid glob pattern: %v", err),
		})
	}

	if cfg.Debounce <= 0 {
		errs = append(errs, ValidationError{
			Field:   "debounce",
			Message: "must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
