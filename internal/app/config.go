package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/declc/internal/model"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// SourcePaths are the compilation units: .hcl files or directories.
	SourcePaths []string `validate:"dive,required"`
	// ManifestPaths are language manifests loaded next to the built-in languages.
	ManifestPaths []string `validate:"dive,required"`
	Language      string   `validate:"omitempty,max=64"`
	// Sections restricts an inspect export to these sections; empty exports all.
	Sections []model.SectionPath

	LogFormat    string `validate:"oneof=text json"`
	LogLevel     string `validate:"oneof=debug info warn error"`
	OutputFormat string `validate:"oneof=text source json yaml"`
	Color        bool
	WrapWidth    uint `validate:"omitempty,min=40,max=400"`
	// Concurrency bounds how many units are compiled at once; 0 is unbounded.
	Concurrency int `validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig fills defaults and validates the configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "text"
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeFieldError(fe))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}

	return &cfg, nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fmt.Sprint(fe.Value()))
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Namespace())
	case "min", "max", "gte":
		return fmt.Sprintf("%s failed the %s=%s rule, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed the %q rule", fe.Namespace(), fe.Tag())
	}
}
