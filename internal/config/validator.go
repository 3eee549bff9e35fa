package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	dsxerrors "github.com/alexisbeaulieu97/dsxform/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	actionIDPattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	pluginNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]{0,63}$`)
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("action_id", func(fl validator.FieldLevel) bool {
			return actionIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("plugin_name", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			return pluginNamePattern.MatchString(name) && strings.TrimSpace(name) == name
		})

		_ = v.RegisterValidation("env_mode", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case EnvironmentAuto, EnvironmentDesktop, EnvironmentWeb:
				return true
			default:
				return false
			}
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns a configured validator instance for use outside the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// ValidateConfig performs structural and cross-field validation on an entire configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return dsxerrors.NewValidationError("config", "configuration is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(cfg.Plugins.Entries))
	for i, entry := range cfg.Plugins.Entries {
		if prev, ok := seen[entry.Name]; ok {
			return dsxerrors.NewValidationError(
				fmt.Sprintf("plugins.entries[%d].name", i),
				fmt.Sprintf("duplicate plugin name %q (first declared at entries[%d])", entry.Name, prev),
				nil,
			)
		}
		seen[entry.Name] = i
	}

	if cfg.Transforms.Upload.Bucket == "" && cfg.Transforms.Upload.PublicBaseURL != "" {
		return dsxerrors.NewValidationError("transforms.upload.bucket", "bucket is required when public_base_url is set", nil)
	}

	return nil
}

// ValidatePluginManifest validates a single manifest loaded outside the main config file.
func ValidatePluginManifest(m *PluginManifest) error {
	if m == nil {
		return dsxerrors.NewValidationError("plugin", "manifest is nil", nil)
	}
	if err := validatorInstance().Struct(m); err != nil {
		return convertValidationError(err)
	}
	return nil
}

// convertValidationError normalizes validator errors into validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return dsxerrors.NewValidationError(field, msg, err)
	}

	return dsxerrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
