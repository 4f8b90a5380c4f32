package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/inboxkit/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

var registry = &validatorRegistry{
	validators: make(map[string]Validator),
}

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	registry.validators[key] = validator
}

func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// PositiveIntValidator returns a validator that ensures a value is a positive integer.
func PositiveIntValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be a positive integer, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// EnumValidator returns a validator that ensures a value is one of the allowed values.
// Matching is case-insensitive and the registered spelling is returned.
func EnumValidator(allowed ...string) Validator {
	set := make(map[string]string, len(allowed))
	for _, v := range allowed {
		set[strings.ToLower(v)] = v
	}
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		canonical, ok := set[strings.ToLower(value)]
		if !ok {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be one of: %s; using default: %s", key, value, allowedValues(allowed), defaultValue))
			return defaultValue, nil
		}
		return canonical, nil
	}
}

// BoolValidator returns a validator that normalizes boolean values to "true"/"false".
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		normalized := normalizeBool(value)
		if normalized != "true" && normalized != "false" {
			colors.Warning(fmt.Sprintf("invalid boolean value for %s: '%s', must be one of: 1, true, yes, on, 0, false, no, off; using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return normalized, nil
	}
}

// URLValidator returns a validator that requires an absolute URL.
func URLValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be an absolute URL, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}

func allowedValues(allowed []string) string {
	values := append([]string(nil), allowed...)
	sort.Strings(values)
	return strings.Join(values, ", ")
}

func initValidators() {
	positiveInt := PositiveIntValidator()
	RegisterValidator("default_limit", positiveInt)
	RegisterValidator("tabs_poll_interval", positiveInt)
	RegisterValidator("logging_max_files", positiveInt)
	RegisterValidator("auto_cleanup_days", positiveInt)
	RegisterValidator("hooks_timeout", positiveInt)

	RegisterValidator("default_status", EnumValidator("unreadRead", "unread", "archived"))
	RegisterValidator("default_target", EnumValidator("_blank", "_self", "_parent", "_top"))
	RegisterValidator("logging_level", EnumValidator("debug", "info", "warn", "warning", "error"))
	RegisterValidator("feed_format", EnumValidator("table", "simple", "compact", "json"))
	RegisterValidator("hooks_failure_mode", EnumValidator("abort", "warn", "ignore"))

	RegisterValidator("base_url", URLValidator())

	boolValidator := BoolValidator()
	RegisterValidator("logging_enabled", boolValidator)
	RegisterValidator("debug", boolValidator)
	RegisterValidator("quiet", boolValidator)
}
