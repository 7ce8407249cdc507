// Package config provides configuration types and utilities for the deliberation engine.
// This file contains environment variable utilities for configuration processing.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envVarPattern matches all three supported substitution forms in a single
// pass: ${VAR:-default}, ${VAR}, $VAR. A single alternation avoids the
// three-pass sequential-replacement order dependency a separate regex per
// form would need (a ${VAR} pass run after a ${VAR:-default} pass risks
// re-matching text the first pass already substituted).
var envVarPattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)(:-(.*?))?\}|\$([A-Z_][A-Z0-9_]*)`)

// expandEnvVars expands environment variable references in a string.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, hasDefault, def := parts[1], parts[2] != "", parts[3]
		if name == "" {
			name = parts[4]
		}
		if val := os.Getenv(name); val != "" {
			return val
		}
		if hasDefault {
			return def
		}
		return ""
	})
}

// parseValue attempts to parse a string value to its appropriate type,
// returning the original string if no conversion applies.
func parseValue(value string) interface{} {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}

	if intVal, err := strconv.Atoi(value); err == nil {
		return intVal
	}
	if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
		return floatVal
	}
	return value
}

// ExpandEnvVarsInData recursively expands environment variables throughout
// a generic YAML-decoded value tree, reparsing any expanded string back to
// its apparent type (bool/int/float) so e.g. `timeout: ${MODE_TIMEOUT}`
// still decodes into a numeric field once expanded.
func ExpandEnvVarsInData(data interface{}) interface{} {
	switch v := data.(type) {
	case string:
		expanded := expandEnvVars(v)
		if expanded != v {
			return parseValue(expanded)
		}
		return expanded

	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			result[key] = ExpandEnvVarsInData(value)
		}
		return result

	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = ExpandEnvVarsInData(item)
		}
		return result

	default:
		return v
	}
}

// LoadEnvFiles loads environment variables from .env.local and then .env.
// A variable that is already set is never overridden, so the system
// environment takes priority over both files and .env.local over .env.
func LoadEnvFiles() error {
	envFiles := []string{".env.local", ".env"}

	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// GatewayCredential reads the API credential named by cfg.Gateway's
// configurable env-var key. Unlike the teacher's per-provider switch (one
// hardcoded env var per LLM vendor), this module has a single model
// gateway collaborator behind one configurable credential name, since the
// concrete gateway implementation is out of scope (spec.md §1 Non-goals)
// and every mode runner shares the same gateway.
func GatewayCredential(cfg *Config) string {
	if cfg == nil || cfg.Gateway.CredentialEnvVar == "" {
		return ""
	}
	return os.Getenv(cfg.Gateway.CredentialEnvVar)
}
