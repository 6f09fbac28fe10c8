package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConnectionStringKey names both the environment variable and the secrets file key.
const ConnectionStringKey = "MONGO_URI"

// ErrConnectionStringMissing is returned when no source provides the connection string.
var ErrConnectionStringMissing = errors.New("connection string not found")

// LoadDotEnv loads variables from the given .env files into the process environment.
// Missing files are skipped; variables already set are never overridden.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ResolveConnectionString returns MONGO_URI, layering the process environment
// over the MONGO_URI key of the YAML secrets file. Blank values count as absent.
func ResolveConnectionString(secretsFile string) (string, error) {
	k := koanf.New(".")

	if secretsFile != "" && fileExists(secretsFile) {
		if err := k.Load(file.Provider(secretsFile), yaml.Parser()); err != nil {
			return "", fmt.Errorf("read secrets %s: %w", secretsFile, err)
		}
	}

	envProvider := env.ProviderWithValue(ConnectionStringKey, ".", func(key, value string) (string, any) {
		if key != ConnectionStringKey || strings.TrimSpace(value) == "" {
			return "", nil
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return "", fmt.Errorf("read environment: %w", err)
	}

	v := strings.TrimSpace(k.String(ConnectionStringKey))
	if v == "" {
		return "", fmt.Errorf("%w: set %s in the environment, .env, or %s",
			ErrConnectionStringMissing, ConnectionStringKey, secretsFile)
	}
	return v, nil
}
