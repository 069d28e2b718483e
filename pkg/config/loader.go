package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the layered configuration for the given environment:
// base.yaml, then <env>.yaml on top (if present), then secrets.env
// placeholder substitution, then system env vars.
func Load(env, configDir string) (*Config, error) {
	if configDir == "" {
		configDir = "config"
	}

	secrets := map[string]string{}
	secretsFile := filepath.Join(configDir, "secrets.env")
	if _, err := os.Stat(secretsFile); err == nil {
		loaded, err := loadEnvFile(secretsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load secrets.env: %w", err)
		}
		secrets = loaded
	}

	var cfg Config
	if err := unmarshalLayer(filepath.Join(configDir, "base.yaml"), secrets, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load base.yaml: %w", err)
	}

	if env != "" && env != "base" {
		envFile := filepath.Join(configDir, fmt.Sprintf("%s.yaml", env))
		if _, err := os.Stat(envFile); err == nil {
			// Decoding into the same struct lets the env layer override
			// only the fields it sets.
			if err := unmarshalLayer(envFile, secrets, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load %s.yaml: %w", env, err)
			}
		}
	}

	cfg.OverrideFromEnv()
	return &cfg, nil
}

func unmarshalLayer(path string, secrets map[string]string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal([]byte(substitute(string(data), secrets)), cfg)
}

func loadEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	env := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			value = strings.Trim(value, `"`)
			value = strings.Trim(value, `'`)
			env[key] = value
		}
	}
	return env, nil
}

// substitute replaces ${VAR} placeholders with values from env.
func substitute(s string, env map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	for key, value := range env {
		s = strings.ReplaceAll(s, fmt.Sprintf("${%s}", key), value)
	}
	return s
}
