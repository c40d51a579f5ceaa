package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadEnvFiles loads .env.local and .env from the working directory, then the
// env file in the config directory. Earlier files and the real environment
// win. Missing files are skipped.
func LoadEnvFiles() error {
	paths := []string{".env.local", ".env"}
	if dir := Dir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "env"))
	}
	for _, path := range paths {
		if err := LoadEnvFile(path); err != nil {
			return err
		}
	}
	return nil
}

// LoadEnvFile reads a .env file and sets any variables not already in the
// environment. Returns nil if the file doesn't exist.
func LoadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // best-effort close on read-only file

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); !set {
			_ = os.Setenv(key, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading env file %s: %w", path, err)
	}
	return nil
}

// parseEnvLine extracts KEY=VALUE from a line.
// Handles an optional export prefix and matching quotes around the value.
func parseEnvLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}

	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	value = strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}

	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}
