package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectEnvFile is the per-directory env file.
const ProjectEnvFile = ".marino.env"

// LoadEnvFiles loads .marino.env files into the process environment.
// Load order (later wins): global (~/.config/marino/env), then project (.marino.env).
// Actual environment variables always win: keys already set before loading are never overwritten.
func LoadEnvFiles() {
	loadEnvFiles(GlobalEnvPath(), ProjectEnvFile)
}

func loadEnvFiles(paths ...string) {
	// Snapshot keys present in the actual environment before we touch anything.
	origKeys := make(map[string]bool)
	for _, entry := range os.Environ() {
		if k, _, ok := strings.Cut(entry, "="); ok {
			origKeys[k] = true
		}
	}

	// Merge files in order; later files overwrite earlier ones.
	merged := make(map[string]string)
	for _, p := range paths {
		mergeEnvFile(merged, p)
	}

	// Set only keys that weren't in the original environment.
	for k, v := range merged {
		if !origKeys[k] {
			_ = os.Setenv(k, v)
		}
	}
}

// mergeEnvFile reads a KEY=VALUE file and merges into dst (later call overwrites earlier).
// Silently skips missing or unreadable files.
func mergeEnvFile(dst map[string]string, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	envs, err := ParseEnvFile(data)
	if err != nil {
		return
	}
	for k, v := range envs {
		dst[k] = v
	}
}

// ParseEnvFile parses KEY=VALUE lines from data.
// Blank lines and lines starting with # are skipped. Values may be wrapped in
// single or double quotes.
func ParseEnvFile(data []byte) (map[string]string, error) {
	result := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: missing '=' in %q", lineNum, line)
		}
		result[strings.TrimSpace(k)] = unquote(strings.TrimSpace(v))
	}
	return result, scanner.Err()
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// GlobalEnvPath returns the path to the global marino env file.
func GlobalEnvPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "marino", "env")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "marino", "env")
}
