package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/titanous/json5"
)

// ErrNotFound is returned by Load when neither the file nor its local
// override exists.
var ErrNotFound = errors.New("config: no config file found")

// Load reads the JSON5 pipeline at path, layers <name>.local.<ext> over it
// when present, applies defaults and returns the result. Every key present
// in the local file wins, including false, 0 and empty lists; absent keys
// keep the base value.
func Load(path string) (Pipeline, error) {
	var out Pipeline
	found := false

	base, err := readOptional(path)
	if err != nil {
		return out, err
	}
	if base != nil {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, fmt.Errorf("config: parse %s: %w", path, err)
		}
		found = true
	}

	localPath := LocalPath(path)
	local, err := readOptional(localPath)
	if err != nil {
		return out, err
	}
	if local != nil {
		if err := json5.Unmarshal(local, &out); err != nil {
			return out, fmt.Errorf("config: parse %s: %w", localPath, err)
		}
		log.Printf("config: merged local overrides from %s", localPath)
		found = true
	}

	if !found {
		return out, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err := ApplyDefaults(&out); err != nil {
		return out, err
	}
	return out, nil
}

// LocalPath returns the override file name for path:
// configs/pipelines/largest_banks.json5 -> configs/pipelines/largest_banks.local.json5.
func LocalPath(path string) string {
	dir, base := filepath.Dir(path), filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+".local"+ext)
}

func readOptional(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return b, nil
}
