// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text key files.
// The filename is the credential name and the trimmed file body is its value,
// so .secrets/openai-api-key holds the OpenAI key. Environment variables
// override these files at the CLI layer.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxSecretSize bounds how much of a key file Load accepts.
const maxSecretSize = 4096

// Load reads every regular file in dir into a name-to-value map. Dotfiles,
// subdirectories, and files that trim to nothing are ignored. A missing dir
// yields an empty map. Files that cannot be read are skipped with a warning
// so one bad entry does not block the rest.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	found := make(map[string]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		value, err := readSecret(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("skipping unreadable secret file")
			continue
		}
		if value == "" {
			continue
		}
		found[name] = value
	}

	return found, nil
}

// readSecret returns the trimmed contents of one key file.
func readSecret(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxSecretSize {
		return "", fmt.Errorf("file is %d bytes, limit is %d", info.Size(), maxSecretSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
