// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key and the trimmed
// contents are the value.
//
// Recognized keys: analyzer-api-key, s3-access-key, s3-secret-key, store-dsn.
package secrets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pdiddy/veripaper/pkg/types"
)

// Key files understood by Apply.
const (
	AnalyzerAPIKey = "analyzer-api-key"
	S3AccessKey    = "s3-access-key"
	S3SecretKey    = "s3-secret-key"
	StoreDSN       = "store-dsn"
)

// Load reads all regular, non-hidden files in dir. A missing directory is
// an empty result. Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, eris.Wrapf(err, "reading secrets directory %s", dir)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			zap.L().Warn("skipping unreadable secret", zap.String("name", name), zap.Error(err))
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Apply fills empty credential fields of cfg from s. Values already set
// by the config file or environment win.
func Apply(cfg *types.Config, s map[string]string) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = s[key]
		}
	}
	fill(&cfg.Analyzer.APIKey, AnalyzerAPIKey)
	fill(&cfg.Store.AccessKey, S3AccessKey)
	fill(&cfg.Store.SecretKey, S3SecretKey)
	fill(&cfg.Store.DSN, StoreDSN)
}
