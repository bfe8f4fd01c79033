// Package env loads KEY=VALUE pairs from .env files into the process
// environment, so provider URLs carrying API keys can stay out of the
// YAML config.
package env

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Load reads the given files (".env" when none are named). Missing files
// are skipped. Variables already set in the environment take precedence.
func Load(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
