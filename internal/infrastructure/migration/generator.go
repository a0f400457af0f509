package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

var (
	migrationFileRe = regexp.MustCompile(`^(\d+)_.+\.sql$`)
	migrationNameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// Generator writes new goose migration files, one per dialect, with the
// next sequential version.
type Generator struct {
	scriptsPath string
	logger      logger.Interface
}

// NewGenerator creates a generator rooted at scriptsPath, which holds one
// sub-directory per dialect.
func NewGenerator(scriptsPath string, log logger.Interface) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      log.With("component", "migration.generator"),
	}
}

// CreateMigration creates <version>_<name>.sql under every dialect directory
// and returns the paths written.
func (g *Generator) CreateMigration(name string) ([]string, error) {
	if !migrationNameRe.MatchString(name) {
		return nil, fmt.Errorf("migration name %q must be lower_snake_case", name)
	}

	var written []string
	for _, dialect := range Dialects() {
		dir := filepath.Join(g.scriptsPath, dialect)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("failed to create scripts directory: %w", err)
		}

		version, err := nextVersion(dir)
		if err != nil {
			return written, err
		}

		path := filepath.Join(dir, fmt.Sprintf("%05d_%s.sql", version, name))
		if err := os.WriteFile(path, []byte(migrationTemplate(name, dialect)), 0o644); err != nil {
			return written, fmt.Errorf("failed to write migration file: %w", err)
		}
		written = append(written, path)
	}

	g.logger.Infow("migration files created", "name", name, "files", written)
	return written, nil
}

// nextVersion returns one more than the highest version present in dir.
func nextVersion(dir string) (int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list migrations: %w", err)
	}

	var highest int64
	for _, e := range entries {
		m := migrationFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}

func migrationTemplate(name, dialect string) string {
	return fmt.Sprintf(`-- Migration: %s (%s)
-- Created: %s

-- +goose Up

-- +goose Down
`, name, dialect, time.Now().UTC().Format("2006-01-02 15:04:05"))
}
