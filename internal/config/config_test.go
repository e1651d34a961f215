package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Import.ExactBuilderWeight)
		assert.Equal(t, 80, cfg.Import.AutoCreateThreshold)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "db:\n  host: db.internal\nimport:\n  autocreatethreshold: 90\n"
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)
		assert.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 90, cfg.Import.AutoCreateThreshold)
		// untouched values keep their defaults
		assert.Equal(t, 60, cfg.Import.ReviewThreshold)
	})

	t.Run("environment variables win over the file", func(t *testing.T) {
		t.Setenv("FIELDBEAT_DB_HOST", "env.internal")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.NoError(t, err)
		assert.Equal(t, "env.internal", cfg.Database.Host)
	})
}
