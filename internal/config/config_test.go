package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[build]
base_year = 2027
pipeline = "deadline"

[server]
port = "9090"
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 2027, cfg.Build.BaseYear)
	assert.Equal(t, "deadline", cfg.Build.Pipeline)
	assert.Equal(t, "9090", cfg.Server.Port)

	// Unnamed settings keep their defaults.
	assert.Equal(t, "竞赛名称", cfg.Columns.Name)
	assert.Equal(t, "db/seed_competitions.sql", cfg.Build.OutSQL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
