package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, 2*time.Second, cfg.SearchTimeout())
	assert.NotEmpty(t, cfg.Index.JobWeights)
	assert.NotEmpty(t, cfg.Index.CandidateWeights)

	rc := cfg.ReindexConfig()
	assert.Positive(t, rc.BatchSize)
	assert.Positive(t, rc.Workers)
	assert.Positive(t, rc.QueueSize)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
search:
  timeout_ms: 500
reindex:
  workers: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchTimeout())
	assert.Equal(t, 8, cfg.ReindexConfig().Workers)

	// Untouched keys keep their defaults.
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, Default().Reindex.BatchSize, cfg.Reindex.BatchSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
