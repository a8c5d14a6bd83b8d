package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, AnonClientID, cfg.AnonClientID)
	assert.NotEmpty(t, cfg.StorePath)
	assert.Equal(t, 384, cfg.Embedding.Dim)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_path = ":memory:"

[llm]
model = "claude-haiku-4"
context_window = 4096
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.StorePath)
	assert.Equal(t, "claude-haiku-4", cfg.LLM.Model)
	assert.Equal(t, 4096, cfg.LLM.ContextWindow)
	// Sections the file omits keep their defaults.
	assert.Equal(t, "hash", cfg.Embedding.Model)
	assert.Equal(t, AnonClientID, cfg.AnonClientID)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`store_path = [broken`), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDomainConversions(t *testing.T) {
	cfg := Default()
	llm := cfg.LLMConfig()
	assert.Equal(t, cfg.LLM.Model, llm.Model)
	assert.Equal(t, cfg.LLM.ContextWindow, llm.ContextWindow)

	emb := cfg.EmbeddingConfig()
	assert.Equal(t, cfg.Embedding.Dim, emb.EmbeddingDim)
	assert.Equal(t, cfg.Embedding.ChunkSize, emb.EmbeddingChunkSize)
}
