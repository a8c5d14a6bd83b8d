// Package config holds client configuration for the local backend: where
// the metadata store lives, which user id anonymous clients run as, and the
// default model configs agents are created with. Configuration is TOML; a
// missing file means defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// AnonClientID is the user id anonymous local clients operate under, the
// nil UUID by convention.
const AnonClientID = "00000000-0000-0000-0000-000000000000"

// Config is the local backend configuration.
type Config struct {
	// AnonClientID is the user id used when the caller supplies none.
	AnonClientID string `toml:"anon_client_id"`

	// StorePath is the SQLite database path. ":memory:" keeps everything
	// in-process.
	StorePath string `toml:"store_path"`

	LLM       LLM       `toml:"llm"`
	Embedding Embedding `toml:"embedding"`
}

// LLM configures the default model for new agents.
type LLM struct {
	Model             string `toml:"model"`
	ModelEndpointType string `toml:"model_endpoint_type"`
	ModelEndpoint     string `toml:"model_endpoint"`
	ContextWindow     int    `toml:"context_window"`
}

// Embedding configures the default embedding pipeline.
type Embedding struct {
	EndpointType string `toml:"endpoint_type"`
	Endpoint     string `toml:"endpoint"`
	Model        string `toml:"model"`
	Dim          int    `toml:"dim"`
	ChunkSize    int    `toml:"chunk_size"`
}

// Default returns the built-in configuration: anonymous user, a database
// under the user's home directory, and the offline hash embedder.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		AnonClientID: AnonClientID,
		StorePath:    filepath.Join(home, ".mnemos", "mnemos.db"),
		LLM: LLM{
			Model:             "claude-sonnet-4-20250514",
			ModelEndpointType: "anthropic",
			ContextWindow:     8192,
		},
		Embedding: Embedding{
			EndpointType: "local",
			Model:        "hash",
			Dim:          384,
			ChunkSize:    300,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath is where Load looks when the caller names no file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".mnemos", "config.toml")
}

// LLMConfig converts the section to the domain type.
func (c *Config) LLMConfig() core.LLMConfig {
	return core.LLMConfig{
		Model:             c.LLM.Model,
		ModelEndpointType: c.LLM.ModelEndpointType,
		ModelEndpoint:     c.LLM.ModelEndpoint,
		ContextWindow:     c.LLM.ContextWindow,
	}
}

// EmbeddingConfig converts the section to the domain type.
func (c *Config) EmbeddingConfig() core.EmbeddingConfig {
	return core.EmbeddingConfig{
		EmbeddingEndpointType: c.Embedding.EndpointType,
		EmbeddingEndpoint:     c.Embedding.Endpoint,
		EmbeddingModel:        c.Embedding.Model,
		EmbeddingDim:          c.Embedding.Dim,
		EmbeddingChunkSize:    c.Embedding.ChunkSize,
	}
}
