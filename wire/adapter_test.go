package wire

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

func validAgentModel() AgentStateModel {
	return AgentStateModel{
		ID:      "6f1c2a40-9f6e-4a43-9a7e-0b9a3c1d2e3f",
		Name:    "memory-agent",
		UserID:  "00000000-0000-0000-0000-000000000001",
		Preset:  "mnemos_chat",
		Persona: "I am Sam.",
		Human:   "First name: Chad",
		LLMConfig: LLMConfigModel{
			Model:         "claude-sonnet-4-20250514",
			ContextWindow: 8192,
		},
		EmbeddingConfig: EmbeddingConfigModel{
			EmbeddingModel: "hash",
			EmbeddingDim:   384,
		},
		FunctionsSchema: []map[string]any{{"name": "archival_memory_search"}},
		CreatedAt:       1717171717,
	}
}

func TestAgentStateToDomain(t *testing.T) {
	state, err := AgentStateToDomain(validAgentModel())
	require.NoError(t, err)

	assert.Equal(t, "memory-agent", state.Name)
	assert.Equal(t, uuid.MustParse("6f1c2a40-9f6e-4a43-9a7e-0b9a3c1d2e3f"), state.ID)
	assert.Equal(t, time.Unix(1717171717, 0).UTC(), state.CreatedAt)
	assert.Equal(t, 8192, state.LLMConfig.ContextWindow)

	// Function schemas are merged into the state blob.
	fns, ok := state.State["functions"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, fns, 1)
}

func TestAgentStateToDomainRejectsBadInput(t *testing.T) {
	t.Run("bad id", func(t *testing.T) {
		m := validAgentModel()
		m.ID = "not-a-uuid"
		_, err := AgentStateToDomain(m)
		assert.Error(t, err)
	})

	t.Run("zero epoch", func(t *testing.T) {
		m := validAgentModel()
		m.CreatedAt = 0
		_, err := AgentStateToDomain(m)
		assert.ErrorIs(t, err, ErrMalformedTimestamp)
	})

	t.Run("missing model", func(t *testing.T) {
		m := validAgentModel()
		m.LLMConfig.Model = ""
		_, err := AgentStateToDomain(m)
		assert.ErrorIs(t, err, ErrMalformedConfig)
	})

	t.Run("missing embedding dim", func(t *testing.T) {
		m := validAgentModel()
		m.EmbeddingConfig.EmbeddingDim = 0
		_, err := AgentStateToDomain(m)
		assert.ErrorIs(t, err, ErrMalformedConfig)
	})
}

func TestAgentStateRoundTrip(t *testing.T) {
	state, err := AgentStateToDomain(validAgentModel())
	require.NoError(t, err)

	back, err := AgentStateToDomain(AgentStateToWire(state))
	require.NoError(t, err)
	assert.Equal(t, state.ID, back.ID)
	assert.Equal(t, state.Name, back.Name)
	assert.Equal(t, state.LLMConfig, back.LLMConfig)
	assert.Equal(t, state.EmbeddingConfig, back.EmbeddingConfig)
	assert.Equal(t, state.CreatedAt, back.CreatedAt)
}

func TestSourceToDomain(t *testing.T) {
	m := SourceModel{
		ID:        "b7e0a7b2-4f6e-402f-a6a4-02b0e1e8c9d0",
		UserID:    "00000000-0000-0000-0000-000000000001",
		Name:      "papers",
		CreatedAt: "2024-06-01T12:30:45.123456",
		EmbeddingConfig: map[string]any{
			"embedding_model": "hash",
			"embedding_dim":   float64(384), // as encoding/json delivers it
		},
	}
	src, err := SourceToDomain(m)
	require.NoError(t, err)
	assert.Equal(t, "papers", src.Name)
	assert.Equal(t, "hash", src.EmbeddingModel)
	assert.Equal(t, 384, src.EmbeddingDim)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 30, 45, 123456000, time.UTC), src.CreatedAt)
}

func TestSourceToDomainMalformed(t *testing.T) {
	base := SourceModel{
		ID:        "b7e0a7b2-4f6e-402f-a6a4-02b0e1e8c9d0",
		UserID:    "00000000-0000-0000-0000-000000000001",
		Name:      "papers",
		CreatedAt: "2024-06-01T12:30:45.123456",
		EmbeddingConfig: map[string]any{
			"embedding_model": "hash",
			"embedding_dim":   float64(384),
		},
	}

	t.Run("epoch timestamp where formatted expected", func(t *testing.T) {
		m := base
		m.CreatedAt = "1717171717"
		_, err := SourceToDomain(m)
		assert.ErrorIs(t, err, ErrMalformedTimestamp)
	})

	t.Run("missing nested field", func(t *testing.T) {
		m := base
		m.EmbeddingConfig = map[string]any{"embedding_model": "hash"}
		_, err := SourceToDomain(m)
		assert.ErrorIs(t, err, ErrMalformedConfig)
	})

	t.Run("wrong nested type", func(t *testing.T) {
		m := base
		m.EmbeddingConfig = map[string]any{
			"embedding_model": "hash",
			"embedding_dim":   "384",
		}
		_, err := SourceToDomain(m)
		assert.ErrorIs(t, err, ErrMalformedConfig)
	})
}

func TestSourceTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 2, 29, 23, 59, 59, 999999000, time.UTC)
	parsed, err := ParseSourceTime(FormatSourceTime(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
}

func TestJobToDomain(t *testing.T) {
	job, err := JobToDomain(JobModel{
		ID:       "3c9e6f10-5a52-4a0a-8a37-bd2c0c6e2a11",
		Status:   "failed",
		Metadata: map[string]any{"error": "no such file"},
	})
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.True(t, job.Status.Terminal())
	assert.Equal(t, "no such file", job.Metadata["error"])
}

func TestAgentStateToDomainCopiesStateMap(t *testing.T) {
	m := validAgentModel()
	m.State = map[string]any{"step": 1}

	state, err := AgentStateToDomain(m)
	require.NoError(t, err)

	// Merging function schemas must not write into the wire model.
	_, leaked := m.State["functions"]
	assert.False(t, leaked)

	// And the domain state must not alias the wire map.
	state.State["step"] = 2
	assert.Equal(t, 1, m.State["step"])
}

func TestSourceToDomainChunkSize(t *testing.T) {
	m := SourceModel{
		ID:        "b7e0a7b2-4f6e-402f-a6a4-02b0e1e8c9d0",
		UserID:    "00000000-0000-0000-0000-000000000001",
		Name:      "papers",
		CreatedAt: "2024-06-01T12:30:45.123456",
		EmbeddingConfig: map[string]any{
			"embedding_model":      "hash",
			"embedding_dim":        float64(384),
			"embedding_chunk_size": float64(300),
		},
	}

	src, err := SourceToDomain(m)
	require.NoError(t, err)
	assert.Equal(t, 300, src.EmbeddingChunkSize)

	// Absent is fine; the field is optional on the wire.
	delete(m.EmbeddingConfig, "embedding_chunk_size")
	src, err = SourceToDomain(m)
	require.NoError(t, err)
	assert.Zero(t, src.EmbeddingChunkSize)

	// Present but non-numeric is not.
	m.EmbeddingConfig["embedding_chunk_size"] = "300"
	_, err = SourceToDomain(m)
	assert.ErrorIs(t, err, ErrMalformedConfig)
}
