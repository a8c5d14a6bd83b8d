package archival

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

func TestHashEmbedderIsDeterministic(t *testing.T) {
	e := NewHashEmbedder(384)
	ctx := context.Background()

	a, err := e.Embed(ctx, "the sky on mars is butterscotch")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "the sky on mars is butterscotch")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 384)

	other, err := e.Embed(ctx, "a different fact entirely")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	e := NewHashEmbedder(64)
	vec, err := e.Embed(context.Background(), "normalize me")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestIndexAddAndSearch(t *testing.T) {
	ix := NewIndex()
	e := NewHashEmbedder(64)
	ctx := context.Background()
	agentID := uuid.New()

	texts := []string{"alpha fact", "beta fact", "gamma fact"}
	for _, text := range texts {
		emb, err := e.Embed(ctx, text)
		require.NoError(t, err)
		require.NoError(t, ix.Add(ctx, &core.Passage{
			ID:        uuid.New(),
			AgentID:   agentID,
			Text:      text,
			Embedding: emb,
			CreatedAt: time.Now().UTC(),
		}))
	}

	// An exact-text query ranks its own passage first: identical
	// embeddings have cosine similarity 1.
	query, err := e.Embed(ctx, "beta fact")
	require.NoError(t, err)
	hits, err := ix.Search(ctx, agentID, query, 3)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "beta fact", hits[0].Passage.Text)
	assert.InDelta(t, 1.0, float64(hits[0].Similarity), 1e-5)
}

func TestIndexSearchShrinksLimitToCollection(t *testing.T) {
	ix := NewIndex()
	e := NewHashEmbedder(64)
	ctx := context.Background()
	agentID := uuid.New()

	emb, err := e.Embed(ctx, "only passage")
	require.NoError(t, err)
	require.NoError(t, ix.Add(ctx, &core.Passage{
		ID:        uuid.New(),
		AgentID:   agentID,
		Text:      "only passage",
		Embedding: emb,
		CreatedAt: time.Now().UTC(),
	}))

	// Asking for more results than documents backs off instead of failing.
	hits, err := ix.Search(ctx, agentID, emb, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndexEmptyCollection(t *testing.T) {
	ix := NewIndex()
	e := NewHashEmbedder(64)
	ctx := context.Background()

	emb, err := e.Embed(ctx, "anything")
	require.NoError(t, err)
	hits, err := ix.Search(ctx, uuid.New(), emb, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndexIsolatesAgents(t *testing.T) {
	ix := NewIndex()
	e := NewHashEmbedder(64)
	ctx := context.Background()
	agentA, agentB := uuid.New(), uuid.New()

	emb, err := e.Embed(ctx, "private fact")
	require.NoError(t, err)
	require.NoError(t, ix.Add(ctx, &core.Passage{
		ID: uuid.New(), AgentID: agentA, Text: "private fact",
		Embedding: emb, CreatedAt: time.Now().UTC(),
	}))

	hits, err := ix.Search(ctx, agentB, emb, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndexDelete(t *testing.T) {
	ix := NewIndex()
	e := NewHashEmbedder(64)
	ctx := context.Background()
	agentID := uuid.New()

	emb, err := e.Embed(ctx, "short lived")
	require.NoError(t, err)
	id := uuid.New()
	require.NoError(t, ix.Add(ctx, &core.Passage{
		ID: id, AgentID: agentID, Text: "short lived",
		Embedding: emb, CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, ix.Delete(ctx, agentID, id))
	hits, err := ix.Search(ctx, agentID, emb, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
