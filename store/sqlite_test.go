package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testAgent(userID uuid.UUID, name string) *core.AgentState {
	return &core.AgentState{
		ID:      uuid.New(),
		Name:    name,
		UserID:  userID,
		Preset:  "mnemos_chat",
		Persona: "I am Sam.",
		Human:   "First name: Chad",
		LLMConfig: core.LLMConfig{
			Model:         "claude-sonnet-4-20250514",
			ContextWindow: 8192,
		},
		EmbeddingConfig: core.EmbeddingConfig{
			EmbeddingModel: "hash",
			EmbeddingDim:   384,
		},
		State:     map[string]any{"functions": []any{}},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestAgentCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	agent := testAgent(userID, "memory-agent")
	require.NoError(t, s.CreateAgent(ctx, agent))

	got, err := s.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.Name, got.Name)
	assert.Equal(t, agent.LLMConfig, got.LLMConfig)
	assert.Equal(t, agent.EmbeddingConfig, got.EmbeddingConfig)
	assert.True(t, agent.CreatedAt.Equal(got.CreatedAt))

	byName, err := s.GetAgentByName(ctx, userID, "memory-agent")
	require.NoError(t, err)
	assert.Equal(t, agent.ID, byName.ID)

	got.Name = "renamed"
	require.NoError(t, s.UpdateAgent(ctx, got))
	again, err := s.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", again.Name)

	require.NoError(t, s.DeleteAgent(ctx, agent.ID))
	_, err = s.GetAgent(ctx, agent.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAgentNameUniquePerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, s.CreateAgent(ctx, testAgent(userID, "memory-agent")))
	err := s.CreateAgent(ctx, testAgent(userID, "memory-agent"))
	assert.ErrorIs(t, err, ErrDuplicate)

	// Same name under another user is fine.
	assert.NoError(t, s.CreateAgent(ctx, testAgent(uuid.New(), "memory-agent")))
}

func TestHumanUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID := uuid.New()

	h := &core.Human{ID: uuid.New(), UserID: userID, Name: "basic", Text: "First name: Chad"}
	require.NoError(t, s.AddHuman(ctx, h))

	// Adding under the same name replaces the text, keeping one record.
	h2 := &core.Human{ID: uuid.New(), UserID: userID, Name: "basic", Text: "First name: Ada"}
	require.NoError(t, s.AddHuman(ctx, h2))

	got, err := s.GetHuman(ctx, userID, "basic")
	require.NoError(t, err)
	assert.Equal(t, "First name: Ada", got.Text)

	all, err := s.ListHumans(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestJobLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := &core.Job{
		ID:        uuid.New(),
		Status:    core.JobStatusPending,
		Metadata:  map[string]any{"filename": "notes.txt"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.CreateJob(ctx, job))

	job.Status = core.JobStatusRunning
	require.NoError(t, s.UpdateJob(ctx, job))

	job.Status = core.JobStatusCompleted
	job.Metadata = map[string]any{"filename": "notes.txt", "num_passages": 3}
	job.CompletedAt = time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.UpdateJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, got.Status)
	assert.EqualValues(t, 3, got.Metadata["num_passages"])
	assert.False(t, got.CompletedAt.IsZero())
}

func TestMessageCursorPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	agentID, userID := uuid.New(), uuid.New()

	var ids []uuid.UUID
	for i, text := range []string{"one", "two", "three", "four", "five"} {
		msg := &core.Message{
			ID:        uuid.New(),
			AgentID:   agentID,
			UserID:    userID,
			Role:      "user",
			Text:      text,
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, s.AppendMessage(ctx, msg))
		// Seq is assigned monotonically at append time.
		assert.EqualValues(t, i+1, msg.Seq)
		ids = append(ids, msg.ID)
	}

	n, err := s.CountMessages(ctx, agentID)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	all, err := s.MessagesPage(ctx, agentID, uuid.Nil, uuid.Nil, 100)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Greater(t, all[i].Seq, all[i-1].Seq)
	}

	// after=ids[1], before=ids[4] selects the open interval between them.
	window, err := s.MessagesPage(ctx, agentID, ids[4], ids[1], 100)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, ids[2], window[0].ID)
	assert.Equal(t, ids[3], window[1].ID)

	// Consecutive pages never overlap.
	first, err := s.MessagesPage(ctx, agentID, uuid.Nil, uuid.Nil, 2)
	require.NoError(t, err)
	second, err := s.MessagesPage(ctx, agentID, uuid.Nil, first[len(first)-1].ID, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Greater(t, second[0].Seq, first[1].Seq)
}

func TestPassagePaginationMatchesMessageSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	agentID := uuid.New()

	var ids []uuid.UUID
	for _, text := range []string{"p1", "p2", "p3"} {
		p := &core.Passage{
			ID:        uuid.New(),
			AgentID:   agentID,
			Text:      text,
			Embedding: []float32{0.1, 0.2},
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, s.AppendPassage(ctx, p))
		ids = append(ids, p.ID)
	}

	page, err := s.PassagesPage(ctx, agentID, uuid.Nil, ids[0], 100)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)
	assert.Equal(t, []float32{0.1, 0.2}, page[0].Embedding)

	require.NoError(t, s.DeletePassage(ctx, agentID, ids[1]))
	n, err := s.CountPassages(ctx, agentID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSourceAttachDetach(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	userID, agentID := uuid.New(), uuid.New()

	src := &core.Source{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           "papers",
		EmbeddingModel: "hash",
		EmbeddingDim:   384,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.CreateSource(ctx, src))

	require.NoError(t, s.AttachSource(ctx, agentID, src.ID))
	// Attaching twice is harmless.
	require.NoError(t, s.AttachSource(ctx, agentID, src.ID))

	attached, err := s.ListAttachedSources(ctx, agentID)
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "papers", attached[0].Name)

	require.NoError(t, s.DetachSource(ctx, agentID, src.ID))
	attached, err = s.ListAttachedSources(ctx, agentID)
	require.NoError(t, err)
	assert.Empty(t, attached)

	// Detaching again reports not found.
	assert.ErrorIs(t, s.DetachSource(ctx, agentID, src.ID), ErrNotFound)
}

func TestPassagesBySource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sourceID := uuid.New()

	for _, text := range []string{"chunk a", "chunk b"} {
		require.NoError(t, s.AppendPassage(ctx, &core.Passage{
			ID:        uuid.New(),
			SourceID:  sourceID,
			Text:      text,
			Embedding: []float32{1},
			CreatedAt: time.Now().UTC(),
		}))
	}

	got, err := s.PassagesBySource(ctx, sourceID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "chunk a", got[0].Text)
	assert.Equal(t, uuid.Nil, got[0].AgentID)
}
