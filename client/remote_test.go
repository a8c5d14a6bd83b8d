package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
	"github.com/mnemos-ai/mnemos-go-sdk/wire"
)

func testAgentModel(id, userID uuid.UUID) wire.AgentStateModel {
	return wire.AgentStateModel{
		ID:      id.String(),
		Name:    "memory-agent",
		UserID:  userID.String(),
		Preset:  "mnemos_chat",
		Persona: "I am Sam.",
		Human:   "First name: Chad",
		LLMConfig: wire.LLMConfigModel{
			Model:         "claude-sonnet-4-20250514",
			ContextWindow: 8192,
		},
		EmbeddingConfig: wire.EmbeddingConfigModel{
			EmbeddingModel: "hash",
			EmbeddingDim:   384,
		},
		CreatedAt: 1717171717,
	}
}

func TestRemoteSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(wire.ListAgentsResponse{})
	}))
	defer srv.Close()

	c, err := NewRemoteClient(srv.URL, "sekrit")
	require.NoError(t, err)

	_, err = c.ListAgents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer sekrit", gotAuth)
}

func TestRemoteListAgents(t *testing.T) {
	agentID, userID := uuid.New(), uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/agents", r.URL.Path)
		json.NewEncoder(w).Encode(wire.ListAgentsResponse{
			NumAgents: 1,
			Agents:    []wire.AgentStateModel{testAgentModel(agentID, userID)},
		})
	}))
	defer srv.Close()

	c, err := NewRemoteClient(srv.URL, "")
	require.NoError(t, err)

	agents, err := c.ListAgents(context.Background())
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, agentID, agents[0].ID)
	assert.Equal(t, "memory-agent", agents[0].Name)
}

func TestRemoteAgentExists(t *testing.T) {
	knownID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("agent_id") == knownID.String() ||
			r.URL.Query().Get("agent_name") == "known" {
			json.NewEncoder(w).Encode(wire.GetAgentResponse{
				AgentState: testAgentModel(knownID, uuid.New()),
			})
			return
		}
		http.Error(w, `{"detail":"agent not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewRemoteClient(srv.URL, "")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("exactly one of id and name", func(t *testing.T) {
		_, err := c.AgentExists(ctx, uuid.Nil, "")
		assert.ErrorIs(t, err, ErrInvalidArguments)

		_, err = c.AgentExists(ctx, knownID, "known")
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("by id", func(t *testing.T) {
		ok, err := c.AgentExists(ctx, knownID, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("404 is a negative answer", func(t *testing.T) {
		ok, err := c.AgentExists(ctx, uuid.New(), "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("by name", func(t *testing.T) {
		ok, err := c.AgentExists(ctx, uuid.Nil, "unknown")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRemoteCreateAgentRejectsConfigOverrides(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	c, err := NewRemoteClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.CreateAgent(context.Background(), CreateAgentParams{
		Name:      "memory-agent",
		LLMConfig: &core.LLMConfig{Model: "claude-sonnet-4-20250514", ContextWindow: 8192},
	})
	assert.ErrorIs(t, err, ErrUnsupportedOverride)

	_, err = c.CreateAgent(context.Background(), CreateAgentParams{
		Name:            "memory-agent",
		EmbeddingConfig: &core.EmbeddingConfig{EmbeddingModel: "hash", EmbeddingDim: 384},
	})
	assert.ErrorIs(t, err, ErrUnsupportedOverride)

	// The rejection happens before any request is issued.
	assert.Equal(t, 0, hits)
}

func TestRemoteErrorCarriesRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"preset lookup exploded"}`))
	}))
	defer srv.Close()

	c, err := NewRemoteClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.GetPreset(context.Background(), "mnemos_chat")
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.Body, "preset lookup exploded")
}

func TestRemoteInsertArchivalMemory(t *testing.T) {
	agentID := uuid.New()
	ids := []string{uuid.NewString(), uuid.NewString()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/agents/"+agentID.String()+"/archival", r.URL.Path)

		var req wire.InsertArchivalMemoryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "the sky on mars is butterscotch", req.Content)

		json.NewEncoder(w).Encode(wire.InsertArchivalMemoryResponse{IDs: ids})
	}))
	defer srv.Close()

	c, err := NewRemoteClient(srv.URL, "")
	require.NoError(t, err)

	got, err := c.InsertArchivalMemory(context.Background(), agentID, "the sky on mars is butterscotch")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ids[0], got[0].String())
}

func TestRemoteGetArchivalMemoryPagination(t *testing.T) {
	agentID := uuid.New()
	after := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, after.String(), r.URL.Query().Get("after"))
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(wire.GetArchivalMemoryResponse{})
	}))
	defer srv.Close()

	c, err := NewRemoteClient(srv.URL, "")
	require.NoError(t, err)

	_, err = c.GetArchivalMemory(context.Background(), agentID, Page{After: after})
	require.NoError(t, err)
}

func TestRemoteLoadFileIntoSourceBlocking(t *testing.T) {
	sourceID, jobID := uuid.New(), uuid.New()
	statusPolls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sources/"+sourceID.String()+"/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("file")
		require.NoError(t, err)
		json.NewEncoder(w).Encode(wire.JobModel{ID: jobID.String(), Status: "created"})
	})
	mux.HandleFunc("/api/sources/status/"+jobID.String(), func(w http.ResponseWriter, r *http.Request) {
		statusPolls++
		status := "running"
		if statusPolls >= 2 {
			status = "completed"
		}
		json.NewEncoder(w).Encode(wire.JobModel{ID: jobID.String(), Status: status})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tmp := t.TempDir() + "/notes.txt"
	require.NoError(t, writeFile(tmp, "passage one\n\npassage two"))

	c, err := NewRemoteClient(srv.URL, "", WithPollInterval(time.Millisecond))
	require.NoError(t, err)

	job, err := c.LoadFileIntoSource(context.Background(), tmp, sourceID, true)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, job.Status)
	assert.GreaterOrEqual(t, statusPolls, 2)
}

func TestRemoteSaveNotImplemented(t *testing.T) {
	c, err := NewRemoteClient("http://localhost:0", "")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Save(context.Background()), ErrNotImplemented)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
