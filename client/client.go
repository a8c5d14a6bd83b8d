// Package client provides the Mnemos client façade: one operation set with
// two interchangeable backends. The remote backend speaks JSON over HTTP to
// a Mnemos server; the local backend invokes an embedded server in-process.
// Callers program against the Client interface and never depend on the
// concrete backend.
package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// DefaultPageLimit bounds paginated reads when no limit is supplied.
const DefaultPageLimit = 1000

// Page bounds a cursor-paginated read. Before and After are record ids;
// their semantics are identical for archival-memory and message reads.
// A zero Limit means DefaultPageLimit.
type Page struct {
	Before uuid.UUID
	After  uuid.UUID
	Limit  int
}

func (p Page) limit() int {
	if p.Limit <= 0 {
		return DefaultPageLimit
	}
	return p.Limit
}

// CreateAgentParams configures CreateAgent. When Preset, Persona, and Human
// are all empty the backend resolves defaults (the well-known default
// preset by name). EmbeddingConfig and LLMConfig overrides are accepted by
// the local backend only; the remote backend rejects them with
// ErrUnsupportedOverride because those are fixed server-side.
type CreateAgentParams struct {
	Name            string
	Preset          string
	Persona         string
	Human           string
	EmbeddingConfig *core.EmbeddingConfig
	LLMConfig       *core.LLMConfig
}

// StreamFunc receives message frames during a streaming send.
type StreamFunc func(frame map[string]any)

// Client is the façade contract implemented by both backends. Operations a
// backend does not support return ErrNotImplemented.
type Client interface {
	// Agent lifecycle.
	ListAgents(ctx context.Context) ([]core.AgentState, error)
	// AgentExists requires exactly one of agentID, agentName; supplying
	// both or neither returns ErrInvalidArguments.
	AgentExists(ctx context.Context, agentID uuid.UUID, agentName string) (bool, error)
	CreateAgent(ctx context.Context, params CreateAgentParams) (*core.AgentState, error)
	RenameAgent(ctx context.Context, agentID uuid.UUID, newName string) (*core.AgentState, error)
	DeleteAgent(ctx context.Context, agentID uuid.UUID, agentName string) error
	GetAgentConfig(ctx context.Context, agentID uuid.UUID, agentName string) (*core.AgentState, error)
	UpdateAgent(ctx context.Context, state *core.AgentState) error
	SaveAgent(ctx context.Context, state *core.AgentState) error

	// Users.
	GetUser(ctx context.Context, userID uuid.UUID) (*core.User, error)
	CreateUser(ctx context.Context, user core.User) error

	// Presets.
	GetPreset(ctx context.Context, name string) (*core.Preset, error)
	CreatePreset(ctx context.Context, preset core.Preset) (*core.Preset, error)
	DeletePreset(ctx context.Context, presetID uuid.UUID) error
	ListPresets(ctx context.Context) ([]core.Preset, error)
	AddDefaultPresets(ctx context.Context) error

	// Core memory.
	GetAgentMemory(ctx context.Context, agentID uuid.UUID) (*core.MemorySummary, error)
	UpdateAgentCoreMemory(ctx context.Context, agentID uuid.UUID, mem core.CoreMemory) (*core.CoreMemory, error)

	// Archival memory (cursor-paginated).
	GetArchivalMemory(ctx context.Context, agentID uuid.UUID, page Page) ([]core.Passage, error)
	InsertArchivalMemory(ctx context.Context, agentID uuid.UUID, memory string) ([]uuid.UUID, error)
	DeleteArchivalMemory(ctx context.Context, agentID, memoryID uuid.UUID) error

	// Recall memory (cursor-paginated) and interaction.
	GetMessages(ctx context.Context, agentID uuid.UUID, page Page) ([]core.Message, error)
	SendMessage(ctx context.Context, agentID uuid.UUID, message, role string) ([]map[string]any, error)
	UserMessage(ctx context.Context, agentID uuid.UUID, message string) ([]map[string]any, error)
	StreamMessage(ctx context.Context, agentID uuid.UUID, message string, fn StreamFunc) error
	RunCommand(ctx context.Context, agentID uuid.UUID, command string) (string, error)

	// Human and persona catalogs.
	ListHumans(ctx context.Context) ([]core.Human, error)
	GetHuman(ctx context.Context, name string) (*core.Human, error)
	AddHuman(ctx context.Context, name, text string) (*core.Human, error)
	UpdateHuman(ctx context.Context, name, text string) (*core.Human, error)
	DeleteHuman(ctx context.Context, name string) error
	ListPersonas(ctx context.Context) ([]core.Persona, error)
	GetPersona(ctx context.Context, name string) (*core.Persona, error)
	AddPersona(ctx context.Context, name, text string) (*core.Persona, error)
	UpdatePersona(ctx context.Context, name, text string) (*core.Persona, error)
	DeletePersona(ctx context.Context, name string) error

	// Sources and ingestion.
	ListSources(ctx context.Context) ([]core.Source, error)
	CreateSource(ctx context.Context, name, description string) (*core.Source, error)
	DeleteSource(ctx context.Context, sourceID uuid.UUID, sourceName string) error
	AttachSourceToAgent(ctx context.Context, agentID, sourceID uuid.UUID, sourceName string) error
	DetachSource(ctx context.Context, agentID, sourceID uuid.UUID) error
	LoadFileIntoSource(ctx context.Context, filename string, sourceID uuid.UUID, blocking bool) (*core.Job, error)
	GetJobStatus(ctx context.Context, jobID uuid.UUID) (*core.Job, error)

	// Introspection.
	ListModels(ctx context.Context) ([]core.LLMConfig, error)
	GetServerConfig(ctx context.Context) (map[string]any, error)

	// Save flushes in-progress agent state where the backend supports it.
	Save(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// New selects a backend the way callers usually want it: a base URL means
// remote, no base URL means local.
func New(ctx context.Context, baseURL, token string) (Client, error) {
	if baseURL == "" {
		return NewLocalClient(ctx)
	}
	return NewRemoteClient(baseURL, token)
}

// validateExactlyOne enforces the exactly-one-of id/name contract shared by
// AgentExists and friends.
func validateExactlyOne(id uuid.UUID, name string) error {
	hasID := id != uuid.Nil
	hasName := name != ""
	if hasID == hasName {
		return ErrInvalidArguments
	}
	return nil
}
