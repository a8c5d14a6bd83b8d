package core

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPresetName is the well-known preset resolved when an agent is
// created without an explicit preset.
const DefaultPresetName = "mnemos_chat"

// LLMConfig describes the language model an agent runs against.
type LLMConfig struct {
	Model             string
	ModelEndpointType string
	ModelEndpoint     string
	ModelWrapper      string
	ContextWindow     int
}

// EmbeddingConfig describes the embedding model used for archival memory
// and source ingestion.
type EmbeddingConfig struct {
	EmbeddingEndpointType string
	EmbeddingEndpoint     string
	EmbeddingModel        string
	EmbeddingDim          int
	EmbeddingChunkSize    int
}

// AgentState is the fully-populated state of an agent. It is never returned
// partially constructed: an operation either yields a complete AgentState or
// an error.
//
// ID is globally unique and stable once created; CreatedAt is immutable
// after creation.
type AgentState struct {
	ID              uuid.UUID
	Name            string
	UserID          uuid.UUID
	Preset          string
	Persona         string
	Human           string
	LLMConfig       LLMConfig
	EmbeddingConfig EmbeddingConfig

	// State is the free-form agent state blob. It includes the callable
	// function schemas under the "functions" key.
	State map[string]any

	CreatedAt time.Time
}

// Clone returns an independent deep copy. The local backend hands out clones
// so callers never hold references into server-internal state.
func (a *AgentState) Clone() *AgentState {
	if a == nil {
		return nil
	}
	cp := *a
	if a.State != nil {
		cp.State = make(map[string]any, len(a.State))
		for k, v := range a.State {
			cp.State[k] = v
		}
	}
	return &cp
}

// User is a client identity. One is upserted per identity at local-client
// construction time.
type User struct {
	ID               uuid.UUID
	DefaultAgent     string
	PoliciesAccepted bool
}

// Preset bundles the prompts and function schemas an agent is created from.
type Preset struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Name            string
	Description     string
	System          string
	Persona         string
	PersonaName     string
	Human           string
	HumanName       string
	FunctionsSchema []map[string]any
	CreatedAt       time.Time
}

// Source is a named collection of ingested documents. Sources attach to zero
// or more agents; detaching does not delete the source.
type Source struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Description    string
	EmbeddingModel string
	EmbeddingDim   int
	// EmbeddingChunkSize is the chunk length, in runes, files ingested
	// into this source are split at.
	EmbeddingChunkSize int
	CreatedAt          time.Time
}

// Human and Persona are catalog entries for core-memory text blocks.
type Human struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Text   string
}

type Persona struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Text   string
}

// CoreMemory is the in-context memory of an agent.
type CoreMemory struct {
	Persona string
	Human   string
}

// MemorySummary reports core memory alongside recall/archival record counts
// and the names of the sources attached to the agent.
type MemorySummary struct {
	Core            CoreMemory
	RecallCount     int
	ArchivalCount   int
	AttachedSources []string
}

// Message is a recall-memory record. Seq orders records within an agent so
// before/after cursor pagination is well-defined.
type Message struct {
	ID        uuid.UUID
	AgentID   uuid.UUID
	UserID    uuid.UUID
	Role      string
	Name      string
	Text      string
	Seq       int64
	CreatedAt time.Time
}

// Passage is an archival-memory record. Like Message, Seq carries the
// ordering that cursors are interpreted against.
type Passage struct {
	ID        uuid.UUID
	AgentID   uuid.UUID
	SourceID  uuid.UUID
	UserID    uuid.UUID
	Text      string
	Embedding []float32
	Seq       int64
	CreatedAt time.Time
}
