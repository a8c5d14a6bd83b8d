// Package store provides the metadata store consumed by the embedded
// server: users, agents, presets, human/persona catalogs, sources,
// ingestion jobs, and the ordered message/passage records that cursor
// pagination is defined over.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// ErrNotFound reports a lookup that matched no record.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate reports a uniqueness violation, e.g. an agent name already
// taken for a user.
var ErrDuplicate = errors.New("store: already exists")

// Store is the metadata store contract. The embedded server treats it as an
// opaque collaborator; SQLite is the shipped implementation.
type Store interface {
	// Users.
	GetUser(ctx context.Context, id uuid.UUID) (*core.User, error)
	CreateUser(ctx context.Context, user *core.User) error
	UpdateUser(ctx context.Context, user *core.User) error

	// Agents.
	CreateAgent(ctx context.Context, state *core.AgentState) error
	GetAgent(ctx context.Context, id uuid.UUID) (*core.AgentState, error)
	GetAgentByName(ctx context.Context, userID uuid.UUID, name string) (*core.AgentState, error)
	ListAgents(ctx context.Context, userID uuid.UUID) ([]core.AgentState, error)
	UpdateAgent(ctx context.Context, state *core.AgentState) error
	DeleteAgent(ctx context.Context, id uuid.UUID) error

	// Presets.
	CreatePreset(ctx context.Context, preset *core.Preset) error
	GetPreset(ctx context.Context, id uuid.UUID) (*core.Preset, error)
	GetPresetByName(ctx context.Context, userID uuid.UUID, name string) (*core.Preset, error)
	ListPresets(ctx context.Context, userID uuid.UUID) ([]core.Preset, error)
	DeletePreset(ctx context.Context, id uuid.UUID) error

	// Human and persona catalogs. Add is an upsert keyed on (user, name).
	AddHuman(ctx context.Context, human *core.Human) error
	GetHuman(ctx context.Context, userID uuid.UUID, name string) (*core.Human, error)
	ListHumans(ctx context.Context, userID uuid.UUID) ([]core.Human, error)
	DeleteHuman(ctx context.Context, userID uuid.UUID, name string) error
	AddPersona(ctx context.Context, persona *core.Persona) error
	GetPersona(ctx context.Context, userID uuid.UUID, name string) (*core.Persona, error)
	ListPersonas(ctx context.Context, userID uuid.UUID) ([]core.Persona, error)
	DeletePersona(ctx context.Context, userID uuid.UUID, name string) error

	// Sources.
	CreateSource(ctx context.Context, source *core.Source) error
	GetSource(ctx context.Context, id uuid.UUID) (*core.Source, error)
	GetSourceByName(ctx context.Context, userID uuid.UUID, name string) (*core.Source, error)
	ListSources(ctx context.Context, userID uuid.UUID) ([]core.Source, error)
	DeleteSource(ctx context.Context, id uuid.UUID) error
	AttachSource(ctx context.Context, agentID, sourceID uuid.UUID) error
	DetachSource(ctx context.Context, agentID, sourceID uuid.UUID) error
	ListAttachedSources(ctx context.Context, agentID uuid.UUID) ([]core.Source, error)

	// Jobs.
	CreateJob(ctx context.Context, job *core.Job) error
	UpdateJob(ctx context.Context, job *core.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*core.Job, error)

	// Recall-memory records. AppendMessage assigns the record's Seq.
	AppendMessage(ctx context.Context, msg *core.Message) error
	MessagesPage(ctx context.Context, agentID uuid.UUID, before, after uuid.UUID, limit int) ([]core.Message, error)
	CountMessages(ctx context.Context, agentID uuid.UUID) (int, error)

	// Archival-memory records, with the same cursor semantics as messages.
	AppendPassage(ctx context.Context, p *core.Passage) error
	PassagesPage(ctx context.Context, agentID uuid.UUID, before, after uuid.UUID, limit int) ([]core.Passage, error)
	PassagesBySource(ctx context.Context, sourceID uuid.UUID) ([]core.Passage, error)
	DeletePassage(ctx context.Context, agentID, passageID uuid.UUID) error
	CountPassages(ctx context.Context, agentID uuid.UUID) (int, error)

	Close() error
}
