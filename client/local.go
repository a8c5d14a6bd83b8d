package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mnemos-ai/mnemos-go-sdk/archival"
	"github.com/mnemos-ai/mnemos-go-sdk/config"
	"github.com/mnemos-ai/mnemos-go-sdk/core"
	"github.com/mnemos-ai/mnemos-go-sdk/runtime"
	"github.com/mnemos-ai/mnemos-go-sdk/server"
	"github.com/mnemos-ai/mnemos-go-sdk/store"
)

// LocalClient runs an embedded server in-process. Every operation follows
// the same shape: clear the queuing interface, invoke the server, drain the
// queued frames. Construction is idempotent against the same store and user
// id: user upsert and default-preset loading skip records that exist.
type LocalClient struct {
	userID uuid.UUID
	srv    *server.Server
	iface  *server.Interface
	poll   time.Duration
}

type localOptions struct {
	configPath string
	cfg        *config.Config
	userID     uuid.UUID
	store      store.Store
	rt         runtime.Runtime
	embedder   archival.Embedder
	poll       time.Duration
}

// LocalOption configures the local backend.
type LocalOption func(*localOptions)

// WithConfig supplies a configuration instead of loading one from disk.
func WithConfig(cfg *config.Config) LocalOption {
	return func(o *localOptions) {
		o.cfg = cfg
	}
}

// WithConfigPath loads configuration from the given TOML file.
func WithConfigPath(path string) LocalOption {
	return func(o *localOptions) {
		o.configPath = path
	}
}

// WithUserID runs the client as the given user instead of the configured
// anonymous id.
func WithUserID(id uuid.UUID) LocalOption {
	return func(o *localOptions) {
		o.userID = id
	}
}

// WithStore supplies a metadata store, bypassing the configured SQLite path.
func WithStore(st store.Store) LocalOption {
	return func(o *localOptions) {
		o.store = st
	}
}

// WithLocalRuntime replaces the embedded server's model runtime.
func WithLocalRuntime(rt runtime.Runtime) LocalOption {
	return func(o *localOptions) {
		o.rt = rt
	}
}

// WithLocalEmbedder replaces the embedder used for archival memory.
func WithLocalEmbedder(e archival.Embedder) LocalOption {
	return func(o *localOptions) {
		o.embedder = e
	}
}

// WithLocalPollInterval sets the sleep between job polls in blocking mode.
func WithLocalPollInterval(d time.Duration) LocalOption {
	return func(o *localOptions) {
		o.poll = d
	}
}

// NewLocalClient builds the embedded server and ensures the user record and
// the default preset catalog exist.
func NewLocalClient(ctx context.Context, opts ...LocalOption) (*LocalClient, error) {
	var o localOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.cfg
	if cfg == nil {
		path := o.configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	userID := o.userID
	if userID == uuid.Nil {
		var err error
		userID, err = uuid.Parse(cfg.AnonClientID)
		if err != nil {
			return nil, fmt.Errorf("parse anon client id: %w", err)
		}
	}

	st := o.store
	if st == nil {
		if cfg.StorePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
				return nil, fmt.Errorf("create store directory: %w", err)
			}
		}
		var err error
		st, err = store.NewSQLiteStore(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
	}

	iface := server.NewInterface()
	srvOpts := []server.Option{
		server.WithDefaultLLMConfig(cfg.LLMConfig()),
		server.WithDefaultEmbeddingConfig(cfg.EmbeddingConfig()),
	}
	if o.rt != nil {
		srvOpts = append(srvOpts, server.WithRuntime(o.rt))
	}
	if o.embedder != nil {
		srvOpts = append(srvOpts, server.WithEmbedder(o.embedder))
	}
	srv := server.New(st, iface, srvOpts...)

	if _, err := srv.UpsertUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := srv.AddDefaultPresets(ctx, userID); err != nil {
		return nil, err
	}

	return &LocalClient{userID: userID, srv: srv, iface: iface, poll: o.poll}, nil
}

// UserID returns the user the client operates as.
func (c *LocalClient) UserID() uuid.UUID {
	return c.userID
}

// Agent lifecycle.

func (c *LocalClient) ListAgents(ctx context.Context) ([]core.AgentState, error) {
	return c.srv.ListAgents(ctx, c.userID)
}

func (c *LocalClient) AgentExists(ctx context.Context, agentID uuid.UUID, agentName string) (bool, error) {
	if err := validateExactlyOne(agentID, agentName); err != nil {
		return false, err
	}
	var err error
	if agentID != uuid.Nil {
		_, err = c.srv.GetAgent(ctx, c.userID, agentID)
	} else {
		_, err = c.srv.GetAgentByName(ctx, c.userID, agentName)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *LocalClient) CreateAgent(ctx context.Context, params CreateAgentParams) (*core.AgentState, error) {
	// Unlike the remote backend, config overrides are honored here; the
	// embedded server owns its own model configuration.
	return c.srv.CreateAgent(ctx, c.userID, server.CreateAgentRequest{
		Name:            params.Name,
		Preset:          params.Preset,
		Persona:         params.Persona,
		Human:           params.Human,
		LLMConfig:       params.LLMConfig,
		EmbeddingConfig: params.EmbeddingConfig,
	})
}

func (c *LocalClient) RenameAgent(ctx context.Context, agentID uuid.UUID, newName string) (*core.AgentState, error) {
	return c.srv.RenameAgent(ctx, c.userID, agentID, newName)
}

func (c *LocalClient) DeleteAgent(ctx context.Context, agentID uuid.UUID, agentName string) error {
	if err := validateExactlyOne(agentID, agentName); err != nil {
		return err
	}
	if agentID == uuid.Nil {
		state, err := c.srv.GetAgentByName(ctx, c.userID, agentName)
		if err != nil {
			return err
		}
		agentID = state.ID
	}
	return c.srv.DeleteAgent(ctx, c.userID, agentID)
}

func (c *LocalClient) GetAgentConfig(ctx context.Context, agentID uuid.UUID, agentName string) (*core.AgentState, error) {
	if err := validateExactlyOne(agentID, agentName); err != nil {
		return nil, err
	}
	if agentID != uuid.Nil {
		return c.srv.GetAgent(ctx, c.userID, agentID)
	}
	return c.srv.GetAgentByName(ctx, c.userID, agentName)
}

func (c *LocalClient) UpdateAgent(ctx context.Context, state *core.AgentState) error {
	return c.srv.UpdateAgent(ctx, c.userID, state)
}

func (c *LocalClient) SaveAgent(ctx context.Context, state *core.AgentState) error {
	return c.srv.UpdateAgent(ctx, c.userID, state)
}

// Users.

func (c *LocalClient) GetUser(ctx context.Context, userID uuid.UUID) (*core.User, error) {
	return c.srv.GetUser(ctx, userID)
}

func (c *LocalClient) CreateUser(ctx context.Context, user core.User) error {
	return c.srv.CreateUser(ctx, &user)
}

// Presets.

func (c *LocalClient) GetPreset(ctx context.Context, name string) (*core.Preset, error) {
	return c.srv.GetPreset(ctx, c.userID, name)
}

func (c *LocalClient) CreatePreset(ctx context.Context, preset core.Preset) (*core.Preset, error) {
	return c.srv.CreatePreset(ctx, c.userID, preset)
}

func (c *LocalClient) DeletePreset(ctx context.Context, presetID uuid.UUID) error {
	return c.srv.DeletePreset(ctx, c.userID, presetID)
}

func (c *LocalClient) ListPresets(ctx context.Context) ([]core.Preset, error) {
	return c.srv.ListPresets(ctx, c.userID)
}

func (c *LocalClient) AddDefaultPresets(ctx context.Context) error {
	return c.srv.AddDefaultPresets(ctx, c.userID)
}

// Core memory.

func (c *LocalClient) GetAgentMemory(ctx context.Context, agentID uuid.UUID) (*core.MemorySummary, error) {
	return c.srv.GetAgentMemory(ctx, c.userID, agentID)
}

func (c *LocalClient) UpdateAgentCoreMemory(ctx context.Context, agentID uuid.UUID, mem core.CoreMemory) (*core.CoreMemory, error) {
	_, updated, err := c.srv.UpdateCoreMemory(ctx, c.userID, agentID, mem)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Archival memory.

func (c *LocalClient) GetArchivalMemory(ctx context.Context, agentID uuid.UUID, page Page) ([]core.Passage, error) {
	return c.srv.GetArchivalMemory(ctx, c.userID, agentID, page.Before, page.After, page.limit())
}

func (c *LocalClient) InsertArchivalMemory(ctx context.Context, agentID uuid.UUID, memory string) ([]uuid.UUID, error) {
	return c.srv.InsertArchivalMemory(ctx, c.userID, agentID, memory)
}

func (c *LocalClient) DeleteArchivalMemory(ctx context.Context, agentID, memoryID uuid.UUID) error {
	return c.srv.DeleteArchivalMemory(ctx, c.userID, agentID, memoryID)
}

// Recall memory and interaction.

// GetMessages is a remote-only read; the embedded server exposes recall
// memory through GetAgentMemory counts and the interaction calls.
func (c *LocalClient) GetMessages(ctx context.Context, agentID uuid.UUID, page Page) ([]core.Message, error) {
	return nil, ErrNotImplemented
}

func (c *LocalClient) SendMessage(ctx context.Context, agentID uuid.UUID, message, role string) ([]map[string]any, error) {
	c.iface.Clear()
	if err := c.srv.SendMessage(ctx, c.userID, agentID, message, role, nil); err != nil {
		return nil, err
	}
	return c.iface.Drain(), nil
}

func (c *LocalClient) UserMessage(ctx context.Context, agentID uuid.UUID, message string) ([]map[string]any, error) {
	return c.SendMessage(ctx, agentID, message, "user")
}

func (c *LocalClient) StreamMessage(ctx context.Context, agentID uuid.UUID, message string, fn StreamFunc) error {
	c.iface.Clear()
	stream := func(chunk string, done bool) {
		if done {
			fn(map[string]any{"done": true})
			return
		}
		fn(map[string]any{"assistant_message": chunk})
	}
	if err := c.srv.SendMessage(ctx, c.userID, agentID, message, "user", stream); err != nil {
		return err
	}
	c.iface.Clear()
	return nil
}

func (c *LocalClient) RunCommand(ctx context.Context, agentID uuid.UUID, command string) (string, error) {
	c.iface.Clear()
	defer c.iface.Clear()
	return c.srv.RunCommand(ctx, c.userID, agentID, command)
}

// Humans and personas.

func (c *LocalClient) ListHumans(ctx context.Context) ([]core.Human, error) {
	return c.srv.ListHumans(ctx, c.userID)
}

func (c *LocalClient) GetHuman(ctx context.Context, name string) (*core.Human, error) {
	return c.srv.GetHuman(ctx, c.userID, name)
}

func (c *LocalClient) AddHuman(ctx context.Context, name, text string) (*core.Human, error) {
	return c.srv.AddHuman(ctx, c.userID, name, text)
}

func (c *LocalClient) UpdateHuman(ctx context.Context, name, text string) (*core.Human, error) {
	return c.srv.AddHuman(ctx, c.userID, name, text)
}

func (c *LocalClient) DeleteHuman(ctx context.Context, name string) error {
	return c.srv.DeleteHuman(ctx, c.userID, name)
}

func (c *LocalClient) ListPersonas(ctx context.Context) ([]core.Persona, error) {
	return c.srv.ListPersonas(ctx, c.userID)
}

func (c *LocalClient) GetPersona(ctx context.Context, name string) (*core.Persona, error) {
	return c.srv.GetPersona(ctx, c.userID, name)
}

func (c *LocalClient) AddPersona(ctx context.Context, name, text string) (*core.Persona, error) {
	return c.srv.AddPersona(ctx, c.userID, name, text)
}

func (c *LocalClient) UpdatePersona(ctx context.Context, name, text string) (*core.Persona, error) {
	return c.srv.AddPersona(ctx, c.userID, name, text)
}

func (c *LocalClient) DeletePersona(ctx context.Context, name string) error {
	return c.srv.DeletePersona(ctx, c.userID, name)
}

// Sources and ingestion.

func (c *LocalClient) ListSources(ctx context.Context) ([]core.Source, error) {
	return c.srv.ListSources(ctx, c.userID)
}

func (c *LocalClient) CreateSource(ctx context.Context, name, description string) (*core.Source, error) {
	return c.srv.CreateSource(ctx, c.userID, name, description)
}

func (c *LocalClient) DeleteSource(ctx context.Context, sourceID uuid.UUID, sourceName string) error {
	if err := validateExactlyOne(sourceID, sourceName); err != nil {
		return err
	}
	if sourceID == uuid.Nil {
		src, err := c.srv.GetSourceByName(ctx, c.userID, sourceName)
		if err != nil {
			return err
		}
		sourceID = src.ID
	}
	return c.srv.DeleteSource(ctx, c.userID, sourceID)
}

func (c *LocalClient) AttachSourceToAgent(ctx context.Context, agentID, sourceID uuid.UUID, sourceName string) error {
	if err := validateExactlyOne(sourceID, sourceName); err != nil {
		return err
	}
	if sourceID == uuid.Nil {
		src, err := c.srv.GetSourceByName(ctx, c.userID, sourceName)
		if err != nil {
			return err
		}
		sourceID = src.ID
	}
	return c.srv.AttachSource(ctx, c.userID, agentID, sourceID)
}

func (c *LocalClient) DetachSource(ctx context.Context, agentID, sourceID uuid.UUID) error {
	return c.srv.DetachSource(ctx, c.userID, agentID, sourceID)
}

func (c *LocalClient) LoadFileIntoSource(ctx context.Context, filename string, sourceID uuid.UUID, blocking bool) (*core.Job, error) {
	job, err := c.srv.LoadFile(ctx, c.userID, sourceID, filename)
	if err != nil {
		return nil, err
	}
	if !blocking {
		return job, nil
	}
	return newPoller(c.GetJobStatus, c.poll).wait(ctx, job)
}

func (c *LocalClient) GetJobStatus(ctx context.Context, jobID uuid.UUID) (*core.Job, error) {
	return c.srv.GetJob(ctx, jobID)
}

// Introspection.

func (c *LocalClient) ListModels(ctx context.Context) ([]core.LLMConfig, error) {
	return c.srv.ListModels(ctx)
}

func (c *LocalClient) GetServerConfig(ctx context.Context) (map[string]any, error) {
	return c.srv.Config(ctx)
}

// Save is a no-op flush: the embedded server writes through to the store on
// every operation.
func (c *LocalClient) Save(ctx context.Context) error {
	return nil
}

func (c *LocalClient) Close() error {
	return c.srv.Close()
}

var _ Client = (*LocalClient)(nil)
