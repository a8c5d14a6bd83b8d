package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mnemos-ai/mnemos-go-sdk/archival"
	"github.com/mnemos-ai/mnemos-go-sdk/core"
	"github.com/mnemos-ai/mnemos-go-sdk/presets"
	"github.com/mnemos-ai/mnemos-go-sdk/runtime"
	"github.com/mnemos-ai/mnemos-go-sdk/store"
)

// historyWindow caps how much recall memory is replayed into a model turn;
// maxHistoryFetch bounds the read that window is cut from.
const (
	historyWindow   = 20
	maxHistoryFetch = 1000
)

// Server wires the metadata store, the archival index, and the model runtime
// behind the operation set both backends share.
type Server struct {
	store    store.Store
	index    *archival.Index
	embedder archival.Embedder
	rt       runtime.Runtime
	iface    *Interface

	defaultLLM       core.LLMConfig
	defaultEmbedding core.EmbeddingConfig
}

// Option configures the server.
type Option func(*Server)

// WithRuntime sets the model runtime.
func WithRuntime(rt runtime.Runtime) Option {
	return func(s *Server) {
		s.rt = rt
	}
}

// WithEmbedder sets the embedder used for archival inserts and ingestion.
func WithEmbedder(e archival.Embedder) Option {
	return func(s *Server) {
		s.embedder = e
	}
}

// WithDefaultLLMConfig sets the LLM config applied when an agent is created
// without an override.
func WithDefaultLLMConfig(cfg core.LLMConfig) Option {
	return func(s *Server) {
		s.defaultLLM = cfg
	}
}

// WithDefaultEmbeddingConfig sets the embedding config applied when an agent
// or source is created without an override.
func WithDefaultEmbeddingConfig(cfg core.EmbeddingConfig) Option {
	return func(s *Server) {
		s.defaultEmbedding = cfg
	}
}

// New creates a server over the given store. Without options it runs the
// deterministic hash embedder and the Anthropic runtime with environment
// credentials.
func New(st store.Store, iface *Interface, opts ...Option) *Server {
	s := &Server{
		store: st,
		index: archival.NewIndex(),
		iface: iface,
		defaultLLM: core.LLMConfig{
			Model:             "claude-sonnet-4-20250514",
			ModelEndpointType: "anthropic",
			ContextWindow:     8192,
		},
		defaultEmbedding: core.EmbeddingConfig{
			EmbeddingEndpointType: "local",
			EmbeddingModel:        "hash",
			EmbeddingDim:          384,
			EmbeddingChunkSize:    300,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.embedder == nil {
		s.embedder = archival.NewHashEmbedder(s.defaultEmbedding.EmbeddingDim)
	}
	if s.rt == nil {
		s.rt = runtime.NewAnthropic("")
	}
	return s
}

// Interface returns the server's queuing interface.
func (s *Server) Interface() *Interface {
	return s.iface
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}

// Users.

// UpsertUser ensures the user record exists: an existing record is written
// back (refreshed), a missing one is created.
func (s *Server) UpsertUser(ctx context.Context, userID uuid.UUID) (*core.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err == nil {
		if err := s.store.UpdateUser(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	u = &core.User{ID: userID}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	log.Printf("[SERVER] Created user %s", userID)
	return u, nil
}

func (s *Server) GetUser(ctx context.Context, userID uuid.UUID) (*core.User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *Server) CreateUser(ctx context.Context, user *core.User) error {
	return s.store.CreateUser(ctx, user)
}

// Agents.

// CreateAgentRequest carries agent creation inputs. Empty Preset resolves to
// the default preset name; Persona and Human resolve through the catalogs,
// falling back to the literal text when no catalog entry matches.
type CreateAgentRequest struct {
	Name            string
	Preset          string
	Persona         string
	Human           string
	LLMConfig       *core.LLMConfig
	EmbeddingConfig *core.EmbeddingConfig
}

func (s *Server) CreateAgent(ctx context.Context, userID uuid.UUID, req CreateAgentRequest) (*core.AgentState, error) {
	name := req.Name
	if name == "" {
		name = "agent_" + uuid.NewString()[:8]
	}

	presetName := req.Preset
	if presetName == "" {
		presetName = presets.DefaultPresetName
	}
	preset, err := s.store.GetPresetByName(ctx, userID, presetName)
	if err != nil {
		return nil, fmt.Errorf("resolve preset %q: %w", presetName, err)
	}

	persona, err := s.resolvePersona(ctx, userID, req.Persona, preset)
	if err != nil {
		return nil, err
	}
	human, err := s.resolveHuman(ctx, userID, req.Human, preset)
	if err != nil {
		return nil, err
	}

	llm := s.defaultLLM
	if req.LLMConfig != nil {
		llm = *req.LLMConfig
	}
	embedding := s.defaultEmbedding
	if req.EmbeddingConfig != nil {
		embedding = *req.EmbeddingConfig
	}

	state := &core.AgentState{
		ID:              uuid.New(),
		Name:            name,
		UserID:          userID,
		Preset:          preset.Name,
		Persona:         persona,
		Human:           human,
		LLMConfig:       llm,
		EmbeddingConfig: embedding,
		State: map[string]any{
			"system":    preset.System,
			"functions": preset.FunctionsSchema,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAgent(ctx, state); err != nil {
		return nil, err
	}
	log.Printf("[SERVER] Created agent %s (%s) for user %s", state.Name, state.ID, userID)
	return state.Clone(), nil
}

func (s *Server) resolvePersona(ctx context.Context, userID uuid.UUID, name string, preset *core.Preset) (string, error) {
	if name == "" {
		if preset.Persona != "" {
			return preset.Persona, nil
		}
		name = presets.DefaultPersonaName
	}
	if p, err := s.store.GetPersona(ctx, userID, name); err == nil {
		return p.Text, nil
	} else if !isNotFound(err) {
		return "", err
	}
	// Not a catalog entry; treat the value as literal persona text.
	return name, nil
}

func (s *Server) resolveHuman(ctx context.Context, userID uuid.UUID, name string, preset *core.Preset) (string, error) {
	if name == "" {
		if preset.Human != "" {
			return preset.Human, nil
		}
		name = presets.DefaultHumanName
	}
	if h, err := s.store.GetHuman(ctx, userID, name); err == nil {
		return h.Text, nil
	} else if !isNotFound(err) {
		return "", err
	}
	return name, nil
}

func (s *Server) GetAgent(ctx context.Context, userID, agentID uuid.UUID) (*core.AgentState, error) {
	state, err := s.ownedAgent(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

func (s *Server) GetAgentByName(ctx context.Context, userID uuid.UUID, name string) (*core.AgentState, error) {
	state, err := s.store.GetAgentByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

func (s *Server) ListAgents(ctx context.Context, userID uuid.UUID) ([]core.AgentState, error) {
	agents, err := s.store.ListAgents(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]core.AgentState, len(agents))
	for i := range agents {
		out[i] = *agents[i].Clone()
	}
	return out, nil
}

func (s *Server) RenameAgent(ctx context.Context, userID, agentID uuid.UUID, newName string) (*core.AgentState, error) {
	if newName == "" {
		return nil, fmt.Errorf("rename agent: empty name")
	}
	state, err := s.ownedAgent(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}
	state.Name = newName
	if err := s.store.UpdateAgent(ctx, state); err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

func (s *Server) UpdateAgent(ctx context.Context, userID uuid.UUID, state *core.AgentState) error {
	if _, err := s.ownedAgent(ctx, userID, state.ID); err != nil {
		return err
	}
	return s.store.UpdateAgent(ctx, state.Clone())
}

func (s *Server) DeleteAgent(ctx context.Context, userID, agentID uuid.UUID) error {
	if _, err := s.ownedAgent(ctx, userID, agentID); err != nil {
		return err
	}
	if err := s.index.Drop(ctx, agentID); err != nil {
		return err
	}
	if err := s.store.DeleteAgent(ctx, agentID); err != nil {
		return err
	}
	log.Printf("[SERVER] Deleted agent %s", agentID)
	return nil
}

func (s *Server) ownedAgent(ctx context.Context, userID, agentID uuid.UUID) (*core.AgentState, error) {
	state, err := s.store.GetAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if state.UserID != userID {
		return nil, store.ErrNotFound
	}
	return state, nil
}

// Presets.

func (s *Server) GetPreset(ctx context.Context, userID uuid.UUID, name string) (*core.Preset, error) {
	if name == "" {
		name = presets.DefaultPresetName
	}
	return s.store.GetPresetByName(ctx, userID, name)
}

func (s *Server) CreatePreset(ctx context.Context, userID uuid.UUID, preset core.Preset) (*core.Preset, error) {
	if preset.ID == uuid.Nil {
		preset.ID = uuid.New()
	}
	preset.UserID = userID
	if preset.CreatedAt.IsZero() {
		preset.CreatedAt = time.Now().UTC()
	}
	if err := s.store.CreatePreset(ctx, &preset); err != nil {
		return nil, err
	}
	return &preset, nil
}

func (s *Server) ListPresets(ctx context.Context, userID uuid.UUID) ([]core.Preset, error) {
	return s.store.ListPresets(ctx, userID)
}

func (s *Server) DeletePreset(ctx context.Context, userID, presetID uuid.UUID) error {
	p, err := s.store.GetPreset(ctx, presetID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return store.ErrNotFound
	}
	return s.store.DeletePreset(ctx, presetID)
}

// AddDefaultPresets loads the shipped preset, persona, and human catalog for
// the user. Entries that already exist are left alone.
func (s *Server) AddDefaultPresets(ctx context.Context, userID uuid.UUID) error {
	return presets.AddDefaults(ctx, s.store, userID)
}

// Core memory.

func (s *Server) GetAgentMemory(ctx context.Context, userID, agentID uuid.UUID) (*core.MemorySummary, error) {
	state, err := s.ownedAgent(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}
	recall, err := s.store.CountMessages(ctx, agentID)
	if err != nil {
		return nil, err
	}
	archivalCount, err := s.store.CountPassages(ctx, agentID)
	if err != nil {
		return nil, err
	}
	attached, err := s.store.ListAttachedSources(ctx, agentID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(attached))
	for _, src := range attached {
		names = append(names, src.Name)
	}
	return &core.MemorySummary{
		Core:            core.CoreMemory{Persona: state.Persona, Human: state.Human},
		RecallCount:     recall,
		ArchivalCount:   archivalCount,
		AttachedSources: names,
	}, nil
}

// UpdateCoreMemory replaces the persona and/or human sections. Empty fields
// leave the existing section untouched. It returns the memory before and
// after the edit.
func (s *Server) UpdateCoreMemory(ctx context.Context, userID, agentID uuid.UUID, mem core.CoreMemory) (old, updated core.CoreMemory, err error) {
	state, err := s.ownedAgent(ctx, userID, agentID)
	if err != nil {
		return core.CoreMemory{}, core.CoreMemory{}, err
	}
	old = core.CoreMemory{Persona: state.Persona, Human: state.Human}
	if mem.Persona != "" {
		state.Persona = mem.Persona
	}
	if mem.Human != "" {
		state.Human = mem.Human
	}
	if err := s.store.UpdateAgent(ctx, state); err != nil {
		return core.CoreMemory{}, core.CoreMemory{}, err
	}
	return old, core.CoreMemory{Persona: state.Persona, Human: state.Human}, nil
}

// Archival memory.

func (s *Server) GetArchivalMemory(ctx context.Context, userID, agentID, before, after uuid.UUID, limit int) ([]core.Passage, error) {
	if _, err := s.ownedAgent(ctx, userID, agentID); err != nil {
		return nil, err
	}
	return s.store.PassagesPage(ctx, agentID, before, after, limit)
}

// InsertArchivalMemory chunks the content, embeds each chunk, and records it
// in both the metadata store and the vector index. It returns the new
// passage ids in insertion order.
func (s *Server) InsertArchivalMemory(ctx context.Context, userID, agentID uuid.UUID, content string) ([]uuid.UUID, error) {
	state, err := s.ownedAgent(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}
	chunks := chunkText(content, state.EmbeddingConfig.EmbeddingChunkSize)
	ids := make([]uuid.UUID, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed passage: %w", err)
		}
		p := &core.Passage{
			ID:        uuid.New(),
			AgentID:   agentID,
			UserID:    userID,
			Text:      chunk,
			Embedding: embedding,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.AppendPassage(ctx, p); err != nil {
			return nil, err
		}
		if err := s.index.Add(ctx, p); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (s *Server) DeleteArchivalMemory(ctx context.Context, userID, agentID, passageID uuid.UUID) error {
	if _, err := s.ownedAgent(ctx, userID, agentID); err != nil {
		return err
	}
	if err := s.index.Delete(ctx, agentID, passageID); err != nil {
		return err
	}
	return s.store.DeletePassage(ctx, agentID, passageID)
}

// SearchArchivalMemory retrieves passages by similarity to the query text.
func (s *Server) SearchArchivalMemory(ctx context.Context, userID, agentID uuid.UUID, query string, limit int) ([]archival.Hit, error) {
	if _, err := s.ownedAgent(ctx, userID, agentID); err != nil {
		return nil, err
	}
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.index.Search(ctx, agentID, embedding, limit)
}

// Recall memory and interaction.

func (s *Server) GetMessages(ctx context.Context, userID, agentID, before, after uuid.UUID, limit int) ([]core.Message, error) {
	if _, err := s.ownedAgent(ctx, userID, agentID); err != nil {
		return nil, err
	}
	return s.store.MessagesPage(ctx, agentID, before, after, limit)
}

// SendMessage runs one agent turn: the incoming message is persisted, the
// runtime produces the assistant side, and every emitted message is queued
// on the interface and persisted to recall memory.
func (s *Server) SendMessage(ctx context.Context, userID, agentID uuid.UUID, message, role string, stream func(chunk string, done bool)) error {
	if role == "" {
		role = "user"
	}
	if role != "user" && role != "system" {
		return fmt.Errorf("send message: unsupported role %q", role)
	}
	state, err := s.ownedAgent(ctx, userID, agentID)
	if err != nil {
		return err
	}

	history, err := s.recentHistory(ctx, agentID)
	if err != nil {
		return err
	}

	in := &core.Message{
		ID:        uuid.New(),
		AgentID:   agentID,
		UserID:    userID,
		Role:      role,
		Text:      message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AppendMessage(ctx, in); err != nil {
		return err
	}
	if role == "user" {
		s.iface.UserMessage(message)
	}

	resp, err := s.rt.Step(ctx, &runtime.Request{
		Agent:          state,
		System:         systemPrompt(state),
		History:        history,
		Role:           role,
		Text:           message,
		StreamCallback: stream,
	})
	if err != nil {
		return err
	}

	for i, m := range resp.Messages {
		out := &core.Message{
			ID:        uuid.New(),
			AgentID:   agentID,
			UserID:    userID,
			Role:      m.Role,
			Name:      m.Name,
			Text:      m.Text,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.AppendMessage(ctx, out); err != nil {
			return err
		}
		// Intermediate turns are reasoning; only the final one addresses
		// the user.
		if i < len(resp.Messages)-1 {
			s.iface.InternalMonologue(m.Text)
		} else {
			s.iface.AssistantMessage(m.Text)
		}
	}
	return nil
}

// RunCommand executes an agent command. Slash commands are handled by the
// server; anything else is forwarded to the runtime as a system message.
func (s *Server) RunCommand(ctx context.Context, userID, agentID uuid.UUID, command string) (string, error) {
	cmd := strings.TrimPrefix(strings.TrimSpace(command), "/")
	if query, ok := strings.CutPrefix(cmd, "search "); ok {
		return s.runSearch(ctx, userID, agentID, strings.TrimSpace(query))
	}
	switch cmd {
	case "memory":
		summary, err := s.GetAgentMemory(ctx, userID, agentID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"Core memory:\n=== Persona ===\n%s\n=== Human ===\n%s\nRecall memory: %d messages\nArchival memory: %d passages\nAttached sources: %s",
			summary.Core.Persona, summary.Core.Human,
			summary.RecallCount, summary.ArchivalCount,
			strings.Join(summary.AttachedSources, ", "),
		), nil
	case "save":
		// Store writes are synchronous; nothing is buffered.
		return "saved", nil
	default:
		state, err := s.ownedAgent(ctx, userID, agentID)
		if err != nil {
			return "", err
		}
		history, err := s.recentHistory(ctx, agentID)
		if err != nil {
			return "", err
		}
		resp, err := s.rt.Step(ctx, &runtime.Request{
			Agent:   state,
			System:  systemPrompt(state),
			History: history,
			Role:    "system",
			Text:    command,
		})
		if err != nil {
			return "", err
		}
		var text string
		for _, m := range resp.Messages {
			text += m.Text
		}
		return text, nil
	}
}

// searchResultLimit caps the passages a /search command reports.
const searchResultLimit = 10

func (s *Server) runSearch(ctx context.Context, userID, agentID uuid.UUID, query string) (string, error) {
	if query == "" {
		return "", fmt.Errorf("run command: search needs a query")
	}
	hits, err := s.SearchArchivalMemory(ctx, userID, agentID, query, searchResultLimit)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "No archival memory matched the query.", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Archival memory search, %d results:", len(hits))
	for i, h := range hits {
		fmt.Fprintf(&b, "\n%d. %s", i+1, h.Passage.Text)
	}
	return b.String(), nil
}

func (s *Server) recentHistory(ctx context.Context, agentID uuid.UUID) ([]core.Message, error) {
	msgs, err := s.store.MessagesPage(ctx, agentID, uuid.Nil, uuid.Nil, maxHistoryFetch)
	if err != nil {
		return nil, err
	}
	if len(msgs) > historyWindow {
		msgs = msgs[len(msgs)-historyWindow:]
	}
	return msgs, nil
}

func systemPrompt(state *core.AgentState) string {
	system, _ := state.State["system"].(string)
	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\n### Persona\n")
	b.WriteString(state.Persona)
	b.WriteString("\n\n### Human\n")
	b.WriteString(state.Human)
	return b.String()
}

// Humans and personas.

func (s *Server) ListHumans(ctx context.Context, userID uuid.UUID) ([]core.Human, error) {
	return s.store.ListHumans(ctx, userID)
}

func (s *Server) GetHuman(ctx context.Context, userID uuid.UUID, name string) (*core.Human, error) {
	return s.store.GetHuman(ctx, userID, name)
}

func (s *Server) AddHuman(ctx context.Context, userID uuid.UUID, name, text string) (*core.Human, error) {
	h := &core.Human{ID: uuid.New(), UserID: userID, Name: name, Text: text}
	if err := s.store.AddHuman(ctx, h); err != nil {
		return nil, err
	}
	return s.store.GetHuman(ctx, userID, name)
}

func (s *Server) DeleteHuman(ctx context.Context, userID uuid.UUID, name string) error {
	return s.store.DeleteHuman(ctx, userID, name)
}

func (s *Server) ListPersonas(ctx context.Context, userID uuid.UUID) ([]core.Persona, error) {
	return s.store.ListPersonas(ctx, userID)
}

func (s *Server) GetPersona(ctx context.Context, userID uuid.UUID, name string) (*core.Persona, error) {
	return s.store.GetPersona(ctx, userID, name)
}

func (s *Server) AddPersona(ctx context.Context, userID uuid.UUID, name, text string) (*core.Persona, error) {
	p := &core.Persona{ID: uuid.New(), UserID: userID, Name: name, Text: text}
	if err := s.store.AddPersona(ctx, p); err != nil {
		return nil, err
	}
	return s.store.GetPersona(ctx, userID, name)
}

func (s *Server) DeletePersona(ctx context.Context, userID uuid.UUID, name string) error {
	return s.store.DeletePersona(ctx, userID, name)
}

// Sources.

func (s *Server) ListSources(ctx context.Context, userID uuid.UUID) ([]core.Source, error) {
	return s.store.ListSources(ctx, userID)
}

func (s *Server) CreateSource(ctx context.Context, userID uuid.UUID, name, description string) (*core.Source, error) {
	src := &core.Source{
		ID:                 uuid.New(),
		UserID:             userID,
		Name:               name,
		Description:        description,
		EmbeddingModel:     s.defaultEmbedding.EmbeddingModel,
		EmbeddingDim:       s.defaultEmbedding.EmbeddingDim,
		EmbeddingChunkSize: s.defaultEmbedding.EmbeddingChunkSize,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.store.CreateSource(ctx, src); err != nil {
		return nil, err
	}
	return src, nil
}

func (s *Server) GetSourceByName(ctx context.Context, userID uuid.UUID, name string) (*core.Source, error) {
	return s.store.GetSourceByName(ctx, userID, name)
}

func (s *Server) DeleteSource(ctx context.Context, userID, sourceID uuid.UUID) error {
	src, err := s.store.GetSource(ctx, sourceID)
	if err != nil {
		return err
	}
	if src.UserID != userID {
		return store.ErrNotFound
	}
	return s.store.DeleteSource(ctx, sourceID)
}

// AttachSource links the source to the agent and copies its ingested
// passages into the agent's archival memory.
func (s *Server) AttachSource(ctx context.Context, userID, agentID, sourceID uuid.UUID) error {
	if _, err := s.ownedAgent(ctx, userID, agentID); err != nil {
		return err
	}
	src, err := s.store.GetSource(ctx, sourceID)
	if err != nil {
		return err
	}
	if src.UserID != userID {
		return store.ErrNotFound
	}
	if err := s.store.AttachSource(ctx, agentID, sourceID); err != nil {
		return err
	}

	passages, err := s.store.PassagesBySource(ctx, sourceID)
	if err != nil {
		return err
	}
	for i := range passages {
		p := &core.Passage{
			ID:        uuid.New(),
			AgentID:   agentID,
			SourceID:  sourceID,
			UserID:    userID,
			Text:      passages[i].Text,
			Embedding: passages[i].Embedding,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.AppendPassage(ctx, p); err != nil {
			return err
		}
		if err := s.index.Add(ctx, p); err != nil {
			return err
		}
	}
	log.Printf("[SERVER] Attached source %s to agent %s (%d passages)",
		src.Name, agentID, len(passages))
	return nil
}

func (s *Server) DetachSource(ctx context.Context, userID, agentID, sourceID uuid.UUID) error {
	if _, err := s.ownedAgent(ctx, userID, agentID); err != nil {
		return err
	}
	return s.store.DetachSource(ctx, agentID, sourceID)
}

// Jobs.

func (s *Server) GetJob(ctx context.Context, jobID uuid.UUID) (*core.Job, error) {
	return s.store.GetJob(ctx, jobID)
}

// Introspection.

func (s *Server) ListModels(ctx context.Context) ([]core.LLMConfig, error) {
	return []core.LLMConfig{s.defaultLLM}, nil
}

func (s *Server) Config(ctx context.Context) (map[string]any, error) {
	return map[string]any{
		"default_llm_config": map[string]any{
			"model":               s.defaultLLM.Model,
			"model_endpoint_type": s.defaultLLM.ModelEndpointType,
			"context_window":      s.defaultLLM.ContextWindow,
		},
		"default_embedding_config": map[string]any{
			"embedding_endpoint_type": s.defaultEmbedding.EmbeddingEndpointType,
			"embedding_model":         s.defaultEmbedding.EmbeddingModel,
			"embedding_dim":           s.defaultEmbedding.EmbeddingDim,
		},
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
