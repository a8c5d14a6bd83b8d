package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
	"github.com/mnemos-ai/mnemos-go-sdk/wire"
)

// RemoteClient implements Client against a Mnemos server over HTTP. Every
// request carries the bearer token; every response body is decoded into a
// typed wire model and routed through the wire adapter before anything is
// returned. Calls are synchronous: each suspends the caller until a
// response or transport error arrives.
//
// GET-shaped operations are safe to retry. Mutating operations are not
// guaranteed idempotent by this layer; retries are the caller's
// responsibility.
type RemoteClient struct {
	baseURL string
	token   string
	http    *http.Client
	poll    time.Duration
	cache   *agentCache
}

// RemoteOption configures a RemoteClient.
type RemoteOption func(*RemoteClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) RemoteOption {
	return func(c *RemoteClient) {
		c.http = h
	}
}

// WithPollInterval sets the sleep between job status queries during
// blocking ingestion waits.
func WithPollInterval(d time.Duration) RemoteOption {
	return func(c *RemoteClient) {
		c.poll = d
	}
}

// WithAgentConfigCache enables a read-through cache for agent config GETs.
// The cache is invalidated on rename, update, save, and delete.
func WithAgentConfigCache() RemoteOption {
	return func(c *RemoteClient) {
		cache, err := newAgentCache()
		if err == nil {
			c.cache = cache
		}
	}
}

// NewRemoteClient creates a client for the server at baseURL, attaching
// token as a bearer credential to every request.
func NewRemoteClient(baseURL string, token string, opts ...RemoteOption) (*RemoteClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL required", ErrInvalidArguments)
	}
	c := &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		poll:    DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do issues one request and decodes the response body into out when the
// status is 200. Any other status yields a RemoteError carrying the raw
// body; out is never partially populated on failure.
func (c *RemoteClient) do(ctx context.Context, op, method, path string, query url.Values, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return resp.StatusCode, nil
}

// Agent lifecycle.

func (c *RemoteClient) ListAgents(ctx context.Context) ([]core.AgentState, error) {
	var resp wire.ListAgentsResponse
	if _, err := c.do(ctx, "list agents", http.MethodGet, "/api/agents", nil, nil, &resp); err != nil {
		return nil, err
	}
	agents := make([]core.AgentState, 0, len(resp.Agents))
	for _, m := range resp.Agents {
		state, err := wire.AgentStateToDomain(m)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *state)
	}
	return agents, nil
}

func (c *RemoteClient) AgentExists(ctx context.Context, agentID uuid.UUID, agentName string) (bool, error) {
	if err := validateExactlyOne(agentID, agentName); err != nil {
		return false, err
	}
	// The server resolves both lookups through the same config endpoint;
	// a 404 is a valid negative answer, not an error.
	query := url.Values{}
	if agentID != uuid.Nil {
		query.Set("agent_id", agentID.String())
	} else {
		query.Set("agent_name", agentName)
	}
	status, err := c.do(ctx, "agent exists", http.MethodGet, "/api/agents/config", query, nil, nil)
	if status == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *RemoteClient) CreateAgent(ctx context.Context, params CreateAgentParams) (*core.AgentState, error) {
	if params.EmbeddingConfig != nil || params.LLMConfig != nil {
		// Model configs are fixed server-side for the remote backend.
		// Reject before any network call.
		return nil, fmt.Errorf("%w: embedding_config and llm_config are fixed server-side", ErrUnsupportedOverride)
	}
	req := wire.CreateAgentRequest{
		Config: wire.AgentConfigRequest{
			Name:    params.Name,
			Preset:  params.Preset,
			Persona: params.Persona,
			Human:   params.Human,
		},
	}
	var resp wire.CreateAgentResponse
	if _, err := c.do(ctx, "create agent", http.MethodPost, "/api/agents/create", nil, req, &resp); err != nil {
		return nil, err
	}
	return wire.AgentStateToDomain(resp.AgentState)
}

func (c *RemoteClient) RenameAgent(ctx context.Context, agentID uuid.UUID, newName string) (*core.AgentState, error) {
	req := wire.RenameAgentRequest{AgentName: newName}
	var resp wire.GetAgentResponse
	path := fmt.Sprintf("/api/agents/%s/rename", agentID)
	if _, err := c.do(ctx, "rename agent", http.MethodPatch, path, nil, req, &resp); err != nil {
		return nil, err
	}
	c.cacheEvict(agentID)
	return wire.AgentStateToDomain(resp.AgentState)
}

func (c *RemoteClient) DeleteAgent(ctx context.Context, agentID uuid.UUID, agentName string) error {
	req := wire.DeleteAgentRequest{AgentName: agentName}
	if agentID != uuid.Nil {
		req.AgentID = agentID.String()
	}
	if _, err := c.do(ctx, "delete agent", http.MethodDelete, "/api/agents/delete", nil, req, nil); err != nil {
		return err
	}
	c.cacheEvict(agentID)
	return nil
}

func (c *RemoteClient) GetAgentConfig(ctx context.Context, agentID uuid.UUID, agentName string) (*core.AgentState, error) {
	if state, ok := c.cacheGet(agentID); ok {
		return state, nil
	}
	query := url.Values{}
	if agentID != uuid.Nil {
		query.Set("agent_id", agentID.String())
	}
	if agentName != "" {
		query.Set("agent_name", agentName)
	}
	var resp wire.GetAgentResponse
	if _, err := c.do(ctx, "get agent config", http.MethodGet, "/api/agents/config", query, nil, &resp); err != nil {
		return nil, err
	}
	state, err := wire.AgentStateToDomain(resp.AgentState)
	if err != nil {
		return nil, err
	}
	c.cachePut(state)
	return state, nil
}

func (c *RemoteClient) UpdateAgent(ctx context.Context, state *core.AgentState) error {
	req := wire.UpdateAgentRequest{
		AgentID:           state.ID.String(),
		AgentName:         state.Name,
		Persona:           state.Persona,
		Human:             state.Human,
		Model:             state.LLMConfig.Model,
		ContextWindow:     state.LLMConfig.ContextWindow,
		ModelWrapper:      state.LLMConfig.ModelWrapper,
		ModelEndpoint:     state.LLMConfig.ModelEndpoint,
		ModelEndpointType: state.LLMConfig.ModelEndpointType,
	}
	if _, err := c.do(ctx, "update agent", http.MethodPost, "/api/agents/update", nil, req, nil); err != nil {
		return err
	}
	c.cacheEvict(state.ID)
	return nil
}

func (c *RemoteClient) SaveAgent(ctx context.Context, state *core.AgentState) error {
	req := wire.AgentStateToWire(state)
	if _, err := c.do(ctx, "save agent", http.MethodPost, "/api/agents/save", nil, req, nil); err != nil {
		return err
	}
	c.cacheEvict(state.ID)
	return nil
}

// Users.

func (c *RemoteClient) GetUser(ctx context.Context, userID uuid.UUID) (*core.User, error) {
	var resp wire.UserModel
	path := fmt.Sprintf("/api/users/%s", userID)
	if _, err := c.do(ctx, "get user", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return wire.UserToDomain(resp)
}

func (c *RemoteClient) CreateUser(ctx context.Context, user core.User) error {
	req := wire.CreateUserRequest{
		ID:               user.ID.String(),
		DefaultAgent:     user.DefaultAgent,
		PoliciesAccepted: user.PoliciesAccepted,
	}
	_, err := c.do(ctx, "create user", http.MethodPost, "/api/users/create", nil, req, nil)
	return err
}

// Presets.

func (c *RemoteClient) GetPreset(ctx context.Context, name string) (*core.Preset, error) {
	var resp wire.PresetModel
	path := fmt.Sprintf("/api/presets/%s", url.PathEscape(name))
	if _, err := c.do(ctx, "get preset", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return wire.PresetToDomain(resp)
}

func (c *RemoteClient) CreatePreset(ctx context.Context, preset core.Preset) (*core.Preset, error) {
	req := wire.CreatePresetRequest{
		Name:            preset.Name,
		Description:     preset.Description,
		System:          preset.System,
		Persona:         preset.Persona,
		PersonaName:     preset.PersonaName,
		Human:           preset.Human,
		HumanName:       preset.HumanName,
		FunctionsSchema: preset.FunctionsSchema,
	}
	if preset.ID != uuid.Nil {
		req.ID = preset.ID.String()
	}
	var resp wire.CreatePresetResponse
	if _, err := c.do(ctx, "create preset", http.MethodPost, "/api/presets", nil, req, &resp); err != nil {
		return nil, err
	}
	return wire.PresetToDomain(resp.Preset)
}

func (c *RemoteClient) DeletePreset(ctx context.Context, presetID uuid.UUID) error {
	path := fmt.Sprintf("/api/presets/%s", presetID)
	_, err := c.do(ctx, "delete preset", http.MethodDelete, path, nil, nil, nil)
	return err
}

func (c *RemoteClient) ListPresets(ctx context.Context) ([]core.Preset, error) {
	var resp wire.ListPresetsResponse
	if _, err := c.do(ctx, "list presets", http.MethodGet, "/api/presets", nil, nil, &resp); err != nil {
		return nil, err
	}
	presets := make([]core.Preset, 0, len(resp.Presets))
	for _, m := range resp.Presets {
		p, err := wire.PresetToDomain(m)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, nil
}

func (c *RemoteClient) AddDefaultPresets(ctx context.Context) error {
	_, err := c.do(ctx, "add default presets", http.MethodPost, "/api/presets/defaults", nil, nil, nil)
	return err
}

// Core memory.

func (c *RemoteClient) GetAgentMemory(ctx context.Context, agentID uuid.UUID) (*core.MemorySummary, error) {
	var resp wire.GetAgentMemoryResponse
	path := fmt.Sprintf("/api/agents/%s/memory", agentID)
	if _, err := c.do(ctx, "get agent memory", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &core.MemorySummary{
		Core:          core.CoreMemory{Persona: resp.CoreMemory.Persona, Human: resp.CoreMemory.Human},
		RecallCount:   resp.RecallMemory,
		ArchivalCount: resp.ArchivalMemory,
	}, nil
}

func (c *RemoteClient) UpdateAgentCoreMemory(ctx context.Context, agentID uuid.UUID, mem core.CoreMemory) (*core.CoreMemory, error) {
	req := wire.UpdateCoreMemoryRequest{Persona: mem.Persona, Human: mem.Human}
	var resp wire.UpdateCoreMemoryResponse
	path := fmt.Sprintf("/api/agents/%s/memory", agentID)
	if _, err := c.do(ctx, "update core memory", http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, err
	}
	return &core.CoreMemory{
		Persona: resp.NewCoreMemory.Persona,
		Human:   resp.NewCoreMemory.Human,
	}, nil
}

// Archival memory.

func pageQuery(page Page) url.Values {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(page.limit()))
	if page.Before != uuid.Nil {
		query.Set("before", page.Before.String())
	}
	if page.After != uuid.Nil {
		query.Set("after", page.After.String())
	}
	return query
}

func (c *RemoteClient) GetArchivalMemory(ctx context.Context, agentID uuid.UUID, page Page) ([]core.Passage, error) {
	var resp wire.GetArchivalMemoryResponse
	path := fmt.Sprintf("/api/agents/%s/archival", agentID)
	if _, err := c.do(ctx, "get archival memory", http.MethodGet, path, pageQuery(page), nil, &resp); err != nil {
		return nil, err
	}
	passages := make([]core.Passage, 0, len(resp.ArchivalMemory))
	for _, m := range resp.ArchivalMemory {
		p, err := wire.PassageToDomain(m)
		if err != nil {
			return nil, err
		}
		passages = append(passages, *p)
	}
	return passages, nil
}

func (c *RemoteClient) InsertArchivalMemory(ctx context.Context, agentID uuid.UUID, memory string) ([]uuid.UUID, error) {
	req := wire.InsertArchivalMemoryRequest{Content: memory}
	var resp wire.InsertArchivalMemoryResponse
	path := fmt.Sprintf("/api/agents/%s/archival", agentID)
	if _, err := c.do(ctx, "insert archival memory", http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(resp.IDs))
	for _, s := range resp.IDs {
		id, err := wire.ParseID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *RemoteClient) DeleteArchivalMemory(ctx context.Context, agentID, memoryID uuid.UUID) error {
	query := url.Values{}
	query.Set("id", memoryID.String())
	path := fmt.Sprintf("/api/agents/%s/archival", agentID)
	_, err := c.do(ctx, "delete archival memory", http.MethodDelete, path, query, nil, nil)
	return err
}

// Recall memory.

func (c *RemoteClient) GetMessages(ctx context.Context, agentID uuid.UUID, page Page) ([]core.Message, error) {
	var resp wire.GetMessagesResponse
	path := fmt.Sprintf("/api/agents/%s/messages-cursor", agentID)
	if _, err := c.do(ctx, "get messages", http.MethodGet, path, pageQuery(page), nil, &resp); err != nil {
		return nil, err
	}
	messages := make([]core.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		msg, err := wire.MessageToDomain(m)
		if err != nil {
			return nil, err
		}
		msg.AgentID = agentID
		messages = append(messages, *msg)
	}
	return messages, nil
}

func (c *RemoteClient) SendMessage(ctx context.Context, agentID uuid.UUID, message, role string) ([]map[string]any, error) {
	req := wire.SendMessageRequest{Message: message, Role: role}
	var resp wire.UserMessageResponse
	path := fmt.Sprintf("/api/agents/%s/messages", agentID)
	if _, err := c.do(ctx, "send message", http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *RemoteClient) UserMessage(ctx context.Context, agentID uuid.UUID, message string) ([]map[string]any, error) {
	return c.SendMessage(ctx, agentID, message, "user")
}

func (c *RemoteClient) RunCommand(ctx context.Context, agentID uuid.UUID, command string) (string, error) {
	req := wire.CommandRequest{Command: command}
	var resp wire.CommandResponse
	path := fmt.Sprintf("/api/agents/%s/command", agentID)
	if _, err := c.do(ctx, "run command", http.MethodPost, path, nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Humans and personas.

func (c *RemoteClient) ListHumans(ctx context.Context) ([]core.Human, error) {
	var resp wire.ListHumansResponse
	if _, err := c.do(ctx, "list humans", http.MethodGet, "/api/humans/all", nil, nil, &resp); err != nil {
		return nil, err
	}
	humans := make([]core.Human, 0, len(resp.Humans))
	for _, m := range resp.Humans {
		h, err := wire.HumanToDomain(m)
		if err != nil {
			return nil, err
		}
		humans = append(humans, *h)
	}
	return humans, nil
}

func (c *RemoteClient) GetHuman(ctx context.Context, name string) (*core.Human, error) {
	var resp wire.HumanModel
	path := fmt.Sprintf("/api/humans/%s", url.PathEscape(name))
	if _, err := c.do(ctx, "get human", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return wire.HumanToDomain(resp)
}

func (c *RemoteClient) AddHuman(ctx context.Context, name, text string) (*core.Human, error) {
	req := wire.AddHumanRequest{Name: name, Text: text}
	var resp wire.HumanModel
	if _, err := c.do(ctx, "add human", http.MethodPost, "/api/humans/add", nil, req, &resp); err != nil {
		return nil, err
	}
	return wire.HumanToDomain(resp)
}

func (c *RemoteClient) UpdateHuman(ctx context.Context, name, text string) (*core.Human, error) {
	req := wire.AddHumanRequest{Name: name, Text: text}
	var resp wire.HumanModel
	if _, err := c.do(ctx, "update human", http.MethodPost, "/api/humans/update", nil, req, &resp); err != nil {
		return nil, err
	}
	return wire.HumanToDomain(resp)
}

func (c *RemoteClient) DeleteHuman(ctx context.Context, name string) error {
	path := fmt.Sprintf("/api/humans/delete/%s", url.PathEscape(name))
	_, err := c.do(ctx, "delete human", http.MethodDelete, path, nil, nil, nil)
	return err
}

func (c *RemoteClient) ListPersonas(ctx context.Context) ([]core.Persona, error) {
	var resp wire.ListPersonasResponse
	if _, err := c.do(ctx, "list personas", http.MethodGet, "/api/personas/all", nil, nil, &resp); err != nil {
		return nil, err
	}
	personas := make([]core.Persona, 0, len(resp.Personas))
	for _, m := range resp.Personas {
		p, err := wire.PersonaToDomain(m)
		if err != nil {
			return nil, err
		}
		personas = append(personas, *p)
	}
	return personas, nil
}

func (c *RemoteClient) GetPersona(ctx context.Context, name string) (*core.Persona, error) {
	var resp wire.PersonaModel
	path := fmt.Sprintf("/api/personas/%s", url.PathEscape(name))
	if _, err := c.do(ctx, "get persona", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return wire.PersonaToDomain(resp)
}

func (c *RemoteClient) AddPersona(ctx context.Context, name, text string) (*core.Persona, error) {
	req := wire.AddPersonaRequest{Name: name, Text: text}
	var resp wire.PersonaModel
	if _, err := c.do(ctx, "add persona", http.MethodPost, "/api/personas/add", nil, req, &resp); err != nil {
		return nil, err
	}
	return wire.PersonaToDomain(resp)
}

func (c *RemoteClient) UpdatePersona(ctx context.Context, name, text string) (*core.Persona, error) {
	req := wire.AddPersonaRequest{Name: name, Text: text}
	var resp wire.PersonaModel
	if _, err := c.do(ctx, "update persona", http.MethodPost, "/api/personas/update", nil, req, &resp); err != nil {
		return nil, err
	}
	return wire.PersonaToDomain(resp)
}

func (c *RemoteClient) DeletePersona(ctx context.Context, name string) error {
	path := fmt.Sprintf("/api/personas/delete/%s", url.PathEscape(name))
	_, err := c.do(ctx, "delete persona", http.MethodDelete, path, nil, nil, nil)
	return err
}

// Sources and ingestion.

func (c *RemoteClient) ListSources(ctx context.Context) ([]core.Source, error) {
	var resp wire.ListSourcesResponse
	if _, err := c.do(ctx, "list sources", http.MethodGet, "/api/sources", nil, nil, &resp); err != nil {
		return nil, err
	}
	sources := make([]core.Source, 0, len(resp.Sources))
	for _, m := range resp.Sources {
		s, err := wire.SourceToDomain(m)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *s)
	}
	return sources, nil
}

func (c *RemoteClient) CreateSource(ctx context.Context, name, description string) (*core.Source, error) {
	req := wire.CreateSourceRequest{Name: name, Description: description}
	var resp wire.SourceModel
	if _, err := c.do(ctx, "create source", http.MethodPost, "/api/sources", nil, req, &resp); err != nil {
		return nil, err
	}
	return wire.SourceToDomain(resp)
}

func (c *RemoteClient) DeleteSource(ctx context.Context, sourceID uuid.UUID, sourceName string) error {
	if sourceID == uuid.Nil {
		// Resolve by name first.
		sources, err := c.ListSources(ctx)
		if err != nil {
			return err
		}
		for _, s := range sources {
			if s.Name == sourceName {
				sourceID = s.ID
				break
			}
		}
		if sourceID == uuid.Nil {
			return fmt.Errorf("%w: source %q not found", ErrInvalidArguments, sourceName)
		}
	}
	path := fmt.Sprintf("/api/sources/%s", sourceID)
	_, err := c.do(ctx, "delete source", http.MethodDelete, path, nil, nil, nil)
	return err
}

func (c *RemoteClient) AttachSourceToAgent(ctx context.Context, agentID, sourceID uuid.UUID, sourceName string) error {
	req := wire.AttachSourceRequest{AgentID: agentID.String(), SourceName: sourceName}
	if sourceID != uuid.Nil {
		req.SourceID = sourceID.String()
	}
	_, err := c.do(ctx, "attach source", http.MethodPost, "/api/sources/attach", nil, req, nil)
	return err
}

func (c *RemoteClient) DetachSource(ctx context.Context, agentID, sourceID uuid.UUID) error {
	query := url.Values{}
	query.Set("agent_id", agentID.String())
	path := fmt.Sprintf("/api/sources/%s/detach", sourceID)
	_, err := c.do(ctx, "detach source", http.MethodPost, path, query, nil, nil)
	return err
}

func (c *RemoteClient) GetJobStatus(ctx context.Context, jobID uuid.UUID) (*core.Job, error) {
	var resp wire.JobModel
	path := fmt.Sprintf("/api/sources/status/%s", jobID)
	if _, err := c.do(ctx, "get job status", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return wire.JobToDomain(resp)
}

// LoadFileIntoSource uploads filename into the source and, when blocking,
// polls the resulting job until it completes or fails.
func (c *RemoteClient) LoadFileIntoSource(ctx context.Context, filename string, sourceID uuid.UUID, blocking bool) (*core.Job, error) {
	job, err := c.uploadFile(ctx, filename, sourceID)
	if err != nil {
		return nil, err
	}
	if !blocking {
		return job, nil
	}
	return newPoller(c.GetJobStatus, c.poll).wait(ctx, job)
}

func (c *RemoteClient) uploadFile(ctx context.Context, filename string, sourceID uuid.UUID) (*core.Job, error) {
	const op = "upload file"

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := fmt.Sprintf("%s/api/sources/%s/upload", c.baseURL, sourceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var model wire.JobModel
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return wire.JobToDomain(model)
}

// Introspection.

func (c *RemoteClient) ListModels(ctx context.Context) ([]core.LLMConfig, error) {
	var resp wire.ListModelsResponse
	if _, err := c.do(ctx, "list models", http.MethodGet, "/api/models", nil, nil, &resp); err != nil {
		return nil, err
	}
	models := make([]core.LLMConfig, 0, len(resp.Models))
	for _, m := range resp.Models {
		cfg, err := wire.LLMConfigToDomain(m)
		if err != nil {
			return nil, err
		}
		models = append(models, cfg)
	}
	return models, nil
}

func (c *RemoteClient) GetServerConfig(ctx context.Context) (map[string]any, error) {
	var resp wire.ConfigResponse
	if _, err := c.do(ctx, "get server config", http.MethodGet, "/api/config", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Config, nil
}

// Save has no remote counterpart: agents are persisted server-side as they
// run.
func (c *RemoteClient) Save(ctx context.Context) error {
	return fmt.Errorf("save: %w", ErrNotImplemented)
}

// Close releases the optional cache.
func (c *RemoteClient) Close() error {
	if c.cache != nil {
		c.cache.close()
	}
	return nil
}

func (c *RemoteClient) cacheGet(agentID uuid.UUID) (*core.AgentState, bool) {
	if c.cache == nil || agentID == uuid.Nil {
		return nil, false
	}
	return c.cache.get(agentID)
}

func (c *RemoteClient) cachePut(state *core.AgentState) {
	if c.cache != nil {
		c.cache.put(state)
	}
}

func (c *RemoteClient) cacheEvict(agentID uuid.UUID) {
	if c.cache != nil && agentID != uuid.Nil {
		c.cache.evict(agentID)
	}
}

var _ Client = (*RemoteClient)(nil)
