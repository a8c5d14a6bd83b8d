package wire

// Request and response bodies, one explicit struct per endpoint.

// Agents.

type ListAgentsResponse struct {
	NumAgents int               `json:"num_agents"`
	Agents    []AgentStateModel `json:"agents"`
}

type AgentConfigRequest struct {
	Name    string `json:"name,omitempty"`
	Preset  string `json:"preset,omitempty"`
	Persona string `json:"persona,omitempty"`
	Human   string `json:"human,omitempty"`
}

type CreateAgentRequest struct {
	Config AgentConfigRequest `json:"config"`
}

type CreateAgentResponse struct {
	AgentState AgentStateModel `json:"agent_state"`
}

type GetAgentResponse struct {
	AgentState AgentStateModel `json:"agent_state"`
}

type RenameAgentRequest struct {
	AgentName string `json:"agent_name"`
}

type DeleteAgentRequest struct {
	AgentID   string `json:"agent_id,omitempty"`
	AgentName string `json:"agent_name,omitempty"`
}

type UpdateAgentRequest struct {
	AgentID           string `json:"agent_id"`
	AgentName         string `json:"agent_name,omitempty"`
	Persona           string `json:"persona,omitempty"`
	Human             string `json:"human,omitempty"`
	Model             string `json:"model,omitempty"`
	ContextWindow     int    `json:"context_window,omitempty"`
	ModelWrapper      string `json:"model_wrapper,omitempty"`
	ModelEndpoint     string `json:"model_endpoint,omitempty"`
	ModelEndpointType string `json:"model_endpoint_type,omitempty"`
}

// Users.

type CreateUserRequest struct {
	ID               string `json:"id"`
	DefaultAgent     string `json:"default_agent,omitempty"`
	PoliciesAccepted bool   `json:"policies_accepted"`
}

// Presets.

type CreatePresetRequest struct {
	ID              string           `json:"id,omitempty"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	System          string           `json:"system,omitempty"`
	SystemName      string           `json:"system_name,omitempty"`
	Persona         string           `json:"persona,omitempty"`
	PersonaName     string           `json:"persona_name,omitempty"`
	Human           string           `json:"human,omitempty"`
	HumanName       string           `json:"human_name,omitempty"`
	FunctionsSchema []map[string]any `json:"functions_schema,omitempty"`
}

type CreatePresetResponse struct {
	Preset PresetModel `json:"preset"`
}

type ListPresetsResponse struct {
	Presets []PresetModel `json:"presets"`
}

// Memory.

type GetAgentMemoryResponse struct {
	CoreMemory     CoreMemoryModel `json:"core_memory"`
	RecallMemory   int             `json:"recall_memory"`
	ArchivalMemory int             `json:"archival_memory"`
}

type UpdateCoreMemoryRequest struct {
	Persona string `json:"persona,omitempty"`
	Human   string `json:"human,omitempty"`
}

type UpdateCoreMemoryResponse struct {
	OldCoreMemory CoreMemoryModel `json:"old_core_memory"`
	NewCoreMemory CoreMemoryModel `json:"new_core_memory"`
}

type GetArchivalMemoryResponse struct {
	ArchivalMemory []PassageModel `json:"archival_memory"`
}

type InsertArchivalMemoryRequest struct {
	Content string `json:"content"`
}

type InsertArchivalMemoryResponse struct {
	IDs []string `json:"ids"`
}

// Messages.

type GetMessagesResponse struct {
	Messages []MessageModel `json:"messages"`
}

type SendMessageRequest struct {
	Message string `json:"message"`
	Role    string `json:"role"`
	Stream  bool   `json:"stream,omitempty"`
}

// UserMessageResponse carries the agent's emitted frames. The frames are
// free-form: internal monologue, function calls, and function returns each
// use their own keys.
type UserMessageResponse struct {
	Messages []map[string]any `json:"messages"`
}

// Humans and personas.

type ListHumansResponse struct {
	Humans []HumanModel `json:"humans"`
}

type ListPersonasResponse struct {
	Personas []PersonaModel `json:"personas"`
}

type AddHumanRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type AddPersonaRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Sources.

type ListSourcesResponse struct {
	Sources []SourceModel `json:"sources"`
}

type CreateSourceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type AttachSourceRequest struct {
	AgentID    string `json:"agent_id"`
	SourceID   string `json:"source_id,omitempty"`
	SourceName string `json:"source_name,omitempty"`
}

// Introspection.

type ListModelsResponse struct {
	Models []LLMConfigModel `json:"models"`
}

type ConfigResponse struct {
	Config map[string]any `json:"config"`
}

// Commands.

type CommandRequest struct {
	Command string `json:"command"`
}

type CommandResponse struct {
	Response string `json:"response"`
}
