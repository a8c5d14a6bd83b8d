// Package wire defines the transport-level representations exchanged with
// the Mnemos REST API, and the adapter that converts them to and from the
// canonical domain objects in package core.
//
// Wire models carry string-encoded ids and two timestamp encodings: agent
// and preset creation times are Unix epoch seconds, source creation times
// are formatted date strings (see SourceTimeLayout). Every endpoint has an
// explicit request/response struct so payload construction and response
// parsing cannot drift apart.
package wire

// LLMConfigModel is the wire form of core.LLMConfig.
type LLMConfigModel struct {
	Model             string `json:"model"`
	ModelEndpointType string `json:"model_endpoint_type"`
	ModelEndpoint     string `json:"model_endpoint"`
	ModelWrapper      string `json:"model_wrapper,omitempty"`
	ContextWindow     int    `json:"context_window"`
}

// EmbeddingConfigModel is the wire form of core.EmbeddingConfig.
type EmbeddingConfigModel struct {
	EmbeddingEndpointType string `json:"embedding_endpoint_type"`
	EmbeddingEndpoint     string `json:"embedding_endpoint"`
	EmbeddingModel        string `json:"embedding_model"`
	EmbeddingDim          int    `json:"embedding_dim"`
	EmbeddingChunkSize    int    `json:"embedding_chunk_size"`
}

// AgentStateModel is the wire form of core.AgentState. CreatedAt is Unix
// epoch seconds.
type AgentStateModel struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	UserID          string               `json:"user_id"`
	Preset          string               `json:"preset"`
	Persona         string               `json:"persona"`
	Human           string               `json:"human"`
	LLMConfig       LLMConfigModel       `json:"llm_config"`
	EmbeddingConfig EmbeddingConfigModel `json:"embedding_config"`
	State           map[string]any       `json:"state,omitempty"`
	FunctionsSchema []map[string]any     `json:"functions_schema,omitempty"`
	CreatedAt       int64                `json:"created_at"`
}

// UserModel is the wire form of core.User.
type UserModel struct {
	ID               string `json:"id"`
	DefaultAgent     string `json:"default_agent,omitempty"`
	PoliciesAccepted bool   `json:"policies_accepted"`
}

// PresetModel is the wire form of core.Preset. CreatedAt is Unix epoch
// seconds.
type PresetModel struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id,omitempty"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	System          string           `json:"system,omitempty"`
	Persona         string           `json:"persona,omitempty"`
	PersonaName     string           `json:"persona_name,omitempty"`
	Human           string           `json:"human,omitempty"`
	HumanName       string           `json:"human_name,omitempty"`
	FunctionsSchema []map[string]any `json:"functions_schema,omitempty"`
	CreatedAt       int64            `json:"created_at"`
}

// SourceModel is the wire form of core.Source. CreatedAt uses
// SourceTimeLayout and the embedding configuration arrives as a nested
// dictionary that the adapter flattens field-by-field.
type SourceModel struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	CreatedAt       string         `json:"created_at"`
	EmbeddingConfig map[string]any `json:"embedding_config"`
}

// JobModel is the wire form of core.Job.
type JobModel struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MessageModel is a recall-memory record on the wire.
type MessageModel struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Name      string `json:"name,omitempty"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// PassageModel is an archival-memory record on the wire.
type PassageModel struct {
	ID        string `json:"id"`
	Contents  string `json:"contents"`
	CreatedAt int64  `json:"created_at"`
}

// HumanModel and PersonaModel are catalog entries on the wire.
type HumanModel struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Text   string `json:"text"`
}

type PersonaModel struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Text   string `json:"text"`
}

// CoreMemoryModel is the in-context memory of an agent on the wire.
type CoreMemoryModel struct {
	Persona string `json:"persona"`
	Human   string `json:"human"`
}
