package wire

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// SourceTimeLayout is the formatted date-time encoding used for source
// creation times on the wire (microsecond precision, no zone).
const SourceTimeLayout = "2006-01-02T15:04:05.000000"

var (
	// ErrMalformedTimestamp reports a wire timestamp the adapter could not
	// normalize into a time.Time.
	ErrMalformedTimestamp = errors.New("wire: malformed timestamp")

	// ErrMalformedConfig reports a wire config dictionary missing a
	// required field.
	ErrMalformedConfig = errors.New("wire: malformed config")
)

// ParseID normalizes a string-encoded identifier into a uuid.UUID.
// Identifiers are never compared across representations without passing
// through here first.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse id %q: %w", s, err)
	}
	return id, nil
}

// ParseEpoch converts Unix epoch seconds into a UTC time.Time. Zero and
// negative values are rejected: a populated record always carries a real
// creation time.
func ParseEpoch(sec int64) (time.Time, error) {
	if sec <= 0 {
		return time.Time{}, fmt.Errorf("%w: epoch %d", ErrMalformedTimestamp, sec)
	}
	return time.Unix(sec, 0).UTC(), nil
}

// ParseSourceTime parses the formatted source creation timestamp.
func ParseSourceTime(s string) (time.Time, error) {
	t, err := time.Parse(SourceTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// FormatSourceTime renders a time.Time in the wire encoding for sources.
func FormatSourceTime(t time.Time) string {
	return t.UTC().Format(SourceTimeLayout)
}

// LLMConfigToDomain flattens a wire LLM config into the typed domain config.
func LLMConfigToDomain(m LLMConfigModel) (core.LLMConfig, error) {
	if m.Model == "" {
		return core.LLMConfig{}, fmt.Errorf("%w: llm_config missing model", ErrMalformedConfig)
	}
	if m.ContextWindow <= 0 {
		return core.LLMConfig{}, fmt.Errorf("%w: llm_config missing context_window", ErrMalformedConfig)
	}
	return core.LLMConfig{
		Model:             m.Model,
		ModelEndpointType: m.ModelEndpointType,
		ModelEndpoint:     m.ModelEndpoint,
		ModelWrapper:      m.ModelWrapper,
		ContextWindow:     m.ContextWindow,
	}, nil
}

// LLMConfigToWire is the inverse of LLMConfigToDomain.
func LLMConfigToWire(c core.LLMConfig) LLMConfigModel {
	return LLMConfigModel{
		Model:             c.Model,
		ModelEndpointType: c.ModelEndpointType,
		ModelEndpoint:     c.ModelEndpoint,
		ModelWrapper:      c.ModelWrapper,
		ContextWindow:     c.ContextWindow,
	}
}

// EmbeddingConfigToDomain flattens a wire embedding config.
func EmbeddingConfigToDomain(m EmbeddingConfigModel) (core.EmbeddingConfig, error) {
	if m.EmbeddingModel == "" {
		return core.EmbeddingConfig{}, fmt.Errorf("%w: embedding_config missing embedding_model", ErrMalformedConfig)
	}
	if m.EmbeddingDim <= 0 {
		return core.EmbeddingConfig{}, fmt.Errorf("%w: embedding_config missing embedding_dim", ErrMalformedConfig)
	}
	return core.EmbeddingConfig{
		EmbeddingEndpointType: m.EmbeddingEndpointType,
		EmbeddingEndpoint:     m.EmbeddingEndpoint,
		EmbeddingModel:        m.EmbeddingModel,
		EmbeddingDim:          m.EmbeddingDim,
		EmbeddingChunkSize:    m.EmbeddingChunkSize,
	}, nil
}

// EmbeddingConfigToWire is the inverse of EmbeddingConfigToDomain.
func EmbeddingConfigToWire(c core.EmbeddingConfig) EmbeddingConfigModel {
	return EmbeddingConfigModel{
		EmbeddingEndpointType: c.EmbeddingEndpointType,
		EmbeddingEndpoint:     c.EmbeddingEndpoint,
		EmbeddingModel:        c.EmbeddingModel,
		EmbeddingDim:          c.EmbeddingDim,
		EmbeddingChunkSize:    c.EmbeddingChunkSize,
	}
}

// AgentStateToDomain converts a wire agent state into the domain object.
// Every operation that returns an AgentState (create, rename, get-config,
// save) routes through this single conversion.
func AgentStateToDomain(m AgentStateModel) (*core.AgentState, error) {
	id, err := ParseID(m.ID)
	if err != nil {
		return nil, err
	}
	userID, err := ParseID(m.UserID)
	if err != nil {
		return nil, err
	}
	createdAt, err := ParseEpoch(m.CreatedAt)
	if err != nil {
		return nil, err
	}
	llm, err := LLMConfigToDomain(m.LLMConfig)
	if err != nil {
		return nil, err
	}
	emb, err := EmbeddingConfigToDomain(m.EmbeddingConfig)
	if err != nil {
		return nil, err
	}

	// The wire model keeps its own map; the domain object must not share it.
	state := make(map[string]any, len(m.State)+1)
	for k, v := range m.State {
		state[k] = v
	}
	if m.FunctionsSchema != nil {
		state["functions"] = m.FunctionsSchema
	}

	return &core.AgentState{
		ID:              id,
		Name:            m.Name,
		UserID:          userID,
		Preset:          m.Preset,
		Persona:         m.Persona,
		Human:           m.Human,
		LLMConfig:       llm,
		EmbeddingConfig: emb,
		State:           state,
		CreatedAt:       createdAt,
	}, nil
}

// AgentStateToWire converts a domain agent state back to its wire form.
func AgentStateToWire(a *core.AgentState) AgentStateModel {
	m := AgentStateModel{
		ID:              a.ID.String(),
		Name:            a.Name,
		UserID:          a.UserID.String(),
		Preset:          a.Preset,
		Persona:         a.Persona,
		Human:           a.Human,
		LLMConfig:       LLMConfigToWire(a.LLMConfig),
		EmbeddingConfig: EmbeddingConfigToWire(a.EmbeddingConfig),
		State:           a.State,
		CreatedAt:       a.CreatedAt.Unix(),
	}
	if fns, ok := a.State["functions"].([]map[string]any); ok {
		m.FunctionsSchema = fns
	}
	return m
}

// embeddingField reads one required field of a nested source embedding
// config dictionary.
func embeddingField(cfg map[string]any, key string) (any, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: embedding_config missing %s", ErrMalformedConfig, key)
	}
	return v, nil
}

func embeddingString(cfg map[string]any, key string) (string, error) {
	v, err := embeddingField(cfg, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: embedding_config field %s is not a string", ErrMalformedConfig, key)
	}
	return s, nil
}

func embeddingInt(cfg map[string]any, key string) (int, error) {
	v, err := embeddingField(cfg, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64: // encoding/json decodes numbers as float64
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: embedding_config field %s is not a number", ErrMalformedConfig, key)
	}
}

// SourceToDomain converts a wire source, flattening its nested embedding
// config dictionary field-by-field.
func SourceToDomain(m SourceModel) (*core.Source, error) {
	id, err := ParseID(m.ID)
	if err != nil {
		return nil, err
	}
	userID, err := ParseID(m.UserID)
	if err != nil {
		return nil, err
	}
	createdAt, err := ParseSourceTime(m.CreatedAt)
	if err != nil {
		return nil, err
	}
	model, err := embeddingString(m.EmbeddingConfig, "embedding_model")
	if err != nil {
		return nil, err
	}
	dim, err := embeddingInt(m.EmbeddingConfig, "embedding_dim")
	if err != nil {
		return nil, err
	}
	// Chunk size is optional on the wire; older servers omit it.
	chunkSize := 0
	if _, ok := m.EmbeddingConfig["embedding_chunk_size"]; ok {
		chunkSize, err = embeddingInt(m.EmbeddingConfig, "embedding_chunk_size")
		if err != nil {
			return nil, err
		}
	}

	return &core.Source{
		ID:                 id,
		UserID:             userID,
		Name:               m.Name,
		Description:        m.Description,
		EmbeddingModel:     model,
		EmbeddingDim:       dim,
		EmbeddingChunkSize: chunkSize,
		CreatedAt:          createdAt,
	}, nil
}

// SourceToWire converts a domain source back to its wire form.
func SourceToWire(s *core.Source) SourceModel {
	return SourceModel{
		ID:          s.ID.String(),
		UserID:      s.UserID.String(),
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   FormatSourceTime(s.CreatedAt),
		EmbeddingConfig: map[string]any{
			"embedding_model":      s.EmbeddingModel,
			"embedding_dim":        s.EmbeddingDim,
			"embedding_chunk_size": s.EmbeddingChunkSize,
		},
	}
}

// UserToDomain converts a wire user.
func UserToDomain(m UserModel) (*core.User, error) {
	id, err := ParseID(m.ID)
	if err != nil {
		return nil, err
	}
	return &core.User{
		ID:               id,
		DefaultAgent:     m.DefaultAgent,
		PoliciesAccepted: m.PoliciesAccepted,
	}, nil
}

// PresetToDomain converts a wire preset.
func PresetToDomain(m PresetModel) (*core.Preset, error) {
	id, err := ParseID(m.ID)
	if err != nil {
		return nil, err
	}
	p := &core.Preset{
		ID:              id,
		Name:            m.Name,
		Description:     m.Description,
		System:          m.System,
		Persona:         m.Persona,
		PersonaName:     m.PersonaName,
		Human:           m.Human,
		HumanName:       m.HumanName,
		FunctionsSchema: m.FunctionsSchema,
	}
	if m.UserID != "" {
		userID, err := ParseID(m.UserID)
		if err != nil {
			return nil, err
		}
		p.UserID = userID
	}
	if m.CreatedAt > 0 {
		createdAt, err := ParseEpoch(m.CreatedAt)
		if err != nil {
			return nil, err
		}
		p.CreatedAt = createdAt
	}
	return p, nil
}

// PresetToWire converts a domain preset back to its wire form.
func PresetToWire(p *core.Preset) PresetModel {
	m := PresetModel{
		ID:              p.ID.String(),
		Name:            p.Name,
		Description:     p.Description,
		System:          p.System,
		Persona:         p.Persona,
		PersonaName:     p.PersonaName,
		Human:           p.Human,
		HumanName:       p.HumanName,
		FunctionsSchema: p.FunctionsSchema,
	}
	if p.UserID != uuid.Nil {
		m.UserID = p.UserID.String()
	}
	if !p.CreatedAt.IsZero() {
		m.CreatedAt = p.CreatedAt.Unix()
	}
	return m
}

// JobToDomain converts a wire job.
func JobToDomain(m JobModel) (*core.Job, error) {
	id, err := ParseID(m.ID)
	if err != nil {
		return nil, err
	}
	return &core.Job{
		ID:       id,
		Status:   core.JobStatus(m.Status),
		Metadata: m.Metadata,
	}, nil
}

// MessageToDomain converts a wire recall-memory record.
func MessageToDomain(m MessageModel) (*core.Message, error) {
	id, err := ParseID(m.ID)
	if err != nil {
		return nil, err
	}
	msg := &core.Message{
		ID:   id,
		Role: m.Role,
		Name: m.Name,
		Text: m.Text,
	}
	if m.CreatedAt > 0 {
		createdAt, err := ParseEpoch(m.CreatedAt)
		if err != nil {
			return nil, err
		}
		msg.CreatedAt = createdAt
	}
	return msg, nil
}

// PassageToDomain converts a wire archival-memory record.
func PassageToDomain(m PassageModel) (*core.Passage, error) {
	id, err := ParseID(m.ID)
	if err != nil {
		return nil, err
	}
	p := &core.Passage{
		ID:   id,
		Text: m.Contents,
	}
	if m.CreatedAt > 0 {
		createdAt, err := ParseEpoch(m.CreatedAt)
		if err != nil {
			return nil, err
		}
		p.CreatedAt = createdAt
	}
	return p, nil
}

// HumanToDomain and PersonaToDomain convert catalog entries.
func HumanToDomain(m HumanModel) (*core.Human, error) {
	h := &core.Human{Name: m.Name, Text: m.Text}
	if m.ID != "" {
		id, err := ParseID(m.ID)
		if err != nil {
			return nil, err
		}
		h.ID = id
	}
	return h, nil
}

func PersonaToDomain(m PersonaModel) (*core.Persona, error) {
	p := &core.Persona{Name: m.Name, Text: m.Text}
	if m.ID != "" {
		id, err := ParseID(m.ID)
		if err != nil {
			return nil, err
		}
		p.ID = id
	}
	return p, nil
}
