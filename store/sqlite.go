package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// SQLiteStore implements Store on modernc.org/sqlite (pure Go, no cgo).
// Message and passage tables carry a monotonic seq column; before/after
// cursors resolve to seq bounds so pagination is ordered, exclusive, and
// identical for both record kinds.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path (":memory:" works)
// and ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single writer; the embedded server serializes calls anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id                TEXT PRIMARY KEY,
		default_agent     TEXT NOT NULL DEFAULT '',
		policies_accepted INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS agents (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		name             TEXT NOT NULL,
		preset           TEXT NOT NULL DEFAULT '',
		persona          TEXT NOT NULL DEFAULT '',
		human            TEXT NOT NULL DEFAULT '',
		llm_config       TEXT NOT NULL DEFAULT '{}',
		embedding_config TEXT NOT NULL DEFAULT '{}',
		state            TEXT NOT NULL DEFAULT '{}',
		created_at       INTEGER NOT NULL,
		UNIQUE(user_id, name)
	);

	CREATE TABLE IF NOT EXISTS presets (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		system           TEXT NOT NULL DEFAULT '',
		persona          TEXT NOT NULL DEFAULT '',
		persona_name     TEXT NOT NULL DEFAULT '',
		human            TEXT NOT NULL DEFAULT '',
		human_name       TEXT NOT NULL DEFAULT '',
		functions_schema TEXT NOT NULL DEFAULT '[]',
		created_at       INTEGER NOT NULL,
		UNIQUE(user_id, name)
	);

	CREATE TABLE IF NOT EXISTS humans (
		user_id TEXT NOT NULL,
		name    TEXT NOT NULL,
		id      TEXT NOT NULL,
		text    TEXT NOT NULL DEFAULT '',
		PRIMARY KEY(user_id, name)
	);

	CREATE TABLE IF NOT EXISTS personas (
		user_id TEXT NOT NULL,
		name    TEXT NOT NULL,
		id      TEXT NOT NULL,
		text    TEXT NOT NULL DEFAULT '',
		PRIMARY KEY(user_id, name)
	);

	CREATE TABLE IF NOT EXISTS sources (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		embedding_model TEXT NOT NULL DEFAULT '',
		embedding_dim   INTEGER NOT NULL DEFAULT 0,
		embedding_chunk_size INTEGER NOT NULL DEFAULT 0,
		created_at      INTEGER NOT NULL,
		UNIQUE(user_id, name)
	);

	CREATE TABLE IF NOT EXISTS agent_sources (
		agent_id  TEXT NOT NULL,
		source_id TEXT NOT NULL,
		PRIMARY KEY(agent_id, source_id)
	);

	CREATE TABLE IF NOT EXISTS jobs (
		id           TEXT PRIMARY KEY,
		status       TEXT NOT NULL,
		metadata     TEXT NOT NULL DEFAULT '{}',
		created_at   INTEGER NOT NULL,
		completed_at INTEGER
	);

	CREATE TABLE IF NOT EXISTS messages (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		agent_id   TEXT NOT NULL,
		user_id    TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		text       TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS passages (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		agent_id   TEXT NOT NULL DEFAULT '',
		source_id  TEXT NOT NULL DEFAULT '',
		user_id    TEXT NOT NULL DEFAULT '',
		text       TEXT NOT NULL DEFAULT '',
		embedding  TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agents_user ON agents(user_id);
	CREATE INDEX IF NOT EXISTS idx_messages_agent ON messages(agent_id);
	CREATE INDEX IF NOT EXISTS idx_passages_agent ON passages(agent_id);
	CREATE INDEX IF NOT EXISTS idx_passages_source ON passages(source_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}

// Users.

func (s *SQLiteStore) GetUser(ctx context.Context, id uuid.UUID) (*core.User, error) {
	var u core.User
	var idStr string
	var accepted int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, default_agent, policies_accepted FROM users WHERE id = ?`, id.String(),
	).Scan(&idStr, &u.DefaultAgent, &accepted)
	if err != nil {
		return nil, mapErr(err)
	}
	u.ID = id
	u.PoliciesAccepted = accepted != 0
	return &u, nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user *core.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, default_agent, policies_accepted) VALUES (?, ?, ?)`,
		user.ID.String(), user.DefaultAgent, boolInt(user.PoliciesAccepted),
	)
	return mapErr(err)
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, user *core.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET default_agent = ?, policies_accepted = ? WHERE id = ?`,
		user.DefaultAgent, boolInt(user.PoliciesAccepted), user.ID.String(),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Agents.

const agentCols = `id, user_id, name, preset, persona, human, llm_config, embedding_config, state, created_at`

func (s *SQLiteStore) CreateAgent(ctx context.Context, state *core.AgentState) error {
	llm, emb, blob, err := encodeAgent(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agents (`+agentCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		state.ID.String(), state.UserID.String(), state.Name, state.Preset,
		state.Persona, state.Human, llm, emb, blob, state.CreatedAt.Unix(),
	)
	return mapErr(err)
}

func (s *SQLiteStore) GetAgent(ctx context.Context, id uuid.UUID) (*core.AgentState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+agentCols+` FROM agents WHERE id = ?`, id.String())
	return scanAgent(row)
}

func (s *SQLiteStore) GetAgentByName(ctx context.Context, userID uuid.UUID, name string) (*core.AgentState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+agentCols+` FROM agents WHERE user_id = ? AND name = ?`,
		userID.String(), name)
	return scanAgent(row)
}

func (s *SQLiteStore) ListAgents(ctx context.Context, userID uuid.UUID) ([]core.AgentState, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+agentCols+` FROM agents WHERE user_id = ? ORDER BY name`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []core.AgentState
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *a)
	}
	return agents, rows.Err()
}

func (s *SQLiteStore) UpdateAgent(ctx context.Context, state *core.AgentState) error {
	llm, emb, blob, err := encodeAgent(state)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE agents SET name = ?, preset = ?, persona = ?, human = ?,
		 llm_config = ?, embedding_config = ?, state = ? WHERE id = ?`,
		state.Name, state.Preset, state.Persona, state.Human,
		llm, emb, blob, state.ID.String(),
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	for _, q := range []string{
		`DELETE FROM messages WHERE agent_id = ?`,
		`DELETE FROM passages WHERE agent_id = ?`,
		`DELETE FROM agent_sources WHERE agent_id = ?`,
	} {
		if _, err := s.db.ExecContext(ctx, q, id.String()); err != nil {
			return err
		}
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return requireRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAgent(row scanner) (*core.AgentState, error) {
	var (
		idStr, userStr, llm, emb, blob string
		createdAt                      int64
		a                              core.AgentState
	)
	err := row.Scan(&idStr, &userStr, &a.Name, &a.Preset, &a.Persona, &a.Human,
		&llm, &emb, &blob, &createdAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if a.ID, err = uuid.Parse(idStr); err != nil {
		return nil, err
	}
	if a.UserID, err = uuid.Parse(userStr); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(llm), &a.LLMConfig); err != nil {
		return nil, fmt.Errorf("decode llm_config: %w", err)
	}
	if err := json.Unmarshal([]byte(emb), &a.EmbeddingConfig); err != nil {
		return nil, fmt.Errorf("decode embedding_config: %w", err)
	}
	if err := json.Unmarshal([]byte(blob), &a.State); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &a, nil
}

func encodeAgent(state *core.AgentState) (llm, emb, blob string, err error) {
	b, err := json.Marshal(state.LLMConfig)
	if err != nil {
		return "", "", "", err
	}
	llm = string(b)
	if b, err = json.Marshal(state.EmbeddingConfig); err != nil {
		return "", "", "", err
	}
	emb = string(b)
	st := state.State
	if st == nil {
		st = map[string]any{}
	}
	if b, err = json.Marshal(st); err != nil {
		return "", "", "", err
	}
	return llm, emb, string(b), nil
}

// Presets.

const presetCols = `id, user_id, name, description, system, persona, persona_name, human, human_name, functions_schema, created_at`

func (s *SQLiteStore) CreatePreset(ctx context.Context, preset *core.Preset) error {
	fns, err := json.Marshal(preset.FunctionsSchema)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO presets (`+presetCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		preset.ID.String(), preset.UserID.String(), preset.Name, preset.Description,
		preset.System, preset.Persona, preset.PersonaName, preset.Human,
		preset.HumanName, string(fns), preset.CreatedAt.Unix(),
	)
	return mapErr(err)
}

func (s *SQLiteStore) GetPreset(ctx context.Context, id uuid.UUID) (*core.Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+presetCols+` FROM presets WHERE id = ?`, id.String())
	return scanPreset(row)
}

func (s *SQLiteStore) GetPresetByName(ctx context.Context, userID uuid.UUID, name string) (*core.Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+presetCols+` FROM presets WHERE user_id = ? AND name = ?`,
		userID.String(), name)
	return scanPreset(row)
}

func (s *SQLiteStore) ListPresets(ctx context.Context, userID uuid.UUID) ([]core.Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+presetCols+` FROM presets WHERE user_id = ? ORDER BY name`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []core.Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

func (s *SQLiteStore) DeletePreset(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanPreset(row scanner) (*core.Preset, error) {
	var (
		idStr, userStr, fns string
		createdAt           int64
		p                   core.Preset
	)
	err := row.Scan(&idStr, &userStr, &p.Name, &p.Description, &p.System,
		&p.Persona, &p.PersonaName, &p.Human, &p.HumanName, &fns, &createdAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if p.ID, err = uuid.Parse(idStr); err != nil {
		return nil, err
	}
	if p.UserID, err = uuid.Parse(userStr); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fns), &p.FunctionsSchema); err != nil {
		return nil, fmt.Errorf("decode functions_schema: %w", err)
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}

// Humans and personas.

func (s *SQLiteStore) AddHuman(ctx context.Context, human *core.Human) error {
	return s.upsertBlock(ctx, "humans", human.UserID, human.Name, human.ID, human.Text)
}

func (s *SQLiteStore) GetHuman(ctx context.Context, userID uuid.UUID, name string) (*core.Human, error) {
	id, text, err := s.getBlock(ctx, "humans", userID, name)
	if err != nil {
		return nil, err
	}
	return &core.Human{ID: id, UserID: userID, Name: name, Text: text}, nil
}

func (s *SQLiteStore) ListHumans(ctx context.Context, userID uuid.UUID) ([]core.Human, error) {
	entries, err := s.listBlocks(ctx, "humans", userID)
	if err != nil {
		return nil, err
	}
	humans := make([]core.Human, 0, len(entries))
	for _, e := range entries {
		humans = append(humans, core.Human{ID: e.id, UserID: userID, Name: e.name, Text: e.text})
	}
	return humans, nil
}

func (s *SQLiteStore) DeleteHuman(ctx context.Context, userID uuid.UUID, name string) error {
	return s.deleteBlock(ctx, "humans", userID, name)
}

func (s *SQLiteStore) AddPersona(ctx context.Context, persona *core.Persona) error {
	return s.upsertBlock(ctx, "personas", persona.UserID, persona.Name, persona.ID, persona.Text)
}

func (s *SQLiteStore) GetPersona(ctx context.Context, userID uuid.UUID, name string) (*core.Persona, error) {
	id, text, err := s.getBlock(ctx, "personas", userID, name)
	if err != nil {
		return nil, err
	}
	return &core.Persona{ID: id, UserID: userID, Name: name, Text: text}, nil
}

func (s *SQLiteStore) ListPersonas(ctx context.Context, userID uuid.UUID) ([]core.Persona, error) {
	entries, err := s.listBlocks(ctx, "personas", userID)
	if err != nil {
		return nil, err
	}
	personas := make([]core.Persona, 0, len(entries))
	for _, e := range entries {
		personas = append(personas, core.Persona{ID: e.id, UserID: userID, Name: e.name, Text: e.text})
	}
	return personas, nil
}

func (s *SQLiteStore) DeletePersona(ctx context.Context, userID uuid.UUID, name string) error {
	return s.deleteBlock(ctx, "personas", userID, name)
}

type blockEntry struct {
	id   uuid.UUID
	name string
	text string
}

func (s *SQLiteStore) upsertBlock(ctx context.Context, table string, userID uuid.UUID, name string, id uuid.UUID, text string) error {
	if id == uuid.Nil {
		id = uuid.New()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (user_id, name, id, text) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, name) DO UPDATE SET text = excluded.text`,
		userID.String(), name, id.String(), text,
	)
	return err
}

func (s *SQLiteStore) getBlock(ctx context.Context, table string, userID uuid.UUID, name string) (uuid.UUID, string, error) {
	var idStr, text string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, text FROM `+table+` WHERE user_id = ? AND name = ?`,
		userID.String(), name,
	).Scan(&idStr, &text)
	if err != nil {
		return uuid.Nil, "", mapErr(err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, text, nil
}

func (s *SQLiteStore) listBlocks(ctx context.Context, table string, userID uuid.UUID) ([]blockEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, text FROM `+table+` WHERE user_id = ? ORDER BY name`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []blockEntry
	for rows.Next() {
		var idStr string
		var e blockEntry
		if err := rows.Scan(&idStr, &e.name, &e.text); err != nil {
			return nil, err
		}
		if e.id, err = uuid.Parse(idStr); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) deleteBlock(ctx context.Context, table string, userID uuid.UUID, name string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND name = ?`, userID.String(), name)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Sources.

const sourceCols = `id, user_id, name, description, embedding_model, embedding_dim, embedding_chunk_size, created_at`

func (s *SQLiteStore) CreateSource(ctx context.Context, source *core.Source) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sources (`+sourceCols+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		source.ID.String(), source.UserID.String(), source.Name, source.Description,
		source.EmbeddingModel, source.EmbeddingDim, source.EmbeddingChunkSize,
		source.CreatedAt.Unix(),
	)
	return mapErr(err)
}

func (s *SQLiteStore) GetSource(ctx context.Context, id uuid.UUID) (*core.Source, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sourceCols+` FROM sources WHERE id = ?`, id.String())
	return scanSource(row)
}

func (s *SQLiteStore) GetSourceByName(ctx context.Context, userID uuid.UUID, name string) (*core.Source, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sourceCols+` FROM sources WHERE user_id = ? AND name = ?`,
		userID.String(), name)
	return scanSource(row)
}

func (s *SQLiteStore) ListSources(ctx context.Context, userID uuid.UUID) ([]core.Source, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sourceCols+` FROM sources WHERE user_id = ? ORDER BY name`, userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSources(rows)
}

func (s *SQLiteStore) DeleteSource(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM agent_sources WHERE source_id = ?`, id.String()); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM passages WHERE source_id = ?`, id.String()); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) AttachSource(ctx context.Context, agentID, sourceID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO agent_sources (agent_id, source_id) VALUES (?, ?)`,
		agentID.String(), sourceID.String(),
	)
	return err
}

func (s *SQLiteStore) DetachSource(ctx context.Context, agentID, sourceID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM agent_sources WHERE agent_id = ? AND source_id = ?`,
		agentID.String(), sourceID.String(),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) ListAttachedSources(ctx context.Context, agentID uuid.UUID) ([]core.Source, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.name, s.description, s.embedding_model,
		        s.embedding_dim, s.embedding_chunk_size, s.created_at
		 FROM sources s JOIN agent_sources a ON a.source_id = s.id
		 WHERE a.agent_id = ? ORDER BY s.name`, agentID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSources(rows)
}

func scanSource(row scanner) (*core.Source, error) {
	var (
		idStr, userStr string
		createdAt      int64
		src            core.Source
	)
	err := row.Scan(&idStr, &userStr, &src.Name, &src.Description,
		&src.EmbeddingModel, &src.EmbeddingDim, &src.EmbeddingChunkSize, &createdAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if src.ID, err = uuid.Parse(idStr); err != nil {
		return nil, err
	}
	if src.UserID, err = uuid.Parse(userStr); err != nil {
		return nil, err
	}
	src.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &src, nil
}

func collectSources(rows *sql.Rows) ([]core.Source, error) {
	var sources []core.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *src)
	}
	return sources, rows.Err()
}

// Jobs.

func (s *SQLiteStore) CreateJob(ctx context.Context, job *core.Job) error {
	meta, err := json.Marshal(orEmpty(job.Metadata))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, status, metadata, created_at) VALUES (?, ?, ?, ?)`,
		job.ID.String(), string(job.Status), string(meta), job.CreatedAt.Unix(),
	)
	return mapErr(err)
}

func (s *SQLiteStore) UpdateJob(ctx context.Context, job *core.Job) error {
	meta, err := json.Marshal(orEmpty(job.Metadata))
	if err != nil {
		return err
	}
	var completed any
	if !job.CompletedAt.IsZero() {
		completed = job.CompletedAt.Unix()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, metadata = ?, completed_at = ? WHERE id = ?`,
		string(job.Status), string(meta), completed, job.ID.String(),
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) GetJob(ctx context.Context, id uuid.UUID) (*core.Job, error) {
	var (
		idStr, status, meta string
		createdAt           int64
		completedAt         sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, metadata, created_at, completed_at FROM jobs WHERE id = ?`,
		id.String(),
	).Scan(&idStr, &status, &meta, &createdAt, &completedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	job := &core.Job{
		ID:        id,
		Status:    core.JobStatus(status),
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}
	if err := json.Unmarshal([]byte(meta), &job.Metadata); err != nil {
		return nil, fmt.Errorf("decode job metadata: %w", err)
	}
	if completedAt.Valid {
		job.CompletedAt = time.Unix(completedAt.Int64, 0).UTC()
	}
	return job, nil
}

// Messages.

func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *core.Message) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, agent_id, user_id, role, name, text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.ID.String(), msg.AgentID.String(), msg.UserID.String(),
		msg.Role, msg.Name, msg.Text, msg.CreatedAt.Unix(),
	)
	if err != nil {
		return mapErr(err)
	}
	msg.Seq, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) MessagesPage(ctx context.Context, agentID, before, after uuid.UUID, limit int) ([]core.Message, error) {
	rows, err := s.pageQuery(ctx, "messages",
		`id, agent_id, user_id, role, name, text, created_at, seq`,
		agentID, before, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []core.Message
	for rows.Next() {
		var (
			idStr, agentStr, userStr string
			createdAt                int64
			m                        core.Message
		)
		if err := rows.Scan(&idStr, &agentStr, &userStr, &m.Role, &m.Name, &m.Text, &createdAt, &m.Seq); err != nil {
			return nil, err
		}
		if m.ID, err = uuid.Parse(idStr); err != nil {
			return nil, err
		}
		if m.AgentID, err = uuid.Parse(agentStr); err != nil {
			return nil, err
		}
		if userStr != "" {
			if m.UserID, err = uuid.Parse(userStr); err != nil {
				return nil, err
			}
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *SQLiteStore) CountMessages(ctx context.Context, agentID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE agent_id = ?`, agentID.String()).Scan(&n)
	return n, err
}

// Passages.

func (s *SQLiteStore) AppendPassage(ctx context.Context, p *core.Passage) error {
	emb, err := json.Marshal(p.Embedding)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO passages (id, agent_id, source_id, user_id, text, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), uuidOrEmpty(p.AgentID), uuidOrEmpty(p.SourceID),
		uuidOrEmpty(p.UserID), p.Text, string(emb), p.CreatedAt.Unix(),
	)
	if err != nil {
		return mapErr(err)
	}
	p.Seq, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) PassagesPage(ctx context.Context, agentID, before, after uuid.UUID, limit int) ([]core.Passage, error) {
	rows, err := s.pageQuery(ctx, "passages",
		`id, agent_id, source_id, user_id, text, embedding, created_at, seq`,
		agentID, before, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPassages(rows)
}

func scanPassages(rows *sql.Rows) ([]core.Passage, error) {
	var passages []core.Passage
	for rows.Next() {
		var (
			idStr, agentStr, sourceStr, userStr, emb string
			createdAt                                int64
			p                                        core.Passage
			err                                      error
		)
		if err := rows.Scan(&idStr, &agentStr, &sourceStr, &userStr, &p.Text, &emb, &createdAt, &p.Seq); err != nil {
			return nil, err
		}
		if p.ID, err = uuid.Parse(idStr); err != nil {
			return nil, err
		}
		if agentStr != "" {
			if p.AgentID, err = uuid.Parse(agentStr); err != nil {
				return nil, err
			}
		}
		if sourceStr != "" {
			if p.SourceID, err = uuid.Parse(sourceStr); err != nil {
				return nil, err
			}
		}
		if userStr != "" {
			if p.UserID, err = uuid.Parse(userStr); err != nil {
				return nil, err
			}
		}
		if err := json.Unmarshal([]byte(emb), &p.Embedding); err != nil {
			return nil, fmt.Errorf("decode embedding: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		passages = append(passages, p)
	}
	return passages, rows.Err()
}

func (s *SQLiteStore) PassagesBySource(ctx context.Context, sourceID uuid.UUID) ([]core.Passage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, agent_id, source_id, user_id, text, embedding, created_at, seq
		 FROM passages WHERE source_id = ? ORDER BY seq ASC`, sourceID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPassages(rows)
}

func (s *SQLiteStore) DeletePassage(ctx context.Context, agentID, passageID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM passages WHERE agent_id = ? AND id = ?`,
		agentID.String(), passageID.String())
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *SQLiteStore) CountPassages(ctx context.Context, agentID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM passages WHERE agent_id = ?`, agentID.String()).Scan(&n)
	return n, err
}

// pageQuery builds the shared cursor query. Records order by seq ascending;
// before and after are exclusive bounds resolved from record ids.
func (s *SQLiteStore) pageQuery(ctx context.Context, table, cols string, agentID, before, after uuid.UUID, limit int) (*sql.Rows, error) {
	q := `SELECT ` + cols + ` FROM ` + table + ` WHERE agent_id = ?`
	args := []any{agentID.String()}
	if after != uuid.Nil {
		q += ` AND seq > (SELECT seq FROM ` + table + ` WHERE id = ?)`
		args = append(args, after.String())
	}
	if before != uuid.Nil {
		q += ` AND seq < (SELECT seq FROM ` + table + ` WHERE id = ?)`
		args = append(args, before.String())
	}
	q += ` ORDER BY seq ASC LIMIT ?`
	args = append(args, limit)
	return s.db.QueryContext(ctx, q, args...)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func uuidOrEmpty(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

var _ Store = (*SQLiteStore)(nil)
