package archival

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// Index stores passage embeddings in chromem-go. Each agent gets its own
// collection for namespace isolation; source passages live in the owning
// agent's collection once attached and copied in.
type Index struct {
	db          *chromem.DB
	collections map[uuid.UUID]*chromem.Collection
	mu          sync.RWMutex
}

// NewIndex creates an in-memory vector index.
func NewIndex() *Index {
	return &Index{
		db:          chromem.NewDB(),
		collections: make(map[uuid.UUID]*chromem.Collection),
	}
}

func (ix *Index) collection(agentID uuid.UUID) (*chromem.Collection, error) {
	ix.mu.RLock()
	col, ok := ix.collections[agentID]
	ix.mu.RUnlock()
	if ok {
		return col, nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if col, ok := ix.collections[agentID]; ok {
		return col, nil
	}

	col, err := ix.db.CreateCollection(fmt.Sprintf("agent_%s", agentID), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	ix.collections[agentID] = col
	return col, nil
}

// Add indexes a passage under its agent's collection. The passage must
// already carry an embedding.
func (ix *Index) Add(ctx context.Context, p *core.Passage) error {
	col, err := ix.collection(p.AgentID)
	if err != nil {
		return err
	}

	log.Printf("[ARCHIVAL] Indexing passage: id=%s, agent=%s", p.ID, p.AgentID)

	doc := chromem.Document{
		ID:        p.ID.String(),
		Content:   p.Text,
		Embedding: p.Embedding,
		Metadata: map[string]string{
			"source_id":  idOrEmpty(p.SourceID),
			"user_id":    idOrEmpty(p.UserID),
			"created_at": p.CreatedAt.UTC().Format(time.RFC3339),
		},
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Hit is a similarity-search result.
type Hit struct {
	Passage    core.Passage
	Similarity float32
}

// Search returns up to limit passages from the agent's collection ranked by
// cosine similarity to the query embedding.
func (ix *Index) Search(ctx context.Context, agentID uuid.UUID, embedding []float32, limit int) ([]Hit, error) {
	col, err := ix.collection(agentID)
	if err != nil {
		return nil, err
	}

	// chromem-go requires nResults <= collection size, so back off until
	// the query fits.
	var results []chromem.Result
	for n := limit; n >= 1; n-- {
		results, err = col.QueryEmbedding(ctx, embedding, n, nil, nil)
		if err == nil {
			break
		}
		if isInsufficientDocsError(err) {
			if n == 1 {
				return nil, nil
			}
			continue
		}
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		p, err := resultToPassage(agentID, r)
		if err != nil {
			log.Printf("[ARCHIVAL] Skipping result %s: %v", r.ID, err)
			continue
		}
		hits = append(hits, Hit{Passage: p, Similarity: r.Similarity})
	}
	log.Printf("[ARCHIVAL] Search agent=%s returned %d hits", agentID, len(hits))
	return hits, nil
}

// Delete removes a passage from the agent's collection. Missing documents
// are not an error.
func (ix *Index) Delete(ctx context.Context, agentID, passageID uuid.UUID) error {
	col, err := ix.collection(agentID)
	if err != nil {
		return err
	}
	return col.Delete(ctx, nil, nil, passageID.String())
}

// Drop discards an agent's whole collection.
func (ix *Index) Drop(ctx context.Context, agentID uuid.UUID) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, ok := ix.collections[agentID]; !ok {
		return nil
	}
	delete(ix.collections, agentID)
	return ix.db.DeleteCollection(fmt.Sprintf("agent_%s", agentID))
}

func resultToPassage(agentID uuid.UUID, r chromem.Result) (core.Passage, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return core.Passage{}, fmt.Errorf("parse passage id: %w", err)
	}
	p := core.Passage{
		ID:        id,
		AgentID:   agentID,
		Text:      r.Content,
		Embedding: r.Embedding,
	}
	if s := r.Metadata["source_id"]; s != "" {
		if p.SourceID, err = uuid.Parse(s); err != nil {
			return core.Passage{}, fmt.Errorf("parse source id: %w", err)
		}
	}
	if s := r.Metadata["user_id"]; s != "" {
		if p.UserID, err = uuid.Parse(s); err != nil {
			return core.Passage{}, fmt.Errorf("parse user id: %w", err)
		}
	}
	if s := r.Metadata["created_at"]; s != "" {
		p.CreatedAt, _ = time.Parse(time.RFC3339, s)
	}
	return p, nil
}

func isInsufficientDocsError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "nResults must be") ||
		strings.Contains(err.Error(), "number of documents")
}

func idOrEmpty(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
