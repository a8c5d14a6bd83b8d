package server

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mnemos-ai/mnemos-go-sdk/core"
)

// defaultChunkSize bounds passage length when an embedding config carries no
// chunk size. Measured in runes, not tokens.
const defaultChunkSize = 1000

// LoadFile starts an ingestion job for the file and returns it immediately
// in the pending state. A background goroutine chunks the file, embeds each
// chunk, records the passages under the source, and drives the job to
// completed or failed. Callers poll GetJob for the outcome.
func (s *Server) LoadFile(ctx context.Context, userID, sourceID uuid.UUID, filename string) (*core.Job, error) {
	src, err := s.store.GetSource(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if src.UserID != userID {
		return nil, fmt.Errorf("load file: source %s: %w", sourceID, errNotOwned)
	}

	job := &core.Job{
		ID:        uuid.New(),
		Status:    core.JobStatusPending,
		Metadata:  map[string]any{"filename": filename, "source_id": sourceID.String()},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	log.Printf("[INGEST] Job %s created for %s into source %s", job.ID, filename, src.Name)

	// The job outlives the request context.
	go s.runIngestion(context.Background(), userID, src, filename, job.ID)

	return job, nil
}

var errNotOwned = fmt.Errorf("not owned by user")

func (s *Server) runIngestion(ctx context.Context, userID uuid.UUID, src *core.Source, filename string, jobID uuid.UUID) {
	fail := func(cause error) {
		log.Printf("[INGEST] Job %s failed: %v", jobID, cause)
		s.finishJob(ctx, jobID, core.JobStatusFailed, map[string]any{
			"filename": filename,
			"error":    cause.Error(),
		})
	}

	if err := s.setJobStatus(ctx, jobID, core.JobStatusRunning); err != nil {
		log.Printf("[INGEST] Job %s: mark running: %v", jobID, err)
		return
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		fail(fmt.Errorf("read file: %w", err))
		return
	}

	// The source's embedding configuration governs chunking, not the
	// server defaults in effect at ingestion time.
	chunkSize := src.EmbeddingChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	chunks := chunkText(string(data), chunkSize)
	if len(chunks) == 0 {
		fail(fmt.Errorf("file %s contains no ingestible text", filename))
		return
	}

	for _, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			fail(fmt.Errorf("embed chunk: %w", err))
			return
		}
		p := &core.Passage{
			ID:        uuid.New(),
			SourceID:  src.ID,
			UserID:    userID,
			Text:      chunk,
			Embedding: embedding,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.store.AppendPassage(ctx, p); err != nil {
			fail(fmt.Errorf("store passage: %w", err))
			return
		}
	}

	log.Printf("[INGEST] Job %s completed: %d passages", jobID, len(chunks))
	s.finishJob(ctx, jobID, core.JobStatusCompleted, map[string]any{
		"filename":     filename,
		"num_passages": len(chunks),
	})
}

func (s *Server) setJobStatus(ctx context.Context, jobID uuid.UUID, status core.JobStatus) error {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	job.Status = status
	return s.store.UpdateJob(ctx, job)
}

func (s *Server) finishJob(ctx context.Context, jobID uuid.UUID, status core.JobStatus, metadata map[string]any) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		log.Printf("[INGEST] Job %s: load for finish: %v", jobID, err)
		return
	}
	job.Status = status
	job.Metadata = metadata
	job.CompletedAt = time.Now().UTC()
	if err := s.store.UpdateJob(ctx, job); err != nil {
		log.Printf("[INGEST] Job %s: record finish: %v", jobID, err)
	}
}

// chunkText splits text into passages of at most size runes, preferring
// paragraph boundaries and skipping whitespace-only chunks.
func chunkText(text string, size int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	var chunks []string
	flush := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			chunks = append(chunks, s)
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		runes := []rune(para)
		for len(runes) > size {
			flush(string(runes[:size]))
			runes = runes[size:]
		}
		flush(string(runes))
	}
	return chunks
}
