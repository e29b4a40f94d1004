package index

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PGVector is an index backed by a Postgres table with the pgvector
// extension. The table is session-scoped: Load drops and recreates it, so
// nothing survives a restart.
type PGVector struct {
	pool *pgxpool.Pool
	size int
}

// NewPGVector connects to Postgres and verifies the connection
func NewPGVector(ctx context.Context, connString string) (*PGVector, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PGVector{pool: pool}, nil
}

// Load recreates the session table and inserts all entries in one batch
func (p *PGVector) Load(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("no entries to load")
	}
	dim := len(entries[0].Embedding)

	if _, err := p.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to enable pgvector: %w", err)
	}
	if _, err := p.pool.Exec(ctx, `DROP TABLE IF EXISTS docchat_segments`); err != nil {
		return fmt.Errorf("failed to drop session table: %w", err)
	}
	createSQL := fmt.Sprintf(
		`CREATE TABLE docchat_segments (
			id UUID PRIMARY KEY,
			seg_index INT NOT NULL,
			page INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, dim)
	if _, err := p.pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create session table: %w", err)
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(
			`INSERT INTO docchat_segments (id, seg_index, page, content, embedding)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), e.Segment.Index, e.Segment.Page, e.Segment.Text,
			pgvector.NewVector(e.Embedding),
		)
	}
	br := p.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(entries); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert segment %d: %w", i, err)
		}
	}

	p.size = len(entries)
	return nil
}

// Len returns the number of indexed segments
func (p *PGVector) Len() int { return p.size }

// Search finds the top-k segments by cosine similarity
func (p *PGVector) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		k = 3
	}
	rows, err := p.pool.Query(ctx,
		`SELECT seg_index, page, content, 1 - (embedding <=> $1) AS score
		 FROM docchat_segments
		 ORDER BY embedding <=> $1, seg_index
		 LIMIT $2`,
		pgvector.NewVector(vector), k,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search segments: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var score float64
		if err := rows.Scan(&m.Segment.Index, &m.Segment.Page, &m.Segment.Text, &score); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		m.Score = float32(score)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// Close closes the connection pool
func (p *PGVector) Close() {
	p.pool.Close()
}
