// Package db provides PostgreSQL persistence for analysis results.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Schema creates the analyses table. Migrate applies it idempotently.
const Schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id          UUID PRIMARY KEY,
	final_score DOUBLE PRECISION NOT NULL,
	grade       TEXT NOT NULL,
	result      JSONB NOT NULL,
	enhanced    JSONB,
	ml          JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS analyses_created_at_idx ON analyses (created_at DESC);
`

const defaultListLimit = 50

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the tables the store needs.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// NewAnalysis builds a row from an analysis result. The row ID comes from
// result.ID when it is a UUID, otherwise a fresh one is generated and written
// back to the result and enhanced copies.
func NewAnalysis(result *types.AnalysisResult, enhanced *types.EnhancedAnalysisResult, ml *types.MLScore) (*Analysis, error) {
	if result == nil {
		return nil, errors.New("analysis result is nil")
	}
	id, err := uuid.Parse(result.ID)
	if err != nil {
		id = uuid.New()
		result.ID = id.String()
	}
	a := &Analysis{
		ID:         id,
		FinalScore: result.FinalScore,
		Grade:      result.Grade,
		Result:     result,
		Enhanced:   enhanced,
		ML:         ml,
	}
	if enhanced != nil {
		enhanced.ID = id.String()
		a.FinalScore = enhanced.FinalScore
		a.Grade = enhanced.Grade
	}
	return a, nil
}

// SaveAnalysis upserts an analysis by ID.
func (db *DB) SaveAnalysis(ctx context.Context, a *Analysis) error {
	resultJSON, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	enhancedJSON, err := marshalOptional(a.Enhanced != nil, a.Enhanced)
	if err != nil {
		return fmt.Errorf("failed to marshal enhanced result: %w", err)
	}
	mlJSON, err := marshalOptional(a.ML != nil, a.ML)
	if err != nil {
		return fmt.Errorf("failed to marshal ml score: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO analyses (id, final_score, grade, result, enhanced, ml)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET final_score = $2, grade = $3, result = $4, enhanced = $5, ml = $6
		 RETURNING created_at`,
		a.ID, a.FinalScore, string(a.Grade), resultJSON, enhancedJSON, mlJSON,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", a.ID, err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID. It returns nil, nil when no row exists.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	var a Analysis
	var grade string
	var resultJSON, enhancedJSON, mlJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, final_score, grade, result, enhanced, ml, created_at
		 FROM analyses WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.FinalScore, &grade, &resultJSON, &enhancedJSON, &mlJSON, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	a.Grade = types.Grade(grade)

	if err := decodeColumns(&a, resultJSON, enhancedJSON, mlJSON); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnalyses returns recent analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, filters AnalysisFilters) ([]AnalysisSummary, error) {
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	}

	query := `SELECT id, final_score, grade, enhanced IS NOT NULL, created_at
		FROM analyses WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Grade != "" {
		query += fmt.Sprintf(" AND grade = $%d", argNum)
		args = append(args, string(filters.Grade))
		argNum++
	}
	if filters.MinScore > 0 {
		query += fmt.Sprintf(" AND final_score >= $%d", argNum)
		args = append(args, filters.MinScore)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisSummary
	for rows.Next() {
		var s AnalysisSummary
		var grade string
		if err := rows.Scan(&s.ID, &s.FinalScore, &grade, &s.Enhanced, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		s.Grade = types.Grade(grade)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return out, nil
}

// DeleteAnalysis removes an analysis by ID.
func (db *DB) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis not found: %s", id)
	}
	return nil
}

func marshalOptional(present bool, v any) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return json.Marshal(v)
}

func decodeColumns(a *Analysis, resultJSON, enhancedJSON, mlJSON []byte) error {
	a.Result = &types.AnalysisResult{}
	if err := json.Unmarshal(resultJSON, a.Result); err != nil {
		return fmt.Errorf("failed to decode result for %s: %w", a.ID, err)
	}
	if len(enhancedJSON) > 0 {
		a.Enhanced = &types.EnhancedAnalysisResult{}
		if err := json.Unmarshal(enhancedJSON, a.Enhanced); err != nil {
			return fmt.Errorf("failed to decode enhanced result for %s: %w", a.ID, err)
		}
	}
	if len(mlJSON) > 0 {
		a.ML = &types.MLScore{}
		if err := json.Unmarshal(mlJSON, a.ML); err != nil {
			return fmt.Errorf("failed to decode ml score for %s: %w", a.ID, err)
		}
	}
	return nil
}
