// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bank persists extracted questions and builds a retrieval index.
// Implements: prd004-question-bank (R1-R3);
//
//	docs/ARCHITECTURE § Question Bank.
package bank

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Bhavyaveer-Kumar/ag-ppr/internal/output"
	"github.com/Bhavyaveer-Kumar/ag-ppr/pkg/types"
)

// Store manages the question bank SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	resultsDir string
	maxResults int
}

// NewStore opens or creates the question bank database at cfg.DBPath and
// creates the schema if it does not exist (R1.1, R1.2).
func NewStore(cfg types.BankConfig) (*Store, error) {
	indexDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		indexDir:   indexDir,
		resultsDir: cfg.ResultsDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS extractions (
			id TEXT PRIMARY KEY,
			subject TEXT,
			topic TEXT,
			question_count INTEGER,
			extracted_at TEXT,
			source_files TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			extraction_id TEXT NOT NULL REFERENCES extractions(id),
			position INTEGER NOT NULL,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_extraction_id ON questions(extraction_id)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			result_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// External-content FTS5; the triggers keep the index in step with the
	// questions table.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='questions_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE questions_fts USING fts5(content, content=questions, content_rowid=rowid)`,
			`CREATE TRIGGER questions_ai AFTER INSERT ON questions BEGIN
				INSERT INTO questions_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
			`CREATE TRIGGER questions_ad AFTER DELETE ON questions BEGIN
				INSERT INTO questions_fts(questions_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			END`,
			`CREATE TRIGGER questions_au AFTER UPDATE ON questions BEGIN
				INSERT INTO questions_fts(questions_fts, rowid, content) VALUES('delete', old.rowid, old.content);
				INSERT INTO questions_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a question bank indexing run (R1.5).
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of result files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads extraction result JSON files from the results directory and
// populates the database. It detects new, changed, and unchanged files for
// incremental updates (R1.3, R1.4). After changes it refreshes the default
// YAML export.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.resultsDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading results directory %s: %w", s.resultsDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		resultID := strings.TrimSuffix(entry.Name(), ".json")
		filePath := filepath.Join(s.resultsDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", resultID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		// Check whether the file has changed since last indexing (R1.4).
		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE result_id = ?`, resultID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", resultID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		result, err := output.Load(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", resultID, err)
			summary.Failed++
			continue
		}

		if err := s.ingestResult(ctx, resultID, result, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", resultID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d questions)\n", resultID, len(result.Questions))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d questions)\n", resultID, len(result.Questions))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}, s.DefaultExportPath("yaml")); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestResult(ctx context.Context, resultID string, result types.ExtractionResult, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove old questions if updating (R1.4).
	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE extraction_id = ?`, resultID); err != nil {
			return fmt.Errorf("deleting old questions: %w", err)
		}
	}

	sourcesJSON, _ := json.Marshal(result.SourceFiles)
	extractedAt := ""
	if !result.ExtractedAt.IsZero() {
		extractedAt = result.ExtractedAt.UTC().Format(time.RFC3339)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO extractions (id, subject, topic, question_count, extracted_at, source_files)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			subject=excluded.subject, topic=excluded.topic,
			question_count=excluded.question_count, extracted_at=excluded.extracted_at,
			source_files=excluded.source_files`,
		resultID, result.Subject, result.Topic, result.QuestionCount, extractedAt, string(sourcesJSON),
	); err != nil {
		return fmt.Errorf("upserting extraction: %w", err)
	}

	// Insert questions preserving result order (R1.2).
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (extraction_id, position, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, q := range result.Questions {
		if _, err := stmt.ExecContext(ctx, resultID, i, q); err != nil {
			return fmt.Errorf("inserting question %d: %w", i, err)
		}
	}

	// Update indexing status (R1.4).
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO indexing_status (result_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(result_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		resultID, modTime,
	); err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}
