// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bank

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// QueryOptions holds parameters for question bank queries (R2).
type QueryOptions struct {
	// Query is the FTS5 full-text search string (R2.1).
	Query string

	// Subject filters by the extraction's search subject (R2.2).
	Subject string

	// Topic filters by the extraction's search topic (R2.2).
	Topic string

	// MaxResults limits result count. Zero uses the store default (R2.3).
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Subject == "" && q.Topic == ""
}

// QueryResult is one stored question with its extraction metadata (R2.4).
type QueryResult struct {
	ID           int64     `json:"id" yaml:"id"`
	Question     string    `json:"question" yaml:"question"`
	Subject      string    `json:"subject" yaml:"subject"`
	Topic        string    `json:"topic" yaml:"topic"`
	ExtractionID string    `json:"extraction_id" yaml:"extraction_id"`
	ExtractedAt  time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// Search queries the bank with optional full-text search and structured
// filters (R2). Full-text queries are ranked by relevance; structured-only
// queries are ordered by extraction and position (R2.5).
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT q.rowid, q.content, q.extraction_id, e.subject, e.topic, e.extracted_at
			FROM questions_fts
			JOIN questions q ON q.rowid = questions_fts.rowid
			LEFT JOIN extractions e ON q.extraction_id = e.id
			WHERE questions_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT q.rowid, q.content, q.extraction_id, e.subject, e.topic, e.extracted_at
			FROM questions q
			LEFT JOIN extractions e ON q.extraction_id = e.id
			WHERE 1=1`)
	}

	if opts.Subject != "" {
		qb.WriteString(` AND e.subject = ?`)
		args = append(args, opts.Subject)
	}

	if opts.Topic != "" {
		qb.WriteString(` AND e.topic = ?`)
		args = append(args, opts.Topic)
	}

	if useFTS {
		qb.WriteString(` ORDER BY questions_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY q.extraction_id, q.position`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying question bank: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var (
			qr          QueryResult
			subject     sql.NullString
			topic       sql.NullString
			extractedAt sql.NullString
		)

		if err := rows.Scan(&qr.ID, &qr.Question, &qr.ExtractionID, &subject, &topic, &extractedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if subject.Valid {
			qr.Subject = subject.String
		}
		if topic.Valid {
			qr.Topic = topic.String
		}
		if extractedAt.Valid && extractedAt.String != "" {
			if t, parseErr := time.Parse(time.RFC3339, extractedAt.String); parseErr == nil {
				qr.ExtractedAt = t
			}
		}

		results = append(results, qr)
	}

	return results, rows.Err()
}
