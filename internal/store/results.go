package store

import (
	"context"
	"fmt"
	"time"
)

// TestResult is one recorded suite outcome row.
type TestResult struct {
	// SuiteID is the suite's resolved identity (alias or fingerprint).
	SuiteID string

	// Alias is the human-chosen suite name, empty for unaliased suites.
	Alias string

	// SpecID is the spec's stable identity (name-version-hash).
	SpecID string

	// SpecName is the package name.
	SpecName string

	// Status is the literal status token (PASSED, FAILED, ...).
	Status string

	// Message is the optional reason text.
	Message string

	// RecordedAt is when the result was appended.
	RecordedAt time.Time
}

// RecordResult inserts one result row.
// Rows are append-only; nothing here is ever updated or deleted.
func (s *Store) RecordResult(ctx context.Context, r TestResult) error {
	recordedAt := r.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suite_results
		(suite_id, alias, spec_id, spec_name, status, message, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		r.SuiteID,
		r.Alias,
		r.SpecID,
		r.SpecName,
		r.Status,
		r.Message,
		recordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}

	return nil
}

// ResultsForSuite returns all rows recorded for a suite identity, in
// insertion order.
func (s *Store) ResultsForSuite(ctx context.Context, suiteID string) ([]TestResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT suite_id, alias, spec_id, spec_name, status, message, recorded_at
		FROM suite_results
		WHERE suite_id = ?
		ORDER BY id ASC
	`, suiteID)
	if err != nil {
		return nil, fmt.Errorf("query suite results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// RecentResults returns the newest rows across all suites, most recent
// first, limited to at most limit rows.
func (s *Store) RecentResults(ctx context.Context, limit int) ([]TestResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT suite_id, alias, spec_id, spec_name, status, message, recorded_at
		FROM suite_results
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanResults reads TestResult rows from a result set.
func scanResults(rows rowScanner) ([]TestResult, error) {
	var results []TestResult
	for rows.Next() {
		var r TestResult
		var recordedAt string
		if err := rows.Scan(&r.SuiteID, &r.Alias, &r.SpecID, &r.SpecName, &r.Status, &r.Message, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		t, err := time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
		}
		r.RecordedAt = t
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}
	return results, nil
}
