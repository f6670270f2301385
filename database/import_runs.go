/*
Copyright 2025 Centavo Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"
	"go.opentelemetry.io/otel"

	"github.com/centavohq/centavo/internal/apierror"
	"github.com/centavohq/centavo/model"
)

// RecordImportRun saves a new import run in its initial state.
func (d Datasource) RecordImportRun(ctx context.Context, run *model.ImportRun) error {
	ctx, span := otel.Tracer("import.database").Start(ctx, "Saving import run to db")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO import_runs (import_id, file_name, status, total_rows, succeeded, errored, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, run.ImportID, run.FileName, run.Status, run.TotalRows, run.Succeeded, run.Errored, run.StartedAt)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to record import run", err)
	}

	return nil
}

// UpdateImportRunStatus moves a run between lifecycle states without touching
// its counters.
func (d Datasource) UpdateImportRunStatus(ctx context.Context, importID string, status string) error {
	ctx, span := otel.Tracer("import.database").Start(ctx, "Updating import run status")
	defer span.End()

	_, err := d.Conn.ExecContext(ctx, `
		UPDATE import_runs SET status = $2 WHERE import_id = $1
	`, importID, status)

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to update import run status", err)
	}

	return nil
}

// CompleteImportRun stores the terminal status, counters and the full summary
// document for later retrieval.
func (d Datasource) CompleteImportRun(ctx context.Context, importID string, status string, summary *model.ImportSummary) error {
	ctx, span := otel.Tracer("import.database").Start(ctx, "Completing import run")
	defer span.End()

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to marshal import summary", err)
	}

	_, err = d.Conn.ExecContext(ctx, `
		UPDATE import_runs
		SET status = $2, total_rows = $3, succeeded = $4, errored = $5,
			summary = $6, completed_at = $7
		WHERE import_id = $1
	`, importID, status, summary.TotalRows, summary.Succeeded, summary.Errored,
		summaryJSON, time.Now())

	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to complete import run", err)
	}

	return nil
}

// GetStuckImportRuns returns runs that never reached a terminal status and
// were started before the given cut-off. The recovery processor uses this to
// detect runs orphaned by a crashed worker.
func (d Datasource) GetStuckImportRuns(ctx context.Context, olderThan time.Time) ([]*model.ImportRun, error) {
	ctx, span := otel.Tracer("import.database").Start(ctx, "Fetching stuck import runs")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, import_id, file_name, status, total_rows, succeeded, errored, started_at, completed_at
		FROM import_runs
		WHERE status IN ('queued', 'started', 'in_progress') AND started_at < $1
		ORDER BY started_at ASC
		LIMIT 100
	`, olderThan)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve stuck import runs", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	var runs []*model.ImportRun
	for rows.Next() {
		run := model.ImportRun{}
		var completedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.ImportID, &run.FileName, &run.Status, &run.TotalRows,
			&run.Succeeded, &run.Errored, &run.StartedAt, &completedAt); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan stuck import run", err)
		}
		if completedAt.Valid {
			run.CompletedAt = ptr.Time(completedAt.Time)
		}
		runs = append(runs, &run)
	}

	return runs, nil
}

func (d Datasource) GetImportRun(ctx context.Context, importID string) (*model.ImportRun, error) {
	ctx, span := otel.Tracer("import.database").Start(ctx, "Fetching import run")
	defer span.End()

	run := model.ImportRun{}
	var summaryJSON []byte
	var completedAt sql.NullTime

	err := d.Conn.QueryRowContext(ctx, `
		SELECT id, import_id, file_name, status, total_rows, succeeded, errored, summary, started_at, completed_at
		FROM import_runs
		WHERE import_id = $1
	`, importID).Scan(&run.ID, &run.ImportID, &run.FileName, &run.Status,
		&run.TotalRows, &run.Succeeded, &run.Errored, &summaryJSON,
		&run.StartedAt, &completedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound, "Import run not found", err)
		}
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve import run", err)
	}

	if completedAt.Valid {
		run.CompletedAt = ptr.Time(completedAt.Time)
	}
	if len(summaryJSON) > 0 {
		summary := model.ImportSummary{}
		if err := json.Unmarshal(summaryJSON, &summary); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to unmarshal import summary", err)
		}
		run.Summary = &summary
	}

	return &run, nil
}

func (d Datasource) GetAllImportRuns(ctx context.Context, limit int, offset int) ([]*model.ImportRun, error) {
	ctx, span := otel.Tracer("import.database").Start(ctx, "Fetching import runs")
	defer span.End()

	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, import_id, file_name, status, total_rows, succeeded, errored, started_at, completed_at
		FROM import_runs
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve import runs", err)
	}
	defer rows.Close()

	runs := []*model.ImportRun{}

	for rows.Next() {
		run := model.ImportRun{}
		var completedAt sql.NullTime
		err = rows.Scan(&run.ID, &run.ImportID, &run.FileName, &run.Status,
			&run.TotalRows, &run.Succeeded, &run.Errored, &run.StartedAt, &completedAt)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan import run", err)
		}
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		runs = append(runs, &run)
	}

	if err = rows.Err(); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Error occurred while iterating over import runs", err)
	}

	return runs, nil
}
