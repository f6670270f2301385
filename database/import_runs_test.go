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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/centavohq/centavo/model"
)

func TestRecordImportRun_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	ctx := context.TODO()

	run := &model.ImportRun{
		ImportID:  "imp_123",
		FileName:  "egresos-2023.csv",
		Status:    "queued",
		StartedAt: time.Now(),
	}

	mock.ExpectExec("INSERT INTO import_runs").
		WithArgs(run.ImportID, run.FileName, run.Status, run.TotalRows, run.Succeeded, run.Errored, run.StartedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = ds.RecordImportRun(ctx, run)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteImportRun_PersistsSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	ctx := context.TODO()

	summary := &model.ImportSummary{
		TotalRows: 10,
		Succeeded: 8,
		Errored:   2,
		Created:   5,
		Updated:   3,
	}

	mock.ExpectExec("UPDATE import_runs").
		WithArgs("imp_123", "completed", summary.TotalRows, summary.Succeeded,
			summary.Errored, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = ds.CompleteImportRun(ctx, "imp_123", "completed", summary)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetImportRun_UnmarshalsSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	ctx := context.TODO()
	started := time.Now()
	completed := started.Add(time.Minute)

	rows := sqlmock.NewRows([]string{"id", "import_id", "file_name", "status", "total_rows", "succeeded", "errored", "summary", "started_at", "completed_at"}).
		AddRow(1, "imp_123", "egresos-2023.csv", "completed", 10, 8, 2,
			[]byte(`{"total_rows":10,"succeeded":8,"errored":2,"created":5,"updated":3}`),
			started, completed)

	mock.ExpectQuery("SELECT id, import_id, file_name").
		WithArgs("imp_123").
		WillReturnRows(rows)

	run, err := ds.GetImportRun(ctx, "imp_123")
	assert.NoError(t, err)
	assert.NotNil(t, run.Summary)
	assert.Equal(t, 8, run.Summary.Succeeded)
	assert.NotNil(t, run.CompletedAt)
}

func TestGetStuckImportRuns_ReturnsNonTerminalRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ds := Datasource{Conn: db}
	ctx := context.TODO()
	cutoff := time.Now().Add(-time.Hour)

	rows := sqlmock.NewRows([]string{"id", "import_id", "file_name", "status", "total_rows", "succeeded", "errored", "started_at", "completed_at"}).
		AddRow(1, "imp_old", "egresos-2022.csv", "in_progress", 0, 0, 0, cutoff.Add(-time.Hour), nil).
		AddRow(2, "imp_older", "egresos-2021.csv", "queued", 0, 0, 0, cutoff.Add(-2*time.Hour), nil)

	mock.ExpectQuery("SELECT id, import_id, file_name").
		WithArgs(cutoff).
		WillReturnRows(rows)

	runs, err := ds.GetStuckImportRuns(ctx, cutoff)
	assert.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.Equal(t, "imp_old", runs[0].ImportID)
	assert.Nil(t, runs[0].CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
