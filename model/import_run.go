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
package model

import "time"

// ImportRun tracks one execution of a historical backfill.
type ImportRun struct {
	ID          int64          `json:"-"`
	ImportID    string         `json:"import_id"`
	FileName    string         `json:"file_name"`
	Status      string         `json:"status"`
	TotalRows   int            `json:"total_rows"`
	Succeeded   int            `json:"succeeded"`
	Errored     int            `json:"errored"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Summary     *ImportSummary `json:"summary,omitempty"`
}

// ImportSummary is the aggregate outcome of a completed run.
type ImportSummary struct {
	TotalRows           int         `json:"total_rows"`
	Succeeded           int         `json:"succeeded"`
	Errored             int         `json:"errored"`
	Created             int         `json:"created"`
	Updated             int         `json:"updated"`
	ResolvedToClient    int         `json:"resolved_to_client"`
	ResolvedToProject   int         `json:"resolved_to_project"`
	UnresolvedCompanies []string    `json:"unresolved_companies"`
	UnlinkedCompanies   []string    `json:"unlinked_companies"`
	Rows                []RowResult `json:"rows"`
}

// ClientImportSummary is the outcome of a client bulk upload. Existing
// clients are skipped by tax id, never updated.
type ClientImportSummary struct {
	TotalRows int         `json:"total_rows"`
	Created   int         `json:"created"`
	Skipped   int         `json:"skipped"`
	Errored   int         `json:"errored"`
	Rows      []RowResult `json:"rows"`
}

// RowResult records the outcome of a single row. A failed row never aborts
// its siblings; the failure only shows up here.
type RowResult struct {
	RowNumber int          `json:"row_number"`
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	RecordID  string       `json:"record_id,omitempty"`
	WasUpdate bool         `json:"was_update,omitempty"`
	Match     *MatchResult `json:"match,omitempty"`
}
