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
	"time"

	"github.com/centavohq/centavo/model"
)

type IDataSource interface {
	client
	project
	expense
	importRun
}

type client interface {
	CreateClient(client model.Client) (model.Client, error)
	GetAllClients(ctx context.Context) ([]model.Client, error)
	GetClientByTaxID(ctx context.Context, taxID string) (*model.Client, error)
}

type project interface {
	CreateProject(project model.Project) (model.Project, error)
	GetAllProjects(ctx context.Context) ([]model.Project, error)
}

type expense interface {
	CreateExpenseRecord(ctx context.Context, record *model.ExpenseRecord) error
	UpdateExpenseRecord(ctx context.Context, record *model.ExpenseRecord) error
	UpdateExpenseAttachments(ctx context.Context, expenseID string, invoiceURL, invoiceFileName, receiptURL, receiptFileName string) error
	GetAllExpenseRecords(ctx context.Context) ([]*model.ExpenseRecord, error)
	GetExpenseRecord(ctx context.Context, expenseID string) (*model.ExpenseRecord, error)
}

type importRun interface {
	RecordImportRun(ctx context.Context, run *model.ImportRun) error
	UpdateImportRunStatus(ctx context.Context, importID string, status string) error
	CompleteImportRun(ctx context.Context, importID string, status string, summary *model.ImportSummary) error
	GetImportRun(ctx context.Context, importID string) (*model.ImportRun, error)
	GetAllImportRuns(ctx context.Context, limit int, offset int) ([]*model.ImportRun, error)
	GetStuckImportRuns(ctx context.Context, olderThan time.Time) ([]*model.ImportRun, error)
}
