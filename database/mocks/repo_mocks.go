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
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/centavohq/centavo/model"
)

// MockDataSource is a testify mock for database.IDataSource.
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) CreateClient(client model.Client) (model.Client, error) {
	args := m.Called(client)
	return args.Get(0).(model.Client), args.Error(1)
}

func (m *MockDataSource) GetAllClients(ctx context.Context) ([]model.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Client), args.Error(1)
}

func (m *MockDataSource) GetClientByTaxID(ctx context.Context, taxID string) (*model.Client, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *MockDataSource) CreateProject(project model.Project) (model.Project, error) {
	args := m.Called(project)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockDataSource) GetAllProjects(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockDataSource) CreateExpenseRecord(ctx context.Context, record *model.ExpenseRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDataSource) UpdateExpenseRecord(ctx context.Context, record *model.ExpenseRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDataSource) UpdateExpenseAttachments(ctx context.Context, expenseID string, invoiceURL, invoiceFileName, receiptURL, receiptFileName string) error {
	args := m.Called(ctx, expenseID, invoiceURL, invoiceFileName, receiptURL, receiptFileName)
	return args.Error(0)
}

func (m *MockDataSource) GetAllExpenseRecords(ctx context.Context) ([]*model.ExpenseRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ExpenseRecord), args.Error(1)
}

func (m *MockDataSource) GetExpenseRecord(ctx context.Context, expenseID string) (*model.ExpenseRecord, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExpenseRecord), args.Error(1)
}

func (m *MockDataSource) RecordImportRun(ctx context.Context, run *model.ImportRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockDataSource) UpdateImportRunStatus(ctx context.Context, importID string, status string) error {
	args := m.Called(ctx, importID, status)
	return args.Error(0)
}

func (m *MockDataSource) CompleteImportRun(ctx context.Context, importID string, status string, summary *model.ImportSummary) error {
	args := m.Called(ctx, importID, status, summary)
	return args.Error(0)
}

func (m *MockDataSource) GetImportRun(ctx context.Context, importID string) (*model.ImportRun, error) {
	args := m.Called(ctx, importID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportRun), args.Error(1)
}

func (m *MockDataSource) GetAllImportRuns(ctx context.Context, limit int, offset int) ([]*model.ImportRun, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ImportRun), args.Error(1)
}

func (m *MockDataSource) GetStuckImportRuns(ctx context.Context, olderThan time.Time) ([]*model.ImportRun, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ImportRun), args.Error(1)
}
