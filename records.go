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

package centavo

import (
	"context"

	"github.com/centavohq/centavo/model"
)

// Thin read/write passthroughs over the datasource, kept on the service so
// the API layer never touches the database package directly.

func (s *Centavo) CreateClient(_ context.Context, client model.Client) (model.Client, error) {
	return s.datasource.CreateClient(client)
}

func (s *Centavo) GetClients(ctx context.Context) ([]model.Client, error) {
	return s.datasource.GetAllClients(ctx)
}

func (s *Centavo) CreateProject(_ context.Context, project model.Project) (model.Project, error) {
	return s.datasource.CreateProject(project)
}

func (s *Centavo) GetProjects(ctx context.Context) ([]model.Project, error) {
	return s.datasource.GetAllProjects(ctx)
}

func (s *Centavo) GetExpenseRecords(ctx context.Context) ([]*model.ExpenseRecord, error) {
	return s.datasource.GetAllExpenseRecords(ctx)
}

func (s *Centavo) GetExpenseRecord(ctx context.Context, expenseID string) (*model.ExpenseRecord, error) {
	return s.datasource.GetExpenseRecord(ctx, expenseID)
}

func (s *Centavo) GetImportRun(ctx context.Context, importID string) (*model.ImportRun, error) {
	return s.datasource.GetImportRun(ctx, importID)
}

func (s *Centavo) GetImportRuns(ctx context.Context, limit, offset int) ([]*model.ImportRun, error) {
	return s.datasource.GetAllImportRuns(ctx, limit, offset)
}
